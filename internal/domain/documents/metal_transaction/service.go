package metal_transaction

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"bullionledger/internal/core/apperror"
	appctx "bullionledger/internal/core/context"
	"bullionledger/internal/core/entity"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/numerator"
	"bullionledger/internal/core/tx"
	"bullionledger/internal/domain"
	"bullionledger/internal/domain/audit"
	"bullionledger/internal/domain/catalogs/party"
	"bullionledger/internal/domain/catalogs/stock"
	"bullionledger/internal/domain/events"
	"bullionledger/internal/domain/posting"
	"bullionledger/internal/domain/pricelock"
	"bullionledger/internal/domain/registers/balance"
	"bullionledger/internal/domain/registers/inventory"
	"bullionledger/internal/domain/registers/registry"
	"bullionledger/pkg/logger"
)

// noCurrency is the ISO 4217 code for "no currency involved".
const noCurrency = "XXX"

var tracer = otel.Tracer("bullionledger/metal_transaction")

// PartyLookup loads parties that must exist and be active.
type PartyLookup interface {
	GetActive(ctx context.Context, partyID id.ID) (*party.Party, error)
}

// StockLookup checks stock references.
type StockLookup interface {
	GetByID(ctx context.Context, id id.ID) (*stock.Stock, error)
}

// PriceLocker records pricing locks after commit.
type PriceLocker interface {
	Record(ctx context.Context, lock pricelock.Lock)
}

// Deps are the collaborators of the orchestrator.
type Deps struct {
	Repo      Repository
	Parties   PartyLookup
	Stocks    StockLookup
	Registry  *registry.Service
	Balances  *balance.Service
	Inventory *inventory.Service
	Numerator numerator.Generator
	TxManager tx.Manager
	Outbox    events.Publisher
	Audit     audit.Recorder
	Locks     PriceLocker
}

// Service is the transaction orchestrator.
type Service struct {
	repo      Repository
	parties   PartyLookup
	stocks    StockLookup
	registry  *registry.Service
	balances  *balance.Service
	inventory *inventory.Service
	numerator numerator.Generator
	txManager tx.Manager
	outbox    events.Publisher
	audit     audit.Recorder
	locks     PriceLocker
	validate  *validator.Validate
	cfg       Config
}

// NewService creates a new transaction orchestrator.
func NewService(deps Deps, cfg Config) *Service {
	return &Service{
		repo:      deps.Repo,
		parties:   deps.Parties,
		stocks:    deps.Stocks,
		registry:  deps.Registry,
		balances:  deps.Balances,
		inventory: deps.Inventory,
		numerator: deps.Numerator,
		txManager: deps.TxManager,
		outbox:    deps.Outbox,
		audit:     deps.Audit,
		locks:     deps.Locks,
		validate:  validator.New(),
		cfg:       cfg,
	}
}

// Create records a new transaction and applies its effects atomically.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Transaction, error) {
	ctx, span := tracer.Start(ctx, "metal_transaction.create",
		trace.WithAttributes(attribute.String("transaction.type", string(in.Type))))
	defer span.End()

	if err := s.validate.Struct(in); err != nil {
		return nil, apperror.FromValidator(err)
	}

	doc := &Transaction{
		Document:      entity.NewDocument(appctx.ActorID(ctx)),
		Type:          in.Type,
		Fixed:         in.Fixed,
		Unfix:         in.Unfix,
		PartyID:       in.PartyID,
		PartyCurrency: in.Currency,
		Stocks:        append([]posting.LineItem(nil), in.Stocks...),
		OtherCharges:  append([]posting.OtherCharge(nil), in.OtherCharges...),
		VAT:           in.VAT,
		Summary:       in.Summary,
		IsActive:      true,
	}
	doc.Number = in.Number
	doc.Notes = in.Notes
	if in.Date != nil {
		doc.Date = in.Date.UTC()
	}
	doc.normalize()

	// the currency may still come from the party; everything else is
	// checked before a voucher number is taken
	provisional := *doc
	if provisional.PartyCurrency == "" {
		provisional.PartyCurrency = noCurrency
	}
	if err := provisional.Validate(ctx); err != nil {
		return nil, err
	}

	if doc.Number == "" {
		number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(doc.Prefix()),
			&numerator.Options{Strategy: NumeratorStrategy}, doc.Date)
		if err != nil {
			return nil, apperror.Persist("generate number", err)
		}
		doc.Number = number
	}

	err := tx.Replace(ctx, s.txManager, nil, func(ctx context.Context) (tx.Compensable, error) {
		p, err := s.parties.GetActive(ctx, doc.PartyID)
		if err != nil {
			return nil, err
		}
		if doc.PartyCurrency == "" {
			doc.PartyCurrency = p.Currency
		}
		if err := doc.Validate(ctx); err != nil {
			return nil, err
		}
		if err := s.checkReferences(ctx, doc); err != nil {
			return nil, err
		}

		if err := s.repo.Create(ctx, doc); err != nil {
			return nil, fmt.Errorf("create transaction: %w", err)
		}
		if err := s.record(ctx, doc, audit.ActionCreate, "metal_transaction.created", nil); err != nil {
			return nil, err
		}
		return s.effect(doc), nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, apperror.Persist("create transaction", err)
	}

	s.lockPrice(ctx, doc)

	logger.Info(ctx, "metal transaction created",
		"id", doc.ID,
		"number", doc.Number,
		"variant", doc.Variant().String(),
	)
	return doc, nil
}

// Update reverses the stored transaction's effects, applies patch and
// reapplies the effects of the result, in one unit of work.
func (s *Service) Update(ctx context.Context, txID id.ID, patch Patch) (*Transaction, error) {
	ctx, span := tracer.Start(ctx, "metal_transaction.update",
		trace.WithAttributes(attribute.String("transaction.id", txID.String())))
	defer span.End()

	if err := s.validatePatch(patch); err != nil {
		return nil, err
	}

	var prior, next *Transaction
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := s.repo.GetForUpdate(ctx, txID)
		if err != nil {
			return err
		}

		next = old.clone()
		patch.applyTo(next)
		next.normalize()
		if err := next.Validate(ctx); err != nil {
			return err
		}
		if _, err := s.parties.GetActive(ctx, next.PartyID); err != nil {
			return err
		}
		if err := s.checkReferences(ctx, next); err != nil {
			return err
		}
		next.Touch(appctx.ActorID(ctx))
		prior = old

		return tx.Replace(ctx, s.txManager, s.effect(old), func(ctx context.Context) (tx.Compensable, error) {
			if err := s.repo.Update(ctx, next); err != nil {
				return nil, fmt.Errorf("update transaction: %w", err)
			}
			if err := s.record(ctx, next, audit.ActionUpdate, "metal_transaction.updated", old); err != nil {
				return nil, err
			}
			return s.effect(next), nil
		})
	})
	if err != nil {
		span.RecordError(err)
		return nil, apperror.Persist("update transaction", err)
	}

	if !prior.Variant().LocksPrice() {
		s.lockPrice(ctx, next)
	}

	logger.Info(ctx, "metal transaction updated",
		"id", next.ID,
		"number", next.Number,
		"variant", next.Variant().String(),
	)
	return next, nil
}

// Delete reverses a transaction's effects and removes it.
func (s *Service) Delete(ctx context.Context, txID id.ID) error {
	ctx, span := tracer.Start(ctx, "metal_transaction.delete",
		trace.WithAttributes(attribute.String("transaction.id", txID.String())))
	defer span.End()

	var number string
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := s.repo.GetForUpdate(ctx, txID)
		if err != nil {
			return err
		}
		number = old.Number

		return tx.Replace(ctx, s.txManager, s.effect(old), func(ctx context.Context) (tx.Compensable, error) {
			if err := s.repo.Delete(ctx, txID); err != nil {
				return nil, fmt.Errorf("delete transaction: %w", err)
			}
			return nil, s.record(ctx, old, audit.ActionDelete, "metal_transaction.deleted", nil)
		})
	})
	if err != nil {
		span.RecordError(err)
		return apperror.Persist("delete transaction", err)
	}

	logger.Info(ctx, "metal transaction deleted", "id", txID, "number", number)
	return nil
}

// Get retrieves a transaction.
func (s *Service) Get(ctx context.Context, txID id.ID) (*Transaction, error) {
	doc, err := s.repo.GetByID(ctx, txID)
	if err != nil {
		return nil, apperror.Persist("get transaction", err)
	}
	return doc, nil
}

// List retrieves transactions with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Transaction], error) {
	if filter.Limit <= 0 {
		filter.Limit = domain.DefaultListFilter().Limit
	}
	res, err := s.repo.List(ctx, filter)
	if err != nil {
		return res, apperror.Persist("list transactions", err)
	}
	return res, nil
}

// Entries lists the registry rows a transaction owns.
func (s *Service) Entries(ctx context.Context, txID id.ID) ([]registry.Entry, error) {
	return s.registry.ByTransaction(ctx, txID)
}

func (s *Service) validatePatch(p Patch) error {
	if err := s.validate.Struct(p); err != nil {
		return apperror.FromValidator(err)
	}
	if p.Stocks != nil {
		if len(*p.Stocks) == 0 {
			return apperror.NewMinimumLineItemsRequired()
		}
		for _, li := range *p.Stocks {
			if err := s.validate.Struct(li); err != nil {
				return apperror.FromValidator(err)
			}
		}
	}
	if p.OtherCharges != nil {
		for _, oc := range *p.OtherCharges {
			if err := s.validate.Struct(oc); err != nil {
				return apperror.FromValidator(err)
			}
		}
	}
	return nil
}

// checkReferences verifies every stock exists and every other-charge account
// is an active party.
func (s *Service) checkReferences(ctx context.Context, doc *Transaction) error {
	seen := map[id.ID]bool{}
	for _, li := range doc.Stocks {
		if seen[li.StockID] {
			continue
		}
		seen[li.StockID] = true
		if _, err := s.stocks.GetByID(ctx, li.StockID); err != nil {
			return err
		}
	}
	for _, oc := range doc.OtherCharges {
		for _, acc := range []id.ID{oc.DebitAccountID, oc.CreditAccountID} {
			if seen[acc] {
				continue
			}
			seen[acc] = true
			if _, err := s.parties.GetActive(ctx, acc); err != nil {
				return err
			}
		}
	}
	return nil
}

// record writes the audit entry and the outbox event for a change.
func (s *Service) record(ctx context.Context, doc *Transaction, action audit.Action, eventType string, before *Transaction) error {
	changes, err := audit.Snapshot(doc)
	if err != nil {
		return err
	}
	if before != nil {
		old, err := audit.Snapshot(before)
		if err != nil {
			return err
		}
		changes = audit.Diff(old, changes)
	}

	if err := s.audit.Record(ctx, audit.Entry{
		EntityType: entityName,
		EntityID:   doc.ID,
		Action:     action,
		Changes:    changes,
	}); err != nil {
		return fmt.Errorf("audit: %w", err)
	}

	if err := s.outbox.Publish(ctx, events.Event{
		AggregateType: events.AggregateMetalTransaction,
		AggregateID:   doc.ID,
		EventType:     eventType,
		Payload: map[string]any{
			"number":  doc.Number,
			"type":    doc.Type,
			"mode":    doc.Variant().Mode,
			"partyId": doc.PartyID,
		},
	}); err != nil {
		return fmt.Errorf("outbox: %w", err)
	}
	return nil
}

// lockPrice hands a fixed purchase or sale to the pricing-lock recorder.
func (s *Service) lockPrice(ctx context.Context, doc *Transaction) {
	if s.locks == nil || !doc.Variant().LocksPrice() {
		return
	}

	totals := doc.Totals()
	rate := totals.GoldValue
	if totals.PureWeight.IsPositive() {
		rate = totals.GoldValue.Div(totals.PureWeight).Round(4)
	}

	s.locks.Record(ctx, pricelock.Lock{
		TransactionID: doc.ID,
		Reference:     doc.Number,
		PartyID:       doc.PartyID,
		Type:          doc.Type,
		PureWeight:    totals.PureWeight,
		Rate:          rate,
		Amount:        doc.Summary.TotalAmount,
		Currency:      doc.PartyCurrency,
		CreatedBy:     appctx.ActorID(ctx),
	})
}
