package drafting

import (
	"context"
	"fmt"
	"time"

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
	"bullionledger/internal/core/types"
	"bullionledger/internal/domain"
	"bullionledger/internal/domain/audit"
	"bullionledger/internal/domain/catalogs/party"
	"bullionledger/internal/domain/catalogs/stock"
	"bullionledger/internal/domain/events"
	"bullionledger/internal/domain/registers/balance"
	"bullionledger/internal/domain/registers/inventory"
	"bullionledger/internal/domain/registers/registry"
	"bullionledger/pkg/logger"
)

var tracer = otel.Tracer("bullionledger/drafting")

// PartyLookup loads parties that must exist and be active.
type PartyLookup interface {
	GetActive(ctx context.Context, partyID id.ID) (*party.Party, error)
}

// StockResolver loads a stock with its purity fallbacks.
type StockResolver interface {
	Resolve(ctx context.Context, stockID id.ID) (stock.Resolved, error)
}

// Deps are the collaborators of the draft workflow.
type Deps struct {
	Repo      Repository
	Parties   PartyLookup
	Stocks    StockResolver
	Registry  *registry.Service
	Balances  *balance.Service
	Inventory *inventory.Service
	Numerator numerator.Generator
	TxManager tx.Manager
	Outbox    events.Publisher
	Audit     audit.Recorder
}

// Service runs the draft lifecycle: draft, confirmed, rejected.
type Service struct {
	repo      Repository
	parties   PartyLookup
	stocks    StockResolver
	registry  *registry.Service
	balances  *balance.Service
	inventory *inventory.Service
	numerator numerator.Generator
	txManager tx.Manager
	outbox    events.Publisher
	audit     audit.Recorder
	validate  *validator.Validate
	cfg       Config
	now       func() time.Time
}

// NewService creates a new draft workflow service.
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
		validate:  validator.New(),
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create stages a receipt. When a purity resolves, its pure weight goes to the
// party's draft balance; otherwise the draft is stored without ledger rows
// and Confirm resolves it later.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Drafting, error) {
	ctx, span := tracer.Start(ctx, "drafting.create")
	defer span.End()

	if err := s.validate.Struct(in); err != nil {
		return nil, apperror.FromValidator(err)
	}

	d := &Drafting{
		Document:      entity.NewDocument(appctx.ActorID(ctx)),
		Status:        StatusDraft,
		PartyID:       in.PartyID,
		StockID:       in.StockID,
		Currency:      in.Currency,
		Pieces:        in.Pieces,
		GrossWeight:   in.GrossWeight,
		Purity:        types.NormalizePurity(in.Purity),
		PurityPercent: in.PurityPercent,
	}
	d.Notes = in.Notes
	if in.Date != nil {
		d.Date = in.Date.UTC()
	}
	if err := d.Validate(ctx); err != nil {
		return nil, err
	}

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig(numerator.PrefixDraft),
		&numerator.Options{Strategy: NumeratorStrategy}, d.Date)
	if err != nil {
		return nil, apperror.Persist("generate number", err)
	}
	d.Number = number

	err = tx.Replace(ctx, s.txManager, nil, func(ctx context.Context) (tx.Compensable, error) {
		p, err := s.parties.GetActive(ctx, d.PartyID)
		if err != nil {
			return nil, err
		}
		if d.Currency == "" {
			d.Currency = p.Currency
		}

		st, err := s.stocks.Resolve(ctx, d.StockID)
		if err != nil {
			return nil, err
		}
		if purity := d.ResolvePurity(st.Purities()...); !purity.IsZero() {
			d.Purity = purity
			d.PureWeight = types.PureWeight(d.GrossWeight, purity)
			d.DraftBalanceWeight = d.PureWeight
		}

		if err := s.repo.Create(ctx, d); err != nil {
			return nil, fmt.Errorf("create draft: %w", err)
		}
		if err := s.record(ctx, d, audit.ActionCreate, "drafting.created", nil); err != nil {
			return nil, err
		}
		return s.effect(d, ""), nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, apperror.Persist("create draft", err)
	}

	logger.Info(ctx, "draft created",
		"id", d.ID,
		"number", d.Number,
		"pure_weight", d.PureWeight.String(),
	)
	return d, nil
}

// Confirm moves a draft's weight from the party's draft balance to its gold
// balance and applies the receipt to inventory.
func (s *Service) Confirm(ctx context.Context, draftID id.ID) (*Drafting, error) {
	ctx, span := tracer.Start(ctx, "drafting.confirm",
		trace.WithAttributes(attribute.String("drafting.id", draftID.String())))
	defer span.End()

	var next *Drafting
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := s.repo.GetForUpdate(ctx, draftID)
		if err != nil {
			return err
		}
		if err := old.transition("confirm", StatusDraft); err != nil {
			return err
		}
		st, err := s.stocks.Resolve(ctx, old.StockID)
		if err != nil {
			return err
		}
		purity := old.ResolvePurity(st.Purities()...)
		if purity.IsZero() {
			return apperror.NewValidation("purity could not be resolved").
				WithDetail("field", "purity").
				WithDetail("stockId", old.StockID.String())
		}
		costCenter := st.CostCenter
		if costCenter == "" {
			costCenter = s.cfg.DefaultCostCenter
		}

		now := s.now()
		n := *old
		next = &n
		next.Status = StatusConfirmed
		next.ConfirmedAt = &now
		next.Purity = purity
		next.PureWeight = types.PureWeight(old.GrossWeight, purity)
		next.ConfirmedWeight = next.PureWeight
		next.DraftBalanceWeight = types.Zero()
		next.Touch(appctx.ActorID(ctx))

		if old.DraftBalanceWeight.IsPositive() && old.DraftBalanceWeight.Equal(next.PureWeight) {
			return s.promote(ctx, old, next, costCenter)
		}

		// nothing staged, or the staged rows no longer match; rebuild them
		return tx.Replace(ctx, s.txManager, s.effect(old, ""), func(ctx context.Context) (tx.Compensable, error) {
			if err := s.repo.Update(ctx, next); err != nil {
				return nil, fmt.Errorf("update draft: %w", err)
			}
			if err := s.record(ctx, next, audit.ActionConfirm, "drafting.confirmed", old); err != nil {
				return nil, err
			}
			return s.effect(next, costCenter), nil
		})
	})
	if err != nil {
		span.RecordError(err)
		return nil, apperror.Persist("confirm draft", err)
	}

	logger.Info(ctx, "draft confirmed", "id", next.ID, "number", next.Number)
	return next, nil
}

// promote flips staged rows in place.
func (s *Service) promote(ctx context.Context, old, next *Drafting, costCenter string) error {
	if err := s.repo.Update(ctx, next); err != nil {
		return fmt.Errorf("update draft: %w", err)
	}
	if _, err := s.registry.SetDraftState(ctx, next.ID, false, costCenter); err != nil {
		return err
	}
	if _, err := s.inventory.Confirm(ctx, next.ID, costCenter); err != nil {
		return err
	}
	if err := s.balances.Promote(ctx, next.PartyID, next.ConfirmedWeight); err != nil {
		return err
	}
	return s.record(ctx, next, audit.ActionConfirm, "drafting.confirmed", old)
}

// Reject discards a pending draft's staged rows and releases its draft balance.
func (s *Service) Reject(ctx context.Context, draftID id.ID) (*Drafting, error) {
	ctx, span := tracer.Start(ctx, "drafting.reject",
		trace.WithAttributes(attribute.String("drafting.id", draftID.String())))
	defer span.End()

	var next *Drafting
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := s.repo.GetForUpdate(ctx, draftID)
		if err != nil {
			return err
		}
		if err := old.transition("reject", StatusDraft); err != nil {
			return err
		}

		now := s.now()
		n := *old
		next = &n
		next.Status = StatusRejected
		next.RejectedAt = &now
		next.DraftBalanceWeight = types.Zero()
		next.Touch(appctx.ActorID(ctx))

		return tx.Replace(ctx, s.txManager, s.effect(old, ""), func(ctx context.Context) (tx.Compensable, error) {
			if err := s.repo.Update(ctx, next); err != nil {
				return nil, fmt.Errorf("update draft: %w", err)
			}
			return nil, s.record(ctx, next, audit.ActionReject, "drafting.rejected", old)
		})
	})
	if err != nil {
		span.RecordError(err)
		return nil, apperror.Persist("reject draft", err)
	}

	logger.Info(ctx, "draft rejected", "id", next.ID, "number", next.Number)
	return next, nil
}

// Revert returns a confirmed draft to pending. Its rows flip back to draft,
// inventory is reverted and the weight returns to the draft balance.
func (s *Service) Revert(ctx context.Context, draftID id.ID) (*Drafting, error) {
	ctx, span := tracer.Start(ctx, "drafting.revert",
		trace.WithAttributes(attribute.String("drafting.id", draftID.String())))
	defer span.End()

	var next *Drafting
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := s.repo.GetForUpdate(ctx, draftID)
		if err != nil {
			return err
		}
		if err := old.transition("revert", StatusConfirmed); err != nil {
			return err
		}

		n := *old
		next = &n
		next.Status = StatusDraft
		next.ConfirmedAt = nil
		next.DraftBalanceWeight = old.ConfirmedWeight
		next.ConfirmedWeight = types.Zero()
		next.Touch(appctx.ActorID(ctx))

		if err := s.repo.Update(ctx, next); err != nil {
			return fmt.Errorf("update draft: %w", err)
		}
		if _, err := s.registry.SetDraftState(ctx, next.ID, true, PlaceholderCostCenter); err != nil {
			return err
		}
		if _, err := s.inventory.Unconfirm(ctx, next.ID, PlaceholderCostCenter); err != nil {
			return err
		}
		if err := s.balances.Demote(ctx, next.PartyID, old.ConfirmedWeight); err != nil {
			return err
		}
		return s.record(ctx, next, audit.ActionRevert, "drafting.reverted", old)
	})
	if err != nil {
		span.RecordError(err)
		return nil, apperror.Persist("revert draft", err)
	}

	logger.Info(ctx, "draft reverted", "id", next.ID, "number", next.Number)
	return next, nil
}

// Delete removes a draft in any status, compensating whatever it still holds.
func (s *Service) Delete(ctx context.Context, draftID id.ID) error {
	ctx, span := tracer.Start(ctx, "drafting.delete",
		trace.WithAttributes(attribute.String("drafting.id", draftID.String())))
	defer span.End()

	var number string
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		old, err := s.repo.GetForUpdate(ctx, draftID)
		if err != nil {
			return err
		}
		number = old.Number

		return tx.Replace(ctx, s.txManager, s.effect(old, ""), func(ctx context.Context) (tx.Compensable, error) {
			if err := s.repo.Delete(ctx, draftID); err != nil {
				return nil, fmt.Errorf("delete draft: %w", err)
			}
			return nil, s.record(ctx, old, audit.ActionDelete, "drafting.deleted", nil)
		})
	})
	if err != nil {
		span.RecordError(err)
		return apperror.Persist("delete draft", err)
	}

	logger.Info(ctx, "draft deleted", "id", draftID, "number", number)
	return nil
}

// Get retrieves a draft.
func (s *Service) Get(ctx context.Context, draftID id.ID) (*Drafting, error) {
	d, err := s.repo.GetByID(ctx, draftID)
	if err != nil {
		return nil, apperror.Persist("get draft", err)
	}
	return d, nil
}

// List retrieves drafts with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Drafting], error) {
	if filter.Limit <= 0 {
		filter.Limit = domain.DefaultListFilter().Limit
	}
	res, err := s.repo.List(ctx, filter)
	if err != nil {
		return res, apperror.Persist("list drafts", err)
	}
	return res, nil
}

// Entries lists the registry rows a draft owns.
func (s *Service) Entries(ctx context.Context, draftID id.ID) ([]registry.Entry, error) {
	return s.registry.ByDraft(ctx, draftID)
}

func (s *Service) record(ctx context.Context, d *Drafting, action audit.Action, eventType string, before *Drafting) error {
	changes, err := audit.Snapshot(d)
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
		EntityID:   d.ID,
		Action:     action,
		Changes:    changes,
	}); err != nil {
		return fmt.Errorf("audit: %w", err)
	}

	if err := s.outbox.Publish(ctx, events.Event{
		AggregateType: events.AggregateDrafting,
		AggregateID:   d.ID,
		EventType:     eventType,
		Payload: map[string]any{
			"number":     d.Number,
			"status":     d.Status,
			"partyId":    d.PartyID,
			"pureWeight": d.PureWeight.String(),
		},
	}); err != nil {
		return fmt.Errorf("outbox: %w", err)
	}
	return nil
}
