// Package main seeds reference data: a branch, the karat grades, one bar
// stock per karat, a walk-in customer and the other-charge accounts.
// Items whose code already exists are left untouched.
//
//	seed
//	seed token <user-id>   prints a signed access token for local testing
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"bullionledger/internal/app"
	"bullionledger/internal/bootstrap"
	"bullionledger/internal/config"
	appctx "bullionledger/internal/core/context"
	"bullionledger/internal/core/entity"
	"bullionledger/internal/domain"
	"bullionledger/internal/domain/auth"
	"bullionledger/internal/domain/catalogs/branch"
	"bullionledger/internal/domain/catalogs/party"
	"bullionledger/internal/domain/catalogs/stock"
	"bullionledger/pkg/logger"
)

type karatSeed struct {
	code, name string
	purity     string
}

var karats = []karatSeed{
	{"24K", "24 karat", "0.999"},
	{"22K", "22 karat", "0.916"},
	{"21K", "21 karat", "0.875"},
	{"18K", "18 karat", "0.750"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logger())
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := logger.WithLogger(context.Background(), log)

	if len(os.Args) > 1 && os.Args[1] == "token" {
		if len(os.Args) < 3 {
			log.Fatalw("usage: seed token <user-id>")
		}
		if err := printToken(cfg, os.Args[2]); err != nil {
			log.Fatalw("failed to issue token", "error", err)
		}
		return
	}

	backend, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer backend.Close()

	services := app.New(backend.Repos, cfg.App())
	ctx = appctx.WithActor(ctx, "seed")

	if err := seed(ctx, services, cfg.Ledger.DefaultCostCenter); err != nil {
		log.Fatalw("seeding failed", "error", err)
	}
	log.Info("seeding completed successfully")
}

func printToken(cfg *config.Config, userID string) error {
	if cfg.JWT.Secret == "" {
		return fmt.Errorf("BULLION_JWT_SECRET is not set")
	}
	token, expires, err := auth.NewJWTService(cfg.Auth()).GenerateAccessToken(appctx.UserContext{
		UserID: userID,
		Roles:  []string{"dealer"},
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s\n# expires %s\n", token, expires.Format("2006-01-02 15:04:05 MST"))
	return nil
}

func seed(ctx context.Context, s *app.Services, costCenter string) error {
	hq, err := ensure(ctx, s.Branches.CatalogService, "MAIN",
		branch.NewBranch("MAIN", "Main branch", branch.Settings{}))
	if err != nil {
		return err
	}

	for _, k := range karats {
		purity := decimal.RequireFromString(k.purity)
		karat, err := ensure(ctx, s.Stocks.Karats(), k.code, stock.NewKarat(k.code, k.name, purity))
		if err != nil {
			return err
		}

		code := "BAR-" + k.code
		bar := stock.NewStock(code, k.name+" bar", hq.ID, purity)
		bar.KaratID = &karat.ID
		bar.CostCenter = costCenter
		if _, err := ensure(ctx, s.Stocks.CatalogService, code, bar); err != nil {
			return err
		}
	}

	parties := []*party.Party{
		party.NewParty("WALK-IN", "Walk-in customer", party.KindCustomer, "AED"),
		party.NewParty("ACC-MAKING", "Making charges", party.KindAccount, "AED"),
		party.NewParty("ACC-VAT", "VAT payable", party.KindAccount, "AED"),
		party.NewParty("ACC-PREMIUM", "Premium and discount", party.KindAccount, "AED"),
	}
	for _, p := range parties {
		if _, err := ensure(ctx, s.Parties.CatalogService, p.Code, p); err != nil {
			return err
		}
	}
	return nil
}

// ensure returns the existing item with code, or creates item.
func ensure[T entity.Validatable](ctx context.Context, svc *domain.CatalogService[T], code string, item T) (T, error) {
	res, err := svc.List(ctx, domain.ListFilter{Search: code, Limit: 50})
	if err != nil {
		return item, fmt.Errorf("look up %s: %w", code, err)
	}
	for _, existing := range res.Items {
		if strings.EqualFold(codeOf(existing), code) {
			logger.Debug(ctx, "seed item exists", "code", code)
			return existing, nil
		}
	}

	if err := svc.Create(ctx, item); err != nil {
		return item, fmt.Errorf("create %s: %w", code, err)
	}
	logger.Info(ctx, "seeded", "code", code)
	return item, nil
}

func codeOf(v any) string {
	switch x := v.(type) {
	case *branch.Branch:
		return x.Code
	case *stock.Karat:
		return x.Code
	case *stock.Stock:
		return x.Code
	case *party.Party:
		return x.Code
	}
	return ""
}
