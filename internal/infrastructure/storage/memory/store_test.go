package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullionledger/internal/core/apperror"
	"bullionledger/internal/core/id"
	"bullionledger/internal/core/types"
	"bullionledger/internal/domain"
	"bullionledger/internal/domain/catalogs/party"
	"bullionledger/internal/domain/events"
	"bullionledger/internal/infrastructure/storage/memory"
)

func TestStore_RollbackDiscardsEveryWrite(t *testing.T) {
	store := memory.New()
	parties := store.Parties()
	ctx := context.Background()

	p := party.NewParty("C1", "Customer", party.KindCustomer, "AED")
	require.NoError(t, parties.Create(ctx, p))

	boom := errors.New("boom")
	err := store.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := parties.IncrementGold(ctx, p.ID, types.MustGrams("10"), types.MustMoney("2500")); err != nil {
			return err
		}
		if err := parties.EnsureCash(ctx, p.ID, "AED"); err != nil {
			return err
		}
		if err := parties.IncrementCash(ctx, p.ID, "AED", types.MustMoney("99")); err != nil {
			return err
		}
		if err := store.Outbox().Publish(ctx, events.Event{EventType: "test"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := parties.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Gold.TotalGrams.IsZero())
	assert.Empty(t, got.Cash)
	assert.Empty(t, store.Events())
}

func TestStore_CommitKeepsWrites(t *testing.T) {
	store := memory.New()
	parties := store.Parties()
	ctx := context.Background()

	p := party.NewParty("C1", "Customer", party.KindCustomer, "AED")
	require.NoError(t, parties.Create(ctx, p))

	err := store.RunInTransaction(ctx, func(ctx context.Context) error {
		// nested units of work join the outer one
		return store.RunInTransaction(ctx, func(ctx context.Context) error {
			if err := parties.EnsureCash(ctx, p.ID, "AED"); err != nil {
				return err
			}
			return parties.IncrementCash(ctx, p.ID, "AED", types.MustMoney("12.5"))
		})
	})
	require.NoError(t, err)

	got, err := parties.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Cash, 1)
	assert.True(t, got.Cash[0].IsDefault)
	assert.True(t, types.MustMoney("12.5").Equal(got.CashIn("AED")))
}

func TestStore_RollbackOnPanic(t *testing.T) {
	store := memory.New()
	parties := store.Parties()
	ctx := context.Background()

	p := party.NewParty("C1", "Customer", party.KindCustomer, "AED")
	require.NoError(t, parties.Create(ctx, p))

	assert.Panics(t, func() {
		_ = store.RunInTransaction(ctx, func(ctx context.Context) error {
			_ = parties.IncrementDraft(ctx, p.ID, types.MustGrams("5"))
			panic("boom")
		})
	})

	got, err := parties.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Gold.DraftBalance.IsZero())
}

func TestCatalog_OptimisticUpdate(t *testing.T) {
	store := memory.New()
	parties := store.Parties()
	ctx := context.Background()

	p := party.NewParty("C1", "Customer", party.KindCustomer, "AED")
	require.NoError(t, parties.Create(ctx, p))

	first, err := parties.GetByID(ctx, p.ID)
	require.NoError(t, err)
	stale, err := parties.GetByID(ctx, p.ID)
	require.NoError(t, err)

	first.Name = "Renamed"
	require.NoError(t, parties.Update(ctx, first))
	assert.Equal(t, 2, first.Version)

	stale.Name = "Other"
	err = parties.Update(ctx, stale)
	assert.True(t, apperror.HasCode(err, apperror.CodeConflict))
}

func TestCatalog_DuplicateCodeAndList(t *testing.T) {
	store := memory.New()
	parties := store.Parties()
	ctx := context.Background()

	for _, code := range []string{"B", "A", "C"} {
		require.NoError(t, parties.Create(ctx, party.NewParty(code, "Party "+code, party.KindCustomer, "AED")))
	}
	err := parties.Create(ctx, party.NewParty("a", "dup", party.KindCustomer, "AED"))
	assert.True(t, apperror.HasCode(err, apperror.CodeDuplicate))

	res, err := parties.List(ctx, domain.ListFilter{OrderBy: "code", Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, res.TotalCount)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "A", res.Items[0].Code)
	assert.Equal(t, "B", res.Items[1].Code)

	_, err = parties.GetByID(ctx, id.New())
	assert.True(t, apperror.IsNotFound(err))
}
