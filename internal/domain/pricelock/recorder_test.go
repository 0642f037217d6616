package pricelock

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullionledger/internal/core/id"
)

type fakeRepo struct {
	mu    sync.Mutex
	locks []Lock
	err   error
}

func (f *fakeRepo) Create(ctx context.Context, lock Lock) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.locks = append(f.locks, lock)
	return nil
}

func TestRecorder_OutlivesCancelledRequest(t *testing.T) {
	repo := &fakeRepo{}
	rec := NewRecorder(repo, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rec.Record(ctx, Lock{TransactionID: id.New(), Reference: "PUR-2026-00001"})
	rec.Wait()

	require.Len(t, repo.locks, 1)
	assert.False(t, id.IsNil(repo.locks[0].ID))
	assert.False(t, repo.locks[0].CreatedAt.IsZero())
}

func TestRecorder_SwallowsErrors(t *testing.T) {
	repo := &fakeRepo{err: errors.New("disk full")}
	rec := NewRecorder(repo, 0)

	assert.NotPanics(t, func() {
		rec.Record(context.Background(), Lock{Reference: "SAL-2026-00001"})
		rec.Wait()
	})
	assert.Empty(t, repo.locks)
}
