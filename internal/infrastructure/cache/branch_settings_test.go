package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bullionledger/internal/core/id"
	"bullionledger/internal/domain/catalogs/branch"
)

type stubSource struct {
	settings map[id.ID]branch.Settings
	calls    int
	err      error
}

func (s *stubSource) Settings(_ context.Context, branchID id.ID) (branch.Settings, error) {
	s.calls++
	if s.err != nil {
		return branch.Settings{}, s.err
	}
	return s.settings[branchID], nil
}

func setup(t *testing.T, src *stubSource) (*BranchSettings, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewBranchSettings(client, src, time.Minute), mr
}

func TestBranchSettingsCachesSourceValue(t *testing.T) {
	ctx := context.Background()
	branchID := id.New()
	src := &stubSource{settings: map[id.ID]branch.Settings{branchID: {AllowNegativeStock: true}}}
	c, mr := setup(t, src)

	got, err := c.Settings(ctx, branchID)
	require.NoError(t, err)
	assert.True(t, got.AllowNegativeStock)

	got, err = c.Settings(ctx, branchID)
	require.NoError(t, err)
	assert.True(t, got.AllowNegativeStock)
	assert.Equal(t, 1, src.calls)

	assert.True(t, mr.Exists(branchKey(branchID)))
	assert.Equal(t, time.Minute, mr.TTL(branchKey(branchID)))
}

func TestBranchSettingsInvalidate(t *testing.T) {
	ctx := context.Background()
	branchID := id.New()
	src := &stubSource{settings: map[id.ID]branch.Settings{branchID: {AllowNegativeStock: false}}}
	c, mr := setup(t, src)

	_, err := c.Settings(ctx, branchID)
	require.NoError(t, err)

	src.settings[branchID] = branch.Settings{AllowNegativeStock: true}
	require.NoError(t, c.Invalidate(ctx, branchID))
	assert.False(t, mr.Exists(branchKey(branchID)))

	got, err := c.Settings(ctx, branchID)
	require.NoError(t, err)
	assert.True(t, got.AllowNegativeStock)
	assert.Equal(t, 2, src.calls)
}

func TestBranchSettingsSourceError(t *testing.T) {
	branchID := id.New()
	src := &stubSource{err: errors.New("boom")}
	c, mr := setup(t, src)

	_, err := c.Settings(context.Background(), branchID)
	require.Error(t, err)
	assert.False(t, mr.Exists(branchKey(branchID)))
}

func TestBranchSettingsCorruptEntryReloads(t *testing.T) {
	branchID := id.New()
	src := &stubSource{settings: map[id.ID]branch.Settings{branchID: {AllowNegativeStock: true}}}
	c, mr := setup(t, src)

	require.NoError(t, mr.Set(branchKey(branchID), "{not json"))

	got, err := c.Settings(context.Background(), branchID)
	require.NoError(t, err)
	assert.True(t, got.AllowNegativeStock)
	assert.Equal(t, 1, src.calls)
}

func TestBranchSettingsRedisDownFallsThrough(t *testing.T) {
	branchID := id.New()
	src := &stubSource{settings: map[id.ID]branch.Settings{branchID: {AllowNegativeStock: true}}}
	c, mr := setup(t, src)
	mr.Close()

	got, err := c.Settings(context.Background(), branchID)
	require.NoError(t, err)
	assert.True(t, got.AllowNegativeStock)
}
