package numerator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SequencesPerPrefixAndYear(t *testing.T) {
	g := NewMemory()
	ctx := context.Background()
	period := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	first, err := g.GetNextNumber(ctx, DefaultConfig(PrefixPurchase), nil, period)
	require.NoError(t, err)
	second, err := g.GetNextNumber(ctx, DefaultConfig(PrefixPurchase), nil, period)
	require.NoError(t, err)
	other, err := g.GetNextNumber(ctx, DefaultConfig(PrefixSale), nil, period)
	require.NoError(t, err)
	nextYear, err := g.GetNextNumber(ctx, DefaultConfig(PrefixPurchase), nil, period.AddDate(1, 0, 0))
	require.NoError(t, err)

	assert.Equal(t, "PUR-2026-00001", first)
	assert.Equal(t, "PUR-2026-00002", second)
	assert.Equal(t, "SAL-2026-00001", other)
	assert.Equal(t, "PUR-2027-00001", nextYear)
}

func TestMemory_SetNextNumber(t *testing.T) {
	g := NewMemory()
	ctx := context.Background()
	period := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{Prefix: PrefixDraft, PadWidth: 3, ResetPeriod: "never"}

	require.NoError(t, g.SetNextNumber(ctx, cfg, period, 41))
	num, err := g.GetNextNumber(ctx, cfg, nil, period)
	require.NoError(t, err)

	assert.Equal(t, "DRF-042", num)
}

func TestKey(t *testing.T) {
	period := time.Date(2026, 7, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "PUR_2026", Key(DefaultConfig("PUR"), period))
	assert.Equal(t, "PUR_2026_07", Key(Config{Prefix: "PUR", ResetPeriod: "month"}, period))
	assert.Equal(t, "PUR", Key(Config{Prefix: "PUR"}, period))
}
