package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bullionledger/internal/core/id"
	"bullionledger/internal/domain/catalogs/branch"
	"bullionledger/internal/domain/registers/inventory"
	"bullionledger/pkg/logger"
)

const branchSettingsPrefix = "bullion:branch:settings:"

// BranchSettings caches per-branch inventory policy in Redis in front of
// the branch catalog. A Redis failure falls through to the source.
type BranchSettings struct {
	client *redis.Client
	source inventory.BranchSettings
	ttl    time.Duration
}

var _ inventory.BranchSettings = (*BranchSettings)(nil)

// NewBranchSettings wraps source. A zero ttl defaults to 5 minutes.
func NewBranchSettings(client *redis.Client, source inventory.BranchSettings, ttl time.Duration) *BranchSettings {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &BranchSettings{client: client, source: source, ttl: ttl}
}

func branchKey(branchID id.ID) string {
	return branchSettingsPrefix + branchID.String()
}

// Settings returns the cached policy, loading and storing it on a miss.
func (c *BranchSettings) Settings(ctx context.Context, branchID id.ID) (branch.Settings, error) {
	key := branchKey(branchID)

	payload, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var s branch.Settings
		if err := json.Unmarshal(payload, &s); err == nil {
			return s, nil
		}
		logger.Warn(ctx, "discarding corrupt branch settings entry", "branch_id", branchID)
	case !errors.Is(err, redis.Nil):
		logger.Warn(ctx, "branch settings cache unavailable", "branch_id", branchID, "error", err)
		return c.source.Settings(ctx, branchID)
	}

	s, err := c.source.Settings(ctx, branchID)
	if err != nil {
		return s, err
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return s, fmt.Errorf("marshal branch settings: %w", err)
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Warn(ctx, "store branch settings", "branch_id", branchID, "error", err)
	}
	return s, nil
}

// Invalidate drops a branch's cached policy.
func (c *BranchSettings) Invalidate(ctx context.Context, branchID id.ID) error {
	if err := c.client.Del(ctx, branchKey(branchID)).Err(); err != nil {
		return fmt.Errorf("invalidate branch settings: %w", err)
	}
	return nil
}
