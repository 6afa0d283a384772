// Package dedup suppresses repeat alerts for the same bet within a TTL
// window using Redis. The TTL doubles as the alert lifecycle: once a key
// expires the bet may alert again.
package dedup

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mgreco/oddsedge/pkg/models"
)

// Deduplicator deduplicates alerts using Redis
type Deduplicator struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDeduplicator creates a deduplicator with the given TTL window
func NewDeduplicator(client *redis.Client, ttlMinutes int) *Deduplicator {
	return &Deduplicator{
		client: client,
		ttl:    time.Duration(ttlMinutes) * time.Minute,
	}
}

// ShouldAlert returns true if this bet hasn't alerted within the TTL
// window, and claims the window when it has not
func (d *Deduplicator) ShouldAlert(ctx context.Context, result models.EVResult) (bool, error) {
	dedupKey := d.generateDedupKey(result)

	exists, err := d.client.Exists(ctx, dedupKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check dedup key: %w", err)
	}

	if exists > 0 {
		return false, nil
	}

	if err := d.client.Set(ctx, dedupKey, "1", d.ttl).Err(); err != nil {
		return false, fmt.Errorf("failed to set dedup key: %w", err)
	}

	return true, nil
}

// generateDedupKey builds a deterministic key from the bet's identity:
// event, market, period, side, and line
func (d *Deduplicator) generateDedupKey(result models.EVResult) string {
	line := "ml"
	if result.Line != nil {
		line = fmt.Sprintf("%.2f", *result.Line)
	}

	identity := fmt.Sprintf("%s:%s:%s:%s:%s",
		result.EventKey, result.MarketType, result.Period, result.Side, line)
	hash := sha256.Sum256([]byte(identity))

	return fmt.Sprintf("alert:dedup:%s:%x", result.Sport, hash[:8])
}

// Clear removes a dedup entry (for testing)
func (d *Deduplicator) Clear(ctx context.Context, result models.EVResult) error {
	return d.client.Del(ctx, d.generateDedupKey(result)).Err()
}
