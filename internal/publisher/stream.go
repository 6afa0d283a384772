// Package publisher writes EV alerts to Redis Streams for downstream
// dashboards and notifiers.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/mgreco/oddsedge/pkg/models"
)

// StreamPublisher publishes EV alerts to per-sport streams
type StreamPublisher struct {
	redis  *redis.Client
	prefix string
}

// NewStreamPublisher creates a publisher. Alerts for a sport go to
// <prefix>.<sport>.
func NewStreamPublisher(redisClient *redis.Client, prefix string) *StreamPublisher {
	return &StreamPublisher{
		redis:  redisClient,
		prefix: prefix,
	}
}

// Publish writes one alert
func (p *StreamPublisher) Publish(ctx context.Context, alert models.EVAlert) error {
	streamKey := fmt.Sprintf("%s.%s", p.prefix, alert.Sport)

	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("error marshaling alert: %w", err)
	}

	_, err = p.redis.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()

	if err != nil {
		return fmt.Errorf("error publishing to stream %s: %w", streamKey, err)
	}

	return nil
}

// PublishBatch writes multiple alerts through a single pipeline
func (p *StreamPublisher) PublishBatch(ctx context.Context, alerts []models.EVAlert) error {
	if len(alerts) == 0 {
		return nil
	}

	pipe := p.redis.Pipeline()

	for _, alert := range alerts {
		data, err := json.Marshal(alert)
		if err != nil {
			return fmt.Errorf("error marshaling alert %s: %w", alert.ID, err)
		}

		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: fmt.Sprintf("%s.%s", p.prefix, alert.Sport),
			Values: map[string]interface{}{
				"data": string(data),
			},
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("error publishing alert batch: %w", err)
	}

	return nil
}
