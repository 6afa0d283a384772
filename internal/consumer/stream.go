// Package consumer reads quote snapshots from Redis Streams. Scrapers
// publish whole-board snapshots, so the engine always evaluates an
// internally-consistent capture rather than a half-updated board.
package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mgreco/oddsedge/internal/match"
	"github.com/mgreco/oddsedge/pkg/models"
)

// Message is one consumed snapshot with its stream bookkeeping
type Message struct {
	ID        string
	StreamKey string
	Snapshot  models.Snapshot
}

// StreamConsumer reads snapshot messages via a Redis consumer group
type StreamConsumer struct {
	redis      *redis.Client
	consumerID string
	groupName  string
	batchSize  int64
	blockTime  time.Duration
}

// NewStreamConsumer creates a stream consumer
func NewStreamConsumer(redisClient *redis.Client, consumerID, groupName string) *StreamConsumer {
	return &StreamConsumer{
		redis:      redisClient,
		consumerID: consumerID,
		groupName:  groupName,
		batchSize:  20,
		blockTime:  5 * time.Second,
	}
}

// ConsumeStream reads snapshot messages from one stream until the context
// is cancelled
func (c *StreamConsumer) ConsumeStream(ctx context.Context, streamKey string) (<-chan Message, <-chan error) {
	messageCh := make(chan Message, c.batchSize)
	errorCh := make(chan error, 1)

	go func() {
		defer close(messageCh)
		defer close(errorCh)

		if err := c.createConsumerGroup(ctx, streamKey); err != nil {
			errorCh <- fmt.Errorf("failed to create consumer group: %w", err)
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			default:
				messages, err := c.readMessages(ctx, streamKey)
				if err != nil {
					errorCh <- fmt.Errorf("error reading %s: %w", streamKey, err)
					continue
				}

				for _, msg := range messages {
					select {
					case messageCh <- msg:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return messageCh, errorCh
}

func (c *StreamConsumer) readMessages(ctx context.Context, streamKey string) ([]Message, error) {
	streams, err := c.redis.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.groupName,
		Consumer: c.consumerID,
		Streams:  []string{streamKey, ">"},
		Count:    c.batchSize,
		Block:    c.blockTime,
	}).Result()

	if err != nil {
		if err == redis.Nil {
			// No new messages
			return nil, nil
		}
		return nil, err
	}

	var messages []Message

	for _, stream := range streams {
		for _, xmsg := range stream.Messages {
			data, ok := xmsg.Values["data"].(string)
			if !ok {
				continue
			}

			var snap models.Snapshot
			if err := json.Unmarshal([]byte(data), &snap); err != nil {
				fmt.Printf("[Consumer] error unmarshaling message %s: %v\n", xmsg.ID, err)
				// ACK anyway so a poison message doesn't loop forever
				c.AckMessage(context.Background(), streamKey, xmsg.ID)
				continue
			}

			ResolveRawLines(&snap)

			messages = append(messages, Message{
				ID:        xmsg.ID,
				StreamKey: streamKey,
				Snapshot:  snap,
			})
		}
	}

	return messages, nil
}

// ResolveRawLines parses string lines ("2½", "2.5/3") into numeric lines
// for quotes where the scraper only captured the printed form. Quotes
// whose raw line doesn't parse keep a nil Line and fall out of
// spread/total grouping downstream.
func ResolveRawLines(snap *models.Snapshot) {
	for ei := range snap.Events {
		quotes := snap.Events[ei].Quotes
		for qi := range quotes {
			q := &quotes[qi]
			if q.Line != nil || q.LineRaw == "" {
				continue
			}
			if v, ok := match.ParseLine(q.LineRaw); ok {
				q.Line = &v
			}
		}
	}
}

// AckMessage acknowledges a processed message
func (c *StreamConsumer) AckMessage(ctx context.Context, streamKey, messageID string) error {
	return c.redis.XAck(ctx, streamKey, c.groupName, messageID).Err()
}

func (c *StreamConsumer) createConsumerGroup(ctx context.Context, streamKey string) error {
	err := c.redis.XGroupCreateMkStream(ctx, streamKey, c.groupName, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}
