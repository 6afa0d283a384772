package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mgreco/oddsedge/internal/consumer"
	"github.com/mgreco/oddsedge/internal/dedup"
	"github.com/mgreco/oddsedge/internal/filter"
	"github.com/mgreco/oddsedge/internal/hub"
	"github.com/mgreco/oddsedge/internal/publisher"
	"github.com/mgreco/oddsedge/internal/writer"
	"github.com/mgreco/oddsedge/pkg/models"
)

// Runner drives the evaluation loop: it keeps the snapshot store fed from
// the quote streams and evaluates each sport's current snapshot pair on a
// fixed tick, pushing accepted results through dedup, publish, persistence,
// and the WebSocket hub.
type Runner struct {
	consumer  *consumer.StreamConsumer
	store     *consumer.SnapshotStore
	evaluator *Evaluator
	filter    *filter.Filter
	dedup     *dedup.Deduplicator
	publisher *publisher.StreamPublisher

	// Optional sinks; nil disables them
	alertWriter *writer.AlertWriter
	alertHub    *hub.Hub

	sports []string
	tick   time.Duration
	maxAge time.Duration

	// Metrics
	tickCount      int64
	resultCount    int64
	alertCount     int64
	suspectCount   int64
	unmatchedCount int64
	skippedQuotes  int64
	errorCount     int64
	mu             sync.Mutex
}

// NewRunner wires the evaluation loop
func NewRunner(
	streamConsumer *consumer.StreamConsumer,
	store *consumer.SnapshotStore,
	evaluator *Evaluator,
	alertFilter *filter.Filter,
	deduplicator *dedup.Deduplicator,
	streamPublisher *publisher.StreamPublisher,
	alertWriter *writer.AlertWriter,
	alertHub *hub.Hub,
	sports []string,
	tick, maxAge time.Duration,
) *Runner {
	return &Runner{
		consumer:    streamConsumer,
		store:       store,
		evaluator:   evaluator,
		filter:      alertFilter,
		dedup:       deduplicator,
		publisher:   streamPublisher,
		alertWriter: alertWriter,
		alertHub:    alertHub,
		sports:      sports,
		tick:        tick,
		maxAge:      maxAge,
	}
}

// Run consumes snapshot streams and evaluates on each tick until the
// context is cancelled
func (r *Runner) Run(ctx context.Context) error {
	// One consumer goroutine per snapshot stream
	for _, sport := range r.sports {
		for _, source := range []models.Source{models.SourceReference, models.SourceComparison} {
			streamKey := SnapshotStreamKey(source, sport)
			go r.consumeStream(ctx, streamKey)
		}
	}

	go r.reportMetrics(ctx)

	fmt.Printf("✓ Engine started: sports=%v tick=%s max_age=%s\n", r.sports, r.tick, r.maxAge)

	ticker := time.NewTicker(r.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.runTick(ctx)
		}
	}
}

// SnapshotStreamKey returns the Redis stream a source publishes its
// whole-board snapshots on
func SnapshotStreamKey(source models.Source, sport string) string {
	return fmt.Sprintf("odds.%s.%s", source, sport)
}

// consumeStream feeds one snapshot stream into the store
func (r *Runner) consumeStream(ctx context.Context, streamKey string) {
	messageCh, errorCh := r.consumer.ConsumeStream(ctx, streamKey)

	for {
		select {
		case <-ctx.Done():
			return

		case err := <-errorCh:
			if err != nil {
				fmt.Printf("stream error on %s: %v\n", streamKey, err)
				r.incrementErrors()
			}

		case msg, ok := <-messageCh:
			if !ok {
				return
			}

			r.store.Put(msg.Snapshot)

			if err := r.consumer.AckMessage(ctx, msg.StreamKey, msg.ID); err != nil {
				fmt.Printf("error acknowledging message %s: %v\n", msg.ID, err)
			}
		}
	}
}

// runTick evaluates every sport that has a fresh snapshot pair
func (r *Runner) runTick(ctx context.Context) {
	r.mu.Lock()
	r.tickCount++
	r.mu.Unlock()

	for _, sport := range r.sports {
		ref, cmp, ok := r.store.Pair(sport, r.maxAge)
		if !ok {
			continue
		}

		report := r.evaluator.Evaluate(ref, cmp)

		r.mu.Lock()
		r.resultCount += int64(len(report.Results))
		r.unmatchedCount += int64(len(report.Unmatched))
		r.skippedQuotes += int64(report.SkippedQuotes)
		r.mu.Unlock()

		now := time.Now()
		accepted := r.filter.Apply(report.Results, now)

		alerts := make([]models.EVAlert, 0, len(accepted))
		for _, result := range accepted {
			emit, err := r.dedup.ShouldAlert(ctx, result)
			if err != nil {
				fmt.Printf("dedup error: %v\n", err)
				r.incrementErrors()
				continue
			}
			if !emit {
				continue
			}

			dataAge := now.Sub(cmp.CapturedAt)
			alerts = append(alerts, models.EVAlert{
				ID:             uuid.New().String(),
				EVResult:       result,
				DataAgeSeconds: int(dataAge.Seconds()),
				EmittedAt:      now,
			})

			if result.Suspect {
				r.mu.Lock()
				r.suspectCount++
				r.mu.Unlock()
			}
		}

		if len(alerts) == 0 {
			continue
		}

		r.emitAlerts(ctx, sport, alerts)
	}
}

// emitAlerts pushes a batch of alerts to the stream, the database, and
// connected WebSocket clients
func (r *Runner) emitAlerts(ctx context.Context, sport string, alerts []models.EVAlert) {
	if err := r.publisher.PublishBatch(ctx, alerts); err != nil {
		fmt.Printf("error publishing alerts for %s: %v\n", sport, err)
		r.incrementErrors()
	}

	if r.alertWriter != nil {
		if err := r.alertWriter.WriteAlerts(ctx, alerts); err != nil {
			fmt.Printf("error persisting alerts for %s: %v\n", sport, err)
			r.incrementErrors()
		}
	}

	if r.alertHub != nil {
		for _, alert := range alerts {
			r.alertHub.Broadcast(alert)
		}
	}

	r.mu.Lock()
	r.alertCount += int64(len(alerts))
	r.mu.Unlock()

	for _, alert := range alerts {
		suspectTag := ""
		if alert.Suspect {
			suspectTag = " [suspect]"
		}
		fmt.Printf("✓ Alert %s: %s %s EV=%.2f%%%s\n",
			alert.Sport, alert.EventKey, alert.Description, alert.EVPercent, suspectTag)
	}
}

// GetMetrics returns a snapshot of the runner's counters
func (r *Runner) GetMetrics() map[string]interface{} {
	r.mu.Lock()
	defer r.mu.Unlock()

	return map[string]interface{}{
		"ticks":          r.tickCount,
		"results":        r.resultCount,
		"alerts":         r.alertCount,
		"suspect_alerts": r.suspectCount,
		"unmatched":      r.unmatchedCount,
		"skipped_quotes": r.skippedQuotes,
		"errors":         r.errorCount,
	}
}

// reportMetrics periodically prints runner counters
func (r *Runner) reportMetrics(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m := r.GetMetrics()
			fmt.Printf("📊 Engine Metrics: ticks=%d results=%d alerts=%d unmatched=%d skipped=%d errors=%d\n",
				m["ticks"], m["results"], m["alerts"], m["unmatched"], m["skipped_quotes"], m["errors"])
		}
	}
}

// incrementErrors safely increments the error counter
func (r *Runner) incrementErrors() {
	r.mu.Lock()
	r.errorCount++
	r.mu.Unlock()
}
