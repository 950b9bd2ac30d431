package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/school-portal-api/internal/models"
	"github.com/noah-isme/school-portal-api/pkg/jobs"
)

type eventBroadcaster interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// ReplacementEventDispatcher hands committed ledger changes to external delivery
// collaborators through a Redis channel. Publish never waits on the broker: events
// go to a bounded worker queue and are dropped with a warning when it is full.
type ReplacementEventDispatcher struct {
	queue       *jobs.Queue
	broadcaster eventBroadcaster
	channel     string
	metrics     *MetricsService
	logger      *zap.Logger
}

// NewReplacementEventDispatcher wires the queue handler. Call Start before publishing.
func NewReplacementEventDispatcher(broadcaster eventBroadcaster, channel string, cfg jobs.QueueConfig, metrics *MetricsService, logger *zap.Logger) *ReplacementEventDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Logger = logger
	d := &ReplacementEventDispatcher{
		broadcaster: broadcaster,
		channel:     channel,
		metrics:     metrics,
		logger:      logger,
	}
	d.queue = jobs.NewQueue("replacement-events", d.deliver, cfg)
	return d
}

func (d *ReplacementEventDispatcher) Start(ctx context.Context) {
	d.queue.Start(ctx)
}

// Stop delivers the events already queued, bounded by the queue drain timeout.
func (d *ReplacementEventDispatcher) Stop() {
	d.queue.Stop()
}

// Publish queues the event without blocking. Failures are logged and never surfaced to callers.
func (d *ReplacementEventDispatcher) Publish(ctx context.Context, event models.ReplacementEvent) {
	job := jobs.Job{ID: event.NotificationID, Type: event.Type, Payload: event}
	if err := d.queue.TryEnqueue(job); err != nil {
		d.metrics.RecordEventDelivery(false)
		d.logger.Warn("failed to enqueue replacement event",
			zap.String("notification_id", event.NotificationID),
			zap.String("type", event.Type),
			zap.Error(err),
		)
	}
}

func (d *ReplacementEventDispatcher) deliver(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(models.ReplacementEvent)
	if !ok {
		d.logger.Error("unexpected replacement event payload", zap.String("job_id", job.ID))
		return nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode replacement event: %w", err)
	}
	if err := d.broadcaster.Publish(ctx, d.channel, payload); err != nil {
		d.metrics.RecordEventDelivery(false)
		return err
	}
	d.metrics.RecordEventDelivery(true)
	d.logger.Debug("replacement event published", zap.String("notification_id", event.NotificationID), zap.String("type", event.Type))
	return nil
}
