package jobs

import (
	"context"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"go.uber.org/zap"
)

// EventOutbox is the store's queue of unpublished order changes.
type EventOutbox interface {
	DrainEvents() []order.ChangedEvent
	RequeueEvents(events []order.ChangedEvent)
}

// EventRelayJob forwards recorded order changes to a publisher.
type EventRelayJob struct {
	scheduler
	outbox    EventOutbox
	publisher ports.OrderEventPublisher
}

// NewEventRelayJob creates a job that drains outbox into publisher on the
// cron spec.
func NewEventRelayJob(outbox EventOutbox, publisher ports.OrderEventPublisher, spec string, logger *zap.Logger) *EventRelayJob {
	return &EventRelayJob{
		scheduler: newScheduler("event_relay_job", spec, logger),
		outbox:    outbox,
		publisher: publisher,
	}
}

// Name identifies the job in logs and start errors.
func (j *EventRelayJob) Name() string { return j.name }

// Run publishes pending events. Events not delivered are requeued, so a
// later run resends them in their original order.
func (j *EventRelayJob) Run(ctx context.Context) (int, error) {
	events := j.outbox.DrainEvents()
	if len(events) == 0 {
		return 0, nil
	}

	published, err := j.publisher.Publish(ctx, events)
	if err != nil {
		j.outbox.RequeueEvents(events[published:])
		j.logger.Error("event relay failed",
			zap.Int("published", published),
			zap.Int("requeued", len(events)-published),
			zap.Error(err),
		)
		return published, err
	}

	j.logger.Debug("events relayed", zap.Int("count", published))
	return published, nil
}

// Start schedules Run on the configured cron spec.
func (j *EventRelayJob) Start() error {
	return j.start(func(ctx context.Context) { _, _ = j.Run(ctx) })
}

// Stop halts the schedule and waits for a relay in progress, so no drained
// batch is left unrequeued.
func (j *EventRelayJob) Stop() {
	j.stop()
}
