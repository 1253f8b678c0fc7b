package jobs

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"go.uber.org/zap"
)

// OrderDispatcher is the part of the store the dispatch job drives.
type OrderDispatcher interface {
	OrdersInStatus(status order.Status) []*order.Order
	DispatchOrder(orderID kernel.ID) bool
}

// OrderDispatchJob moves paid orders from Processing to Delivering.
type OrderDispatchJob struct {
	scheduler
	orders OrderDispatcher
}

// NewOrderDispatchJob creates a job that dispatches Processing orders on the
// cron spec (seconds field first).
func NewOrderDispatchJob(orders OrderDispatcher, spec string, logger *zap.Logger) *OrderDispatchJob {
	return &OrderDispatchJob{
		scheduler: newScheduler("order_dispatch_job", spec, logger),
		orders:    orders,
	}
}

// Name identifies the job in logs and start errors.
func (j *OrderDispatchJob) Name() string { return j.name }

// Run dispatches every Processing order and returns how many moved.
func (j *OrderDispatchJob) Run(_ context.Context) int {
	dispatched := 0
	for _, o := range j.orders.OrdersInStatus(order.Processing) {
		if j.orders.DispatchOrder(o.ID()) {
			dispatched++
		}
	}
	if dispatched > 0 {
		j.logger.Info("orders dispatched", zap.Int("count", dispatched))
	}
	return dispatched
}

// Start schedules Run on the configured cron spec. It fails when the spec
// does not parse.
func (j *OrderDispatchJob) Start() error {
	return j.start(func(ctx context.Context) { j.Run(ctx) })
}

// Stop halts the schedule and waits for a dispatch in progress.
func (j *OrderDispatchJob) Stop() {
	j.stop()
}
