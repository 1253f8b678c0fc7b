package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// scheduler runs one function on a cron spec.
type scheduler struct {
	name   string
	spec   string
	cron   *cron.Cron
	logger *zap.Logger
}

func newScheduler(name, spec string, logger *zap.Logger) scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return scheduler{
		name:   name,
		spec:   spec,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger.With(zap.String("component", name)),
	}
}

// start registers run on the spec and starts the cron loop.
func (s *scheduler) start(run func(ctx context.Context)) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		run(context.Background())
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("job started", zap.String("schedule", s.spec))
	return nil
}

// stop waits for a run in progress to finish.
func (s *scheduler) stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("job stopped")
}
