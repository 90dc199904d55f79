package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// DaySlotMaterializer extends the rolling per-vendor day-slot window.
type DaySlotMaterializer interface {
	ExtendRollingWindow(ctx context.Context) error
}

// Scheduler runs the background maintenance tasks.
type Scheduler struct {
	materializer DaySlotMaterializer
	logger       *zap.Logger
	stopChan     chan struct{}
}

func NewScheduler(materializer DaySlotMaterializer, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		materializer: materializer,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start launches the background tasks.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("starting background scheduler")
	go s.runMaterializationTask(ctx)
}

// Stop stops the background tasks.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping background scheduler")
	close(s.stopChan)
}

// runMaterializationTask keeps the vendor day-slot tables ahead of the rolling
// window. First run happens immediately, then once per day.
func (s *Scheduler) runMaterializationTask(ctx context.Context) {
	s.materialize(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.materialize(ctx)
		case <-s.stopChan:
			s.logger.Info("day-slot materialization task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("day-slot materialization task cancelled")
			return
		}
	}
}

func (s *Scheduler) materialize(ctx context.Context) {
	s.logger.Info("extending vendor day-slot windows")

	if err := s.materializer.ExtendRollingWindow(ctx); err != nil {
		s.logger.Error("failed to extend day-slot windows", zap.Error(err))
		return
	}

	s.logger.Info("day-slot windows extended")
}
