package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Janitor removes games nobody has touched for a while.
type Janitor struct {
	storage  GameStorage
	schedule string
	idleTTL  time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewJanitor(storage GameStorage, schedule string, idleTTL time.Duration, logger *zap.Logger) *Janitor {
	return &Janitor{
		storage:  storage,
		schedule: schedule,
		idleTTL:  idleTTL,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start runs the sweep on the cron schedule until ctx is cancelled.
func (j *Janitor) Start(ctx context.Context) error {
	c := cron.New(cron.WithLocation(time.UTC))

	if _, err := c.AddFunc(j.schedule, j.Sweep); err != nil {
		return fmt.Errorf("add janitor job %q: %w", j.schedule, err)
	}

	c.Start()
	j.logger.Info("janitor started",
		zap.String("schedule", j.schedule),
		zap.Duration("idle_ttl", j.idleTTL),
	)

	<-ctx.Done()

	<-c.Stop().Done()
	j.logger.Info("janitor stopped")
	return nil
}

// Sweep removes idle games once.
func (j *Janitor) Sweep() {
	removed := j.storage.Sweep(j.now(), j.idleTTL)
	if removed > 0 {
		j.logger.Info("idle games swept", zap.Int("removed", removed))
	}
}
