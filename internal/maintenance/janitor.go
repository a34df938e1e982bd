// Package maintenance runs periodic housekeeping jobs inside the API process
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// TokenCleaner removes expired refresh tokens
type TokenCleaner interface {
	CleanExpiredTokens(ctx context.Context) (int, error)
}

// Janitor cleans expired refresh tokens on a cron schedule
type Janitor struct {
	cleaner  TokenCleaner
	schedule cron.Schedule
	logger   *zap.Logger
	now      func() time.Time
	after    func(time.Duration) <-chan time.Time
	stopChan chan struct{}
	done     chan struct{}
}

// NewJanitor parses a standard five-field cron expression and creates a janitor
func NewJanitor(cleaner TokenCleaner, cronExpr string, logger *zap.Logger) (*Janitor, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid cleanup schedule %q: %w", cronExpr, err)
	}

	return &Janitor{
		cleaner:  cleaner,
		schedule: schedule,
		logger:   logger,
		now:      time.Now,
		after:    time.After,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start runs the janitor in the background until Stop is called
func (j *Janitor) Start() {
	j.logger.Info("Token janitor started", zap.Time("nextRun", j.schedule.Next(j.now())))
	go j.run()
}

// Stop ends the loop and waits for a running cleanup to finish
func (j *Janitor) Stop() {
	close(j.stopChan)
	<-j.done
	j.logger.Info("Token janitor stopped")
}

func (j *Janitor) run() {
	defer close(j.done)

	for {
		wait := j.schedule.Next(j.now()).Sub(j.now())
		select {
		case <-j.after(wait):
			j.clean()
		case <-j.stopChan:
			return
		}
	}
}

func (j *Janitor) clean() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	deleted, err := j.cleaner.CleanExpiredTokens(ctx)
	if err != nil {
		j.logger.Error("scheduled token cleaning failed", zap.Error(err))
		return
	}
	j.logger.Info("scheduled token cleaning completed", zap.Int("deletedCount", deleted))
}
