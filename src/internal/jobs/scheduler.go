// Package jobs runs the periodic ledger batches: interest accrual and due
// standing orders.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/logger"
	"github.com/robfig/cron/v3"
)

type InterestRunner interface {
	AccrueAndPost(ctx context.Context, periodDays int) (domain.BatchResult, error)
}

type StandingOrderRunner interface {
	RunDue(ctx context.Context, now time.Time) (domain.BatchResult, error)
}

type Config struct {
	InterestSchedule      string
	StandingOrderSchedule string
	InterestPeriodDays    int
}

// Scheduler owns a cron instance. A job still running when its next tick
// fires is skipped, so a slow accrual never overlaps itself.
type Scheduler struct {
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	interest   InterestRunner
	orders     StandingOrderRunner
	periodDays int
	now        func() time.Time
}

func NewScheduler(interest InterestRunner, orders StandingOrderRunner, cfg Config) (*Scheduler, error) {
	log := cronLogger{}
	ctx, cancel := context.WithCancel(context.Background())

	s := &Scheduler{
		cron: cron.New(cron.WithLogger(log), cron.WithChain(
			cron.Recover(log),
			cron.SkipIfStillRunning(log),
		)),
		ctx:        ctx,
		cancel:     cancel,
		interest:   interest,
		orders:     orders,
		periodDays: cfg.InterestPeriodDays,
		now:        time.Now,
	}

	if cfg.InterestSchedule != "" {
		if _, err := s.cron.AddFunc(cfg.InterestSchedule, s.runInterest); err != nil {
			cancel()
			return nil, fmt.Errorf("interest schedule %q: %w", cfg.InterestSchedule, err)
		}
	}
	if cfg.StandingOrderSchedule != "" {
		if _, err := s.cron.AddFunc(cfg.StandingOrderSchedule, s.runStandingOrders); err != nil {
			cancel()
			return nil, fmt.Errorf("standing order schedule %q: %w", cfg.StandingOrderSchedule, err)
		}
	}

	return s, nil
}

func (s *Scheduler) Start() {
	logger.Info("job scheduler started", logger.Fields{"jobs": len(s.cron.Entries())})
	s.cron.Start()
}

// Stop cancels running batches and waits for them to return or for ctx to
// expire. Items already committed stay committed.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()

	select {
	case <-done.Done():
		logger.Info("job scheduler stopped", nil)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scheduler) runInterest() {
	result, err := s.interest.AccrueAndPost(s.ctx, s.periodDays)
	logRun("interest accrual", result, err)
}

func (s *Scheduler) runStandingOrders() {
	result, err := s.orders.RunDue(s.ctx, s.now())
	logRun("standing orders", result, err)
}

func logRun(job string, result domain.BatchResult, err error) {
	fields := logger.Fields{
		"job":       job,
		"succeeded": result.Succeeded,
		"skipped":   result.Skipped,
		"failed":    len(result.Failures),
	}
	if err != nil {
		logger.Error("scheduled job failed", err, fields)
		return
	}
	logger.Info("scheduled job complete", fields)
}

// cronLogger routes cron's own messages through the ledger logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Info("cron: "+msg, pairs(keysAndValues))
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, err, pairs(keysAndValues))
}

func pairs(keysAndValues []interface{}) logger.Fields {
	fields := logger.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
