package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInterest struct {
	mu      sync.Mutex
	periods []int
	ctxs    []context.Context
}

func (f *fakeInterest) AccrueAndPost(ctx context.Context, periodDays int) (domain.BatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.periods = append(f.periods, periodDays)
	f.ctxs = append(f.ctxs, ctx)
	return domain.BatchResult{Succeeded: 2, Skipped: 1}, nil
}

type fakeOrders struct {
	mu   sync.Mutex
	runs []time.Time
	err  error
}

func (f *fakeOrders) RunDue(_ context.Context, now time.Time) (domain.BatchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs = append(f.runs, now)
	return domain.BatchResult{}, f.err
}

func TestNewSchedulerRejectsBadSchedule(t *testing.T) {
	_, err := NewScheduler(&fakeInterest{}, &fakeOrders{}, Config{InterestSchedule: "every tuesday"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interest schedule")

	_, err = NewScheduler(&fakeInterest{}, &fakeOrders{}, Config{StandingOrderSchedule: "* *"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "standing order schedule")
}

func TestSchedulerRegistersConfiguredJobs(t *testing.T) {
	s, err := NewScheduler(&fakeInterest{}, &fakeOrders{}, Config{
		InterestSchedule:      "0 2 1 * *",
		StandingOrderSchedule: "@hourly",
		InterestPeriodDays:    30,
	})
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 2)

	s, err = NewScheduler(&fakeInterest{}, &fakeOrders{}, Config{StandingOrderSchedule: "@hourly"})
	require.NoError(t, err)
	assert.Len(t, s.cron.Entries(), 1)
}

func TestJobsPassConfiguredArguments(t *testing.T) {
	interest := &fakeInterest{}
	orders := &fakeOrders{err: errors.New("boom")}
	s, err := NewScheduler(interest, orders, Config{InterestPeriodDays: 7})
	require.NoError(t, err)

	fixed := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.runInterest()
	s.runStandingOrders()

	assert.Equal(t, []int{7}, interest.periods)
	assert.Equal(t, []time.Time{fixed}, orders.runs)
}

func TestStopCancelsJobContext(t *testing.T) {
	interest := &fakeInterest{}
	s, err := NewScheduler(interest, &fakeOrders{}, Config{InterestPeriodDays: 30})
	require.NoError(t, err)

	s.Start()
	s.runInterest()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))

	require.Len(t, interest.ctxs, 1)
	assert.ErrorIs(t, interest.ctxs[0].Err(), context.Canceled)
}

func TestPairsIgnoresDanglingKey(t *testing.T) {
	fields := pairs([]interface{}{"now", 1, "next"})
	assert.Equal(t, 1, fields["now"])
	assert.NotContains(t, fields, "next")
}
