package notify

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/api-sage/core-ledger/src/internal/domain"
	"github.com/api-sage/core-ledger/src/internal/logger"
	"github.com/api-sage/core-ledger/src/internal/usecase/service_interfaces"
)

// Notifier delivers one event to a downstream sink.
type Notifier interface {
	Notify(ctx context.Context, event domain.EntryEvent) error
}

// Dispatcher fans events out to a Notifier from a bounded queue. Publish never
// blocks the posting path: when the queue is full the event is dropped.
type Dispatcher struct {
	notifier Notifier
	queue    chan domain.EntryEvent
	wg       sync.WaitGroup
	mu       sync.RWMutex
	closed   bool
	dropped  atomic.Int64
}

var _ service_interfaces.EventPublisher = (*Dispatcher)(nil)

func NewDispatcher(notifier Notifier, buffer, workers int) *Dispatcher {
	if buffer < 1 {
		buffer = 1
	}
	if workers < 1 {
		workers = 1
	}

	d := &Dispatcher{
		notifier: notifier,
		queue:    make(chan domain.EntryEvent, buffer),
	}
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

func (d *Dispatcher) Publish(event domain.EntryEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(event, "dispatcher closed")
		return
	}

	select {
	case d.queue <- event:
	default:
		d.drop(event, "queue full")
	}
}

// Dropped returns how many events were discarded since start.
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

// Close stops intake and waits for queued events to drain or ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		logger.Warn("notify dispatcher close timed out", logger.Fields{"pending": len(d.queue)})
		return ctx.Err()
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for event := range d.queue {
		if err := d.notifier.Notify(context.Background(), event); err != nil {
			logger.Error("notify dispatcher delivery failed", err, logger.Fields{
				"eventId":       event.EventID,
				"transactionId": event.TransactionID,
				"accountId":     event.AccountID,
			})
		}
	}
}

func (d *Dispatcher) drop(event domain.EntryEvent, reason string) {
	total := d.dropped.Add(1)
	logger.Warn("notify dispatcher dropped event", logger.Fields{
		"eventId":       event.EventID,
		"transactionId": event.TransactionID,
		"reason":        reason,
		"dropped":       total,
	})
}
