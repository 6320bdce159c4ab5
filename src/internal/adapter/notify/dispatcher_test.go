package notify

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

type recordingNotifier struct {
	mu      sync.Mutex
	events  []domain.EntryEvent
	release chan struct{}
	err     error
}

func (n *recordingNotifier) Notify(_ context.Context, event domain.EntryEvent) error {
	if n.release != nil {
		<-n.release
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

func TestDispatcherDeliversAndDrainsOnClose(t *testing.T) {
	notifier := &recordingNotifier{}
	d := NewDispatcher(notifier, 16, 3)

	for i := 0; i < 10; i++ {
		d.Publish(domain.EntryEvent{EventID: string(rune('a' + i))})
	}

	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, 10, notifier.count())
	assert.Zero(t, d.Dropped())
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	notifier := &recordingNotifier{release: make(chan struct{})}
	d := NewDispatcher(notifier, 1, 1)

	d.Publish(domain.EntryEvent{EventID: "first"})
	require.Eventually(t, func() bool { return len(d.queue) == 0 }, time.Second, time.Millisecond)

	d.Publish(domain.EntryEvent{EventID: "queued"})
	d.Publish(domain.EntryEvent{EventID: "dropped"})
	assert.Equal(t, int64(1), d.Dropped())

	close(notifier.release)
	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, 2, notifier.count())
}

func TestDispatcherKeepsWorkingAfterNotifyError(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("broker down")}
	d := NewDispatcher(notifier, 4, 1)

	d.Publish(domain.EntryEvent{EventID: "1"})
	d.Publish(domain.EntryEvent{EventID: "2"})

	require.NoError(t, d.Close(context.Background()))
	assert.Equal(t, 2, notifier.count())
}

func TestDispatcherPublishAfterCloseIsDropped(t *testing.T) {
	notifier := &recordingNotifier{}
	d := NewDispatcher(notifier, 4, 1)
	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()))

	d.Publish(domain.EntryEvent{EventID: "late"})
	assert.Equal(t, int64(1), d.Dropped())
	assert.Zero(t, notifier.count())
}

func TestDispatcherCloseHonoursContext(t *testing.T) {
	notifier := &recordingNotifier{release: make(chan struct{})}
	d := NewDispatcher(notifier, 4, 1)
	d.Publish(domain.EntryEvent{EventID: "stuck"})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)

	close(notifier.release)
}
