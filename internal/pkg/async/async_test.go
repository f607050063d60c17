// internal/pkg/async/async_test.go
package async

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func waitForCount(t *testing.T, counter *atomic.Int64, want int64) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if counter.Load() >= want {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for count %d, got %d", want, counter.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestDebouncerCoalescesBurst(t *testing.T) {
	var calls atomic.Int64
	d := NewDebouncer(30*time.Millisecond, func() { calls.Add(1) })
	defer d.Stop()

	for i := 0; i < 10; i++ {
		d.Trigger()
	}

	waitForCount(t, &calls, 1)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int64(1), calls.Load())
}

func TestDebouncerFiresAgainAfterQuietWindow(t *testing.T) {
	var calls atomic.Int64
	d := NewDebouncer(10*time.Millisecond, func() { calls.Add(1) })
	defer d.Stop()

	d.Trigger()
	waitForCount(t, &calls, 1)

	d.Trigger()
	waitForCount(t, &calls, 2)
}

func TestDebouncerStopCancelsPending(t *testing.T) {
	var calls atomic.Int64
	d := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Stop()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(0), calls.Load())

	// Triggers after Stop are ignored
	d.Trigger()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int64(0), calls.Load())
}

func TestPollerInvokesOnInterval(t *testing.T) {
	var calls atomic.Int64
	p := NewPoller(10*time.Millisecond, func(_ context.Context) { calls.Add(1) })

	p.Start()
	defer p.Stop()

	waitForCount(t, &calls, 3)
}

func TestPollerStartIsIdempotent(t *testing.T) {
	var calls atomic.Int64
	p := NewPoller(10*time.Millisecond, func(_ context.Context) { calls.Add(1) })

	p.Start()
	p.Start()
	defer p.Stop()

	waitForCount(t, &calls, 2)
}

func TestPollerStopCancelsContext(t *testing.T) {
	cancelled := make(chan struct{})
	started := make(chan struct{})

	p := NewPoller(5*time.Millisecond, func(ctx context.Context) {
		select {
		case started <- struct{}{}:
		default:
		}
		select {
		case <-ctx.Done():
			select {
			case cancelled <- struct{}{}:
			default:
			}
		case <-time.After(time.Second):
		}
	})

	p.Start()

	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("poller never invoked fn")
	}

	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("poller context never cancelled")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestPollerStopWithoutStart(t *testing.T) {
	p := NewPoller(time.Minute, func(_ context.Context) {})
	assert.NotPanics(t, p.Stop)
}
