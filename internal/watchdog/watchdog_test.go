package watchdog

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type liveRunner struct {
	probes atomic.Int32
}

func (r *liveRunner) RunOnUIThread(fn func() error) {
	r.probes.Add(1)
	go fn()
}

type deadRunner struct{}

func (deadRunner) RunOnUIThread(fn func() error) {}

func TestProbeReachesUIThread(t *testing.T) {
	runner := &liveRunner{}
	wd := New(Config{
		Interval: 10 * time.Millisecond,
		Stall:    time.Second,
		Logger:   slog.New(slog.DiscardHandler),
	}, runner)

	ctx, cancel := context.WithCancel(context.Background())
	go wd.Run(ctx)

	deadline := time.After(time.Second)
	for runner.probes.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("watchdog never probed the UI thread")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
}

func TestStalledUIThreadDoesNotBlockShutdown(t *testing.T) {
	wd := New(Config{
		Interval: 5 * time.Millisecond,
		Stall:    time.Hour,
		Logger:   slog.New(slog.DiscardHandler),
	}, deadRunner{})

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		wd.Run(ctx)
		close(stopped)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("watchdog did not stop after cancellation")
	}
}

func TestDefaultsApplied(t *testing.T) {
	wd := New(Config{}, deadRunner{})
	if wd.interval != 30*time.Second {
		t.Fatalf("interval = %v, want 30s", wd.interval)
	}
	if wd.stall != 5*time.Second {
		t.Fatalf("stall = %v, want 5s", wd.stall)
	}
}
