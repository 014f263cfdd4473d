package watchdog

import (
	"context"
	"log/slog"
	"time"
)

// UIRunner schedules a callback on the UI thread.
type UIRunner interface {
	RunOnUIThread(fn func() error)
}

// Config holds configuration for the watchdog.
type Config struct {
	Interval time.Duration
	Stall    time.Duration
	Logger   *slog.Logger
}

// Watchdog periodically probes the UI thread and logs when it stops
// responding, which usually means a handler is stuck in a long
// computation it should have pushed to a worker.
type Watchdog struct {
	interval time.Duration
	stall    time.Duration
	runner   UIRunner
	logger   *slog.Logger
}

// New creates a watchdog probing through runner.
func New(cfg Config, runner UIRunner) *Watchdog {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	stall := cfg.Stall
	if stall <= 0 {
		stall = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Watchdog{
		interval: interval,
		stall:    stall,
		runner:   runner,
		logger:   logger,
	}
}

// Run starts the probe loop. Blocks until context is cancelled.
func (w *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("watchdog started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watchdog stopped")
			return
		case <-ticker.C:
			w.probe(ctx)
		}
	}
}

// probe performs a single liveness check.
func (w *Watchdog) probe(ctx context.Context) {
	start := time.Now()
	done := make(chan struct{})
	w.runner.RunOnUIThread(func() error {
		close(done)
		return nil
	})

	select {
	case <-done:
		elapsed := time.Since(start)
		if elapsed > w.stall/2 {
			w.logger.Warn("UI thread slow to respond", "elapsed", elapsed)
		} else {
			w.logger.Debug("UI thread responsive", "elapsed", elapsed)
		}
	case <-time.After(w.stall):
		w.logger.Warn("UI thread stalled", "waited", w.stall)
	case <-ctx.Done():
	}
}
