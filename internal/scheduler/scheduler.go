package scheduler

import (
	"context"
	"log/slog"
	"time"
)

type Job func(ctx context.Context) error

// Every runs job immediately and then once per interval until ctx is done.
// A run that outlasts the interval delays the next tick; runs never overlap.
func Every(ctx context.Context, l *slog.Logger, name string, interval time.Duration, job Job) {
	if interval <= 0 {
		l.Warn("scheduler_disabled", "job", name, "reason", "non-positive interval")
		return
	}
	l = l.With("job", name, "interval", interval.String())
	l.Info("scheduler_started")

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		run(ctx, l, job)
		select {
		case <-ctx.Done():
			l.Info("scheduler_stopped")
			return
		case <-t.C:
		}
	}
}

func run(ctx context.Context, l *slog.Logger, job Job) {
	start := time.Now()
	if err := job(ctx); err != nil {
		l.Warn("scheduled_run_failed", "duration_ms", time.Since(start).Milliseconds(), "error", err)
		return
	}
	l.Info("scheduled_run_done", "duration_ms", time.Since(start).Milliseconds())
}
