package statussweep

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type ScheduleConfig struct {
	Interval time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

// Schedule runs the sweep once immediately and then every Interval until ctx
// is done. The returned channel closes after the last run has finished.
func (r *Reconciler) Schedule(ctx context.Context, cfg ScheduleConfig) <-chan struct{} {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	done := make(chan struct{})

	go func() {
		defer close(done)
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		for {
			if _, err := r.Run(ctx, now()); err != nil {
				r.log.Warn("scheduled sweep reported errors", zap.Error(err))
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	return done
}
