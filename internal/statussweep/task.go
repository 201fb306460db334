package statussweep

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
)

// TypeReconcile is the asynq task type of the periodic sweep.
const TypeReconcile = "status:reconcile"

func NewReconcileTask() *asynq.Task {
	return asynq.NewTask(TypeReconcile, nil, asynq.MaxRetry(3), asynq.Timeout(10*time.Minute))
}

// TaskHandler runs the sweep with the clock's current time and stores the
// report as the task result.
func (r *Reconciler) TaskHandler(clock func() time.Time) asynq.HandlerFunc {
	if clock == nil {
		clock = time.Now
	}
	return func(ctx context.Context, task *asynq.Task) error {
		report, err := r.Run(ctx, clock())
		if err != nil {
			return fmt.Errorf("reconcile statuses: %w", err)
		}
		if w := task.ResultWriter(); w != nil {
			if body, err := json.Marshal(report); err == nil {
				_, _ = w.Write(body)
			}
		}
		return nil
	}
}
