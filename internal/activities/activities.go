package activities

import (
	"context"

	"go.temporal.io/sdk/activity"

	"marketplace-dashboard/internal/modal"
	"marketplace-dashboard/internal/toast"
)

// Activities apply workflow decisions to the process-local toast queue. The
// queue's guards make them safe to retry and safe to run after a dismissal.
type Activities struct {
	Queue *toast.Queue
}

func (a *Activities) UpdateToast(ctx context.Context, id string, patch modal.Patch) (bool, error) {
	applied := a.Queue.Update(id, patch)
	activity.GetLogger(ctx).Info("toast update", "id", id, "state", patch.State, "applied", applied)
	return applied, nil
}

func (a *Activities) RemoveToast(ctx context.Context, id string) (bool, error) {
	removed := a.Queue.Remove(id)
	activity.GetLogger(ctx).Info("toast remove", "id", id, "removed", removed)
	return removed, nil
}
