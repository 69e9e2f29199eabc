package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"marketplace-dashboard/internal/ident"
	"marketplace-dashboard/internal/modal"
)

const TaskQueue = "MARKETPLACE_PURCHASE_TASK_QUEUE"

const (
	DismissSignal    = "DISMISS_SIGNAL"
	FailSignal       = "FAIL_SIGNAL"
	TransactionQuery = "transaction"
)

// WorkflowID is the workflow id used for the transaction with the given id.
func WorkflowID(txID string) string {
	return "purchase-" + txID
}

type wakeup int

const (
	wakeTimer wakeup = iota
	wakeDismiss
	wakeFail
)

// PurchaseLifecycle walks one purchase through pending, verifying and
// confirmed, then removes its toast. A FAIL_SIGNAL before confirmation ends
// the walk in failed; a DISMISS_SIGNAL at any point removes the toast and
// completes the workflow.
func PurchaseLifecycle(ctx workflow.Context, req modal.PurchaseRequest) (modal.TxState, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("purchase workflow started", "id", req.ID, "title", req.Title)

	start := workflow.Now(ctx)
	rec := modal.TransactionRecord{
		ID:        req.ID,
		State:     modal.TxPending,
		Title:     req.Title,
		Hash:      req.Hash,
		CreatedAt: start,
		UpdatedAt: start,
	}

	// Served by the API at GET /api/toasts/{id}/workflow.
	_ = workflow.SetQueryHandler(ctx, TransactionQuery, func() (modal.TransactionRecord, error) {
		return rec, nil
	})

	// Toast activities only touch in-memory state; retry quickly and give up
	// early, the next stage or the removal will catch up.
	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 5 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    200 * time.Millisecond,
			BackoffCoefficient: 2.0,
			MaximumAttempts:    3,
		},
	}
	actx := workflow.WithActivityOptions(ctx, ao)

	dismissCh := workflow.GetSignalChannel(ctx, DismissSignal)
	failCh := workflow.GetSignalChannel(ctx, FailSignal)

	// apply reports false when the toast is no longer live. rec is left as it
	// was so the query and the result keep the last state the toast showed.
	apply := func(p modal.Patch) (bool, error) {
		var applied bool
		if err := workflow.ExecuteActivity(actx, "UpdateToast", req.ID, p).Get(actx, &applied); err != nil {
			logger.Error("toast update failed", "id", req.ID, "state", p.State, "error", err)
			return false, err
		}
		if !applied {
			logger.Info("toast no longer live", "id", req.ID, "state", rec.State, "skipped", p.State)
			return false, nil
		}
		rec.State = p.State
		rec.ResultObjectID = p.ResultObjectID
		rec.UpdatedAt = p.At
		return true, nil
	}

	remove := func() error {
		var removed bool
		return workflow.ExecuteActivity(actx, "RemoveToast", req.ID).Get(actx, &removed)
	}

	stages := []struct {
		at    time.Duration
		state modal.TxState
	}{
		{req.Timing.VerifyAfter, modal.TxVerifying},
		{req.Timing.ConfirmAfter, modal.TxConfirmed},
	}

walk:
	for _, st := range stages {
		switch waitUntil(ctx, start.Add(st.at), dismissCh, failCh) {
		case wakeDismiss:
			logger.Info("purchase dismissed", "id", req.ID, "state", rec.State)
			return rec.State, remove()
		case wakeFail:
			applied, err := apply(modal.Patch{State: modal.TxFailed, At: workflow.Now(ctx)})
			if err != nil || !applied {
				return rec.State, err
			}
			break walk
		}

		p := modal.Patch{State: st.state, At: workflow.Now(ctx)}
		if st.state == modal.TxConfirmed {
			var objectID string
			if err := workflow.SideEffect(ctx, func(workflow.Context) interface{} {
				return ident.Random{}.NextObjectID()
			}).Get(&objectID); err != nil {
				return rec.State, err
			}
			p.ResultObjectID = objectID
		}
		applied, err := apply(p)
		if err != nil {
			return rec.State, err
		}
		if !applied {
			// Removed without a dismiss signal; nothing left to drive.
			return rec.State, nil
		}
	}

	// Terminal: keep the toast up until the removal deadline.
	for {
		w := waitUntil(ctx, start.Add(req.Timing.RemoveAfter), dismissCh, failCh)
		if w == wakeFail {
			logger.Info("fail ignored, transaction is terminal", "id", req.ID, "state", rec.State)
			continue
		}
		if w == wakeDismiss {
			logger.Info("purchase dismissed", "id", req.ID, "state", rec.State)
		}
		break
	}

	if err := remove(); err != nil {
		return rec.State, err
	}
	logger.Info("purchase workflow completed", "id", req.ID, "state", rec.State)
	return rec.State, nil
}

// waitUntil blocks until at, or until a dismiss or fail signal arrives.
func waitUntil(ctx workflow.Context, at time.Time, dismissCh, failCh workflow.ReceiveChannel) wakeup {
	d := at.Sub(workflow.Now(ctx))
	if d <= 0 {
		return wakeTimer
	}

	timerCtx, cancel := workflow.WithCancel(ctx)
	defer cancel()

	w := wakeTimer
	var sig modal.TxSignal
	selector := workflow.NewSelector(ctx)
	selector.AddFuture(workflow.NewTimer(timerCtx, d), func(workflow.Future) {
		w = wakeTimer
	})
	selector.AddReceive(dismissCh, func(c workflow.ReceiveChannel, more bool) {
		c.Receive(ctx, &sig)
		w = wakeDismiss
	})
	selector.AddReceive(failCh, func(c workflow.ReceiveChannel, more bool) {
		c.Receive(ctx, &sig)
		w = wakeFail
	})
	selector.Select(ctx) // yields until one branch is ready
	return w
}
