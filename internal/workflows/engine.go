package workflows

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"

	"marketplace-dashboard/internal/activities"
	"marketplace-dashboard/internal/ident"
	"marketplace-dashboard/internal/logging"
	"marketplace-dashboard/internal/modal"
	"marketplace-dashboard/internal/toast"
)

type EngineOptions struct {
	TaskQueue string
	Timing    modal.Timing
	Generator ident.Generator
	Logger    log.Logger
}

// Engine runs each purchase as a PurchaseLifecycle workflow. The pending toast
// is inserted before the workflow starts so the dashboard shows it at once;
// every later change arrives through the toast activities.
type Engine struct {
	client    client.Client
	queue     *toast.Queue
	taskQueue string
	timing    modal.Timing
	ids       ident.Generator
	logger    log.Logger
}

func NewEngine(c client.Client, q *toast.Queue, opts EngineOptions) (*Engine, error) {
	if err := opts.Timing.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		client:    c,
		queue:     q,
		taskQueue: opts.TaskQueue,
		timing:    opts.Timing,
		ids:       opts.Generator,
		logger:    logging.Ensure(opts.Logger),
	}
	if e.taskQueue == "" {
		e.taskQueue = TaskQueue
	}
	if e.ids == nil {
		e.ids = ident.Random{}
	}
	return e, nil
}

func (e *Engine) Submit(ctx context.Context, title string) (modal.TransactionRecord, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return modal.TransactionRecord{}, modal.ErrEmptyTitle
	}

	now := time.Now().UTC()
	rec := modal.TransactionRecord{
		ID:        e.ids.NextID(),
		State:     modal.TxPending,
		Title:     title,
		Hash:      e.ids.NextHash(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !e.queue.Insert(rec) {
		return modal.TransactionRecord{}, fmt.Errorf("transaction id %s already live", rec.ID)
	}

	opts := client.StartWorkflowOptions{
		ID:                                       WorkflowID(rec.ID),
		TaskQueue:                                e.taskQueue,
		WorkflowExecutionTimeout:                 e.timing.RemoveAfter + time.Minute,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
		WorkflowIDReusePolicy:                    enums.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	req := modal.PurchaseRequest{ID: rec.ID, Title: rec.Title, Hash: rec.Hash, Timing: e.timing}
	if _, err := e.client.ExecuteWorkflow(ctx, opts, PurchaseLifecycle, req); err != nil {
		e.queue.Remove(rec.ID)
		return modal.TransactionRecord{}, fmt.Errorf("start purchase workflow: %w", err)
	}

	e.logger.Info("purchase workflow submitted", "id", rec.ID, "workflowId", opts.ID)
	return rec, nil
}

// Dismiss removes the toast right away and tells the workflow to stop. The
// toast is gone once it returns; a signal that does not get through is only
// logged, the workflow finds the toast missing at its next stage.
func (e *Engine) Dismiss(ctx context.Context, id string) error {
	e.queue.Remove(id)
	if err := e.signal(ctx, id, DismissSignal, modal.TxSignal{Reason: "dismissed"}); err != nil {
		e.logger.Warn("dismiss signal not delivered", "id", id, "error", err)
	}
	return nil
}

// Fail asks the workflow to end in failed. The toast changes when the
// workflow's activity runs.
func (e *Engine) Fail(ctx context.Context, id string) error {
	return e.signal(ctx, id, FailSignal, modal.TxSignal{Reason: "rejected"})
}

// Inspect returns the workflow's own view of the transaction, including
// after its toast has been removed.
func (e *Engine) Inspect(ctx context.Context, id string) (modal.TransactionRecord, error) {
	val, err := e.client.QueryWorkflow(ctx, WorkflowID(id), "", TransactionQuery)
	if err != nil {
		var nf *serviceerror.NotFound
		if errors.As(err, &nf) {
			return modal.TransactionRecord{}, fmt.Errorf("%w: %s", modal.ErrUnknownTx, id)
		}
		return modal.TransactionRecord{}, fmt.Errorf("query %s: %w", TransactionQuery, err)
	}
	var rec modal.TransactionRecord
	if err := val.Get(&rec); err != nil {
		return modal.TransactionRecord{}, fmt.Errorf("decode %s: %w", TransactionQuery, err)
	}
	return rec, nil
}

func (e *Engine) signal(ctx context.Context, id, name string, sig modal.TxSignal) error {
	err := e.client.SignalWorkflow(ctx, WorkflowID(id), "", name, sig)
	if err == nil {
		return nil
	}
	var nf *serviceerror.NotFound
	if errors.As(err, &nf) {
		// workflow already completed; nothing left to change
		e.logger.Debug("signal for finished purchase", "id", id, "signal", name)
		return nil
	}
	return fmt.Errorf("signal %s: %w", name, err)
}

// NewWorker registers the purchase workflow and the toast activities bound to q.
// It has to run in the process that owns q.
func NewWorker(c client.Client, taskQueue string, q *toast.Queue) worker.Worker {
	if taskQueue == "" {
		taskQueue = TaskQueue
	}
	w := worker.New(c, taskQueue, worker.Options{})
	w.RegisterWorkflow(PurchaseLifecycle)
	w.RegisterActivity(&activities.Activities{Queue: q})
	return w
}
