// Package txsim drives simulated purchases through the toast queue on a clock.
package txsim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/facebookgo/clock"
	"go.temporal.io/sdk/log"

	"marketplace-dashboard/internal/ident"
	"marketplace-dashboard/internal/logging"
	"marketplace-dashboard/internal/modal"
	"marketplace-dashboard/internal/toast"
)

var ErrDuplicateID = errors.New("transaction id already live")

// DefaultTiming matches the dashboard: verifying after 1.5s, confirmed after
// 3s, gone after 5s.
func DefaultTiming() modal.Timing {
	return modal.Timing{
		VerifyAfter:  1500 * time.Millisecond,
		ConfirmAfter: 3000 * time.Millisecond,
		RemoveAfter:  5000 * time.Millisecond,
	}
}

type Option func(*Simulator)

func WithClock(c clock.Clock) Option {
	return func(s *Simulator) { s.clock = c }
}

func WithGenerator(g ident.Generator) Option {
	return func(s *Simulator) { s.ids = g }
}

func WithTiming(t modal.Timing) Option {
	return func(s *Simulator) { s.timing = t }
}

func WithLogger(l log.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// Simulator schedules the transitions of each submitted purchase with
// clock.AfterFunc. Callbacks never cancel each other; every one goes through
// the queue's guards, so a callback for a dismissed or terminal record does
// nothing.
type Simulator struct {
	queue  *toast.Queue
	clock  clock.Clock
	ids    ident.Generator
	timing modal.Timing
	logger log.Logger
}

func New(queue *toast.Queue, opts ...Option) (*Simulator, error) {
	s := &Simulator{
		queue:  queue,
		clock:  clock.New(),
		ids:    ident.Random{},
		timing: DefaultTiming(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.Ensure(s.logger)
	if err := s.timing.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Simulator) Timing() modal.Timing {
	return s.timing
}

// Submit registers a pending record and schedules its lifecycle.
func (s *Simulator) Submit(ctx context.Context, title string) (modal.TransactionRecord, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return modal.TransactionRecord{}, modal.ErrEmptyTitle
	}

	now := s.clock.Now()
	rec := modal.TransactionRecord{
		ID:        s.ids.NextID(),
		State:     modal.TxPending,
		Title:     title,
		Hash:      s.ids.NextHash(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !s.queue.Insert(rec) {
		return modal.TransactionRecord{}, fmt.Errorf("%w: %s", ErrDuplicateID, rec.ID)
	}

	id := rec.ID
	s.clock.AfterFunc(s.timing.VerifyAfter, func() { s.advance(id, modal.TxVerifying) })
	s.clock.AfterFunc(s.timing.ConfirmAfter, func() { s.advance(id, modal.TxConfirmed) })
	s.clock.AfterFunc(s.timing.RemoveAfter, func() { s.expire(id) })

	s.logger.Info("transaction submitted", "id", id, "title", title, "hash", rec.Hash)
	return rec, nil
}

// Fail moves a non-terminal record to failed. Later scheduled transitions for
// the record are rejected by the queue; the removal timer still fires. A fail
// can only land before ConfirmAfter, so the failed toast stays up for at least
// the terminal dwell.
func (s *Simulator) Fail(ctx context.Context, id string) error {
	if !s.queue.Update(id, modal.Patch{State: modal.TxFailed, At: s.clock.Now()}) {
		s.logger.Debug("fail ignored", "id", id)
		return nil
	}
	s.logger.Info("transaction failed", "id", id)
	return nil
}

// Dismiss removes the record now. Its pending timers become no-ops.
func (s *Simulator) Dismiss(ctx context.Context, id string) error {
	if s.queue.Remove(id) {
		s.logger.Info("transaction dismissed", "id", id)
	}
	return nil
}

func (s *Simulator) advance(id string, state modal.TxState) {
	p := modal.Patch{State: state, At: s.clock.Now()}
	if state == modal.TxConfirmed {
		p.ResultObjectID = s.ids.NextObjectID()
	}
	if !s.queue.Update(id, p) {
		s.logger.Debug("stale transition skipped", "id", id, "state", state)
		return
	}
	s.logger.Info("transaction advanced", "id", id, "state", state)
}

func (s *Simulator) expire(id string) {
	if s.queue.Remove(id) {
		s.logger.Info("transaction expired", "id", id)
	}
}
