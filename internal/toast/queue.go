// Package toast holds the set of live transaction notifications.
//
// Every mutation is guarded: updating or removing an id that is gone, inserting
// a duplicate id and moving a record backwards are all reported as "not
// applied" rather than as errors. Late timer callbacks rely on this.
package toast

import (
	"sync"

	"marketplace-dashboard/internal/modal"
)

type EventKind string

const (
	EventInserted EventKind = "inserted"
	EventUpdated  EventKind = "updated"
	EventRemoved  EventKind = "removed"
)

// Event describes one applied mutation. Record is the state after the change
// (or the last state, for removals).
type Event struct {
	Kind   EventKind
	Record modal.TransactionRecord
}

type Observer func(Event)

type Option func(*Queue)

// WithObserver registers fn to be called after each applied mutation.
// Events are delivered one at a time in the order the mutations were applied.
// Observers may read the queue but must not mutate it.
func WithObserver(fn Observer) Option {
	return func(q *Queue) {
		if fn != nil {
			q.observers = append(q.observers, fn)
		}
	}
}

// Queue maps transaction id to its current record and keeps insertion order.
type Queue struct {
	// emit serializes each mutation together with its notification.
	emit      sync.Mutex
	mu        sync.Mutex
	order     []string
	records   map[string]*modal.TransactionRecord
	observers []Observer
}

func NewQueue(opts ...Option) *Queue {
	q := &Queue{records: make(map[string]*modal.TransactionRecord)}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Insert appends rec. It is a no-op when rec.ID is empty or already present.
func (q *Queue) Insert(rec modal.TransactionRecord) bool {
	q.emit.Lock()
	defer q.emit.Unlock()

	q.mu.Lock()
	if rec.ID == "" || !rec.State.Valid() {
		q.mu.Unlock()
		return false
	}
	if _, ok := q.records[rec.ID]; ok {
		q.mu.Unlock()
		return false
	}
	if rec.State != modal.TxConfirmed {
		rec.ResultObjectID = ""
	}
	stored := rec
	q.records[rec.ID] = &stored
	q.order = append(q.order, rec.ID)
	q.mu.Unlock()

	q.notify(Event{Kind: EventInserted, Record: rec})
	return true
}

// Update applies p to the record with the given id if it still exists and the
// state change, if any, is a forward move out of a non-terminal state.
func (q *Queue) Update(id string, p modal.Patch) bool {
	q.emit.Lock()
	defer q.emit.Unlock()

	q.mu.Lock()
	rec, ok := q.records[id]
	if !ok {
		q.mu.Unlock()
		return false
	}
	next := *rec
	if p.State != "" && p.State != rec.State {
		if !modal.CanTransition(rec.State, p.State) {
			q.mu.Unlock()
			return false
		}
		next.State = p.State
	} else if rec.State.Terminal() {
		q.mu.Unlock()
		return false
	}
	if p.ResultObjectID != "" {
		next.ResultObjectID = p.ResultObjectID
	}
	if next.State != modal.TxConfirmed {
		next.ResultObjectID = ""
	}
	if !p.At.IsZero() {
		next.UpdatedAt = p.At
	}
	if next == *rec {
		q.mu.Unlock()
		return false
	}
	*rec = next
	q.mu.Unlock()

	q.notify(Event{Kind: EventUpdated, Record: next})
	return true
}

// Remove deletes the record with the given id. Removing twice is harmless.
func (q *Queue) Remove(id string) bool {
	q.emit.Lock()
	defer q.emit.Unlock()

	q.mu.Lock()
	rec, ok := q.records[id]
	if !ok {
		q.mu.Unlock()
		return false
	}
	last := *rec
	delete(q.records, id)
	for i, oid := range q.order {
		if oid == id {
			q.order = append(q.order[:i], q.order[i+1:]...)
			break
		}
	}
	q.mu.Unlock()

	q.notify(Event{Kind: EventRemoved, Record: last})
	return true
}

func (q *Queue) Get(id string) (modal.TransactionRecord, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	rec, ok := q.records[id]
	if !ok {
		return modal.TransactionRecord{}, false
	}
	return *rec, true
}

// List returns a copy of the live records in insertion order.
func (q *Queue) List() []modal.TransactionRecord {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]modal.TransactionRecord, 0, len(q.order))
	for _, id := range q.order {
		out = append(out, *q.records[id])
	}
	return out
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.order)
}

func (q *Queue) notify(ev Event) {
	for _, fn := range q.observers {
		fn(ev)
	}
}
