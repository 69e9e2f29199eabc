package toast

import (
	"fmt"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-dashboard/internal/modal"
)

func pending(id string) modal.TransactionRecord {
	return modal.TransactionRecord{ID: id, State: modal.TxPending, Title: "Purchase " + id, Hash: "0x" + id}
}

func TestInsertRejectsDuplicates(t *testing.T) {
	q := NewQueue()
	require.True(t, q.Insert(pending("a")))

	dup := pending("a")
	dup.Title = "other"
	require.False(t, q.Insert(dup))

	got, ok := q.Get("a")
	require.True(t, ok)
	assert.Equal(t, "Purchase a", got.Title)
	assert.Equal(t, 1, q.Len())
}

func TestInsertRejectsEmptyID(t *testing.T) {
	q := NewQueue()
	require.False(t, q.Insert(modal.TransactionRecord{State: modal.TxPending}))
	require.Zero(t, q.Len())
}

func TestListKeepsInsertionOrder(t *testing.T) {
	q := NewQueue()
	for _, id := range []string{"c", "a", "b"} {
		q.Insert(pending(id))
	}
	q.Remove("a")
	q.Insert(pending("d"))

	var ids []string
	for _, r := range q.List() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"c", "b", "d"}, ids)
}

func TestListReturnsCopy(t *testing.T) {
	q := NewQueue()
	q.Insert(pending("a"))
	list := q.List()
	list[0].State = modal.TxFailed

	got, _ := q.Get("a")
	assert.Equal(t, modal.TxPending, got.State)
}

func TestUpdateForwardOnly(t *testing.T) {
	q := NewQueue()
	q.Insert(pending("a"))

	require.True(t, q.Update("a", modal.Patch{State: modal.TxVerifying}))
	require.False(t, q.Update("a", modal.Patch{State: modal.TxPending}))
	require.True(t, q.Update("a", modal.Patch{State: modal.TxConfirmed, ResultObjectID: "0xobj"}))

	got, _ := q.Get("a")
	assert.Equal(t, modal.TxConfirmed, got.State)
	assert.Equal(t, "0xobj", got.ResultObjectID)
}

func TestTerminalRecordsRejectChanges(t *testing.T) {
	q := NewQueue()
	q.Insert(pending("a"))
	require.True(t, q.Update("a", modal.Patch{State: modal.TxFailed}))

	require.False(t, q.Update("a", modal.Patch{State: modal.TxConfirmed, ResultObjectID: "0xobj"}))
	require.False(t, q.Update("a", modal.Patch{State: modal.TxVerifying}))
	require.False(t, q.Update("a", modal.Patch{ResultObjectID: "0xobj"}))

	got, _ := q.Get("a")
	assert.Equal(t, modal.TxFailed, got.State)
	assert.Empty(t, got.ResultObjectID)
}

func TestResultObjectOnlyWhenConfirmed(t *testing.T) {
	q := NewQueue()
	rec := pending("a")
	rec.ResultObjectID = "0xearly"
	q.Insert(rec)

	got, _ := q.Get("a")
	assert.Empty(t, got.ResultObjectID)

	require.False(t, q.Update("a", modal.Patch{ResultObjectID: "0xobj"}))
	require.True(t, q.Update("a", modal.Patch{State: modal.TxVerifying, ResultObjectID: "0xobj"}))
	got, _ = q.Get("a")
	assert.Equal(t, modal.TxVerifying, got.State)
	assert.Empty(t, got.ResultObjectID)
}

func TestUpdateAndRemoveAfterRemovalAreNoops(t *testing.T) {
	q := NewQueue()
	q.Insert(pending("a"))
	q.Insert(pending("b"))

	require.True(t, q.Remove("a"))
	require.False(t, q.Remove("a"))
	require.False(t, q.Update("a", modal.Patch{State: modal.TxVerifying}))

	list := q.List()
	require.Len(t, list, 1)
	assert.Equal(t, pending("b"), list[0])
}

func TestRecordsDoNotInterfere(t *testing.T) {
	q := NewQueue()
	q.Insert(pending("a"))
	q.Insert(pending("b"))
	before, _ := q.Get("b")

	q.Update("a", modal.Patch{State: modal.TxVerifying})
	q.Update("a", modal.Patch{State: modal.TxConfirmed, ResultObjectID: "0xobj"})
	q.Remove("a")

	after, _ := q.Get("b")
	assert.Equal(t, before, after)
}

func TestObserverSeesAppliedMutationsOnly(t *testing.T) {
	var events []Event
	q := NewQueue(WithObserver(func(ev Event) { events = append(events, ev) }))

	q.Insert(pending("a"))
	q.Insert(pending("a"))
	q.Update("a", modal.Patch{State: modal.TxVerifying})
	q.Update("a", modal.Patch{State: modal.TxPending})
	q.Remove("a")
	q.Remove("a")

	require.Len(t, events, 3)
	assert.Equal(t, EventInserted, events[0].Kind)
	assert.Equal(t, EventUpdated, events[1].Kind)
	assert.Equal(t, modal.TxVerifying, events[1].Record.State)
	assert.Equal(t, EventRemoved, events[2].Kind)
	assert.Equal(t, "a", events[2].Record.ID)
}

func TestObserverSeesMutationOrder(t *testing.T) {
	var (
		mu      sync.Mutex
		live    int
		lowest  int
		removed = map[string]bool{}
		early   []string
	)
	q := NewQueue(WithObserver(func(ev Event) {
		mu.Lock()
		defer mu.Unlock()
		switch ev.Kind {
		case EventInserted:
			live++
			if removed[ev.Record.ID] {
				early = append(early, ev.Record.ID)
			}
		case EventRemoved:
			live--
			removed[ev.Record.ID] = true
		}
		if live < lowest {
			lowest = live
		}
	}))

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		id := fmt.Sprintf("tx-%d", i)
		wg.Add(2)
		go func() {
			defer wg.Done()
			q.Insert(pending(id))
		}()
		go func() {
			defer wg.Done()
			for !q.Remove(id) {
				runtime.Gosched()
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, q.Len())
	assert.Zero(t, live)
	assert.Zero(t, lowest, "live count went negative")
	assert.Empty(t, early, "removal delivered before insertion")
}
