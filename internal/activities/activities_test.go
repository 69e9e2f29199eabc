package activities

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/testsuite"

	"marketplace-dashboard/internal/modal"
	"marketplace-dashboard/internal/toast"
)

func TestToastActivities(t *testing.T) {
	var ts testsuite.WorkflowTestSuite
	env := ts.NewTestActivityEnvironment()

	q := toast.NewQueue()
	q.Insert(modal.TransactionRecord{ID: "tx-1", State: modal.TxPending, Title: "Purchase A", Hash: "0xabc"})
	a := &Activities{Queue: q}
	env.RegisterActivity(a)

	val, err := env.ExecuteActivity(a.UpdateToast, "tx-1", modal.Patch{State: modal.TxVerifying})
	require.NoError(t, err)
	var applied bool
	require.NoError(t, val.Get(&applied))
	require.True(t, applied)

	val, err = env.ExecuteActivity(a.UpdateToast, "tx-1", modal.Patch{State: modal.TxPending})
	require.NoError(t, err)
	require.NoError(t, val.Get(&applied))
	require.False(t, applied)

	val, err = env.ExecuteActivity(a.RemoveToast, "tx-1")
	require.NoError(t, err)
	var removed bool
	require.NoError(t, val.Get(&removed))
	require.True(t, removed)

	val, err = env.ExecuteActivity(a.RemoveToast, "tx-1")
	require.NoError(t, err)
	require.NoError(t, val.Get(&removed))
	require.False(t, removed)

	val, err = env.ExecuteActivity(a.UpdateToast, "tx-1", modal.Patch{State: modal.TxConfirmed})
	require.NoError(t, err)
	require.NoError(t, val.Get(&applied))
	require.False(t, applied)
	require.Zero(t, q.Len())
}
