package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-dashboard/internal/catalog"
	"marketplace-dashboard/internal/ident"
	"marketplace-dashboard/internal/modal"
	"marketplace-dashboard/internal/toast"
	"marketplace-dashboard/internal/txsim"
)

func newTestService(t *testing.T) (*Service, *clock.Mock, *toast.Queue) {
	t.Helper()
	mc := clock.NewMock()
	q := toast.NewQueue()
	sim, err := txsim.New(q, txsim.WithClock(mc), txsim.WithGenerator(&ident.Sequential{}))
	require.NoError(t, err)
	return NewService(sim, q, "https://suiscan.xyz/mainnet", nil), mc, q
}

func TestBuyResolvesListingTitle(t *testing.T) {
	svc, mc, _ := newTestService(t)

	rec, err := svc.Buy(context.Background(), "4")
	require.NoError(t, err)
	assert.Equal(t, `Purchasing "Whale Wallet Tracker"`, rec.Title)

	toasts := svc.Toasts(mc.Now())
	require.Len(t, toasts, 1)
	assert.Equal(t, "Submitting to Sui...", toasts[0].Label)
	assert.Equal(t, "primary", toasts[0].Tone)
	assert.True(t, toasts[0].Busy)
	assert.Equal(t, "https://suiscan.xyz/mainnet/tx/"+rec.Hash, toasts[0].ExplorerURL)
}

func TestBuyUnknownListing(t *testing.T) {
	svc, _, q := newTestService(t)
	_, err := svc.Buy(context.Background(), "404")
	require.ErrorIs(t, err, catalog.ErrListingNotFound)
	assert.Zero(t, q.Len())
}

func TestToastViewsFollowLifecycle(t *testing.T) {
	svc, mc, _ := newTestService(t)
	ctx := context.Background()

	a, err := svc.Buy(ctx, "1")
	require.NoError(t, err)
	b, err := svc.Buy(ctx, "2")
	require.NoError(t, err)

	mc.Add(3 * time.Second)
	require.NoError(t, svc.Fail(ctx, b.ID))

	toasts := svc.Toasts(mc.Now())
	require.Len(t, toasts, 2)
	assert.Equal(t, a.ID, toasts[0].ID)
	assert.Equal(t, "Object transferred", toasts[0].Label)
	assert.Equal(t, "success", toasts[0].Tone)
	assert.False(t, toasts[0].Busy)
	assert.Equal(t, "3 seconds ago", toasts[0].Age)
	// b was confirmed at the same instant, so the fail is rejected
	assert.Equal(t, modal.TxConfirmed, toasts[1].State)

	require.NoError(t, svc.Dismiss(ctx, a.ID))
	toasts = svc.Toasts(mc.Now())
	require.Len(t, toasts, 1)
	assert.Equal(t, b.ID, toasts[0].ID)
}

func TestFailBeforeConfirmShowsDestructiveToast(t *testing.T) {
	svc, mc, _ := newTestService(t)
	ctx := context.Background()

	rec, err := svc.Buy(ctx, "3")
	require.NoError(t, err)
	mc.Add(2 * time.Second)
	require.NoError(t, svc.Fail(ctx, rec.ID))

	toasts := svc.Toasts(mc.Now())
	require.Len(t, toasts, 1)
	assert.Equal(t, "Transaction failed", toasts[0].Label)
	assert.Equal(t, "destructive", toasts[0].Tone)
	assert.Empty(t, toasts[0].ResultObjectID)
}

func TestListingViews(t *testing.T) {
	svc, _, _ := newTestService(t)
	views := svc.Listings()
	require.Len(t, views, 6)

	whale := views[3]
	assert.Equal(t, "Signal", whale.CategoryLabel)
	assert.Equal(t, "0x1a2b...ef12", whale.ShortAddress)
	assert.Equal(t, "high", whale.TrustTier)
	assert.Equal(t, "Excellent", whale.TrustLabel)
	assert.Equal(t, "8,932", whale.Downloads)

	sentiment := views[4]
	assert.True(t, sentiment.HighRisk)
	assert.Equal(t, "low", sentiment.TrustTier)
	require.Len(t, svc.StatCards(), 3)
}

type inspectingEngine struct {
	*txsim.Simulator
	records map[string]modal.TransactionRecord
}

func (e inspectingEngine) Inspect(_ context.Context, id string) (modal.TransactionRecord, error) {
	rec, ok := e.records[id]
	if !ok {
		return modal.TransactionRecord{}, modal.ErrUnknownTx
	}
	return rec, nil
}

func TestInspectNeedsWorkflowEngine(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Inspect(context.Background(), "tx-1")
	require.ErrorIs(t, err, ErrInspectUnsupported)
}

func TestInspectUsesEngineRecord(t *testing.T) {
	q := toast.NewQueue()
	sim, err := txsim.New(q, txsim.WithClock(clock.NewMock()))
	require.NoError(t, err)
	want := modal.TransactionRecord{ID: "tx-7", State: modal.TxConfirmed, ResultObjectID: "0xobj0001"}
	svc := NewService(inspectingEngine{Simulator: sim, records: map[string]modal.TransactionRecord{"tx-7": want}}, q, "", nil)

	got, err := svc.Inspect(context.Background(), "tx-7")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = svc.Inspect(context.Background(), "tx-8")
	require.ErrorIs(t, err, modal.ErrUnknownTx)
}
