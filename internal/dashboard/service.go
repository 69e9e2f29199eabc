// Package dashboard connects the buy trigger, the transaction engine and the
// toast queue for the rendering surfaces.
package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/dustin/go-humanize"
	"go.temporal.io/sdk/log"

	"marketplace-dashboard/internal/catalog"
	"marketplace-dashboard/internal/logging"
	"marketplace-dashboard/internal/modal"
	"marketplace-dashboard/internal/toast"
)

// Engine drives transactions. txsim.Simulator and workflows.Engine both
// satisfy it.
type Engine interface {
	Submit(ctx context.Context, title string) (modal.TransactionRecord, error)
	Fail(ctx context.Context, id string) error
	Dismiss(ctx context.Context, id string) error
}

// Inspector is implemented by engines that keep their own record of a
// transaction apart from the toast queue.
type Inspector interface {
	Inspect(ctx context.Context, id string) (modal.TransactionRecord, error)
}

var ErrInspectUnsupported = errors.New("engine keeps no workflow record")

type ToastView struct {
	modal.TransactionRecord
	Label       string `json:"label"`
	Tone        string `json:"tone"`
	Busy        bool   `json:"busy"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
	Age         string `json:"age"`
}

type ListingView struct {
	modal.Listing
	CategoryLabel string `json:"categoryLabel"`
	ShortAddress  string `json:"shortAddress"`
	TrustTier     string `json:"trustTier"`
	TrustLabel    string `json:"trustLabel"`
	HighRisk      bool   `json:"highRisk"`
	Downloads     string `json:"downloads"`
	Subscribers   string `json:"subscribers"`
}

type Service struct {
	engine      Engine
	queue       *toast.Queue
	explorerURL string
	logger      log.Logger
}

func NewService(engine Engine, queue *toast.Queue, explorerURL string, logger log.Logger) *Service {
	return &Service{
		engine:      engine,
		queue:       queue,
		explorerURL: explorerURL,
		logger:      logging.Ensure(logger),
	}
}

// Buy resolves the listing and submits a purchase for it.
func (s *Service) Buy(ctx context.Context, listingID string) (modal.TransactionRecord, error) {
	l, err := catalog.Lookup(listingID)
	if err != nil {
		return modal.TransactionRecord{}, err
	}
	rec, err := s.engine.Submit(ctx, catalog.PurchaseTitle(l))
	if err != nil {
		s.logger.Error("purchase submit failed", "listingId", listingID, "error", err)
		return modal.TransactionRecord{}, err
	}
	return rec, nil
}

func (s *Service) Dismiss(ctx context.Context, id string) error {
	return s.engine.Dismiss(ctx, id)
}

func (s *Service) Fail(ctx context.Context, id string) error {
	return s.engine.Fail(ctx, id)
}

// Inspect returns the engine's record for id when the engine keeps one.
func (s *Service) Inspect(ctx context.Context, id string) (modal.TransactionRecord, error) {
	in, ok := s.engine.(Inspector)
	if !ok {
		return modal.TransactionRecord{}, ErrInspectUnsupported
	}
	return in.Inspect(ctx, id)
}

// Toasts renders the live records, oldest first.
func (s *Service) Toasts(now time.Time) []ToastView {
	recs := s.queue.List()
	out := make([]ToastView, 0, len(recs))
	for _, r := range recs {
		out = append(out, s.toastView(r, now))
	}
	return out
}

func (s *Service) toastView(r modal.TransactionRecord, now time.Time) ToastView {
	v := ToastView{
		TransactionRecord: r,
		Label:             r.State.Label(),
		Tone:              tone(r.State),
		Busy:              !r.State.Terminal(),
	}
	if r.Hash != "" && s.explorerURL != "" {
		v.ExplorerURL = s.explorerURL + "/tx/" + r.Hash
	}
	if !r.CreatedAt.IsZero() {
		v.Age = humanize.RelTime(r.CreatedAt, now, "ago", "from now")
	}
	return v
}

func tone(s modal.TxState) string {
	switch s {
	case modal.TxVerifying:
		return "warning"
	case modal.TxConfirmed:
		return "success"
	case modal.TxFailed:
		return "destructive"
	}
	return "primary"
}

func (s *Service) Listings() []ListingView {
	all := catalog.All()
	out := make([]ListingView, 0, len(all))
	for _, l := range all {
		out = append(out, ListingView{
			Listing:       l,
			CategoryLabel: l.Category.Label(),
			ShortAddress:  catalog.FormatAddress(l.Seller.Address),
			TrustTier:     string(catalog.TrustTier(l.Seller.Reputation)),
			TrustLabel:    catalog.TrustLabel(l.Seller.Reputation),
			HighRisk:      catalog.HighRisk(l.Seller.Reputation),
			Downloads:     catalog.FormatCount(l.Stats.Downloads),
			Subscribers:   catalog.FormatCount(l.Stats.Subscribers),
		})
	}
	return out
}

func (s *Service) StatCards() []modal.StatCard {
	return catalog.StatCards()
}
