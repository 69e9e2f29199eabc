// Package catalog serves the mock marketplace listings and the helpers the
// dashboard uses to describe sellers.
package catalog

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"

	"marketplace-dashboard/internal/modal"
)

var ErrListingNotFound = errors.New("listing not found")

var listings = []modal.Listing{
	{
		ID:          "1",
		Title:       "DeFi Trading Signals - Premium",
		Description: "Real-time trading signals for top 50 DeFi pairs with 78% accuracy rate",
		Category:    modal.CategorySignal,
		Price:       45,
		Seller:      modal.Seller{Address: "0x7a4b3c2d1e0f9876543210abcdef123456789abc", Reputation: 95, Verified: true},
		Stats:       modal.ListingStats{Downloads: 12453, Subscribers: 847, LastUpdated: "2h ago"},
	},
	{
		ID:          "2",
		Title:       "Sui Network Analytics Dataset",
		Description: "Historical transaction data and on-chain metrics for the Sui ecosystem",
		Category:    modal.CategoryDataset,
		Price:       120,
		Seller:      modal.Seller{Address: "0x3e2f1a0b9c8d7654321fedcba0987654321fedcba", Reputation: 88, Verified: true},
		Stats:       modal.ListingStats{Downloads: 5621, Subscribers: 234, LastUpdated: "1d ago"},
	},
	{
		ID:          "3",
		Title:       "NFT Price Prediction Model",
		Description: "LSTM-based model trained on 2M+ NFT sales for price forecasting",
		Category:    modal.CategoryAIModel,
		Price:       250,
		Seller:      modal.Seller{Address: "0x9f8e7d6c5b4a3210fedcba987654321098765432", Reputation: 72, Verified: false},
		Stats:       modal.ListingStats{Downloads: 1890, Subscribers: 156, LastUpdated: "3d ago"},
	},
	{
		ID:          "4",
		Title:       "Whale Wallet Tracker",
		Description: "Live tracking of 500+ whale wallets with movement alerts",
		Category:    modal.CategorySignal,
		Price:       35,
		Seller:      modal.Seller{Address: "0x1a2b3c4d5e6f7890abcdef1234567890abcdef12", Reputation: 91, Verified: true},
		Stats:       modal.ListingStats{Downloads: 8932, Subscribers: 623, LastUpdated: "5h ago"},
	},
	{
		ID:          "5",
		Title:       "Social Sentiment Dataset",
		Description: "Aggregated sentiment scores from Twitter, Discord, and Telegram",
		Category:    modal.CategoryDataset,
		Price:       80,
		Seller:      modal.Seller{Address: "0x5f4e3d2c1b0a9876543210fedcba98765432abcd", Reputation: 42, Verified: false},
		Stats:       modal.ListingStats{Downloads: 2341, Subscribers: 89, LastUpdated: "12h ago"},
	},
	{
		ID:          "6",
		Title:       "Token Listing Predictor v2",
		Description: "AI model predicting CEX listings with 65% accuracy, 7-day advance",
		Category:    modal.CategoryAIModel,
		Price:       180,
		Seller:      modal.Seller{Address: "0xabcdef123456789012345678901234567890abcd", Reputation: 83, Verified: true},
		Stats:       modal.ListingStats{Downloads: 4567, Subscribers: 312, LastUpdated: "6h ago"},
	},
}

// All returns a copy of every listing.
func All() []modal.Listing {
	out := make([]modal.Listing, len(listings))
	copy(out, listings)
	return out
}

func Lookup(id string) (modal.Listing, error) {
	for _, l := range listings {
		if l.ID == id {
			return l, nil
		}
	}
	return modal.Listing{}, fmt.Errorf("%w: %q", ErrListingNotFound, id)
}

// PurchaseTitle is the toast title for buying l.
func PurchaseTitle(l modal.Listing) string {
	return fmt.Sprintf("Purchasing %q", l.Title)
}

func StatCards() []modal.StatCard {
	return []modal.StatCard{
		{Title: "Total Revenue", Value: humanize.Comma(2847), Subtitle: "SUI", Trend: modal.Trend{Value: 12.5, IsPositive: true}, Variant: "primary"},
		{Title: "Data Quality Score", Value: "87", Subtitle: "/100", Trend: modal.Trend{Value: 3.2, IsPositive: true}, Variant: "success"},
		{Title: "Active Subscriptions", Value: "24", Subtitle: "datasets", Trend: modal.Trend{Value: 8, IsPositive: true}, Variant: "default"},
	}
}
