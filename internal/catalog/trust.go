package catalog

import (
	"github.com/dustin/go-humanize"
)

type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

func TrustTier(score int) Tier {
	switch {
	case score >= 80:
		return TierHigh
	case score >= 50:
		return TierMedium
	}
	return TierLow
}

func TrustLabel(score int) string {
	switch {
	case score >= 90:
		return "Excellent"
	case score >= 80:
		return "Trusted"
	case score >= 60:
		return "Verified"
	case score >= 40:
		return "New"
	}
	return "Risky"
}

// HighRisk flags sellers below the medium tier.
func HighRisk(score int) bool {
	return score < 50
}

// FormatAddress shortens a hex address to 0x7a4b...9abc.
func FormatAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}

// FormatCount renders counts with thousands separators.
func FormatCount(n int) string {
	return humanize.Comma(int64(n))
}
