package modal

type TxState string

const (
	TxPending   TxState = "pending"
	TxVerifying TxState = "verifying"
	TxConfirmed TxState = "confirmed"
	TxFailed    TxState = "failed"
)

var txRank = map[TxState]int{
	TxPending:   0,
	TxVerifying: 1,
	TxConfirmed: 2,
	TxFailed:    2,
}

// Valid reports whether s is one of the four lifecycle states.
func (s TxState) Valid() bool {
	_, ok := txRank[s]
	return ok
}

// Terminal reports whether no further state change is allowed.
func (s TxState) Terminal() bool {
	return s == TxConfirmed || s == TxFailed
}

// CanTransition allows only forward moves out of a non-terminal state.
// Skipping verifying is allowed; going back or sideways is not.
func CanTransition(from, to TxState) bool {
	if !from.Valid() || !to.Valid() || from.Terminal() {
		return false
	}
	return txRank[to] > txRank[from]
}

// Label is the short status line shown under a toast title.
func (s TxState) Label() string {
	switch s {
	case TxPending:
		return "Submitting to Sui..."
	case TxVerifying:
		return "Verifying on-chain..."
	case TxConfirmed:
		return "Object transferred"
	case TxFailed:
		return "Transaction failed"
	}
	return string(s)
}

type Category string

const (
	CategoryDataset Category = "dataset"
	CategoryAIModel Category = "ai-model"
	CategorySignal  Category = "signal"
)

func (c Category) Label() string {
	switch c {
	case CategoryDataset:
		return "Dataset"
	case CategoryAIModel:
		return "AI Model"
	case CategorySignal:
		return "Signal"
	}
	return string(c)
}
