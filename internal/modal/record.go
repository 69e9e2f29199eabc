package modal

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidTiming = errors.New("invalid lifecycle timing")
	ErrEmptyTitle    = errors.New("purchase title is empty")
	ErrUnknownTx     = errors.New("unknown transaction")
)

// TransactionRecord is the tracked state of one simulated purchase.
type TransactionRecord struct {
	ID             string    `json:"id"`
	State          TxState   `json:"state"`
	Title          string    `json:"title"`
	Hash           string    `json:"hash"`
	ResultObjectID string    `json:"resultObjectId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Patch is a partial change to a record. Empty fields are left alone.
type Patch struct {
	State          TxState   `json:"state,omitempty"`
	ResultObjectID string    `json:"resultObjectId,omitempty"`
	At             time.Time `json:"at"`
}

// Timing holds the lifecycle delays, all measured from submission.
type Timing struct {
	VerifyAfter  time.Duration `json:"verifyAfter"`
	ConfirmAfter time.Duration `json:"confirmAfter"`
	RemoveAfter  time.Duration `json:"removeAfter"`
}

// Dwell is how long a terminal record stays visible before removal.
func (t Timing) Dwell() time.Duration {
	return t.RemoveAfter - t.ConfirmAfter
}

// Validate requires 0 < VerifyAfter < ConfirmAfter < RemoveAfter so that the
// transitions for one record fire in order.
func (t Timing) Validate() error {
	if t.VerifyAfter <= 0 || t.ConfirmAfter <= t.VerifyAfter || t.RemoveAfter <= t.ConfirmAfter {
		return fmt.Errorf("%w: verify=%s confirm=%s remove=%s", ErrInvalidTiming, t.VerifyAfter, t.ConfirmAfter, t.RemoveAfter)
	}
	return nil
}

// PurchaseRequest is the input of the durable purchase lifecycle.
type PurchaseRequest struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Hash   string `json:"hash"`
	Timing Timing `json:"timing"`
}

type TxSignal struct {
	Reason string `json:"reason,omitempty"`
}
