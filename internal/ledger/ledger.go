package ledger

import (
	"context"
	"errors"
	"time"
)

// Package ledger abstracts the distributed ledger used as a timestamping and
// attestation medium. The core never parses ledger-specific transaction
// structure beyond existence and the block timestamp.

var (
	// ErrUnavailable indicates a transport-level failure reaching the ledger.
	ErrUnavailable = errors.New("ledger unavailable")
	// ErrRejected indicates the ledger received the attestation and refused it.
	ErrRejected = errors.New("ledger rejected transaction")
)

// TxMeta is the subset of transaction metadata the workflows consume.
// Exists=false with a nil error means the ledger does not know the id; that
// is an answer, not a failure.
type TxMeta struct {
	ID             string    `json:"id"`
	Exists         bool      `json:"exists"`
	BlockNumber    int64     `json:"block_number,omitempty"`
	BlockTimestamp time.Time `json:"block_timestamp"`
}

// Gateway submits attestation transactions and fetches their metadata.
// Implementations own the signing identity; the payload is carried on-chain
// in a self-addressed transaction with zero value transferred.
type Gateway interface {
	// SubmitAttestation submits payload as the data of an attestation
	// transaction and returns the opaque transaction id.
	SubmitAttestation(ctx context.Context, payload []byte) (string, error)

	// GetTransaction fetches metadata for a transaction id.
	// An unknown id yields TxMeta{Exists: false} and no error.
	GetTransaction(ctx context.Context, txID string) (TxMeta, error)
}
