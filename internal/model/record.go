package model

import "time"

// NotaryRecord is the persisted attestation of a document fingerprint.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, repository) without coupling to persistence.
//
// DocumentHash and LedgerTxID form the integrity guarantee; the file metadata
// fields are captured at upload time for display only, and are never part of
// any verification decision. A record is written exactly once and never
// updated or deleted.
type NotaryRecord struct {
	ID               string    `json:"id"`
	DocumentHash     string    `json:"document_hash"`
	LedgerTxID       string    `json:"ledger_tx_id"`
	FileName         string    `json:"file_name"`
	FileSize         int64     `json:"file_size"`
	FileType         string    `json:"file_type"`
	OwnerIdentity    string    `json:"owner_identity"`
	PaymentSessionID string    `json:"payment_session_id,omitempty"`
	ArchivePath      string    `json:"archive_path,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
