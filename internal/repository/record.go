package repository

import (
	"context"

	"trustseal/internal/model"
)

// Package repository contains data access layer abstractions.
// Implementations live in subpackages (postgres for the configured mode,
// memory for demo mode).

// NotaryRepository defines data access for notarization records.
// No business logic here — strictly persistence operations.
//
// All implementations report a missing record as sql.ErrNoRows so the service
// layer translates not-found uniformly regardless of backend.
type NotaryRepository interface {
	// Create inserts a new notarization record and returns the stored row
	// (may include values set by the backend, e.g. created_at).
	Create(ctx context.Context, rec *model.NotaryRecord) (*model.NotaryRecord, error)

	// FindByFingerprint returns the record for an exact fingerprint match.
	// Duplicate notarizations of the same content are allowed; the earliest
	// record wins, since that is the first attestation of the content.
	FindByFingerprint(ctx context.Context, fp string) (*model.NotaryRecord, error)
}
