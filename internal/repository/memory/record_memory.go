package memory

import (
	"context"
	"database/sql"
	"sync"

	"trustseal/internal/model"
	"trustseal/internal/repository"
)

// NotaryMemory is the in-memory repository.NotaryRepository used in demo mode.
// Records live only for the lifetime of the process and are never persisted
// durably. Safe for concurrent use.
//
// It returns sql.ErrNoRows for missing records so the service layer keeps a
// single not-found contract across the postgres and memory backends.
type NotaryMemory struct {
	mu      sync.RWMutex
	records []model.NotaryRecord
}

// NewNotaryMemory creates an empty in-memory repository.
func NewNotaryMemory() *NotaryMemory {
	return &NotaryMemory{}
}

var _ repository.NotaryRepository = (*NotaryMemory)(nil)

// Create appends a copy of the record. Duplicate fingerprints are allowed,
// mirroring the schema of the configured backend.
func (r *NotaryMemory) Create(_ context.Context, rec *model.NotaryRecord) (*model.NotaryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *rec
	r.records = append(r.records, stored)
	return &stored, nil
}

// FindByFingerprint returns the earliest record for the fingerprint.
// Records are appended in creation order, so the first match is the earliest.
func (r *NotaryMemory) FindByFingerprint(_ context.Context, fp string) (*model.NotaryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.records {
		if r.records[i].DocumentHash == fp {
			rec := r.records[i]
			return &rec, nil
		}
	}
	return nil, sql.ErrNoRows
}
