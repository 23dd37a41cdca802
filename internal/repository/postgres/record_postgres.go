package postgres

import (
	"context"
	"database/sql"

	"trustseal/internal/model"
	"trustseal/internal/repository"
)

// NotaryPostgres is a PostgreSQL implementation of repository.NotaryRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type NotaryPostgres struct {
	db *sql.DB
}

// NewNotaryPostgres creates a new NotaryPostgres repository.
func NewNotaryPostgres(db *sql.DB) *NotaryPostgres {
	return &NotaryPostgres{db: db}
}

var _ repository.NotaryRepository = (*NotaryPostgres)(nil)

// Create inserts a new notarization record and returns the stored row.
func (r *NotaryPostgres) Create(ctx context.Context, rec *model.NotaryRecord) (*model.NotaryRecord, error) {
	const q = `
		INSERT INTO notary_records (id, document_hash, ledger_tx_id, file_name, file_size, file_type, owner_identity, payment_session_id, archive_path, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, document_hash, ledger_tx_id, file_name, file_size, file_type, owner_identity, payment_session_id, archive_path, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		rec.ID,
		rec.DocumentHash,
		rec.LedgerTxID,
		rec.FileName,
		rec.FileSize,
		rec.FileType,
		rec.OwnerIdentity,
		rec.PaymentSessionID,
		rec.ArchivePath,
		rec.CreatedAt,
	)
	var out model.NotaryRecord
	if err := row.Scan(
		&out.ID,
		&out.DocumentHash,
		&out.LedgerTxID,
		&out.FileName,
		&out.FileSize,
		&out.FileType,
		&out.OwnerIdentity,
		&out.PaymentSessionID,
		&out.ArchivePath,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByFingerprint fetches the earliest record matching the fingerprint.
// Duplicates are permitted at the schema level; ORDER BY created_at keeps the
// first attestation as the canonical one for verification.
func (r *NotaryPostgres) FindByFingerprint(ctx context.Context, fp string) (*model.NotaryRecord, error) {
	const q = `
		SELECT id, document_hash, ledger_tx_id, file_name, file_size, file_type, owner_identity, payment_session_id, archive_path, created_at
		FROM notary_records
		WHERE document_hash = $1
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, q, fp)
	var rec model.NotaryRecord
	if err := row.Scan(
		&rec.ID,
		&rec.DocumentHash,
		&rec.LedgerTxID,
		&rec.FileName,
		&rec.FileSize,
		&rec.FileType,
		&rec.OwnerIdentity,
		&rec.PaymentSessionID,
		&rec.ArchivePath,
		&rec.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}
