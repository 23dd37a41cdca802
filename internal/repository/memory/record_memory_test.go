package memory

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"trustseal/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotaryMemory_CreateAndFind(t *testing.T) {
	repo := NewNotaryMemory()
	ctx := context.Background()

	rec := &model.NotaryRecord{
		ID:           "id-1",
		DocumentHash: "aaaa",
		LedgerTxID:   "demo_tx_abc123def",
		FileName:     "doc.pdf",
		CreatedAt:    time.Now().UTC(),
	}

	stored, err := repo.Create(ctx, rec)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, stored.ID)

	found, err := repo.FindByFingerprint(ctx, "aaaa")
	require.NoError(t, err)
	assert.Equal(t, "id-1", found.ID)

	// Mutating the returned record must not affect stored state.
	found.FileName = "mutated"
	again, err := repo.FindByFingerprint(ctx, "aaaa")
	require.NoError(t, err)
	assert.Equal(t, "doc.pdf", again.FileName)
}

func TestNotaryMemory_NotFound(t *testing.T) {
	repo := NewNotaryMemory()

	rec, err := repo.FindByFingerprint(context.Background(), "missing")

	assert.Nil(t, rec)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestNotaryMemory_DuplicateFingerprintsReturnEarliest(t *testing.T) {
	repo := NewNotaryMemory()
	ctx := context.Background()

	first := &model.NotaryRecord{ID: "id-1", DocumentHash: "same", LedgerTxID: "tx-1"}
	second := &model.NotaryRecord{ID: "id-2", DocumentHash: "same", LedgerTxID: "tx-2"}

	_, err := repo.Create(ctx, first)
	require.NoError(t, err)
	_, err = repo.Create(ctx, second)
	require.NoError(t, err)

	found, err := repo.FindByFingerprint(ctx, "same")
	require.NoError(t, err)
	assert.Equal(t, "id-1", found.ID)
	assert.Equal(t, "tx-1", found.LedgerTxID)
}
