package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"trustseal/internal/fingerprint"
	"trustseal/internal/ledger"
	"trustseal/internal/model"
	"trustseal/internal/payment"
	"trustseal/internal/repository"
	"trustseal/internal/storage"
)

var (
	ErrNoDocument          = errors.New("no document uploaded")
	ErrPaymentRequired     = errors.New("payment required")
	ErrRecordNotFound      = errors.New("record not found")
	ErrTransactionNotFound = errors.New("transaction not found on ledger")
)

// attestationPrefix is the canonical payload prefix carried on-chain.
// The full payload is attestationPrefix + fingerprint, UTF-8.
const attestationPrefix = "Notarized:"

// presignExpiry bounds the lifetime of archive download links returned by
// verification.
const presignExpiry = 15 * time.Minute

// FileMeta is the display metadata captured at upload time. It is not part
// of the integrity guarantee.
type FileMeta struct {
	Name        string
	Size        int64
	ContentType string
}

// NotarizeResult is the outcome of a successful notarization.
type NotarizeResult struct {
	Fingerprint   string              `json:"documentHash"`
	TransactionID string              `json:"transactionId"`
	Record        *model.NotaryRecord `json:"record"`
	DemoMode      bool                `json:"demoMode,omitempty"`
}

// VerifyResult is the outcome of a successful verification.
type VerifyResult struct {
	Verified    bool                `json:"verified"`
	Timestamp   time.Time           `json:"timestamp"`
	Record      *model.NotaryRecord `json:"record"`
	Transaction ledger.TxMeta       `json:"ledgerTransaction"`
	ArchiveURL  string              `json:"archiveUrl,omitempty"`
	DemoMode    bool                `json:"demoMode,omitempty"`
}

// NotaryService defines the use cases of the notarization system.
type NotaryService interface {
	// Notarize fingerprints the document, enforces the payment gate when
	// active, attests the fingerprint on the ledger, and persists the record.
	Notarize(ctx context.Context, r io.Reader, meta FileMeta, paymentSessionID string) (*NotarizeResult, error)

	// Verify looks up a fingerprint and cross-checks the referenced ledger
	// transaction. Pure read; no mutation occurs.
	Verify(ctx context.Context, fp string) (*VerifyResult, error)

	// CreatePaymentSession opens a checkout session for the named file.
	CreatePaymentSession(ctx context.Context, fileName string) (*payment.Session, error)

	// VerifyPayment returns the current status of a checkout session.
	VerifyPayment(ctx context.Context, sessionID string) (*payment.Session, error)

	// ConfirmPayment handles a provider webhook delivery.
	ConfirmPayment(payload []byte, signature string) (sessionID string, paid bool, err error)
}

// Options carry the startup-resolved policy knobs of the workflows.
type Options struct {
	// OwnerIdentity is the configured signing identity recorded as the
	// submitting party on every record.
	OwnerIdentity string
	// Demo marks that ledger and store are synthetic collaborators; responses
	// are flagged and nothing is persisted durably.
	Demo bool
	// PaymentGate requires a paid checkout session before notarization.
	// Inactive when the payment provider is not configured: every request is
	// then treated as pre-paid.
	PaymentGate bool
}

// notaryService is the concrete NotaryService. Collaborators are injected
// explicitly; demo mode is just a different set of injected implementations
// plus the Demo flag for response tagging.
type notaryService struct {
	ledger   ledger.Gateway
	repo     repository.NotaryRepository
	payments payment.Gateway
	archive  storage.Archive // nil when archiving is disabled
	opts     Options
}

// NewNotaryService constructs a new NotaryService.
func NewNotaryService(lg ledger.Gateway, repo repository.NotaryRepository, pay payment.Gateway, archive storage.Archive, opts Options) NotaryService {
	return &notaryService{ledger: lg, repo: repo, payments: pay, archive: archive, opts: opts}
}

func (s *notaryService) Notarize(ctx context.Context, r io.Reader, meta FileMeta, paymentSessionID string) (*NotarizeResult, error) {
	if r == nil {
		return nil, ErrNoDocument
	}

	// Payment gate before any other collaborator is contacted.
	if s.opts.PaymentGate {
		if paymentSessionID == "" {
			return nil, ErrPaymentRequired
		}
		sess, err := s.payments.GetSession(ctx, paymentSessionID)
		if err != nil {
			if errors.Is(err, payment.ErrSessionNotFound) {
				return nil, fmt.Errorf("%w: unknown session %s", ErrPaymentRequired, paymentSessionID)
			}
			return nil, fmt.Errorf("verify payment session: %w", err)
		}
		if !sess.Paid() {
			return nil, fmt.Errorf("%w: session %s is %s", ErrPaymentRequired, paymentSessionID, sess.Status)
		}
	}

	// An actually-empty file is still valid content; only a missing upload
	// was rejected above.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	fp := fingerprint.SHA256Hex(data)

	archiveKey, err := s.archivePut(ctx, fp, data, meta)
	if err != nil {
		return nil, fmt.Errorf("archive document: %w", err)
	}

	txID, err := s.ledger.SubmitAttestation(ctx, []byte(attestationPrefix+fp))
	if err != nil {
		s.archiveRollback(ctx, archiveKey)
		return nil, fmt.Errorf("submit attestation: %w", err)
	}

	rec := &model.NotaryRecord{
		ID:               uuid.New().String(),
		DocumentHash:     fp,
		LedgerTxID:       txID,
		FileName:         meta.Name,
		FileSize:         meta.Size,
		FileType:         meta.ContentType,
		OwnerIdentity:    s.opts.OwnerIdentity,
		PaymentSessionID: paymentSessionID,
		ArchivePath:      archiveKey,
		CreatedAt:        time.Now().UTC(),
	}
	stored, err := s.repo.Create(ctx, rec)
	if err != nil {
		// The attestation is already on the ledger and cannot be rolled
		// back; the archive object can be, and is.
		s.archiveRollback(ctx, archiveKey)
		return nil, fmt.Errorf("persist record (attestation %s already on ledger): %w", txID, err)
	}

	return &NotarizeResult{
		Fingerprint:   fp,
		TransactionID: txID,
		Record:        stored,
		DemoMode:      s.opts.Demo,
	}, nil
}

func (s *notaryService) Verify(ctx context.Context, fp string) (*VerifyResult, error) {
	if fp == "" {
		return nil, ErrRecordNotFound
	}

	rec, err := s.repo.FindByFingerprint(ctx, fp)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("look up record: %w", err)
		}
		if s.opts.Demo {
			return s.verifyDemoFallback(fp)
		}
		return nil, ErrRecordNotFound
	}

	tx, err := s.ledger.GetTransaction(ctx, rec.LedgerTxID)
	if err != nil {
		return nil, fmt.Errorf("fetch ledger transaction: %w", err)
	}
	if !tx.Exists {
		return nil, fmt.Errorf("%w: %s", ErrTransactionNotFound, rec.LedgerTxID)
	}

	res := &VerifyResult{
		Verified:    true,
		Timestamp:   tx.BlockTimestamp,
		Record:      rec,
		Transaction: tx,
		DemoMode:    s.opts.Demo,
	}
	if s.archive != nil && rec.ArchivePath != "" {
		// Best effort: a broken archive link never fails verification.
		if u, err := s.archive.PresignGet(ctx, rec.ArchivePath, presignExpiry); err == nil {
			res.ArchiveURL = u
		}
	}
	return res, nil
}

// verifyDemoFallback synthesizes a verified response for plausible
// fingerprints so the demo deployment is explorable without any collaborator.
func (s *notaryService) verifyDemoFallback(fp string) (*VerifyResult, error) {
	if !fingerprint.Valid(fp) && !strings.HasPrefix(fp, "demo_") {
		return nil, ErrRecordNotFound
	}
	now := time.Now().UTC()
	return &VerifyResult{
		Verified:  true,
		Timestamp: now,
		DemoMode:  true,
		Record: &model.NotaryRecord{
			ID:            "demo_record_id",
			DocumentHash:  fp,
			LedgerTxID:    "demo_tx_unrecorded",
			FileName:      "demo_document.pdf",
			FileSize:      12345,
			FileType:      "application/pdf",
			OwnerIdentity: "0xDemo1234567890123456789012345678901234567890",
			CreatedAt:     now,
		},
		Transaction: ledger.TxMeta{ID: "demo_tx_unrecorded", Exists: true, BlockTimestamp: now},
	}, nil
}

func (s *notaryService) CreatePaymentSession(ctx context.Context, fileName string) (*payment.Session, error) {
	if fileName == "" {
		fileName = "Untitled"
	}
	return s.payments.CreateSession(ctx, fileName)
}

func (s *notaryService) VerifyPayment(ctx context.Context, sessionID string) (*payment.Session, error) {
	return s.payments.GetSession(ctx, sessionID)
}

func (s *notaryService) ConfirmPayment(payload []byte, signature string) (string, bool, error) {
	return s.payments.HandleWebhook(payload, signature)
}

// archivePut stores the document bytes when archiving is enabled; it returns
// the object key, or "" when the archive is disabled.
func (s *notaryService) archivePut(ctx context.Context, fp string, data []byte, meta FileMeta) (string, error) {
	if s.archive == nil {
		return "", nil
	}
	key := storage.ArchiveKey(fp)
	_, err := s.archive.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: meta.ContentType,
		Metadata: map[string]string{
			"original-filename": meta.Name,
		},
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

func (s *notaryService) archiveRollback(ctx context.Context, key string) {
	if s.archive == nil || key == "" {
		return
	}
	// Rollback failure leaves an orphaned object, which is harmless; the
	// record it would belong to was never written.
	_ = s.archive.Delete(ctx, key)
}
