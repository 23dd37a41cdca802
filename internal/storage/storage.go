package storage

import (
	"context"
	"io"
	"time"
)

// Package storage holds the optional document archive: uploaded bytes kept in
// S3-compatible object storage, keyed by fingerprint, so a notarized document
// can be produced again later. The archive never participates in the
// integrity guarantee; the fingerprint and ledger receipt stand on their own.

// ArchiveKey returns the object key for a document fingerprint.
func ArchiveKey(fingerprint string) string {
	return "notarized/" + fingerprint
}

// PutObjectOptions define optional parameters for archiving objects.
// Size should be the exact number of bytes if known; if unknown, set to -1
// and the implementation will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an archived object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Archive is an S3-compatible object storage client used for document
// archival. Methods use context and streaming readers; no local disk is used.
type Archive interface {
	// Put archives an object under the given key.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Delete removes an archived object by key (rollback on failed notarization).
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the
	// archived document without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}
