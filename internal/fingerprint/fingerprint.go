package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
)

// Package fingerprint computes content-derived document fingerprints.
// A fingerprint is the lowercase hex SHA-256 digest of the document bytes:
// deterministic, fixed-width, and independent of any file metadata.

// HexLength is the length of a valid fingerprint string.
const HexLength = sha256.Size * 2

// SHA256Hex returns the lowercase hex SHA-256 digest of b.
// Empty input is valid and yields the digest of the empty string.
func SHA256Hex(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Valid reports whether s is syntactically a fingerprint: exactly 64
// lowercase or uppercase hex characters. It says nothing about whether a
// record exists for it.
func Valid(s string) bool {
	if len(s) != HexLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
