package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for fingerprints.
// Version suffix enables future algorithm migration.
const (
	DomainStatement = "qcore/statement/v1"
	DomainRow       = "qcore/row/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint hashes already-canonical bytes under a domain.
// Callers are responsible for producing a canonical encoding.
func Fingerprint(domain string, canonical []byte) string {
	return hashWithDomain(domain, canonical)
}

// RowHash computes the content hash of a record.
// Two records with the same columns and values always hash identically,
// regardless of map iteration order.
func RowHash(r Record) (string, error) {
	canonical, err := MarshalCanonical(r)
	if err != nil {
		return "", fmt.Errorf("RowHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRow, canonical), nil
}

// MustRowHash is like RowHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustRowHash(r Record) string {
	hash, err := RowHash(r)
	if err != nil {
		panic(err)
	}
	return hash
}
