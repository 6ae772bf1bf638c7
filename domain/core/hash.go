package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// Short returns the first 12 hex digits, enough for log lines.
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// Fingerprint identifies a table by content. Two tables with the same names,
// types and cells have the same fingerprint.
type Fingerprint Hash

func NewFingerprint(data []byte) Fingerprint { return Fingerprint(NewHash(data)) }

func (f Fingerprint) String() string { return Hash(f).String() }
func (f Fingerprint) Short() string  { return Hash(f).Short() }
