package core

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
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

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// Domain-specific hash types
type (
	PromptHash   Hash
	ResponseHash Hash
)

func NewPromptHash(prompt string) PromptHash {
	return PromptHash(NewHash([]byte(prompt)))
}

func NewResponseHash(response string) ResponseHash {
	return ResponseHash(NewHash([]byte(response)))
}

func (h PromptHash) String() string   { return Hash(h).String() }
func (h ResponseHash) String() string { return Hash(h).String() }

// ComputeSampleSetHash fingerprints a set of model completions independent
// of the order they were collected in. Aggregation only depends on multiset
// membership, so two runs with the same samples hash identically.
func ComputeSampleSetHash(samples []string) Hash {
	sorted := make([]string, len(samples))
	copy(sorted, samples)
	sort.Strings(sorted)

	var data strings.Builder
	for _, s := range sorted {
		data.WriteString(s)
		data.WriteByte(0)
	}
	return NewHash([]byte(data.String()))
}
