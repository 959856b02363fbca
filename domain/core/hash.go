package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"
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

// Short returns the first 12 hex digits, enough to tell reports apart
func (h Hash) Short() string {
	if len(h) <= 12 {
		return string(h)
	}
	return string(h[:12])
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// SampleHash fingerprints a sample by value and order
type SampleHash Hash

// ComputeSampleHash hashes the IEEE-754 bits of every value, prefixed with
// the label, so the same numbers under another name hash differently.
func ComputeSampleHash(label string, values []float64) SampleHash {
	buf := make([]byte, 0, len(label)+1+8*len(values))
	buf = append(buf, label...)
	buf = append(buf, 0)
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}
	return SampleHash(NewHash(buf))
}

func (h SampleHash) String() string { return Hash(h).String() }
func (h SampleHash) Short() string  { return Hash(h).Short() }
