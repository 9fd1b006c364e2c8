package domain

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"

	dErrors "hemotrace/pkg/domain-errors"
)

// Identity is the opaque address of a caller or donor. Authentication happens
// upstream; inside the registry an identity is only ever compared or hashed.
//
// Usage: construct via ParseIdentity at trust boundaries to enforce
// non-emptiness; direct casting bypasses validation.
type Identity string

// ParseIdentity constructs an Identity from external input.
//
// Errors: returns CodeInvalidInput when the value is empty; no other errors
// are expected.
func ParseIdentity(s string) (Identity, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity cannot be empty")
	}
	return Identity(s), nil
}

// String returns the raw identity value.
func (i Identity) String() string {
	return string(i)
}

// IsNil returns true if the identity is empty.
func (i Identity) IsNil() bool {
	return i == ""
}

// DonorKey is the stable lookup key for a donor, derived from the donor's
// identity. Keying by hash keeps store internals from doubling as a raw
// directory of identities.
type DonorKey string

// KeyOf derives the donor key for an identity: hex(SHA3-256(identity)).
// Collision-free for practical purposes.
func KeyOf(identity Identity) DonorKey {
	sum := sha3.Sum256([]byte(identity))
	return DonorKey(hex.EncodeToString(sum[:]))
}

// String returns the hex form of the key.
func (k DonorKey) String() string {
	return string(k)
}
