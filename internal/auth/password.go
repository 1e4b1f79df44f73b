package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"

	argon2idPrefix = "$argon2id$"
)

// MaxPasswordBytes is bcrypt's input limit. It applies to every algorithm so a
// hasher switch never rejects a password that was accepted before.
const MaxPasswordBytes = 72

// ErrPasswordTooLong is returned by Hash for inputs over MaxPasswordBytes.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// PasswordHasher produces and checks salted one-way password digests.
//
// New digests use the configured algorithm. Verification picks the algorithm
// from the digest itself, so users hashed before an algorithm switch can still
// log in.
type PasswordHasher struct {
	algorithm  string
	bcryptCost int
	argon      *argon2id.Params
	dummy      string
}

// NewPasswordHasher builds a hasher for algorithm ("bcrypt" or "argon2id").
// bcryptCost is ignored for argon2id.
func NewPasswordHasher(algorithm string, bcryptCost int) (*PasswordHasher, error) {
	h := &PasswordHasher{
		algorithm:  algorithm,
		bcryptCost: bcryptCost,
		argon:      argon2id.DefaultParams,
	}
	switch algorithm {
	case AlgorithmBcrypt:
		if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", bcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
		}
	case AlgorithmArgon2id:
	default:
		return nil, fmt.Errorf("unsupported password hash algorithm %q", algorithm)
	}

	dummy, err := h.Hash("quicklist-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy digest: %w", err)
	}
	h.dummy = dummy
	return h, nil
}

// Algorithm returns the algorithm used for new digests.
func (h *PasswordHasher) Algorithm() string {
	return h.algorithm
}

// Hash returns a salted digest of plaintext using the configured algorithm.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	switch h.algorithm {
	case AlgorithmArgon2id:
		digest, err := argon2id.CreateHash(plaintext, h.argon)
		if err != nil {
			return "", fmt.Errorf("argon2id hash: %w", err)
		}
		return digest, nil
	default:
		digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.bcryptCost)
		if err != nil {
			return "", fmt.Errorf("bcrypt hash: %w", err)
		}
		return string(digest), nil
	}
}

// Verify reports whether plaintext matches digest. Malformed digests never match.
func (h *PasswordHasher) Verify(plaintext, digest string) bool {
	if strings.HasPrefix(digest, argon2idPrefix) {
		match, err := argon2id.ComparePasswordAndHash(plaintext, digest)
		return err == nil && match
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// VerifyNothing spends the same work as a failed Verify. Callers use it when
// there is no stored digest to compare against.
func (h *PasswordHasher) VerifyNothing(plaintext string) {
	_ = h.Verify(plaintext, h.dummy)
}
