// Package auth provides password hashing, bearer tokens and request identity.
package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Password hashing schemes.
const (
	SchemeBcrypt   = "bcrypt"
	SchemeArgon2id = "argon2id"
)

// MaxPasswordBytes is the longest password bcrypt can hash without truncation.
const MaxPasswordBytes = 72

var (
	// ErrInvalidHash indicates the hash format is invalid.
	ErrInvalidHash = errors.New("invalid hash format")
	// ErrIncompatibleVersion indicates the hash version is not supported.
	ErrIncompatibleVersion = errors.New("incompatible argon2 version")
	// ErrPasswordTooLong indicates the password exceeds MaxPasswordBytes.
	ErrPasswordTooLong = errors.New("password exceeds 72 bytes")
)

// dummyPassword is hashed once at startup and compared against when a login
// names an unknown account.
const dummyPassword = "inkpost-dummy-password"

// Passwords hashes new passwords with the configured scheme and verifies
// stored hashes of either scheme.
type Passwords struct {
	scheme     string
	bcryptCost int
	dummyHash  string
}

// NewPasswords creates a password hasher. bcryptCost is ignored for argon2id.
func NewPasswords(scheme string, bcryptCost int) (*Passwords, error) {
	switch scheme {
	case SchemeBcrypt:
		if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
			return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", bcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
		}
	case SchemeArgon2id:
	default:
		return nil, fmt.Errorf("unsupported password scheme %q", scheme)
	}

	p := &Passwords{scheme: scheme, bcryptCost: bcryptCost}
	dummy, err := p.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("hash dummy password: %w", err)
	}
	p.dummyHash = dummy
	return p, nil
}

// Hash returns a salted one-way hash of password.
func (p *Passwords) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	if p.scheme == SchemeArgon2id {
		return hashArgon2id(password)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. Malformed hashes never match.
func (p *Passwords) Verify(password, hash string) bool {
	if strings.HasPrefix(hash, argon2Prefix) {
		ok, err := verifyArgon2id(password, hash)
		return err == nil && ok
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// VerifyMissing performs a comparison against a dummy hash and always
// reports false, so unknown accounts cost the same as wrong passwords.
func (p *Passwords) VerifyMissing(password string) bool {
	p.Verify(password, p.dummyHash)
	return false
}
