package auth

import (
	"crypto/sha256"   // Pre-hash for long passwords
	"encoding/base64" // Printable pre-hash

	"golang.org/x/crypto/bcrypt" // Password hashing
)

// maxBcryptInput is the longest input bcrypt accepts
const maxBcryptInput = 72

// PasswordHasher derives and checks salted password hashes
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// BcryptHasher is a PasswordHasher backed by bcrypt
type BcryptHasher struct {
	Cost int // bcrypt cost, zero means bcrypt.DefaultCost
}

// Hash returns the bcrypt hash of password
func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost // Fall back to the library default
	}
	b, err := bcrypt.GenerateFromPassword(bcryptInput(password), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify reports whether password matches hash
func (h BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password)) == nil
}

// bcryptInput passes short passwords through unchanged. Longer ones are
// reduced to a base64 SHA-256 digest so every byte still counts.
func bcryptInput(password string) []byte {
	if len(password) <= maxBcryptInput {
		return []byte(password)
	}
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}
