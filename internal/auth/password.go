package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes = 16
	keyBytes  = 256
)

// PasswordHasher derives password hashes with PBKDF2-SHA256. The iteration
// count is fixed per deployment so stored hashes stay verifiable.
type PasswordHasher struct {
	iterations int
}

func NewPasswordHasher(iterations int) *PasswordHasher {
	return &PasswordHasher{iterations: iterations}
}

// Generate returns a fresh random salt and the derived hash, both hex
// encoded. Every call produces a new salt, so setting the same password
// twice yields different hashes.
func (h *PasswordHasher) Generate(plaintext string) (salt, hash string, err error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("generate salt: %w", err)
	}
	salt = hex.EncodeToString(raw)
	hash = h.derive(plaintext, salt)
	return salt, hash, nil
}

// Verify recomputes the hash for the candidate password and compares in
// constant time.
func (h *PasswordHasher) Verify(plaintext, salt, hash string) bool {
	candidate := h.derive(plaintext, salt)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(hash)) == 1
}

func (h *PasswordHasher) derive(plaintext, salt string) string {
	key := pbkdf2.Key([]byte(plaintext), []byte(salt), h.iterations, keyBytes, sha256.New)
	return hex.EncodeToString(key)
}
