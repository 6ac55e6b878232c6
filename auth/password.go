package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for every stored hash
const PasswordCost = 8

// PasswordHasher hashes and verifies passwords
type PasswordHasher struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

// NewPasswordHasher returns a hasher using PasswordCost
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{cost: PasswordCost}
}

// Hash returns the bcrypt hash of password
func (h *PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	return string(b), err
}

// Verify reports whether password matches storedHash. Any failure, including
// a malformed hash, is reported as false.
func (h *PasswordHasher) Verify(storedHash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
}

// VerifyDummy spends one comparison against a fixed hash so that lookups for
// unknown accounts take as long as a real mismatch.
func (h *PasswordHasher) VerifyDummy(password string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword([]byte("fixnow-dummy-password"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
