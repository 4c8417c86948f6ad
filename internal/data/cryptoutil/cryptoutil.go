package cryptoutil

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies login secrets. Repositories store only the hash;
// verification is the opaque capability the resolver consumes.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(hash, candidate string) bool
}

// BcryptHasher implements Hasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher constructs a BcryptHasher, clamping cost to bcrypt's valid
// range. A zero cost selects bcrypt's default.
func NewBcryptHasher(cost int) BcryptHasher {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}
	return BcryptHasher{cost: cost}
}

// Hash returns the bcrypt hash of the secret.
func (h BcryptHasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("secret must not be empty")
	}
	out, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(out), nil
}

// Verify reports whether candidate matches the stored hash. Malformed hashes
// verify as false rather than erroring; a corrupt stored hash must behave
// like a wrong secret.
func (h BcryptHasher) Verify(hash, candidate string) bool {
	if hash == "" || candidate == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
