package crypto

import (
	"sync"

	"github.com/google/uuid"
	"github.com/turtacn/adminauth/internal/domain/service"
	"github.com/turtacn/adminauth/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var _ service.PasswordVerifier = (*BcryptHasher)(nil)

// BcryptHasher hashes and verifies admin passwords with bcrypt.
type BcryptHasher struct {
	cost int

	dummyOnce sync.Once
	dummy     string
}

// NewBcryptHasher returns a hasher using cost, or bcrypt.DefaultCost when cost is out of range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash will generate a password hash
func (h *BcryptHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", errors.ErrInvalidRequest.WithMessage("password must not be empty")
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", errors.ErrInternalServer.WithError(err)
	}
	return string(out), nil
}

// Verify reports whether plain matches the bcrypt hash. A hash that is not valid bcrypt never matches.
func (h *BcryptHasher) Verify(plain, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// DummyHash returns a hash of a random password at the hasher's cost. Comparing against it
// costs the same as a real comparison, so unknown identifiers take as long to reject as wrong passwords.
func (h *BcryptHasher) DummyHash() string {
	h.dummyOnce.Do(func() {
		out, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), h.cost)
		if err == nil {
			h.dummy = string(out)
		}
	})
	return h.dummy
}

// Cost is the bcrypt work factor used for new hashes.
func (h *BcryptHasher) Cost() int {
	return h.cost
}
