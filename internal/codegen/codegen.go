// Package codegen allocates the human-readable identifiers exposed to
// users and external collaborators: TXN-<year>-<4 alnum> for transactions
// and DSP-<year>-<6 alnum> for disputes. Codes are case-sensitive and are
// never reused; the persistence layer's unique index is the authority, the
// in-use check here only keeps the retry loop cheap.
package codegen

import (
	"fmt"
	"time"

	"github.com/jaevor/go-nanoid"
	"github.com/repassafesta/escrow-service/internal/domain"
)

// Ambiguous characters (0/O, 1/I/l) are excluded so codes survive being
// read over the phone.
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const maxAttempts = 5

// InUseFunc reports whether a candidate code is already taken. Concurrent
// allocators may still race past it; the store's unique constraint catches
// the remainder.
type InUseFunc func(code string) (bool, error)

type Allocator struct {
	now      func() time.Time
	txSuffix func() string
	dpSuffix func() string
}

func NewAllocator() (*Allocator, error) {
	txGen, err := nanoid.CustomASCII(codeAlphabet, 4)
	if err != nil {
		return nil, fmt.Errorf("building transaction code generator: %w", err)
	}
	dpGen, err := nanoid.CustomASCII(codeAlphabet, 6)
	if err != nil {
		return nil, fmt.Errorf("building dispute code generator: %w", err)
	}
	return &Allocator{
		now:      time.Now,
		txSuffix: txGen,
		dpSuffix: dpGen,
	}, nil
}

func (a *Allocator) allocate(prefix string, suffix func() string, inUse InUseFunc) (string, error) {
	year := a.now().Year()
	for attempt := 0; attempt < maxAttempts; attempt++ {
		code := fmt.Sprintf("%s-%d-%s", prefix, year, suffix())
		taken, err := inUse(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", domain.ErrCodeAllocationExhausted
}

func (a *Allocator) TransactionCode(inUse InUseFunc) (string, error) {
	return a.allocate("TXN", a.txSuffix, inUse)
}

func (a *Allocator) DisputeCode(inUse InUseFunc) (string, error) {
	return a.allocate("DSP", a.dpSuffix, inUse)
}
