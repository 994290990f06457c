// Package otp implements the one-time-passcode store gating ledger access.
package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

var (
	ErrNotFound = errors.New("otp not found")
	ErrExpired  = errors.New("otp expired")
	ErrMismatch = errors.New("otp mismatch")
)

// Store keeps at most one pending code per email address. Expiry is enforced
// lazily by comparing the stored timestamp at verification time; there are no
// background timers to fail. All operations on one key are atomic under the
// store mutex.
type Store struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	codes map[string]pending
}

type pending struct {
	code      string
	expiresAt time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:   ttl,
		now:   time.Now,
		codes: make(map[string]pending),
	}
}

// Issue generates a fresh 6-digit code for email, replacing any code still
// pending for that address.
func (s *Store) Issue(email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[email] = pending{code: code, expiresAt: s.now().Add(s.ttl)}
	return code, nil
}

// Verify consumes the pending code for email. A matching code can be used at
// most once; an expired code is removed on first read so it stays unusable
// even if a resend never happens. A mismatch leaves the pending code in
// place until it expires.
func (s *Store) Verify(email, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.codes[email]
	if !ok {
		return ErrNotFound
	}
	if s.now().After(p.expiresAt) {
		delete(s.codes, email)
		return ErrExpired
	}
	if p.code != code {
		return ErrMismatch
	}
	delete(s.codes, email)
	return nil
}

// Discard drops any pending code for email. Used when code delivery fails so
// a code the client was never told about cannot verify later.
func (s *Store) Discard(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.codes, email)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
