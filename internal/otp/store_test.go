package otp

import (
	"errors"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	s := NewStore(2 * time.Minute)

	code, err := s.Issue("a@b.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("expected 6-digit code, got %q", code)
	}

	if err := s.Verify("a@b.com", code); err != nil {
		t.Fatalf("verify: %v", err)
	}
	// Single use
	if err := s.Verify("a@b.com", code); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on reuse, got %v", err)
	}
}

func TestVerifyUnknownEmail(t *testing.T) {
	s := NewStore(time.Minute)
	if err := s.Verify("nobody@b.com", "123456"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVerifyMismatchKeepsCode(t *testing.T) {
	s := NewStore(time.Minute)
	code, err := s.Issue("a@b.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := s.Verify("a@b.com", "000000"); !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected ErrMismatch, got %v", err)
	}
	// The right code still works after a bad attempt
	if err := s.Verify("a@b.com", code); err != nil {
		t.Fatalf("verify after mismatch: %v", err)
	}
}

func TestVerifyExpiredCode(t *testing.T) {
	s := NewStore(2 * time.Minute)
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return base }

	code, err := s.Issue("a@b.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	s.now = func() time.Time { return base.Add(3 * time.Minute) }
	if err := s.Verify("a@b.com", code); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
	// The expired code was consumed on first read; even the correct code
	// is unusable afterwards
	s.now = func() time.Time { return base }
	if err := s.Verify("a@b.com", code); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after expiry consumption, got %v", err)
	}
}

func TestIssueReplacesPendingCode(t *testing.T) {
	s := NewStore(time.Minute)
	first, _ := s.Issue("a@b.com")
	second, err := s.Issue("a@b.com")
	if err != nil {
		t.Fatalf("reissue: %v", err)
	}

	if first != second {
		if err := s.Verify("a@b.com", first); !errors.Is(err, ErrMismatch) {
			t.Fatalf("expected old code to mismatch, got %v", err)
		}
	}
	if err := s.Verify("a@b.com", second); err != nil {
		t.Fatalf("verify latest code: %v", err)
	}
}

func TestDiscard(t *testing.T) {
	s := NewStore(time.Minute)
	code, _ := s.Issue("a@b.com")
	s.Discard("a@b.com")
	if err := s.Verify("a@b.com", code); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after discard, got %v", err)
	}
}
