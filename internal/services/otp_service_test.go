package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ledger/internal/otp"
)

type fakeMailer struct {
	sent []string // "to:code"
	err  error
}

func (f *fakeMailer) SendOTP(ctx context.Context, to, code string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to+":"+code)
	return nil
}

func TestIssueAndVerifyFlow(t *testing.T) {
	store := otp.NewStore(2 * time.Minute)
	mailer := &fakeMailer{}
	svc := NewOTPService(store, mailer, nil)
	ctx := context.Background()

	if err := svc.Issue(ctx, "a@b.com"); err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("expected one mail, got %v", mailer.sent)
	}
	code := mailer.sent[0][len("a@b.com:"):]

	if err := svc.Verify(ctx, "a@b.com", code); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := svc.Verify(ctx, "a@b.com", code); err == nil {
		t.Fatalf("expected reuse to fail")
	}
}

func TestIssueAllowList(t *testing.T) {
	store := otp.NewStore(time.Minute)
	svc := NewOTPService(store, &fakeMailer{}, []string{"A@b.com"})

	// Allow-list matching is case-insensitive
	if err := svc.Issue(context.Background(), "a@b.com"); err != nil {
		t.Fatalf("expected allow-listed address to pass, got %v", err)
	}
	if err := svc.Issue(context.Background(), "other@b.com"); !errors.Is(err, ErrEmailNotAllowed) {
		t.Fatalf("expected ErrEmailNotAllowed, got %v", err)
	}
}

func TestIssueDiscardsCodeOnMailFailure(t *testing.T) {
	store := otp.NewStore(time.Minute)
	mailer := &fakeMailer{err: errors.New("smtp timeout")}
	svc := NewOTPService(store, mailer, nil)
	ctx := context.Background()

	err := svc.Issue(ctx, "a@b.com")
	if !errors.Is(err, ErrMailDelivery) {
		t.Fatalf("expected ErrMailDelivery, got %v", err)
	}
	// No pending code may survive a failed delivery
	if err := store.Verify("a@b.com", "000000"); !errors.Is(err, otp.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after failed delivery, got %v", err)
	}
}
