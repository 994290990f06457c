package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ledger/internal/mail"
)

var (
	// ErrEmailNotAllowed signals that the address is not on the allow-list.
	ErrEmailNotAllowed = errors.New("email not allow-listed")

	// ErrMailDelivery signals that the outbound passcode mail failed. The
	// pending code has already been discarded when this is returned.
	ErrMailDelivery = errors.New("mail delivery failed")
)

// CodeStore issues and consumes one-time passcodes keyed by email.
type CodeStore interface {
	Issue(email string) (string, error)
	Verify(email, code string) error
	Discard(email string)
}

// OTPService gates ledger access behind emailed one-time passcodes.
type OTPService struct {
	codes   CodeStore
	mailer  mail.Sender
	allowed map[string]struct{} // empty admits all
}

func NewOTPService(codes CodeStore, mailer mail.Sender, allowedEmails []string) *OTPService {
	allowed := make(map[string]struct{}, len(allowedEmails))
	for _, e := range allowedEmails {
		allowed[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &OTPService{codes: codes, mailer: mailer, allowed: allowed}
}

// Issue generates a code for email and delivers it. When delivery fails the
// stored code is discarded so a code the client was never told about cannot
// verify later.
func (s *OTPService) Issue(ctx context.Context, email string) error {
	if !s.emailAllowed(email) {
		return ErrEmailNotAllowed
	}

	code, err := s.codes.Issue(email)
	if err != nil {
		return fmt.Errorf("issue otp: %w", err)
	}

	if err := s.mailer.SendOTP(ctx, email, code); err != nil {
		s.codes.Discard(email)
		return fmt.Errorf("%w: %v", ErrMailDelivery, err)
	}

	slog.InfoContext(ctx, "OTP issued", "email", email)
	return nil
}

// Verify consumes the pending code for email. The distinct not-found,
// expired, and mismatch conditions are logged here; callers surface them
// uniformly so clients cannot tell which case occurred.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	if err := s.codes.Verify(email, code); err != nil {
		slog.WarnContext(ctx, "OTP verification failed", "email", email, "reason", err)
		return err
	}
	slog.InfoContext(ctx, "OTP verified", "email", email)
	return nil
}

func (s *OTPService) emailAllowed(email string) bool {
	if len(s.allowed) == 0 {
		return true
	}
	_, ok := s.allowed[strings.ToLower(strings.TrimSpace(email))]
	return ok
}
