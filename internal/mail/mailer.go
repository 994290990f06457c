// Package mail delivers one-time passcodes over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Sender delivers a passcode to a recipient. Implementations must respect
// the context deadline; issuance fails and the code is discarded when the
// send does not complete in time.
type Sender interface {
	SendOTP(ctx context.Context, to, code string) error
}

type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	From        string
	CodeTTL     time.Duration // mentioned in the message body
	SendTimeout time.Duration
}

// SMTPSender sends passcode mail through an authenticated SMTP relay
// (STARTTLS on the submission port).
type SMTPSender struct {
	client      *gomail.Client
	from        string
	codeTTL     time.Duration
	sendTimeout time.Duration
}

func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}

	return &SMTPSender{
		client:      client,
		from:        from,
		codeTTL:     cfg.CodeTTL,
		sendTimeout: cfg.SendTimeout,
	}, nil
}

func (s *SMTPSender) SendOTP(ctx context.Context, to, code string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat("Ledger", s.from); err != nil {
		return fmt.Errorf("set from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to address: %w", err)
	}
	msg.Subject("Your OTP Code")
	msg.SetBodyString(gomail.TypeTextPlain,
		fmt.Sprintf("Your OTP is %s. It expires in %d minutes.", code, int(s.codeTTL.Minutes())))

	ctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send otp mail: %w", err)
	}

	slog.InfoContext(ctx, "OTP mail sent", "to", to)
	return nil
}
