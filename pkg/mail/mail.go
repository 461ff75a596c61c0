// Package mail implements the Mailer port over SMTP with go-mail.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/lborres/vestibule/core"
)

// Config holds SMTP transport settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Sender delivers the templated auth emails. One client is reused across
// sends; go-mail handles dial/retry per message.
type Sender struct {
	client *gomail.Client
	from   string
}

var _ core.Mailer = (*Sender)(nil)

func NewSender(config Config) (*Sender, error) {
	opts := []gomail.Option{
		gomail.WithPort(config.Port),
	}
	if config.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(config.Username),
			gomail.WithPassword(config.Password),
		)
	}

	client, err := gomail.NewClient(config.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	return &Sender{
		client: client,
		from:   config.From,
	}, nil
}

func (s *Sender) SendPasswordReset(ctx context.Context, to, resetURL string) error {
	text, html, err := renderReset(resetURL)
	if err != nil {
		return fmt.Errorf("failed to render reset email: %w", err)
	}
	return s.send(ctx, to, "Reset Your Password", text, html)
}

func (s *Sender) SendMagicLink(ctx context.Context, to, linkURL string) error {
	text, html, err := renderMagicLink(linkURL)
	if err != nil {
		return fmt.Errorf("failed to render magic-link email: %w", err)
	}
	return s.send(ctx, to, "Your Sign-In Link", text, html)
}

func (s *Sender) send(ctx context.Context, to, subject, text, html string) error {
	msg := gomail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, text)
	msg.AddAlternativeString(gomail.TypeTextHTML, html)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
