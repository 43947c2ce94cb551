// Package notify delivers admin notifications for new submissions.
package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

// Sender delivers a single HTML message.
type Sender interface {
	Send(ctx context.Context, subject, htmlBody, recipient string) error
}

// SMTPOptions configures an SMTPSender.
type SMTPOptions struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends mail through an authenticated SMTP relay with mandatory TLS.
type SMTPSender struct {
	opts SMTPOptions
}

func NewSMTPSender(opts SMTPOptions) *SMTPSender {
	if opts.From == "" {
		opts.From = opts.Username
	}
	return &SMTPSender{opts: opts}
}

// newClient is a seam for tests.
var newClient = func(host string, opts ...mail.Option) (mailClient, error) {
	c, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

type mailClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

func (s *SMTPSender) Send(ctx context.Context, subject, htmlBody, recipient string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.opts.From); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := newClient(s.opts.Host,
		mail.WithPort(s.opts.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.opts.Username),
		mail.WithPassword(s.opts.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// Nop discards every message. It is used when SMTP is not configured.
type Nop struct{}

func (Nop) Send(context.Context, string, string, string) error { return nil }
