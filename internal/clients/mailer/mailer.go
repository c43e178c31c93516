// Package mailer relays contact form submissions over authenticated,
// STARTTLS-upgraded SMTP to a single fixed recipient.
package mailer

import (
	"context"
	"fmt"
	"strings"

	"module/blogwithusers/internal/dto"

	"github.com/wneessen/go-mail"
)

const contactSubject = "New message from the blog contact form"

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	To       string
}

type Mailer struct {
	cfg Config
}

func NewMailer(cfg Config) *Mailer {
	return &Mailer{cfg: cfg}
}

func ContactBody(req dto.ContactRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", req.Name)
	fmt.Fprintf(&b, "Email: %s\n", req.Email)
	fmt.Fprintf(&b, "Phone: %s\n", req.Phone)
	fmt.Fprintf(&b, "Message: %s\n", req.Message)
	return b.String()
}

func (m *Mailer) buildMessage(req dto.ContactRequest) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.Username); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", m.cfg.Username, err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", m.cfg.To, err)
	}
	if req.Email != "" {
		// A bad reply-to only loses the convenience header, not the message.
		_ = msg.ReplyTo(req.Email)
	}
	msg.Subject(contactSubject)
	msg.SetBodyString(mail.TypeTextPlain, ContactBody(req))
	return msg, nil
}

// SendContact opens a fresh SMTP session per message.
func (m *Mailer) SendContact(ctx context.Context, req dto.ContactRequest) error {
	msg, err := m.buildMessage(req)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(m.cfg.Host,
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.cfg.Username),
		mail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("creating smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending contact mail: %w", err)
	}
	return nil
}
