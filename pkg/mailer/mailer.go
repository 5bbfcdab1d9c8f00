// Package mailer delivers confirmation codes by email.
package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"
)

const sendTimeout = 15 * time.Second

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends a Message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// ConfirmationMessage builds the email carrying a confirmation code.
func ConfirmationMessage(email, username, code string) Message {
	return Message{
		To:      email,
		Subject: "Your confirmation code",
		Body: fmt.Sprintf("Hello, %s!\n\nYour confirmation code is %s.\n"+
			"Exchange it together with your username for an access token.\n", username, code),
	}
}

// SMTPConfig holds SMTP server details.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	cfg     SMTPConfig
	deliver func(ctx context.Context, msg *mail.Msg) error
}

// NewSMTPMailer creates a new SMTPMailer.
func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	m := &SMTPMailer{cfg: cfg}
	m.deliver = m.dialAndSend
	return m
}

// Send delivers msg. PLAIN auth is used when a username is configured.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := m.compose(msg)
	if err != nil {
		return err
	}
	if err := m.deliver(ctx, out); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", msg.To, err)
	}
	log.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("mail sent")
	return nil
}

func (m *SMTPMailer) compose(msg Message) (*mail.Msg, error) {
	out := mail.NewMsg()
	if err := out.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", m.cfg.From, err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", msg.To, err)
	}
	out.Subject(msg.Subject)
	out.SetDate()
	out.SetBodyString(mail.TypeTextPlain, msg.Body)
	return out, nil
}

func (m *SMTPMailer) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(sendTimeout),
	}
	if m.cfg.Port > 0 {
		opts = append(opts, mail.WithPort(m.cfg.Port))
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	return mail.NewClient(m.cfg.Host, opts...)
}

func (m *SMTPMailer) dialAndSend(ctx context.Context, msg *mail.Msg) error {
	c, err := m.client()
	if err != nil {
		return err
	}
	return c.DialAndSendWithContext(ctx, msg)
}

// LogMailer writes mail to the log instead of sending it. Used when no SMTP
// host is configured. The body only appears at debug level since it carries
// confirmation codes.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg Message) error {
	log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("mail not sent, no SMTP host configured")
	log.Debug().Str("to", msg.To).Str("body", msg.Body).Msg("unsent mail body")
	return nil
}

// New returns an SMTPMailer when cfg names a host and a LogMailer otherwise.
func New(cfg SMTPConfig) Mailer {
	if cfg.Host == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(cfg)
}

// Direct sends confirmation codes synchronously through a Mailer.
type Direct struct {
	mailer Mailer
}

// NewDirect creates a new Direct sender.
func NewDirect(m Mailer) *Direct {
	return &Direct{mailer: m}
}

func (d *Direct) SendConfirmationCode(ctx context.Context, email, username, code string) error {
	return d.mailer.Send(ctx, ConfirmationMessage(email, username, code))
}
