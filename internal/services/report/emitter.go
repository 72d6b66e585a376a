package report

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/wneessen/go-mail"

	"github.com/edgenative/bill95/internal/config"
	"github.com/edgenative/bill95/internal/logger"
)

// ErrSMTP marks a failed email delivery.
var ErrSMTP = errors.New("smtp delivery failed")

// Emitter delivers a rendered report.
type Emitter interface {
	Emit(ctx context.Context, subject, body string) error
}

// ConsoleEmitter writes the report body to a writer, normally stdout.
type ConsoleEmitter struct {
	w io.Writer
}

// NewConsoleEmitter returns an emitter writing to w.
func NewConsoleEmitter(w io.Writer) *ConsoleEmitter {
	return &ConsoleEmitter{w: w}
}

// Emit writes body. The subject is already part of the body.
func (c *ConsoleEmitter) Emit(_ context.Context, _ string, body string) error {
	if _, err := io.WriteString(c.w, body); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// MailEmitter sends the report as a plain-text email.
type MailEmitter struct {
	cfg config.SMTP
	to  string
}

// NewMailEmitter returns an emitter sending to the given address.
func NewMailEmitter(cfg config.SMTP, to string) *MailEmitter {
	return &MailEmitter{cfg: cfg, to: to}
}

// Emit builds and sends one message. The SMTP connection is closed before
// returning.
func (m *MailEmitter) Emit(ctx context.Context, subject, body string) error {
	msg, err := m.message(subject, body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSMTP, err)
	}

	client, err := mail.NewClient(m.cfg.Host, m.clientOptions()...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSMTP, err)
	}

	logger.Debug("sending report", "to", m.to, "smtp_host", m.cfg.Host, "smtp_port", m.cfg.Port)
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s:%d: %v", ErrSMTP, m.cfg.Host, m.cfg.Port, err)
	}
	logger.Info("report emailed", "to", m.to)
	return nil
}

func (m *MailEmitter) message(subject, body string) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.Sender); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", m.cfg.Sender, err)
	}
	if err := msg.To(m.to); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", m.to, err)
	}
	msg.Subject(subject)
	msg.SetDate()
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}

func (m *MailEmitter) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if m.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(m.cfg.Timeout))
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}
	return opts
}
