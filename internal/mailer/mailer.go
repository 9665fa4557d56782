// Package mailer renders candidate notification emails and submits them over SMTP.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const defaultPort = 587

// Config holds the SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Draft is a rendered email ready for submission. The user may edit it before
// sending.
type Draft struct {
	To       string `json:"to"`
	Subject  string `json:"subject"`
	BodyHTML string `json:"body_html"`
}

// DeliveryError reports a failed SMTP submission (authentication or transport).
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return "email delivery: " + e.Err.Error()
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// Mailer submits rendered drafts through an SMTP relay using STARTTLS and
// plain authentication. Each send is a single best-effort attempt.
type Mailer struct {
	cfg    Config
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) (*Mailer, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp host is required")
	}
	if strings.TrimSpace(cfg.From) == "" {
		return nil, errors.New("smtp from address is required")
	}
	if cfg.Port <= 0 {
		cfg.Port = defaultPort
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Mailer{cfg: cfg, logger: logger}, nil
}

func (m *Mailer) Send(ctx context.Context, draft Draft) error {
	if strings.TrimSpace(draft.To) == "" {
		return &DeliveryError{Err: errors.New("recipient address is required")}
	}

	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return &DeliveryError{Err: fmt.Errorf("invalid from address: %w", err)}
	}
	if err := msg.To(draft.To); err != nil {
		return &DeliveryError{Err: fmt.Errorf("invalid recipient address: %w", err)}
	}
	msg.Subject(draft.Subject)
	msg.SetBodyString(mail.TypeTextHTML, draft.BodyHTML)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
	}
	if m.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return &DeliveryError{Err: fmt.Errorf("create smtp client: %w", err)}
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return &DeliveryError{Err: err}
	}

	m.logger.Info("email sent",
		zap.String("to", draft.To),
		zap.String("subject", draft.Subject),
	)

	return nil
}
