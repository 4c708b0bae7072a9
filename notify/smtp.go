package notify

import (
	"context"
	"fmt"
	"io"

	"elena/residency_alerts/model"

	"github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"
)

// DefaultSenderName is shown as the From display name
const DefaultSenderName = "Staff Alert System"

// Dialer sends prepared messages; *gomail.Dialer satisfies it
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSink sends reports as HTML mail
type SMTPSink struct {
	cfg    model.SMTPConfig
	dialer Dialer
	log    logrus.FieldLogger
}

// NewSMTPSink returns a sink for cfg. Port 465 uses implicit TLS, other ports STARTTLS.
func NewSMTPSink(cfg model.SMTPConfig, log logrus.FieldLogger) *SMTPSink {
	if cfg.SenderName == "" {
		cfg.SenderName = DefaultSenderName
	}
	return &SMTPSink{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass),
		log:    log,
	}
}

// WithDialer replaces the SMTP connection, for tests
func (s *SMTPSink) WithDialer(d Dialer) *SMTPSink {
	s.dialer = d
	return s
}

// Validate reports which settings are missing
func (s *SMTPSink) Validate() error {
	if s.cfg.User == "" || s.cfg.Pass == "" {
		return fmt.Errorf("%w: SMTP user or password is not defined", model.ErrSinkNotConfigured)
	}
	if s.cfg.Recipient == "" {
		return fmt.Errorf("%w: recipient email is not defined", model.ErrSinkNotConfigured)
	}
	return nil
}

// Message builds the mail for a report
func (s *SMTPSink) Message(report model.Report) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.User, s.cfg.SenderName)
	m.SetHeader("To", s.cfg.Recipient)
	m.SetHeader("Subject", report.Subject)
	m.SetBody("text/html", report.Body)
	return m
}

// Send delivers the report. The context is only checked before dialing.
func (s *SMTPSink) Send(ctx context.Context, report model.Report) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"host": s.cfg.Host,
		"to":   s.cfg.Recipient,
	}).Info("Sending email...")

	if err := s.dialer.DialAndSend(s.Message(report)); err != nil {
		return fmt.Errorf("send mail to %s: %w", s.cfg.Recipient, err)
	}
	return nil
}

// WriterSink prints reports instead of sending them
type WriterSink struct {
	W io.Writer
}

// Send writes the subject and body
func (s WriterSink) Send(_ context.Context, report model.Report) error {
	_, err := fmt.Fprintf(s.W, "Subject: %s\n\n%s\n", report.Subject, report.Body)
	return err
}
