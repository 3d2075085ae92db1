package notification

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

// Service sends patient-facing booking emails. Sends are best-effort;
// callers log failures and never fail the request over them.
type Service interface {
	SendBookingConfirmation(ctx context.Context, to, doctorName, slotDate, slotTime string) error
	SendCancellationNotice(ctx context.Context, to, slotDate, slotTime string) error
}

// Config holds SMTP settings; an empty Host disables sending
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewService returns a mail-backed Service, or a no-op one when SMTP
// is not configured.
func NewService(cfg Config) Service {
	if cfg.Host == "" {
		return noop{}
	}
	return &mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *mailer) SendBookingConfirmation(_ context.Context, to, doctorName, slotDate, slotTime string) error {
	subject := "Appointment confirmed"
	body := fmt.Sprintf(
		"Your appointment with Dr. %s is confirmed for %s at %s.",
		doctorName, slotDate, slotTime,
	)
	return m.send(to, subject, body)
}

func (m *mailer) SendCancellationNotice(_ context.Context, to, slotDate, slotTime string) error {
	subject := "Appointment cancelled"
	body := fmt.Sprintf(
		"Your appointment on %s at %s has been cancelled.",
		slotDate, slotTime,
	)
	return m.send(to, subject, body)
}

func (m *mailer) send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type noop struct{}

func (noop) SendBookingConfirmation(context.Context, string, string, string, string) error {
	return nil
}

func (noop) SendCancellationNotice(context.Context, string, string, string) error {
	return nil
}
