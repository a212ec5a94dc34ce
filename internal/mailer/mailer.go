package mailer

import (
	"context"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/mussacharles60/hospital-booking/internal/config"
)

// Mailer delivers the out-of-band notifications of the booking flows.
// Callers record the outcome (sent or not sent) instead of failing the
// surrounding operation when delivery breaks.
type Mailer interface {
	SendAppointmentAssigned(ctx context.Context, to, patientName, departmentName string, appointedAt int64) error
	SendDoctorSignupRequest(ctx context.Context, to, name, token string) error
	SendPasswordRecovery(ctx context.Context, to, name, token string) error
}

// SMTP is the gomail-backed Mailer.
type SMTP struct {
	cfg    config.MailerConfig
	appURL string
}

var _ Mailer = (*SMTP)(nil)

// NewSMTP creates a Mailer that sends through the configured SMTP relay.
func NewSMTP(cfg config.MailerConfig, appURL string) *SMTP {
	return &SMTP{cfg: cfg, appURL: appURL}
}

func (m *SMTP) send(ctx context.Context, to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)

	done := make(chan error, 1)
	go func() {
		done <- d.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SendAppointmentAssigned notifies a patient that a doctor was assigned.
func (m *SMTP) SendAppointmentAssigned(ctx context.Context, to, patientName, departmentName string, appointedAt int64) error {
	when := time.UnixMilli(appointedAt).UTC().Format("2006-01-02 15:04 MST")
	body := fmt.Sprintf(
		"Dear %s,\n\nyour appointment at the %s department has been scheduled for %s.\n",
		patientName, departmentName, when)
	return m.send(ctx, to, "Your appointment has been scheduled", body)
}

// SendDoctorSignupRequest delivers the one-time signup link to an invited
// doctor.
func (m *SMTP) SendDoctorSignupRequest(ctx context.Context, to, name, token string) error {
	body := fmt.Sprintf(
		"Dear %s,\n\nplease complete your account registration:\n%s/signup?token=%s\n\nThe link is valid for one day.\n",
		name, m.appURL, token)
	return m.send(ctx, to, "Complete your account registration", body)
}

// SendPasswordRecovery delivers the short-lived password recovery link.
func (m *SMTP) SendPasswordRecovery(ctx context.Context, to, name, token string) error {
	body := fmt.Sprintf(
		"Dear %s,\n\nuse this link to choose a new password:\n%s/recover?token=%s\n\nThe link expires in a few minutes.\n",
		name, m.appURL, token)
	return m.send(ctx, to, "Password recovery", body)
}
