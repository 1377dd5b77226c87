package mailer

import (
	"fmt"
	"log"
	"time"

	"github.com/GPC-Itarsi/GPC-Itarsi/internal/config"

	"gopkg.in/gomail.v2"
)

// Mailer delivers transactional email. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// sendAttempts bounds delivery retries before the failure surfaces to the
// caller.
const sendAttempts = 3

// smtpMailer sends mail through an SMTP relay.
type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// New returns an SMTP-backed Mailer, or a log-only Mailer when no SMTP host
// is configured (development mode).
func New(cfg config.SMTPConfig) Mailer {
	if cfg.Host == "" {
		log.Println("SMTP not configured, outgoing mail will be logged instead of sent")
		return &logMailer{}
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *smtpMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	var err error
	for attempt := 1; attempt <= sendAttempts; attempt++ {
		if err = m.dialer.DialAndSend(msg); err == nil {
			return nil
		}
		log.Printf("Failed to send email to %s (attempt %d/%d): %v", to, attempt, sendAttempts, err)
		if attempt < sendAttempts {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}
	return fmt.Errorf("failed to send email after %d attempts: %w", sendAttempts, err)
}

// logMailer logs instead of sending. The body may contain an OTP, so this
// implementation must never be selected outside development.
type logMailer struct{}

func (m *logMailer) Send(to, subject, htmlBody string) error {
	log.Printf("DEV MAIL to=%s subject=%q\n%s", to, subject, htmlBody)
	return nil
}
