// AngelaMos | 2026
// sender.go

package email

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/orballo/words-backend/internal/config"
)

// Sender delivers signin codes. The auth service depends on this interface
// so tests can swap in a recorder.
type Sender interface {
	SendLoginCode(recipient, code string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg config.EmailConfig) Sender {
	dialer := gomail.NewDialer(
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPassword,
	)

	return &smtpSender{dialer: dialer, from: cfg.From}
}

func (s *smtpSender) SendLoginCode(recipient, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", recipient)
	m.SetHeader("Subject", "Your signin code")

	body := fmt.Sprintf(`
		<p>Here is your signin code:</p>
		<p><strong>%s</strong></p>
		<p>It expires in 5 minutes. If you did not request it, you can
		ignore this email.</p>
	`, code)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send login code email: %w", err)
	}

	return nil
}
