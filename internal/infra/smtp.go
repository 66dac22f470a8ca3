package infra

import (
	"fmt"
	"net/smtp"

	"github.com/arielalcuri/doslidias/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for sending order confirmations.
type Mailer struct {
	host     string
	user     string
	password string
	from     string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	from := cfg.SMTPUser
	if cfg.StoreName != "" && cfg.SMTPUser != "" {
		from = fmt.Sprintf("%s <%s>", cfg.StoreName, cfg.SMTPUser)
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		from:     from,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// Enabled reports whether an SMTP host was configured.
func (m *Mailer) Enabled() bool { return m.host != "" }

// SendConfirmacion mails the order confirmation with its PDF attached.
func (m *Mailer) SendConfirmacion(to, subject, body, pdfPath string) error {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if pdfPath != "" {
		if _, err := e.AttachFile(pdfPath); err != nil {
			return fmt.Errorf("mailer: attach PDF: %w", err)
		}
	}

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return e.Send(m.addr, auth)
}
