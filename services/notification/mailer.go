package notification

import (
	"fmt"
	"net/smtp"

	"purposeful/config"
)

// Mailer delivers a rendered HTML email.
type Mailer interface {
	SendHTML(to, subject, htmlBody string) error
}

// SMTPMailer sends mail through a plain-auth SMTP relay.
type SMTPMailer struct {
	Host     string
	Port     int
	From     string
	Username string
	Password string
	auth     smtp.Auth
}

func NewSMTPMailer() *SMTPMailer {
	cfg := config.AppConfig
	var auth smtp.Auth
	if cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return &SMTPMailer{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		From:     cfg.SMTPFrom,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		auth:     auth,
	}
}

func (m *SMTPMailer) SendHTML(to, subject, htmlBody string) error {
	msg := []byte(fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		m.From, to, subject, htmlBody,
	))
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	if err := smtp.SendMail(addr, m.auth, m.From, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email via %s: %w", m.Host, err)
	}
	return nil
}
