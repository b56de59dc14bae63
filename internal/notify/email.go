package notify

import (
	"context"
	"log"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// Mailer sends plain-text alert emails over SMTP.
type Mailer struct {
	host     string
	addr     string
	user     string
	password string
	from     string
}

// NewMailer builds a Mailer. An empty host leaves it unconfigured; sends
// then return false without attempting a connection.
func NewMailer(host, port, user, password, from string) *Mailer {
	m := &Mailer{
		host:     host,
		user:     user,
		password: password,
		from:     from,
	}
	if host != "" {
		m.addr = host + ":" + port
	}
	if m.from == "" {
		m.from = user
	}
	return m
}

func (m *Mailer) SendEmail(ctx context.Context, to, subject, body string) bool {
	if m.host == "" {
		return false
	}

	e := email.NewEmail()
	e.From = m.from
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	if err := e.Send(m.addr, auth); err != nil {
		log.Printf("WARN: send email to %s: %v", to, err)
		return false
	}
	return true
}
