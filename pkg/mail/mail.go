// Package mail sends transactional email over SMTP with a small fluent
// builder:
//
//	mail.New().
//		To("customer@example.com").
//		Subject("Your order is confirmed").
//		Body(html).
//		Send()
package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/dlatelier/storefront/config"
	"github.com/dlatelier/storefront/pkg/logger"
)

type Message struct {
	from    string
	to      []string
	subject string
	body    string
	html    bool
}

// New starts a message with the configured sender.
func New() *Message {
	return &Message{
		from: config.Get("MAIL_FROM", "DL Atelier <no-reply@dlatelier.com>"),
		html: true,
	}
}

func (m *Message) From(addr string) *Message {
	m.from = addr
	return m
}

func (m *Message) To(addrs ...string) *Message {
	m.to = append(m.to, addrs...)
	return m
}

func (m *Message) Subject(s string) *Message {
	m.subject = s
	return m
}

func (m *Message) Body(b string) *Message {
	m.body = b
	return m
}

// Plain marks the body as text/plain instead of text/html.
func (m *Message) Plain() *Message {
	m.html = false
	return m
}

// Send delivers the message via the configured SMTP server.
func (m *Message) Send() error {
	if len(m.to) == 0 {
		return fmt.Errorf("mail: no recipients")
	}

	host := config.Get("MAIL_HOST", "")
	if host == "" {
		// No mail server configured. Common in development, so just log.
		logger.Info("mail: skipped (MAIL_HOST not set)",
			"to", strings.Join(m.to, ","), "subject", m.subject)
		return nil
	}

	port := config.Get("MAIL_PORT", "587")
	user := config.Get("MAIL_USERNAME", "")
	pass := config.Get("MAIL_PASSWORD", "")

	contentType := "text/plain; charset=UTF-8"
	if m.html {
		contentType = "text/html; charset=UTF-8"
	}

	msg := strings.Builder{}
	msg.WriteString("From: " + m.from + "\r\n")
	msg.WriteString("To: " + strings.Join(m.to, ", ") + "\r\n")
	msg.WriteString("Subject: " + m.subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: " + contentType + "\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(m.body)

	var auth smtp.Auth
	if user != "" {
		auth = smtp.PlainAuth("", user, pass, host)
	}

	addr := host + ":" + port
	if err := smtp.SendMail(addr, auth, m.from, m.to, []byte(msg.String())); err != nil {
		return fmt.Errorf("mail: send: %w", err)
	}

	logger.Info("mail: sent", "to", strings.Join(m.to, ","), "subject", m.subject)
	return nil
}
