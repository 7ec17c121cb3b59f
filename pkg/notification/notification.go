// Package notification routes messages to their channels. A notification
// declares the channels it supports by implementing Mailable, Slackable or
// Webhookable; Send delivers on every channel it finds.
package notification

import (
	"encoding/json"

	"github.com/dlatelier/storefront/pkg/http"
	"github.com/dlatelier/storefront/pkg/logger"
	"github.com/dlatelier/storefront/pkg/mail"
)

// Notification is the base interface. Name is used for logging only.
type Notification interface {
	Name() string
}

// Mailable notifications are delivered over SMTP.
type Mailable interface {
	Notification
	MailTo() []string
	MailSubject() string
	MailBody() string
}

// Slackable notifications post to a Slack incoming webhook.
type Slackable interface {
	Notification
	SlackWebhook() string
	SlackMessage() string
}

// Webhookable notifications POST a JSON payload to an arbitrary URL.
type Webhookable interface {
	Notification
	WebhookURL() string
	WebhookPayload() interface{}
}

// Send delivers n on every channel it implements. Channel failures are logged
// and do not stop the other channels.
func Send(n Notification) {
	if m, ok := n.(Mailable); ok {
		err := mail.New().
			To(m.MailTo()...).
			Subject(m.MailSubject()).
			Body(m.MailBody()).
			Send()
		if err != nil {
			logger.Error("notification: mail channel", "name", n.Name(), "error", err)
		}
	}

	if s, ok := n.(Slackable); ok {
		resp, err := http.Post(s.SlackWebhook()).
			JSON(map[string]string{"text": s.SlackMessage()}).
			Send()
		if err != nil || !resp.OK() {
			logger.Error("notification: slack channel", "name", n.Name(), "error", err)
		}
	}

	if w, ok := n.(Webhookable); ok {
		payload, err := json.Marshal(w.WebhookPayload())
		if err != nil {
			logger.Error("notification: webhook marshal", "name", n.Name(), "error", err)
			return
		}
		resp, err := http.Post(w.WebhookURL()).
			Header("Content-Type", "application/json").
			Body(payload).
			Send()
		if err != nil || !resp.OK() {
			logger.Error("notification: webhook channel", "name", n.Name(), "error", err)
		}
	}
}

// SendAsync delivers the notification from a goroutine.
func SendAsync(n Notification) {
	go Send(n)
}
