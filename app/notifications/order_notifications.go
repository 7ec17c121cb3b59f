// Package notifications defines the customer-facing messages the storefront
// sends. Each type declares its channels through the pkg/notification
// interfaces.
package notifications

import "fmt"

// PaymentConfirmation is mailed after a verified payment.
type PaymentConfirmation struct {
	Email        string  `json:"email"`
	CustomerName string  `json:"customer_name"`
	OrderNumber  string  `json:"order_number"`
	Subtotal     float64 `json:"subtotal"`
}

func (PaymentConfirmation) Name() string { return "order.payment_confirmation" }

func (n PaymentConfirmation) MailTo() []string { return []string{n.Email} }

func (n PaymentConfirmation) MailSubject() string {
	return fmt.Sprintf("DL Atelier — payment received for order %s", n.OrderNumber)
}

func (n PaymentConfirmation) MailBody() string {
	return fmt.Sprintf(
		"<p>Dear %s,</p><p>We have received your payment of %.2f for order <b>%s</b>. "+
			"Your pieces are being prepared.</p><p>— DL Atelier</p>",
		n.CustomerName, n.Subtotal, n.OrderNumber)
}

// StatusUpdate is mailed when an admin changes an order's status.
type StatusUpdate struct {
	Email        string `json:"email"`
	CustomerName string `json:"customer_name"`
	OrderNumber  string `json:"order_number"`
	Status       string `json:"status"`
}

func (StatusUpdate) Name() string { return "order.status_update" }

func (n StatusUpdate) MailTo() []string { return []string{n.Email} }

func (n StatusUpdate) MailSubject() string {
	return fmt.Sprintf("DL Atelier — order %s is now %s", n.OrderNumber, n.Status)
}

func (n StatusUpdate) MailBody() string {
	return fmt.Sprintf(
		"<p>Dear %s,</p><p>Your order <b>%s</b> is now <b>%s</b>.</p><p>— DL Atelier</p>",
		n.CustomerName, n.OrderNumber, n.Status)
}
