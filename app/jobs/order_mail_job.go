// Package jobs holds the storefront's queued background jobs and the
// event-backed Notifier handed to the services.
package jobs

import (
	"github.com/dlatelier/storefront/app/models"
	"github.com/dlatelier/storefront/app/notifications"
	"github.com/dlatelier/storefront/pkg/event"
	"github.com/dlatelier/storefront/pkg/logger"
	"github.com/dlatelier/storefront/pkg/notification"
	"github.com/dlatelier/storefront/pkg/queue"
)

// Domain events fired by the Notifier. Listeners enqueue the mail jobs.
const (
	EventOrderPaid          = "order.paid"
	EventOrderStatusChanged = "order.status_updated"
)

const (
	mailKindPaid   = "paid"
	mailKindStatus = "status"
)

// OrderEvent is the payload carried by order domain events.
type OrderEvent struct {
	User  *models.User
	Order *models.Order
}

// OrderMailJob delivers one order-related email off the request path.
type OrderMailJob struct {
	Kind         string  `json:"kind"`
	Email        string  `json:"email"`
	CustomerName string  `json:"customer_name"`
	OrderNumber  string  `json:"order_number"`
	Subtotal     float64 `json:"subtotal"`
	Status       string  `json:"status"`
}

func (j *OrderMailJob) Handle() error {
	switch j.Kind {
	case mailKindPaid:
		notification.Send(notifications.PaymentConfirmation{
			Email:        j.Email,
			CustomerName: j.CustomerName,
			OrderNumber:  j.OrderNumber,
			Subtotal:     j.Subtotal,
		})
	case mailKindStatus:
		notification.Send(notifications.StatusUpdate{
			Email:        j.Email,
			CustomerName: j.CustomerName,
			OrderNumber:  j.OrderNumber,
			Status:       j.Status,
		})
	default:
		logger.Warn("order mail job: unknown kind", "kind", j.Kind)
	}
	return nil
}

// RegisterAll makes every job type known to the queue and hooks the domain
// event listeners that enqueue them. Call once at boot.
func RegisterAll() {
	queue.Register("*jobs.OrderMailJob", func() queue.Job { return &OrderMailJob{} })

	event.Listen(EventOrderPaid, func(payload interface{}) {
		ev, ok := payload.(OrderEvent)
		if !ok {
			return
		}
		enqueueMail(&OrderMailJob{
			Kind:         mailKindPaid,
			Email:        ev.User.Email,
			CustomerName: ev.User.Name,
			OrderNumber:  ev.Order.OrderNumber,
			Subtotal:     ev.Order.Subtotal,
		}, ev.Order.ID)
	})

	event.Listen(EventOrderStatusChanged, func(payload interface{}) {
		ev, ok := payload.(OrderEvent)
		if !ok {
			return
		}
		enqueueMail(&OrderMailJob{
			Kind:         mailKindStatus,
			Email:        ev.User.Email,
			CustomerName: ev.User.Name,
			OrderNumber:  ev.Order.OrderNumber,
			Status:       ev.Order.Status,
		}, ev.Order.ID)
	})
}

func enqueueMail(job *OrderMailJob, orderID uint) {
	if err := queue.Dispatch(job); err != nil {
		logger.Error("notify: enqueue order mail", "kind", job.Kind, "order_id", orderID, "error", err)
	}
}

// QueueNotifier satisfies the services' Notifier contract by firing domain
// events; the listeners registered in RegisterAll enqueue the mail jobs.
// Failures never propagate to the caller.
type QueueNotifier struct{}

func (QueueNotifier) OrderPaid(user *models.User, order *models.Order) {
	event.Fire(EventOrderPaid, OrderEvent{User: user, Order: order})
}

func (QueueNotifier) OrderStatusChanged(user *models.User, order *models.Order) {
	event.Fire(EventOrderStatusChanged, OrderEvent{User: user, Order: order})
}
