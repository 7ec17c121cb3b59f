// Package services holds the storefront's domain logic. Services depend on
// narrow store interfaces rather than concrete repositories so tests can run
// against in-memory fakes.
package services

import (
	"context"

	"github.com/dlatelier/storefront/app/models"
	"github.com/dlatelier/storefront/pkg/gateway"
	"github.com/dlatelier/storefront/pkg/orm"
)

// CartStore persists carts.
type CartStore interface {
	ForUser(userID uint) (*models.Cart, error)
	ForGuest(guestID string) (*models.Cart, error)
	FindGuest(guestID string) (*models.Cart, error)
	Save(cart *models.Cart) error
	Clear(cart *models.Cart) error
	DeleteGuest(guestID string) error
}

// ProductStore reads the catalogue.
type ProductStore interface {
	FindBySlug(slug string) (*models.Product, error)
	TagsBySlugs(slugs []string) (map[string][]string, error)
}

// UserStore reads users and mutates their entitlement counters.
type UserStore interface {
	FindByID(id uint) (*models.User, error)
	// DebitBarry must be an atomic conditional decrement: apply only when the
	// balance covers n, and report whether it did.
	DebitBarry(userID uint, n int) (bool, error)
	CreditBarry(userID uint, n int) error
	IncrementPrive(userID uint) (int, error)
}

// OrderStore persists orders.
type OrderStore interface {
	Create(order *models.Order) error
	ByUser(userID uint) ([]models.Order, error)
	ByIDForUser(id, userID uint) (*models.Order, error)
	ByID(id uint) (*models.Order, error)
	ByGatewayOrderForUser(gatewayOrderID string, userID uint) (*models.Order, error)
	MarkPaid(order *models.Order, paymentID, signature string) error
	UpdateStatus(order *models.Order, status string) error
	All(page, limit int) ([]models.Order, orm.Pagination, error)
}

// Gateway is the payment gateway contract.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*gateway.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	// Key is the publishable merchant key the frontend needs to open the
	// payment widget.
	Key() string
}

// Notifier sends customer-facing notifications. Implementations must be
// best-effort: deliveries happen off the request path and never report
// failure back to the caller.
type Notifier interface {
	OrderPaid(user *models.User, order *models.Order)
	OrderStatusChanged(user *models.User, order *models.Order)
}

// Identity is the cart owner: an authenticated user or a cookie-based guest.
type Identity struct {
	UserID  uint
	GuestID string
}

// IsUser reports whether the identity is an authenticated user.
func (i Identity) IsUser() bool { return i.UserID != 0 }
