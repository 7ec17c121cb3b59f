package models

import "time"

// Order statuses. "created" is the only initial state; "paid" is set by a
// verified payment callback; the rest are set by admins.
const (
	OrderCreated   = "created"
	OrderPaid      = "paid"
	OrderFailed    = "failed"
	OrderRefunded  = "refunded"
	OrderCancelled = "cancelled"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
)

// OrderStatuses lists every valid status value.
var OrderStatuses = []string{
	OrderCreated, OrderPaid, OrderFailed, OrderRefunded,
	OrderCancelled, OrderShipped, OrderDelivered,
}

// ValidOrderStatus reports whether s is a declared status value.
func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Order is one checkout attempt. Items, address and subtotal are snapshots
// taken at creation time; catalogue edits never change an existing order.
type Order struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	OrderNumber string `gorm:"index" json:"order_number"`
	UserID      uint   `gorm:"index" json:"user_id"`

	Items []OrderItem `json:"items"`

	ShippingStreet     string `json:"shipping_street"`
	ShippingCity       string `json:"shipping_city"`
	ShippingState      string `json:"shipping_state"`
	ShippingPostalCode string `json:"shipping_postal_code"`
	ShippingCountry    string `json:"shipping_country"`
	ShippingPhone      string `json:"shipping_phone"`

	Subtotal float64 `json:"subtotal"`
	// Currency is stored for reconciliation but stripped from API responses.
	Currency string `json:"-"`

	Status string `gorm:"default:created;index" json:"status"`

	GatewayOrderID   string `gorm:"index" json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id,omitempty"`
	GatewaySignature string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is a cart line frozen into an order.
type OrderItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	OrderID     uint    `gorm:"index" json:"-"`
	ProductSlug string  `json:"product_slug"`
	Size        string  `json:"size,omitempty"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity"`
}
