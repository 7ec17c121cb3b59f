package models

import "time"

// Cart belongs to exactly one owner: an authenticated user or an anonymous
// guest identified by a cookie. Never both. Uniqueness on each owner column
// keeps it to one cart per identity.
type Cart struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	UserID  *uint   `gorm:"uniqueIndex" json:"user_id,omitempty"`
	GuestID *string `gorm:"uniqueIndex" json:"guest_id,omitempty"`

	Items []CartItem `json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartItem is one line of a cart with the product's name, price and image
// frozen at add time. One row per (product, size) pair.
type CartItem struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	CartID      uint    `gorm:"index:idx_cart_slug_size,unique" json:"-"`
	ProductSlug string  `gorm:"index:idx_cart_slug_size,unique" json:"product_slug"`
	Size        string  `gorm:"index:idx_cart_slug_size,unique" json:"size,omitempty"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Quantity    int     `json:"quantity"`
}

// Find returns the index of the line matching (slug, size), or -1.
func (c *Cart) Find(slug, size string) int {
	for i, item := range c.Items {
		if item.ProductSlug == slug && item.Size == size {
			return i
		}
	}
	return -1
}

// QuantityOf sums the quantity of all lines for slug across sizes.
func (c *Cart) QuantityOf(slug string) int {
	total := 0
	for _, item := range c.Items {
		if item.ProductSlug == slug {
			total += item.Quantity
		}
	}
	return total
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }
