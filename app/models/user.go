package models

import "time"

// Roles assignable to a user account.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Address is one entry in a user's address book. At most one address per user
// carries IsDefault.
type Address struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	UserID     uint   `gorm:"index" json:"-"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"is_default"`
}

// User is an account holder. The entitlement counters are mutated only by
// payment settlement; PriveVerifiedAt is stamped by the account service when
// a Privé access code is verified.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `json:"name"`
	Email    string `gorm:"uniqueIndex" json:"email"`
	Password string `json:"-"`
	Role     string `gorm:"default:user" json:"role"`

	Addresses []Address `json:"addresses"`
	// Legacy single-address field kept for accounts created before the
	// address book existed. Used as a shipping fallback only.
	LegacyAddress string `json:"-"`

	PrivePurchases    int        `gorm:"default:0" json:"prive_purchases"`
	BarryEntitlements int        `gorm:"default:0" json:"barry_entitlements"`
	PriveVerifiedAt   *time.Time `json:"prive_verified_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultAddress returns the address flagged default, falling back to the
// first address in the book. ok is false when the book is empty.
func (u *User) DefaultAddress() (Address, bool) {
	for _, a := range u.Addresses {
		if a.IsDefault {
			return a, true
		}
	}
	if len(u.Addresses) > 0 {
		return u.Addresses[0], true
	}
	return Address{}, false
}

// PriveWindowOpen reports whether the user verified a Privé access code within
// the last 24 hours.
func (u *User) PriveWindowOpen(now time.Time) bool {
	return u.PriveVerifiedAt != nil && now.Sub(*u.PriveVerifiedAt) <= 24*time.Hour
}
