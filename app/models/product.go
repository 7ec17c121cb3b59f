package models

import (
	"strings"
	"time"
)

// Product tags with storefront-level meaning.
const (
	TagLimitedEdition = "limited-edition"
	TagPrive          = "dl-prive" // purchases accrue loyalty credit inside the verification window
	TagBarry          = "dl-barry" // purchasable only against the entitlement balance
)

// Product is a catalogue entry. Carts and orders snapshot its name, price and
// image at add time, so later edits never rewrite history.
type Product struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	Slug        string  `gorm:"uniqueIndex" json:"slug"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Stock       int     `json:"stock"`
	// Tags is stored comma-joined; use TagList/HasTag to inspect.
	Tags string `json:"tags"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TagList splits the stored tags into a clean slice.
func (p *Product) TagList() []string {
	if p.Tags == "" {
		return nil
	}
	parts := strings.Split(p.Tags, ",")
	out := make([]string, 0, len(parts))
	for _, t := range parts {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// HasTag reports whether the product carries the given tag.
func (p *Product) HasTag(tag string) bool {
	for _, t := range p.TagList() {
		if t == tag {
			return true
		}
	}
	return false
}
