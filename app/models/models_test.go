package models_test

import (
	"testing"
	"time"

	"github.com/dlatelier/storefront/app/models"
)

func TestProductTags(t *testing.T) {
	p := models.Product{Tags: "limited-edition, dl-barry"}

	if !p.HasTag(models.TagBarry) {
		t.Error("expected dl-barry tag")
	}
	if p.HasTag(models.TagPrive) {
		t.Error("unexpected dl-prive tag")
	}
	if tags := p.TagList(); len(tags) != 2 || tags[1] != "dl-barry" {
		t.Errorf("TagList = %v", tags)
	}

	empty := models.Product{}
	if len(empty.TagList()) != 0 || empty.HasTag(models.TagBarry) {
		t.Error("empty tags should yield nothing")
	}
}

func TestCartFindMatchesSlugAndSize(t *testing.T) {
	cart := models.Cart{Items: []models.CartItem{
		{ProductSlug: "scarf", Size: "M", Quantity: 2},
		{ProductSlug: "scarf", Size: "L", Quantity: 1},
		{ProductSlug: "belt", Quantity: 1},
	}}

	if i := cart.Find("scarf", "L"); i != 1 {
		t.Errorf("Find(scarf, L) = %d, want 1", i)
	}
	if i := cart.Find("scarf", "XL"); i != -1 {
		t.Errorf("Find(scarf, XL) = %d, want -1", i)
	}
	if q := cart.QuantityOf("scarf"); q != 3 {
		t.Errorf("QuantityOf(scarf) = %d, want 3 across sizes", q)
	}
	if cart.IsEmpty() {
		t.Error("cart should not be empty")
	}
}

func TestDefaultAddressResolution(t *testing.T) {
	u := models.User{Addresses: []models.Address{
		{City: "Paris"},
		{City: "Lyon", IsDefault: true},
	}}
	addr, ok := u.DefaultAddress()
	if !ok || addr.City != "Lyon" {
		t.Errorf("DefaultAddress = %+v, %v", addr, ok)
	}

	// Without a flagged default the first address wins.
	u.Addresses[1].IsDefault = false
	addr, ok = u.DefaultAddress()
	if !ok || addr.City != "Paris" {
		t.Errorf("fallback DefaultAddress = %+v, %v", addr, ok)
	}

	if _, ok := (&models.User{}).DefaultAddress(); ok {
		t.Error("user without addresses should have no default")
	}
}

func TestPriveWindow(t *testing.T) {
	now := time.Now()

	verified := now.Add(-23 * time.Hour)
	u := models.User{PriveVerifiedAt: &verified}
	if !u.PriveWindowOpen(now) {
		t.Error("window should be open at 23h")
	}

	stale := now.Add(-25 * time.Hour)
	u.PriveVerifiedAt = &stale
	if u.PriveWindowOpen(now) {
		t.Error("window should be closed at 25h")
	}

	if (&models.User{}).PriveWindowOpen(now) {
		t.Error("never-verified user has no window")
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range models.OrderStatuses {
		if !models.ValidOrderStatus(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	if models.ValidOrderStatus("teleported") {
		t.Error("unknown status accepted")
	}
}
