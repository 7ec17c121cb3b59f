package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlatelier/storefront/app/models"
	"github.com/dlatelier/storefront/pkg/apperr"
)

func priveOrder(userID uint, qty int) *models.Order {
	return &models.Order{
		UserID: userID,
		Items:  []models.OrderItem{{ProductSlug: "prive-dress", Price: 500, Quantity: qty}},
	}
}

func TestPreflightAllowsCoveredQuota(t *testing.T) {
	users := newFakeUsers(&models.User{ID: 7, BarryEntitlements: 3})
	engine := NewEntitlementEngine(users, newFakeProducts(barryProduct("barry-coat", 900)))

	cart := &models.Cart{Items: []models.CartItem{{ProductSlug: "barry-coat", Quantity: 3}}}
	user, _ := users.FindByID(7)
	assert.NoError(t, engine.Preflight(user, cart))
}

func TestPreflightRejectsExcessQuota(t *testing.T) {
	users := newFakeUsers(&models.User{ID: 7, BarryEntitlements: 1})
	engine := NewEntitlementEngine(users, newFakeProducts(barryProduct("barry-coat", 900)))

	cart := &models.Cart{Items: []models.CartItem{{ProductSlug: "barry-coat", Quantity: 2}}}
	user, _ := users.FindByID(7)
	err := engine.Preflight(user, cart)
	require.True(t, apperr.Is(err, apperr.Forbidden))
	assert.Contains(t, apperr.MessageOf(err), "1 entitlement(s)")
}

func TestPreflightIgnoresUntaggedItems(t *testing.T) {
	users := newFakeUsers(&models.User{ID: 7, BarryEntitlements: 0})
	engine := NewEntitlementEngine(users, newFakeProducts(plainProduct("belt", 60)))

	cart := &models.Cart{Items: []models.CartItem{{ProductSlug: "belt", Quantity: 5}}}
	user, _ := users.FindByID(7)
	assert.NoError(t, engine.Preflight(user, cart))
}

func TestSettleDebitNeverGoesNegative(t *testing.T) {
	users := newFakeUsers(&models.User{ID: 7, BarryEntitlements: 1})
	engine := NewEntitlementEngine(users, newFakeProducts(barryProduct("barry-coat", 900)))

	order := &models.Order{
		UserID: 7,
		Items:  []models.OrderItem{{ProductSlug: "barry-coat", Quantity: 3}},
	}
	user, _ := users.FindByID(7)

	// the conditional debit no-ops when the balance cannot cover it
	require.NoError(t, engine.Settle(user, order, time.Now()))
	assert.Equal(t, 1, users.get(7).BarryEntitlements)
}

func TestPriveMilestoneCreditsOneBarry(t *testing.T) {
	verified := time.Now()
	users := newFakeUsers(&models.User{
		ID:              7,
		PrivePurchases:  0,
		PriveVerifiedAt: &verified,
	})
	engine := NewEntitlementEngine(users, newFakeProducts(priveProduct("prive-dress", 500)))

	for i := 1; i <= 11; i++ {
		user, _ := users.FindByID(7)
		before := user.BarryEntitlements
		require.NoError(t, engine.Settle(user, priveOrder(7, 1), verified.Add(time.Hour)))

		after := users.get(7)
		assert.Equal(t, i, after.PrivePurchases)
		if i == 11 {
			assert.Equal(t, before+1, after.BarryEntitlements, "11th purchase credits one entitlement")
		} else {
			assert.Equal(t, before, after.BarryEntitlements)
		}
	}
}

func TestPriveWindowExpired(t *testing.T) {
	verified := time.Now()
	users := newFakeUsers(&models.User{ID: 7, PrivePurchases: 3, PriveVerifiedAt: &verified})
	engine := NewEntitlementEngine(users, newFakeProducts(priveProduct("prive-dress", 500)))

	user, _ := users.FindByID(7)
	require.NoError(t, engine.Settle(user, priveOrder(7, 1), verified.Add(25*time.Hour)))
	assert.Equal(t, 3, users.get(7).PrivePurchases)
}

func TestPriveNeverVerified(t *testing.T) {
	users := newFakeUsers(&models.User{ID: 7})
	engine := NewEntitlementEngine(users, newFakeProducts(priveProduct("prive-dress", 500)))

	user, _ := users.FindByID(7)
	require.NoError(t, engine.Settle(user, priveOrder(7, 1), time.Now()))
	assert.Equal(t, 0, users.get(7).PrivePurchases)
}
