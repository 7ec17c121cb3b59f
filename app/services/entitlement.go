package services

import (
	"time"

	"github.com/dlatelier/storefront/app/models"
	"github.com/dlatelier/storefront/pkg/apperr"
	"github.com/dlatelier/storefront/pkg/collection"
	"github.com/dlatelier/storefront/pkg/logger"
	"github.com/dlatelier/storefront/pkg/metrics"
)

// priveMilestone is the Privé purchase count at which one Barry entitlement
// is earned. Every positive multiple credits one unit.
const priveMilestone = 11

// EntitlementEngine enforces Barry purchase quotas and applies the Privé
// loyalty accrual after a verified payment.
type EntitlementEngine struct {
	users    UserStore
	products ProductStore
}

func NewEntitlementEngine(users UserStore, products ProductStore) *EntitlementEngine {
	return &EntitlementEngine{users: users, products: products}
}

// line is the slice of an order or cart the engine needs.
type line struct {
	slug string
	qty  int
}

func cartLines(c *models.Cart) []line {
	out := make([]line, len(c.Items))
	for i, it := range c.Items {
		out[i] = line{slug: it.ProductSlug, qty: it.Quantity}
	}
	return out
}

func orderLines(o *models.Order) []line {
	out := make([]line, len(o.Items))
	for i, it := range o.Items {
		out[i] = line{slug: it.ProductSlug, qty: it.Quantity}
	}
	return out
}

// tally fetches tags for the lines and returns the summed Barry quantity and
// whether any line is Privé-tagged.
func (e *EntitlementEngine) tally(lines []line) (barryQty int, hasPrive bool, err error) {
	slugs := collection.Unique(collection.Map(lines, func(l line) string { return l.slug }))
	tags, err := e.products.TagsBySlugs(slugs)
	if err != nil {
		return 0, false, err
	}

	for _, l := range lines {
		if collection.Contains(tags[l.slug], models.TagBarry) {
			barryQty += l.qty
		}
		if collection.Contains(tags[l.slug], models.TagPrive) {
			hasPrive = true
		}
	}
	return barryQty, hasPrive, nil
}

// Preflight verifies the user's Barry balance covers every Barry-tagged unit
// in the cart before an order is created.
func (e *EntitlementEngine) Preflight(user *models.User, cart *models.Cart) error {
	required, _, err := e.tally(cartLines(cart))
	if err != nil {
		return err
	}
	if required == 0 {
		return nil
	}
	if user.BarryEntitlements < required {
		return apperr.New(apperr.Forbidden,
			"You have %d entitlement(s) available but your cart requires %d",
			user.BarryEntitlements, required)
	}
	return nil
}

// Settle applies post-payment bookkeeping for a paid order:
//
//   - Barry units are debited with a conditional decrement. The preflight at
//     order creation should guarantee sufficiency, so a failed condition is
//     logged and skipped rather than surfaced.
//   - A Privé purchase inside the 24h code-verification window bumps the
//     purchase count; every multiple of eleven credits one Barry unit.
//
// Callers treat any returned error as best-effort bookkeeping failure: log
// it, never fail the payment.
func (e *EntitlementEngine) Settle(user *models.User, order *models.Order, now time.Time) error {
	barryQty, hasPrive, err := e.tally(orderLines(order))
	if err != nil {
		return err
	}

	if barryQty > 0 {
		applied, err := e.users.DebitBarry(user.ID, barryQty)
		if err != nil {
			return err
		}
		if !applied {
			logger.Warn("entitlement: debit skipped, balance below requirement",
				"user_id", user.ID, "order_id", order.ID, "required", barryQty)
		} else {
			metrics.EntitlementsDebited.Add(float64(barryQty))
		}
	}

	if hasPrive && user.PriveWindowOpen(now) {
		count, err := e.users.IncrementPrive(user.ID)
		if err != nil {
			return err
		}
		if count > 0 && count%priveMilestone == 0 {
			if err := e.users.CreditBarry(user.ID, 1); err != nil {
				return err
			}
			logger.Info("entitlement: milestone credit",
				"user_id", user.ID, "prive_purchases", count)
		}
	}

	return nil
}
