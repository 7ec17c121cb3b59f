// Package controllers holds the HTTP handlers. Controllers bind and validate
// input, call a service and translate classified errors to HTTP responses.
package controllers

import (
	"github.com/google/uuid"

	"github.com/dlatelier/storefront/app/services"
	"github.com/dlatelier/storefront/config"
	"github.com/dlatelier/storefront/pkg/apperr"
	"github.com/dlatelier/storefront/pkg/ctx"
	"github.com/dlatelier/storefront/pkg/middleware"
)

const guestCookieMaxAge = 30 * 24 * 60 * 60 // 30 days

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

// identity resolves the cart owner. Authenticated callers use their user id;
// anonymous callers get a guest id cookie, minted on first contact.
func (ct *CartController) identity(c *ctx.Context) services.Identity {
	if userID, ok := middleware.UserIDFromCtx(c.Context()); ok {
		return services.Identity{UserID: userID}
	}

	cookie := config.CartCookie()
	if guestID, err := c.Cookie(cookie); err == nil && guestID != "" {
		return services.Identity{GuestID: guestID}
	}

	guestID := uuid.NewString()
	c.SetCookie(cookie, guestID, guestCookieMaxAge, "/", true)
	return services.Identity{GuestID: guestID}
}

func fail(c *ctx.Context, err error) {
	c.Error(apperr.Status(err), apperr.MessageOf(err))
}

// Show returns the caller's cart. GET /cart
func (ct *CartController) Show(c *ctx.Context) {
	cart, err := ct.carts.Get(ct.identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]interface{}{"cart": cart})
}

// AddItem adds a product to the cart. POST /cart/items
func (ct *CartController) AddItem(c *ctx.Context) {
	var in services.AddItemInput
	if !c.BindJSON(&in) {
		return
	}

	cart, err := ct.carts.AddItem(ct.identity(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(map[string]interface{}{"cart": cart})
}

// UpdateItem sets a line's quantity. PATCH /cart/items/{slug}
func (ct *CartController) UpdateItem(c *ctx.Context) {
	var in services.UpdateItemInput
	if !c.BindJSON(&in) {
		return
	}

	cart, err := ct.carts.UpdateItem(ct.identity(c), c.Param("slug"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]interface{}{"cart": cart})
}

// RemoveItem deletes cart lines for a slug, optionally narrowed to a size
// taken from the query string. DELETE /cart/items/{slug}?size=M
func (ct *CartController) RemoveItem(c *ctx.Context) {
	cart, err := ct.carts.RemoveItem(ct.identity(c), c.Param("slug"), c.Query("size"))
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]interface{}{"cart": cart})
}
