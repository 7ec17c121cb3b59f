package controllers

import (
	"net/http"
	"strconv"

	"github.com/dlatelier/storefront/app/resources"
	"github.com/dlatelier/storefront/app/services"
	"github.com/dlatelier/storefront/config"
	"github.com/dlatelier/storefront/pkg/ctx"
	"github.com/dlatelier/storefront/pkg/middleware"
	"github.com/dlatelier/storefront/pkg/resource"
)

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

func callerID(c *ctx.Context) uint {
	id, _ := middleware.UserIDFromCtx(c.Context())
	return id
}

// Create runs checkout for the authenticated caller. POST /orders/create
func (ct *OrderController) Create(c *ctx.Context) {
	guestID, _ := c.Cookie(config.CartCookie())

	res, err := ct.orders.Create(c.Context(), callerID(c), guestID)
	if err != nil {
		fail(c, err)
		return
	}

	if res.MigratedGuestCart {
		c.ClearCookie(config.CartCookie(), "/")
	}

	c.Created(map[string]interface{}{
		"order":        resources.NewOrder(*res.Order).ToArray(),
		"gatewayOrder": res.GatewayOrder,
		"key":          res.Key,
	})
}

// Verify authenticates a payment callback. POST /orders/verify
func (ct *OrderController) Verify(c *ctx.Context) {
	var in services.VerifyInput
	if !c.BindJSON(&in) {
		return
	}

	order, err := ct.orders.Verify(c.Context(), callerID(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]interface{}{"order": resources.NewOrder(*order).ToArray()})
}

// Mine lists the caller's orders. GET /orders/mine
func (ct *OrderController) Mine(c *ctx.Context) {
	orders, err := ct.orders.Mine(callerID(c))
	if err != nil {
		fail(c, err)
		return
	}
	resource.CollectionOf(resources.Collection(orders)).Respond(c.W)
}

// Show returns one of the caller's orders. GET /orders/{id}
func (ct *OrderController) Show(c *ctx.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(http.StatusBadRequest, "Invalid order id")
		return
	}

	order, err := ct.orders.MineByID(callerID(c), uint(id))
	if err != nil {
		fail(c, err)
		return
	}
	resource.New(resources.NewOrder(*order)).Respond(c.W)
}

// AdminIndex lists every order, paginated. GET /orders/admin
func (ct *OrderController) AdminIndex(c *ctx.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	orders, pagination, err := ct.orders.AdminAll(page, limit)
	if err != nil {
		fail(c, err)
		return
	}
	resource.CollectionOf(resources.Collection(orders)).
		WithPagination(pagination).
		Respond(c.W)
}

// AdminShow returns any order by id. GET /orders/admin/{id}
func (ct *OrderController) AdminShow(c *ctx.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(http.StatusBadRequest, "Invalid order id")
		return
	}

	order, err := ct.orders.AdminByID(uint(id))
	if err != nil {
		fail(c, err)
		return
	}
	resource.New(resources.NewOrder(*order)).Respond(c.W)
}

type updateStatusInput struct {
	Status string `json:"status" validate:"required"`
}

// AdminUpdateStatus overwrites an order's status.
// PATCH /orders/admin/{id}/status
func (ct *OrderController) AdminUpdateStatus(c *ctx.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(http.StatusBadRequest, "Invalid order id")
		return
	}

	var in updateStatusInput
	if !c.BindJSON(&in) {
		return
	}

	order, err := ct.orders.AdminUpdateStatus(uint(id), in.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]interface{}{"item": resources.NewOrder(*order).ToArray()})
}
