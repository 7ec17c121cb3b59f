// Package routes mounts the storefront's HTTP surface.
package routes

import (
	"github.com/dlatelier/storefront/app/controllers"
	"github.com/dlatelier/storefront/app/jobs"
	"github.com/dlatelier/storefront/app/repositories"
	"github.com/dlatelier/storefront/app/services"
	"github.com/dlatelier/storefront/pkg/ctx"
	"github.com/dlatelier/storefront/pkg/gateway"
	"github.com/dlatelier/storefront/pkg/middleware"
	"github.com/dlatelier/storefront/pkg/rbac"
	"github.com/dlatelier/storefront/pkg/router"
)

// Register wires repositories, services and controllers, then mounts all
// routes under /api.
func Register(r *router.Router) {
	gw := gateway.Default()

	users := repositories.NewUserRepository()
	products := repositories.NewProductRepository()
	carts := repositories.NewCartRepository()
	orders := repositories.NewOrderRepository()

	entitlements := services.NewEntitlementEngine(users, products)
	cartService := services.NewCartService(carts, products, users)
	orderService := services.NewOrderService(orders, carts, users, entitlements, gw, jobs.QueueNotifier{})

	cartCtl := controllers.NewCartController(cartService)
	orderCtl := controllers.NewOrderController(orderService)

	api := r.Group("/api")

	// Cart works for guests and users alike; a valid token upgrades the
	// identity, its absence falls back to the guest cookie.
	cart := api.Group("/cart", middleware.OptionalAuth)
	cart.Get("/", "cart.show", ctx.Wrap(cartCtl.Show))
	cart.Post("/items", "cart.items.add", ctx.Wrap(cartCtl.AddItem))
	cart.Patch("/items/{slug}", "cart.items.update", ctx.Wrap(cartCtl.UpdateItem))
	cart.Delete("/items/{slug}", "cart.items.remove", ctx.Wrap(cartCtl.RemoveItem))

	orderRoutes := api.Group("/orders", middleware.Auth)
	orderRoutes.Post("/create", "orders.create", ctx.Wrap(orderCtl.Create))
	orderRoutes.Post("/verify", "orders.verify", ctx.Wrap(orderCtl.Verify))
	orderRoutes.Get("/mine", "orders.mine", ctx.Wrap(orderCtl.Mine))

	admin := orderRoutes.Group("/admin", rbac.HasRole("admin"))
	admin.Get("/", "orders.admin.index", ctx.Wrap(orderCtl.AdminIndex))
	admin.Get("/{id}", "orders.admin.show", ctx.Wrap(orderCtl.AdminShow))
	admin.Patch("/{id}/status", "orders.admin.status", ctx.Wrap(orderCtl.AdminUpdateStatus))

	// chi matches literal segments before parameters, so /mine and /admin
	// shadow this correctly.
	orderRoutes.Get("/{id}", "orders.show", ctx.Wrap(orderCtl.Show))
}
