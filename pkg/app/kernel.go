package app

// kernel.go builds the http.Handler from the Application config: the global
// middleware stack, the /metrics endpoint and the project's routes.

import (
	"net/http"
	"time"

	"github.com/dlatelier/storefront/pkg/database"
	"github.com/dlatelier/storefront/pkg/metrics"
	"github.com/dlatelier/storefront/pkg/middleware"
	"github.com/dlatelier/storefront/pkg/reqid"
	"github.com/dlatelier/storefront/pkg/router"
)

// buildHandler constructs the HTTP handler. Pure framework wiring; project
// code enters only through the route callbacks.
func buildHandler(a *Application) http.Handler {
	if database.DB != nil && len(a.models) > 0 {
		database.DB.AutoMigrate(a.models...) //nolint:errcheck
	}

	r := router.New()

	// Global middleware, outermost first:
	//  1. metrics: outermost for accurate total latency
	//  2. recovery: catches panics before they kill the goroutine
	//  3. request id: injected before anything logs
	//  4. logger: request-scoped slog with the request id
	//  5. CORS
	//  6. rate limit
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(200, time.Minute))

	r.HandleFunc("/metrics", metrics.Handler())

	for _, fn := range a.routesFns {
		fn(r)
	}

	return r.Handler()
}
