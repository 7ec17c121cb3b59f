package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dlatelier/storefront/config"
)

const corsPreflightMaxAge = 600 // seconds

var corsMethods = strings.Join([]string{
	http.MethodGet, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}, ", ")

const corsHeaders = "Accept, Authorization, Content-Type, X-Request-ID"

// CORS returns a middleware handling Cross-Origin Resource Sharing for the
// storefront frontend. Allowed origins come from CORS_ORIGINS, a
// comma-separated list; "*" (the default) echoes any origin back, which keeps
// credentialed cookie requests working in local development.
func CORS() func(http.Handler) http.Handler {
	allowAny := false
	allowed := map[string]bool{}
	for _, o := range strings.Split(config.Get("CORS_ORIGINS", "*"), ",") {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAny = true
		} else if o != "" {
			allowed[o] = true
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowAny || allowed[origin]) {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", corsMethods)
				h.Set("Access-Control-Allow-Headers", corsHeaders)
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Max-Age", strconv.Itoa(corsPreflightMaxAge))
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
