package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
	"github.com/taskly/taskly-api/internal/api/shared"
	"github.com/unrolled/secure"
)

// SecurityHeaders returns middleware that sets the standard hardening
// headers on every response. HSTS is only sent when isDevelopment is false.
func SecurityHeaders(isDevelopment bool) func(http.Handler) http.Handler {
	sec := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "no-referrer",
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		STSSeconds:            31536000,
		STSIncludeSubdomains:  true,
		IsDevelopment:         isDevelopment,
	})
	return sec.Handler
}

// RateLimitByIP limits each client IP to requestsPerMinute requests. Rejected
// requests get a 429 in the same JSON error shape as every other failure.
func RateLimitByIP(requestsPerMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			shared.RespondWithError(w, r, http.StatusTooManyRequests, "Too many requests")
		}),
	)
}
