// Package secheaders attaches browser security headers to every response.
package secheaders

import (
	"net/http"
	"strings"
)

// Config controls environment-dependent headers.
type Config struct {
	// Production enables HSTS; local development runs without TLS.
	Production bool
	// FrontendURL is allowed as a connect-src origin in the CSP.
	FrontendURL string
}

// Middleware sets HSTS, frame, MIME-sniffing, referrer, CSP, and permissions
// headers. Responses under /api/v1/users additionally disable caching since
// they carry identity data.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	csp := strings.Join([]string{
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data: https:",
		"font-src 'self'",
		"connect-src 'self' " + cfg.FrontendURL,
		"frame-ancestors 'none'",
		"base-uri 'self'",
		"form-action 'self'",
	}, "; ")
	permissions := strings.Join([]string{
		"geolocation=()",
		"microphone=()",
		"camera=()",
		"payment=()",
		"usb=()",
	}, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if cfg.Production {
				h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
			}
			h.Set("X-Frame-Options", "DENY")
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-XSS-Protection", "1; mode=block")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Content-Security-Policy", csp)
			h.Set("Permissions-Policy", permissions)

			if strings.HasPrefix(r.URL.Path, "/api/v1/users") {
				h.Set("Cache-Control", "no-store, no-cache, must-revalidate")
				h.Set("Pragma", "no-cache")
			}

			next.ServeHTTP(w, r)
		})
	}
}
