package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"stash/pkg/requestcontext"
)

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		realIP     string
		remoteAddr string
		want       string
	}{
		{name: "single forwarded ip", xff: "203.0.113.5", want: "203.0.113.5"},
		{name: "forwarded chain uses first", xff: "203.0.113.5, 10.0.0.1, 10.0.0.2", want: "203.0.113.5"},
		{name: "real ip fallback", realIP: "203.0.113.9", want: "203.0.113.9"},
		{name: "remote addr fallback", remoteAddr: "198.51.100.7:54321", want: "198.51.100.7"},
		{name: "ipv6 remote addr", remoteAddr: "[::1]:54321", want: "[::1]"},
		{name: "nothing known", want: "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.xff != "" {
				req.Header.Set("X-Forwarded-For", tc.xff)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}
			assert.Equal(t, tc.want, ClientIPFromRequest(req))
		})
	}
}

func TestMiddleware_PopulatesContext(t *testing.T) {
	var ip, ua string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip = requestcontext.ClientIP(r.Context())
		ua = requestcontext.UserAgent(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.5")
	req.Header.Set("User-Agent", "test-agent/1.0")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.5", ip)
	assert.Equal(t, "test-agent/1.0", ua)
}
