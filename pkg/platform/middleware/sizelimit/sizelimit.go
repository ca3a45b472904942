// Package sizelimit rejects oversized request bodies before handlers read
// them.
package sizelimit

import (
	"fmt"
	"net/http"
	"strconv"

	"stash/pkg/platform/httputil"
)

// Middleware returns 413 for requests whose declared Content-Length exceeds
// maxSize bytes. Bodies without a declared length are capped by
// http.MaxBytesReader so chunked uploads cannot bypass the limit.
func Middleware(maxSize int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cl := r.Header.Get("Content-Length"); cl != "" {
				if size, err := strconv.ParseInt(cl, 10, 64); err == nil && size > maxSize {
					httputil.WriteJSON(w, http.StatusRequestEntityTooLarge, map[string]string{
						"error":             "payload_too_large",
						"error_description": fmt.Sprintf("request body too large, maximum size: %s", formatSize(maxSize)),
					})
					return
				}
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxSize)
			next.ServeHTTP(w, r)
		})
	}
}

func formatSize(size int64) string {
	value := float64(size)
	for _, unit := range []string{"B", "KB", "MB", "GB"} {
		if value < 1024 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
		value /= 1024
	}
	return fmt.Sprintf("%.1f TB", value)
}
