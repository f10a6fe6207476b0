package middleware

import (
	"net/http"
	"os"
	"strconv"
)

// MaxBodyMiddleware caps the request body size. MAX_BODY_BYTES (bytes)
// overrides the 1 MiB default.
func MaxBodyMiddleware(next http.Handler) http.Handler {
	limit := int64(1 << 20)
	if v, err := strconv.ParseInt(os.Getenv("MAX_BODY_BYTES"), 10, 64); err == nil && v > 0 {
		limit = v
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		next.ServeHTTP(w, r)
	})
}
