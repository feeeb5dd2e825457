package middleware

import (
	"io"
	"net/http"
)

// DefaultMaxBodyBytes caps request bodies; all payloads here are small JSON documents.
const DefaultMaxBodyBytes int64 = 1 << 20

// LimitAndDrainRequest caps the request body at maxBytes, and drains and closes
// whatever the handler left unread once it returns.
func LimitAndDrainRequest(maxBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
