package middleware

import (
	"net/http"

	"github.com/shashiranjanraj/wardrobe/pkg/response"
)

// BodyLimit caps every request body at max bytes. Requests announcing a
// larger Content-Length are refused up front with 413.
func BodyLimit(max int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > max {
				response.Error(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, max)
			next.ServeHTTP(w, r)
		})
	}
}
