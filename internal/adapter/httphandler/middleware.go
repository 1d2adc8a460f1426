package httphandler

import (
	"net/http"
	"strings"
)

// AllowJSON rejects requests carrying a body that is not declared as
// JSON. Bodyless requests pass through untouched.
func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength != 0 {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				http.Error(
					w, "invalid media type",
					http.StatusUnsupportedMediaType,
				)
				return
			}
		}
		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}
