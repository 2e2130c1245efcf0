package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

func readAuth(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(h), "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	if k := r.Header.Get("X-API-Key"); k != "" {
		return strings.TrimSpace(k)
	}
	return ""
}

func hasKey(given string, set []string) bool {
	if given == "" {
		return false
	}
	for _, k := range set {
		if subtle.ConstantTimeCompare([]byte(k), []byte(given)) == 1 {
			return true
		}
	}
	return false
}

// RequireKey allows requests that present one of keys, as a bearer token or
// X-API-Key header. With no keys configured every request passes.
func RequireKey(keys []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasKey(readAuth(r), keys) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
		})
	}
}
