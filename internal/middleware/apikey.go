package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const apiKeyKey contextKey = "api_key"

// ExtractAPIKey pulls the caller's OpenAI key out of the request and
// stashes it in the context. The key is the user's own credential: it
// is never validated here beyond extraction (the credential gate does
// shape checking downstream), never stored, and never logged.
func ExtractAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("X-OpenAI-Key")
		if key == "" {
			// Support "Authorization: Bearer <key>" as well. Any other
			// scheme is not a key; leave it empty for the gate to reject.
			auth := r.Header.Get("Authorization")
			if strings.HasPrefix(auth, "Bearer ") {
				key = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			}
		}

		ctx := context.WithValue(r.Context(), apiKeyKey, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// APIKeyFromContext returns the extracted key, empty when absent.
func APIKeyFromContext(ctx context.Context) string {
	key, _ := ctx.Value(apiKeyKey).(string)
	return key
}
