package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/serenelabs/serenity/pkg/utils"
)

type contextKey struct{}

// Middleware authenticates Bearer tokens and stores the user id in the
// request context. Requests without a valid token get a 401.
func (s *TokenService) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" {
			utils.RespondError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		userID, err := s.Parse(strings.TrimSpace(raw))
		if err != nil {
			utils.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, userID)))
	})
}

// UserID returns the authenticated user id stored by Middleware.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKey{}).(string)
	return id, ok && id != ""
}
