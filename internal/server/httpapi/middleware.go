package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/histkeeper/internal/common"
	"github.com/dmitrijs2005/histkeeper/internal/server/auth"
)

type ctxKey string

const userIDKey ctxKey = "userID"

func userIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// authMiddleware validates the bearer session token and puts the user id on
// the request context. Every protected route is therefore scoped to exactly
// one user's blob namespace.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.SessionHeaderName)
		if header == "" {
			h.respondWithError(w, http.StatusUnauthorized, "missing session token")
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			h.respondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		userID, err := auth.GetUserIDFromToken(parts[1], h.jwtSecret)
		if err != nil {
			reason := "invalid session token"
			if errors.Is(err, common.ErrTokenExpired) {
				reason = "session expired"
			}
			h.respondWithError(w, http.StatusUnauthorized, reason)
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
