package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserIDKey  contextKey = "user_id"
	CookieName            = "wegetchat_session"
)

// FailureHandler writes the response of a request that could not be authenticated.
type FailureHandler func(w http.ResponseWriter, r *http.Request)

// Interceptor validates the session token of incoming HTTP requests and injects
// the caller id into the request context. Requests without a valid token are
// handed to onFailure and never reach next.
func Interceptor(issuer *TokenIssuer, onFailure FailureHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := TokenFromRequest(r)
			if tokenStr == "" {
				onFailure(w, r)
				return
			}
			claims, err := issuer.Validate(tokenStr)
			if err != nil {
				onFailure(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), claims.UserID)))
		})
	}
}

// TokenFromRequest reads a "Bearer <token>" Authorization header, falling back to the session cookie.
func TokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}
