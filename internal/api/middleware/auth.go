package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mari/awards-voting/internal/domain"
	"github.com/mari/awards-voting/internal/service"
)

type contextKey string

const (
	sessionKey contextKey = "session"
	userKey    contextKey = "user"
)

// SessionCookie is the name of the bearer-token cookie.
const SessionCookie = "session"

// Auth validates the session cookie and loads the user for the request. The
// user row is fetched fresh on every request so an admin revocation takes
// effect immediately instead of living on in a stale session claim.
func Auth(sessions *service.SessionService, auth *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r)
			if token == "" {
				denyJSON(w, http.StatusUnauthorized, "Please sign in")
				return
			}

			session, err := sessions.Validate(r.Context(), token, ClientIP(r))
			if err != nil {
				denyJSON(w, http.StatusUnauthorized, "Session expired. Please sign in again.")
				return
			}

			user, err := auth.GetUserByID(r.Context(), session.UserID)
			if err != nil {
				denyJSON(w, http.StatusUnauthorized, "Session expired. Please sign in again.")
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, session)
			ctx = context.WithValue(ctx, userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin guards admin-only routes. Must be nested inside Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok || !user.IsAdmin {
			denyJSON(w, http.StatusForbidden, "Forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// denyJSON rejects the request in the same envelope the handlers use.
func denyJSON(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"error":   message,
	})
}

// SessionToken extracts the raw bearer token from the request cookie.
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func GetSession(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(sessionKey).(*domain.Session)
	return session, ok
}

func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok
}
