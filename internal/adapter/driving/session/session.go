// Package session identifies dashboard sessions with a cookie.
package session

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// CookieName is the session cookie.
const CookieName = "govscan_session"

// Shared is the session used by requests without a session cookie, such as
// API clients that do not keep cookies.
const Shared = ""

type ctxKey struct{}

// Middleware stores the request's session id in its context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := Shared
		if c, err := r.Cookie(CookieName); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}

// WithID returns ctx carrying session id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// ID returns the session id carried by ctx, or Shared.
func ID(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return Shared
}

// Ensure returns the request's session id, issuing a new cookie when the
// request has none.
func Ensure(w http.ResponseWriter, r *http.Request) string {
	if id := ID(r.Context()); id != Shared {
		return id
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
