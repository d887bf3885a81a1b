// Package session identifies anonymous visitors and owns their per-visitor
// state: cart, price alerts, toasts and quick-view modal.
package session

import (
	"context"
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

const (
	CookieName = "sf_session"
	HeaderName = "X-Session-ID"
)

type ctxKey struct{}

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{8,64}$`)

// Middleware attaches a session id to every request. An id supplied by header
// or cookie is reused; otherwise a new one is issued as a cookie.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderName)
		if !validID.MatchString(id) {
			id = ""
			if c, err := r.Cookie(CookieName); err == nil && validID.MatchString(c.Value) {
				id = c.Value
			}
		}
		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    id,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   60 * 60 * 24 * 90,
			})
		}
		w.Header().Set(HeaderName, id)
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}

// WithID returns a context carrying the session id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IDFromContext returns the session id set by Middleware.
func IDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
