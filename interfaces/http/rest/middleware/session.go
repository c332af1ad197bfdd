package middleware

import (
	"context"
	"net/http"

	"postviewer/application/app"
	"postviewer/infrastructure/session"
	"postviewer/pkg/common"
)

type appContextKey struct{}

// SessionOptions configures the session cookie.
type SessionOptions struct {
	CookieName string
	Secure     bool
}

// Session attaches the browser's application to the request context,
// starting a new session when the cookie is missing or stale.
func Session(store *session.Store, opts SessionOptions) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var current string
			if c, err := r.Cookie(opts.CookieName); err == nil {
				current = c.Value
			}

			id, a, created := store.GetOrCreate(current)
			if created {
				http.SetCookie(w, &http.Cookie{
					Name:     opts.CookieName,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := common.WithSessionID(r.Context(), id)
			ctx = context.WithValue(ctx, appContextKey{}, a)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AppFromContext returns the session's application.
func AppFromContext(ctx context.Context) (*app.Orchestrator, bool) {
	a, ok := ctx.Value(appContextKey{}).(*app.Orchestrator)
	return a, ok && a != nil
}
