package sessionkey

import (
	"context"
	"net/http"

	"github.com/amrelsaid4/Restaurant/internal/service/models/principal"
	"github.com/amrelsaid4/Restaurant/internal/service/services/authsvc"
)

// HeaderName is the bearer-like session key header exchanged with
// stateless clients.
const HeaderName = "X-Session-Key"

// CookieName is the standard session cookie.
const CookieName = "sessionid"

type ctxKey struct{}

type resolver interface {
	Resolve(ctx context.Context, creds authsvc.Credentials) principal.Principal
}

// FromContext returns the principal stored by the middleware, or Anonymous.
func FromContext(ctx context.Context) principal.Principal {
	if p, ok := ctx.Value(ctxKey{}).(principal.Principal); ok {
		return p
	}

	return principal.Anonymous()
}

// NewMiddleware resolves the request's principal from the session key
// header or the session cookie and stores it in the request context. When
// the caller authenticated via the header, the key is echoed back so a
// stateless client can persist and resubmit it.
func NewMiddleware(auth resolver) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			creds := authsvc.Credentials{
				SessionKey: r.Header.Get(HeaderName),
			}
			if cookie, err := r.Cookie(CookieName); err == nil {
				creds.CookieSessionID = cookie.Value
			}

			p := auth.Resolve(r.Context(), creds)
			if p.IsAuthenticated() && p.SessionKey != "" {
				w.Header().Set(HeaderName, p.SessionKey)
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
