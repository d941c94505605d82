package sessionkey

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amrelsaid4/Restaurant/internal/service/models/principal"
	"github.com/amrelsaid4/Restaurant/internal/service/services/authsvc"
)

type stubResolver struct {
	byKey map[string]principal.Principal
}

func (s *stubResolver) Resolve(_ context.Context, creds authsvc.Credentials) principal.Principal {
	if p, ok := s.byKey[creds.SessionKey]; ok {
		return p
	}
	if p, ok := s.byKey[creds.CookieSessionID]; ok {
		return p
	}

	return principal.Anonymous()
}

func authedPrincipal(key string) principal.Principal {
	p := principal.Authenticated(12, "alice", "alice@example.com")
	p.SessionKey = key

	return p
}

func TestMiddlewareResolvesHeader(t *testing.T) {
	mw := NewMiddleware(&stubResolver{byKey: map[string]principal.Principal{
		"key-1": authedPrincipal("key-1"),
	}})

	var got principal.Principal
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(HeaderName, "key-1")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.True(t, got.IsAuthenticated())
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "key-1", w.Header().Get(HeaderName))
}

func TestMiddlewareResolvesCookie(t *testing.T) {
	mw := NewMiddleware(&stubResolver{byKey: map[string]principal.Principal{
		"cookie-1": authedPrincipal("cookie-1"),
	}})

	var got principal.Principal
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CookieName, Value: "cookie-1"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.True(t, got.IsAuthenticated())
}

func TestMiddlewareAnonymous(t *testing.T) {
	mw := NewMiddleware(&stubResolver{byKey: map[string]principal.Principal{}})

	var got principal.Principal
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, r)

	assert.False(t, got.IsAuthenticated())
	assert.Empty(t, w.Header().Get(HeaderName))
}

func TestFromContextWithoutMiddleware(t *testing.T) {
	p := FromContext(context.Background())
	assert.False(t, p.IsAuthenticated())
}
