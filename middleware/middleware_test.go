package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"obiabedidi/auth"
	"obiabedidi/metrics"
	"obiabedidi/models"
	"obiabedidi/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if u := utils.UserFromContext(r.Context()); u != nil {
		_, _ = w.Write([]byte(u.ID))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
}

func setup(t *testing.T) (*Auth, string, *auth.MemoryRevoker, *auth.Issuer) {
	t.Helper()
	issuer := auth.NewIssuer([]byte("secret"), time.Hour)
	rev := auth.NewMemoryRevoker()
	token, _, err := issuer.Issue(models.User{ID: "g-1", DisplayName: "Akua"})
	require.NoError(t, err)
	return NewAuth(issuer, rev), token, rev, issuer
}

func call(h httprouter.Handle, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	h(rec, req, nil)
	return rec
}

func TestAuthenticate(t *testing.T) {
	a, token, rev, issuer := setup(t)
	h := a.Authenticate(echoUser)

	rec := call(h, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "g-1", rec.Body.String())

	assert.Equal(t, http.StatusUnauthorized, call(h, "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(h, "Token abc").Code)
	assert.Equal(t, http.StatusUnauthorized, call(h, "Bearer not.a.jwt").Code)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	require.NoError(t, rev.Revoke(context.Background(), claims.ID, time.Hour))
	assert.Equal(t, http.StatusUnauthorized, call(h, "Bearer "+token).Code)
}

func TestOptionalAuth(t *testing.T) {
	a, token, _, _ := setup(t)
	h := a.OptionalAuth(echoUser)

	assert.Equal(t, "g-1", call(h, "Bearer "+token).Body.String())
	assert.Equal(t, "anonymous", call(h, "").Body.String())
	assert.Equal(t, "anonymous", call(h, "Bearer garbage").Body.String())
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	var seen string
	h := RequestID(SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestID(r.Context())
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", seen)
}

type httpCall struct {
	method, route string
	status        int
}

type recordingMetrics struct {
	metrics.Nop
	mu    sync.Mutex
	calls []httpCall
}

func (m *recordingMetrics) RecordHTTPRequest(method, route string, status int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, httpCall{method, route, status})
}

func TestObserveLabelsByRoute(t *testing.T) {
	router := httprouter.New()
	router.GET("/api/recipes/:id/card", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusTeapot)
	})
	router.GET("/health", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		_, _ = w.Write([]byte("ok"))
	})
	router.ServeFiles("/static/uploads/*filepath", http.Dir(t.TempDir()))

	rec := &recordingMetrics{}
	h := Observe(router, rec)(router)
	for _, path := range []string{"/api/recipes/abc/card", "/health", "/nowhere", "/static/uploads/recipes/a.jpg"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, []httpCall{
		{"GET", "/api/recipes/:id/card", http.StatusTeapot},
		{"GET", "/health", http.StatusOK},
		{"GET", "unmatched", http.StatusNotFound},
		{"GET", "/static/uploads/*filepath", http.StatusNotFound},
	}, rec.calls)
}

func TestRoutePattern(t *testing.T) {
	ps := httprouter.Params{{Key: "userid", Value: "u1"}}
	assert.Equal(t, "/api/users/:userid/recipes", routePattern("/api/users/u1/recipes", ps))
	assert.Equal(t, "/health", routePattern("/health", nil))
}
