package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"obiabedidi/auth"
	"obiabedidi/catalog"
	"obiabedidi/db"
	"obiabedidi/imagehost"
	"obiabedidi/live"
	"obiabedidi/metrics"
	"obiabedidi/middleware"
	"obiabedidi/recipes"
	"obiabedidi/video"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func newRouter(t *testing.T) *httprouter.Router {
	t.Helper()
	reg := prometheus.NewRegistry()
	rec := metrics.NewCollector(reg)
	issuer := auth.NewIssuer([]byte("0123456789abcdef"), time.Hour)
	revoker := auth.NewMemoryRevoker()
	svc := recipes.NewService(db.NewMemoryStore(), recipes.WithMetrics(rec))

	router := httprouter.New()
	RoutesWrapper(router, Deps{
		Guard:     middleware.NewAuth(issuer, revoker),
		Recipes:   recipes.NewHandler(svc, "http://localhost:3000"),
		Catalog:   catalog.NewHandler(catalog.New(time.Now())),
		Auth:      auth.NewHandler(auth.NewGoogleProvider(auth.GoogleConfig{ClientID: "id"}), db.NewMemoryUserStore(), issuer, revoker, false),
		Uploads:   imagehost.NewHandler(nil, rec),
		Videos:    video.NewResolver(),
		Hub:       live.NewHub(),
		Gatherer:  reg,
		UploadDir: t.TempDir(),
	})
	return router
}

func TestRoutesMounted(t *testing.T) {
	router := newRouter(t)
	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/metrics", http.StatusOK},
		{http.MethodGet, "/api/recipes", http.StatusOK},
		{http.MethodPost, "/api/recipes", http.StatusUnauthorized},
		{http.MethodGet, "/api/recipes/missing", http.StatusNotFound},
		{http.MethodPost, "/api/recipes/missing/views", http.StatusNoContent},
		{http.MethodGet, "/api/users/u1/recipes", http.StatusOK},
		{http.MethodGet, "/api/catalog/recipes", http.StatusOK},
		{http.MethodGet, "/api/catalog/search?sortBy=name", http.StatusOK},
		{http.MethodGet, "/api/auth/me", http.StatusOK},
		{http.MethodGet, "/api/auth/google/login", http.StatusTemporaryRedirect},
		{http.MethodPost, "/api/auth/logout", http.StatusUnauthorized},
		{http.MethodPost, "/api/uploads/image", http.StatusUnauthorized},
		{http.MethodGet, "/api/videos/info", http.StatusBadRequest},
		{http.MethodGet, "/ws/recipes", http.StatusBadRequest},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.want, rec.Code, "%s %s", tc.method, tc.path)
	}
}
