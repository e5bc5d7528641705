package routes

import (
	"net/http"

	"obiabedidi/auth"
	"obiabedidi/catalog"
	"obiabedidi/imagehost"
	"obiabedidi/live"
	"obiabedidi/metrics"
	"obiabedidi/middleware"
	"obiabedidi/recipes"
	"obiabedidi/video"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
)

func AddStaticRoutes(router *httprouter.Router, uploadDir string) {
	if uploadDir != "" {
		router.ServeFiles("/static/uploads/*filepath", http.Dir(uploadDir))
	}
}

func AddOpsRoutes(router *httprouter.Router, gatherer prometheus.Gatherer) {
	router.GET("/health", func(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
		_, _ = w.Write([]byte("200"))
	})
	router.Handler(http.MethodGet, "/metrics", metrics.Handler(gatherer))
}

func AddRecipeRoutes(router *httprouter.Router, guard *middleware.Auth, h *recipes.Handler) {
	router.GET("/api/recipes", h.ListRecipes)
	router.POST("/api/recipes", guard.Authenticate(h.CreateRecipe))
	router.GET("/api/recipes/:id", h.GetRecipe)
	router.POST("/api/recipes/:id/views", h.RecordView)
	router.GET("/api/recipes/:id/card", h.RecipeCard)
	router.GET("/api/users/:userid/recipes", h.UserRecipes)
}

func AddCatalogRoutes(router *httprouter.Router, h *catalog.Handler) {
	router.GET("/api/catalog/recipes", h.List)
	router.GET("/api/catalog/recipes/:id", h.Get)
	router.GET("/api/catalog/search", h.Search)
}

func AddAuthRoutes(router *httprouter.Router, guard *middleware.Auth, h *auth.Handler) {
	router.GET("/api/auth/google/login", h.Login)
	router.GET("/api/auth/google/callback", h.Callback)
	router.GET("/api/auth/me", guard.OptionalAuth(h.Me))
	router.POST("/api/auth/logout", guard.Authenticate(h.Logout))
}

func AddMediaRoutes(router *httprouter.Router, guard *middleware.Auth, uploads *imagehost.Handler, videos *video.Resolver) {
	router.POST("/api/uploads/image", guard.Authenticate(uploads.UploadImage))
	router.GET("/api/videos/info", videos.InfoHandler)
}

func AddLiveRoutes(router *httprouter.Router, hub *live.Hub, history live.HistoryFunc, origins []string) {
	router.GET("/ws/recipes", live.WebSocketHandler(hub, history, origins))
}
