package routes

import (
	"obiabedidi/auth"
	"obiabedidi/catalog"
	"obiabedidi/imagehost"
	"obiabedidi/live"
	"obiabedidi/middleware"
	"obiabedidi/recipes"
	"obiabedidi/video"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
)

// Deps are the handlers and shared services the API is assembled from.
type Deps struct {
	Guard     *middleware.Auth
	Recipes   *recipes.Handler
	Catalog   *catalog.Handler
	Auth      *auth.Handler
	Uploads   *imagehost.Handler
	Videos    *video.Resolver
	Hub       *live.Hub
	Gatherer  prometheus.Gatherer
	UploadDir string
	// Origins are the browser origins allowed to open the live feed.
	Origins []string
}

func RoutesWrapper(router *httprouter.Router, d Deps) {
	AddOpsRoutes(router, d.Gatherer)
	AddStaticRoutes(router, d.UploadDir)
	AddRecipeRoutes(router, d.Guard, d.Recipes)
	AddCatalogRoutes(router, d.Catalog)
	AddAuthRoutes(router, d.Guard, d.Auth)
	AddMediaRoutes(router, d.Guard, d.Uploads, d.Videos)
	AddLiveRoutes(router, d.Hub, d.Recipes.LiveHistory, d.Origins)
}
