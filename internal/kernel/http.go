// Package kernel assembles the HTTP handler: global middleware, the
// metrics and upload endpoints, and the API routes with their services.
package kernel

import (
	"net/http"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/wardrobe/app/controllers"
	"github.com/shashiranjanraj/wardrobe/app/repositories"
	"github.com/shashiranjanraj/wardrobe/app/routes"
	"github.com/shashiranjanraj/wardrobe/app/services"
	"github.com/shashiranjanraj/wardrobe/config"
	"github.com/shashiranjanraj/wardrobe/pkg/auth"
	"github.com/shashiranjanraj/wardrobe/pkg/metrics"
	"github.com/shashiranjanraj/wardrobe/pkg/middleware"
	"github.com/shashiranjanraj/wardrobe/pkg/reqid"
	"github.com/shashiranjanraj/wardrobe/pkg/response"
	"github.com/shashiranjanraj/wardrobe/pkg/router"
	"github.com/shashiranjanraj/wardrobe/pkg/storage"
	"github.com/shashiranjanraj/wardrobe/pkg/workerpool"
)

// Deps are the long-lived resources the handler is built from. A zero
// value builds a router good enough for listing routes.
type Deps struct {
	DB        *gorm.DB
	Disk      storage.Disk
	RateStore middleware.RateStore
	Issuer    *auth.Issuer

	// Cleanup runs image removals off the request path. Nil runs them inline.
	Cleanup *workerpool.Pool
}

// NewRouter wires services and controllers and registers every route.
func NewRouter(d Deps) *router.Router {
	if d.RateStore == nil {
		d.RateStore = middleware.NewMemoryStore()
	}
	if d.Issuer == nil {
		d.Issuer = auth.NewIssuerFromConfig()
	}

	store := repositories.NewStore(d.DB)
	images := services.NewImageStore(d.Disk, config.MaxImageBytes()).WithCleanup(d.Cleanup)
	authService := services.NewAuthService(store, d.Issuer)

	r := router.New()

	// Outermost first: metrics see total latency, recovery catches panics
	// before they reach the server, and the request id exists before
	// anything logs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.ClientURL())))
	r.Use(middleware.RateLimit(d.RateStore, config.RateLimitMax(), config.RateLimitWindow()))
	r.Use(middleware.BodyLimit(config.MaxBodyBytes()))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/metrics", "metrics", metrics.Handler())
	if fs, ok := d.Disk.(storage.FileServer); ok {
		r.Static(config.UploadURL(), "uploads", fs.FileSystem())
	}

	routes.RegisterAPI(r, routes.Handlers{
		Auth:          controllers.NewAuthController(authService),
		Products:      controllers.NewProductController(services.NewCatalogService(store, images)),
		Inventory:     controllers.NewInventoryController(services.NewInventoryService(store, images)),
		Authenticator: authService,
	})

	return r
}

// NewHandler returns the root http.Handler.
func NewHandler(d Deps) http.Handler {
	return NewRouter(d).Handler()
}
