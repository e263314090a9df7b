package routes

import (
	"github.com/shashiranjanraj/wardrobe/app/controllers"
	"github.com/shashiranjanraj/wardrobe/pkg/auth"
	"github.com/shashiranjanraj/wardrobe/pkg/ctx"
	"github.com/shashiranjanraj/wardrobe/pkg/middleware"
	"github.com/shashiranjanraj/wardrobe/pkg/rbac"
	"github.com/shashiranjanraj/wardrobe/pkg/router"
)

// Handlers are the controllers behind the API routes.
type Handlers struct {
	Auth          *controllers.AuthController
	Products      *controllers.ProductController
	Inventory     *controllers.InventoryController
	Authenticator middleware.TokenAuthenticator
}

// RegisterAPI mounts every /api route. Everything except health and login
// needs a bearer token; account management needs the admin role.
func RegisterAPI(r *router.Router, h Handlers) {
	api := r.Group("/api")
	api.Get("/health", "health", ctx.Wrap(controllers.Health))
	api.Post("/auth/login", "auth.login", ctx.Wrap(h.Auth.Login))

	authed := api.Group("", middleware.Authenticate(h.Authenticator))
	authed.Get("/auth/me", "auth.me", ctx.Wrap(h.Auth.Me))

	admin := authed.Group("/auth", rbac.HasRole(auth.RoleAdmin))
	admin.Post("/register", "auth.register", ctx.Wrap(h.Auth.Register))
	admin.Get("/users", "auth.users", ctx.Wrap(h.Auth.Users))

	products := authed.Group("/products")
	products.Get("", "products.index", ctx.Wrap(h.Products.Index))
	products.Post("", "products.store", ctx.Wrap(h.Products.Store))
	products.Get("/stats/summary", "products.stats", ctx.Wrap(h.Products.Stats))
	products.Get("/export", "products.export", ctx.Wrap(h.Products.Export))
	products.Post("/variants/generate", "products.variants.generate", ctx.Wrap(h.Products.GenerateVariants))
	products.Get("/{id}", "products.show", ctx.Wrap(h.Products.Show))
	products.Put("/{id}", "products.update", ctx.Wrap(h.Products.Update))
	products.Delete("/{id}", "products.destroy", ctx.Wrap(h.Products.Destroy))

	inventory := authed.Group("/inventory")
	inventory.Get("", "inventory.index", ctx.Wrap(h.Inventory.Index))
	inventory.Post("", "inventory.store", ctx.Wrap(h.Inventory.Store))
	inventory.Get("/{id}", "inventory.show", ctx.Wrap(h.Inventory.Show))
	inventory.Put("/{id}", "inventory.update", ctx.Wrap(h.Inventory.Update))
	inventory.Delete("/{id}", "inventory.destroy", ctx.Wrap(h.Inventory.Destroy))
}
