package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/floreria/catalog/internal/api/handlers"
	mw "github.com/floreria/catalog/internal/api/middleware"
)

type Dependencies struct {
	Tokens mw.TokenParser

	HealthHandler     *handlers.HealthHandler
	ProductsHandler   *handlers.ProductsHandler
	CategoriesHandler *handlers.CategoriesHandler
	PromotionsHandler *handlers.PromotionsHandler
	UsersHandler      *handlers.UsersHandler
	ImagesHandler     *handlers.ImagesHandler
	AdminHandler      *handlers.AdminHandler

	RateLimitRPS   float64
	RateLimitBurst int
	MaxBodyBytes   int64
}

func NewRouter(dep Dependencies) http.Handler {
	if dep.RateLimitRPS <= 0 {
		dep.RateLimitRPS = 10
	}
	if dep.RateLimitBurst <= 0 {
		dep.RateLimitBurst = 20
	}
	if dep.MaxBodyBytes <= 0 {
		dep.MaxBodyBytes = 50 << 20
	}

	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(mw.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst))
	r.Use(chimid.Compress(5))
	r.Use(mw.BodyLimit(dep.MaxBodyBytes))

	// Health endpoints
	r.Get("/healthz", dep.HealthHandler.Liveness)
	r.Get("/readyz", dep.HealthHandler.Readiness)

	// Swagger documentation
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	requireAuth := mw.Auth(dep.Tokens)

	r.Route("/products", func(pr chi.Router) {
		pr.Get("/", dep.ProductsHandler.List)
		pr.Get("/{id}", dep.ProductsHandler.Get)
		pr.Group(func(admin chi.Router) {
			admin.Use(requireAuth, mw.RequireAdmin)
			admin.Post("/create", dep.ProductsHandler.Create)
			admin.Put("/{id}", dep.ProductsHandler.Update)
			admin.Delete("/{id}", dep.ProductsHandler.Deactivate)
		})
	})

	r.Route("/categories", func(cr chi.Router) {
		cr.Get("/", dep.CategoriesHandler.List)
		cr.Get("/{id}", dep.CategoriesHandler.Get)
		cr.Group(func(admin chi.Router) {
			admin.Use(requireAuth, mw.RequireAdmin)
			admin.Post("/create", dep.CategoriesHandler.Create)
			admin.Put("/{id}", dep.CategoriesHandler.Update)
			admin.Delete("/{id}", dep.CategoriesHandler.Deactivate)
		})
	})

	r.Route("/promotions", func(pr chi.Router) {
		pr.Get("/", dep.PromotionsHandler.List)
		pr.Get("/{id}", dep.PromotionsHandler.Get)
		pr.Group(func(admin chi.Router) {
			admin.Use(requireAuth, mw.RequireAdmin)
			admin.Post("/create", dep.PromotionsHandler.Create)
			admin.Post("/{id}/apply", dep.PromotionsHandler.Apply)
			admin.Put("/{id}", dep.PromotionsHandler.Update)
			admin.Delete("/{id}", dep.PromotionsHandler.Deactivate)
		})
	})

	r.Route("/users", func(ur chi.Router) {
		// Public
		ur.Post("/register", dep.UsersHandler.Register)
		ur.Post("/login", dep.UsersHandler.Login)

		ur.Group(func(authed chi.Router) {
			authed.Use(requireAuth)
			authed.Get("/{id}", dep.UsersHandler.Get)
			authed.Put("/{id}", dep.UsersHandler.Update)
		})
		ur.Group(func(admin chi.Router) {
			admin.Use(requireAuth, mw.RequireAdmin)
			admin.Get("/", dep.UsersHandler.List)
			admin.Delete("/{id}", dep.UsersHandler.Deactivate)
		})
	})

	r.Route("/images", func(ir chi.Router) {
		ir.Get("/{id}", dep.ImagesHandler.Get)
		ir.Group(func(admin chi.Router) {
			admin.Use(requireAuth, mw.RequireAdmin)
			admin.Post("/products/{productId}/images", dep.ImagesHandler.Upload)
			admin.Get("/products/{productId}/images", dep.ImagesHandler.ListByProduct)
			admin.Patch("/products/{productId}/images/{id}/main", dep.ImagesHandler.SetMain)
			admin.Put("/{id}", dep.ImagesHandler.Update)
			admin.Delete("/{id}", dep.ImagesHandler.Delete)
		})
	})

	r.With(requireAuth).Get("/verifyToken", dep.UsersHandler.VerifyToken)
	r.With(requireAuth, mw.RequireAdmin).Get("/admin", dep.AdminHandler.Dashboard)

	return r
}
