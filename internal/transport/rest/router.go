package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/rizkypratama/maintenance-portal/internal/auth"
	"github.com/rizkypratama/maintenance-portal/internal/gallery"
	"github.com/rizkypratama/maintenance-portal/internal/report"
	"github.com/rizkypratama/maintenance-portal/internal/transport/middleware"
	"github.com/rizkypratama/maintenance-portal/internal/transport/swagger"
)

// RouterDeps bundles everything RegisterAllRoutes needs to wire the
// portal: handlers, the session resolver for the page guard, and the
// raw DB handle for health checks.
type RouterDeps struct {
	DB             *sql.DB
	AuthHandler    *auth.Handler
	ReportHandler  *report.Handler
	GalleryHandler *gallery.Handler
	Sessions       middleware.SessionResolver
	AllowedOrigins string
	Logger         *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, deps RouterDeps) {
	healthHandler := NewHealthHandler(deps.DB)

	// Apply global middleware
	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggingMiddleware(deps.Logger))
	router.Use(middleware.RouteGuard(deps.Sessions, deps.Logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler())

	registerPages(router)

	router.Route("/api", func(r chi.Router) {
		// Health check route
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", deps.AuthHandler.Login)
			sr.Post("/logout", deps.AuthHandler.Logout)
			sr.Post("/register", deps.AuthHandler.Register)
			sr.With(deps.AuthHandler.RequireSession).Get("/me", deps.AuthHandler.Me)
		})

		// Report routes. Reads are public; file downloads resolve the
		// session only to attribute the access log.
		r.Route("/reports", func(rr chi.Router) {
			rr.Get("/", deps.ReportHandler.List)
			rr.Get("/stats", deps.ReportHandler.GetStats)
			rr.With(deps.AuthHandler.OptionalSession).Get("/download/{id}", deps.ReportHandler.Download)
			rr.Get("/{id}", deps.ReportHandler.Get)

			rr.Group(func(pr chi.Router) {
				pr.Use(deps.AuthHandler.RequireSession)
				pr.Post("/", deps.ReportHandler.Create)
				pr.Patch("/{id}", deps.ReportHandler.Review)
				pr.Delete("/{id}", deps.ReportHandler.Delete)
			})
		})

		// Gallery routes
		r.Route("/gallery", func(gr chi.Router) {
			gr.Get("/", deps.GalleryHandler.List)
			gr.Get("/stats", deps.GalleryHandler.GetStats)
			gr.Get("/{id}", deps.GalleryHandler.Get)

			gr.Group(func(pr chi.Router) {
				pr.Use(deps.AuthHandler.RequireSession)
				pr.Post("/", deps.GalleryHandler.Create)
				pr.Patch("/{id}", deps.GalleryHandler.Update)
				pr.Delete("/{id}", deps.GalleryHandler.Delete)
			})
		})
	})
}
