package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/mari/awards-voting/internal/api/handlers"
	"github.com/mari/awards-voting/internal/api/middleware"
	"github.com/mari/awards-voting/internal/config"
	"github.com/mari/awards-voting/internal/repository"
	"github.com/mari/awards-voting/internal/service"
)

func NewRouter(services *service.Services, repos *repository.Repositories, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(middleware.CORS)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	authHandler := handlers.NewAuthHandler(services.Auth, services.Session, cfg)
	voteHandler := handlers.NewVoteHandler(services.Voting)
	categoryHandler := handlers.NewCategoryHandler(repos.Category)
	adminHandler := handlers.NewAdminHandler(repos.Settings)

	requireAuth := middleware.Auth(services.Session, services.Auth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/verify", authHandler.Verify)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", authHandler.Me)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// Reference data is public; voters browse categories before login.
		r.Get("/categories", categoryHandler.List)

		r.Route("/vote", func(r chi.Router) {
			// Marker check runs before session resolution; a markerless
			// request is rejected without touching auth state.
			r.With(middleware.RequireVoteMarker, requireAuth).Post("/", voteHandler.Submit)
			r.With(requireAuth).Get("/", voteHandler.Status)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.RequireAdmin)
			r.Get("/settings", adminHandler.GetSettings)
			r.Put("/settings", adminHandler.UpdateSettings)
		})
	})

	return r
}
