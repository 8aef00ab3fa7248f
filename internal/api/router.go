package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gridbridge/profilegw/internal/api/handlers"
	"github.com/gridbridge/profilegw/internal/api/middleware"
	"github.com/gridbridge/profilegw/internal/config"
)

const serviceName = "profilegw"

// NewRouter creates the HTTP router with all API routes.
func NewRouter(cfg *config.Config, h *handlers.Handlers) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.AgentExtractor)
	r.Use(middleware.Logger)
	r.Use(middleware.Telemetry)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.AgentHeader, "X-Request-Id", "traceparent"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	// Health & info
	r.Get("/health", healthHandler(cfg))
	r.Get("/version", versionHandler(cfg))

	r.Route("/api/v1", func(r chi.Router) {
		// Profile features; 503 while no profile service is configured.
		r.Route("/profiles", func(r chi.Router) {
			r.Use(h.RequireProfiles)

			r.Route("/avatars/{avatarID}", func(r chi.Router) {
				r.Get("/", h.GetAvatarProfile)
				r.Get("/classifieds", h.ListClassifieds)
				r.Get("/picks", h.ListPicks)
				r.Get("/picks/{pickID}", h.GetPick)
				r.Get("/notes", h.GetNotes)
				r.Put("/notes", h.UpdateNotes)
				r.Post("/arrival", h.Arrival)
			})

			r.Route("/classifieds", func(r chi.Router) {
				r.Post("/", h.SaveClassified)
				r.Get("/{classifiedID}", h.GetClassified)
				r.Delete("/{classifiedID}", h.DeleteClassified)
			})

			r.Route("/picks", func(r chi.Router) {
				r.Post("/", h.SavePick)
				r.Delete("/{pickID}", h.DeletePick)
			})

			r.Route("/me", func(r chi.Router) {
				r.Put("/properties", h.UpdateProperties)
				r.Put("/interests", h.UpdateInterests)
				r.Get("/preferences", h.GetPreferences)
				r.Put("/preferences", h.UpdatePreferences)
			})

			r.Get("/diagnostics/classifieds", h.ClassifiedRefs)
		})

		// Directory seeding
		r.Route("/directory", func(r chi.Router) {
			r.Post("/local", h.AddLocalUser)
			r.Post("/foreign", h.AddForeignUser)
		})
	})

	return r
}

func healthHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		if !cfg.Profiles.Enabled() {
			status = "degraded"
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":           status,
			"service":          serviceName,
			"profiles_enabled": cfg.Profiles.Enabled(),
		})
	}
}

func versionHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"version": cfg.Version,
			"service": serviceName,
		})
	}
}
