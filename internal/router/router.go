package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"smartbrief-backend/internal/handlers"
	"smartbrief-backend/internal/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Summarize *handlers.SummarizeHandler
	Chat      *handlers.ChatHandler
	Export    *handlers.ExportHandler
	Catalog   *handlers.CatalogHandler
	Summaries *handlers.SummaryHandler
	Health    *handlers.HealthHandler
	ChatWS    http.HandlerFunc
}

func New(h Handlers, aiLimiter *middleware.RateLimiter, frontendURL string) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(corsHandler(frontendURL).Handler)

	r.Get("/", h.Health.Root)
	r.Get("/health", h.Health.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health.Health)
		r.Get("/models", h.Catalog.Models)
		r.Get("/options", h.Catalog.Options)

		// AI routes share one per-IP budget. Socket frames are counted by the hub.
		ai := aiLimiter.Middleware

		r.With(ai).Post("/summarize", h.Summarize.Summarize)

		// ──── Chat Routes ────
		r.Route("/chat", func(r chi.Router) {
			r.With(ai).Post("/ask", h.Chat.AskQuestion)
			r.Get("/quick-questions", h.Chat.QuickQuestions)
			r.With(ai).Get("/ws", h.ChatWS)
			r.Get("/{sessionId}", h.Chat.History)
		})

		r.Post("/export", h.Export.Export)

		// ──── Summary History ────
		r.Route("/summaries", func(r chi.Router) {
			r.Get("/", h.Summaries.List)
			r.Get("/{id}", h.Summaries.Get)
		})
	})

	return r
}

func corsHandler(frontendURL string) *cors.Cors {
	var origins []string
	for _, o := range strings.Split(frontendURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	})
}
