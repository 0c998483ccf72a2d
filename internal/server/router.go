package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nutrilog/nutrilog/internal/api"
	"github.com/nutrilog/nutrilog/internal/api/handlers"
	"github.com/nutrilog/nutrilog/internal/api/middleware"
)

type RouterConfig struct {
	SearchHandler *handlers.SearchHandler
	LogHandler    *handlers.LogHandler
	ReportHandler *handlers.ReportHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", cfg.SearchHandler.Search)
		r.Post("/log", cfg.LogHandler.Create)

		r.Route("/logs", func(r chi.Router) {
			r.Get("/by-date", cfg.ReportHandler.ByDate)
			r.Get("/today", cfg.ReportHandler.Today)
			r.Get("/aggregate", cfg.ReportHandler.Aggregate)
			r.Get("/export", cfg.ReportHandler.Export)
			r.Delete("/{id}", cfg.LogHandler.Delete)
		})
	})

	return r
}
