package api

import (
	"encoding/json"
	"net/http"

	_ "github.com/blaisecz/athlete-readiness/docs"
	"github.com/blaisecz/athlete-readiness/internal/api/handler"
	"github.com/blaisecz/athlete-readiness/internal/api/middleware"
	"github.com/blaisecz/athlete-readiness/internal/metrics"
	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

type Router struct {
	sessionHandler *handler.SessionHandler
	metrics        *metrics.Manager
}

func NewRouter(sessionHandler *handler.SessionHandler, m *metrics.Manager) *Router {
	return &Router{
		sessionHandler: sessionHandler,
		metrics:        m,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.Tracing)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics(rt.metrics))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	if rt.metrics != nil {
		r.Handle("/metrics", rt.metrics.Handler())
	}

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		r.Route("/session", func(r chi.Router) {
			r.Get("/", rt.sessionHandler.Get)
			r.Post("/profile", rt.sessionHandler.SubmitProfile)
			r.Put("/metrics", rt.sessionHandler.SetMetrics)
			r.Patch("/metrics/{channel}", rt.sessionHandler.AdjustMetric)
			r.Post("/check-in", rt.sessionHandler.SubmitCheckIn)
			r.Post("/back", rt.sessionHandler.Back)
			r.Post("/reset", rt.sessionHandler.Reset)
			r.Post("/report/feedback", rt.sessionHandler.PostFeedback)
		})
	})

	return r
}
