package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/kailas-cloud/regalo/internal/metrics"
	"github.com/kailas-cloud/regalo/internal/usecase/ratelimit"
)

// RouterOptions configure cross-cutting middleware.
type RouterOptions struct {
	APIKeys        []string
	AllowedOrigins []string
	// Limiter guards the endpoints that reach the intent provider. Nil disables rate limiting.
	Limiter *ratelimit.Limiter
}

// NewRouter mounts the API on a chi router with the standard middleware chain.
func NewRouter(s *Server, opts RouterOptions) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	// Before CORS and auth so preflights and rejections are counted.
	r.Use(metrics.Middleware())
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Client-Info", "Apikey"},
		ExposedHeaders: []string{"X-Request-ID", "Retry-After"},
		MaxAge:         300,
	}))
	r.Use(BearerAuthMiddleware(opts.APIKeys))

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/v1", func(r chi.Router) {
		limited := r.With(RateLimitMiddleware(opts.Limiter))
		limited.Post("/intent", s.ParseIntent)
		limited.Post("/search", s.Search)
		r.Post("/clicks", s.RecordClick)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	return r
}
