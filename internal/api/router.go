package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erazemk/stockroom/internal/logger"
	"github.com/erazemk/stockroom/internal/metrics"
	"github.com/erazemk/stockroom/internal/model"
)

// Options configures NewRouter. Items is required; everything else is
// optional.
type Options struct {
	Items   ItemRepository
	DB      Pinger
	Logger  *logger.Logger
	Metrics *metrics.Metrics
	// Gatherer backs GET /metrics when set.
	Gatherer prometheus.Gatherer

	// JWTSecret enables bearer token checks on /api. Writes then need the
	// editor role.
	JWTSecret          string
	CORSAllowedOrigins []string

	// Client serves the browser application for every path the API does
	// not claim.
	Client http.Handler
}

// NewRouter creates the HTTP router with all endpoints registered.
func NewRouter(opts Options) http.Handler {
	logg := opts.Logger
	r := chi.NewRouter()
	r.Use(
		RequestID(logg),
		Logging(logg, opts.Metrics),
		Recoverer(logg),
		CORS(opts.CORSAllowedOrigins),
	)

	r.Get("/healthz", Health(opts.DB, logg))
	if opts.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}

	items := &ItemsHandler{Items: opts.Items, Logger: logg}
	r.Route("/api", func(r chi.Router) {
		requireEditor := func(next http.Handler) http.Handler { return next }
		if opts.JWTSecret != "" {
			r.Use(AuthMiddleware(opts.JWTSecret))
			requireEditor = RequireRole(model.RoleEditor)
		}

		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			jsonError(w, http.StatusNotFound, "not found")
		})
		r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
			jsonError(w, http.StatusMethodNotAllowed, "method not allowed")
		})

		r.Get("/items", items.List)
		r.With(requireEditor).Post("/items", items.Create)
		r.Get("/items/{id}", items.Get)
		r.With(requireEditor).Put("/items/{id}", items.Update)
		r.With(requireEditor).Delete("/items/{id}", items.Delete)
		r.Get("/stats", items.Stats)
	})

	// Catch-all for the client. chi prefers every more specific route above.
	if opts.Client != nil {
		r.Method(http.MethodGet, "/*", opts.Client)
		r.Method(http.MethodHead, "/*", opts.Client)
	}

	return r
}
