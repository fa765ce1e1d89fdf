package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"golang.org/x/time/rate"

	"github.com/qaflag/qaflag-docs/internal/config"
	"github.com/qaflag/qaflag-docs/internal/metrics"
	"github.com/qaflag/qaflag-docs/internal/site"
)

// Server is the HTTP server for the docs site.
type Server struct {
	router  chi.Router
	holder  *site.Holder
	metrics *metrics.Metrics
	reload  *rate.Limiter
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the HTTP server. Routes are mounted under
// the base URL of the initial snapshot. m may be nil.
func NewServer(holder *site.Holder, m *metrics.Metrics, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		holder:  holder,
		metrics: m,
		reload:  rate.NewLimiter(rate.Every(2*time.Second), 1),
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	if s.metrics != nil {
		r.Use(Instrument(s.metrics))
	}
	r.Use(func(next http.Handler) http.Handler { return gzhttp.GzipHandler(next) })

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/sidebars", s.handleSidebars)
		r.Get("/sidebars/{name}", s.handleSidebar)
		r.Get("/docs", s.handleListDocs)
		r.Get("/search", s.handleSearch)

		if s.cfg.AdminAPIKey != "" {
			r.With(
				AuthMiddleware(s.cfg.AdminAPIKey, s.log),
				RateLimit(s.reload),
			).Post("/reload", s.handleReload)
		}
	})

	base := strings.TrimSuffix(s.holder.Current().Config.BaseURL, "/")
	if base == "" {
		s.pageRoutes(r)
	} else {
		r.Route(base, s.pageRoutes)
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, base+"/", http.StatusFound)
		})
	}
	r.NotFound(s.handleNotFound)

	s.router = r
}

func (s *Server) pageRoutes(r chi.Router) {
	r.Get("/", s.handleHome)
	r.Get("/docs", s.handleDocsIndex)
	r.Get("/docs/*", s.handleDoc)
}
