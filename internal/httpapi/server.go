package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/urlreporter/internal/httpapi/middleware"
	"github.com/hamed0406/urlreporter/internal/scheduler"
)

// Server exposes the configured URLs, on-demand checks and manual cycle
// triggers over HTTP. It shares the checker and reporter with the scheduler.
type Server struct {
	Logger  *zap.Logger
	Checker scheduler.StatusChecker
	Runner  scheduler.CycleRunner
	URLs    []string
}

func NewServer(l *zap.Logger, c scheduler.StatusChecker, r scheduler.CycleRunner, urls []string) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Checker: c, Runner: r, URLs: append([]string(nil), urls...)}
}

type RouterConfig struct {
	Keys           apimw.Keys
	AllowedOrigins []string
	PublicRPM      int
	PublicBurst    int
	AdminRPM       int
	AdminBurst     int
	// TrustProxy derives the client address from forwarding headers.
	TrustProxy bool
}

func (s *Server) Router(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	if cfg.TrustProxy {
		r.Use(chimw.RealIP)
	}
	if len(cfg.AllowedOrigins) == 0 {
		r.Use(cors.AllowAll().Handler)
	} else {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "X-API-Key"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		api.Group(func(pub chi.Router) {
			pub.Use(apimw.RateLimit(cfg.PublicRPM, cfg.PublicBurst))
			pub.Use(apimw.RequireAny(cfg.Keys))
			pub.Get("/urls", s.handleListURLs)
			pub.Get("/status", s.handleStatus)
			pub.Get("/report", s.handleReport)
		})
		api.Group(func(adm chi.Router) {
			adm.Use(apimw.RateLimit(cfg.AdminRPM, cfg.AdminBurst))
			adm.Use(apimw.RequireAdmin(cfg.Keys))
			adm.Post("/cycles/{kind}", s.handleRunCycle)
		})
	})

	return r
}
