package server

import (
	"context"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/playerlink/playerlink/internal/database"
	"github.com/playerlink/playerlink/internal/media"
	"github.com/playerlink/playerlink/internal/prefs"
	"github.com/playerlink/playerlink/internal/preview"
	"github.com/playerlink/playerlink/internal/ratelimit"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	// DB switches preference storage from cookies to Postgres.
	DB                    database.DBTX
	Pinger                Pinger
	Source                media.Source
	AssetsFS              fs.FS
	AssetBase             string
	BaseURL               string
	StorageEndpoint       string
	AllowedFrameAncestors string
}

type Server struct {
	router         chi.Router
	pinger         Pinger
	previewHandler *preview.Handler
	assetsFS       fs.FS
}

func New(cfg Config) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(slogMiddleware)
	r.Use(securityHeaders(SecurityConfig{
		BaseURL:               cfg.BaseURL,
		StorageEndpoint:       cfg.StorageEndpoint,
		AssetBase:             cfg.AssetBase,
		AllowedFrameAncestors: cfg.AllowedFrameAncestors,
	}))

	s := &Server{router: r, pinger: cfg.Pinger, assetsFS: cfg.AssetsFS}

	if cfg.Source != nil {
		secureCookies := hasHTTPS(cfg.BaseURL)
		factory := prefs.CookieFactory(secureCookies)
		if cfg.DB != nil {
			factory = prefs.PostgresFactory(cfg.DB, secureCookies)
		}
		s.previewHandler = preview.NewHandler(cfg.Source, factory, cfg.AssetBase)
	}

	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Get("/api/health", s.handleHealth)

	if s.previewHandler != nil {
		s.router.Get("/preview/*", s.previewHandler.Page)
		s.router.Get("/api/players", s.previewHandler.Players)
		s.router.Get("/api/players/catalog", s.previewHandler.Catalog)

		prefsLimiter := ratelimit.NewLimiter(2, 10)
		s.router.Get("/api/preferences", s.previewHandler.GetPreferences)
		s.router.With(prefsLimiter.Middleware).Put("/api/preferences/{key}", s.previewHandler.SetPreference)

		s.router.Get("/d/*", s.previewHandler.Download)
		s.router.Head("/d/*", s.previewHandler.Download)
	}

	if s.assetsFS != nil {
		s.router.Handle("/images/*", newAssetFileServer(s.assetsFS))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unhealthy","error":"database unreachable"}`))
			return
		}
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
