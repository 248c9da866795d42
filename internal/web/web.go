// Package web serves the chat client's static assets and a status endpoint.
// It runs as its own HTTP server and never touches chat state.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/Tyrowin/lanchat/internal/chat"
)

//go:embed assets
var embedded embed.FS

// DefaultAssets returns the embedded chat page.
func DefaultAssets() fs.FS {
	sub, err := fs.Sub(embedded, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// Status is the body of GET /api/status.
type Status struct {
	Status   string `json:"status"`
	Time     string `json:"time"`
	Message  string `json:"message"`
	Instance string `json:"instance"`
}

// Server holds the web handlers.
type Server struct {
	assets   fs.FS
	instance uuid.UUID
	logger   *slog.Logger
	now      func() time.Time
}

// New creates a web server over assets. A nil assets uses DefaultAssets.
func New(assets fs.FS, logger *slog.Logger) *Server {
	if assets == nil {
		assets = DefaultAssets()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		assets:   assets,
		instance: uuid.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// Instance identifies this process in status responses.
func (s *Server) Instance() uuid.UUID {
	return s.instance
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(slogFormatter{logger: s.logger}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))

	r.Get("/", s.index)
	r.Get("/api/status", s.status)
	r.Get("/*", s.static)

	r.NotFound(s.notFound)
	r.MethodNotAllowed(s.notFound)
	return r
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.serveAsset(w, r, "index.html")
}

func (s *Server) status(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(Status{
		Status:   "online",
		Time:     chat.FormatTimestamp(s.now()),
		Message:  "server is running",
		Instance: s.instance.String(),
	})
	if err != nil {
		s.logger.Warn("writing status response", "error", err)
	}
}

func (s *Server) static(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+chi.URLParam(r, "*")), "/")
	if name == "" {
		name = "index.html"
	}
	s.serveAsset(w, r, name)
}

// serveAsset writes the named file, or the 404 page when it is missing or a
// directory.
func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request, name string) {
	info, err := fs.Stat(s.assets, name)
	if err != nil || info.IsDir() {
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("stat asset", "name", name, "error", err)
		}
		s.notFound(w, r)
		return
	}
	http.ServeFileFS(w, r, s.assets, name)
}

func (s *Server) notFound(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("page not found"))
}
