package http

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"os"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
	"github.com/fredcamaral/stackslider/internal/domain/ports"
)

// Server serves the carousel page, its assets and one gesture session per
// websocket connection
type Server struct {
	server   *http.Server
	connMgr  *ConnectionManager
	gallery  ports.GalleryService
	renderer ports.Renderer
	config   *entities.Config
	clock    ports.TimeProvider
	assets   fs.FS
	limiter  *rateLimiter
	metrics  ports.Metrics
	logger   HTTPLogger

	mu      sync.RWMutex
	running bool
	addr    string
	baseCtx context.Context
	cancel  context.CancelFunc
}

// NewServer creates a new HTTP server. config must not be nil.
func NewServer(gallery ports.GalleryService, renderer ports.Renderer, config *entities.Config, logger HTTPLogger) *Server {
	if config == nil {
		panic("server config cannot be nil - provide a valid Config")
	}

	return &Server{
		gallery:  gallery,
		renderer: renderer,
		config:   config,
		connMgr:  NewConnectionManager(),
		clock:    ports.NewRealTimeProvider(),
		limiter:  newRateLimiter(300, time.Minute),
		metrics:  ports.NopMetrics{},
		logger:   logger,
		baseCtx:  context.Background(),
	}
}

// SetAssets serves /assets/ from fsys instead of the gallery directory
func (s *Server) SetAssets(fsys fs.FS) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets = fsys
}

// SetMetrics sets where requests, renders, sessions and gestures are counted
func (s *Server) SetMetrics(m ports.Metrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = m
}

// SetTimeProvider replaces the clock driving carousel animations
func (s *Server) SetTimeProvider(tp ports.TimeProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = tp
}

// Start listens on host:port and serves in the background. Port 0 picks a
// free port; Addr reports the one bound.
func (s *Server) Start(ctx context.Context, port int, host string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server already running")
	}

	ln, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("listening on %s:%d: %w", host, port, err)
	}

	s.baseCtx, s.cancel = context.WithCancel(ctx)
	s.server = &http.Server{
		Handler:           s.handlerLocked(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.config.Server.GetReadTimeout(),
		WriteTimeout:      s.config.Server.GetWriteTimeout(),
		IdleTimeout:       60 * time.Second,
	}
	s.addr = ln.Addr().String()
	s.running = true

	srv := s.server
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error: %v", err)
		}
	}()

	s.logger.Success("HTTP server listening on %s", s.addr)
	return nil
}

// Stop ends every session and shuts the server down. The lock is released
// before Shutdown so in-flight handlers can still read server state.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return errors.New("server not running")
	}
	s.running = false
	s.cancel()
	srv := s.server
	s.mu.Unlock()

	s.connMgr.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.GetShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// NotifyClients hands an event to every session. A reload event makes each
// session rebuild its carousel from the current gallery.
func (s *Server) NotifyClients(event ports.UpdateEvent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return errors.New("server not running")
	}

	if event.Type == ports.EventTypeReload {
		s.metrics.RecordReload()
	}
	n := s.connMgr.Broadcast(event)
	s.logger.Debug("%s event delivered to %d session(s)", event.Type, n)
	return nil
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the bound address once started
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Handler returns the complete handler: routes, middleware and CORS
func (s *Server) Handler() http.Handler {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.handlerLocked()
}

func (s *Server) handlerLocked() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/api/gallery", s.handleGallery).Methods(http.MethodGet)
	router.HandleFunc("/api/config", s.handleConfig).Methods(http.MethodGet)
	router.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)
	router.PathPrefix("/assets/").Handler(http.StripPrefix("/assets/", s.secureFileServer()))

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handleError(w, fmt.Errorf("no route for %s", r.URL.Path), http.StatusNotFound)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handleError(w, fmt.Errorf("%s not allowed on %s", r.Method, r.URL.Path), http.StatusMethodNotAllowed)
	})

	// security -> rate limiting -> metrics -> logging -> recovery
	var handler http.Handler = router
	handler = securityHeadersMiddleware(handler)
	handler = rateLimitMiddleware(handler, s.limiter)
	handler = metricsMiddleware(handler, s.metrics)
	handler = loggingMiddleware(handler, s.logger)
	handler = recoveryMiddleware(handler, s.logger)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.Server.GetCORSOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           300,
	})
	return c.Handler(handler)
}

// assetFS returns the file system gallery images are served from
func (s *Server) assetFS() fs.FS {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.assets != nil {
		return s.assets
	}
	if dir := s.gallery.Assets(); dir != "" {
		return os.DirFS(dir)
	}
	return nil
}

// secureFileServer serves gallery assets. Paths escaping the root are
// forbidden and directories are never listed.
func (s *Server) secureFileServer() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.URL.Path, "/")
		if raw == "" || strings.Contains(raw, "..") || strings.Contains(raw, "\\") {
			s.handleError(w, fmt.Errorf("rejected asset path %q", r.URL.Path), http.StatusForbidden)
			return
		}

		name := path.Clean(raw)
		fsys := s.assetFS()
		if fsys == nil || !fs.ValidPath(name) {
			http.NotFound(w, r)
			return
		}

		info, err := fs.Stat(fsys, name)
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		http.ServeFileFS(w, r, fsys, name)
	})
}

// sessionContext is the parent context of websocket sessions
func (s *Server) sessionContext() context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.baseCtx
}

func (s *Server) timeProvider() ports.TimeProvider {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock
}

func (s *Server) metricsRecorder() ports.Metrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}

var _ ports.HTTPServer = (*Server)(nil)
