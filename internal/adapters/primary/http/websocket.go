package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/fredcamaral/stackslider/internal/domain/services"
)

// createUpgrader creates a WebSocket upgrader with origin validation
func (s *Server) createUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.isValidOrigin,
	}
}

// handleWebSocket upgrades the request and starts a gesture session over
// its own carousel
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	gallery := s.gallery.Current()
	if gallery == nil {
		s.handleError(w, errNoGallery, http.StatusServiceUnavailable)
		return
	}

	carousel, err := services.NewCarousel(gallery.Slides, s.config.Carousel, s.timeProvider())
	if err != nil {
		s.handleError(w, err, http.StatusInternalServerError)
		return
	}

	upgrader := s.createUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		carousel.Close()
		s.logger.Warn("WebSocket upgrade failed: %v", err)
		return
	}

	session := newSession(uuid.NewString(), conn, carousel, s.gallery, s.logger)
	metrics := s.metricsRecorder()
	session.metrics = metrics
	s.connMgr.Register(session)
	metrics.SessionOpened()
	s.logger.Debug("session %s opened (%d slides)", session.ID(), carousel.Len())

	// the request context ends with this handler; sessions live on the server's
	session.start(s.sessionContext(), func() {
		s.connMgr.Unregister(session.ID())
		metrics.SessionClosed()
		s.logger.Debug("session %s closed", session.ID())
	})
}

// isValidOrigin validates WebSocket connection origins based on environment
func (s *Server) isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		s.logger.Warn("WebSocket connection rejected: invalid origin %q: %v", origin, err)
		return false
	}

	// same host as the page
	if originURL.Host == r.Host {
		return true
	}

	if s.config.Server.IsDevelopment() {
		return isDevelopmentOrigin(originURL)
	}
	return s.isProductionOrigin(originURL)
}

// isDevelopmentOrigin allows loopback and private network hosts
func isDevelopmentOrigin(originURL *url.URL) bool {
	switch hostname := originURL.Hostname(); hostname {
	case "localhost", "127.0.0.1", "0.0.0.0", "::1":
		return true
	default:
		return strings.HasPrefix(hostname, "192.168.") ||
			strings.HasPrefix(hostname, "10.") ||
			isPrivateClassB(hostname)
	}
}

// isProductionOrigin checks the configured CORS origins
func (s *Server) isProductionOrigin(originURL *url.URL) bool {
	for _, allowed := range s.config.Server.GetCORSOrigins() {
		if allowed == "*" || originURL.String() == allowed {
			return true
		}
	}

	s.logger.Warn("WebSocket connection rejected: origin %s not in %v",
		originURL.String(), s.config.Server.GetCORSOrigins())
	return false
}

// isPrivateClassB checks for 172.16.0.0 to 172.31.255.255 range
func isPrivateClassB(hostname string) bool {
	if !strings.HasPrefix(hostname, "172.") {
		return false
	}

	parts := strings.Split(hostname, ".")
	if len(parts) < 2 {
		return false
	}

	switch parts[1] {
	case "16", "17", "18", "19", "20", "21", "22", "23", "24", "25", "26", "27", "28", "29", "30", "31":
		return true
	default:
		return false
	}
}
