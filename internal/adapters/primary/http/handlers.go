package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
	"github.com/fredcamaral/stackslider/internal/domain/services"
)

// Version is reported by /api/config; the CLI overrides it at build time
var Version = "dev"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string    `json:"error"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// GalleryResponse represents the gallery API response
type GalleryResponse struct {
	Title  string          `json:"title"`
	Class  string          `json:"class,omitempty"`
	Slides []SlideResponse `json:"slides"`
}

// SlideResponse represents a single slide in the API response
type SlideResponse struct {
	ID      string `json:"id"`
	Index   int    `json:"index"`
	URL     string `json:"url"`
	Alt     string `json:"alt"`
	Caption string `json:"caption,omitempty"`
}

// ConfigResponse represents the configuration API response
type ConfigResponse struct {
	Version      string                  `json:"version"`
	WebSocketURL string                  `json:"websocket_url"`
	LiveReload   bool                    `json:"live_reload"`
	Carousel     entities.CarouselConfig `json:"carousel"`
}

var errNoGallery = errors.New("no gallery loaded")

// handleIndex serves the carousel page with the stack at rest
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	gallery := s.gallery.Current()
	if gallery == nil {
		s.handleError(w, errNoGallery, http.StatusServiceUnavailable)
		return
	}

	clock := s.timeProvider()
	started := clock.Now()

	carousel, err := services.NewCarousel(gallery.Slides, s.config.Carousel, clock)
	if err != nil {
		s.handleError(w, err, http.StatusInternalServerError)
		return
	}
	defer carousel.Close()

	page, err := s.renderer.RenderPage(r.Context(), gallery, carousel.State())
	if err != nil {
		s.handleError(w, err, http.StatusInternalServerError)
		return
	}
	s.metricsRecorder().RecordPageRender(clock.Since(started))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(page); err != nil {
		s.logger.Error("Failed to write page response: %v", err)
	}
}

// healthReporter is implemented by metrics that can describe server health
type healthReporter interface {
	HealthStatus() map[string]interface{}
}

// handleHealth reports liveness, with activity figures when metrics keep them
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if reporter, ok := s.metricsRecorder().(healthReporter); ok {
		s.writeJSON(w, reporter.HealthStatus())
		return
	}
	s.writeJSON(w, map[string]interface{}{"healthy": true})
}

// handleGallery returns the slides as JSON
func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	gallery := s.gallery.Current()
	if gallery == nil {
		s.handleError(w, errNoGallery, http.StatusServiceUnavailable)
		return
	}

	s.writeJSON(w, galleryToResponse(gallery))
}

// handleConfig returns the carousel settings the page runs with
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, ConfigResponse{
		Version:      Version,
		WebSocketURL: "/ws",
		LiveReload:   s.config.Watcher.Enabled,
		Carousel:     s.config.Carousel,
	})
}

// handleError handles error responses with sanitized messages
func (s *Server) handleError(w http.ResponseWriter, err error, status int) {
	var message string
	switch status {
	case http.StatusBadRequest:
		message = "Invalid request"
	case http.StatusForbidden:
		message = "Access denied"
	case http.StatusNotFound:
		message = "Resource not found"
	case http.StatusMethodNotAllowed:
		message = "Method not allowed"
	case http.StatusTooManyRequests:
		message = "Too many requests"
	case http.StatusServiceUnavailable:
		message = "No gallery loaded"
	case http.StatusInternalServerError:
		message = "Internal server error"
	default:
		message = "An error occurred"
	}

	if status >= http.StatusInternalServerError {
		s.logger.Error("HTTP error (status %d): %v", status, err)
	} else {
		s.logger.Debug("HTTP error (status %d): %v", status, err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Time:    time.Now(),
	}); encodeErr != nil {
		s.logger.Error("Failed to encode error response: %v", encodeErr)
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		s.handleError(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(append(body, '\n')); err != nil {
		s.logger.Error("Failed to write JSON response: %v", err)
	}
}

// createHTMLSanitizer creates the policy API captions pass through again
// before leaving the server
func createHTMLSanitizer() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements("p", "br")
	p.AllowElements("strong", "b", "em", "i", "u", "s", "del", "mark", "small", "code")
	p.AllowElements("ul", "ol", "li", "blockquote")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireNoFollowOnLinks(true)
	p.AllowElements("span")
	p.AllowAttrs("class").OnElements("p", "span")

	return p
}

var htmlSanitizer = createHTMLSanitizer()

// galleryToResponse converts a gallery to the API response with sanitized captions
func galleryToResponse(g *entities.Gallery) GalleryResponse {
	slides := make([]SlideResponse, len(g.Slides))
	for i := range g.Slides {
		slide := &g.Slides[i]
		slides[i] = SlideResponse{
			ID:      slide.ID,
			Index:   slide.Index,
			URL:     slide.AssetURL(),
			Alt:     slide.Alt,
			Caption: htmlSanitizer.Sanitize(slide.CaptionHTML),
		}
	}

	return GalleryResponse{
		Title:  bluemonday.StrictPolicy().Sanitize(g.Title),
		Class:  g.Class,
		Slides: slides,
	}
}
