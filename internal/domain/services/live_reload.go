package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fredcamaral/stackslider/internal/domain/ports"
)

// LiveReloadService reloads the served gallery when its file changes and
// tells every connected page to rebuild its carousel.
type LiveReloadService struct {
	watcher ports.FileWatcher
	server  ports.HTTPServer
	gallery ports.GalleryService
	logger  ports.Logger

	mu          sync.Mutex
	watching    bool
	watchCancel context.CancelFunc
	done        chan struct{}
}

// NewLiveReloadService creates a new live reload service
func NewLiveReloadService(
	watcher ports.FileWatcher,
	server ports.HTTPServer,
	gallery ports.GalleryService,
	logger ports.Logger,
) *LiveReloadService {
	return &LiveReloadService{
		watcher: watcher,
		server:  server,
		gallery: gallery,
		logger:  logger,
	}
}

// Start watches filePath until Stop is called or ctx is cancelled
func (s *LiveReloadService) Start(ctx context.Context, filePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.watching {
		return errors.New("already watching")
	}

	watchCtx, cancel := context.WithCancel(ctx)
	events, err := s.watcher.Watch(watchCtx, filePath)
	if err != nil {
		cancel()
		return fmt.Errorf("starting watcher: %w", err)
	}

	s.watching = true
	s.watchCancel = cancel
	s.done = make(chan struct{})

	go s.handleEvents(watchCtx, events, s.done)

	return nil
}

// Stop stops watching and waits for the event loop to exit
func (s *LiveReloadService) Stop() error {
	s.mu.Lock()
	if !s.watching {
		s.mu.Unlock()
		return nil
	}
	cancel, done := s.watchCancel, s.done
	s.watching = false
	s.watchCancel = nil
	s.done = nil
	s.mu.Unlock()

	cancel()
	<-done

	return s.watcher.Stop()
}

// IsWatching returns whether the service is currently watching
func (s *LiveReloadService) IsWatching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.watching
}

func (s *LiveReloadService) handleEvents(ctx context.Context, events <-chan ports.FileChangeEvent, done chan<- struct{}) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}

			s.logger.Infow("gallery file changed",
				"path", event.Path,
				"type", event.Type.String(),
			)

			if event.Type == ports.Deleted {
				s.logger.Warnw("gallery file deleted, keeping last version", "path", event.Path)
				continue
			}

			gallery, err := s.gallery.Reload(ctx)
			if err != nil {
				// keep serving the previous gallery
				s.logger.Errorw("failed to reload gallery",
					"path", event.Path,
					"error", err,
				)
				continue
			}

			update := ports.UpdateEvent{
				Type:      ports.EventTypeReload,
				Timestamp: event.Timestamp,
				Data:      gallery,
			}

			if err := s.server.NotifyClients(update); err != nil {
				s.logger.Warnw("failed to notify clients",
					"event_type", update.Type,
					"error", err,
				)
				continue
			}

			s.logger.Debugw("clients notified",
				"event_type", update.Type,
				"slides", gallery.SlideCount(),
			)
		}
	}
}
