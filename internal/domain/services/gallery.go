package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
	"github.com/fredcamaral/stackslider/internal/domain/ports"
)

// GalleryService loads gallery files and holds the gallery currently served.
// Reads and reloads may happen from different goroutines.
type GalleryService struct {
	parser ports.GalleryParser

	mu      sync.RWMutex
	path    string
	current *entities.Gallery
}

// NewGalleryService creates a new gallery service instance
func NewGalleryService(parser ports.GalleryParser) *GalleryService {
	return &GalleryService{parser: parser}
}

// Load reads and parses a gallery file and makes it the current gallery
func (s *GalleryService) Load(ctx context.Context, path string) (*entities.Gallery, error) {
	if path == "" {
		return nil, errors.New("gallery path cannot be empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving gallery path: %w", err)
	}

	gallery, err := s.read(ctx, absPath)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.path = absPath
	s.current = gallery
	s.mu.Unlock()

	return gallery, nil
}

// LoadBytes parses gallery content and makes it the current gallery.
// Reload is not available afterwards.
func (s *GalleryService) LoadBytes(ctx context.Context, content []byte) (*entities.Gallery, error) {
	gallery, err := s.parse(ctx, content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.path = ""
	s.current = gallery
	s.mu.Unlock()

	return gallery, nil
}

// Current returns the gallery being served, or nil before the first load
func (s *GalleryService) Current() *entities.Gallery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Reload re-reads the gallery file. On failure the previous gallery stays current.
func (s *GalleryService) Reload(ctx context.Context) (*entities.Gallery, error) {
	s.mu.RLock()
	path := s.path
	s.mu.RUnlock()

	if path == "" {
		return nil, errors.New("no gallery file loaded")
	}

	gallery, err := s.read(ctx, path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = gallery
	s.mu.Unlock()

	return gallery, nil
}

// Assets returns the directory of the loaded gallery file
func (s *GalleryService) Assets() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.path == "" {
		return ""
	}
	return filepath.Dir(s.path)
}

func (s *GalleryService) read(ctx context.Context, path string) (*entities.Gallery, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("gallery file not found: %s", path)
		}
		return nil, fmt.Errorf("reading gallery file: %w", err)
	}
	return s.parse(ctx, content)
}

func (s *GalleryService) parse(ctx context.Context, content []byte) (*entities.Gallery, error) {
	if len(content) == 0 {
		return nil, errors.New("gallery content cannot be empty")
	}

	gallery, err := s.parser.Parse(ctx, content)
	if err != nil {
		return nil, fmt.Errorf("parsing gallery: %w", err)
	}

	if err := gallery.Validate(); err != nil {
		return nil, fmt.Errorf("invalid gallery: %w", err)
	}

	return gallery, nil
}

var _ ports.GalleryService = (*GalleryService)(nil)
