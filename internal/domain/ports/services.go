package ports

import (
	"context"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
)

// GalleryService loads galleries and keeps track of the one being served
type GalleryService interface {
	// Load reads and parses a gallery file
	Load(ctx context.Context, path string) (*entities.Gallery, error)

	// LoadBytes parses gallery content that did not come from disk
	LoadBytes(ctx context.Context, content []byte) (*entities.Gallery, error)

	// Current returns the gallery being served
	Current() *entities.Gallery

	// Reload re-reads the gallery file last passed to Load
	Reload(ctx context.Context) (*entities.Gallery, error)

	// Assets returns the directory relative image paths resolve against
	Assets() string
}
