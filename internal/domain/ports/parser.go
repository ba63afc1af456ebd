package ports

import (
	"context"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
)

// GalleryParser turns a gallery markdown file into a Gallery
type GalleryParser interface {
	Parse(ctx context.Context, content []byte) (*entities.Gallery, error)
}

// CaptionRenderer renders caption markdown into sanitized HTML
type CaptionRenderer interface {
	Render(markdown string) (string, error)
}
