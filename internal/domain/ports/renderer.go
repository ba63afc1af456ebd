package ports

import (
	"context"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
)

// Renderer renders the carousel page for a gallery
type Renderer interface {
	RenderPage(ctx context.Context, gallery *entities.Gallery, state entities.CarouselState) ([]byte, error)
}

// SnapshotRenderer draws a still image of the stack at a given offset
type SnapshotRenderer interface {
	// Render writes the snapshot to outputPath; the format follows the file extension
	Render(ctx context.Context, gallery *entities.Gallery, state entities.CarouselState, outputPath string) error
}
