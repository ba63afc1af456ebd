package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/stackslider/internal/adapters/secondary/snapshot"
	"github.com/fredcamaral/stackslider/internal/domain/entities"
	"github.com/fredcamaral/stackslider/internal/domain/ports"
	"github.com/fredcamaral/stackslider/internal/domain/services"
)

var (
	snapshotOutput  string
	snapshotOffset  float64
	snapshotAdvance int
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [gallery]",
	Short: "Draw the stack to a PNG or PDF file",
	Long: `Draw a still image of the stack, optionally with the front slide
dragged by --offset pixels. The format follows the output extension.
Artwork is decoded from local PNG or JPEG files; SVG and remote images
are drawn as placeholders.

Example:
  stackslider snapshot gallery.md -o stack.png
  stackslider snapshot gallery.md -o stack.pdf --offset 60 --advance 1`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVarP(&snapshotOutput, "output", "o", "stack.png", "Output file (.png or .pdf)")
	snapshotCmd.Flags().Float64Var(&snapshotOffset, "offset", 0, "Drag offset of the front slide in pixels")
	snapshotCmd.Flags().IntVar(&snapshotAdvance, "advance", 0, "Rotate the stack this many slides first; negative rotates back")
	snapshotCmd.Flags().BoolVar(&symmetric, "symmetric", false, "Allow negative offsets (overrides config)")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	if err := validateSnapshotOutput(snapshotOutput); err != nil {
		return err
	}

	galleryPath, err := validateGalleryPath(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd, filepath.Dir(galleryPath))
	if err != nil {
		return err
	}
	defer func() { _ = a.logger.Sync() }()

	gallery, err := a.gallery.Load(cmd.Context(), galleryPath)
	if err != nil {
		return fmt.Errorf("loading gallery: %w", err)
	}

	state, err := snapshotState(gallery, a.config.Carousel, snapshotAdvance, snapshotOffset)
	if err != nil {
		return err
	}

	return writeSnapshot(cmd.Context(), a, gallery, state, snapshotOutput)
}

// snapshotState is the stack after advance rotations with the front slide
// held at offset. Offsets outside the drag bounds are clamped.
func snapshotState(gallery *entities.Gallery, cfg entities.CarouselConfig, advance int, offset float64) (entities.CarouselState, error) {
	carousel, err := services.NewCarousel(gallery.Slides, cfg, ports.NewRealTimeProvider())
	if err != nil {
		return entities.CarouselState{}, fmt.Errorf("creating carousel: %w", err)
	}
	defer carousel.Close()

	for ; advance > 0; advance-- {
		carousel.Advance()
	}
	for ; advance < 0; advance++ {
		carousel.Retreat()
	}

	if offset != 0 && carousel.DragStart() {
		carousel.DragMove(offset)
	}

	return carousel.State(), nil
}

func writeSnapshot(ctx context.Context, a *app, gallery *entities.Gallery, state entities.CarouselState, output string) error {
	renderer, err := snapshot.NewRenderer(a.gallery.Assets(), a.logger.Named("snapshot").Sugar())
	if err != nil {
		return fmt.Errorf("creating snapshot renderer: %w", err)
	}

	if err := renderer.Render(ctx, gallery, state, output); err != nil {
		return fmt.Errorf("rendering snapshot: %w", err)
	}

	a.logger.Success("Snapshot written to %s", output)
	return nil
}

func validateSnapshotOutput(output string) error {
	switch strings.ToLower(filepath.Ext(output)) {
	case ".png", ".pdf":
		return nil
	default:
		return fmt.Errorf("unsupported snapshot format %q: use .png or .pdf", filepath.Ext(output))
	}
}
