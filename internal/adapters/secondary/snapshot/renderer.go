package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // gallery assets
	_ "image/jpeg" // gallery assets
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	_ "golang.org/x/image/webp" // gallery assets

	"github.com/fredcamaral/stackslider/internal/domain/entities"
	"github.com/fredcamaral/stackslider/internal/domain/ports"
)

const (
	canvasWidth  = 1600
	canvasHeight = 1000
	stackTop     = 260.0
	cardMaxW     = 720.0
	cardMaxH     = 520.0
	cardRadius   = 32.0
	infoRadius   = 24.0
	infoPadding  = 30.0
	captionSize  = 16.0
)

var background = color.RGBA{0x11, 0x11, 0x11, 0xff}

// Renderer draws a still image of the stack the way the page lays it out:
// every card scaled around its top centre, shifted by the view's
// translateY, stacked by z-index and faded by opacity.
type Renderer struct {
	assets string
	font   *truetype.Font
	logger ports.Logger
}

// NewRenderer creates a snapshot renderer. assets is the directory relative
// image sources resolve against; "" disables local image loading.
func NewRenderer(assets string, logger ports.Logger) (*Renderer, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded font: %w", err)
	}

	return &Renderer{assets: assets, font: f, logger: logger}, nil
}

// Render writes the snapshot to outputPath as PNG or PDF
func (r *Renderer) Render(ctx context.Context, gallery *entities.Gallery, state entities.CarouselState, outputPath string) error {
	img, err := r.Draw(ctx, gallery, state)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".png":
		return savePNG(img, outputPath)
	case ".pdf":
		return savePDF(img, gallery.Title, outputPath)
	default:
		return fmt.Errorf("unsupported snapshot format: %q", filepath.Ext(outputPath))
	}
}

// Draw renders the stack onto a new canvas
func (r *Renderer) Draw(ctx context.Context, gallery *entities.Gallery, state entities.CarouselState) (image.Image, error) {
	if gallery == nil {
		return nil, errors.New("gallery cannot be nil")
	}

	dc := gg.NewContext(canvasWidth, canvasHeight)
	dc.SetColor(background)
	dc.Clear()

	views := make([]entities.SlideView, len(state.Views))
	copy(views, state.Views)
	sort.SliceStable(views, func(i, j int) bool { return views[i].ZIndex < views[j].ZIndex })

	face := truetype.NewFace(r.font, &truetype.Options{Size: captionSize})
	defer func() { _ = face.Close() }()

	cards := make(map[string]*image.RGBA)
	for _, view := range views {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		slide, err := gallery.GetSlideByID(view.SlideID)
		if err != nil {
			return nil, fmt.Errorf("view %s: %w", view.Key, err)
		}

		card, ok := cards[slide.ID]
		if !ok {
			card, err = r.drawCard(slide, face)
			if err != nil {
				return nil, fmt.Errorf("drawing slide %s: %w", slide.ID, err)
			}
			cards[slide.ID] = card
		}

		r.placeCard(dc, card, view)
	}

	return dc.Image(), nil
}

// placeCard composites a card at the view's transform. The page uses
// transform-origin: center top and "scale(s) translateY(t)", so the
// translation happens in scaled units.
func (r *Renderer) placeCard(dc *gg.Context, card *image.RGBA, view entities.SlideView) {
	if view.Opacity <= 0 || view.Scale <= 0 {
		return
	}

	src := card
	if view.Opacity < 1 {
		src = fade(card, view.Opacity)
	}

	w := float64(card.Bounds().Dx())
	dc.Push()
	dc.Translate(canvasWidth/2, stackTop)
	dc.Scale(view.Scale, view.Scale)
	dc.Translate(-w/2, view.TranslateY+view.DragY)
	dc.DrawImage(src, 0, 0)
	dc.Pop()
}

func (r *Renderer) drawCard(slide *entities.Slide, face font.Face) (*image.RGBA, error) {
	img := r.loadImage(slide)

	w, h := cardMaxW, cardMaxH
	if img != nil {
		w, h = fit(float64(img.Bounds().Dx()), float64(img.Bounds().Dy()), cardMaxW, cardMaxH)
	}

	dc := gg.NewContext(int(math.Max(1, w)), int(math.Max(1, h)))
	dc.DrawRoundedRectangle(0, 0, w, h, cardRadius)
	dc.Clip()

	dc.SetFontFace(face)
	if img != nil {
		dc.Push()
		dc.Scale(w/float64(img.Bounds().Dx()), h/float64(img.Bounds().Dy()))
		dc.DrawImage(img, 0, 0)
		dc.Pop()
	} else {
		dc.SetRGB255(0x33, 0x33, 0x33)
		dc.DrawRectangle(0, 0, w, h)
		dc.Fill()
		dc.SetRGB255(0xaa, 0xaa, 0xaa)
		dc.DrawStringWrapped(slide.Alt, w/2, h/2, 0.5, 0.5, w-2*infoPadding, 1.4, gg.AlignCenter)
	}

	lines, err := captionLines(slide.CaptionHTML)
	if err != nil {
		return nil, err
	}
	drawInfo(dc, lines, w, h)

	rgba, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, errors.New("unexpected canvas type")
	}
	return rgba, nil
}

// drawInfo draws the caption overlay in the bottom right corner of a card
func drawInfo(dc *gg.Context, lines []string, w, h float64) {
	if len(lines) == 0 {
		return
	}

	maxText := w - 2*infoPadding
	var wrapped []string
	for _, line := range lines {
		wrapped = append(wrapped, wrapText(dc, line, maxText)...)
	}

	textW := 0.0
	for _, line := range wrapped {
		if lw, _ := dc.MeasureString(line); lw > textW {
			textW = lw
		}
	}

	lineHeight := dc.FontHeight() * 1.4
	boxW := textW + 2*infoPadding
	boxH := float64(len(wrapped))*lineHeight + 2*infoPadding - (lineHeight - dc.FontHeight())
	x, y := w-boxW, h-boxH

	dc.SetRGBA(0, 0, 0, 0.2)
	dc.DrawRoundedRectangle(x, y, boxW, boxH, infoRadius)
	dc.Fill()

	dc.SetRGB(1, 1, 1)
	for i, line := range wrapped {
		dc.DrawStringAnchored(line, x+infoPadding, y+infoPadding+float64(i)*lineHeight, 0, 1)
	}
}

// loadImage returns the decoded slide image or nil when it cannot be shown
func (r *Renderer) loadImage(slide *entities.Slide) image.Image {
	if slide.IsRemote() {
		r.logger.Warnw("remote image drawn as placeholder", "slide", slide.ID, "src", slide.Src)
		return nil
	}
	if r.assets == "" {
		return nil
	}

	path, err := assetPath(r.assets, slide.Src)
	if err != nil {
		r.logger.Warnw("image outside gallery directory", "slide", slide.ID, "src", slide.Src)
		return nil
	}

	img, err := gg.LoadImage(path)
	if err != nil {
		r.logger.Warnw("image drawn as placeholder", "slide", slide.ID, "src", slide.Src, "error", err)
		return nil
	}
	return img
}

// assetPath resolves src under dir and rejects anything escaping it
func assetPath(dir, src string) (string, error) {
	full := filepath.Join(dir, filepath.FromSlash(src))
	rel, err := filepath.Rel(dir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes %s", src, dir)
	}
	return full, nil
}

// fit scales w×h down to fit inside maxW×maxH keeping the aspect ratio
func fit(w, h, maxW, maxH float64) (float64, float64) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	return contain(w, h, maxW, maxH)
}

// contain scales w×h up or down to the largest size inside maxW×maxH
func contain(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	ratio := math.Min(maxW/w, maxH/h)
	return w * ratio, h * ratio
}

// fade returns a copy of a premultiplied image with every channel scaled
func fade(src *image.RGBA, opacity float64) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	for i, v := range src.Pix {
		dst.Pix[i] = uint8(float64(v) * opacity)
	}
	return dst
}

func savePNG(img image.Image, outputPath string) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	if err := os.WriteFile(outputPath, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("writing %s: %w", outputPath, err)
	}
	return nil
}

var _ ports.SnapshotRenderer = (*Renderer)(nil)
