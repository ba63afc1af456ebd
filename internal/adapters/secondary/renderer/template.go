package renderer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
	"github.com/fredcamaral/stackslider/internal/domain/ports"
)

// TemplateRenderer implements the Renderer interface using Go templates
type TemplateRenderer struct {
	templates *template.Template
	carousel  entities.CarouselConfig
}

// pageSlide is one slide node of the page with its initial transform
type pageSlide struct {
	entities.Slide
	URL   string
	Style template.CSS
	Front bool
}

// NewTemplateRenderer creates a new template-based renderer
func NewTemplateRenderer(carousel entities.CarouselConfig) (*TemplateRenderer, error) {
	tmpl := template.New("page").Funcs(template.FuncMap{
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s) // #nosec G203 - captions are sanitized when parsed
		},
	})

	if _, err := tmpl.Parse(pageTemplate); err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	return &TemplateRenderer{
		templates: tmpl,
		carousel:  carousel,
	}, nil
}

// RenderPage renders the carousel page for a gallery at the given state
func (r *TemplateRenderer) RenderPage(ctx context.Context, gallery *entities.Gallery, state entities.CarouselState) ([]byte, error) {
	if gallery == nil {
		return nil, errors.New("gallery cannot be nil")
	}

	views := make(map[string]entities.SlideView, len(state.Views))
	for _, v := range state.Views {
		if !v.Ghost {
			views[v.SlideID] = v
		}
	}

	slides := make([]pageSlide, 0, len(gallery.Slides))
	for _, s := range gallery.Slides {
		ps := pageSlide{Slide: s, URL: s.AssetURL()}
		if v, ok := views[s.ID]; ok {
			ps.Style = ViewStyle(v)
			ps.Front = v.Interactive
		}
		slides = append(slides, ps)
	}

	data := struct {
		Title    string
		Class    string
		Slides   []pageSlide
		State    entities.CarouselState
		Carousel entities.CarouselConfig
	}{
		Title:    gallery.Title,
		Class:    gallery.Class,
		Slides:   slides,
		State:    state,
		Carousel: r.carousel,
	}

	var buf bytes.Buffer
	if err := r.templates.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing page template: %w", err)
	}

	return buf.Bytes(), nil
}

// ViewStyle is the inline CSS for a view. The page script builds the same
// string after every render event.
func ViewStyle(v entities.SlideView) template.CSS {
	style := fmt.Sprintf("transform: scale(%.4f) translateY(%.2fpx); z-index: %d; opacity: %.3f;",
		v.Scale, v.TranslateY+v.DragY, v.ZIndex, v.Opacity)
	return template.CSS(style) // #nosec G203 - built from numbers only
}

var _ ports.Renderer = (*TemplateRenderer)(nil)
