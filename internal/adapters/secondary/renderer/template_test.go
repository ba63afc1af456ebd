package renderer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
)

func testGallery() *entities.Gallery {
	return &entities.Gallery{
		Title: "Myths <b>& legends</b>",
		Class: "dark",
		Slides: []entities.Slide{
			{ID: "slide-1", Index: 0, Src: "img/a.png", Alt: "Persephone", CaptionHTML: "<p><strong>Artist:</strong> F. Leighton</p>"},
			{ID: "slide-2", Index: 1, Src: "https://example.org/b.png", Alt: "Proserpina"},
		},
	}
}

func restState() entities.CarouselState {
	return entities.CarouselState{
		Phase: entities.PhaseRest,
		Order: []string{"slide-1", "slide-2"},
		Views: []entities.SlideView{
			{Key: "slide-1", SlideID: "slide-1", Depth: 0, Scale: 1, ZIndex: 2, Opacity: 1, Interactive: true},
			{Key: "slide-2", SlideID: "slide-2", Depth: 1, Scale: 0.85, TranslateY: -40, ZIndex: 1, Opacity: 1},
		},
	}
}

func TestTemplateRenderer_RenderPage(t *testing.T) {
	renderer, err := NewTemplateRenderer(entities.DefaultCarouselConfig())
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("renders every slide with its transform", func(t *testing.T) {
		html, err := renderer.RenderPage(ctx, testGallery(), restState())
		require.NoError(t, err)
		page := string(html)

		assert.Contains(t, page, "<!DOCTYPE html>")
		assert.Contains(t, page, "<title>Myths &lt;b&gt;&amp; legends&lt;/b&gt;</title>")
		assert.Contains(t, page, `class="stack-wrapper dark"`)
		assert.Contains(t, page, `data-trigger="80"`)

		assert.Contains(t, page, `src="/assets/img/a.png"`)
		assert.Contains(t, page, `src="https://example.org/b.png"`)
		assert.Contains(t, page, `alt="Persephone"`)
		assert.Contains(t, page, "<strong>Artist:</strong> F. Leighton")
		assert.Equal(t, 1, strings.Count(page, "<figcaption"))
		assert.Equal(t, 1, strings.Count(page, `<svg class="stack-info-icon"`), "only captioned slides show the info icon")
		assert.Contains(t, page, `<div class="stack-info-text"><p><strong>Artist:</strong>`)

		assert.Contains(t, page, "scale(1.0000) translateY(0.00px); z-index: 2; opacity: 1.000;")
		assert.Contains(t, page, "scale(0.8500) translateY(-40.00px); z-index: 1; opacity: 1.000;")
		assert.Contains(t, page, `class="stack-item front"`)
		assert.Contains(t, page, `"phase":"rest"`)
	})

	t.Run("marks the front slide disabled during an animation", func(t *testing.T) {
		state := restState()
		state.Disabled = true
		html, err := renderer.RenderPage(ctx, testGallery(), state)
		require.NoError(t, err)
		assert.Contains(t, string(html), `class="stack-item front disable"`)
	})

	t.Run("nil gallery", func(t *testing.T) {
		_, err := renderer.RenderPage(ctx, nil, restState())
		assert.EqualError(t, err, "gallery cannot be nil")
	})
}

func TestViewStyle(t *testing.T) {
	style := ViewStyle(entities.SlideView{Scale: 1.25, TranslateY: -5, DragY: 15, ZIndex: 3, Opacity: 0.75})
	assert.Equal(t, "transform: scale(1.2500) translateY(10.00px); z-index: 3; opacity: 0.750;", string(style))
}
