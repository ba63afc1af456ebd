package builders

import (
	"fmt"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
)

// GalleryBuilder helps build Gallery entities for testing
type GalleryBuilder struct {
	gallery *entities.Gallery
}

// NewGalleryBuilder creates a new gallery builder with sensible defaults
func NewGalleryBuilder() *GalleryBuilder {
	return &GalleryBuilder{
		gallery: &entities.Gallery{
			Title:    "Test Gallery",
			Slides:   []entities.Slide{},
			Metadata: make(map[string]interface{}),
		},
	}
}

// WithTitle sets the gallery title
func (b *GalleryBuilder) WithTitle(title string) *GalleryBuilder {
	b.gallery.Title = title
	return b
}

// WithClass sets the wrapper class
func (b *GalleryBuilder) WithClass(class string) *GalleryBuilder {
	b.gallery.Class = class
	return b
}

// WithSlide appends a slide, renumbering its index to its position
func (b *GalleryBuilder) WithSlide(slide entities.Slide) *GalleryBuilder {
	slide.Index = len(b.gallery.Slides)
	b.gallery.Slides = append(b.gallery.Slides, slide)
	return b
}

// WithSlideIDs appends one default slide per id
func (b *GalleryBuilder) WithSlideIDs(ids ...string) *GalleryBuilder {
	for _, id := range ids {
		b.WithSlide(NewSlideBuilder().WithID(id).Build())
	}
	return b
}

// WithSlideCount appends count default slides named slide-N
func (b *GalleryBuilder) WithSlideCount(count int) *GalleryBuilder {
	for i := 0; i < count; i++ {
		b.WithSlideIDs(fmt.Sprintf("slide-%d", len(b.gallery.Slides)+1))
	}
	return b
}

// WithMetadata sets custom metadata
func (b *GalleryBuilder) WithMetadata(key string, value interface{}) *GalleryBuilder {
	b.gallery.Metadata[key] = value
	return b
}

// Build creates the final Gallery entity
func (b *GalleryBuilder) Build() *entities.Gallery {
	metadata := make(map[string]interface{}, len(b.gallery.Metadata))
	for k, v := range b.gallery.Metadata {
		metadata[k] = v
	}

	return &entities.Gallery{
		Title:    b.gallery.Title,
		Class:    b.gallery.Class,
		Metadata: metadata,
		Slides:   append([]entities.Slide{}, b.gallery.Slides...),
	}
}

// SlideBuilder helps build Slide entities for testing
type SlideBuilder struct {
	slide entities.Slide
}

// NewSlideBuilder creates a new slide builder with sensible defaults
func NewSlideBuilder() *SlideBuilder {
	return &SlideBuilder{
		slide: entities.Slide{
			ID:  "slide-1",
			Src: "images/slide-1.png",
			Alt: "Slide 1",
		},
	}
}

// WithID sets the slide ID and derives the image source and alt text from it
func (b *SlideBuilder) WithID(id string) *SlideBuilder {
	b.slide.ID = id
	b.slide.Src = "images/" + id + ".png"
	b.slide.Alt = id
	return b
}

// WithSrc sets the image source
func (b *SlideBuilder) WithSrc(src string) *SlideBuilder {
	b.slide.Src = src
	return b
}

// WithAlt sets the alt text
func (b *SlideBuilder) WithAlt(alt string) *SlideBuilder {
	b.slide.Alt = alt
	return b
}

// WithCaption sets the caption markdown and its rendered HTML
func (b *SlideBuilder) WithCaption(markdown, html string) *SlideBuilder {
	b.slide.Caption = markdown
	b.slide.CaptionHTML = html
	return b
}

// Build creates the final Slide entity
func (b *SlideBuilder) Build() entities.Slide {
	return b.slide
}

// MinimalGallery has a single slide, which leaves the carousel inert
func MinimalGallery() *entities.Gallery {
	return NewGalleryBuilder().
		WithTitle("Minimal").
		WithSlideIDs("only").
		Build()
}

// MythsGallery is the two captioned artworks used across tests
func MythsGallery() *entities.Gallery {
	return NewGalleryBuilder().
		WithTitle("Myths").
		WithSlide(NewSlideBuilder().
			WithID("persephone").
			WithAlt("Return of Persephone").
			WithCaption("**Artist:** F. Leighton", "<p><strong>Artist:</strong> F. Leighton</p>").
			Build()).
		WithSlide(NewSlideBuilder().
			WithID("proserpina").
			WithAlt("Rape of Proserpina").
			WithCaption("**Artist:** Jan Brueghel the Elder", "<p><strong>Artist:</strong> Jan Brueghel the Elder</p>").
			Build()).
		Build()
}

// LargeGallery has fifty slides
func LargeGallery() *entities.Gallery {
	return NewGalleryBuilder().
		WithTitle("Large Gallery").
		WithSlideCount(50).
		Build()
}
