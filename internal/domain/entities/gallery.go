package entities

import (
	"errors"
	"fmt"
)

// Gallery is an ordered set of captioned images shown through the carousel
type Gallery struct {
	// Title is the gallery title, used as the page title
	Title string `yaml:"title" json:"title"`

	// Class is an optional CSS class added to the carousel wrapper
	Class string `yaml:"class" json:"class,omitempty"`

	// Metadata contains any additional frontmatter fields
	Metadata map[string]interface{} `yaml:",inline" json:"metadata,omitempty"`

	// Slides contains the images in their initial front-to-back order
	Slides []Slide `yaml:"-" json:"slides"`
}

// Validate ensures the gallery can be displayed
func (g *Gallery) Validate() error {
	if len(g.Slides) == 0 {
		return errors.New("gallery must have at least one slide")
	}

	seen := make(map[string]struct{}, len(g.Slides))
	for i := range g.Slides {
		if err := g.Slides[i].Validate(); err != nil {
			return fmt.Errorf("slide %d validation failed: %w", i+1, err)
		}
		if _, dup := seen[g.Slides[i].ID]; dup {
			return fmt.Errorf("slide %d: duplicate id %q", i+1, g.Slides[i].ID)
		}
		seen[g.Slides[i].ID] = struct{}{}
	}

	if g.Title == "" {
		g.Title = "Gallery"
	}

	return nil
}

// SlideCount returns the total number of slides
func (g *Gallery) SlideCount() int {
	return len(g.Slides)
}

// GetSlideByID returns the slide with the given key
func (g *Gallery) GetSlideByID(id string) (*Slide, error) {
	for i := range g.Slides {
		if g.Slides[i].ID == id {
			return &g.Slides[i], nil
		}
	}
	return nil, fmt.Errorf("slide %q not found", id)
}
