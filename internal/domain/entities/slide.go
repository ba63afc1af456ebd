package entities

import (
	"errors"
	"path"
	"strconv"
	"strings"
)

// Slide represents a single image in a gallery
type Slide struct {
	// ID is a stable key for the slide, used by the page to match views to nodes
	ID string `json:"id"`

	// Index is the slide position in the source gallery (0-based)
	Index int `json:"index"`

	// Src is the image URL, either absolute or relative to the gallery file
	Src string `json:"src"`

	// Alt is the image alternative text
	Alt string `json:"alt"`

	// Caption is the raw markdown caption
	Caption string `json:"caption,omitempty"`

	// CaptionHTML is the rendered and sanitized caption
	CaptionHTML string `json:"caption_html,omitempty"`
}

// Validate ensures the slide has a usable image
func (s *Slide) Validate() error {
	if strings.TrimSpace(s.Src) == "" {
		return errors.New("slide image source cannot be empty")
	}

	if s.Index < 0 {
		return errors.New("slide index must be non-negative")
	}

	return nil
}

// HasCaption returns true if the slide carries a caption
func (s *Slide) HasCaption() bool {
	return strings.TrimSpace(s.Caption) != ""
}

// IsRemote reports whether Src points outside the gallery directory
func (s *Slide) IsRemote() bool {
	return strings.HasPrefix(s.Src, "http://") ||
		strings.HasPrefix(s.Src, "https://") ||
		strings.HasPrefix(s.Src, "data:") ||
		strings.HasPrefix(s.Src, "/")
}

// AssetURL returns the URL the page should load the image from
func (s *Slide) AssetURL() string {
	if s.IsRemote() {
		return s.Src
	}
	return "/assets/" + strings.TrimPrefix(path.Clean(s.Src), "./")
}

// DefaultSlideID builds the key used when a gallery does not name its slides
func DefaultSlideID(index int) string {
	return "slide-" + strconv.Itoa(index+1)
}
