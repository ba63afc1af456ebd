package parser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
	"github.com/fredcamaral/stackslider/internal/domain/ports"
)

// GalleryParser implements ports.GalleryParser using Goldmark.
//
// A gallery is markdown with optional YAML frontmatter and slides separated
// by "---" lines. The first image of a slide is its picture; its markdown is
// cut out and whatever remains is the caption.
type GalleryParser struct {
	md       goldmark.Markdown
	captions ports.CaptionRenderer
}

// NewGalleryParser creates a new Goldmark-based gallery parser
func NewGalleryParser(captions ports.CaptionRenderer) *GalleryParser {
	return &GalleryParser{
		md:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		captions: captions,
	}
}

// Parse parses gallery markdown into a Gallery
func (p *GalleryParser) Parse(ctx context.Context, content []byte) (*entities.Gallery, error) {
	gallery := &entities.Gallery{}

	body, err := extractFrontmatter(content, gallery)
	if err != nil {
		return nil, err
	}

	blocks := splitSlides(body)
	gallery.Slides = make([]entities.Slide, 0, len(blocks))

	for i, block := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		slide, err := p.parseSlide(block, i)
		if err != nil {
			return nil, fmt.Errorf("parsing slide %d: %w", i+1, err)
		}
		gallery.Slides = append(gallery.Slides, slide)
	}

	return gallery, nil
}

func (p *GalleryParser) parseSlide(source []byte, index int) (entities.Slide, error) {
	doc := p.md.Parser().Parse(text.NewReader(source))

	img := findImage(doc)
	if img == nil {
		return entities.Slide{}, errors.New("no image found")
	}

	slide := entities.Slide{
		ID:    entities.DefaultSlideID(index),
		Index: index,
		Src:   string(img.Destination),
		Alt:   strings.TrimSpace(string(altText(img, source))),
	}
	if slide.Alt == "" {
		slide.Alt = p.altFromSource(slide.Src)
	}

	caption := source
	if start, stop, ok := imageSpan(img, source); ok {
		caption = append(append([]byte{}, source[:start]...), source[stop:]...)
	}
	slide.Caption = strings.TrimSpace(string(caption))

	if slide.HasCaption() {
		html, err := p.captions.Render(slide.Caption)
		if err != nil {
			return entities.Slide{}, fmt.Errorf("rendering caption: %w", err)
		}
		slide.CaptionHTML = html
	}

	return slide, nil
}

// altFromSource turns "the-return_of-persephone.jpg" into "The Return Of Persephone"
func (p *GalleryParser) altFromSource(src string) string {
	// Casers keep state, so each call gets its own
	title := cases.Title(language.Und)

	name := path.Base(src)
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return title.String(strings.Join(strings.Fields(name), " "))
}

func findImage(doc ast.Node) *ast.Image {
	var found *ast.Image
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if img, ok := n.(*ast.Image); ok {
			found = img
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return found
}

func altText(img *ast.Image, source []byte) []byte {
	var buf bytes.Buffer
	_ = ast.Walk(img, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.Bytes()
}

// imageSpan finds the byte range of img's "![alt](dest)" markdown. When the
// closing bracket cannot be matched it falls back to the whole source line.
func imageSpan(img *ast.Image, source []byte) (int, int, bool) {
	altStart, altStop := -1, -1
	_ = ast.Walk(img, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			if altStart < 0 {
				altStart = t.Segment.Start
			}
			altStop = t.Segment.Stop
		}
		return ast.WalkContinue, nil
	})

	line, ok := imageLine(img, altStart, source)
	if !ok {
		return 0, 0, false
	}

	start := -1
	if altStart >= 0 {
		start = bytes.LastIndex(source[line.Start:altStart], []byte("!["))
	} else {
		start = bytes.Index(line.Value(source), []byte("!["))
	}
	if start < 0 {
		return line.Start, line.Stop, true
	}
	start += line.Start
	if altStop < 0 {
		altStop = start + 2
	}

	bracket := bytes.IndexByte(source[altStop:], ']')
	if bracket < 0 {
		return line.Start, line.Stop, true
	}
	pos := altStop + bracket + 1

	switch {
	case pos < len(source) && source[pos] == '(':
		if stop := closeParen(source, pos); stop > 0 {
			return start, stop, true
		}
		return line.Start, line.Stop, true
	case pos < len(source) && source[pos] == '[':
		if ref := bytes.IndexByte(source[pos:], ']'); ref >= 0 {
			return start, pos + ref + 1, true
		}
		return line.Start, line.Stop, true
	default:
		return start, pos, true
	}
}

// closeParen returns the index just past the parenthesis that closes the one
// at open, skipping escapes and quoted titles, or -1
func closeParen(source []byte, open int) int {
	depth := 0
	var quote byte
	for i := open; i < len(source); i++ {
		c := source[i]
		switch {
		case c == '\\':
			i++
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case (c == '"' || c == '\'') && (source[i-1] == ' ' || source[i-1] == '\t'):
			quote = c
		case c == '(':
			depth++
		case c == ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

// imageLine finds the source line of the block that holds img. anchor is the
// start of its alt text, or -1 when it has none.
func imageLine(img *ast.Image, anchor int, source []byte) (text.Segment, bool) {
	block := img.Parent()
	for block != nil && block.Type() != ast.TypeBlock {
		block = block.Parent()
	}
	if block == nil || block.Lines() == nil {
		return text.Segment{}, false
	}

	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		if anchor >= 0 && anchor >= line.Start && anchor < line.Stop {
			return line, true
		}
		if anchor < 0 && bytes.Contains(line.Value(source), []byte("![")) {
			return line, true
		}
	}

	return text.Segment{}, false
}

var _ ports.GalleryParser = (*GalleryParser)(nil)
