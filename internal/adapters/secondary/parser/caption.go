package parser

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/fredcamaral/stackslider/internal/domain/ports"
)

// CaptionRenderer renders slide captions to sanitized HTML. Single newlines
// become line breaks, so "Artist: ...\nTitle: ..." stays on two lines.
type CaptionRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// NewCaptionRenderer creates a new caption renderer
func NewCaptionRenderer() *CaptionRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
		),
	)

	return &CaptionRenderer{
		md:     md,
		policy: NewCaptionPolicy(),
	}
}

// Render converts caption markdown to HTML
func (r *CaptionRenderer) Render(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return r.policy.Sanitize(buf.String()), nil
}

// NewCaptionPolicy returns the sanitizer applied to captions: inline text
// formatting, paragraphs, lists and plain links
func NewCaptionPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements("p", "br")
	p.AllowElements("strong", "b", "em", "i", "u", "s", "del", "mark", "small", "code")
	p.AllowElements("ul", "ol", "li", "blockquote")
	p.AllowAttrs("href").OnElements("a")
	p.AllowURLSchemes("http", "https", "mailto")
	p.RequireNoFollowOnLinks(true)
	p.AllowAttrs("class").OnElements("p", "span")
	p.AllowElements("span")

	return p
}

var _ ports.CaptionRenderer = (*CaptionRenderer)(nil)
