package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptionRenderer_Render(t *testing.T) {
	r := NewCaptionRenderer()

	t.Run("bold and line breaks", func(t *testing.T) {
		html, err := r.Render("**Artist:** F. Leighton\n**Title:** The Return of Persephone")
		require.NoError(t, err)
		assert.Contains(t, html, "<strong>Artist:</strong> F. Leighton")
		assert.Contains(t, html, "<br")
		assert.Contains(t, html, "<p>")
	})

	t.Run("raw html is dropped", func(t *testing.T) {
		html, err := r.Render("<script>alert(1)</script>\n\nhello <img src=x onerror=alert(1)>")
		require.NoError(t, err)
		assert.NotContains(t, html, "script")
		assert.NotContains(t, html, "onerror")
		assert.Contains(t, html, "hello")
	})

	t.Run("unsafe links are stripped", func(t *testing.T) {
		html, err := r.Render("[click](javascript:alert(1)) and [museum](https://example.org)")
		require.NoError(t, err)
		assert.NotContains(t, html, "javascript")
		assert.Contains(t, html, `href="https://example.org"`)
		assert.Contains(t, html, `rel="nofollow"`)
	})

	t.Run("empty caption", func(t *testing.T) {
		html, err := r.Render("")
		require.NoError(t, err)
		assert.Empty(t, html)
	})
}
