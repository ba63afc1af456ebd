package main

import (
	"context"
	"image"
	_ "image/png"
	"io/fs"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoGallery(t *testing.T) {
	assets := demoAssets()
	content, err := fs.ReadFile(assets, demoGallery)
	require.NoError(t, err)

	a := newTestApp(t)
	gallery, err := a.gallery.LoadBytes(context.Background(), content)
	require.NoError(t, err)
	require.Len(t, gallery.Slides, 2)

	assert.Equal(t, "**Художник:** Ф. Лейтон\n**Название:** «Возвращение Персефоны»", gallery.Slides[0].Caption)
	assert.Equal(t, "**Художник:** Ян Брейгель Старший\n**Название:** «Похищение Прозерпины»", gallery.Slides[1].Caption)

	for _, slide := range gallery.Slides {
		f, err := assets.Open(slide.Src)
		require.NoError(t, err, "missing artwork %s", slide.Src)

		// snapshots decode artwork with the image package, so it must be raster
		cfg, format, err := image.DecodeConfig(f)
		_ = f.Close()
		require.NoError(t, err, "undecodable artwork %s", slide.Src)
		assert.Equal(t, "png", format)
		assert.Positive(t, cfg.Width)
		assert.Positive(t, cfg.Height)
	}
}

func TestDemoServe(t *testing.T) {
	assets := demoAssets()
	content, err := fs.ReadFile(assets, demoGallery)
	require.NoError(t, err)

	a := newTestApp(t)
	_, err = a.gallery.LoadBytes(context.Background(), content)
	require.NoError(t, err)

	url := startServing(t, a, serveOptions{assets: assets})

	status, body := get(t, url+"/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<strong>Художник:</strong> Ф. Лейтон")

	status, body = get(t, url+"/assets/leighton.png")
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, strings.HasPrefix(body, "\x89PNG"))
}
