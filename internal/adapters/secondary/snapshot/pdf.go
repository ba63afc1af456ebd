package snapshot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/jung-kurt/gofpdf/v2"
)

// A4 landscape, millimetres
const (
	pageWidth  = 297.0
	pageHeight = 210.0
	pageMargin = 10.0
)

// savePDF embeds the snapshot on a single A4 landscape page
func savePDF(img image.Image, title, outputPath string) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("stackslider", true)
	pdf.AddPage()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("snapshot", opts, &buf)

	b := img.Bounds()
	w, h := contain(float64(b.Dx()), float64(b.Dy()), pageWidth-2*pageMargin, pageHeight-2*pageMargin)
	x := (pageWidth - w) / 2
	y := (pageHeight - h) / 2
	pdf.ImageOptions("snapshot", x, y, w, h, false, opts, 0, "")

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("saving PDF to %s: %w", outputPath, err)
	}
	return nil
}
