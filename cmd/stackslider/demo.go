package main

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
)

//go:embed demo
var demoFiles embed.FS

const demoGallery = "gallery.md"

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Serve the built-in two-artwork gallery",
	Long: `Serve a small embedded gallery of two captioned artworks, to try the
carousel without writing a gallery file.

Example:
  stackslider demo --port 8080`,
	Args: cobra.NoArgs,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
	addServerFlags(demoCmd)
}

// demoAssets is the embedded gallery directory
func demoAssets() fs.FS {
	sub, err := fs.Sub(demoFiles, "demo")
	if err != nil {
		panic(fmt.Sprintf("embedded demo gallery: %v", err))
	}
	return sub
}

func runDemo(cmd *cobra.Command, _ []string) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	a, err := newApp(cmd, wd)
	if err != nil {
		return err
	}
	if err := validateServeConfig(a.config); err != nil {
		return err
	}

	assets := demoAssets()
	content, err := fs.ReadFile(assets, demoGallery)
	if err != nil {
		return fmt.Errorf("reading demo gallery: %w", err)
	}
	if _, err := a.gallery.LoadBytes(cmd.Context(), content); err != nil {
		return fmt.Errorf("loading demo gallery: %w", err)
	}

	return a.serve(cmd.Context(), serveOptions{assets: assets})
}
