package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
)

var (
	port      int
	host      string
	noBrowser bool
	watch     bool
	symmetric bool
)

var serveCmd = &cobra.Command{
	Use:   "serve [gallery]",
	Short: "Serve a markdown gallery as a stacked carousel",
	Long: `Start a local HTTP server showing the images of a markdown gallery
as a stacked carousel. Image paths are resolved next to the gallery file.

Example:
  stackslider serve gallery.md
  stackslider serve gallery.md --port 8080 --no-browser --watch`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	addServerFlags(serveCmd)
	serveCmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the gallery when the file changes (overrides config)")
}

// addServerFlags registers the flags shared by serve and demo. Defaults are
// zero so that only flags given on the command line override config.
func addServerFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to serve on (overrides config)")
	cmd.Flags().StringVar(&host, "host", "", "Host to bind to (overrides config)")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "Don't open browser automatically (overrides config)")
	cmd.Flags().BoolVar(&symmetric, "symmetric", false, "Allow dragging up as well as down (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	galleryPath, err := validateGalleryPath(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd, filepath.Dir(galleryPath))
	if err != nil {
		return err
	}
	if err := validateServeConfig(a.config); err != nil {
		return err
	}

	gallery, err := a.gallery.Load(cmd.Context(), galleryPath)
	if err != nil {
		return fmt.Errorf("loading gallery: %w", err)
	}
	a.logger.Info("Loaded %d slide(s) from %s", gallery.SlideCount(), galleryPath)
	if gallery.SlideCount() < 2 {
		a.logger.Warn("Gallery has %d slide(s); the stack will not move", gallery.SlideCount())
	}

	return a.serve(cmd.Context(), serveOptions{watchPath: galleryPath})
}

// validateGalleryPath resolves path and checks it is a regular file
func validateGalleryPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving gallery path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("accessing gallery file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("gallery path is not a regular file: %s", path)
	}

	return absPath, nil
}

// validateServeConfig checks what only matters when binding a listener
func validateServeConfig(config *entities.Config) error {
	if config.Server.Port < 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", config.Server.Port)
	}
	if strings.ContainsAny(config.Server.Host, " !") {
		return fmt.Errorf("invalid host: %s", config.Server.Host)
	}
	return nil
}
