package main

import (
	"context"
	"fmt"
	"io/fs"
	"net"

	"github.com/spf13/cobra"

	httpadapter "github.com/fredcamaral/stackslider/internal/adapters/primary/http"
	"github.com/fredcamaral/stackslider/internal/adapters/secondary/browser"
	"github.com/fredcamaral/stackslider/internal/adapters/secondary/config"
	"github.com/fredcamaral/stackslider/internal/adapters/secondary/logging"
	"github.com/fredcamaral/stackslider/internal/adapters/secondary/monitoring"
	"github.com/fredcamaral/stackslider/internal/adapters/secondary/parser"
	"github.com/fredcamaral/stackslider/internal/adapters/secondary/renderer"
	"github.com/fredcamaral/stackslider/internal/adapters/secondary/watcher"
	"github.com/fredcamaral/stackslider/internal/domain/entities"
	"github.com/fredcamaral/stackslider/internal/domain/ports"
	"github.com/fredcamaral/stackslider/internal/domain/services"
)

// app is what every command shares once configuration is resolved
type app struct {
	config  *entities.Config
	logger  *logging.Logger
	gallery *services.GalleryService
}

// serveOptions describes one serving session
type serveOptions struct {
	// assets replaces the gallery directory as the /assets/ root
	assets fs.FS
	// watchPath is reloaded on change when the watcher is enabled
	watchPath string
	// onReady is called with the page URL once the server listens
	onReady func(url string)
}

func newApp(cmd *cobra.Command, workingDir string) (*app, error) {
	cfg, err := loadConfig(cmd, workingDir)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return &app{
		config:  cfg,
		logger:  logger,
		gallery: services.NewGalleryService(parser.NewGalleryParser(parser.NewCaptionRenderer())),
	}, nil
}

// loadConfig resolves configuration with the precedence
// flags > env > local file > global file > defaults
func loadConfig(cmd *cobra.Command, workingDir string) (*entities.Config, error) {
	loader := config.NewTOMLLoader()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loader = config.NewTOMLLoaderWithPath(path)
	}

	svc := services.NewConfigService(loader, config.NewConfigMerger())
	return svc.LoadConfig(cmd.Context(), workingDir, collectFlags(cmd))
}

// collectFlags returns only the flags given on the command line
func collectFlags(cmd *cobra.Command) map[string]interface{} {
	flags := make(map[string]interface{})
	set := cmd.Flags()

	if set.Changed("port") {
		flags["port"], _ = set.GetInt("port")
	}
	if set.Changed("host") {
		flags["host"], _ = set.GetString("host")
	}
	for _, name := range []string{"no-browser", "watch", "symmetric", "verbose"} {
		if set.Lookup(name) != nil && set.Changed(name) {
			flags[name], _ = set.GetBool(name)
		}
	}

	return flags
}

// serve runs the server until ctx is cancelled, then shuts it down
func (a *app) serve(ctx context.Context, opts serveOptions) error {
	defer func() { _ = a.logger.Sync() }()

	pages, err := renderer.NewTemplateRenderer(a.config.Carousel)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	monitor := monitoring.NewMonitor(ports.NewRealTimeProvider(), monitoring.DefaultSampleInterval)
	monitor.Start(ctx)
	defer monitor.Stop()

	server := httpadapter.NewServer(a.gallery, pages, a.config, a.logger.Named("http"))
	server.SetMetrics(monitor)
	if opts.assets != nil {
		server.SetAssets(opts.assets)
	}

	if err := server.Start(ctx, a.config.Server.Port, a.config.Server.Host); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	url := pageURL(server.Addr())
	a.logger.Success("Server running at: %s", url)

	if opts.watchPath != "" && a.config.Watcher.Enabled {
		fileWatcher := watcher.NewPollingWatcher(
			a.config.Watcher.GetInterval(),
			a.config.Watcher.GetDebounce(),
			a.logger.Named("watcher").Sugar(),
		)
		reload := services.NewLiveReloadService(fileWatcher, server, a.gallery, a.logger.Named("reload").Sugar())
		if err := reload.Start(ctx, opts.watchPath); err != nil {
			a.stopServer(server)
			return fmt.Errorf("starting live reload: %w", err)
		}
		defer func() {
			if err := reload.Stop(); err != nil {
				a.logger.Warn("Error stopping live reload: %v", err)
			}
		}()
		a.logger.Info("Watching %s for changes", opts.watchPath)
	}

	launcher := browser.NewLauncher(a.config.Browser.Browser, a.logger.Named("browser").Sugar())
	if err := launcher.Launch(url, !a.config.Browser.AutoOpen); err != nil {
		a.logger.Warn("Failed to open browser: %v", err)
	}

	if opts.onReady != nil {
		opts.onReady(url)
	}

	<-ctx.Done()
	a.logger.Info("Shutting down server...")
	a.stopServer(server)

	return nil
}

func (a *app) stopServer(server *httpadapter.Server) {
	// ctx is already done here; Stop applies the configured timeout
	if err := server.Stop(context.Background()); err != nil {
		a.logger.Error("Error during shutdown: %v", err)
	}
}

// pageURL turns a bound address into a URL a browser can open
func pageURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if ip := net.ParseIP(host); ip != nil && ip.IsUnspecified() {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port)
}
