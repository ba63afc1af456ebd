package builders

import (
	"github.com/fredcamaral/stackslider/internal/domain/entities"
)

// ConfigBuilder helps build Config entities for testing. The defaults bind
// to an ephemeral loopback port and never open a browser.
type ConfigBuilder struct {
	config entities.Config
}

// NewConfigBuilder creates a new config builder
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{
		config: entities.Config{
			Server: entities.ServerConfig{
				Host:            "127.0.0.1",
				Environment:     "development",
				ShutdownTimeout: 1,
			},
			Watcher:  entities.WatcherConfig{IntervalMs: 100},
			Carousel: entities.DefaultCarouselConfig(),
			Logging:  entities.LoggingConfig{Level: string(entities.LogLevelDebug)},
		},
	}
}

// WithPort sets the server port
func (b *ConfigBuilder) WithPort(port int) *ConfigBuilder {
	b.config.Server.Port = port
	return b
}

// WithEnvironment sets the server environment
func (b *ConfigBuilder) WithEnvironment(env string) *ConfigBuilder {
	b.config.Server.Environment = env
	return b
}

// WithWatcher enables the watcher with the given timings in milliseconds
func (b *ConfigBuilder) WithWatcher(intervalMs, debounceMs int) *ConfigBuilder {
	b.config.Watcher = entities.WatcherConfig{Enabled: true, IntervalMs: intervalMs, DebounceMs: debounceMs}
	return b
}

// WithFastAnimation ticks the carousel every millisecond
func (b *ConfigBuilder) WithFastAnimation() *ConfigBuilder {
	b.config.Carousel.StepIntervalMs = 1
	return b
}

// WithSymmetric allows dragging up as well as down
func (b *ConfigBuilder) WithSymmetric() *ConfigBuilder {
	b.config.Carousel.Symmetric = true
	return b
}

// Build creates the final Config entity
func (b *ConfigBuilder) Build() *entities.Config {
	config := b.config
	config.Server.CORSOrigins = append([]string(nil), b.config.Server.CORSOrigins...)
	return &config
}
