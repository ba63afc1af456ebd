package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
)

// EnvPrefix prefixes every environment variable the configuration reads
const EnvPrefix = "STACKSLIDER_"

// GetDefaultConfig returns the built-in configuration
func GetDefaultConfig() *entities.Config {
	return &entities.Config{
		Server: entities.ServerConfig{
			Host:            "localhost",
			Port:            3000,
			ReadTimeout:     30,
			WriteTimeout:    30,
			ShutdownTimeout: 5,
			Environment:     "development",
			CORSOrigins: []string{
				"http://localhost:3000",
				"http://127.0.0.1:3000",
				"http://localhost:8080",
				"http://127.0.0.1:8080",
			},
		},
		Browser: entities.BrowserConfig{
			AutoOpen: true,
			Browser:  "default",
		},
		Watcher: entities.WatcherConfig{
			Enabled:    false,
			IntervalMs: 200,
			DebounceMs: 500,
		},
		Carousel: entities.DefaultCarouselConfig(),
		Logging: entities.LoggingConfig{
			Level: string(entities.LogLevelInfo),
		},
	}
}

func env(key string) string {
	return os.Getenv(EnvPrefix + key)
}

func envString(key string, target *string) {
	if value := env(key); value != "" {
		*target = value
	}
}

func envInt(key string, target *int, valid func(int) bool) {
	if value := env(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil && valid(n) {
			*target = n
		}
	}
}

func envFloat(key string, target *float64, valid func(float64) bool) {
	if value := env(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil && valid(f) {
			*target = f
		}
	}
}

func envBool(key string, target *bool) {
	if value := env(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			*target = b
		}
	}
}

// envSlice splits a comma separated variable, dropping empty parts
func envSlice(key string, target *[]string) {
	value := env(key)
	if value == "" {
		return
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) > 0 {
		*target = result
	}
}

func positive(n int) bool    { return n > 0 }
func nonNegative(n int) bool { return n >= 0 }

func positiveFloat(f float64) bool    { return f > 0 }
func nonNegativeFloat(f float64) bool { return f >= 0 }
