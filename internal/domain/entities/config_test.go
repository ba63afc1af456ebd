package entities

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "localhost",
			Port:            3000,
			ReadTimeout:     30,
			WriteTimeout:    30,
			ShutdownTimeout: 5,
		},
		Browser: BrowserConfig{
			AutoOpen: true,
			Browser:  "default",
		},
		Watcher: WatcherConfig{
			IntervalMs: 200,
			DebounceMs: 500,
		},
		Carousel: DefaultCarouselConfig(),
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("invalid server config", func(t *testing.T) {
		config := validConfig()
		config.Server.Port = -1

		err := config.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server config")
	})

	t.Run("invalid watcher config", func(t *testing.T) {
		config := validConfig()
		config.Watcher.IntervalMs = 10

		err := config.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "watcher config")
	})

	t.Run("invalid carousel config", func(t *testing.T) {
		config := validConfig()
		config.Carousel.ScaleFactor = 1.2

		err := config.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "carousel config")
	})

	t.Run("invalid logging config", func(t *testing.T) {
		config := validConfig()
		config.Logging.Level = "verbose"

		err := config.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "logging config")
	})
}

func TestServerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  ServerConfig
		wantErr string
	}{
		{name: "valid", config: ServerConfig{Host: "127.0.0.1", Port: 8080}},
		{name: "port too large", config: ServerConfig{Port: 70000}, wantErr: "port must be between"},
		{name: "negative read timeout", config: ServerConfig{ReadTimeout: -1}, wantErr: "read timeout"},
		{name: "negative write timeout", config: ServerConfig{WriteTimeout: -1}, wantErr: "write timeout"},
		{name: "negative shutdown timeout", config: ServerConfig{ShutdownTimeout: -1}, wantErr: "shutdown timeout"},
		{name: "wildcard origin", config: ServerConfig{CORSOrigins: []string{"*"}}},
		{name: "empty origin", config: ServerConfig{CORSOrigins: []string{""}}, wantErr: "cannot be empty"},
		{name: "origin without scheme", config: ServerConfig{CORSOrigins: []string{"example.com"}}, wantErr: "invalid CORS origin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestServerConfig_Durations(t *testing.T) {
	var zero ServerConfig
	assert.Equal(t, 30*time.Second, zero.GetReadTimeout())
	assert.Equal(t, 30*time.Second, zero.GetWriteTimeout())
	assert.Equal(t, 5*time.Second, zero.GetShutdownTimeout())
	assert.Len(t, zero.GetCORSOrigins(), 4)
	assert.True(t, zero.IsDevelopment())

	configured := ServerConfig{ReadTimeout: 3, WriteTimeout: 4, ShutdownTimeout: 2, Environment: "production"}
	assert.Equal(t, 3*time.Second, configured.GetReadTimeout())
	assert.Equal(t, 4*time.Second, configured.GetWriteTimeout())
	assert.Equal(t, 2*time.Second, configured.GetShutdownTimeout())
	assert.False(t, configured.IsDevelopment())
}

func TestWatcherConfig(t *testing.T) {
	assert.Error(t, WatcherConfig{IntervalMs: 20}.Validate())
	assert.Error(t, WatcherConfig{IntervalMs: 100, DebounceMs: -1}.Validate())
	assert.NoError(t, WatcherConfig{IntervalMs: 100}.Validate())

	var zero WatcherConfig
	assert.Equal(t, 200*time.Millisecond, zero.GetInterval())
	assert.Equal(t, 500*time.Millisecond, zero.GetDebounce())
}

func TestLoggingConfig_Validate(t *testing.T) {
	t.Run("levels", func(t *testing.T) {
		for _, level := range []string{"", "debug", "info", "warn", "error"} {
			assert.NoError(t, LoggingConfig{Level: level}.Validate(), level)
		}
		assert.Error(t, LoggingConfig{Level: "trace"}.Validate())
	})

	t.Run("relative file rejected", func(t *testing.T) {
		err := LoggingConfig{File: "logs/out.log"}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "absolute")
	})

	t.Run("missing directory rejected", func(t *testing.T) {
		err := LoggingConfig{File: filepath.Join(os.TempDir(), "does-not-exist-stackslider", "out.log")}.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("default level", func(t *testing.T) {
		assert.Equal(t, LogLevelInfo, LoggingConfig{}.GetLevel())
		assert.Equal(t, LogLevelDebug, LoggingConfig{Level: "debug"}.GetLevel())
	})
}
