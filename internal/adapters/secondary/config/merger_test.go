package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
)

func TestConfigMerger_Merge(t *testing.T) {
	merger := NewConfigMerger()

	t.Run("merge with no configs returns defaults", func(t *testing.T) {
		result := merger.Merge()
		assert.Equal(t, "localhost", result.Server.Host)
		assert.Equal(t, 3000, result.Server.Port)
		assert.Equal(t, entities.DefaultCarouselConfig(), result.Carousel)
		assert.NoError(t, result.Validate())
	})

	t.Run("later layers win", func(t *testing.T) {
		base := GetDefaultConfig()
		override := &entities.Config{
			Server:   entities.ServerConfig{Host: "0.0.0.0"},
			Carousel: entities.CarouselConfig{SlideTrigger: 120},
			Logging:  entities.LoggingConfig{Level: "debug"},
		}

		result := merger.Merge(base, override)
		assert.Equal(t, "0.0.0.0", result.Server.Host)
		assert.Equal(t, 3000, result.Server.Port)
		assert.Equal(t, 120.0, result.Carousel.SlideTrigger)
		assert.Equal(t, 0.85, result.Carousel.ScaleFactor)
		assert.Equal(t, "debug", result.Logging.Level)
	})

	t.Run("booleans only merge when the file set them", func(t *testing.T) {
		base := GetDefaultConfig()
		local := &entities.Config{
			Watcher: entities.WatcherConfig{Enabled: true},
			Defined: map[string]bool{"watcher": true, "watcher.enabled": true},
		}

		result := merger.Merge(base, local)
		assert.True(t, result.Watcher.Enabled)
		assert.True(t, result.Browser.AutoOpen, "unset auto_open keeps the default")
		assert.Nil(t, result.Defined)
	})

	t.Run("an explicit false overrides", func(t *testing.T) {
		global := &entities.Config{
			Browser: entities.BrowserConfig{AutoOpen: false},
			Defined: map[string]bool{"browser.auto_open": true},
		}

		result := merger.Merge(GetDefaultConfig(), global)
		assert.False(t, result.Browser.AutoOpen)
	})

	t.Run("an explicit zero offset unit overrides", func(t *testing.T) {
		local := &entities.Config{
			Carousel: entities.CarouselConfig{OffsetUnit: 0},
			Defined:  map[string]bool{"carousel": true, "carousel.offset_unit": true},
		}

		result := merger.Merge(GetDefaultConfig(), local)
		assert.Equal(t, 0.0, result.Carousel.OffsetUnit)
		assert.Equal(t, 0.85, result.Carousel.ScaleFactor)
		assert.NoError(t, result.Validate())
	})

	t.Run("an unset offset unit keeps the default", func(t *testing.T) {
		local := &entities.Config{
			Carousel: entities.CarouselConfig{SlideTrigger: 100},
			Defined:  map[string]bool{"carousel": true, "carousel.slide_trigger": true},
		}

		result := merger.Merge(GetDefaultConfig(), local)
		assert.Equal(t, 40.0, result.Carousel.OffsetUnit)
		assert.Equal(t, 100.0, result.Carousel.SlideTrigger)
	})

	t.Run("nil layers are skipped", func(t *testing.T) {
		result := merger.Merge(GetDefaultConfig(), nil)
		assert.Equal(t, 3000, result.Server.Port)
	})

	t.Run("does not alias the inputs", func(t *testing.T) {
		base := GetDefaultConfig()
		result := merger.Merge(base)
		result.Server.CORSOrigins[0] = "http://changed"
		assert.Equal(t, "http://localhost:3000", base.Server.CORSOrigins[0])
	})
}

func TestConfigMerger_ApplyFlags(t *testing.T) {
	merger := NewConfigMerger()

	t.Run("apply CLI flag overrides", func(t *testing.T) {
		flags := map[string]interface{}{
			"port":       8080,
			"host":       "0.0.0.0",
			"no-browser": true,
			"watch":      true,
			"symmetric":  true,
			"verbose":    true,
		}

		result := merger.ApplyFlags(GetDefaultConfig(), flags)
		assert.Equal(t, "0.0.0.0", result.Server.Host)
		assert.Equal(t, 8080, result.Server.Port)
		assert.False(t, result.Browser.AutoOpen)
		assert.True(t, result.Watcher.Enabled)
		assert.True(t, result.Carousel.Symmetric)
		assert.Equal(t, "debug", result.Logging.Level)
	})

	t.Run("ignore zero and mistyped values", func(t *testing.T) {
		flags := map[string]interface{}{
			"port":       "not-a-number",
			"host":       "",
			"no-browser": false,
		}

		result := merger.ApplyFlags(GetDefaultConfig(), flags)
		assert.Equal(t, "localhost", result.Server.Host)
		assert.Equal(t, 3000, result.Server.Port)
		assert.True(t, result.Browser.AutoOpen)
	})

	t.Run("nil flags", func(t *testing.T) {
		result := merger.ApplyFlags(GetDefaultConfig(), nil)
		assert.Equal(t, GetDefaultConfig(), result)
	})
}

func TestConfigMerger_ApplyEnvVars(t *testing.T) {
	merger := NewConfigMerger()

	t.Run("apply STACKSLIDER variables", func(t *testing.T) {
		t.Setenv("STACKSLIDER_HOST", "env-host")
		t.Setenv("STACKSLIDER_PORT", "9000")
		t.Setenv("STACKSLIDER_NO_BROWSER", "true")
		t.Setenv("STACKSLIDER_WATCH_INTERVAL", "300")
		t.Setenv("STACKSLIDER_CORS_ORIGINS", "http://a.test, ,http://b.test")
		t.Setenv("STACKSLIDER_SLIDE_TRIGGER", "100")
		t.Setenv("STACKSLIDER_SYMMETRIC", "1")
		t.Setenv("STACKSLIDER_LOG_JSON", "true")

		result := merger.ApplyEnvVars(GetDefaultConfig())
		assert.Equal(t, "env-host", result.Server.Host)
		assert.Equal(t, 9000, result.Server.Port)
		assert.False(t, result.Browser.AutoOpen)
		assert.Equal(t, 300, result.Watcher.IntervalMs)
		assert.Equal(t, []string{"http://a.test", "http://b.test"}, result.Server.CORSOrigins)
		assert.Equal(t, 100.0, result.Carousel.SlideTrigger)
		assert.True(t, result.Carousel.Symmetric)
		assert.True(t, result.Logging.JSONFormat)
	})

	t.Run("zero offset unit is accepted", func(t *testing.T) {
		t.Setenv("STACKSLIDER_OFFSET_UNIT", "0")
		t.Setenv("STACKSLIDER_STEP", "0")

		result := merger.ApplyEnvVars(GetDefaultConfig())
		assert.Equal(t, 0.0, result.Carousel.OffsetUnit)
		assert.Equal(t, entities.DefaultCarouselConfig().Step, result.Carousel.Step)
	})

	t.Run("invalid values are ignored", func(t *testing.T) {
		t.Setenv("STACKSLIDER_PORT", "-5")
		t.Setenv("STACKSLIDER_SCALE_FACTOR", "abc")
		t.Setenv("STACKSLIDER_NO_BROWSER", "maybe")

		result := merger.ApplyEnvVars(GetDefaultConfig())
		assert.Equal(t, 3000, result.Server.Port)
		assert.Equal(t, 0.85, result.Carousel.ScaleFactor)
		assert.True(t, result.Browser.AutoOpen)
	})
}

func TestDeepCopy(t *testing.T) {
	assert.Nil(t, deepCopy(nil))

	src := GetDefaultConfig()
	src.Defined = map[string]bool{"server.port": true}

	dst := deepCopy(src)
	require.Equal(t, src, dst)

	dst.Defined["server.host"] = true
	dst.Server.CORSOrigins = append(dst.Server.CORSOrigins[:1], "http://other")
	assert.False(t, src.Defined["server.host"])
	assert.Equal(t, "http://127.0.0.1:3000", src.Server.CORSOrigins[1])
}
