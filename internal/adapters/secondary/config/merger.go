package config

import (
	"github.com/fredcamaral/stackslider/internal/domain/entities"
	"github.com/fredcamaral/stackslider/internal/domain/ports"
)

// ConfigMerger implements the ConfigMerger interface
type ConfigMerger struct{}

// NewConfigMerger creates a new configuration merger
func NewConfigMerger() *ConfigMerger {
	return &ConfigMerger{}
}

// Merge merges multiple configurations with later configs taking precedence.
// With no arguments it returns the defaults.
func (m *ConfigMerger) Merge(configs ...*entities.Config) *entities.Config {
	if len(configs) == 0 {
		return GetDefaultConfig()
	}

	result := deepCopy(configs[0])
	if result == nil {
		result = GetDefaultConfig()
	}
	result.Defined = nil

	for _, source := range configs[1:] {
		if source != nil {
			m.mergeInto(result, source)
		}
	}

	return result
}

// ApplyFlags applies CLI flag overrides to a configuration
func (m *ConfigMerger) ApplyFlags(config *entities.Config, flags map[string]interface{}) *entities.Config {
	result := deepCopy(config)

	if port, ok := flags["port"].(int); ok && port > 0 {
		result.Server.Port = port
	}

	if host, ok := flags["host"].(string); ok && host != "" {
		result.Server.Host = host
	}

	if noBrowser, ok := flags["no-browser"].(bool); ok && noBrowser {
		result.Browser.AutoOpen = false
	}

	if watch, ok := flags["watch"].(bool); ok && watch {
		result.Watcher.Enabled = true
	}

	if symmetric, ok := flags["symmetric"].(bool); ok && symmetric {
		result.Carousel.Symmetric = true
	}

	if verbose, ok := flags["verbose"].(bool); ok && verbose {
		result.Logging.Verbose = true
		result.Logging.Level = string(entities.LogLevelDebug)
	}

	return result
}

// ApplyEnvVars applies STACKSLIDER_* environment variable overrides
func (m *ConfigMerger) ApplyEnvVars(config *entities.Config) *entities.Config {
	result := deepCopy(config)

	envString("HOST", &result.Server.Host)
	envInt("PORT", &result.Server.Port, positive)
	envInt("READ_TIMEOUT", &result.Server.ReadTimeout, nonNegative)
	envInt("WRITE_TIMEOUT", &result.Server.WriteTimeout, nonNegative)
	envInt("SHUTDOWN_TIMEOUT", &result.Server.ShutdownTimeout, nonNegative)
	envString("ENVIRONMENT", &result.Server.Environment)
	envSlice("CORS_ORIGINS", &result.Server.CORSOrigins)

	envString("BROWSER", &result.Browser.Browser)
	noBrowser := !result.Browser.AutoOpen
	envBool("NO_BROWSER", &noBrowser)
	result.Browser.AutoOpen = !noBrowser

	envBool("WATCH", &result.Watcher.Enabled)
	envInt("WATCH_INTERVAL", &result.Watcher.IntervalMs, positive)
	envInt("WATCH_DEBOUNCE", &result.Watcher.DebounceMs, nonNegative)

	envFloat("SCALE_FACTOR", &result.Carousel.ScaleFactor, positiveFloat)
	envFloat("OFFSET_UNIT", &result.Carousel.OffsetUnit, nonNegativeFloat)
	envFloat("SLIDE_TRIGGER", &result.Carousel.SlideTrigger, positiveFloat)
	envInt("STEP_INTERVAL", &result.Carousel.StepIntervalMs, positive)
	envFloat("STEP", &result.Carousel.Step, positiveFloat)
	envBool("SYMMETRIC", &result.Carousel.Symmetric)

	envString("LOG_LEVEL", &result.Logging.Level)
	envBool("LOG_VERBOSE", &result.Logging.Verbose)
	envBool("LOG_JSON", &result.Logging.JSONFormat)
	envString("LOG_FILE", &result.Logging.File)

	return result
}

// mergeInto merges source into target. Zero numbers and empty strings mean
// unset; booleans are taken only when the source file defined them.
func (m *ConfigMerger) mergeInto(target, source *entities.Config) {
	// Server
	mergeString(&target.Server.Host, source.Server.Host)
	mergeInt(&target.Server.Port, source.Server.Port)
	mergeInt(&target.Server.ReadTimeout, source.Server.ReadTimeout)
	mergeInt(&target.Server.WriteTimeout, source.Server.WriteTimeout)
	mergeInt(&target.Server.ShutdownTimeout, source.Server.ShutdownTimeout)
	mergeString(&target.Server.Environment, source.Server.Environment)
	if len(source.Server.CORSOrigins) > 0 {
		target.Server.CORSOrigins = append([]string(nil), source.Server.CORSOrigins...)
	}

	// Browser
	mergeString(&target.Browser.Browser, source.Browser.Browser)
	if source.IsSet("browser.auto_open") {
		target.Browser.AutoOpen = source.Browser.AutoOpen
	}

	// Watcher
	if source.IsSet("watcher.enabled") {
		target.Watcher.Enabled = source.Watcher.Enabled
	}
	mergeInt(&target.Watcher.IntervalMs, source.Watcher.IntervalMs)
	mergeInt(&target.Watcher.DebounceMs, source.Watcher.DebounceMs)

	// Carousel
	mergeFloat(&target.Carousel.ScaleFactor, source.Carousel.ScaleFactor)
	// zero is a valid offset unit (a flat stack), so a file's explicit value wins
	if source.Defined != nil && source.IsSet("carousel.offset_unit") {
		target.Carousel.OffsetUnit = source.Carousel.OffsetUnit
	} else {
		mergeFloat(&target.Carousel.OffsetUnit, source.Carousel.OffsetUnit)
	}
	mergeFloat(&target.Carousel.SlideTrigger, source.Carousel.SlideTrigger)
	mergeInt(&target.Carousel.StepIntervalMs, source.Carousel.StepIntervalMs)
	mergeFloat(&target.Carousel.Step, source.Carousel.Step)
	if source.IsSet("carousel.symmetric") {
		target.Carousel.Symmetric = source.Carousel.Symmetric
	}

	// Logging
	mergeString(&target.Logging.Level, source.Logging.Level)
	mergeString(&target.Logging.File, source.Logging.File)
	if source.IsSet("logging.verbose") {
		target.Logging.Verbose = source.Logging.Verbose
	}
	if source.IsSet("logging.json_format") {
		target.Logging.JSONFormat = source.Logging.JSONFormat
	}
}

func mergeString(target *string, value string) {
	if value != "" {
		*target = value
	}
}

func mergeInt(target *int, value int) {
	if value != 0 {
		*target = value
	}
}

func mergeFloat(target *float64, value float64) {
	if value != 0 {
		*target = value
	}
}

// deepCopy creates a deep copy of a configuration
func deepCopy(src *entities.Config) *entities.Config {
	if src == nil {
		return nil
	}

	dst := *src
	if src.Server.CORSOrigins != nil {
		dst.Server.CORSOrigins = append([]string(nil), src.Server.CORSOrigins...)
	}
	if src.Defined != nil {
		dst.Defined = make(map[string]bool, len(src.Defined))
		for k, v := range src.Defined {
			dst.Defined[k] = v
		}
	}

	return &dst
}

var _ ports.ConfigMerger = (*ConfigMerger)(nil)
