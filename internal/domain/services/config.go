package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
	"github.com/fredcamaral/stackslider/internal/domain/ports"
)

// ConfigService resolves the effective configuration from its layers:
// defaults, the global file, the local file, STACKSLIDER_* variables and
// command-line flags, each overriding the one before.
type ConfigService struct {
	loader ports.ConfigLoader
	merger ports.ConfigMerger
}

// NewConfigService creates a new configuration service
func NewConfigService(loader ports.ConfigLoader, merger ports.ConfigMerger) *ConfigService {
	return &ConfigService{
		loader: loader,
		merger: merger,
	}
}

// LoadConfig loads and validates the effective configuration for workingDir
func (s *ConfigService) LoadConfig(ctx context.Context, workingDir string, flags map[string]interface{}) (*entities.Config, error) {
	layers := []*entities.Config{s.GetDefaultConfig()}

	global, err := s.loader.LoadGlobal(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	local, err := s.loader.LoadLocal(ctx, workingDir)
	if err != nil {
		return nil, fmt.Errorf("loading local config: %w", err)
	}

	for _, layer := range []*entities.Config{global, local} {
		if layer != nil {
			layers = append(layers, layer)
		}
	}

	config := s.merger.Merge(layers...)
	config = s.merger.ApplyEnvVars(config)
	config = s.merger.ApplyFlags(config, flags)

	if err := s.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("final config validation: %w", err)
	}

	return config, nil
}

// GetDefaultConfig returns the built-in defaults. Merging no layers yields them.
func (s *ConfigService) GetDefaultConfig() *entities.Config {
	return s.merger.Merge()
}

// ValidateConfig validates a configuration
func (s *ConfigService) ValidateConfig(config *entities.Config) error {
	if config == nil {
		return errors.New("config cannot be nil")
	}

	return config.Validate()
}

// CreateGlobalConfig writes the default global configuration file
func (s *ConfigService) CreateGlobalConfig(ctx context.Context) error {
	return s.loader.CreateDefaults(ctx, s.loader.GetGlobalPath())
}

var _ ports.ConfigService = (*ConfigService)(nil)
