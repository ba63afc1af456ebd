package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/fredcamaral/stackslider/internal/domain/entities"
	"github.com/fredcamaral/stackslider/internal/domain/ports"
)

// LocalFileName is the per-gallery configuration file
const LocalFileName = "stackslider.toml"

// TOMLLoader implements the ConfigLoader interface using TOML files
type TOMLLoader struct {
	globalPath string
	localName  string
}

// NewTOMLLoader creates a loader for ~/.config/stackslider/config.toml
func NewTOMLLoader() *TOMLLoader {
	homeDir, _ := os.UserHomeDir()
	return NewTOMLLoaderWithPath(filepath.Join(homeDir, ".config", "stackslider", "config.toml"))
}

// NewTOMLLoaderWithPath creates a loader with an explicit global file, as set by --config
func NewTOMLLoaderWithPath(globalPath string) *TOMLLoader {
	return &TOMLLoader{
		globalPath: globalPath,
		localName:  LocalFileName,
	}
}

// LoadGlobal loads the global configuration file, writing defaults on first run
func (l *TOMLLoader) LoadGlobal(ctx context.Context) (*entities.Config, error) {
	if _, err := os.Stat(l.globalPath); os.IsNotExist(err) {
		if err := l.CreateDefaults(ctx, l.globalPath); err != nil {
			return nil, fmt.Errorf("creating defaults: %w", err)
		}
	}

	return l.loadConfig(l.globalPath)
}

// LoadLocal loads stackslider.toml from dir. A missing file returns nil, nil.
func (l *TOMLLoader) LoadLocal(ctx context.Context, dir string) (*entities.Config, error) {
	localPath := l.GetLocalPath(dir)

	if _, err := os.Stat(localPath); os.IsNotExist(err) {
		return nil, nil
	}

	return l.loadConfig(localPath)
}

// CreateDefaults writes the default configuration to path
func (l *TOMLLoader) CreateDefaults(ctx context.Context, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	file, err := os.Create(path) // #nosec G304 - global config path
	if err != nil {
		return fmt.Errorf("creating config file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	encoder := toml.NewEncoder(file)
	encoder.Indent = "  "

	if err := encoder.Encode(GetDefaultConfig()); err != nil {
		return fmt.Errorf("encoding config to %s: %w", path, err)
	}

	return nil
}

// GetGlobalPath returns the path to the global configuration file
func (l *TOMLLoader) GetGlobalPath() string {
	return l.globalPath
}

// GetLocalPath returns the path to the local configuration file for a directory
func (l *TOMLLoader) GetLocalPath(dir string) string {
	return filepath.Join(dir, l.localName)
}

// loadConfig decodes a file and records which keys it defined. Sections it
// leaves out are not validated here; the merged result is.
func (l *TOMLLoader) loadConfig(path string) (*entities.Config, error) {
	var config entities.Config
	meta, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, fmt.Errorf("parsing TOML from %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key in %s: %s", path, undecoded[0])
	}

	config.Defined = make(map[string]bool)
	for _, key := range meta.Keys() {
		config.Defined[key.String()] = true
	}

	if err := validateDefined(&config); err != nil {
		return nil, fmt.Errorf("invalid config in %s: %w", path, err)
	}

	return &config, nil
}

// validateDefined checks the sections a file actually sets
func validateDefined(c *entities.Config) error {
	checks := []struct {
		section  string
		validate func() error
	}{
		{"server", c.Server.Validate},
		{"logging", c.Logging.Validate},
	}

	for _, check := range checks {
		if !c.Defined[check.section] {
			continue
		}
		if err := check.validate(); err != nil {
			return fmt.Errorf("%s config: %w", check.section, err)
		}
	}

	return nil
}

var _ ports.ConfigLoader = (*TOMLLoader)(nil)
