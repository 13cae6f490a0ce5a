package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cjeanneret/RadFOV/internal/logic/geometry"
)

// MaxConfigFileBytes caps the size of a config file read by Load.
const MaxConfigFileBytes = 64 * 1024

// DefaultPath is the config file used when no --config flag is given.
var DefaultPath = filepath.Join("configs", "default.yaml")

// DefaultDicomPath is the image read when neither the command line nor the
// config file names one.
const DefaultDicomPath = "image.dcm"

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DicomPath  string `yaml:"dicom_path"`  // image read when no path argument is given
	DebugLevel int    `yaml:"debug_level"` // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
}

// GeometryConfig holds the assumptions of the geometry derivation.
type GeometryConfig struct {
	// PixelSpacingOrder is "row_column" (default) or "column_row".
	PixelSpacingOrder string `yaml:"pixel_spacing_order"`
}

// Config aggregates all application configuration.
type Config struct {
	Defaults DefaultsConfig `yaml:"defaults"`
	Geometry GeometryConfig `yaml:"geometry"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// ValidateConfigPath checks that path names a .yaml file directly inside a
// configs/ directory and does not climb out of it with "..".
func ValidateConfigPath(path string) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part == ".." {
			return fmt.Errorf("config path %q must not contain '..'", path)
		}
	}
	clean := filepath.Clean(path)
	if filepath.Ext(clean) != ".yaml" {
		return fmt.Errorf("config path %q must have a .yaml extension", path)
	}
	if filepath.Base(filepath.Dir(clean)) != "configs" {
		return fmt.Errorf("config path %q must be inside a configs/ directory", path)
	}
	return nil
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	if err := ValidateConfigPath(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxConfigFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if len(data) > MaxConfigFileBytes {
		return nil, fmt.Errorf("config file %s exceeds %d bytes", path, MaxConfigFileBytes)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	// Basic validation
	if cfg.Defaults.DebugLevel < 0 || cfg.Defaults.DebugLevel > 4 {
		return nil, fmt.Errorf("debug_level must be between 0 and 4, got %d", cfg.Defaults.DebugLevel)
	}
	if _, err := geometry.ParseSpacingOrder(cfg.Geometry.PixelSpacingOrder); err != nil {
		return nil, fmt.Errorf("geometry.pixel_spacing_order: %w", err)
	}
	cfg.applyDefaults()

	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to Default when path is
// DefaultPath and that file does not exist. Any other missing file is an error.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) && filepath.Clean(path) == DefaultPath {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) applyDefaults() {
	if c.Defaults.DicomPath == "" {
		c.Defaults.DicomPath = DefaultDicomPath
	}
	if c.Geometry.PixelSpacingOrder == "" {
		c.Geometry.PixelSpacingOrder = geometry.RowColumn.String()
	}
}

// SpacingOrder returns the configured pixel spacing order.
// Load has already validated the value.
func (c *Config) SpacingOrder() geometry.SpacingOrder {
	order, err := geometry.ParseSpacingOrder(c.Geometry.PixelSpacingOrder)
	if err != nil {
		return geometry.RowColumn
	}
	return order
}
