package modhost

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/golobby/cast"
	"gopkg.in/yaml.v3"
)

// HostConfig carries the host-side settings of the module system.
type HostConfig struct {
	// PackagesDir is scanned for module archives during discovery.
	PackagesDir string `yaml:"packagesDir" toml:"packagesDir"`

	// DataDir is the root under which each module gets a private data
	// directory named after it.
	DataDir string `yaml:"dataDir" toml:"dataDir"`

	// HostVersion is the API version modules compare their minAPIVersion
	// against.
	HostVersion string `yaml:"hostVersion" toml:"hostVersion"`

	// AdminEnabled turns the HTTP status surface on.
	AdminEnabled bool `yaml:"adminEnabled" toml:"adminEnabled"`

	// AdminAddr is the listen address of the status surface.
	AdminAddr string `yaml:"adminAddr" toml:"adminAddr"`

	// WatchPackages enables the fsnotify watcher that reports packages
	// arriving after discovery. Late arrivals are only reported; there is
	// no hot reload.
	WatchPackages bool `yaml:"watchPackages" toml:"watchPackages"`
}

// DefaultHostConfig returns the defaults used when no config file exists.
func DefaultHostConfig() *HostConfig {
	return &HostConfig{
		PackagesDir:   "modules",
		DataDir:       "data",
		HostVersion:   "1.0.0",
		AdminEnabled:  false,
		AdminAddr:     ":8590",
		WatchPackages: false,
	}
}

// LoadHostConfig reads the config file at path (.yaml/.yml or .toml, decided
// by extension) over the defaults, then applies MODHOST_* environment
// overrides. An empty path skips the file and still applies overrides.
func LoadHostConfig(path string) (*HostConfig, error) {
	cfg := DefaultHostConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrConfigUnreadable, path, err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case ".toml":
			if err := toml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		default:
			return nil, fmt.Errorf("%w: %s", ErrConfigUnsupportedFormat, path)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envOverrides maps environment variables to HostConfig fields.
var envOverrides = map[string]string{
	"MODHOST_PACKAGES_DIR":   "PackagesDir",
	"MODHOST_DATA_DIR":       "DataDir",
	"MODHOST_HOST_VERSION":   "HostVersion",
	"MODHOST_ADMIN_ENABLED":  "AdminEnabled",
	"MODHOST_ADMIN_ADDR":     "AdminAddr",
	"MODHOST_WATCH_PACKAGES": "WatchPackages",
}

// applyEnvOverrides sets config fields from the environment, coercing the
// string values to each field's type.
func applyEnvOverrides(cfg *HostConfig) error {
	value := reflect.ValueOf(cfg).Elem()
	for env, fieldName := range envOverrides {
		raw, ok := os.LookupEnv(env)
		if !ok {
			continue
		}
		field := value.FieldByName(fieldName)
		converted, err := cast.FromType(raw, field.Type())
		if err != nil {
			return fmt.Errorf("environment override %s=%q: %w", env, raw, err)
		}
		field.Set(reflect.ValueOf(converted))
	}
	return nil
}
