// Package config provides configuration management for the cellar installer.
// It handles loading, validating and writing the YAML configuration that
// describes the client application to install and the local directory layout.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	pkgerrors "github.com/glorpus-work/cellar/pkg/errors"
	"github.com/glorpus-work/cellar/pkg/fsutil"
	"github.com/glorpus-work/cellar/pkg/model"
)

// Config represents the application configuration.
type Config struct {
	App      AppConfig `yaml:"app"`
	Settings Settings  `yaml:"settings"`
}

// AppConfig describes the client application being installed.
type AppConfig struct {
	// Name is the human-readable application name, also used to derive the
	// container name.
	Name string `yaml:"name"`

	// InstallerURL points at the original installer executable, used for the
	// fallback strategy and for direct extraction when no manifest packages
	// are available.
	InstallerURL string `yaml:"installer_url"`

	// InstallerArgs are passed to the installer when it runs through the
	// emulator (typically silent-install switches).
	InstallerArgs []string `yaml:"installer_args,omitempty"`

	// ManifestURL points at the package manifest text.
	ManifestURL string `yaml:"manifest_url,omitempty"`

	// PackageBaseURL is the base URL packages are fetched from, as
	// base + "/" + remote filename.
	PackageBaseURL string `yaml:"package_base_url,omitempty"`

	// Packages are the manifest package names of interest.
	Packages []string `yaml:"packages,omitempty"`

	// TargetExecutable is the path of the main executable relative to the
	// install directory; its existence is the post-install success criterion.
	TargetExecutable string `yaml:"target_executable"`
}

// Settings represents general application settings.
type Settings struct {
	// ContainersDir is where the emulator backend keeps its containers.
	ContainersDir string `yaml:"containers_dir,omitempty"`

	// StateDir holds the container metadata and installation record stores.
	StateDir string `yaml:"state_dir,omitempty"`

	// TempDir is the scratch space for downloaded artifacts. It is removed
	// when a run completes or fails.
	TempDir string `yaml:"temp_dir,omitempty"`

	// HooksDir optionally holds pre-install/post-install Tengo scripts.
	HooksDir string `yaml:"hooks_dir,omitempty"`

	// Preset is the performance preset applied to newly created containers.
	Preset model.PerformancePreset `yaml:"preset,omitempty"`

	// MinBackendVersion optionally gates the emulator backend version.
	MinBackendVersion string `yaml:"min_backend_version,omitempty"`

	HTTPTimeout time.Duration `yaml:"http_timeout"`
	LogLevel    string        `yaml:"log_level"`
}

// Default configuration values.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests. Installer
	// payloads run to hundreds of megabytes, so this is generous.
	DefaultHTTPTimeout = 30 * time.Minute

	yamlIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	dataDir := defaultDataDir()
	return &Config{
		App: AppConfig{
			InstallerArgs: []string{"/S"},
		},
		Settings: Settings{
			ContainersDir: filepath.Join(dataDir, "containers"),
			StateDir:      filepath.Join(dataDir, "state"),
			TempDir:       filepath.Join(dataDir, "tmp"),
			Preset:        model.PresetBalanced,
			HTTPTimeout:   DefaultHTTPTimeout,
			LogLevel:      "info",
		},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "cellar")
	}
	return ".cellar"
}

// GetDefaultConfigPath returns the default config file location.
func GetDefaultConfigPath() string {
	return filepath.Join(defaultDataDir(), "config.yaml")
}

// LoadConfig reads and validates the configuration at path. A missing file
// yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, pkgerrors.Wrapf(err, "failed to read config file %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %v: %w", path, err, pkgerrors.ErrConfigParse)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := fsutil.EnsureFileDir(path); err != nil {
		return pkgerrors.Wrap(err, "failed to create config directory")
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, fsutil.FileModeDefault)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to create config file")
	}
	defer func() { _ = file.Close() }()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(yamlIndent)
	if err := encoder.Encode(c); err != nil {
		return pkgerrors.Wrap(err, "failed to encode config")
	}
	return encoder.Close()
}

// Validate checks the configuration for internally inconsistent values.
func (c *Config) Validate() error {
	if c.Settings.Preset != "" && !c.Settings.Preset.Valid() {
		return fmt.Errorf("unknown preset %q: %w", c.Settings.Preset, pkgerrors.ErrConfigValidation)
	}
	if len(c.App.Packages) > 0 && c.App.PackageBaseURL == "" {
		return fmt.Errorf("packages configured without package_base_url: %w", pkgerrors.ErrConfigValidation)
	}
	if c.Settings.HTTPTimeout < 0 {
		return fmt.Errorf("http_timeout must not be negative: %w", pkgerrors.ErrConfigValidation)
	}
	return nil
}
