// Package config loads, validates and persists the client configuration:
// where the release catalog lives, where the service is installed and how
// upgrade attempts behave. Configuration is stored as a YAML file and every
// field has a usable default so a missing file is not an error.
package config

import (
	"bytes"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/fsutil"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/platform"
)

// Config represents the client configuration.
type Config struct {
	// Server describes the release catalog endpoint.
	Server ServerConfig `yaml:"server"`

	// Install describes the managed installation.
	Install InstallConfig `yaml:"install"`

	// Settings holds general client behavior.
	Settings Settings `yaml:"settings"`
}

// ServerConfig describes how to reach the release catalog.
type ServerConfig struct {
	// ManifestURL is the location of the release manifest (http, https or
	// file URL).
	ManifestURL string `yaml:"manifest_url"`

	// AuthToken is sent as a bearer token with manifest and package
	// requests when set.
	AuthToken string `yaml:"auth_token,omitempty"`
}

// InstallConfig describes the managed installation.
type InstallConfig struct {
	// Dir is the absolute path of the installation root.
	Dir string `yaml:"dir"`

	// Descriptor is the file whose presence marks a deployment, relative
	// to Dir. Defaults to the compose file.
	Descriptor string `yaml:"descriptor,omitempty"`
}

// Settings represents general client settings.
type Settings struct {
	// WorkDir overrides the work area root. Empty means the user cache
	// directory.
	WorkDir string `yaml:"work_dir,omitempty"`

	// Network settings.
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	DownloadTimeout time.Duration `yaml:"download_timeout"`

	// SigningKeyPath points at the PEM-encoded public key used to verify
	// package signatures.
	SigningKeyPath string `yaml:"signing_key,omitempty"`

	// Arch overrides the detected CPU architecture when selecting
	// packages from the catalog.
	Arch string `yaml:"arch,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// DisableBackup turns off pre-apply backups. Without a backup a
	// failed apply cannot be rolled back.
	DisableBackup bool `yaml:"disable_backup,omitempty"`

	// ForceFull makes every upgrade a full upgrade regardless of patch
	// availability.
	ForceFull bool `yaml:"force_full,omitempty"`
}

// Default configuration values.
const (
	// DefaultHTTPTimeout is the default timeout for manifest requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultDownloadTimeout is the default budget for one package
	// download.
	DefaultDownloadTimeout = 15 * time.Minute

	// yamlIndent is the number of spaces used for YAML indentation.
	yamlIndent = 2
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Settings: Settings{
			HTTPTimeout:     DefaultHTTPTimeout,
			DownloadTimeout: DefaultDownloadTimeout,
			LogLevel:        "info",
		},
	}
}

// BackupEnabled reports whether upgrade attempts capture backups.
func (c *Config) BackupEnabled() bool {
	return !c.Settings.DisableBackup
}

// LoadConfig loads configuration from a file. A missing file yields the
// defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	file, err := os.Open(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrapf(err, "failed to open config file: %s", path)
	}
	defer func() { _ = file.Close() }()

	return LoadConfigFromReader(file)
}

// LoadConfigFromReader loads configuration from an io.Reader.
func LoadConfigFromReader(reader io.Reader) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config data")
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrConfigParse, err.Error())
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveConfig saves configuration to a file, replacing it atomically.
func (c *Config) SaveConfig(path string) error {
	if path == "" {
		return errors.ErrEmptyConfigPath
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidConfigPath, err.Error())
	}

	data, err := c.ToYAML()
	if err != nil {
		return err
	}

	if err := fsutil.EnsureFileDir(absPath); err != nil {
		return errors.Wrap(errors.ErrConfigDirectory, err.Error())
	}
	if err := fsutil.AtomicWriteFile(absPath, data, fsutil.FileModeDefault); err != nil {
		return errors.Wrap(errors.ErrConfigFileCreate, err.Error())
	}
	return nil
}

// ToYAML converts the config to YAML bytes.
func (c *Config) ToYAML() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(yamlIndent)
	if err := encoder.Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	if err := encoder.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrConfigEncode, err.Error())
	}
	return buf.Bytes(), nil
}

// Validate checks if the configuration is valid. Empty fields are allowed;
// the commands that need them report their absence with better context.
func (c *Config) Validate() error {
	if c == nil {
		return errors.ErrConfigValidation
	}
	if err := validateServer(c.Server); err != nil {
		return err
	}
	if err := validateInstall(c.Install); err != nil {
		return err
	}
	return validateSettings(c.Settings)
}

func validateServer(s ServerConfig) error {
	if s.ManifestURL == "" {
		return nil
	}
	parsed, err := url.Parse(s.ManifestURL)
	if err != nil {
		return errors.Wrapf(errors.ErrConfigValidation, "server.manifest_url %q is not a URL", s.ManifestURL)
	}
	switch parsed.Scheme {
	case "http", "https":
		if parsed.Host == "" {
			return errors.Wrapf(errors.ErrConfigValidation, "server.manifest_url %q has no host", s.ManifestURL)
		}
	case "file":
	default:
		return errors.Wrapf(errors.ErrConfigValidation, "server.manifest_url scheme %q is not supported", parsed.Scheme)
	}
	return nil
}

func validateInstall(i InstallConfig) error {
	if i.Dir != "" && !filepath.IsAbs(i.Dir) {
		return errors.Wrapf(errors.ErrConfigValidation, "install.dir %q must be an absolute path", i.Dir)
	}
	if filepath.IsAbs(i.Descriptor) {
		return errors.Wrapf(errors.ErrConfigValidation, "install.descriptor %q must be relative to install.dir", i.Descriptor)
	}
	return nil
}

func validateSettings(s Settings) error {
	if s.HTTPTimeout < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "settings.http_timeout cannot be negative")
	}
	if s.DownloadTimeout < 0 {
		return errors.Wrap(errors.ErrConfigValidation, "settings.download_timeout cannot be negative")
	}
	if s.WorkDir != "" && !filepath.IsAbs(s.WorkDir) {
		return errors.Wrapf(errors.ErrConfigValidation, "settings.work_dir %q must be an absolute path", s.WorkDir)
	}
	if s.Arch != "" {
		if _, err := platform.Normalize(s.Arch); err != nil {
			return errors.Wrapf(errors.ErrConfigValidation, "settings.arch %q is not supported", s.Arch)
		}
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[s.LogLevel] {
		return errors.Wrapf(errors.ErrConfigValidation, "settings.log_level %q must be one of: debug, info, warn, error", s.LogLevel)
	}
	return nil
}

// applyDefaults fills in missing values with defaults.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Settings.HTTPTimeout == 0 {
		c.Settings.HTTPTimeout = defaults.Settings.HTTPTimeout
	}
	if c.Settings.DownloadTimeout == 0 {
		c.Settings.DownloadTimeout = defaults.Settings.DownloadTimeout
	}
	if c.Settings.LogLevel == "" {
		c.Settings.LogLevel = defaults.Settings.LogLevel
	}
}
