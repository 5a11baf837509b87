package config

import (
	"strconv"
	"time"

	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/errors"
	"github.com/nuwax-ai/nuwax-cli-sub003/pkg/platform"
)

// Keys lists the configuration keys addressable by GetValue and SetValue,
// in display order.
func Keys() []string {
	return []string{
		"server.manifest_url",
		"server.auth_token",
		"install.dir",
		"install.descriptor",
		"settings.work_dir",
		"settings.http_timeout",
		"settings.download_timeout",
		"settings.signing_key",
		"settings.arch",
		"settings.log_level",
		"settings.disable_backup",
		"settings.force_full",
	}
}

// SetValue sets a configuration value by key. Values arrive as strings from
// the command line; durations use Go syntax (for example "45s").
func (c *Config) SetValue(key, value string) error {
	switch key {
	case "server.manifest_url":
		c.Server.ManifestURL = value
	case "server.auth_token":
		c.Server.AuthToken = value
	case "install.dir":
		c.Install.Dir = value
	case "install.descriptor":
		c.Install.Descriptor = value
	case "settings.work_dir":
		c.Settings.WorkDir = value
	case "settings.http_timeout":
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return errors.Wrapf(err, "invalid duration for %s: %s", key, value)
		}
		c.Settings.HTTPTimeout = timeout
	case "settings.download_timeout":
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return errors.Wrapf(err, "invalid duration for %s: %s", key, value)
		}
		c.Settings.DownloadTimeout = timeout
	case "settings.signing_key":
		c.Settings.SigningKeyPath = value
	case "settings.arch":
		arch, err := platform.Normalize(value)
		if err != nil {
			return err
		}
		c.Settings.Arch = arch.String()
	case "settings.log_level":
		c.Settings.LogLevel = value
	case "settings.disable_backup":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrapf(err, "invalid boolean value for %s: %s", key, value)
		}
		c.Settings.DisableBackup = boolVal
	case "settings.force_full":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrapf(err, "invalid boolean value for %s: %s", key, value)
		}
		c.Settings.ForceFull = boolVal
	default:
		return errors.Wrapf(errors.ErrUnknownConfigKey, "%s", key)
	}
	return nil
}

// GetValue returns a configuration value by key as a string.
func (c *Config) GetValue(key string) (string, error) {
	switch key {
	case "server.manifest_url":
		return c.Server.ManifestURL, nil
	case "server.auth_token":
		return c.Server.AuthToken, nil
	case "install.dir":
		return c.Install.Dir, nil
	case "install.descriptor":
		return c.Install.Descriptor, nil
	case "settings.work_dir":
		return c.Settings.WorkDir, nil
	case "settings.http_timeout":
		return c.Settings.HTTPTimeout.String(), nil
	case "settings.download_timeout":
		return c.Settings.DownloadTimeout.String(), nil
	case "settings.signing_key":
		return c.Settings.SigningKeyPath, nil
	case "settings.arch":
		return c.Settings.Arch, nil
	case "settings.log_level":
		return c.Settings.LogLevel, nil
	case "settings.disable_backup":
		return strconv.FormatBool(c.Settings.DisableBackup), nil
	case "settings.force_full":
		return strconv.FormatBool(c.Settings.ForceFull), nil
	default:
		return "", errors.Wrapf(errors.ErrUnknownConfigKey, "%s", key)
	}
}

// ToMap returns every addressable key with its current value. Useful for
// displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string, len(Keys()))
	for _, key := range Keys() {
		value, err := c.GetValue(key)
		if err != nil {
			continue
		}
		result[key] = value
	}
	return result
}
