// SPDX-License-Identifier: MPL-2.0

package config

import "context"

var (
	// globalConfig caches the loaded configuration for the process lifetime.
	globalConfig *Config
	// configPath remembers where globalConfig was loaded from ("" means defaults).
	configPath string

	// configDirOverride allows tests to override the config directory.
	// This is necessary because os.UserHomeDir() doesn't reliably respect
	// the HOME environment variable on all platforms (e.g., macOS in CI).
	configDirOverride string
	// configFilePathOverride forces loading from an explicit file (--config flag).
	configFilePathOverride string
)

// globalProvider performs the actual loading for the cache below. Tests
// can swap it to stub out the filesystem.
var globalProvider = NewProvider()

// Load loads the configuration once and caches it. Subsequent calls return
// the cached value; use Reset to force a reload.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, path, err := globalProvider.Load(context.Background(), LoadOptions{
		ConfigFilePath: configFilePathOverride,
	})
	if err != nil {
		return nil, err
	}

	globalConfig = cfg
	configPath = path
	return cfg, nil
}

// Get returns the cached configuration, loading it on first use. Load errors
// fall back to the built-in defaults.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// Path returns the file the cached configuration was loaded from, or the
// empty string when defaults are in effect.
func Path() string {
	return configPath
}

// Reset clears the cached configuration and test overrides. Call from test
// cleanup to restore defaults.
func Reset() {
	globalConfig = nil
	configPath = ""
	configDirOverride = ""
	configFilePathOverride = ""
	globalProvider = NewProvider()
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to bypass os.UserHomeDir() which
// doesn't reliably respect the HOME env var on all platforms (e.g., macOS in CI).
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetConfigFilePathOverride forces configuration loading from an explicit
// file, bypassing the platform config directory lookup.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
	globalConfig = nil
	configPath = ""
}
