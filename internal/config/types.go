// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ContainerEngineDocker uses Docker as the container runtime.
	ContainerEngineDocker ContainerEngine = "docker"
	// ContainerEnginePodman uses Podman as the container runtime.
	ContainerEnginePodman ContainerEngine = "podman"

	// RuntimeNative runs recipes in the host system shell.
	// Defined locally to avoid coupling config to internal/runtime;
	// the CLI casts to runtime.Mode at the boundary.
	RuntimeNative RuntimeMode = "native"
	// RuntimeVirtual runs recipes in the embedded mvdan/sh interpreter.
	RuntimeVirtual RuntimeMode = "virtual"
	// RuntimeContainer runs recipes inside a container (Docker/Podman).
	RuntimeContainer RuntimeMode = "container"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidContainerEngine is returned when a ContainerEngine value is not recognized.
	ErrInvalidContainerEngine = errors.New("invalid container engine")
	// ErrInvalidConfigRuntimeMode is returned when a config RuntimeMode value is not recognized.
	ErrInvalidConfigRuntimeMode = errors.New("invalid runtime mode")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidJobs is returned when the jobs value is not positive.
	ErrInvalidJobs = errors.New("invalid jobs value")
	// ErrInvalidFileName is returned when the taskmkfile name is empty or whitespace-only.
	ErrInvalidFileName = errors.New("invalid taskmkfile name")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ContainerEngine specifies which container runtime to use.
	ContainerEngine string

	// InvalidContainerEngineError is returned when a ContainerEngine value is not recognized.
	// It wraps ErrInvalidContainerEngine for errors.Is() compatibility.
	InvalidContainerEngineError struct {
		Value ContainerEngine
	}

	// RuntimeMode specifies the execution runtime for recipes.
	RuntimeMode string

	// InvalidConfigRuntimeModeError is returned when a config RuntimeMode value is not recognized.
	// It wraps ErrInvalidConfigRuntimeMode for errors.Is() compatibility.
	InvalidConfigRuntimeModeError struct {
		Value RuntimeMode
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// ContainerConfig holds container runtime settings.
	ContainerConfig struct {
		// Engine is the preferred container engine; empty means auto-detect.
		Engine ContainerEngine `mapstructure:"engine"`
		// Image is the default container image for the container runtime.
		Image string `mapstructure:"image"`
	}

	// UIConfig holds terminal output settings.
	UIConfig struct {
		ColorScheme ColorScheme `mapstructure:"color_scheme"`
		Verbose     bool        `mapstructure:"verbose"`
	}

	// Config is the application configuration.
	Config struct {
		// DefaultRuntime selects the runtime when no --runtime flag is given.
		DefaultRuntime RuntimeMode `mapstructure:"default_runtime"`
		// Shell overrides the native runtime's shell binary.
		Shell string `mapstructure:"shell"`
		// Jobs is the default parallelism; 1 means sequential execution.
		Jobs int `mapstructure:"jobs"`
		// FileName is the taskmkfile name looked up in the working directory.
		FileName string `mapstructure:"taskmkfile_name"`

		Container ContainerConfig `mapstructure:"container"`
		UI        UIConfig        `mapstructure:"ui"`
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *InvalidContainerEngineError) Error() string {
	return fmt.Sprintf("invalid container engine %q (must be one of: docker, podman)", e.Value)
}

// Unwrap returns ErrInvalidContainerEngine so callers can use errors.Is for programmatic detection.
func (e *InvalidContainerEngineError) Unwrap() error { return ErrInvalidContainerEngine }

// IsValid returns whether the ContainerEngine is recognized,
// and a list of validation errors if it is not. The zero value is
// valid and means auto-detect.
func (c ContainerEngine) IsValid() (bool, []error) {
	switch c {
	case "", ContainerEngineDocker, ContainerEnginePodman:
		return true, nil
	default:
		return false, []error{&InvalidContainerEngineError{Value: c}}
	}
}

// String returns the string representation of the ContainerEngine.
func (c ContainerEngine) String() string { return string(c) }

// Error implements the error interface.
func (e *InvalidConfigRuntimeModeError) Error() string {
	return fmt.Sprintf("invalid runtime mode %q (must be one of: native, virtual, container)", e.Value)
}

// Unwrap returns ErrInvalidConfigRuntimeMode so callers can use errors.Is for programmatic detection.
func (e *InvalidConfigRuntimeModeError) Unwrap() error { return ErrInvalidConfigRuntimeMode }

// IsValid returns whether the RuntimeMode is recognized,
// and a list of validation errors if it is not.
func (m RuntimeMode) IsValid() (bool, []error) {
	switch m {
	case RuntimeNative, RuntimeVirtual, RuntimeContainer:
		return true, nil
	default:
		return false, []error{&InvalidConfigRuntimeModeError{Value: m}}
	}
}

// String returns the string representation of the RuntimeMode.
func (m RuntimeMode) String() string { return string(m) }

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (must be one of: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme so callers can use errors.Is for programmatic detection.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// IsValid returns whether the ColorScheme is recognized,
// and a list of validation errors if it is not.
func (s ColorScheme) IsValid() (bool, []error) {
	switch s {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: s}}
	}
}

// String returns the string representation of the ColorScheme.
func (s ColorScheme) String() string { return string(s) }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig so callers can use errors.Is for programmatic detection.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// IsValid returns whether every field of the Config is valid,
// and the list of validation errors if any field is not.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	if ok, sub := c.DefaultRuntime.IsValid(); !ok {
		errs = append(errs, sub...)
	}
	if ok, sub := c.Container.Engine.IsValid(); !ok {
		errs = append(errs, sub...)
	}
	if ok, sub := c.UI.ColorScheme.IsValid(); !ok {
		errs = append(errs, sub...)
	}
	if c.Jobs < 1 {
		errs = append(errs, fmt.Errorf("%w: %d (must be >= 1)", ErrInvalidJobs, c.Jobs))
	}
	if strings.TrimSpace(c.FileName) == "" {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidFileName, c.FileName))
	}
	if len(errs) > 0 {
		return false, errs
	}
	return true, nil
}

// Validate returns an InvalidConfigError when any field is invalid.
func (c *Config) Validate() error {
	if ok, errs := c.IsValid(); !ok {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// DefaultConfig returns the built-in defaults used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		DefaultRuntime: RuntimeNative,
		Jobs:           1,
		FileName:       "taskmkfile",
		Container: ContainerConfig{
			Image: "alpine:latest",
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}
