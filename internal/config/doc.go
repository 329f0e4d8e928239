// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/taskmk/config.cue (or XDG equivalent on Linux,
// ~/Library/Application Support/taskmk/config.cue on macOS, %APPDATA%\taskmk\config.cue
// on Windows). The package provides type-safe configuration access and covers runtime
// selection, shell and parallelism defaults, container engine settings, and UI options.
//
// Configuration validation is performed against a CUE schema (config_schema.cue) to ensure
// type safety and provide clear error messages for invalid configurations.
package config
