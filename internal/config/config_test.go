// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper.
package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"taskmk-cli/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.DefaultRuntime != RuntimeNative {
		t.Errorf("expected default runtime to be native, got %s", cfg.DefaultRuntime)
	}

	if cfg.Shell != "" {
		t.Errorf("expected default shell to be empty, got %q", cfg.Shell)
	}

	if cfg.Jobs != 1 {
		t.Errorf("expected default jobs to be 1, got %d", cfg.Jobs)
	}

	if cfg.FileName != "taskmkfile" {
		t.Errorf("expected default file name to be taskmkfile, got %q", cfg.FileName)
	}

	if cfg.Container.Engine != "" {
		t.Errorf("expected default container engine to be auto-detect, got %s", cfg.Container.Engine)
	}

	if cfg.Container.Image != "alpine:latest" {
		t.Errorf("expected default container image to be alpine:latest, got %q", cfg.Container.Image)
	}

	if cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("expected default color scheme to be auto, got %s", cfg.UI.ColorScheme)
	}

	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got: %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	// Reset environment for consistent testing
	originalXDGConfigHome := os.Getenv("XDG_CONFIG_HOME")
	defer func() {
		if originalXDGConfigHome != "" {
			_ = os.Setenv("XDG_CONFIG_HOME", originalXDGConfigHome) // Test cleanup; error non-critical
		} else {
			_ = os.Unsetenv("XDG_CONFIG_HOME") // Test cleanup; error non-critical
		}
	}()

	// Test with XDG_CONFIG_HOME set (on Linux)
	if runtime.GOOS == "linux" {
		testXDGPath := "/tmp/test-xdg-config"
		restoreXDG := testutil.MustSetenv(t, "XDG_CONFIG_HOME", testXDGPath)

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() returned error: %v", err)
		}

		expected := filepath.Join(testXDGPath, AppName)
		if dir != expected {
			t.Errorf("ConfigDir() = %s, want %s", dir, expected)
		}

		// Test with XDG_CONFIG_HOME unset
		restoreXDG()
		testutil.MustUnsetenv(t, "XDG_CONFIG_HOME")
		dir, err = ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() returned error: %v", err)
		}

		// Should use ~/.config/taskmk
		home, _ := os.UserHomeDir()
		expected = filepath.Join(home, ".config", AppName)
		if dir != expected {
			t.Errorf("ConfigDir() = %s, want %s", dir, expected)
		}
	}
}

func TestConfigDir_Override(t *testing.T) {
	defer Reset()

	tmpDir := t.TempDir()
	SetConfigDirOverride(tmpDir)

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if dir != tmpDir {
		t.Errorf("ConfigDir() = %s, want override %s", dir, tmpDir)
	}
}

func TestLoadWithOptions_DefaultsWhenNoFile(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}
	if path != "" {
		t.Errorf("expected empty resolved path, got %q", path)
	}
	if cfg.DefaultRuntime != RuntimeNative {
		t.Errorf("expected default runtime native, got %s", cfg.DefaultRuntime)
	}
	if cfg.Jobs != 1 {
		t.Errorf("expected default jobs 1, got %d", cfg.Jobs)
	}
}

func TestLoadWithOptions_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, ConfigFileName+"."+ConfigFileExt)
	content := `
default_runtime: "virtual"
jobs: 4
taskmkfile_name: "build.mk"

container: {
	engine: "docker"
	image: "ubuntu:24.04"
}

ui: {
	color_scheme: "dark"
	verbose: true
}
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}
	if path != cfgPath {
		t.Errorf("resolved path = %q, want %q", path, cfgPath)
	}
	if cfg.DefaultRuntime != RuntimeVirtual {
		t.Errorf("DefaultRuntime = %s, want virtual", cfg.DefaultRuntime)
	}
	if cfg.Jobs != 4 {
		t.Errorf("Jobs = %d, want 4", cfg.Jobs)
	}
	if cfg.FileName != "build.mk" {
		t.Errorf("FileName = %q, want build.mk", cfg.FileName)
	}
	if cfg.Container.Engine != ContainerEngineDocker {
		t.Errorf("Container.Engine = %s, want docker", cfg.Container.Engine)
	}
	if cfg.Container.Image != "ubuntu:24.04" {
		t.Errorf("Container.Image = %q, want ubuntu:24.04", cfg.Container.Image)
	}
	if cfg.UI.ColorScheme != ColorSchemeDark {
		t.Errorf("UI.ColorScheme = %s, want dark", cfg.UI.ColorScheme)
	}
	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, want true")
	}
}

func TestLoadWithOptions_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(cfgPath, []byte(`jobs: 2`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}
	if cfg.Jobs != 2 {
		t.Errorf("Jobs = %d, want 2", cfg.Jobs)
	}
	if cfg.DefaultRuntime != RuntimeNative {
		t.Errorf("DefaultRuntime = %s, want default native", cfg.DefaultRuntime)
	}
	if cfg.FileName != "taskmkfile" {
		t.Errorf("FileName = %q, want default taskmkfile", cfg.FileName)
	}
}

func TestLoadWithOptions_InvalidSyntax(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(cfgPath, []byte(`jobs: [unclosed`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err == nil {
		t.Fatal("expected error for invalid CUE syntax")
	}
}

func TestLoadWithOptions_SchemaViolation(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(cfgPath, []byte(`default_runtime: "hypervisor"`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err == nil {
		t.Fatal("expected error for schema violation")
	}
}

func TestLoadWithOptions_ExplicitFileNotFound(t *testing.T) {
	_, _, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue"),
	})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoadWithOptions_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := loadWithOptions(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got: %v", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	original := DefaultConfig()
	original.DefaultRuntime = RuntimeContainer
	original.Shell = "/bin/bash"
	original.Jobs = 3
	original.Container.Engine = ContainerEnginePodman
	original.UI.ColorScheme = ColorSchemeLight

	cfgPath := filepath.Join(tmpDir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(cfgPath, []byte(GenerateCUE(original)), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, err := loadWithOptions(context.Background(), LoadOptions{ConfigDirPath: tmpDir})
	if err != nil {
		t.Fatalf("loadWithOptions() returned error: %v", err)
	}
	if cfg.DefaultRuntime != original.DefaultRuntime {
		t.Errorf("DefaultRuntime = %s, want %s", cfg.DefaultRuntime, original.DefaultRuntime)
	}
	if cfg.Shell != original.Shell {
		t.Errorf("Shell = %q, want %q", cfg.Shell, original.Shell)
	}
	if cfg.Jobs != original.Jobs {
		t.Errorf("Jobs = %d, want %d", cfg.Jobs, original.Jobs)
	}
	if cfg.Container.Engine != original.Container.Engine {
		t.Errorf("Container.Engine = %s, want %s", cfg.Container.Engine, original.Container.Engine)
	}
	if cfg.UI.ColorScheme != original.UI.ColorScheme {
		t.Errorf("UI.ColorScheme = %s, want %s", cfg.UI.ColorScheme, original.UI.ColorScheme)
	}
}
