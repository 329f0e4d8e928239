// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestProvider_Load_Defaults(t *testing.T) {
	t.Parallel()

	p := NewProvider()
	cfg, path, err := p.Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.DefaultRuntime != RuntimeNative {
		t.Errorf("DefaultRuntime = %s, want native", cfg.DefaultRuntime)
	}
	if path != "" {
		t.Errorf("path = %q, want empty when defaults are in effect", path)
	}
}

func TestProvider_Load_ExplicitFile(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "custom.cue")
	if err := os.WriteFile(cfgPath, []byte(`jobs: 8`), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewProvider()
	cfg, path, err := p.Load(context.Background(), LoadOptions{ConfigFilePath: cfgPath})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Jobs != 8 {
		t.Errorf("Jobs = %d, want 8", cfg.Jobs)
	}
	if path != cfgPath {
		t.Errorf("path = %q, want %q", path, cfgPath)
	}
}

func TestProvider_Load_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	p := NewProvider()
	_, _, err := p.Load(context.Background(), LoadOptions{
		ConfigFilePath: filepath.Join(t.TempDir(), "absent.cue"),
	})
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}
