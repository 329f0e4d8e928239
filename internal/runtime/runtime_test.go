// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"testing"

	"taskmk-cli/internal/container"
)

func TestMode_IsValid(t *testing.T) {
	t.Parallel()
	for mode, want := range map[Mode]bool{
		ModeNative:    true,
		ModeVirtual:   true,
		ModeContainer: true,
		"":            false,
		"docker":      false,
	} {
		ok, errs := mode.IsValid()
		if ok != want {
			t.Errorf("IsValid(%q) = %v, want %v", mode, ok, want)
		}
		if !ok && !errors.Is(errs[0], ErrInvalidMode) {
			t.Errorf("IsValid(%q): error does not wrap ErrInvalidMode: %v", mode, errs[0])
		}
	}
}

func TestNew_KnownModes(t *testing.T) {
	t.Parallel()
	native, err := New(ModeNative, Options{Shell: "bash"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if native.Name() != "native" {
		t.Errorf("unexpected runtime: %s", native.Name())
	}

	virtual, err := New(ModeVirtual, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if virtual.Name() != "virtual" {
		t.Errorf("unexpected runtime: %s", virtual.Name())
	}

	if _, err := New("bogus", Options{}); !errors.Is(err, ErrInvalidMode) {
		t.Errorf("expected ErrInvalidMode, got %v", err)
	}
}

// fakeEngine records the options it was run with and returns a fixed exit code.
type fakeEngine struct {
	lastOpts container.RunOptions
	exitCode int
}

func (f *fakeEngine) Name() string    { return "fake" }
func (f *fakeEngine) Available() bool { return true }
func (f *fakeEngine) Run(_ context.Context, opts container.RunOptions) (*container.RunResult, error) {
	f.lastOpts = opts
	return &container.RunResult{ExitCode: f.exitCode}, nil
}

func TestContainerRuntime_Execute(t *testing.T) {
	t.Parallel()
	engine := &fakeEngine{exitCode: 7}
	r, err := NewContainerRuntime(engine, "alpine:3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := r.Execute(context.Background(), CommandSpec{
		Command: "make dist",
		Dir:     "/src",
		Env:     []string{"HOST_ONLY=1"},
		Overlay: []string{"VERSION=9"},
	})
	if result.Error != nil {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	if result.ExitCode != 7 {
		t.Errorf("exit code = %v, want 7", result.ExitCode)
	}

	opts := engine.lastOpts
	if opts.Image != "alpine:3" {
		t.Errorf("image = %q", opts.Image)
	}
	if len(opts.Command) != 3 || opts.Command[2] != "make dist" {
		t.Errorf("command = %v", opts.Command)
	}
	if len(opts.Volumes) != 1 || opts.Volumes[0] != "/src:/work" {
		t.Errorf("volumes = %v", opts.Volumes)
	}
	// Only the overlay crosses the container boundary.
	if len(opts.Env) != 1 || opts.Env[0] != "VERSION=9" {
		t.Errorf("env = %v", opts.Env)
	}
}

func TestNewContainerRuntime_RequiresImage(t *testing.T) {
	t.Parallel()
	if _, err := NewContainerRuntime(&fakeEngine{}, ""); !errors.Is(err, ErrNoImage) {
		t.Errorf("expected ErrNoImage, got %v", err)
	}
}
