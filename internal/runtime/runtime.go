// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"

	"taskmk-cli/internal/container"
)

// ErrInvalidMode is the sentinel error wrapped by InvalidModeError.
var ErrInvalidMode = errors.New("invalid runtime mode")

type (
	// Mode selects a runtime implementation.
	Mode string

	// InvalidModeError is returned when a Mode value is not one of the
	// known runtime modes.
	InvalidModeError struct {
		Value Mode
	}

	// CommandSpec describes one recipe line to execute: a fully expanded
	// shell command, the working directory, the complete environment and
	// the I/O streams to attach.
	CommandSpec struct {
		// Command is the expanded shell command text.
		Command string
		// Dir is the working directory (the invocation's working directory).
		Dir string
		// Env is the complete environment in "KEY=VALUE" form, used by the
		// native and virtual runtimes.
		Env []string
		// Overlay holds only the explicit variable overrides. The container
		// runtime forwards these instead of Env so the image keeps its own
		// base environment.
		Overlay []string
		// Stdin, Stdout and Stderr are attached to the subprocess.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Runtime executes recipe lines.
	Runtime interface {
		// Name returns the runtime name.
		Name() string
		// Available reports whether this runtime can run on the host.
		Available() bool
		// Execute runs one recipe line to completion. The subprocess is
		// terminated when ctx is canceled.
		Execute(ctx context.Context, spec CommandSpec) *Result
	}

	// Options configures runtime construction.
	Options struct {
		// Shell overrides the native runtime's shell binary.
		Shell string
		// Image is the container image for the container runtime.
		Image string
		// Engine is the preferred container engine name ("docker" or
		// "podman"); empty means auto-detect.
		Engine string
	}
)

// Runtime modes.
const (
	ModeNative    Mode = "native"
	ModeVirtual   Mode = "virtual"
	ModeContainer Mode = "container"
)

// Error implements the error interface.
func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid runtime mode %q (must be one of: native, virtual, container)", e.Value)
}

// Unwrap returns ErrInvalidMode so callers can use errors.Is for programmatic detection.
func (e *InvalidModeError) Unwrap() error { return ErrInvalidMode }

// IsValid returns whether the Mode is a known runtime mode,
// and a list of validation errors if it is not.
func (m Mode) IsValid() (bool, []error) {
	switch m {
	case ModeNative, ModeVirtual, ModeContainer:
		return true, nil
	default:
		return false, []error{&InvalidModeError{Value: m}}
	}
}

// String returns the string representation of the Mode.
func (m Mode) String() string { return string(m) }

// New constructs the runtime for mode. For ModeContainer the container
// engine is resolved eagerly so a missing engine surfaces before any
// recipe runs.
func New(mode Mode, opts Options) (Runtime, error) {
	switch mode {
	case ModeNative:
		return &NativeRuntime{Shell: opts.Shell}, nil
	case ModeVirtual:
		return NewVirtualRuntime(), nil
	case ModeContainer:
		engine, err := container.Find(opts.Engine)
		if err != nil {
			return nil, err
		}
		return NewContainerRuntime(engine, opts.Image)
	default:
		return nil, &InvalidModeError{Value: mode}
	}
}
