// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// ErrEngineNotFound is the sentinel error wrapped by EngineNotFoundError.
var ErrEngineNotFound = errors.New("no container engine found")

type (
	// Engine defines the interface for container operations.
	Engine interface {
		// Name returns the engine name (docker or podman).
		Name() string
		// Available checks if the engine is available on the system.
		Available() bool
		// Run runs a command in a transient container and waits for it.
		Run(ctx context.Context, opts RunOptions) (*RunResult, error)
	}

	// EngineNotFoundError is returned when no requested or known container
	// engine binary is resolvable on the host.
	EngineNotFoundError struct {
		// Requested is the engine name asked for; empty when auto-detecting.
		Requested string
	}

	// RunOptions contains options for running a container.
	RunOptions struct {
		// Image is the image to run.
		Image string
		// Command is the command to run.
		Command []string
		// WorkDir is the working directory inside the container.
		WorkDir string
		// Env contains environment variables in "KEY=VALUE" form.
		Env []string
		// Volumes are volume mounts in "host:container" format.
		Volumes []string
		// Stdin is the standard input.
		Stdin io.Reader
		// Stdout is where to write standard output.
		Stdout io.Writer
		// Stderr is where to write standard error.
		Stderr io.Writer
	}

	// RunResult contains the outcome of a container run.
	RunResult struct {
		// ExitCode is the containerized command's exit status.
		ExitCode int
	}
)

// Error implements the error interface.
func (e *EngineNotFoundError) Error() string {
	if e.Requested != "" {
		return fmt.Sprintf("container engine %q not found in PATH", e.Requested)
	}
	return "no container engine found in PATH (tried docker, podman)"
}

// Unwrap returns ErrEngineNotFound so callers can use errors.Is for programmatic detection.
func (e *EngineNotFoundError) Unwrap() error { return ErrEngineNotFound }

// Find resolves a container engine. When preferred is non-empty only that
// engine is considered; otherwise docker is tried first, then podman.
func Find(preferred string) (Engine, error) {
	switch preferred {
	case "":
		for _, engine := range []Engine{NewDockerEngine(), NewPodmanEngine()} {
			if engine.Available() {
				return engine, nil
			}
		}
		return nil, &EngineNotFoundError{}
	case "docker":
		if e := NewDockerEngine(); e.Available() {
			return e, nil
		}
	case "podman":
		if e := NewPodmanEngine(); e.Available() {
			return e, nil
		}
	default:
		return nil, fmt.Errorf("unknown container engine %q (must be docker or podman)", preferred)
	}
	return nil, &EngineNotFoundError{Requested: preferred}
}
