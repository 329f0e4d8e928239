// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"

	"taskmk-cli/internal/container"
)

// ErrNoImage is returned when the container runtime is constructed without an image.
var ErrNoImage = errors.New("container runtime requires an image")

// containerWorkDir is where the invocation's working directory is mounted
// inside the container.
const containerWorkDir = "/work"

// ContainerRuntime executes each recipe line in a transient container.
// The invocation's working directory is bind-mounted read-write so recipe
// side effects (generated files) land on the host like in the other
// runtimes.
type ContainerRuntime struct {
	engine container.Engine
	image  string
}

// NewContainerRuntime creates a container runtime for the given engine and image.
func NewContainerRuntime(engine container.Engine, image string) (*ContainerRuntime, error) {
	if image == "" {
		return nil, ErrNoImage
	}
	return &ContainerRuntime{engine: engine, image: image}, nil
}

// Name returns the runtime name.
func (r *ContainerRuntime) Name() string { return "container" }

// Available returns whether the underlying engine is available.
func (r *ContainerRuntime) Available() bool { return r.engine.Available() }

// Execute runs one recipe line via `sh -c` inside a fresh container.
func (r *ContainerRuntime) Execute(ctx context.Context, spec CommandSpec) *Result {
	result, err := r.engine.Run(ctx, container.RunOptions{
		Image:   r.image,
		Command: []string{"sh", "-c", spec.Command},
		WorkDir: containerWorkDir,
		Volumes: []string{spec.Dir + ":" + containerWorkDir},
		Env:     spec.Overlay,
		Stdin:   spec.Stdin,
		Stdout:  spec.Stdout,
		Stderr:  spec.Stderr,
	})
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("container execution failed: %w", err))
	}
	return NewExitCodeResult(ExitCode(result.ExitCode))
}
