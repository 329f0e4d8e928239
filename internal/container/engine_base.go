// SPDX-License-Identifier: MPL-2.0

package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
)

// cliEngine implements Engine by shelling out to a container engine CLI.
// Docker and Podman accept the same `run` argument surface for everything
// taskmk needs, so both engines share this implementation.
type cliEngine struct {
	binary string
}

// Name returns the engine binary name.
func (e *cliEngine) Name() string { return e.binary }

// Available checks if the engine binary is resolvable in PATH.
func (e *cliEngine) Available() bool {
	_, err := exec.LookPath(e.binary)
	return err == nil
}

// Run executes `<engine> run --rm ...` and waits for completion. The
// container's exit code is reported in RunResult; a non-nil error means
// the engine itself could not be invoked.
func (e *cliEngine) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	args := buildRunArgs(opts)
	slog.Debug("running container", "engine", e.binary, "image", opts.Image, "args", args)

	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Stdin = opts.Stdin
	cmd.Stdout = opts.Stdout
	cmd.Stderr = opts.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &RunResult{ExitCode: exitErr.ExitCode()}, nil
		}
		return nil, fmt.Errorf("failed to invoke %s: %w", e.binary, err)
	}
	return &RunResult{ExitCode: 0}, nil
}

// buildRunArgs translates RunOptions into engine CLI arguments.
// Containers are always transient (--rm); interactive stdin is attached
// with -i so piped recipes work.
func buildRunArgs(opts RunOptions) []string {
	args := []string{"run", "--rm", "-i"}
	if opts.WorkDir != "" {
		args = append(args, "-w", opts.WorkDir)
	}
	for _, volume := range opts.Volumes {
		args = append(args, "-v", volume)
	}
	for _, kv := range opts.Env {
		args = append(args, "-e", kv)
	}
	args = append(args, opts.Image)
	return append(args, opts.Command...)
}
