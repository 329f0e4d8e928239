// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrShellNotFound is returned when no usable POSIX shell exists on the host.
var ErrShellNotFound = errors.New("no POSIX shell found in PATH")

// shellCandidates are tried in order when no shell is configured.
var shellCandidates = []string{"sh", "bash"}

// NativeRuntime executes recipe lines using the host shell.
type NativeRuntime struct {
	// Shell overrides the default shell lookup.
	Shell string
}

// Name returns the runtime name.
func (r *NativeRuntime) Name() string { return "native" }

// Available returns whether this runtime is available.
func (r *NativeRuntime) Available() bool {
	_, err := r.shellPath()
	return err == nil
}

// Execute runs one recipe line as `<shell> -c <command>`.
func (r *NativeRuntime) Execute(ctx context.Context, spec CommandSpec) *Result {
	shell, err := r.shellPath()
	if err != nil {
		return NewErrorResult(1, err)
	}

	cmd := exec.CommandContext(ctx, shell, "-c", spec.Command)
	cmd.Dir = spec.Dir
	cmd.Env = spec.Env
	cmd.Stdin = spec.Stdin
	cmd.Stdout = spec.Stdout
	cmd.Stderr = spec.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return NewExitCodeResult(ExitCode(exitErr.ExitCode()))
		}
		return NewErrorResult(1, fmt.Errorf("failed to execute command: %w", err))
	}

	return NewSuccessResult()
}

// shellPath resolves the shell binary to use. A configured shell must be
// resolvable; otherwise the candidates are tried in order.
func (r *NativeRuntime) shellPath() (string, error) {
	if r.Shell != "" {
		path, err := exec.LookPath(r.Shell)
		if err != nil {
			return "", fmt.Errorf("configured shell %q not found: %w", r.Shell, err)
		}
		return path, nil
	}
	for _, candidate := range shellCandidates {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", ErrShellNotFound
}
