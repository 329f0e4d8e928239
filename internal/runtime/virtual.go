// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRuntime executes recipe lines using the embedded mvdan/sh
// interpreter. It needs no shell on the host, which keeps container-free
// environments (minimal CI images, Windows) usable.
type VirtualRuntime struct{}

// NewVirtualRuntime creates a new virtual runtime.
func NewVirtualRuntime() *VirtualRuntime {
	return &VirtualRuntime{}
}

// Name returns the runtime name.
func (r *VirtualRuntime) Name() string { return "virtual" }

// Available returns whether this runtime is available.
// The virtual runtime is always available as it's built-in.
func (r *VirtualRuntime) Available() bool { return true }

// Execute parses and runs one recipe line in the embedded interpreter.
func (r *VirtualRuntime) Execute(ctx context.Context, spec CommandSpec) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(spec.Command), "recipe")
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("failed to parse recipe line: %w", err))
	}

	runner, err := interp.New(
		interp.Dir(spec.Dir),
		interp.Env(expand.ListEnviron(spec.Env...)),
		interp.StdIO(spec.Stdin, spec.Stdout, spec.Stderr),
	)
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("failed to create interpreter: %w", err))
	}

	if err := runner.Run(ctx, prog); err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return NewExitCodeResult(ExitCode(status))
		}
		return NewErrorResult(1, fmt.Errorf("recipe line execution failed: %w", err))
	}

	return NewSuccessResult()
}
