// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"taskmk-cli/internal/runtime"
	"taskmk-cli/internal/vars"
	"taskmk-cli/pkg/taskmkfile"
)

// Executor runs a resolved Plan. The variable store is read-only for the
// lifetime of a run; the subprocess environment is computed once up front.
type Executor struct {
	// File is the parsed taskmkfile the plan was resolved from.
	File *taskmkfile.Taskmkfile
	// Store holds the resolved variables.
	Store *vars.Store
	// Runtime executes expanded recipe lines.
	Runtime runtime.Runtime
	// WorkDir is the invocation's working directory.
	WorkDir string

	// Stdin, Stdout and Stderr are attached to every recipe subprocess.
	// Commands are echoed to Stdout before running unless suppressed.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// DryRun prints every expanded command without executing anything.
	DryRun bool
	// AlwaysRun disables the staleness check, forcing every resolved
	// target's recipe to run.
	AlwaysRun bool
}

// Run executes the plan sequentially: one recipe line's subprocess exits
// before the next starts, and the first failing line without the
// ignore-failure marker aborts the remaining plan.
func (e *Executor) Run(ctx context.Context, plan *Plan) error {
	env := e.Store.Environ(os.Environ())
	overlay := e.Store.OverlayEnviron()

	for _, step := range plan.Steps {
		// Honor cancellation promptly between targets.
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run canceled: %w", err)
		}
		if err := e.executeStep(ctx, step, env, overlay); err != nil {
			return err
		}
	}
	return nil
}

// executeStep runs one plan entry: staleness gate, then the recipe lines
// in declared order.
func (e *Executor) executeStep(ctx context.Context, step Step, env, overlay []string) error {
	if step.Kind != StepRun {
		return nil
	}

	run, reason, err := e.needsRun(step)
	if err != nil {
		return err
	}
	if !run {
		slog.Debug("target is up to date", "target", step.Name)
		return nil
	}
	slog.Debug("running target", "target", step.Name, "reason", reason)

	for _, line := range step.Target.Recipe {
		command, err := e.Store.Expand(line.Command)
		if err != nil {
			return fmt.Errorf("target %q: failed to expand recipe line %d: %w", step.Name, line.Line, err)
		}
		if command == "" {
			continue
		}

		// Echo before running so a failure is traceable to the exact
		// command. Dry runs print even suppressed lines.
		if !line.SuppressEcho || e.DryRun {
			fmt.Fprintln(e.Stdout, command)
		}
		if e.DryRun {
			continue
		}

		result := e.Runtime.Execute(ctx, runtime.CommandSpec{
			Command: command,
			Dir:     e.WorkDir,
			Env:     env,
			Overlay: overlay,
			Stdin:   e.Stdin,
			Stdout:  e.Stdout,
			Stderr:  e.Stderr,
		})
		if result.Error != nil {
			return fmt.Errorf("target %q: %w", step.Name, result.Error)
		}
		if !result.ExitCode.IsSuccess() {
			if line.IgnoreFailure {
				slog.Debug("ignoring failed recipe line",
					"target", step.Name, "command", command, "exit_code", result.ExitCode)
				continue
			}
			return &RecipeError{Target: step.Name, Command: command, ExitCode: result.ExitCode}
		}
	}
	return nil
}

// needsRun decides whether a target's recipe must execute. Phony targets
// are always stale; a file-backed target is skipped when its path exists
// and is not older than any prerequisite path. The check runs at
// execution time, in plan order, because earlier targets' recipes
// routinely regenerate the files it reads.
func (e *Executor) needsRun(step Step) (bool, string, error) {
	if e.AlwaysRun {
		return true, "forced", nil
	}
	if step.Target.Phony {
		return true, "phony target", nil
	}

	info, err := os.Stat(e.path(step.Name))
	if err != nil {
		if os.IsNotExist(err) {
			return true, "target file missing", nil
		}
		return false, "", fmt.Errorf("failed to stat target %q: %w", step.Name, err)
	}
	if info.IsDir() {
		return true, "target is a directory", nil
	}

	return e.anyPrereqNewer(step, info.ModTime())
}

// anyPrereqNewer reports whether any prerequisite file is newer than
// mtime. Prerequisites that are declared targets without a file on disk
// have already run as part of this plan and do not affect freshness.
func (e *Executor) anyPrereqNewer(step Step, mtime time.Time) (bool, string, error) {
	for _, prereq := range step.Prereqs {
		info, err := os.Stat(e.path(prereq))
		if err != nil {
			if os.IsNotExist(err) {
				if e.File.HasTarget(prereq) {
					continue
				}
				// The file was there at plan time; an earlier target in
				// this run removed it, so the dependent is stale.
				return true, fmt.Sprintf("prerequisite %q vanished", prereq), nil
			}
			return false, "", fmt.Errorf("failed to stat prerequisite %q: %w", prereq, err)
		}
		if info.ModTime().After(mtime) {
			return true, fmt.Sprintf("prerequisite %q is newer", prereq), nil
		}
	}
	return false, "", nil
}

// path resolves a target or prerequisite name against the working directory.
func (e *Executor) path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(e.WorkDir, name)
}
