// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"errors"
	"fmt"

	"taskmk-cli/internal/runtime"
)

var (
	// ErrRecipeFailed is the sentinel error wrapped by RecipeError.
	ErrRecipeFailed = errors.New("recipe failed")

	// ErrMissingPrerequisite is the sentinel error wrapped by MissingPrerequisiteError.
	ErrMissingPrerequisite = errors.New("missing prerequisite")

	// ErrNoTargets is returned when a run is requested against a
	// taskmkfile that declares no targets at all.
	ErrNoTargets = errors.New("taskmkfile declares no targets")
)

type (
	// RecipeError reports a recipe line that exited non-zero without the
	// ignore-failure marker. It aborts the current run; the CLI maps its
	// ExitCode to the process exit status.
	RecipeError struct {
		// Target is the target whose recipe failed.
		Target string
		// Command is the expanded command line that failed.
		Command string
		// ExitCode is the subprocess exit status.
		ExitCode runtime.ExitCode
	}

	// MissingPrerequisiteError reports a prerequisite that is neither a
	// declared target nor an existing file.
	MissingPrerequisiteError struct {
		// Target is the dependent target.
		Target string
		// Prereq is the unresolvable prerequisite name.
		Prereq string
	}
)

// Error implements the error interface.
func (e *RecipeError) Error() string {
	return fmt.Sprintf("recipe for target %q failed: `%s` exited with code %s", e.Target, e.Command, e.ExitCode)
}

// Unwrap returns ErrRecipeFailed so callers can use errors.Is for programmatic detection.
func (e *RecipeError) Unwrap() error { return ErrRecipeFailed }

// Error implements the error interface.
func (e *MissingPrerequisiteError) Error() string {
	return fmt.Sprintf("no rule to make %q, needed by %q", e.Prereq, e.Target)
}

// Unwrap returns ErrMissingPrerequisite so callers can use errors.Is for programmatic detection.
func (e *MissingPrerequisiteError) Unwrap() error { return ErrMissingPrerequisite }
