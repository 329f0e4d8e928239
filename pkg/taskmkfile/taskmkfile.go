// SPDX-License-Identifier: MPL-2.0

package taskmkfile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTargetName is the sentinel error wrapped by InvalidTargetNameError.
var ErrInvalidTargetName = errors.New("invalid target name")

type (
	// TargetName represents a target identifier. A valid target name is
	// non-empty, contains no whitespace and none of the reserved syntax
	// characters (':', '=', '#').
	TargetName string

	// InvalidTargetNameError is returned when a TargetName value is empty,
	// contains whitespace, or contains reserved syntax characters.
	InvalidTargetNameError struct {
		Value TargetName
	}

	// RecipeLine is a single shell command template belonging to a target.
	// The echo-suppression and ignore-failure markers are recognized and
	// stripped at parse time; Command holds only the command text, which
	// may still contain $(NAME) variable references.
	RecipeLine struct {
		// Command is the shell command template, markers stripped.
		Command string
		// SuppressEcho is set when the line carried a '@' marker.
		SuppressEcho bool
		// IgnoreFailure is set when the line carried a '-' marker.
		IgnoreFailure bool
		// Line is the 1-based source line for error reporting.
		Line int
	}

	// Assignment is a variable assignment declared in the file.
	// The value is stored raw; references inside it are substituted
	// literally at expansion time, never re-expanded.
	Assignment struct {
		// Name is the variable name.
		Name string
		// Value is the raw right-hand side, surrounding whitespace trimmed.
		Value string
		// Conditional marks a '?=' assignment, which only takes effect
		// when the variable is not already set from any source.
		Conditional bool
		// Line is the 1-based source line for error reporting.
		Line int
	}

	// Target is a named operation with prerequisites and a recipe.
	Target struct {
		// Name is the target identifier; for non-phony targets it is also
		// the filesystem path checked for staleness.
		Name string
		// Prereqs are the prerequisite tokens in declared order. Tokens may
		// contain variable references and expand to zero or more names.
		Prereqs []string
		// Recipe holds the ordered recipe lines.
		Recipe []RecipeLine
		// Phony marks the target as always out of date.
		Phony bool
		// Line is the 1-based source line of the declaration.
		Line int
	}

	// Taskmkfile is a fully parsed task file.
	Taskmkfile struct {
		// FilePath is where the file was loaded from.
		FilePath string
		// Assignments lists variable assignments in declaration order.
		Assignments []Assignment
		// Targets lists targets in declaration order.
		Targets []*Target
		// DefaultTarget is the target run when the invocation names none.
		// It is the .DEFAULT directive's argument, or the first declared
		// target when the directive is absent.
		DefaultTarget string
		// Required lists variable names declared via .REQUIRE; each must
		// have a value from some source before any recipe runs.
		Required []string

		targetMap map[string]*Target
	}
)

// Error implements the error interface.
func (e *InvalidTargetNameError) Error() string {
	return fmt.Sprintf("invalid target name %q (must be non-empty, without whitespace, ':', '=' or '#')", e.Value)
}

// Unwrap returns ErrInvalidTargetName so callers can use errors.Is for programmatic detection.
func (e *InvalidTargetNameError) Unwrap() error { return ErrInvalidTargetName }

// IsValid returns whether the TargetName is a valid target identifier,
// and a list of validation errors if it is not.
func (n TargetName) IsValid() (bool, []error) {
	s := string(n)
	if s == "" || strings.ContainsAny(s, " \t:=#") {
		return false, []error{&InvalidTargetNameError{Value: n}}
	}
	return true, nil
}

// String returns the string representation of the TargetName.
func (n TargetName) String() string { return string(n) }

// Lookup returns the target declared under name, if any.
func (f *Taskmkfile) Lookup(name string) (*Target, bool) {
	t, ok := f.targetMap[name]
	return t, ok
}

// HasTarget reports whether name is a declared target.
func (f *Taskmkfile) HasTarget(name string) bool {
	_, ok := f.targetMap[name]
	return ok
}

// VariableNames returns the names of all declared variables (assignments
// plus .REQUIRE entries) in declaration order, without duplicates. The
// engine uses this set to decide which inherited environment entries
// override file defaults.
func (f *Taskmkfile) VariableNames() []string {
	seen := make(map[string]bool, len(f.Assignments))
	names := make([]string, 0, len(f.Assignments)+len(f.Required))
	for _, a := range f.Assignments {
		if !seen[a.Name] {
			seen[a.Name] = true
			names = append(names, a.Name)
		}
	}
	for _, r := range f.Required {
		if !seen[r] {
			seen[r] = true
			names = append(names, r)
		}
	}
	return names
}

func (f *Taskmkfile) addTarget(t *Target) {
	if f.targetMap == nil {
		f.targetMap = make(map[string]*Target)
	}
	f.Targets = append(f.Targets, t)
	f.targetMap[t.Name] = t
}
