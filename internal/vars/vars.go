// SPDX-License-Identifier: MPL-2.0

// Package vars implements the per-invocation variable store and the
// $(NAME) reference expansion used by recipe lines and prerequisite lists.
//
// Values come from three sources with fixed priority: invocation-line
// NAME=VALUE assignments override inherited environment entries, which
// override file defaults. The priority order is independent of the order
// in which the sources are recorded. Once an invocation starts executing
// recipes the store is read-only.
package vars

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUndefinedVariable is the sentinel error wrapped by UndefinedVariableError.
var ErrUndefinedVariable = errors.New("undefined variable")

type (
	// Source identifies where a variable's value came from.
	Source int

	// UndefinedVariableError is returned when a strict-required variable
	// has no value from any source.
	UndefinedVariableError struct {
		Name string
	}

	entry struct {
		value  string
		source Source
	}

	// Store holds the resolved variables for one invocation.
	Store struct {
		entries map[string]entry
	}
)

// Variable sources in ascending priority order.
const (
	SourceDefault Source = iota
	SourceEnvironment
	SourceInvocation
)

// String returns the source name used in logs.
func (s Source) String() string {
	switch s {
	case SourceDefault:
		return "default"
	case SourceEnvironment:
		return "environment"
	case SourceInvocation:
		return "invocation"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// Error implements the error interface.
func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("required variable %q is not set and has no default", e.Name)
}

// Unwrap returns ErrUndefinedVariable so callers can use errors.Is for programmatic detection.
func (e *UndefinedVariableError) Unwrap() error { return ErrUndefinedVariable }

// New creates an empty Store.
func New() *Store {
	return &Store{entries: make(map[string]entry)}
}

// Set records a value for name. A value from a lower-priority source never
// overwrites one from a higher-priority source; within the same source the
// later assignment wins, so file defaults follow declaration order.
func (s *Store) Set(name, value string, source Source) {
	if existing, ok := s.entries[name]; ok && existing.source > source {
		return
	}
	s.entries[name] = entry{value: value, source: source}
}

// SetConditionalDefault records a file default only when the name has no
// value from any source yet ('?=' assignments).
func (s *Store) SetConditionalDefault(name, value string) {
	if _, ok := s.entries[name]; ok {
		return
	}
	s.entries[name] = entry{value: value, source: SourceDefault}
}

// Get returns the resolved value for name. Unset names resolve to the
// empty string with ok == false; expansion deliberately never fails on an
// unset name (see RequireAll for the strict case).
func (s *Store) Get(name string) (value string, ok bool) {
	e, ok := s.entries[name]
	return e.value, ok
}

// Lookup returns the value and source for name.
func (s *Store) Lookup(name string) (value string, source Source, ok bool) {
	e, ok := s.entries[name]
	return e.value, e.source, ok
}

// Names returns all stored names in lexical order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RequireAll verifies that every listed name has a value from some source.
// It returns one UndefinedVariableError per missing name, in list order.
func (s *Store) RequireAll(names []string) []error {
	var errs []error
	for _, name := range names {
		if _, ok := s.entries[name]; !ok {
			errs = append(errs, &UndefinedVariableError{Name: name})
		}
	}
	return errs
}

// Environ overlays the store's invocation- and environment-sourced values
// on top of base (os.Environ-style "KEY=VALUE" entries). File defaults are
// not exported: subprocesses see the invoking environment plus explicit
// overrides, matching the executor's environment contract.
func (s *Store) Environ(base []string) []string {
	overlay := make(map[string]string)
	for name, e := range s.entries {
		if e.source == SourceEnvironment || e.source == SourceInvocation {
			overlay[name] = e.value
		}
	}

	env := make([]string, 0, len(base)+len(overlay))
	for _, kv := range base {
		key, _, ok := strings.Cut(kv, "=")
		if ok {
			if _, overridden := overlay[key]; overridden {
				continue
			}
		}
		env = append(env, kv)
	}
	for _, name := range sortedKeys(overlay) {
		env = append(env, name+"="+overlay[name])
	}
	return env
}

// OverlayEnviron returns only the invocation- and environment-sourced
// entries in "KEY=VALUE" form, sorted by name. The container runtime uses
// this to forward explicit overrides without dragging the whole host
// environment into the container.
func (s *Store) OverlayEnviron() []string {
	overlay := make(map[string]string)
	for name, e := range s.entries {
		if e.source == SourceEnvironment || e.source == SourceInvocation {
			overlay[name] = e.value
		}
	}
	env := make([]string, 0, len(overlay))
	for _, name := range sortedKeys(overlay) {
		env = append(env, name+"="+overlay[name])
	}
	return env
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
