// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"taskmk-cli/internal/dag"
	"taskmk-cli/internal/vars"
	"taskmk-cli/pkg/taskmkfile"
)

type (
	// StepKind classifies a plan entry.
	StepKind int

	// Step is one entry of a resolved plan.
	Step struct {
		// Name is the target name (or passthrough token / file path).
		Name string
		// Kind says whether the entry runs a recipe, is satisfied by a
		// file on disk, or is an absorbed passthrough token.
		Kind StepKind
		// Target is set for StepRun entries.
		Target *taskmkfile.Target
		// Prereqs are the expanded prerequisite names, for StepRun entries.
		Prereqs []string
	}

	// Plan is the ordered execution sequence for one invocation.
	Plan struct {
		Steps []Step
	}

	// Planner resolves requested target names into a Plan.
	Planner struct {
		File  *taskmkfile.Taskmkfile
		Store *vars.Store
		// WorkDir anchors relative prerequisite paths; empty means the
		// process working directory.
		WorkDir string
	}
)

// Plan entry kinds.
const (
	// StepRun is a declared target whose recipe may execute.
	StepRun StepKind = iota
	// StepFile is a prerequisite satisfied by an existing file; it only
	// contributes its timestamp to staleness checks.
	StepFile
	// StepNoOp is a passthrough invocation token with no target; it is
	// accepted silently and does nothing.
	StepNoOp
)

// Names returns the step names in plan order.
func (p *Plan) Names() []string {
	names := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		names[i] = s.Name
	}
	return names
}

// Resolve computes the execution order for the requested names: a
// depth-first post-order over prerequisites that preserves the
// left-to-right order of requested names and declared prerequisite
// lists, visits each target at most once, and fails with dag.CycleError
// before any recipe runs when the prerequisite graph is cyclic.
//
// Requested names that match no declared target become no-op steps
// (argument passthrough). Prerequisite names that match no declared
// target must exist as files; otherwise resolution fails with
// MissingPrerequisiteError.
func (p *Planner) Resolve(requested []string) (*Plan, error) {
	if len(requested) == 0 {
		if p.File.DefaultTarget == "" {
			return nil, ErrNoTargets
		}
		requested = []string{p.File.DefaultTarget}
	}

	g := dag.New()
	fileNodes := make(map[string]bool)
	walked := make(map[string]bool)

	var walk func(t *taskmkfile.Target) error
	walk = func(t *taskmkfile.Target) error {
		if walked[t.Name] {
			return nil
		}
		walked[t.Name] = true
		g.AddNode(t.Name)

		prereqs, err := p.expandPrereqs(t)
		if err != nil {
			return err
		}

		for _, name := range prereqs {
			g.AddEdge(name, t.Name)
			if dep, ok := p.File.Lookup(name); ok {
				if err := walk(dep); err != nil {
					return err
				}
				continue
			}
			if _, err := os.Stat(p.path(name)); err != nil {
				if os.IsNotExist(err) {
					return &MissingPrerequisiteError{Target: t.Name, Prereq: name}
				}
				return fmt.Errorf("failed to stat prerequisite %q: %w", name, err)
			}
			fileNodes[name] = true
		}
		return nil
	}

	roots := make([]string, 0, len(requested))
	for _, raw := range requested {
		name, err := p.Store.Expand(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to expand requested name %q: %w", raw, err)
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		roots = append(roots, name)

		t, ok := p.File.Lookup(name)
		if !ok {
			// Unknown invocation token: absorbed as a no-op so trailing
			// arguments for a delegated tool never fail the run.
			g.AddNode(name)
			continue
		}
		if err := walk(t); err != nil {
			return nil, err
		}
	}

	order, err := g.PostOrderFrom(roots)
	if err != nil {
		return nil, err
	}

	plan := &Plan{Steps: make([]Step, 0, len(order))}
	for _, name := range order {
		if t, ok := p.File.Lookup(name); ok {
			plan.Steps = append(plan.Steps, Step{
				Name:    name,
				Kind:    StepRun,
				Target:  t,
				Prereqs: g.Prerequisites(name),
			})
			continue
		}
		kind := StepNoOp
		if fileNodes[name] {
			kind = StepFile
		}
		plan.Steps = append(plan.Steps, Step{Name: name, Kind: kind})
	}
	return plan, nil
}

// path resolves a prerequisite name against the planner's working directory.
func (p *Planner) path(name string) string {
	if p.WorkDir == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(p.WorkDir, name)
}

// expandPrereqs expands each declared prerequisite token; a token may
// expand to zero or more whitespace-separated names.
func (p *Planner) expandPrereqs(t *taskmkfile.Target) ([]string, error) {
	var names []string
	for _, token := range t.Prereqs {
		expanded, err := p.Store.Expand(token)
		if err != nil {
			return nil, fmt.Errorf("target %q: failed to expand prerequisite %q: %w", t.Name, token, err)
		}
		names = append(names, strings.Fields(expanded)...)
	}
	return names, nil
}
