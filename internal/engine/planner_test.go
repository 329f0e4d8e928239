// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"taskmk-cli/internal/dag"
	"taskmk-cli/internal/vars"
	"taskmk-cli/pkg/taskmkfile"
)

func mustParse(t *testing.T, src string) *taskmkfile.Taskmkfile {
	t.Helper()
	file, err := taskmkfile.ParseBytes([]byte(src), "taskmkfile")
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	return file
}

func newPlanner(t *testing.T, src string) *Planner {
	t.Helper()
	return &Planner{File: mustParse(t, src), Store: vars.New(), WorkDir: t.TempDir()}
}

func TestResolve_ChainPostOrder(t *testing.T) {
	t.Parallel()

	p := newPlanner(t, `
A: B
	echo a
B: C
	echo b
C:
	echo c
`)
	plan, err := p.Resolve([]string{"A"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{"C", "B", "A"}
	if got := plan.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("plan order = %v, want %v", got, want)
	}
}

func TestResolve_DiamondVisitsOnce(t *testing.T) {
	t.Parallel()

	p := newPlanner(t, `
all: left right
	echo all
left: base
	echo left
right: base
	echo right
base:
	echo base
`)
	plan, err := p.Resolve([]string{"all"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{"base", "left", "right", "all"}
	if got := plan.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("plan order = %v, want %v", got, want)
	}
}

func TestResolve_DefaultTarget(t *testing.T) {
	t.Parallel()

	p := newPlanner(t, `
first:
	echo first
second:
	echo second
`)
	plan, err := p.Resolve(nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := plan.Names(); !reflect.DeepEqual(got, []string{"first"}) {
		t.Errorf("plan order = %v, want [first]", got)
	}
}

func TestResolve_NoTargets(t *testing.T) {
	t.Parallel()

	p := newPlanner(t, "NAME = value\n")
	if _, err := p.Resolve(nil); !errors.Is(err, ErrNoTargets) {
		t.Errorf("Resolve() error = %v, want ErrNoTargets", err)
	}
}

func TestResolve_PassthroughTokenIsNoOp(t *testing.T) {
	t.Parallel()

	p := newPlanner(t, `
lint:
	echo lint
`)
	plan, err := p.Resolve([]string{"lint", "--fix", "extra"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{"lint", "--fix", "extra"}
	if got := plan.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("plan order = %v, want %v", got, want)
	}
	for _, step := range plan.Steps[1:] {
		if step.Kind != StepNoOp {
			t.Errorf("step %q kind = %v, want StepNoOp", step.Name, step.Kind)
		}
	}
}

func TestResolve_FilePrerequisite(t *testing.T) {
	t.Parallel()

	p := newPlanner(t, `
out: in.txt
	echo out
`)
	if err := os.WriteFile(filepath.Join(p.WorkDir, "in.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	plan, err := p.Resolve([]string{"out"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := plan.Names(); !reflect.DeepEqual(got, []string{"in.txt", "out"}) {
		t.Errorf("plan order = %v, want [in.txt out]", got)
	}
	if plan.Steps[0].Kind != StepFile {
		t.Errorf("step kind = %v, want StepFile", plan.Steps[0].Kind)
	}
}

func TestResolve_MissingPrerequisite(t *testing.T) {
	t.Parallel()

	p := newPlanner(t, `
out: nope.txt
	echo out
`)
	_, err := p.Resolve([]string{"out"})
	if !errors.Is(err, ErrMissingPrerequisite) {
		t.Fatalf("Resolve() error = %v, want ErrMissingPrerequisite", err)
	}
	var missing *MissingPrerequisiteError
	if !errors.As(err, &missing) {
		t.Fatalf("Resolve() error type = %T, want *MissingPrerequisiteError", err)
	}
	if missing.Prereq != "nope.txt" || missing.Target != "out" {
		t.Errorf("MissingPrerequisiteError = %+v", missing)
	}
}

func TestResolve_CycleFailsBeforeExecution(t *testing.T) {
	t.Parallel()

	p := newPlanner(t, `
A: B
	echo a
B: A
	echo b
`)
	_, err := p.Resolve([]string{"A"})
	var cycle *dag.CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("Resolve() error = %v, want *dag.CycleError", err)
	}
}

func TestResolve_ExpandsVariablesInNamesAndPrereqs(t *testing.T) {
	t.Parallel()

	p := newPlanner(t, `
DEPS = fmt vet
check: $(DEPS)
	echo check
fmt:
	echo fmt
vet:
	echo vet
`)
	for _, a := range p.File.Assignments {
		p.Store.Set(a.Name, a.Value, vars.SourceDefault)
	}
	plan, err := p.Resolve([]string{"check"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{"fmt", "vet", "check"}
	if got := plan.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("plan order = %v, want %v", got, want)
	}
}
