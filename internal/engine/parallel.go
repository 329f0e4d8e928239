// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"fmt"
	"os"
)

type stepState int

const (
	statePending stepState = iota
	stateRunning
	stateDone
)

type stepResult struct {
	name string
	err  error
}

// RunParallel executes the plan with up to jobs recipes in flight at
// once. A step becomes eligible when every plan step it depends on has
// finished; independent steps may interleave their output. The first
// failure cancels the remaining work, and already-running steps are
// drained before returning.
func (e *Executor) RunParallel(ctx context.Context, plan *Plan, jobs int) error {
	if jobs <= 1 {
		return e.Run(ctx, plan)
	}

	env := e.Store.Environ(os.Environ())
	overlay := e.Store.OverlayEnviron()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	inPlan := make(map[string]Step, len(plan.Steps))
	for _, step := range plan.Steps {
		inPlan[step.Name] = step
	}

	// deps keeps only edges between plan steps; prerequisites that are
	// plain files never gate scheduling.
	deps := make(map[string]map[string]bool, len(plan.Steps))
	states := make(map[string]stepState, len(plan.Steps))
	for _, step := range plan.Steps {
		states[step.Name] = statePending
		blocked := make(map[string]bool)
		for _, prereq := range step.Prereqs {
			if _, ok := inPlan[prereq]; ok {
				blocked[prereq] = true
			}
		}
		deps[step.Name] = blocked
	}

	results := make(chan stepResult)
	running := 0
	remaining := len(plan.Steps)
	var firstErr error

	dispatch := func() {
		for _, step := range plan.Steps {
			if running >= jobs || firstErr != nil {
				return
			}
			if states[step.Name] != statePending || len(deps[step.Name]) > 0 {
				continue
			}
			states[step.Name] = stateRunning
			running++
			step := step
			go func() {
				results <- stepResult{name: step.Name, err: e.executeStep(ctx, step, env, overlay)}
			}()
		}
	}

	dispatch()
	for remaining > 0 {
		if running == 0 {
			if firstErr != nil {
				break
			}
			// Pending steps with unsatisfied deps and nothing running
			// means the resolver let a cycle through; fail loudly.
			return fmt.Errorf("scheduler stalled with %d steps remaining", remaining)
		}
		res := <-results
		running--
		remaining--
		states[res.name] = stateDone
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
				cancel()
			}
			continue
		}
		for _, blocked := range deps {
			delete(blocked, res.name)
		}
		dispatch()
	}

	// Drain workers started before cancellation.
	for running > 0 {
		<-results
		running--
	}
	return firstErr
}
