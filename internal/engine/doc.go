// SPDX-License-Identifier: MPL-2.0

// Package engine turns a parsed taskmkfile into an ordered execution plan
// and runs it.
//
// Planning and execution are separate phases: Resolve walks the target
// graph depth-first (prerequisites before dependents, left-to-right,
// each target at most once) and rejects cyclic graphs before any recipe
// runs. The Executor then walks the plan, skipping up-to-date file-backed
// targets, expanding each recipe line and delegating it to a runtime,
// and aborting the whole run on the first failure that is not marked
// ignorable.
//
// Invocation tokens that name no target resolve to silent no-op plan
// entries so trailing arguments destined for a delegated tool are never
// rejected as unknown targets.
package engine
