// SPDX-License-Identifier: MPL-2.0

// Package runtime provides recipe execution runtimes for taskmk.
//
// Three runtime implementations are available:
//   - native: executes recipe lines using the host shell (sh/bash)
//   - virtual: executes recipe lines using an embedded shell interpreter (mvdan/sh)
//   - container: executes recipe lines inside a transient container (Docker/Podman)
//
// All runtimes implement the Runtime interface with Name(), Available() and
// Execute(). A recipe line's non-zero exit is a normal Result with a
// non-zero ExitCode; Result.Error is reserved for infrastructure failures
// (missing shell, unparseable script, engine not reachable).
package runtime
