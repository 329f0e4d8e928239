// SPDX-License-Identifier: MPL-2.0

// Package container provides an abstraction layer for container engines
// (Docker/Podman). taskmk only ever runs one-shot transient containers:
// the engine CLI is invoked with `run --rm`, the recipe line's exit code
// is the container's exit code, and no images are built or managed here.
package container
