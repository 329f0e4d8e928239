// SPDX-License-Identifier: MPL-2.0

// Package taskmkfile provides types and parsing for taskmkfile target definitions.
//
// A taskmkfile declares named targets with prerequisites and tab-indented
// recipe lines, plus variable assignments and a small set of dot-directives
// (.PHONY, .DEFAULT, .REQUIRE). The format is line-oriented; this package
// only deals with syntax; dependency resolution, variable expansion and
// recipe execution live in internal/engine and internal/vars.
//
// External consumers should use the exported Parse() and ParseBytes()
// functions; the line-scanning internals are not part of the public API.
package taskmkfile
