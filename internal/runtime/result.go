// SPDX-License-Identifier: MPL-2.0

package runtime

// Result is the outcome of executing one recipe line.
type Result struct {
	// ExitCode is the subprocess exit status; 0 means success.
	ExitCode ExitCode
	// Error is set only for infrastructure failures (the command could
	// not be run at all). A command that ran and exited non-zero has a
	// non-zero ExitCode and a nil Error.
	Error error
}

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
// Use this for non-zero exits that represent normal process termination
// rather than infrastructure failures.
func NewExitCodeResult(code ExitCode) *Result {
	return &Result{ExitCode: code}
}
