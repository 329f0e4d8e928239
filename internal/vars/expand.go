// SPDX-License-Identifier: MPL-2.0

package vars

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnterminatedReference is the sentinel error wrapped by UnterminatedReferenceError.
var ErrUnterminatedReference = errors.New("unterminated variable reference")

// UnterminatedReferenceError is returned when a '$(' has no closing ')'.
type UnterminatedReferenceError struct {
	// Input is the text being expanded, from the offending '$(' onwards.
	Input string
}

// Error implements the error interface.
func (e *UnterminatedReferenceError) Error() string {
	return fmt.Sprintf("unterminated variable reference %q", e.Input)
}

// Unwrap returns ErrUnterminatedReference so callers can use errors.Is for programmatic detection.
func (e *UnterminatedReferenceError) Unwrap() error { return ErrUnterminatedReference }

// Expand substitutes every $(NAME) reference in input with the stored
// value in a single pass: a value that itself contains $(OTHER) is
// inserted literally and never re-expanded, so reference chains cannot
// recurse. '$$' produces a literal '$'; unset names expand to the empty
// string; any other '$' passes through unchanged.
func (s *Store) Expand(input string) (string, error) {
	var out strings.Builder
	for i := 0; i < len(input); {
		c := input[i]
		if c != '$' {
			out.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(input) {
			out.WriteByte('$')
			break
		}
		switch input[i+1] {
		case '$':
			out.WriteByte('$')
			i += 2
		case '(':
			end := strings.IndexByte(input[i+2:], ')')
			if end < 0 {
				return "", &UnterminatedReferenceError{Input: input[i:]}
			}
			name := input[i+2 : i+2+end]
			value, _ := s.Get(strings.TrimSpace(name))
			out.WriteString(value)
			i += end + 3
		default:
			out.WriteByte('$')
			i++
		}
	}
	return out.String(), nil
}
