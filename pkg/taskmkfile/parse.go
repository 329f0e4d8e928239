// SPDX-License-Identifier: MPL-2.0

package taskmkfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// ErrParse is the sentinel error wrapped by ParseError.
var ErrParse = errors.New("taskmkfile parse error")

// ParseError is returned for any syntax error in a taskmkfile.
type ParseError struct {
	// Path is the file the error occurred in.
	Path string
	// Line is the 1-based line number.
	Line int
	// Msg describes the problem.
	Msg string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Msg)
}

// Unwrap returns ErrParse so callers can use errors.Is for programmatic detection.
func (e *ParseError) Unwrap() error { return ErrParse }

var variableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

const (
	directivePhony   = ".PHONY:"
	directiveDefault = ".DEFAULT:"
	directiveRequire = ".REQUIRE:"
)

// Parse reads and parses a taskmkfile from the given path.
func Parse(path string) (*Taskmkfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read taskmkfile at %s: %w", path, err)
	}
	return ParseBytes(data, path)
}

// sourceLine pairs a logical line (continuations already joined) with the
// physical line number it started on.
type sourceLine struct {
	text string
	num  int
}

// ParseBytes parses taskmkfile content from bytes. The path is used only
// for error reporting.
func ParseBytes(data []byte, path string) (*Taskmkfile, error) {
	f := &Taskmkfile{FilePath: path}

	lines, err := scanLogicalLines(data)
	if err != nil {
		return nil, err
	}

	var (
		current     *Target
		phonyNames  []string
		defaultName string
		defaultLine int
	)

	fail := func(num int, format string, args ...any) error {
		return &ParseError{Path: path, Line: num, Msg: fmt.Sprintf(format, args...)}
	}

	for _, ln := range lines {
		// Recipe lines keep their text verbatim: '#' belongs to the shell
		// there, and leading markers are significant.
		if strings.HasPrefix(ln.text, "\t") {
			body := strings.TrimSpace(ln.text)
			if body == "" {
				continue
			}
			if current == nil {
				return nil, fail(ln.num, "recipe line outside of a target")
			}
			current.Recipe = append(current.Recipe, parseRecipeLine(body, ln.num))
			continue
		}

		text := stripComment(ln.text)
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		current = nil

		switch {
		case strings.HasPrefix(text, directivePhony):
			phonyNames = append(phonyNames, strings.Fields(text[len(directivePhony):])...)
			continue
		case strings.HasPrefix(text, directiveDefault):
			names := strings.Fields(text[len(directiveDefault):])
			if len(names) != 1 {
				return nil, fail(ln.num, ".DEFAULT takes exactly one target name")
			}
			defaultName, defaultLine = names[0], ln.num
			continue
		case strings.HasPrefix(text, directiveRequire):
			names := strings.Fields(text[len(directiveRequire):])
			if len(names) == 0 {
				return nil, fail(ln.num, ".REQUIRE takes at least one variable name")
			}
			for _, name := range names {
				if !variableNameRe.MatchString(name) {
					return nil, fail(ln.num, "invalid variable name %q in .REQUIRE", name)
				}
			}
			f.Required = append(f.Required, names...)
			continue
		case strings.HasPrefix(text, "."):
			return nil, fail(ln.num, "unknown directive %q", strings.Fields(text)[0])
		}

		colon := strings.IndexByte(text, ':')
		equals := strings.IndexByte(text, '=')

		if equals >= 0 && (colon < 0 || equals < colon) {
			a, perr := parseAssignment(text, equals, ln.num, path)
			if perr != nil {
				return nil, perr
			}
			f.Assignments = append(f.Assignments, *a)
			continue
		}

		if colon < 0 {
			return nil, fail(ln.num, "expected a target declaration or variable assignment")
		}

		t, perr := parseTargetLine(text, colon, ln.num, path)
		if perr != nil {
			return nil, perr
		}
		if _, dup := f.Lookup(t.Name); dup {
			return nil, fail(ln.num, "target %q is already defined", t.Name)
		}
		f.addTarget(t)
		current = t
	}

	for _, name := range phonyNames {
		if t, ok := f.Lookup(name); ok {
			t.Phony = true
		}
		// Names without a matching target are tolerated; they may refer to
		// targets supplied by a future edit and carry no semantics alone.
	}

	switch {
	case defaultName != "":
		if !f.HasTarget(defaultName) {
			return nil, fail(defaultLine, ".DEFAULT names unknown target %q", defaultName)
		}
		f.DefaultTarget = defaultName
	case len(f.Targets) > 0:
		f.DefaultTarget = f.Targets[0].Name
	}

	return f, nil
}

// scanLogicalLines splits the input into logical lines, joining lines that
// end with an unescaped backslash. The reported line number is the physical
// line the logical line started on.
func scanLogicalLines(data []byte) ([]sourceLine, error) {
	var (
		lines   []sourceLine
		pending strings.Builder
		start   int
		num     int
	)

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		num++
		line := scanner.Text()
		if pending.Len() == 0 {
			start = num
		} else {
			// Leading whitespace of a continuation line collapses into the
			// single joining space.
			line = strings.TrimLeft(line, " \t")
		}
		if endsWithContinuation(line) {
			pending.WriteString(strings.TrimRight(line[:len(line)-1], " \t"))
			pending.WriteString(" ")
			continue
		}
		pending.WriteString(line)
		lines = append(lines, sourceLine{text: pending.String(), num: start})
		pending.Reset()
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan taskmkfile: %w", err)
	}
	if pending.Len() > 0 {
		lines = append(lines, sourceLine{text: pending.String(), num: start})
	}
	return lines, nil
}

// endsWithContinuation reports whether the line ends with an unescaped '\'.
func endsWithContinuation(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// stripComment removes an unescaped '#' comment from a declaration line.
// The sequence '\#' produces a literal '#'.
func stripComment(line string) string {
	var out strings.Builder
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '\\' && i+1 < len(line) && line[i+1] == '#' {
			out.WriteByte('#')
			i++
			continue
		}
		if c == '#' {
			break
		}
		out.WriteByte(c)
	}
	return out.String()
}

// parseRecipeLine strips the '@' (suppress echo) and '-' (ignore failure)
// markers from the front of a recipe line. The markers are independent and
// accepted in either order, each at most once; stripping stops at the first
// byte that is neither marker.
func parseRecipeLine(body string, num int) RecipeLine {
	rl := RecipeLine{Line: num}
	for body != "" {
		switch {
		case body[0] == '@' && !rl.SuppressEcho:
			rl.SuppressEcho = true
		case body[0] == '-' && !rl.IgnoreFailure:
			rl.IgnoreFailure = true
		default:
			rl.Command = strings.TrimSpace(body)
			return rl
		}
		body = strings.TrimLeft(body[1:], " \t")
	}
	return rl
}

func parseAssignment(text string, equals, num int, path string) (*Assignment, *ParseError) {
	name := strings.TrimSpace(text[:equals])
	conditional := false
	if strings.HasSuffix(name, "?") {
		conditional = true
		name = strings.TrimSpace(name[:len(name)-1])
	}
	if !variableNameRe.MatchString(name) {
		return nil, &ParseError{Path: path, Line: num, Msg: fmt.Sprintf("invalid variable name %q", name)}
	}
	return &Assignment{
		Name:        name,
		Value:       strings.TrimSpace(text[equals+1:]),
		Conditional: conditional,
		Line:        num,
	}, nil
}

func parseTargetLine(text string, colon, num int, path string) (*Target, *ParseError) {
	head := strings.Fields(text[:colon])
	if len(head) == 0 {
		return nil, &ParseError{Path: path, Line: num, Msg: "missing target name before ':'"}
	}
	if len(head) > 1 {
		return nil, &ParseError{Path: path, Line: num, Msg: "a rule declares exactly one target"}
	}
	name := TargetName(head[0])
	if ok, errs := name.IsValid(); !ok {
		return nil, &ParseError{Path: path, Line: num, Msg: errs[0].Error()}
	}
	return &Target{
		Name:    name.String(),
		Prereqs: strings.Fields(text[colon+1:]),
		Line:    num,
	}, nil
}
