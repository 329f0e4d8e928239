// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"taskmk-cli/internal/config"
	"taskmk-cli/internal/issue"
	"taskmk-cli/internal/testutil"
	"taskmk-cli/internal/vars"
	"taskmk-cli/pkg/taskmkfile"
)

func TestClassifyArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		args            []string
		wantRequested   []string
		wantAssignments map[string]string
	}{
		{
			name:            "targets only",
			args:            []string{"build", "test"},
			wantRequested:   []string{"build", "test"},
			wantAssignments: map[string]string{},
		},
		{
			name:            "assignments only",
			args:            []string{"CC=clang", "FLAGS=-O2 -g"},
			wantRequested:   nil,
			wantAssignments: map[string]string{"CC": "clang", "FLAGS": "-O2 -g"},
		},
		{
			name:            "mixed, value containing equals",
			args:            []string{"deploy", "OPTS=-Dkey=value", "prod"},
			wantRequested:   []string{"deploy", "prod"},
			wantAssignments: map[string]string{"OPTS": "-Dkey=value"},
		},
		{
			name:            "leading digit is not an assignment",
			args:            []string{"2fast=ok"},
			wantRequested:   []string{"2fast=ok"},
			wantAssignments: map[string]string{},
		},
		{
			name:            "empty value",
			args:            []string{"DEBUG="},
			wantRequested:   nil,
			wantAssignments: map[string]string{"DEBUG": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			requested, assignments := classifyArgs(tt.args)

			if len(requested) != len(tt.wantRequested) {
				t.Fatalf("requested = %v, want %v", requested, tt.wantRequested)
			}
			for i, want := range tt.wantRequested {
				if requested[i] != want {
					t.Errorf("requested[%d] = %q, want %q", i, requested[i], want)
				}
			}

			if len(assignments) != len(tt.wantAssignments) {
				t.Fatalf("assignments = %v, want %v", assignments, tt.wantAssignments)
			}
			for name, want := range tt.wantAssignments {
				if got := assignments[name]; got != want {
					t.Errorf("assignments[%q] = %q, want %q", name, got, want)
				}
			}
		})
	}
}

func TestBuildStore_SourcePrecedence(t *testing.T) {
	// Not parallel: mutates the process environment via t.Setenv.

	file, err := taskmkfile.ParseBytes([]byte(
		"CC = gcc\n"+
			"FLAGS ?= -O2\n"+
			"\n"+
			"build:\n"+
			"\techo $(CC)\n"), "taskmkfile")
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}

	t.Setenv("CC", "clang")
	t.Setenv("FLAGS", "-O0")

	store := buildStore(file, map[string]string{"CC": "tcc"}, nil)

	// Invocation beats environment beats file default.
	if got, _ := store.Get("CC"); got != "tcc" {
		t.Errorf("CC = %q, want %q", got, "tcc")
	}
	// Environment beats a '?=' default.
	if got, _ := store.Get("FLAGS"); got != "-O0" {
		t.Errorf("FLAGS = %q, want %q", got, "-O0")
	}

	if _, source, _ := store.Lookup("CC"); source != vars.SourceInvocation {
		t.Errorf("CC source = %v, want %v", source, vars.SourceInvocation)
	}
}

func TestBuildStore_EnvironmentOnlyForDeclaredNames(t *testing.T) {
	// Not parallel: mutates the process environment via t.Setenv.

	file, err := taskmkfile.ParseBytes([]byte(
		"CC = gcc\n"+
			".REQUIRE: API_TOKEN\n"+
			"\n"+
			"build:\n"+
			"\techo $(CC)\n"), "taskmkfile")
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}

	t.Setenv("API_TOKEN", "secret")
	t.Setenv("UNRELATED", "noise")

	store := buildStore(file, nil, nil)

	// Required names pick up environment values.
	if got, _ := store.Get("API_TOKEN"); got != "secret" {
		t.Errorf("API_TOKEN = %q, want %q", got, "secret")
	}
	// Names the file never mentions stay out of the store.
	if _, ok := store.Get("UNRELATED"); ok {
		t.Error("UNRELATED should not be in the store")
	}

	if errs := store.RequireAll(file.Required); len(errs) > 0 {
		t.Errorf("RequireAll: %v", errors.Join(errs...))
	}
}

func TestBuildStore_ARGSCollectsPassthroughTokens(t *testing.T) {
	t.Parallel()

	file, err := taskmkfile.ParseBytes([]byte(
		"lint:\n"+
			"\tgolangci-lint run $(ARGS)\n"), "taskmkfile")
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}

	store := buildStore(file, nil, []string{"lint", "--fix", "./..."})

	// Tokens that match no target become the ARGS value.
	if got, _ := store.Get("ARGS"); got != "--fix ./..." {
		t.Errorf("ARGS = %q, want %q", got, "--fix ./...")
	}
}

func TestBuildStore_ExplicitARGSAssignmentWins(t *testing.T) {
	t.Parallel()

	file, err := taskmkfile.ParseBytes([]byte(
		"build:\n"+
			"\techo $(ARGS)\n"), "taskmkfile")
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}

	// No passthrough tokens: the builtin must not clobber the user's value.
	store := buildStore(file, map[string]string{"ARGS": "foo"}, []string{"build"})
	if got, _ := store.Get("ARGS"); got != "foo" {
		t.Errorf("ARGS = %q, want %q", got, "foo")
	}

	// With passthrough tokens present, the explicit assignment still wins.
	store = buildStore(file, map[string]string{"ARGS": "foo"}, []string{"build", "--fix"})
	if got, _ := store.Get("ARGS"); got != "foo" {
		t.Errorf("ARGS with passthrough tokens = %q, want %q", got, "foo")
	}
}

func TestBuildStore_ARGSEmptyWhenAllTokensAreTargets(t *testing.T) {
	t.Parallel()

	file, err := taskmkfile.ParseBytes([]byte(
		"build:\n"+
			"\techo build\n"+
			"test: build\n"+
			"\techo test\n"), "taskmkfile")
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}

	store := buildStore(file, nil, []string{"build", "test"})

	if got, _ := store.Get("ARGS"); got != "" {
		t.Errorf("ARGS = %q, want empty", got)
	}
}

func TestLoadTaskmkfile(t *testing.T) {
	// Not parallel: changes the working directory.

	cfg := config.DefaultConfig()

	t.Run("configured name in current directory", func(t *testing.T) {
		dir := t.TempDir()
		content := "build:\n\techo ok\n"
		if err := os.WriteFile(filepath.Join(dir, cfg.FileName), []byte(content), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		restore := testutil.MustChdir(t, dir)
		defer restore()

		file, err := loadTaskmkfile("", cfg)
		if err != nil {
			t.Fatalf("loadTaskmkfile: %v", err)
		}
		if !file.HasTarget("build") {
			t.Error("expected target 'build'")
		}
	})

	t.Run("missing file maps to not-found issue", func(t *testing.T) {
		restore := testutil.MustChdir(t, t.TempDir())
		defer restore()

		_, err := loadTaskmkfile("", cfg)
		if err == nil {
			t.Fatal("expected error for missing file")
		}
		var svcErr *ServiceError
		if !errors.As(err, &svcErr) {
			t.Fatalf("expected ServiceError, got %T", err)
		}
		if svcErr.IssueID != issue.TaskmkfileNotFoundId {
			t.Errorf("IssueID = %d, want %d", svcErr.IssueID, issue.TaskmkfileNotFoundId)
		}
	})

	t.Run("parse failure maps to parse issue", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, cfg.FileName), []byte("\tstray recipe line\n"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		restore := testutil.MustChdir(t, dir)
		defer restore()

		_, err := loadTaskmkfile("", cfg)
		if err == nil {
			t.Fatal("expected parse error")
		}
		var svcErr *ServiceError
		if !errors.As(err, &svcErr) {
			t.Fatalf("expected ServiceError, got %T", err)
		}
		if svcErr.IssueID != issue.TaskmkfileParseErrorId {
			t.Errorf("IssueID = %d, want %d", svcErr.IssueID, issue.TaskmkfileParseErrorId)
		}
	})
}
