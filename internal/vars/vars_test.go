// SPDX-License-Identifier: MPL-2.0

package vars

import (
	"errors"
	"slices"
	"testing"
)

func TestStore_SourcePrecedence(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		sets  func(s *Store)
		want  string
		wantS Source
	}{
		{
			name: "invocation beats environment beats default",
			sets: func(s *Store) {
				s.Set("V", "dflt", SourceDefault)
				s.Set("V", "env", SourceEnvironment)
				s.Set("V", "inv", SourceInvocation)
			},
			want: "inv", wantS: SourceInvocation,
		},
		{
			name: "priority holds regardless of declaration order",
			sets: func(s *Store) {
				s.Set("V", "inv", SourceInvocation)
				s.Set("V", "env", SourceEnvironment)
				s.Set("V", "dflt", SourceDefault)
			},
			want: "inv", wantS: SourceInvocation,
		},
		{
			name: "later default wins over earlier default",
			sets: func(s *Store) {
				s.Set("V", "first", SourceDefault)
				s.Set("V", "second", SourceDefault)
			},
			want: "second", wantS: SourceDefault,
		},
		{
			name: "environment wins over default set afterwards",
			sets: func(s *Store) {
				s.Set("V", "env", SourceEnvironment)
				s.Set("V", "dflt", SourceDefault)
			},
			want: "env", wantS: SourceEnvironment,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := New()
			tt.sets(s)
			value, source, ok := s.Lookup("V")
			if !ok {
				t.Fatal("variable not found")
			}
			if value != tt.want || source != tt.wantS {
				t.Errorf("got (%q, %v), want (%q, %v)", value, source, tt.want, tt.wantS)
			}
		})
	}
}

func TestStore_ConditionalDefault(t *testing.T) {
	t.Parallel()
	s := New()
	s.SetConditionalDefault("A", "one")
	s.SetConditionalDefault("A", "two")
	if v, _ := s.Get("A"); v != "one" {
		t.Errorf("conditional default overwrote existing value: %q", v)
	}

	s.Set("B", "env", SourceEnvironment)
	s.SetConditionalDefault("B", "dflt")
	if v, _ := s.Get("B"); v != "env" {
		t.Errorf("conditional default overrode environment value: %q", v)
	}
}

func TestStore_RequireAll(t *testing.T) {
	t.Parallel()
	s := New()
	s.Set("PRESENT", "x", SourceDefault)
	errs := s.RequireAll([]string{"PRESENT", "MISSING"})
	if len(errs) != 1 {
		t.Fatalf("expected 1 error, got %d", len(errs))
	}
	if !errors.Is(errs[0], ErrUndefinedVariable) {
		t.Errorf("error does not wrap ErrUndefinedVariable: %v", errs[0])
	}
	var uv *UndefinedVariableError
	if !errors.As(errs[0], &uv) || uv.Name != "MISSING" {
		t.Errorf("unexpected error detail: %v", errs[0])
	}
}

func TestStore_Environ(t *testing.T) {
	t.Parallel()
	s := New()
	s.Set("FROM_FILE", "hidden", SourceDefault)
	s.Set("PATH", "/custom/bin", SourceInvocation)
	s.Set("EXTRA", "1", SourceEnvironment)

	env := s.Environ([]string{"PATH=/usr/bin", "HOME=/home/u"})

	if slices.Contains(env, "PATH=/usr/bin") {
		t.Error("base PATH not overridden by invocation value")
	}
	for _, want := range []string{"PATH=/custom/bin", "HOME=/home/u", "EXTRA=1"} {
		if !slices.Contains(env, want) {
			t.Errorf("missing %q in %v", want, env)
		}
	}
	if slices.Contains(env, "FROM_FILE=hidden") {
		t.Error("file default leaked into the subprocess environment")
	}
}

func TestStore_Expand(t *testing.T) {
	t.Parallel()
	s := New()
	s.Set("NAME", "world", SourceDefault)
	s.Set("NESTED", "$(NAME)", SourceDefault)

	tests := []struct {
		in   string
		want string
	}{
		{"echo hello $(NAME)", "echo hello world"},
		{"echo $(UNSET)!", "echo !"},
		{"cost: $$5", "cost: $5"},
		{"plain $ sign", "plain $ sign"},
		{"trailing $", "trailing $"},
		// Single pass: a value containing a reference is inserted literally.
		{"echo $(NESTED)", "echo $(NAME)"},
		{"$( NAME )", "world"},
	}
	for _, tt := range tests {
		got, err := s.Expand(tt.in)
		if err != nil {
			t.Errorf("Expand(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStore_ExpandUnterminated(t *testing.T) {
	t.Parallel()
	s := New()
	_, err := s.Expand("echo $(OOPS")
	if !errors.Is(err, ErrUnterminatedReference) {
		t.Errorf("expected ErrUnterminatedReference, got %v", err)
	}
}
