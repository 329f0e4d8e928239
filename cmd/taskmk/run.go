// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"taskmk-cli/internal/config"
	"taskmk-cli/internal/container"
	"taskmk-cli/internal/dag"
	"taskmk-cli/internal/engine"
	"taskmk-cli/internal/issue"
	"taskmk-cli/internal/runtime"
	"taskmk-cli/internal/vars"
	"taskmk-cli/pkg/taskmkfile"
)

var (
	// runFile overrides the taskmkfile path for a single invocation.
	runFile string
	// runJobs sets the maximum number of targets executed concurrently.
	runJobs int
	// runDryRun prints recipe lines without executing them.
	runDryRun bool
	// runRuntimeOverride overrides the configured runtime mode.
	runRuntimeOverride string
	// runImage overrides the configured container image.
	runImage string
	// runAlwaysRun rebuilds targets even when they are up to date.
	runAlwaysRun bool
)

// assignmentPattern matches NAME=value invocation arguments.
var assignmentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*=`)

var runCmd = &cobra.Command{
	Use:   "run [targets...] [NAME=value...]",
	Short: "Run targets from a taskmkfile",
	Long: `Run one or more targets defined in a taskmkfile.

Targets are resolved against their prerequisites and executed in
dependency order. Arguments of the form NAME=value become invocation
variables, which override both environment values and file defaults.
Any other argument names a target; names that match no target are
passed through to the recipes via the ARGS variable.

With no targets, the default target is run (the first declared target,
or the one named by a .DEFAULT: directive).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTargets(cmd, args)
	},
}

func init() {
	runCmd.Flags().StringVarP(&runFile, "file", "f", "", "taskmkfile to read (defaults to the configured name in the current directory)")
	runCmd.Flags().IntVarP(&runJobs, "jobs", "j", 0, "number of targets to run in parallel (defaults to the configured value)")
	runCmd.Flags().BoolVarP(&runDryRun, "dry-run", "n", false, "print recipe lines without executing them")
	runCmd.Flags().StringVar(&runRuntimeOverride, "runtime", "", "runtime mode to execute recipes with (native, virtual, container)")
	runCmd.Flags().StringVar(&runImage, "image", "", "container image to use with the container runtime")
	runCmd.Flags().BoolVarP(&runAlwaysRun, "always-run", "B", false, "run targets even when they are up to date")
}

// runTargets loads the taskmkfile, assembles the variable store, resolves
// the execution plan, and runs it.
func runTargets(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	file, err := loadTaskmkfile(runFile, cfg)
	if err != nil {
		return renderKnownError(cmd, err)
	}

	requested, assignments := classifyArgs(args)

	store := buildStore(file, assignments, requested)

	if errs := store.RequireAll(file.Required); len(errs) > 0 {
		joined := errors.Join(errs...)
		return renderKnownError(cmd, newServiceError(joined, issue.UndefinedVariableId,
			ErrorStyle.Render(fmt.Sprintf("Error: %v", joined))+"\n"))
	}

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining working directory: %w", err)
	}

	planner := &engine.Planner{File: file, Store: store, WorkDir: wd}
	plan, err := planner.Resolve(requested)
	if err != nil {
		return renderKnownError(cmd, classifyPlanError(err))
	}

	rt, err := selectRuntime(cfg)
	if err != nil {
		return renderKnownError(cmd, err)
	}

	executor := &engine.Executor{
		File:      file,
		Store:     store,
		Runtime:   rt,
		WorkDir:   wd,
		Stdin:     cmd.InOrStdin(),
		Stdout:    cmd.OutOrStdout(),
		Stderr:    cmd.ErrOrStderr(),
		DryRun:    runDryRun,
		AlwaysRun: runAlwaysRun,
	}

	jobs := runJobs
	if jobs <= 0 {
		jobs = cfg.Jobs
	}

	if jobs > 1 {
		err = executor.RunParallel(cmd.Context(), plan, jobs)
	} else {
		err = executor.Run(cmd.Context(), plan)
	}
	if err != nil {
		var recipeErr *engine.RecipeError
		if errors.As(err, &recipeErr) {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", ErrorStyle.Render(recipeErr.Error()))
			if verbose {
				renderServiceError(cmd.ErrOrStderr(), newServiceError(recipeErr, issue.RecipeFailedId, ""))
			}
			return &ExitError{Code: recipeErr.ExitCode, Err: recipeErr}
		}
		return renderKnownError(cmd, err)
	}

	return nil
}

// classifyArgs splits invocation arguments into requested target tokens and
// NAME=value variable assignments.
func classifyArgs(args []string) (requested []string, assignments map[string]string) {
	assignments = make(map[string]string)
	for _, arg := range args {
		if assignmentPattern.MatchString(arg) {
			name, value, _ := strings.Cut(arg, "=")
			assignments[name] = value
			continue
		}
		requested = append(requested, arg)
	}
	return requested, assignments
}

// buildStore assembles the variable store from file assignments, the process
// environment, and invocation assignments, in ascending precedence.
func buildStore(file *taskmkfile.Taskmkfile, assignments map[string]string, requested []string) *vars.Store {
	store := vars.New()

	for _, a := range file.Assignments {
		if a.Conditional {
			store.SetConditionalDefault(a.Name, a.Value)
		} else {
			store.Set(a.Name, a.Value, vars.SourceDefault)
		}
	}

	// Environment values override file defaults, but only for names the
	// file declares or requires. The rest of the process environment is
	// still visible to recipes via the runtime.
	for _, name := range append(file.VariableNames(), file.Required...) {
		if value, ok := os.LookupEnv(name); ok {
			store.Set(name, value, vars.SourceEnvironment)
		}
	}

	for name, value := range assignments {
		store.Set(name, value, vars.SourceInvocation)
	}

	// ARGS carries the tokens that matched no target, letting recipes
	// receive passthrough arguments. An explicit ARGS= on the invocation
	// line wins over the builtin.
	if _, assigned := assignments["ARGS"]; !assigned {
		passthrough := make([]string, 0, len(requested))
		for _, token := range requested {
			if !file.HasTarget(token) {
				passthrough = append(passthrough, token)
			}
		}
		store.Set("ARGS", strings.Join(passthrough, " "), vars.SourceInvocation)
	}

	return store
}

// loadTaskmkfile locates and parses the taskmkfile for this invocation.
func loadTaskmkfile(explicit string, cfg *config.Config) (*taskmkfile.Taskmkfile, error) {
	path := explicit
	if path == "" {
		path = cfg.FileName
	}

	if _, err := os.Stat(path); err != nil {
		notFound := fmt.Errorf("no taskmkfile found at %q: %w", path, err)
		return nil, newServiceError(notFound, issue.TaskmkfileNotFoundId,
			ErrorStyle.Render(fmt.Sprintf("Error: %v", notFound))+"\n")
	}

	file, err := taskmkfile.Parse(path)
	if err != nil {
		return nil, newServiceError(err, issue.TaskmkfileParseErrorId,
			ErrorStyle.Render(fmt.Sprintf("Error: %v", err))+"\n")
	}
	return file, nil
}

// classifyPlanError maps planner failures onto their issue catalog entries.
func classifyPlanError(err error) error {
	var cycleErr *dag.CycleError
	if errors.As(err, &cycleErr) {
		return newServiceError(err, issue.DependencyCycleId,
			ErrorStyle.Render(fmt.Sprintf("Error: %v", err))+"\n")
	}

	var missingErr *engine.MissingPrerequisiteError
	if errors.As(err, &missingErr) {
		return newServiceError(err, issue.MissingPrerequisiteId,
			ErrorStyle.Render(fmt.Sprintf("Error: %v", err))+"\n")
	}

	if errors.Is(err, engine.ErrNoTargets) {
		return newServiceError(err, issue.NoTargetsId,
			ErrorStyle.Render(fmt.Sprintf("Error: %v", err))+"\n")
	}

	return err
}

// selectRuntime builds the runtime for this invocation, honoring flag
// overrides before configuration.
func selectRuntime(cfg *config.Config) (runtime.Runtime, error) {
	modeName := runRuntimeOverride
	if modeName == "" {
		modeName = cfg.DefaultRuntime.String()
	}

	mode := runtime.Mode(modeName)
	if ok, errs := mode.IsValid(); !ok {
		err := fmt.Errorf("invalid runtime mode %q: %w", modeName, errors.Join(errs...))
		return nil, newServiceError(err, issue.InvalidRuntimeModeId,
			ErrorStyle.Render(fmt.Sprintf("Error: %v", err))+"\n")
	}

	image := runImage
	if image == "" {
		image = cfg.Container.Image
	}

	rt, err := runtime.New(mode, runtime.Options{
		Shell:  cfg.Shell,
		Image:  image,
		Engine: cfg.Container.Engine.String(),
	})
	if err != nil {
		id := issue.InvalidRuntimeModeId
		if errors.Is(err, container.ErrEngineNotFound) {
			id = issue.ContainerEngineNotFoundId
		}
		return nil, newServiceError(err, id,
			ErrorStyle.Render(fmt.Sprintf("Error: %v", err))+"\n")
	}
	if !rt.Available() {
		err := fmt.Errorf("runtime %q is not available on this system", rt.Name())
		id := issue.ShellNotFoundId
		if mode == runtime.ModeContainer {
			id = issue.ContainerEngineNotFoundId
		}
		return nil, newServiceError(err, id,
			ErrorStyle.Render(fmt.Sprintf("Error: %v", err))+"\n")
	}
	return rt, nil
}

// renderKnownError renders ServiceError values to stderr and returns the
// underlying error so cobra reports a failure without double-printing.
func renderKnownError(cmd *cobra.Command, err error) error {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(cmd.ErrOrStderr(), svcErr)
		cmd.SilenceErrors = true
		return &ExitError{Code: runtime.ExitCode(1), Err: svcErr.Err}
	}
	return err
}
