// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"taskmk-cli/internal/config"
	"taskmk-cli/internal/dag"
	"taskmk-cli/internal/issue"
	"taskmk-cli/internal/vars"
	"taskmk-cli/pkg/taskmkfile"
)

// validateFile overrides the taskmkfile path for a single invocation.
var validateFile string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the taskmkfile without running anything",
	Long: `Validate the taskmkfile: check that it parses, that the full
dependency graph is acyclic, and that every required variable has a
value from some source.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateTaskmkfile(cmd)
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "taskmkfile to read (defaults to the configured name in the current directory)")
}

func validateTaskmkfile(cmd *cobra.Command) error {
	cfg := config.Get()
	out := cmd.OutOrStdout()

	file, err := loadTaskmkfile(validateFile, cfg)
	if err != nil {
		return renderKnownError(cmd, err)
	}

	store := buildStore(file, nil, nil)

	if err := checkGraph(file, store); err != nil {
		return renderKnownError(cmd, classifyPlanError(err))
	}

	if errs := store.RequireAll(file.Required); len(errs) > 0 {
		joined := errors.Join(errs...)
		return renderKnownError(cmd, newServiceError(joined, issue.UndefinedVariableId,
			ErrorStyle.Render(fmt.Sprintf("Error: %v", joined))+"\n"))
	}

	fmt.Fprintf(out, "%s %s is valid (%d targets)\n",
		SuccessStyle.Render("✓"), file.FilePath, len(file.Targets))
	return nil
}

// checkGraph expands every target's prerequisites and topologically sorts
// the whole graph so cycles surface even for targets never requested.
func checkGraph(file *taskmkfile.Taskmkfile, store *vars.Store) error {
	g := dag.New()

	for _, target := range file.Targets {
		g.AddNode(target.Name)
	}

	for _, target := range file.Targets {
		for _, token := range target.Prereqs {
			expanded, err := store.Expand(token)
			if err != nil {
				return fmt.Errorf("target %q: %w", target.Name, err)
			}
			for _, name := range strings.Fields(expanded) {
				// Every declared target is already a node, so a name
				// outside the graph is a file prerequisite.
				if !g.HasNode(name) {
					// Undeclared prerequisites are files; they only
					// need to exist when the target actually runs.
					if _, statErr := os.Stat(name); statErr != nil {
						fmt.Fprintf(os.Stderr, "%s prerequisite %q of target %q is neither a target nor an existing file\n",
							WarningStyle.Render("!"), name, target.Name)
					}
					continue
				}
				g.AddEdge(name, target.Name)
			}
		}
	}

	if _, err := g.TopologicalSort(); err != nil {
		return err
	}
	return nil
}
