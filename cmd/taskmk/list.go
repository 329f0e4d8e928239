// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"taskmk-cli/internal/config"
)

// listFile overrides the taskmkfile path for a single invocation.
var listFile string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List targets declared in the taskmkfile",
	Long: `List all targets declared in the taskmkfile, together with their
prerequisites. The default target is marked with an asterisk and phony
targets are annotated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listTargets(cmd)
	},
}

func init() {
	listCmd.Flags().StringVarP(&listFile, "file", "f", "", "taskmkfile to read (defaults to the configured name in the current directory)")
}

func listTargets(cmd *cobra.Command) error {
	cfg := config.Get()

	file, err := loadTaskmkfile(listFile, cfg)
	if err != nil {
		return renderKnownError(cmd, err)
	}

	out := cmd.OutOrStdout()

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	legendStyle := lipgloss.NewStyle().Foreground(ColorMuted).Italic(true)
	prereqStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	phonyStyle := lipgloss.NewStyle().Foreground(ColorWarning)

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Targets in %s", file.FilePath)))
	fmt.Fprintln(out, legendStyle.Render("  (* = default target)"))
	fmt.Fprintln(out)

	for _, target := range file.Targets {
		marker := " "
		if target.Name == file.DefaultTarget {
			marker = "*"
		}

		line := fmt.Sprintf("%s %s", marker, TargetStyle.Render(target.Name))
		if len(target.Prereqs) > 0 {
			line += fmt.Sprintf(": %s", prereqStyle.Render(strings.Join(target.Prereqs, " ")))
		}
		if target.Phony {
			line += " " + phonyStyle.Render("(phony)")
		}
		fmt.Fprintln(out, line)
	}

	if names := file.VariableNames(); len(names) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, legendStyle.Render(fmt.Sprintf("Variables: %s", strings.Join(names, ", "))))
	}
	if len(file.Required) > 0 {
		fmt.Fprintln(out, legendStyle.Render(fmt.Sprintf("Required: %s", strings.Join(file.Required, ", "))))
	}

	return nil
}
