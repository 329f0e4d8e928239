// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"taskmk-cli/internal/config"
)

var initForce bool

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing taskmkfile")
}

// initCmd creates a starter taskmkfile in the current directory.
var initCmd = &cobra.Command{
	Use:   "init [filename]",
	Short: "Create a starter taskmkfile in the current directory",
	Long: `Create a starter taskmkfile in the current directory with example
targets to help you get started quickly.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	filename := config.Get().FileName
	if len(args) > 0 {
		filename = args[0]
	}

	if _, err := os.Stat(filename); err == nil && !initForce {
		return fmt.Errorf("file '%s' already exists. Use --force to overwrite", filename)
	}

	if err := os.WriteFile(filename, []byte(starterTaskmkfile), 0o644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	out := cmd.OutOrStdout()
	absPath, _ := filepath.Abs(filename)
	fmt.Fprintf(out, "%s Created %s\n", SuccessStyle.Render("✓"), absPath)
	fmt.Fprintln(out)
	fmt.Fprintln(out, SubtitleStyle.Render("Next steps:"))
	fmt.Fprintln(out, "  1. Edit the taskmkfile to add your targets")
	fmt.Fprintln(out, "  2. Run 'taskmk list' to see the declared targets")
	fmt.Fprintln(out, "  3. Run 'taskmk run <target>' to execute one")

	return nil
}

// starterTaskmkfile is the template written by taskmk init. Recipe lines
// must be tab-indented.
const starterTaskmkfile = `# Starter taskmkfile. Recipe lines must start with a tab.

GREETING ?= Hello

.PHONY: hello build clean
.DEFAULT: hello

hello:
	@echo "$(GREETING) from taskmk"

build: hello
	echo "add your build steps here"

clean:
	-rm -rf out
`
