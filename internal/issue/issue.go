// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	TaskmkfileNotFoundId Id = iota + 1
	TaskmkfileParseErrorId
	DependencyCycleId
	MissingPrerequisiteId
	UndefinedVariableId
	RecipeFailedId
	NoTargetsId
	InvalidRuntimeModeId
	ShellNotFoundId
	ContainerEngineNotFoundId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	taskmkfileNotFoundIssue = &Issue{
		id: TaskmkfileNotFoundId,
		mdMsg: `
# No taskmkfile found!

We searched for a taskmkfile but couldn't find one in the current directory.

## Things you can try:
- Create a starter taskmkfile:
~~~
$ taskmk init
~~~

- Or point at an explicit file:
~~~
$ taskmk run -f path/to/taskmkfile build
~~~

## Example taskmkfile structure:
~~~
CC = gcc

build: main.o util.o
	$(CC) -o app main.o util.o

.PHONY: clean
clean:
	-rm -f app *.o
~~~`,
	}

	taskmkfileParseErrorIssue = &Issue{
		id: TaskmkfileParseErrorId,
		mdMsg: `
# Failed to parse taskmkfile!

Your taskmkfile contains a line that is neither a rule, an assignment,
a recipe line, nor a directive.

## Common issues:
- Recipe lines must start with a TAB character, not spaces
- A rule line declares exactly one target before the colon
- Variable names match [A-Za-z_][A-Za-z0-9_]*
- A target may only be declared once

## Things you can try:
- Check the reported line number in the error message
- Validate the whole file:
~~~
$ taskmk validate
~~~`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

The prerequisites of your targets form a cycle, so no valid build
order exists. Nothing was executed.

## Example of a cycle:
~~~
a: b
	echo a
b: a
	echo b
~~~

## Things you can try:
- Review the cycle path named in the error message
- Remove one edge of the cycle
- Use a linear prerequisite chain instead`,
	}

	missingPrerequisiteIssue = &Issue{
		id: MissingPrerequisiteId,
		mdMsg: `
# No rule to make prerequisite!

A prerequisite is neither a declared target nor an existing file.

## Things you can try:
- Check the prerequisite name for typos
- Declare a target that builds it:
~~~
generated.txt:
	./gen > generated.txt
~~~

- Or create the file before running taskmk`,
	}

	undefinedVariableIssue = &Issue{
		id: UndefinedVariableId,
		mdMsg: `
# Required variable is undefined!

A variable listed in a .REQUIRE directive has no value from any source.

## Variable sources (highest precedence first):
1. Command line: ` + "`taskmk run build NAME=value`" + `
2. Environment: ` + "`NAME=value taskmk run build`" + `
3. Defaults in the taskmkfile: ` + "`NAME = value`" + `

## Things you can try:
- Pass the variable on the command line
- Export it in your environment
- Give it a default with ` + "`NAME ?= value`",
	}

	recipeFailedIssue = &Issue{
		id: RecipeFailedId,
		mdMsg: `
# Recipe failed!

A recipe line exited with a non-zero status, so the run stopped before
any dependent targets.

## Things you can try:
- Run the echoed command manually in your shell
- Prefix the line with ` + "`-`" + ` if the failure is expected:
~~~
clean:
	-rm -f build/*.o
~~~

- Run with verbose mode for more details:
~~~
$ taskmk -v run <target>
~~~`,
	}

	noTargetsIssue = &Issue{
		id: NoTargetsId,
		mdMsg: `
# Nothing to run!

The taskmkfile declares no targets, so there is no default target to
fall back to.

## Things you can try:
- Add at least one rule:
~~~
hello:
	echo hello
~~~

- Or pick a default explicitly:
~~~
.DEFAULT: build
~~~`,
	}

	invalidRuntimeModeIssue = &Issue{
		id: InvalidRuntimeModeId,
		mdMsg: `
# Invalid runtime mode!

The specified runtime mode is not recognized.

## Valid runtime modes:
- **native**: Execute using the system shell
- **virtual**: Execute using the built-in sh interpreter
- **container**: Execute inside a container

## Example:
~~~
$ taskmk run --runtime virtual build
~~~`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found!

Could not find a suitable shell for the 'native' runtime.

## Shells we look for:
- sh, bash

## Things you can try:
- Install a POSIX shell
- Configure an explicit shell in your config file
- Use the 'virtual' runtime instead (built-in shell):
~~~
$ taskmk run --runtime virtual <target>
~~~`,
	}

	containerEngineNotFoundIssue = &Issue{
		id: ContainerEngineNotFoundId,
		mdMsg: `
# Container engine not found!

You tried to use the 'container' runtime but no container engine is
available.

## Supported container engines:
- **Docker**
- **Podman**

## Things you can try:
- Install Docker: https://docs.docker.com/get-docker/
- Install Podman:
  - Linux: ` + "`sudo apt install podman`" + ` or ` + "`sudo dnf install podman`" + `
  - macOS: ` + "`brew install podman`" + `

- Switch to a different runtime:
~~~
$ taskmk run --runtime native <target>
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the taskmk configuration file.

## Configuration file locations:
- Linux: ~/.config/taskmk/config.cue
- macOS: ~/Library/Application Support/taskmk/config.cue
- Windows: %APPDATA%\taskmk\config.cue

## Things you can try:
- Check the configuration syntax
- Remove the config file to use defaults:
~~~
$ rm ~/.config/taskmk/config.cue
~~~

## Example configuration:
~~~cue
default_runtime: "native"
jobs: 4

container: {
	engine: "docker"
	image: "alpine:latest"
}

ui: {
	color_scheme: "auto"
}
~~~`,
	}

	issues = map[Id]*Issue{
		taskmkfileNotFoundIssue.Id():      taskmkfileNotFoundIssue,
		taskmkfileParseErrorIssue.Id():    taskmkfileParseErrorIssue,
		dependencyCycleIssue.Id():         dependencyCycleIssue,
		missingPrerequisiteIssue.Id():     missingPrerequisiteIssue,
		undefinedVariableIssue.Id():       undefinedVariableIssue,
		recipeFailedIssue.Id():            recipeFailedIssue,
		noTargetsIssue.Id():               noTargetsIssue,
		invalidRuntimeModeIssue.Id():      invalidRuntimeModeIssue,
		shellNotFoundIssue.Id():           shellNotFoundIssue,
		containerEngineNotFoundIssue.Id(): containerEngineNotFoundIssue,
		configLoadFailedIssue.Id():        configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
