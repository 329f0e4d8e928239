// SPDX-License-Identifier: MPL-2.0

package main

import cmd "taskmk-cli/cmd/taskmk"

func main() {
	cmd.Execute()
}
