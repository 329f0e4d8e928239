// SPDX-License-Identifier: MPL-2.0

package container

// NewPodmanEngine creates an Engine backed by the podman CLI.
func NewPodmanEngine() Engine {
	return &cliEngine{binary: "podman"}
}
