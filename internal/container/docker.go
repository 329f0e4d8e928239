// SPDX-License-Identifier: MPL-2.0

package container

// NewDockerEngine creates an Engine backed by the docker CLI.
func NewDockerEngine() Engine {
	return &cliEngine{binary: "docker"}
}
