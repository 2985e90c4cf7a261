// Package types defines shared data structures for blender-launch.
package types

import "fmt"

// Candidate is one executable discovered on disk by resolving a path
// template against the filesystem, together with the named components
// (e.g. "version") extracted from the matched path.
type Candidate struct {
	Path       string
	Components map[string]string
}

// Version returns the extracted "version" component, or an empty string
// if the template carried no version placeholder.
func (c Candidate) Version() string {
	return c.Components["version"]
}

// SoftwareVersion describes one installed, launchable version of the
// product, in the shape consumed by version-selection UIs.
type SoftwareVersion struct {
	Version string   `json:"version"`
	Product string   `json:"product"`
	Path    string   `json:"path"`
	Icon    string   `json:"icon,omitempty"`
	Args    []string `json:"args,omitempty"`
}

// Display returns a short human-readable label for the version.
func (sv SoftwareVersion) Display() string {
	if sv.Version == "" {
		return sv.Product
	}
	return fmt.Sprintf("%s %s", sv.Product, sv.Version)
}

// EnvVar is a single environment variable assignment. Launch
// environments are ordered, so they are carried as slices of EnvVar
// rather than maps.
type EnvVar struct {
	Name  string
	Value string
}

// LaunchDescriptor is the resolved executable path, argument list and
// environment handed to process creation. A terminal-mode launch
// returns the zero value: the real process lives in a detached
// terminal outside this program's process tree, so there is nothing
// for the caller to track.
type LaunchDescriptor struct {
	Path string
	Args []string
	Env  []EnvVar
}

// IsZero reports whether the descriptor carries no process to start.
func (d LaunchDescriptor) IsZero() bool {
	return d.Path == "" && len(d.Args) == 0 && len(d.Env) == 0
}

// Environ renders the environment as "NAME=value" strings suitable for
// exec.Cmd.Env, preserving insertion order.
func (d LaunchDescriptor) Environ() []string {
	environ := make([]string, 0, len(d.Env))
	for _, ev := range d.Env {
		environ = append(environ, ev.Name+"="+ev.Value)
	}
	return environ
}
