// Package launch builds the environment and command line for starting a
// discovered Blender executable, either directly or inside a new
// visible Terminal window running a generated script.
package launch

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/sgtk-tools/blender-launch/pkg/types"
)

// Environment variable names consumed by the engine bootstrap inside
// Blender. These are fixed conventions; the bootstrap will not find its
// inputs under any other names.
const (
	EnvUserScripts   = "BLENDER_USER_SCRIPTS"
	EnvPySidePath    = "PYSIDE2_PYTHONPATH"
	EnvModulePath    = "SGTK_MODULE_PATH"
	EnvEngineStartup = "SGTK_BLENDER_ENGINE_STARTUP"
	EnvEnginePython  = "SGTK_BLENDER_ENGINE_PYTHON"
	EnvEngine        = "SGTK_ENGINE"
	EnvContext       = "SGTK_CONTEXT"
	EnvFileToOpen    = "SGTK_FILE_TO_OPEN"
)

// Hooks carries the two caller-supplied capabilities the builder needs
// from its host: serializing the current pipeline context and resolving
// the toolkit module path. Keeping them as plain functions keeps the
// builder framework-agnostic and lets tests supply fakes.
type Hooks struct {
	SerializeContext func() string
	ModulePath       func() string
}

// Builder constructs launch environments. A Builder holds only
// immutable configuration; every Prepare call produces a fresh
// environment and descriptor.
type Builder struct {
	// EngineName identifies the engine to the bootstrap (e.g. "tk-blender").
	EngineName string
	// EngineRoot is the engine's install directory, from which the
	// scripts, bootstrap and bundled-python paths are derived.
	EngineRoot string
	// Interpreter is the python executable the bootstrap should use.
	Interpreter string
	// Hooks supplies context serialization and module-path resolution.
	Hooks Hooks
	// LookupEnv overrides ambient environment lookup for tests.
	// Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
	// Logger receives debug tracing. Defaults to log.Default.
	Logger *log.Logger
}

func (b *Builder) logger() *log.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return log.Default()
}

func (b *Builder) lookupEnv(name string) (string, bool) {
	if b.LookupEnv != nil {
		return b.LookupEnv(name)
	}
	return os.LookupEnv(name)
}

// ScriptsDir returns the user-scripts directory shipped with the engine.
func (b *Builder) ScriptsDir() string {
	return filepath.Join(b.EngineRoot, "resources", "scripts")
}

// StartupScript returns the menu-registration script Blender runs via -P.
func (b *Builder) StartupScript() string {
	return filepath.Join(b.ScriptsDir(), "startup", "Shotgun_menu.py")
}

// BootstrapScript returns the engine bootstrap executed inside Blender.
func (b *Builder) BootstrapScript() string {
	return filepath.Join(b.EngineRoot, "startup", "bootstrap.py")
}

// Prepare builds the launch descriptor for a direct (non-terminal)
// launch: the executable path, the final argument list and the ordered
// environment the bootstrap expects.
func (b *Builder) Prepare(execPath string, args []string, fileToOpen string) (types.LaunchDescriptor, error) {
	if execPath == "" {
		return types.LaunchDescriptor{}, fmt.Errorf("executable path is required")
	}

	finalArgs := b.withStartupArg(args)
	env := b.environment(fileToOpen)

	b.logger().Debug("prepared launch", "path", execPath, "args", finalArgs)

	return types.LaunchDescriptor{
		Path: execPath,
		Args: finalArgs,
		Env:  env,
	}, nil
}

// withStartupArg appends "-P <startup script>" unless the startup
// script is already among the arguments.
func (b *Builder) withStartupArg(args []string) []string {
	startup := b.StartupScript()
	if slices.Contains(args, startup) {
		return slices.Clone(args)
	}
	finalArgs := make([]string, 0, len(args)+2)
	finalArgs = append(finalArgs, args...)
	return append(finalArgs, "-P", startup)
}

// environment computes the bootstrap environment in a fixed order.
// PYSIDE2_PYTHONPATH points at the engine's bundled copy only when the
// ambient process environment does not already direct it elsewhere.
func (b *Builder) environment(fileToOpen string) []types.EnvVar {
	env := []types.EnvVar{
		{Name: EnvUserScripts, Value: b.ScriptsDir()},
	}

	if v, ok := b.lookupEnv(EnvPySidePath); !ok || v == "" {
		env = append(env, types.EnvVar{
			Name:  EnvPySidePath,
			Value: filepath.Join(b.EngineRoot, "python", "ext"),
		})
	}

	env = append(env,
		types.EnvVar{Name: EnvModulePath, Value: toSlash(b.modulePath())},
		types.EnvVar{Name: EnvEngineStartup, Value: b.BootstrapScript()},
		types.EnvVar{Name: EnvEnginePython, Value: toSlash(b.Interpreter)},
		types.EnvVar{Name: EnvEngine, Value: b.EngineName},
		types.EnvVar{Name: EnvContext, Value: b.serializeContext()},
	)

	if fileToOpen != "" {
		env = append(env, types.EnvVar{Name: EnvFileToOpen, Value: fileToOpen})
	}

	return env
}

func (b *Builder) serializeContext() string {
	if b.Hooks.SerializeContext == nil {
		return ""
	}
	return b.Hooks.SerializeContext()
}

func (b *Builder) modulePath() string {
	if b.Hooks.ModulePath == nil {
		return ""
	}
	return b.Hooks.ModulePath()
}

// toSlash normalizes path separators to forward slashes regardless of
// host platform, matching what the bootstrap expects.
func toSlash(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}
