// Package engine resolves where the tk-blender engine lives on disk and
// supplies the default host capabilities the launch builder needs.
package engine

import (
	"os"
	"os/exec"
	"path/filepath"

	"github.com/kardianos/osext"

	"github.com/sgtk-tools/blender-launch/internal/launch"
)

// Environment variables consulted when resolving the engine.
const (
	// EnvEngineLocation overrides the engine install directory.
	EnvEngineLocation = "BLENDER_ENGINE_LOCATION"
	// EnvContext carries a pre-serialized pipeline context from the
	// invoking process.
	EnvContext = "SGTK_CONTEXT"
	// EnvModulePath carries the toolkit module path from the invoking
	// process.
	EnvModulePath = "SGTK_MODULE_PATH"
)

// Location is the engine's install directory and the paths derived
// from it.
type Location struct {
	Root string
}

// Discover resolves the engine location: the EnvEngineLocation
// override when set, otherwise the directory of the running binary.
func Discover() (Location, error) {
	if root := os.Getenv(EnvEngineLocation); root != "" {
		return Location{Root: root}, nil
	}
	dir, err := osext.ExecutableFolder()
	if err != nil {
		return Location{}, err
	}
	return Location{Root: dir}, nil
}

// IconPath returns the engine icon shown next to discovered versions.
func (l Location) IconPath() string {
	return filepath.Join(l.Root, "icon_256.png")
}

// Hooks returns the default launch capabilities: context serialization
// and module-path resolution pass through values the invoking pipeline
// process placed in the environment, with the engine's bundled python
// directory as the module-path fallback.
func (l Location) Hooks() launch.Hooks {
	return launch.Hooks{
		SerializeContext: func() string {
			return os.Getenv(EnvContext)
		},
		ModulePath: func() string {
			if p := os.Getenv(EnvModulePath); p != "" {
				return p
			}
			return filepath.Join(l.Root, "python")
		},
	}
}

// Interpreter returns the python executable the bootstrap should run
// with: a python3 found on PATH, or the bare name when lookup fails
// (the generated script surfaces the failure at launch time instead).
func (l Location) Interpreter() string {
	if path, err := exec.LookPath("python3"); err == nil {
		return path
	}
	return "python3"
}
