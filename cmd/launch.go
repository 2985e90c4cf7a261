package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sgtk-tools/blender-launch/internal/config"
	"github.com/sgtk-tools/blender-launch/internal/engine"
	"github.com/sgtk-tools/blender-launch/internal/errors"
	"github.com/sgtk-tools/blender-launch/internal/launch"
	"github.com/sgtk-tools/blender-launch/internal/ui"
	"github.com/sgtk-tools/blender-launch/pkg/types"
)

var (
	launchPath     string
	launchVersion  string
	launchFile     string
	launchTerminal bool
)

var launchCmd = &cobra.Command{
	Use:   "launch [flags] [-- <blender args>]",
	Short: "Launch a discovered Blender executable",
	Long: `Launch a Blender executable with the pipeline bootstrap environment.

The executable is chosen either directly with --path or by re-scanning
the filesystem and picking the install matching --version. Arguments
after -- are passed through to Blender ahead of the startup script.

With --terminal, the launch is materialized as a generated shell script
run inside a new visible Terminal window. The spawn is fire-and-forget:
blender-launch returns immediately and owns no handle to the process.`,
	Example: `  # Launch a specific discovered version
  blender-launch launch --version 3.6

  # Launch an explicit executable with a file to open
  blender-launch launch --path "/Applications/Blender.app/Contents/MacOS/Blender" --file shot_010.blend

  # Launch in a new Terminal window with extra arguments
  blender-launch launch --version 3.6 --terminal -- --debug-python`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		var errs []error

		if launchPath == "" && launchVersion == "" {
			errs = append(errs, fmt.Errorf("one of --path or --version is required"))
		}
		if launchPath != "" && launchVersion != "" {
			errs = append(errs, fmt.Errorf("--path and --version are mutually exclusive"))
		}

		if len(errs) > 0 {
			combined := "Validation errors:\n"
			for _, err := range errs {
				combined += fmt.Sprintf("  - %s\n", err)
			}
			return errors.NewValidationError(combined, nil)
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runLaunch(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(errors.GetExitCode(err))
		}
	},
}

func runLaunch(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.NewRuntimeError("failed to load configuration", err)
	}

	loc, err := engine.Discover()
	if err != nil {
		return errors.NewRuntimeError("failed to resolve engine location", err)
	}

	execPath, extraArgs, err := selectExecutable(cfg)
	if err != nil {
		return err
	}
	args = append(extraArgs, args...)

	builder := &launch.Builder{
		EngineName:  cfg.EngineName,
		EngineRoot:  loc.Root,
		Interpreter: loc.Interpreter(),
		Hooks:       loc.Hooks(),
	}

	if launchTerminal {
		terminal := &launch.TerminalLauncher{Builder: builder}
		if _, err := terminal.Launch(execPath, args, launchFile); err != nil {
			return errors.NewRuntimeError("terminal launch failed", err)
		}
		ui.Success("Opened %s in a new Terminal window\n", execPath)
		return nil
	}

	descriptor, err := builder.Prepare(execPath, args, launchFile)
	if err != nil {
		return errors.NewRuntimeError("failed to prepare launch", err)
	}
	if err := startDetached(descriptor); err != nil {
		return errors.NewRuntimeError("failed to start Blender", err)
	}
	ui.Success("Launched %s\n", descriptor.Path)
	return nil
}

// selectExecutable resolves the executable to launch from --path or by
// matching --version against a fresh scan. Version selection also
// carries the scan's extra argument tokens into the launch.
func selectExecutable(cfg *config.Config) (string, []string, error) {
	if launchPath != "" {
		if _, err := os.Stat(launchPath); err != nil {
			return "", nil, errors.NewValidationError(fmt.Sprintf("executable not found at %s", launchPath), err)
		}
		return launchPath, nil, nil
	}

	versions := scanSoftware(cfg, false)
	for _, sv := range versions {
		if sv.Version == launchVersion {
			return sv.Path, sv.Args, nil
		}
	}

	var available []string
	for _, sv := range versions {
		available = append(available, sv.Version)
	}
	if len(available) == 0 {
		return "", nil, errors.NewRuntimeError(fmt.Sprintf("no supported Blender installation matching version %s (none found)", launchVersion), nil)
	}
	return "", nil, errors.NewRuntimeError(fmt.Sprintf("no Blender installation matching version %s (available: %s)", launchVersion, strings.Join(available, ", ")), nil)
}

// startDetached starts the descriptor's process without tracking it.
// The child inherits the ambient environment plus the descriptor's
// variables appended after it, so the bootstrap values win.
func startDetached(descriptor types.LaunchDescriptor) error {
	cmd := exec.Command(descriptor.Path, descriptor.Args...)
	cmd.Env = append(os.Environ(), descriptor.Environ()...)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}

func init() {
	launchCmd.Flags().StringVar(&launchPath, "path", "", "Path to the Blender executable to launch")
	launchCmd.Flags().StringVar(&launchVersion, "version", "", "Launch the discovered install matching this version")
	launchCmd.Flags().StringVar(&launchFile, "file", "", "File to open after startup")
	launchCmd.Flags().BoolVar(&launchTerminal, "terminal", false, "Launch inside a new visible Terminal window")
}
