package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sgtk-tools/blender-launch/internal/config"
	"github.com/sgtk-tools/blender-launch/internal/discovery"
	"github.com/sgtk-tools/blender-launch/internal/engine"
	"github.com/sgtk-tools/blender-launch/internal/errors"
	"github.com/sgtk-tools/blender-launch/internal/ui"
	"github.com/sgtk-tools/blender-launch/pkg/types"
)

var (
	scanAll  bool
	scanJSON bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags]",
	Short: "Scan the filesystem for Blender installations",
	Long: `Scan the filesystem for Blender executables.

Each platform template is expanded (user home, environment variables,
{version} wildcard) and matched against the filesystem. Discovered
versions below the minimum supported version are excluded unless --all
is given. A host platform with no registered templates reports no
installations; that is not an error.`,
	Example: `  # List supported Blender installations
  blender-launch scan

  # Include versions below the support floor
  blender-launch scan --all

  # Machine-readable output
  blender-launch scan --json`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runScan(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(errors.GetExitCode(err))
		}
	},
}

// scanSoftware runs a full discovery pass: resolve templates, then
// filter against the support floor unless includeAll is set.
func scanSoftware(cfg *config.Config, includeAll bool) []types.SoftwareVersion {
	icon := ""
	if loc, err := engine.Discover(); err == nil {
		icon = loc.IconPath()
	}

	templates := slices.Clone(discovery.TemplatesFor(runtime.GOOS))
	templates = append(templates, cfg.ExtraTemplates...)

	var extraArgs []string
	if v := os.Getenv(discovery.EnvExtraArgs); v != "" {
		extraArgs = append(extraArgs, v)
	}
	extraArgs = append(extraArgs, cfg.ExtraArgs...)

	scanner := &discovery.Scanner{
		Templates: templates,
		Patterns:  discovery.ComponentPatterns(),
		Icon:      icon,
		ExtraArgs: extraArgs,
	}

	versions := scanner.FindSoftware()
	if includeAll {
		return versions
	}
	return discovery.FilterSupported(versions, cfg.MinimumVersion, nil)
}

func runScan() error {
	cfg, err := config.Load()
	if err != nil {
		return errors.NewRuntimeError("failed to load configuration", err)
	}

	versions := scanSoftware(cfg, scanAll)

	if scanJSON {
		out, err := json.MarshalIndent(versions, "", "  ")
		if err != nil {
			return errors.NewRuntimeError("failed to encode scan results", err)
		}
		fmt.Println(string(out))
		return nil
	}

	if len(versions) == 0 {
		fmt.Println("No Blender installations found.")
		return nil
	}

	headers := []string{"Version", "Path", "Extra Args"}
	var rows [][]string
	for _, sv := range versions {
		rows = append(rows, []string{sv.Version, sv.Path, strings.Join(sv.Args, " ")})
	}
	if err := ui.PrintTable(os.Stdout, headers, rows); err != nil {
		return errors.NewRuntimeError("failed to render scan results", err)
	}
	return nil
}

func init() {
	scanCmd.Flags().BoolVar(&scanAll, "all", false, "Include versions below the minimum supported version")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Print results as JSON")
}
