package launch

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/sgtk-tools/blender-launch/pkg/types"
)

// scriptPattern names the generated launch scripts in the temp dir.
const scriptPattern = "blender_launch_*.sh"

// TerminalLauncher materializes a launch into a generated shell script
// executed inside a new visible Terminal window, so Blender's
// stdout/stderr stay visible to the user.
//
// The generated script is left on disk: the detached terminal still
// needs it after Launch returns. Its lifetime is "until temp cleanup",
// which is accepted as a minor leak.
type TerminalLauncher struct {
	Builder *Builder
	// TempDir receives the generated scripts. Defaults to the system
	// temp dir.
	TempDir string
	// Spawn runs the Terminal automation snippet. Defaults to a
	// detached osascript invocation. Tests inject a recorder here.
	Spawn func(appleScript string) error
	// Logger receives debug tracing. Defaults to log.Default.
	Logger *log.Logger
}

func (t *TerminalLauncher) logger() *log.Logger {
	if t.Logger != nil {
		return t.Logger
	}
	return log.Default()
}

// Launch builds the environment for execPath, writes the launch script
// and opens a new Terminal window running it. The spawn is
// fire-and-forget: Launch returns without waiting for the terminal or
// Blender to exit, and the returned descriptor is the zero value
// because no process handle exists in this program's process tree.
//
// Script-write and automation failures are hard failures; there is no
// fallback to a direct launch.
func (t *TerminalLauncher) Launch(execPath string, args []string, fileToOpen string) (types.LaunchDescriptor, error) {
	if execPath == "" {
		return types.LaunchDescriptor{}, fmt.Errorf("executable path is required")
	}

	finalArgs := t.Builder.withStartupArg(args)
	env := t.Builder.environment(fileToOpen)

	scriptPath, err := t.writeScript(env, execPath, finalArgs)
	if err != nil {
		return types.LaunchDescriptor{}, fmt.Errorf("failed to write launch script: %w", err)
	}
	t.logger().Debug("wrote launch script", "path", scriptPath)

	spawn := t.Spawn
	if spawn == nil {
		spawn = spawnDetached
	}
	if err := spawn(terminalScript(scriptPath)); err != nil {
		return types.LaunchDescriptor{}, fmt.Errorf("failed to open Terminal window: %w", err)
	}

	return types.LaunchDescriptor{}, nil
}

// writeScript persists the launch script to a uniquely named temp file
// and marks it owner-executable before anything references it.
func (t *TerminalLauncher) writeScript(env []types.EnvVar, execPath string, args []string) (string, error) {
	f, err := os.CreateTemp(t.TempDir, scriptPattern)
	if err != nil {
		return "", err
	}
	scriptPath := f.Name()

	if _, err := f.WriteString(scriptBody(env, execPath, args)); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	if err := os.Chmod(scriptPath, 0o755); err != nil {
		return "", err
	}

	return scriptPath, nil
}

// scriptBody renders the launch script: exports, the Blender
// invocation, and a pause so the window stays open for reading output.
// Env values get minimal escaping: a literal double quote becomes \"
// and nothing else is transformed. That is intentionally not fully
// shell-safe for arbitrary values.
func scriptBody(env []types.EnvVar, execPath string, args []string) string {
	var b strings.Builder
	b.WriteString("#!/bin/bash\n")
	b.WriteString("# Auto-generated script to launch Blender in a Terminal\n")
	for _, ev := range env {
		fmt.Fprintf(&b, "export %s=\"%s\"\n", ev.Name, escapeQuotes(ev.Value))
	}
	fmt.Fprintf(&b, "\"%s\" %s\n", execPath, strings.Join(args, " "))
	b.WriteString("read -p \"Press [Enter] to close this window...\"\n")
	return b.String()
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// terminalScript renders the AppleScript that opens a new Terminal
// window running scriptPath. The path comes from os.CreateTemp and
// contains no quotes in practice, but it is escaped anyway to keep the
// snippet well-formed.
func terminalScript(scriptPath string) string {
	escaped := strings.ReplaceAll(scriptPath, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return fmt.Sprintf("tell application \"Terminal\"\n\tactivate\n\tdo script \"%s\"\nend tell\n", escaped)
}

// spawnDetached runs an AppleScript snippet through osascript without
// tracking the child: the process is started, released, and never
// waited on. The caller owns no handle and cannot signal it.
func spawnDetached(appleScript string) error {
	cmd := exec.Command("osascript", "-e", appleScript)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
