package launch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sgtk-tools/blender-launch/pkg/types"
)

func TestScriptBodyEscaping(t *testing.T) {
	env := []types.EnvVar{
		{Name: "SGTK_CONTEXT", Value: `value"with"quotes`},
		{Name: "SGTK_ENGINE", Value: "tk-blender"},
	}

	body := scriptBody(env, "/apps/blender", []string{"-P", "/opt/startup.py"})

	if !strings.Contains(body, `export SGTK_CONTEXT="value\"with\"quotes"`) {
		t.Errorf("double quotes not escaped as expected:\n%s", body)
	}
	// Only double quotes are transformed; everything else passes
	// through verbatim, including characters a fully shell-safe
	// quoting scheme would also escape.
	if !strings.Contains(body, `export SGTK_ENGINE="tk-blender"`) {
		t.Errorf("plain value mangled:\n%s", body)
	}
}

func TestScriptBodyLayout(t *testing.T) {
	env := []types.EnvVar{{Name: "SGTK_ENGINE", Value: "tk-blender"}}

	body := scriptBody(env, "/apps/blender", []string{"-P", "/opt/startup.py"})
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")

	if lines[0] != "#!/bin/bash" {
		t.Errorf("first line = %q, want shebang", lines[0])
	}
	if !strings.Contains(body, `"/apps/blender" -P /opt/startup.py`) {
		t.Errorf("invocation line missing:\n%s", body)
	}
	last := lines[len(lines)-1]
	if !strings.HasPrefix(last, "read -p") {
		t.Errorf("last line = %q, want the keep-window-open pause", last)
	}
}

func TestTerminalScript(t *testing.T) {
	script := terminalScript("/tmp/blender_launch_123.sh")

	if !strings.Contains(script, `tell application "Terminal"`) {
		t.Errorf("missing Terminal automation target:\n%s", script)
	}
	if !strings.Contains(script, `do script "/tmp/blender_launch_123.sh"`) {
		t.Errorf("missing do script line:\n%s", script)
	}
}

func TestLaunchWritesDistinctScripts(t *testing.T) {
	tmpDir := t.TempDir()

	var spawned []string
	terminal := &TerminalLauncher{
		Builder: testBuilder(nil),
		TempDir: tmpDir,
		Spawn: func(appleScript string) error {
			spawned = append(spawned, appleScript)
			return nil
		},
	}

	for i := 0; i < 2; i++ {
		descriptor, err := terminal.Launch("/apps/blender", nil, "")
		if err != nil {
			t.Fatalf("launch %d failed: %v", i, err)
		}
		if !descriptor.IsZero() {
			t.Errorf("launch %d: terminal-mode descriptor must be empty, got %+v", i, descriptor)
		}
	}

	scripts, err := filepath.Glob(filepath.Join(tmpDir, "blender_launch_*.sh"))
	if err != nil {
		t.Fatalf("glob failed: %v", err)
	}
	if len(scripts) != 2 {
		t.Fatalf("expected 2 distinct script files, found %d", len(scripts))
	}
	if scripts[0] == scripts[1] {
		t.Error("script file names collided")
	}

	if len(spawned) != 2 {
		t.Fatalf("expected 2 automation calls, got %d", len(spawned))
	}
	if spawned[0] == spawned[1] {
		t.Error("both automation calls reference the same script")
	}
}

func TestLaunchScriptPermissionsAndContent(t *testing.T) {
	tmpDir := t.TempDir()

	terminal := &TerminalLauncher{
		Builder: testBuilder(nil),
		TempDir: tmpDir,
		Spawn:   func(string) error { return nil },
	}

	if _, err := terminal.Launch("/apps/blender", []string{"--background"}, ""); err != nil {
		t.Fatalf("launch failed: %v", err)
	}

	scripts, _ := filepath.Glob(filepath.Join(tmpDir, "blender_launch_*.sh"))
	if len(scripts) != 1 {
		t.Fatalf("expected one script, found %d", len(scripts))
	}

	info, err := os.Stat(scripts[0])
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0o755 {
		t.Errorf("script mode = %o, want 755", info.Mode().Perm())
	}

	content, err := os.ReadFile(scripts[0])
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	body := string(content)
	if !strings.HasPrefix(body, "#!/bin/bash\n") {
		t.Errorf("script missing shebang:\n%s", body)
	}
	if !strings.Contains(body, "export SGTK_ENGINE=\"tk-blender\"\n") {
		t.Errorf("script missing engine export:\n%s", body)
	}
	if !strings.Contains(body, "--background") {
		t.Errorf("script missing passthrough argument:\n%s", body)
	}
}

func TestLaunchSpawnFailureIsHard(t *testing.T) {
	terminal := &TerminalLauncher{
		Builder: testBuilder(nil),
		TempDir: t.TempDir(),
		Spawn:   func(string) error { return errors.New("automation denied") },
	}

	if _, err := terminal.Launch("/apps/blender", nil, ""); err == nil {
		t.Fatal("expected a hard failure when the automation call fails")
	}
}

func TestLaunchScriptWriteFailureIsHard(t *testing.T) {
	terminal := &TerminalLauncher{
		Builder: testBuilder(nil),
		TempDir: filepath.Join(t.TempDir(), "missing-subdir"),
		Spawn:   func(string) error { return nil },
	}

	if _, err := terminal.Launch("/apps/blender", nil, ""); err == nil {
		t.Fatal("expected a hard failure when the script cannot be written")
	}
}

func TestLaunchRequiresExecutablePath(t *testing.T) {
	terminal := &TerminalLauncher{
		Builder: testBuilder(nil),
		TempDir: t.TempDir(),
		Spawn:   func(string) error { return nil },
	}

	if _, err := terminal.Launch("", nil, ""); err == nil {
		t.Fatal("expected an error for an empty executable path")
	}
}
