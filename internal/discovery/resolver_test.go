package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sgtk-tools/blender-launch/pkg/types"
)

func noEnv(string) (string, bool) { return "", false }

func collect(s *Scanner) []types.Candidate {
	var out []types.Candidate
	for c := range s.Candidates() {
		out = append(out, c)
	}
	return out
}

// writeExecutable creates a file at the joined path, creating parents.
func writeExecutable(t *testing.T, parts ...string) string {
	t.Helper()
	path := filepath.Join(parts...)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create fixture dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("failed to create fixture file: %v", err)
	}
	return path
}

func TestCandidatesNoTemplates(t *testing.T) {
	s := &Scanner{Templates: TemplatesFor("plan9"), Patterns: ComponentPatterns(), LookupEnv: noEnv}

	if got := collect(s); len(got) != 0 {
		t.Errorf("expected no candidates for a platform with no templates, got %d", len(got))
	}
	if got := s.FindSoftware(); len(got) != 0 {
		t.Errorf("expected no software versions, got %d", len(got))
	}
}

func TestCandidatesExtractsVersion(t *testing.T) {
	tmpDir := t.TempDir()
	path := writeExecutable(t, tmpDir, "Blender3.6.app", "Contents", "MacOS", "Blender")

	s := &Scanner{
		Templates: []string{filepath.Join(tmpDir, "Blender{version}.app", "Contents", "MacOS", "Blender")},
		Patterns:  ComponentPatterns(),
		LookupEnv: noEnv,
	}

	got := collect(s)
	if len(got) != 1 {
		t.Fatalf("expected exactly one candidate, got %d", len(got))
	}
	if got[0].Path != path {
		t.Errorf("path = %q, want %q", got[0].Path, path)
	}
	if got[0].Components["version"] != "3.6" {
		t.Errorf("version = %q, want %q", got[0].Components["version"], "3.6")
	}
}

func TestCandidatesUnsetEnvVar(t *testing.T) {
	s := &Scanner{
		Templates: []string{"$BLENDER_BIN_DIR/Blender {version}"},
		Patterns:  ComponentPatterns(),
		LookupEnv: noEnv,
	}

	if got := collect(s); len(got) != 0 {
		t.Errorf("expected no candidates from a template with an unset env var, got %d", len(got))
	}
}

func TestCandidatesEnvVarTemplate(t *testing.T) {
	tmpDir := t.TempDir()
	writeExecutable(t, tmpDir, "Blender 4.1.2")

	s := &Scanner{
		Templates: []string{"$BLENDER_BIN_DIR/Blender {version}"},
		Patterns:  ComponentPatterns(),
		LookupEnv: func(name string) (string, bool) {
			if name == "BLENDER_BIN_DIR" {
				return tmpDir, true
			}
			return "", false
		},
	}

	got := collect(s)
	if len(got) != 1 {
		t.Fatalf("expected one candidate, got %d", len(got))
	}
	if got[0].Components["version"] != "4.1.2" {
		t.Errorf("version = %q, want %q", got[0].Components["version"], "4.1.2")
	}
}

func TestCandidatesTemplateOrderAndDuplicates(t *testing.T) {
	tmpDir := t.TempDir()
	writeExecutable(t, tmpDir, "Blender 3.6")

	// Overlapping templates report the same install twice; candidates
	// are not de-duplicated and follow template declaration order.
	template := filepath.Join(tmpDir, "Blender {version}")
	s := &Scanner{
		Templates: []string{template, template},
		Patterns:  ComponentPatterns(),
		LookupEnv: noEnv,
	}

	got := collect(s)
	if len(got) != 2 {
		t.Fatalf("expected duplicate candidates from overlapping templates, got %d", len(got))
	}
	if got[0].Path != got[1].Path {
		t.Errorf("expected both candidates to report the same path")
	}
}

func TestCandidatesSkipsGlobOverMatches(t *testing.T) {
	tmpDir := t.TempDir()
	writeExecutable(t, tmpDir, "Blender3.6.app", "Contents", "MacOS", "Blender")
	writeExecutable(t, tmpDir, "Blenderbeta.app", "Contents", "MacOS", "Blender")

	s := &Scanner{
		Templates: []string{filepath.Join(tmpDir, "Blender{version}.app", "Contents", "MacOS", "Blender")},
		Patterns:  ComponentPatterns(),
		LookupEnv: noEnv,
	}

	got := collect(s)
	if len(got) != 1 {
		t.Fatalf("expected the non-versioned install to be skipped, got %d candidates", len(got))
	}
	if got[0].Components["version"] != "3.6" {
		t.Errorf("version = %q, want %q", got[0].Components["version"], "3.6")
	}
}

func TestFindSoftwareShape(t *testing.T) {
	tmpDir := t.TempDir()
	writeExecutable(t, tmpDir, "Blender 3.6")

	s := &Scanner{
		Templates: []string{filepath.Join(tmpDir, "Blender {version}")},
		Patterns:  ComponentPatterns(),
		Icon:      "/opt/engine/icon_256.png",
		ExtraArgs: []string{"--debug-python"},
		LookupEnv: noEnv,
	}

	got := s.FindSoftware()
	if len(got) != 1 {
		t.Fatalf("expected one software version, got %d", len(got))
	}
	sv := got[0]
	if sv.Product != "Blender" {
		t.Errorf("product = %q, want Blender", sv.Product)
	}
	if sv.Version != "3.6" {
		t.Errorf("version = %q, want 3.6", sv.Version)
	}
	if sv.Icon != "/opt/engine/icon_256.png" {
		t.Errorf("icon = %q", sv.Icon)
	}
	if len(sv.Args) != 1 || sv.Args[0] != "--debug-python" {
		t.Errorf("args = %v", sv.Args)
	}
}

func TestFindSoftwareExtraArgsFromEnv(t *testing.T) {
	tmpDir := t.TempDir()
	writeExecutable(t, tmpDir, "Blender 3.6")

	s := &Scanner{
		Templates: []string{filepath.Join(tmpDir, "Blender {version}")},
		Patterns:  ComponentPatterns(),
		LookupEnv: func(name string) (string, bool) {
			if name == EnvExtraArgs {
				return "--factory-startup", true
			}
			return "", false
		},
	}

	got := s.FindSoftware()
	if len(got) != 1 {
		t.Fatalf("expected one software version, got %d", len(got))
	}
	if len(got[0].Args) != 1 || got[0].Args[0] != "--factory-startup" {
		t.Errorf("args = %v, want [--factory-startup]", got[0].Args)
	}
}

func TestExpandEnvRefs(t *testing.T) {
	lookup := func(name string) (string, bool) {
		if name == "BLENDER_BIN_DIR" {
			return "/opt/blender", true
		}
		return "", false
	}

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"dollar form", "$BLENDER_BIN_DIR/Blender {version}", "/opt/blender/Blender {version}"},
		{"braced form", "${BLENDER_BIN_DIR}/Blender", "/opt/blender/Blender"},
		{"percent form", "%BLENDER_BIN_DIR%/Blender", "/opt/blender/Blender"},
		{"unset left literal", "$MISSING_DIR/Blender", "$MISSING_DIR/Blender"},
		{"no references", "/Applications/Blender.app", "/Applications/Blender.app"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := expandEnvRefs(tt.in, lookup); got != tt.want {
				t.Errorf("expandEnvRefs(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExpandUser(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	if got := expandUser("~/blender/Blender {version}"); got != filepath.Join(home, "blender", "Blender {version}") {
		t.Errorf("expandUser = %q", got)
	}
	if got := expandUser("/opt/~x"); got != "/opt/~x" {
		t.Errorf("non-leading tilde must be untouched, got %q", got)
	}
}
