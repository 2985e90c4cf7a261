package discovery

import (
	"iter"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/sgtk-tools/blender-launch/pkg/types"
)

// EnvExtraArgs is the environment variable consulted for extra
// command-line arguments to attach to every discovered version.
const EnvExtraArgs = "SGTK_BLENDER_CMD_EXTRA_ARGS"

// Product is the display name attached to discovered versions.
const Product = "Blender"

// Scanner resolves a fixed set of path templates against the
// filesystem. Each scan is independent; a Scanner holds no state
// between calls and is safe to reuse.
type Scanner struct {
	// Templates are searched in order; candidate order follows
	// template declaration order.
	Templates []string
	// Patterns maps placeholder names to component regexes.
	Patterns map[string]string
	// Icon is attached to every discovered SoftwareVersion.
	Icon string
	// ExtraArgs are attached to every discovered SoftwareVersion.
	// When nil, EnvExtraArgs is consulted instead.
	ExtraArgs []string
	// Logger receives per-template debug tracing. Defaults to
	// log.Default.
	Logger *log.Logger
	// LookupEnv overrides environment lookup for tests. Defaults to
	// os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

func (s *Scanner) logger() *log.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return log.Default()
}

func (s *Scanner) lookupEnv(name string) (string, bool) {
	if s.LookupEnv != nil {
		return s.LookupEnv(name)
	}
	return os.LookupEnv(name)
}

// Candidates returns a lazily produced, finite sequence of discovered
// executables, one per filesystem entry that survives wildcard
// expansion and component-regex matching. The sequence is single-use.
// Zero registered templates yield an empty sequence, not an error, and
// overlapping templates may report the same install twice: candidates
// are not de-duplicated.
func (s *Scanner) Candidates() iter.Seq[types.Candidate] {
	return func(yield func(types.Candidate) bool) {
		for _, template := range s.Templates {
			expanded := s.expandTemplate(template)
			s.logger().Debug("processing template", "template", expanded)

			matcher, err := newTemplateMatcher(expanded, s.Patterns)
			if err != nil {
				s.logger().Debug("skipping template", "template", expanded, "err", err)
				continue
			}

			// Glob errors degrade to "no match for this template".
			paths, err := filepath.Glob(matcher.glob)
			if err != nil {
				s.logger().Debug("glob failed", "pattern", matcher.glob, "err", err)
				continue
			}

			for _, path := range paths {
				components, ok := matcher.match(path)
				if !ok {
					continue
				}
				if !yield(types.Candidate{Path: path, Components: components}) {
					return
				}
			}
		}
	}
}

// FindSoftware collects all candidates from a scan into
// version-tagged, path-tagged, icon-tagged records.
func (s *Scanner) FindSoftware() []types.SoftwareVersion {
	extraArgs := s.ExtraArgs
	if extraArgs == nil {
		if v, ok := s.lookupEnv(EnvExtraArgs); ok && v != "" {
			extraArgs = []string{v}
		}
	}

	var versions []types.SoftwareVersion
	for candidate := range s.Candidates() {
		versions = append(versions, types.SoftwareVersion{
			Version: candidate.Version(),
			Product: Product,
			Path:    candidate.Path,
			Icon:    s.Icon,
			Args:    extraArgs,
		})
	}
	return versions
}

// expandTemplate resolves the user-home shortcut and environment
// references in a template. Unresolved references are left literal, so
// the later globbing step naturally yields nothing for them.
func (s *Scanner) expandTemplate(template string) string {
	expanded := expandUser(template)
	return expandEnvRefs(expanded, s.lookupEnv)
}

// expandUser replaces a leading ~ with the invoking user's home
// directory. A template is left untouched when the home directory
// cannot be determined.
func expandUser(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// envRefRe matches $VAR, ${VAR} and %VAR% environment references.
var envRefRe = regexp.MustCompile(`\$\{(\w+)\}|\$(\w+)|%(\w+)%`)

// expandEnvRefs substitutes environment references with values from
// lookup. References to unset variables are left literal rather than
// replaced with an empty string.
func expandEnvRefs(s string, lookup func(string) (string, bool)) string {
	return envRefRe.ReplaceAllStringFunc(s, func(ref string) string {
		name := strings.Trim(ref, "${}%")
		if v, ok := lookup(name); ok {
			return v
		}
		return ref
	})
}
