package discovery

import (
	"fmt"
	"regexp"
	"strings"
)

// placeholderRe matches {name}-style placeholders in a path template.
var placeholderRe = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// templateMatcher pairs the glob pattern derived from a path template
// with the regex that re-validates each glob hit and captures the
// template's named components. Building both from the same walk over
// the template keeps placeholder positions in sync.
type templateMatcher struct {
	glob string
	re   *regexp.Regexp
}

// newTemplateMatcher compiles a template into a matcher. Every
// placeholder becomes a * wildcard in the glob and a named capture
// group in the regex; literal text is quoted. A placeholder with no
// registered component pattern is an error.
func newTemplateMatcher(template string, patterns map[string]string) (*templateMatcher, error) {
	var globB, reB strings.Builder
	reB.WriteString("^")

	last := 0
	for _, loc := range placeholderRe.FindAllStringSubmatchIndex(template, -1) {
		literal := template[last:loc[0]]
		globB.WriteString(literal)
		reB.WriteString(regexp.QuoteMeta(literal))

		name := template[loc[2]:loc[3]]
		pattern, ok := patterns[name]
		if !ok {
			return nil, fmt.Errorf("no component pattern registered for placeholder {%s}", name)
		}
		globB.WriteString("*")
		fmt.Fprintf(&reB, "(?P<%s>%s)", name, pattern)

		last = loc[1]
	}
	tail := template[last:]
	globB.WriteString(tail)
	reB.WriteString(regexp.QuoteMeta(tail))
	reB.WriteString("$")

	re, err := regexp.Compile(reB.String())
	if err != nil {
		return nil, fmt.Errorf("compiling matcher for template %q: %w", template, err)
	}

	return &templateMatcher{glob: globB.String(), re: re}, nil
}

// match runs the component regex against a concrete path. On success it
// returns the captured components; a false result means the glob
// over-matched and the path should be skipped.
func (m *templateMatcher) match(path string) (map[string]string, bool) {
	sub := m.re.FindStringSubmatch(path)
	if sub == nil {
		return nil, false
	}
	components := make(map[string]string)
	for i, name := range m.re.SubexpNames() {
		if name != "" && i < len(sub) {
			components[name] = sub[i]
		}
	}
	return components, true
}
