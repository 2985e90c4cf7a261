// Package discovery locates installed Blender executables by expanding
// path templates against the filesystem and extracting version
// components from the matched paths.
package discovery

// componentPatterns maps a placeholder name to the regular expression
// that parses the component out of a matched path segment.
var componentPatterns = map[string]string{
	"version": `\d.\d+(.\d*)*`,
}

// executableTemplates maps a GOOS value to the path templates searched
// on that platform. Templates may reference environment variables
// ($VAR or ${VAR}), a leading ~, and the {version} placeholder.
// Declaration order is significant: candidates are yielded in the
// order their template appears here.
var executableTemplates = map[string][]string{
	"darwin": {
		"$BLENDER_BIN_DIR/Blender {version}",
		"/Applications/Blender{version}.app/Contents/MacOS/Blender",
	},
}

// TemplatesFor returns the executable templates registered for the
// given GOOS, or nil when the platform has none. Resolving a nil
// template set yields no candidates; an unsupported host is not an
// error.
func TemplatesFor(goos string) []string {
	return executableTemplates[goos]
}

// ComponentPatterns returns the placeholder-to-regex mapping used to
// extract components from matched paths.
func ComponentPatterns() map[string]string {
	return componentPatterns
}
