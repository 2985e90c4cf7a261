package discovery

import (
	"fmt"

	"github.com/charmbracelet/log"
	goversion "github.com/hashicorp/go-version"

	"github.com/sgtk-tools/blender-launch/pkg/types"
)

// MinimumSupportedVersion is the default floor below which discovered
// versions are excluded.
const MinimumSupportedVersion = "2.8"

// IsSupported reports whether a discovered version string meets the
// floor, with a human-readable reason when it does not. An empty floor
// accepts everything.
func IsSupported(versionStr, floor string) (bool, string) {
	if floor == "" {
		return true, ""
	}
	floorVersion, err := goversion.NewVersion(floor)
	if err != nil {
		return false, fmt.Sprintf("invalid minimum supported version %q: %v", floor, err)
	}
	v, err := goversion.NewVersion(versionStr)
	if err != nil {
		return false, fmt.Sprintf("could not determine version from %q: %v", versionStr, err)
	}
	if v.LessThan(floorVersion) {
		return false, fmt.Sprintf("version %s is below the minimum supported version %s", versionStr, floor)
	}
	return true, ""
}

// FilterSupported returns the subset of versions at or above the floor,
// preserving input order. Rejected versions are logged at debug level;
// an unsupported version is not an error.
func FilterSupported(versions []types.SoftwareVersion, floor string, logger *log.Logger) []types.SoftwareVersion {
	if logger == nil {
		logger = log.Default()
	}

	var supported []types.SoftwareVersion
	for _, sv := range versions {
		ok, reason := IsSupported(sv.Version, floor)
		if ok {
			supported = append(supported, sv)
		} else {
			logger.Debug("software version is not supported", "version", sv.Display(), "reason", reason)
		}
	}
	return supported
}
