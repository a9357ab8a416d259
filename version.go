package modhost

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// compareVersions compares two MAJOR.MINOR.PATCH versions segment by segment
// (major, then minor, then patch) and returns -1, 0 or 1.
func compareVersions(a, b string) (int, error) {
	va, err := semver.NewVersion(a)
	if err != nil {
		return 0, fmt.Errorf("parse version %q: %w", a, err)
	}
	vb, err := semver.NewVersion(b)
	if err != nil {
		return 0, fmt.Errorf("parse version %q: %w", b, err)
	}
	return va.Compare(vb), nil
}
