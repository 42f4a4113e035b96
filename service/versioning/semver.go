package versioning

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/thirukguru/release-cutter/model"
)

// ErrInvalidPrereleaseID is returned for identifiers that cannot form a semver prerelease.
var ErrInvalidPrereleaseID = errors.New("invalid prerelease identifier")

var prereleaseComponent = regexp.MustCompile(`^(0|[1-9][0-9]*|[0-9]*[A-Za-z-][0-9A-Za-z-]*)$`)

// ValidatePrereleaseID checks that every dot-separated component of id is a
// valid semver prerelease identifier.
func ValidatePrereleaseID(id string) error {
	for _, part := range strings.Split(id, ".") {
		if !prereleaseComponent.MatchString(part) {
			return fmt.Errorf("%w: %q", ErrInvalidPrereleaseID, id)
		}
	}
	return nil
}

// Parse accepts a strict semver string with an optional leading "v".
func Parse(s string) (*semver.Version, error) {
	v, err := semver.StrictNewVersion(strings.TrimPrefix(strings.TrimSpace(s), "v"))
	if err != nil {
		return nil, fmt.Errorf("invalid semver %q: %w", s, err)
	}
	return v, nil
}

// Increment follows `semver -i <type> --preid <id>` from the npm semver package:
// a prerelease of the target version is finalised instead of skipped.
func Increment(v *semver.Version, releaseType model.ReleaseType, preid string) (*semver.Version, error) {
	next, err := increment(v, releaseType, preid)
	if err != nil {
		return nil, err
	}
	// semver.New does not validate its parts.
	if _, err := semver.StrictNewVersion(next.String()); err != nil {
		return nil, fmt.Errorf("invalid next version %q: %w", next.String(), err)
	}
	return next, nil
}

func increment(v *semver.Version, releaseType model.ReleaseType, preid string) (*semver.Version, error) {
	major, minor, patch, pre := v.Major(), v.Minor(), v.Patch(), v.Prerelease()

	switch releaseType {
	case model.ReleaseMajor:
		if pre == "" || minor != 0 || patch != 0 {
			major++
		}
		return semver.New(major, 0, 0, "", ""), nil
	case model.ReleaseMinor:
		if pre == "" || patch != 0 {
			minor++
		}
		return semver.New(major, minor, 0, "", ""), nil
	case model.ReleasePatch:
		if pre == "" {
			patch++
		}
		return semver.New(major, minor, patch, "", ""), nil
	case model.ReleasePrerelease:
		if preid == "" {
			preid = model.DefaultPrereleaseID
		}
		if err := ValidatePrereleaseID(preid); err != nil {
			return nil, err
		}
		if pre == "" {
			return semver.New(major, minor, patch+1, preid+".0", ""), nil
		}
		return semver.New(major, minor, patch, nextPrerelease(pre, preid), ""), nil
	default:
		return nil, fmt.Errorf("cannot increment version for release type %q", releaseType)
	}
}

// nextPrerelease bumps the trailing counter when pre already starts with every
// component of preid, and starts a new "<preid>.0" series otherwise.
func nextPrerelease(pre, preid string) string {
	parts := strings.Split(pre, ".")
	idParts := strings.Split(preid, ".")
	if len(parts) < len(idParts) {
		return preid + ".0"
	}
	for i, p := range idParts {
		if parts[i] != p {
			return preid + ".0"
		}
	}
	if len(parts) == len(idParts) {
		return pre + ".0"
	}
	last := parts[len(parts)-1]
	if n, err := strconv.ParseUint(last, 10, 64); err == nil {
		parts[len(parts)-1] = strconv.FormatUint(n+1, 10)
		return strings.Join(parts, ".")
	}
	return pre + ".0"
}
