package classifier

import (
	"errors"
	"regexp"

	"github.com/thirukguru/release-cutter/model"
	"github.com/thirukguru/release-cutter/shared/pathmatch"
)

// ErrMajorOnAutomaticTrigger blocks major releases from the push-triggered path.
var ErrMajorOnAutomaticTrigger = errors.New("major releases must be requested through workflow_dispatch")

// ErrInvalidReleaseType is returned for an unknown dispatch release_type.
var ErrInvalidReleaseType = errors.New("invalid release type")

// Rule maps a commit signal onto a release type.
type Rule struct {
	Name     string
	Reason   string
	Type     model.ReleaseType
	Message  *regexp.Regexp
	Files    *pathmatch.Set
	AllFiles bool
}

// Input is everything trigger detection looks at.
type Input struct {
	Trigger      model.Trigger
	Commit       model.Commit
	ChangedFiles []string
	ReleaseType  string
	PrereleaseID string
}

type service struct {
	rules       []Rule
	skipMarkers []string
}

// Service is the interface for release trigger detection.
type Service interface {
	Classify(input Input) (model.Decision, error)
}
