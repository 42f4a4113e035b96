// Package classifier decides whether a commit triggers a release and at which semver level.
package classifier

import (
	"fmt"
	"strings"

	"github.com/thirukguru/release-cutter/model"
	"github.com/thirukguru/release-cutter/service/versioning"
)

// NewService creates a classifier over rules. Nil rules means DefaultRules.
func NewService(rules []Rule, skipMarkers []string) Service {
	if rules == nil {
		rules = DefaultRules()
	}
	return &service{rules: rules, skipMarkers: skipMarkers}
}

// Classify returns the release decision. For a major release on the push path it
// returns the decision together with ErrMajorOnAutomaticTrigger. Triggers other
// than push and workflow_dispatch never release.
func (s *service) Classify(input Input) (model.Decision, error) {
	trigger := input.Trigger
	if trigger == "" {
		trigger = model.TriggerPush
	}

	switch trigger {
	case model.TriggerDispatch:
		return s.classifyDispatch(input)
	case model.TriggerPush:
		return s.classifyPush(input)
	default:
		return model.Decision{
			ReleaseType: model.ReleaseNone,
			Reason:      fmt.Sprintf("Unsupported trigger %s", trigger),
			Trigger:     trigger,
		}, nil
	}
}

func (s *service) classifyDispatch(input Input) (model.Decision, error) {
	requested := strings.ToLower(strings.TrimSpace(input.ReleaseType))
	if requested == "" {
		requested = string(model.ReleasePatch)
	}
	rt, ok := model.ParseReleaseType(requested)
	if !ok || rt == model.ReleaseNone {
		return model.Decision{}, fmt.Errorf("%w: %q (want patch, minor, major or prerelease)", ErrInvalidReleaseType, input.ReleaseType)
	}

	d := model.Decision{
		ShouldRelease: true,
		ReleaseType:   rt,
		Reason:        fmt.Sprintf("Manual %s release", rt),
		Rule:          "manual",
		Trigger:       model.TriggerDispatch,
	}
	if rt == model.ReleasePrerelease {
		d.PrereleaseID = strings.TrimSpace(input.PrereleaseID)
		if d.PrereleaseID == "" {
			d.PrereleaseID = model.DefaultPrereleaseID
		}
		if err := versioning.ValidatePrereleaseID(d.PrereleaseID); err != nil {
			return model.Decision{}, err
		}
	}
	return d, nil
}

func (s *service) classifyPush(input Input) (model.Decision, error) {
	none := model.Decision{ReleaseType: model.ReleaseNone, Trigger: model.TriggerPush}

	message := strings.TrimSpace(input.Commit.Message())
	if releaseCommitPattern.MatchString(message) {
		none.Reason = "Release commit"
		return none, nil
	}
	lower := strings.ToLower(message)
	for _, marker := range s.skipMarkers {
		if marker != "" && strings.Contains(lower, strings.ToLower(marker)) {
			none.Reason = fmt.Sprintf("Skip marker %s", marker)
			return none, nil
		}
	}

	for _, r := range s.rules {
		if !r.Matches(message, input.ChangedFiles) {
			continue
		}
		d := model.Decision{
			ShouldRelease: true,
			ReleaseType:   r.Type,
			Reason:        r.Reason,
			Rule:          r.Name,
			Trigger:       model.TriggerPush,
		}
		if r.Type == model.ReleaseMajor {
			return d, ErrMajorOnAutomaticTrigger
		}
		return d, nil
	}

	none.Reason = "No release trigger matched"
	return none, nil
}
