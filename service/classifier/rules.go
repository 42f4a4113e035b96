package classifier

import (
	"fmt"
	"regexp"

	"github.com/thirukguru/release-cutter/model"
	"github.com/thirukguru/release-cutter/service/config"
	"github.com/thirukguru/release-cutter/shared/pathmatch"
)

// releaseCommitPattern matches the commit the publisher itself creates.
var releaseCommitPattern = regexp.MustCompile(`^chore\(release\):`)

// DefaultRules is the built-in rule table. Order matters: the first match wins.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:    "breaking",
			Reason:  "Breaking changes",
			Type:    model.ReleaseMajor,
			// BREAKING CHANGE anywhere; the `type!:` marker only on the subject.
			Message: regexp.MustCompile(`BREAKING[ -]CHANGE|^\w+(\([^)]*\))?!:`),
		},
		{
			Name:    "feature",
			Reason:  "New features",
			Type:    model.ReleaseMinor,
			Message: regexp.MustCompile(`^feat(\([^)]*\))?:`),
		},
		{
			Name:    "fix",
			Reason:  "Bug fixes",
			Type:    model.ReleasePatch,
			Message: regexp.MustCompile(`^fix(\([^)]*\))?:`),
		},
		{
			Name:    "perf-refactor",
			Reason:  "Improvements",
			Type:    model.ReleasePatch,
			Message: regexp.MustCompile(`^(perf|refactor)(\([^)]*\))?:`),
		},
		{
			Name:   "rules",
			Reason: "Rule updates",
			Type:   model.ReleaseMinor,
			Files:  pathmatch.MustCompile(".cursor/rules/**", "**/*.mdc"),
		},
		{
			Name:   "templates",
			Reason: "Template updates",
			Type:   model.ReleasePatch,
			Files:  pathmatch.MustCompile(".github/ISSUE_TEMPLATE/**", "templates/**"),
		},
		{
			Name:     "docs",
			Reason:   "Documentation updates",
			Type:     model.ReleasePatch,
			Files:    pathmatch.MustCompile("**/*.md"),
			AllFiles: true,
		},
	}
}

// RulesFromConfig compiles configured rules. An empty list yields DefaultRules.
func RulesFromConfig(cfgRules []config.RuleConfig) ([]Rule, error) {
	if len(cfgRules) == 0 {
		return DefaultRules(), nil
	}
	rules := make([]Rule, 0, len(cfgRules))
	for _, rc := range cfgRules {
		rt, ok := model.ParseReleaseType(rc.Type)
		if !ok || rt == model.ReleaseNone || rt == model.ReleasePrerelease {
			return nil, fmt.Errorf("rule %q: %w: %q", rc.Name, ErrInvalidReleaseType, rc.Type)
		}
		r := Rule{Name: rc.Name, Reason: rc.Reason, Type: rt, AllFiles: rc.AllFiles}
		if r.Reason == "" {
			r.Reason = rc.Name
		}
		if rc.Message != "" {
			re, err := regexp.Compile(rc.Message)
			if err != nil {
				return nil, fmt.Errorf("rule %q: invalid message pattern: %w", rc.Name, err)
			}
			r.Message = re
		}
		if len(rc.Files) > 0 {
			set, err := pathmatch.Compile(rc.Files)
			if err != nil {
				return nil, fmt.Errorf("rule %q: %w", rc.Name, err)
			}
			r.Files = set
		}
		rules = append(rules, r)
	}
	return rules, nil
}

// Matches reports whether the rule fires for the given message and files.
func (r Rule) Matches(message string, files []string) bool {
	if r.Message != nil && r.Message.MatchString(message) {
		return true
	}
	if r.Files.Empty() {
		return false
	}
	if r.AllFiles {
		return r.Files.MatchAll(files)
	}
	return r.Files.MatchAny(files)
}
