package model

import "time"

// ReleaseType is the semver level a release bumps.
type ReleaseType string

const (
	ReleaseNone       ReleaseType = "none"
	ReleasePatch      ReleaseType = "patch"
	ReleaseMinor      ReleaseType = "minor"
	ReleaseMajor      ReleaseType = "major"
	ReleasePrerelease ReleaseType = "prerelease"
)

// ParseReleaseType maps user input onto a ReleaseType. ok is false for unknown values.
func ParseReleaseType(s string) (ReleaseType, bool) {
	switch ReleaseType(s) {
	case ReleasePatch, ReleaseMinor, ReleaseMajor, ReleasePrerelease:
		return ReleaseType(s), true
	case ReleaseNone, "":
		return ReleaseNone, true
	}
	return ReleaseNone, false
}

// Trigger identifies what started the pipeline.
type Trigger string

const (
	TriggerPush     Trigger = "push"
	TriggerDispatch Trigger = "workflow_dispatch"
)

// DefaultPrereleaseID is used when a prerelease is requested without an identifier.
const DefaultPrereleaseID = "beta"

// Commit is a single entry of the git history.
type Commit struct {
	Hash    string
	Subject string
	Body    string
	Author  string
	Date    time.Time
}

// Message returns the full commit message.
func (c Commit) Message() string {
	if c.Body == "" {
		return c.Subject
	}
	return c.Subject + "\n\n" + c.Body
}

// ShortHash returns the abbreviated commit hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}

// Decision is the outcome of release trigger detection.
type Decision struct {
	ShouldRelease bool        `json:"should_release"`
	ReleaseType   ReleaseType `json:"release_type"`
	Reason        string      `json:"reason"`
	Rule          string      `json:"rule,omitempty"`
	Trigger       Trigger     `json:"trigger"`
	PrereleaseID  string      `json:"prerelease_identifier,omitempty"`
}

// Asset is a file attached to a release.
type Asset struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Size   int64  `json:"size"`
}

// Plan carries everything a release run computed before publication.
type Plan struct {
	Project         string   `json:"project"`
	Decision        Decision `json:"decision"`
	CurrentVersion  string   `json:"current_version"`
	NewVersion      string   `json:"new_version"`
	Tag             string   `json:"tag"`
	Prerelease      bool     `json:"prerelease"`
	Notes           string   `json:"notes"`
	NotesFile       string   `json:"notes_file,omitempty"`
	ChecksumsFile   string   `json:"checksums_file,omitempty"`
	Assets          []Asset  `json:"assets"`
	CommitSHA       string   `json:"commit_sha,omitempty"`
	ReleaseURL      string   `json:"release_url,omitempty"`
	DryRun          bool     `json:"dry_run"`
	MirrorLocations []string `json:"mirror_locations,omitempty"`
}
