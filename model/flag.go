package model

// Flags represents the command line flags of the release pipeline.
type Flags struct {
	Command       string
	Args          []string
	Event         string
	ReleaseType   string
	PrereleaseID  string
	ConfigPath    string
	RepoDir       string
	Output        string
	DryRun        bool
	Write         bool
	NoPublish     bool
	NoHistory     bool
	DBPath        string
	TargetVersion string
	Version       bool
}
