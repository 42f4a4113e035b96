package config

// DefaultFileName is looked up in the repository root when no --config is given.
const DefaultFileName = ".release-cutter.yaml"

// Config is the project-level release configuration.
type Config struct {
	Project     string        `yaml:"project"`
	Manifest    string        `yaml:"manifest"`
	Changelog   string        `yaml:"changelog"`
	OutputDir   string        `yaml:"output_dir"`
	Branch      string        `yaml:"branch"`
	Remote      string        `yaml:"remote"`
	SkipMarkers []string      `yaml:"skip_markers"`
	Rules       []RuleConfig  `yaml:"rules"`
	Bundle      BundleConfig  `yaml:"bundle"`
	AWS         AWSConfig     `yaml:"aws"`
	History     HistoryConfig `yaml:"history"`
}

// RuleConfig overrides one entry of the release rule table.
type RuleConfig struct {
	Name     string   `yaml:"name"`
	Reason   string   `yaml:"reason"`
	Type     string   `yaml:"type"`
	Message  string   `yaml:"message"`
	Files    []string `yaml:"files"`
	AllFiles bool     `yaml:"all_files"`
}

// BundleConfig selects the files packaged into release tarballs.
type BundleConfig struct {
	Exclude    []string `yaml:"exclude"`
	QuickStart []string `yaml:"quickstart"`
}

// AWSConfig enables the optional S3 mirror and SNS notification.
type AWSConfig struct {
	Region      string `yaml:"region"`
	Profile     string `yaml:"profile"`
	Bucket      string `yaml:"bucket"`
	Prefix      string `yaml:"prefix"`
	SNSTopicARN string `yaml:"sns_topic_arn"`
}

// Enabled reports whether any AWS publication target is configured.
func (a AWSConfig) Enabled() bool {
	return a.Bucket != "" || a.SNSTopicARN != ""
}

// HistoryConfig controls the local release ledger.
type HistoryConfig struct {
	Disabled bool   `yaml:"disabled"`
	DBPath   string `yaml:"db_path"`
}

type service struct {
	readFile func(string) ([]byte, error)
}

// Service is the interface for loading project configuration.
type Service interface {
	Load(repoDir, path string) (Config, error)
}
