// Package config loads the project release configuration from YAML.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// NewService creates a new configuration service.
func NewService() Service {
	return &service{readFile: os.ReadFile}
}

// Default returns the configuration used when no file is present.
func Default(repoDir string) Config {
	project := "project"
	if abs, err := filepath.Abs(repoDir); err == nil {
		if base := filepath.Base(abs); base != string(filepath.Separator) && base != "." {
			project = base
		}
	}
	return Config{
		Project:     project,
		Manifest:    "package.json",
		Changelog:   "CHANGELOG.md",
		OutputDir:   "dist",
		Branch:      "main",
		Remote:      "origin",
		SkipMarkers: []string{"[skip release]", "[no release]"},
		Bundle: BundleConfig{
			Exclude: []string{
				".git/**",
				"node_modules/**",
				"dist/**",
				"**.tar.gz",
				"**.DS_Store",
			},
			QuickStart: []string{
				".cursor/rules/**",
				"README.md",
				"QUICKSTART.md",
				"docs/getting-started/**",
			},
		},
	}
}

// Load reads path (or DefaultFileName under repoDir) and overlays it on the defaults.
// A missing default file is not an error; a missing explicit file is.
func (s *service) Load(repoDir, path string) (Config, error) {
	cfg := Default(repoDir)

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = filepath.Join(repoDir, DefaultFileName)
	}

	raw, err := s.readFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	merge(&cfg, fileCfg)
	if err := validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func merge(dst *Config, src Config) {
	setString(&dst.Project, src.Project)
	setString(&dst.Manifest, src.Manifest)
	setString(&dst.Changelog, src.Changelog)
	setString(&dst.OutputDir, src.OutputDir)
	setString(&dst.Branch, src.Branch)
	setString(&dst.Remote, src.Remote)
	if src.SkipMarkers != nil {
		dst.SkipMarkers = src.SkipMarkers
	}
	if len(src.Rules) > 0 {
		dst.Rules = src.Rules
	}
	if src.Bundle.Exclude != nil {
		dst.Bundle.Exclude = src.Bundle.Exclude
	}
	if src.Bundle.QuickStart != nil {
		dst.Bundle.QuickStart = src.Bundle.QuickStart
	}
	dst.AWS = src.AWS
	dst.History = src.History
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func validate(cfg Config) error {
	if cfg.Manifest == "" || cfg.Changelog == "" {
		return errors.New("manifest and changelog paths are required")
	}
	for i, r := range cfg.Rules {
		if r.Name == "" {
			return fmt.Errorf("rule %d: name is required", i)
		}
		if r.Message == "" && len(r.Files) == 0 {
			return fmt.Errorf("rule %q: message or files is required", r.Name)
		}
	}
	if cfg.AWS.Enabled() && cfg.AWS.Region == "" && os.Getenv("AWS_REGION") == "" && os.Getenv("AWS_DEFAULT_REGION") == "" {
		return errors.New("aws.region (or AWS_REGION) is required when aws publication is enabled")
	}
	return nil
}

// Resolve returns a copy with manifest, changelog and output paths made absolute
// against repoDir.
func (c Config) Resolve(repoDir string) (Config, error) {
	root, err := filepath.Abs(repoDir)
	if err != nil {
		return c, fmt.Errorf("failed to resolve repo dir %s: %w", repoDir, err)
	}
	for _, p := range []*string{&c.Manifest, &c.Changelog, &c.OutputDir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(root, *p)
		}
	}
	return c, nil
}
