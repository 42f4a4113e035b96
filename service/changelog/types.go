package changelog

import (
	"context"
	"errors"
	"time"

	"github.com/thirukguru/release-cutter/model"
	"go.uber.org/zap"
)

// ErrVersionExists is returned when the changelog already has a section for the version.
var ErrVersionExists = errors.New("changelog already contains this version")

// ErrVersionNotFound is returned by Extract when no section matches.
var ErrVersionNotFound = errors.New("version not found in changelog")

// UnreleasedHeading marks the section new entries are inserted under.
const UnreleasedHeading = "## [Unreleased]"

const header = `# Changelog

All notable changes to this project will be documented in this file.

The format is based on [Keep a Changelog](https://keepachangelog.com/en/1.1.0/),
and this project adheres to [Semantic Versioning](https://semver.org/spec/v2.0.0.html).

` + UnreleasedHeading + "\n"

// History is the subset of git the changelog needs.
type History interface {
	LatestTag(ctx context.Context) (string, error)
	CommitsSince(ctx context.Context, ref string) ([]model.Commit, error)
	RawLog(ctx context.Context, limit int) (string, error)
}

// Notes is a generated release-notes body.
type Notes struct {
	Body     string
	Since    string
	Commits  int
	Fallback bool
}

// Group is one heading of the release notes.
type Group struct {
	Title   string
	Entries []string
}

type service struct {
	history History
	now     func() time.Time
	logger  *zap.Logger
}

// Service is the interface for changelog generation and maintenance.
type Service interface {
	Generate(ctx context.Context) (Notes, error)
	Prepend(path, version, notes string) (string, error)
	Extract(path, version string) (string, error)
}
