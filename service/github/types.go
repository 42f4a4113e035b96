package github

import (
	"context"

	"github.com/thirukguru/release-cutter/shared/command"
)

// ReleaseInput describes a GitHub Release to create.
type ReleaseInput struct {
	Tag        string
	Title      string
	NotesFile  string
	Assets     []string
	Prerelease bool
}

type service struct {
	runner command.Runner
	dir    string
}

// Service is the interface for GitHub Release operations through the gh CLI.
type Service interface {
	ReleaseExists(ctx context.Context, tag string) (bool, error)
	CreateRelease(ctx context.Context, input ReleaseInput) (string, error)
}
