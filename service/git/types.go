package git

import (
	"context"
	"errors"

	"github.com/thirukguru/release-cutter/model"
	"github.com/thirukguru/release-cutter/shared/command"
)

// ErrNoTags is returned by LatestTag when the repository has no release tag yet.
var ErrNoTags = errors.New("no release tags found")

type service struct {
	runner command.Runner
	dir    string
}

// Service is the interface for git operations used by the release pipeline.
type Service interface {
	HeadCommit(ctx context.Context) (model.Commit, error)
	ChangedFiles(ctx context.Context, rev string) ([]string, error)
	LatestTag(ctx context.Context) (string, error)
	CommitsSince(ctx context.Context, ref string) ([]model.Commit, error)
	RawLog(ctx context.Context, limit int) (string, error)
	TagExists(ctx context.Context, tag string) (bool, error)
	Add(ctx context.Context, paths ...string) error
	Commit(ctx context.Context, message string) error
	Tag(ctx context.Context, tag, message string) error
	Push(ctx context.Context, remote string, refs ...string) error
	HeadSHA(ctx context.Context) (string, error)
}
