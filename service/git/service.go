// Package git wraps the git CLI for commit inspection, tagging and pushing.
package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/thirukguru/release-cutter/model"
	"github.com/thirukguru/release-cutter/shared/command"
)

const (
	fieldSep  = "\x1f"
	recordSep = "\x1e"
	logFormat = "--format=%H%x1f%an%x1f%aI%x1f%s%x1f%b%x1e"
)

// NewService creates a git service operating in dir.
func NewService(runner command.Runner, dir string) Service {
	return &service{runner: runner, dir: dir}
}

// IsReadOnly reports whether a git invocation leaves the repository untouched.
// Used by dry runs to decide which commands may still execute.
func IsReadOnly(name string, args []string) bool {
	if name != "git" || len(args) == 0 {
		return false
	}
	switch args[0] {
	case "log", "diff-tree", "describe", "rev-parse", "status", "show":
		return true
	case "tag":
		return len(args) > 1 && args[1] == "--list"
	}
	return false
}

func (s *service) git(ctx context.Context, args ...string) (string, error) {
	return s.runner.Run(ctx, s.dir, "git", args...)
}

func (s *service) HeadCommit(ctx context.Context) (model.Commit, error) {
	out, err := s.git(ctx, "log", "-1", logFormat)
	if err != nil {
		return model.Commit{}, fmt.Errorf("failed to read head commit: %w", err)
	}
	commits := parseLog(out)
	if len(commits) == 0 {
		return model.Commit{}, fmt.Errorf("repository has no commits")
	}
	return commits[0], nil
}

func (s *service) ChangedFiles(ctx context.Context, rev string) ([]string, error) {
	if rev == "" {
		rev = "HEAD"
	}
	out, err := s.git(ctx, "diff-tree", "--no-commit-id", "--name-only", "-r", "--root", rev)
	if err != nil {
		return nil, fmt.Errorf("failed to list changed files for %s: %w", rev, err)
	}
	return splitLines(out), nil
}

func (s *service) LatestTag(ctx context.Context) (string, error) {
	out, err := s.git(ctx, "describe", "--tags", "--abbrev=0", "--match", "v[0-9]*")
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "No names found") || strings.Contains(msg, "No tags can describe") || strings.Contains(msg, "cannot describe") {
			return "", ErrNoTags
		}
		return "", fmt.Errorf("failed to resolve latest tag: %w", err)
	}
	if out == "" {
		return "", ErrNoTags
	}
	return out, nil
}

func (s *service) CommitsSince(ctx context.Context, ref string) ([]model.Commit, error) {
	args := []string{"log", logFormat}
	if ref != "" {
		args = append(args, ref+"..HEAD")
	}
	out, err := s.git(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits since %q: %w", ref, err)
	}
	return parseLog(out), nil
}

func (s *service) RawLog(ctx context.Context, limit int) (string, error) {
	if limit <= 0 {
		limit = 50
	}
	return s.git(ctx, "log", "--oneline", "-n", strconv.Itoa(limit))
}

func (s *service) TagExists(ctx context.Context, tag string) (bool, error) {
	out, err := s.git(ctx, "tag", "--list", tag)
	if err != nil {
		return false, fmt.Errorf("failed to list tags: %w", err)
	}
	return strings.TrimSpace(out) == tag, nil
}

func (s *service) Add(ctx context.Context, paths ...string) error {
	if len(paths) == 0 {
		return nil
	}
	_, err := s.git(ctx, append([]string{"add", "--"}, paths...)...)
	return err
}

func (s *service) Commit(ctx context.Context, message string) error {
	_, err := s.git(ctx, "commit", "-m", message)
	return err
}

func (s *service) Tag(ctx context.Context, tag, message string) error {
	_, err := s.git(ctx, "tag", "-a", tag, "-m", message)
	return err
}

func (s *service) Push(ctx context.Context, remote string, refs ...string) error {
	if remote == "" {
		remote = "origin"
	}
	_, err := s.git(ctx, append([]string{"push", remote}, refs...)...)
	return err
}

func (s *service) HeadSHA(ctx context.Context) (string, error) {
	return s.git(ctx, "rev-parse", "HEAD")
}

func parseLog(out string) []model.Commit {
	var commits []model.Commit
	for _, rec := range strings.Split(out, recordSep) {
		rec = strings.TrimLeft(rec, "\r\n")
		if strings.TrimSpace(rec) == "" {
			continue
		}
		fields := strings.SplitN(rec, fieldSep, 5)
		if len(fields) < 4 {
			continue
		}
		c := model.Commit{
			Hash:    strings.TrimSpace(fields[0]),
			Author:  fields[1],
			Subject: strings.TrimSpace(fields[3]),
		}
		if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(fields[2])); err == nil {
			c.Date = ts
		}
		if len(fields) == 5 {
			c.Body = strings.TrimSpace(fields[4])
		}
		commits = append(commits, c)
	}
	return commits
}

func splitLines(out string) []string {
	var lines []string
	for _, l := range strings.Split(out, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
