// Package github creates GitHub Releases through the gh CLI.
package github

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/thirukguru/release-cutter/shared/command"
)

// NewService creates a GitHub service running gh in dir.
func NewService(runner command.Runner, dir string) Service {
	return &service{runner: runner, dir: dir}
}

// IsReadOnly reports whether a gh invocation only reads state.
func IsReadOnly(name string, args []string) bool {
	return name == "gh" && len(args) > 1 && args[0] == "release" && (args[1] == "view" || args[1] == "list")
}

func (s *service) ReleaseExists(ctx context.Context, tag string) (bool, error) {
	out, err := s.runner.Run(ctx, s.dir, "gh", "release", "view", tag, "--json", "tagName", "--jq", ".tagName")
	if err != nil {
		if strings.Contains(err.Error(), "release not found") {
			return false, nil
		}
		return false, fmt.Errorf("failed to query release %s: %w", tag, err)
	}
	return strings.TrimSpace(out) == tag, nil
}

// CreateRelease uploads assets with the release and returns the release URL.
func (s *service) CreateRelease(ctx context.Context, input ReleaseInput) (string, error) {
	if input.Tag == "" {
		return "", errors.New("release tag is required")
	}
	args := []string{"release", "create", input.Tag}
	args = append(args, input.Assets...)

	title := input.Title
	if title == "" {
		title = input.Tag
	}
	args = append(args, "--title", title, "--verify-tag")
	if input.NotesFile != "" {
		args = append(args, "--notes-file", input.NotesFile)
	} else {
		args = append(args, "--generate-notes")
	}
	if input.Prerelease {
		args = append(args, "--prerelease")
	}

	out, err := s.runner.Run(ctx, s.dir, "gh", args...)
	if err != nil {
		return "", fmt.Errorf("failed to create release %s: %w", input.Tag, err)
	}
	return lastLine(out), nil
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "\n"); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}
