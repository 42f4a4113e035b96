// Package changelog builds release notes from git history and maintains CHANGELOG.md.
package changelog

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/thirukguru/release-cutter/service/git"
	"github.com/thirukguru/release-cutter/shared/logger"
	"go.uber.org/zap"
)

const rawLogLimit = 50

// NewService creates a changelog service reading history from h.
func NewService(h History, l *zap.Logger) Service {
	return &service{history: h, now: time.Now, logger: logger.OrNop(l)}
}

// Generate renders notes for the commits since the latest tag. If the history
// cannot be read it falls back to a raw `git log` dump.
func (s *service) Generate(ctx context.Context) (Notes, error) {
	since, err := s.history.LatestTag(ctx)
	if err != nil && !errors.Is(err, git.ErrNoTags) {
		return s.fallback(ctx, err)
	}

	commits, err := s.history.CommitsSince(ctx, since)
	if err != nil {
		return s.fallback(ctx, err)
	}
	return Notes{Body: RenderNotes(commits), Since: since, Commits: len(commits)}, nil
}

func (s *service) fallback(ctx context.Context, cause error) (Notes, error) {
	s.logger.Warn("changelog generation failed, falling back to git log", zap.Error(cause))
	raw, err := s.history.RawLog(ctx, rawLogLimit)
	if err != nil {
		return Notes{}, fmt.Errorf("changelog generation failed (%v) and git log fallback failed: %w", cause, err)
	}
	return Notes{Body: renderRawLog(raw), Fallback: true}, nil
}

// Prepend inserts a dated section for version directly below the Unreleased
// heading and returns the section written. Content already listed under
// Unreleased ends up inside the new section.
func (s *service) Prepend(path, version, notes string) (string, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to read changelog %s: %w", path, err)
	}
	content := string(existing)
	if strings.TrimSpace(content) == "" {
		content = header
	}
	if hasVersion(content, version) {
		return "", fmt.Errorf("%s: %w: %s", path, ErrVersionExists, version)
	}

	section := fmt.Sprintf("## [%s] - %s\n\n%s\n", version, s.now().Format("2006-01-02"), strings.TrimSpace(notes))
	updated := insertSection(content, section)
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return "", fmt.Errorf("failed to write changelog %s: %w", path, err)
	}
	return section, nil
}

// Extract returns the body of the section for version.
func (s *service) Extract(path, version string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read changelog %s: %w", path, err)
	}
	prefix := "## [" + strings.TrimPrefix(version, "v") + "]"

	var (
		found bool
		body  []string
	)
	scanner := bufio.NewScanner(strings.NewReader(string(raw)))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "## ") {
			if found {
				break
			}
			found = strings.HasPrefix(line, prefix)
			continue
		}
		if found {
			body = append(body, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("%s: %w: %s", path, ErrVersionNotFound, version)
	}
	return strings.TrimSpace(strings.Join(body, "\n")), nil
}

func hasVersion(content, version string) bool {
	prefix := "## [" + version + "]"
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			return true
		}
	}
	return false
}

func insertSection(content, section string) string {
	lines := strings.SplitAfter(content, "\n")
	for i, line := range lines {
		if strings.EqualFold(strings.TrimSpace(line), UnreleasedHeading) {
			head := strings.Join(lines[:i+1], "")
			if !strings.HasSuffix(head, "\n") {
				head += "\n"
			}
			rest := strings.TrimLeft(strings.Join(lines[i+1:], ""), "\n")
			if rest == "" {
				return head + "\n" + section
			}
			return head + "\n" + section + "\n" + rest
		}
	}

	// No Unreleased heading: add one above the first release section.
	for i, line := range lines {
		if strings.HasPrefix(line, "## ") {
			head := strings.Join(lines[:i], "")
			rest := strings.Join(lines[i:], "")
			return head + UnreleasedHeading + "\n\n" + section + "\n" + rest
		}
	}
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + "\n" + UnreleasedHeading + "\n\n" + section
}
