package changelog

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/thirukguru/release-cutter/model"
)

var conventionalSubject = regexp.MustCompile(`^(\w+)(?:\(([^)]*)\))?(!)?:\s*(.+)$`)

var groupOrder = []string{
	"Breaking Changes",
	"Features",
	"Bug Fixes",
	"Improvements",
	"Documentation",
	"Maintenance",
	"Other",
}

func groupFor(kind string) string {
	switch strings.ToLower(kind) {
	case "feat":
		return "Features"
	case "fix":
		return "Bug Fixes"
	case "perf", "refactor":
		return "Improvements"
	case "docs":
		return "Documentation"
	case "chore", "ci", "build", "test", "style":
		return "Maintenance"
	}
	return "Other"
}

// GroupCommits sorts commits into release-note groups, keeping git order inside a group.
func GroupCommits(commits []model.Commit) []Group {
	byTitle := map[string]*Group{}
	for _, c := range commits {
		subject := strings.TrimSpace(c.Subject)
		if subject == "" || strings.HasPrefix(subject, "chore(release):") || strings.HasPrefix(subject, "Merge ") {
			continue
		}

		title, text := "Other", subject
		if m := conventionalSubject.FindStringSubmatch(subject); m != nil {
			title = groupFor(m[1])
			text = m[4]
			if m[2] != "" {
				text = fmt.Sprintf("**%s:** %s", m[2], m[4])
			}
			if m[3] == "!" {
				title = "Breaking Changes"
			}
		}
		if msg := c.Message(); strings.Contains(msg, "BREAKING CHANGE") || strings.Contains(msg, "BREAKING-CHANGE") {
			title = "Breaking Changes"
		}
		if h := c.ShortHash(); h != "" {
			text = fmt.Sprintf("%s (%s)", text, h)
		}

		g, ok := byTitle[title]
		if !ok {
			g = &Group{Title: title}
			byTitle[title] = g
		}
		g.Entries = append(g.Entries, text)
	}

	var groups []Group
	for _, title := range groupOrder {
		if g, ok := byTitle[title]; ok {
			groups = append(groups, *g)
		}
	}
	return groups
}

// RenderNotes formats commits as Markdown release notes.
func RenderNotes(commits []model.Commit) string {
	groups := GroupCommits(commits)
	if len(groups) == 0 {
		return "- No notable changes"
	}
	var b strings.Builder
	for i, g := range groups {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "### %s\n\n", g.Title)
		for _, e := range g.Entries {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderRawLog(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "- No notable changes"
	}
	return "### Commits\n\n```\n" + raw + "\n```"
}
