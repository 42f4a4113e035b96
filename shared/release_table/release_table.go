// Package releasetable renders release decisions and plans as terminal tables.
package releasetable

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/thirukguru/release-cutter/model"
)

// DrawDecisionTable renders the outcome of trigger detection.
func DrawDecisionTable(w io.Writer, commit model.Commit, files []string, d model.Decision) {
	fmt.Fprintln(w, "\n🔎 Release Trigger")
	if d.ShouldRelease {
		fmt.Fprintf(w, "   %s\n", text.FgGreen.Sprintf("🚀 %s release: %s", d.ReleaseType, d.Reason))
	} else {
		fmt.Fprintf(w, "   %s\n", text.FgYellow.Sprintf("⏸  no release: %s", d.Reason))
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Trigger", "Commit", "Subject", "Rule", "Type", "Files"})
	t.AppendRow(table.Row{d.Trigger, commit.ShortHash(), truncate(commit.Subject, 50), orDash(d.Rule), FormatReleaseType(d.ReleaseType), len(files)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// DrawVersionTable renders a version bump.
func DrawVersionTable(w io.Writer, r model.VersionReportJSON) {
	fmt.Fprintln(w, "\n🔢 Version")
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Manifest", "Current", "Next", "Type", "Written"})
	t.AppendRow(table.Row{r.Manifest, r.CurrentVersion, text.Bold.Sprint(r.NewVersion), FormatReleaseType(r.ReleaseType), yesNo(r.Written)})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// DrawPlanTable renders a release run: summary, assets and mirror locations.
func DrawPlanTable(w io.Writer, plan model.Plan) {
	title := "\n📦 Release " + plan.Tag
	if plan.DryRun {
		title += text.FgYellow.Sprint(" (dry run)")
	}
	fmt.Fprintln(w, title)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Project", "Trigger", "Type", "Reason", "From", "To", "Prerelease"})
	t.AppendRow(table.Row{
		plan.Project,
		plan.Decision.Trigger,
		FormatReleaseType(plan.Decision.ReleaseType),
		truncate(plan.Decision.Reason, 40),
		plan.CurrentVersion,
		text.Bold.Sprint(plan.NewVersion),
		yesNo(plan.Prerelease),
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	DrawAssetsTable(w, plan.Assets)

	if len(plan.MirrorLocations) > 0 {
		fmt.Fprintln(w, "\n🪣 Mirrored to S3")
		for _, loc := range plan.MirrorLocations {
			fmt.Fprintf(w, "   %s\n", loc)
		}
	}
	if plan.ReleaseURL != "" {
		fmt.Fprintf(w, "\n%s %s\n", text.FgGreen.Sprint("✅ Published:"), plan.ReleaseURL)
	}
}

// DrawAssetsTable renders release assets with size and checksum.
func DrawAssetsTable(w io.Writer, assets []model.Asset) {
	if len(assets) == 0 {
		return
	}
	fmt.Fprintln(w, "\n🗂  Assets")
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Asset", "Size", "SHA-256"})
	var total int64
	for _, a := range assets {
		t.AppendRow(table.Row{a.Name, humanize.Bytes(uint64(a.Size)), a.SHA256})
		total += a.Size
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d files", len(assets)), humanize.Bytes(uint64(total)), ""})
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// FormatReleaseType colours a release type by impact.
func FormatReleaseType(rt model.ReleaseType) string {
	switch rt {
	case model.ReleaseMajor:
		return text.FgRed.Sprint("🔴 major")
	case model.ReleaseMinor:
		return text.FgYellow.Sprint("🟡 minor")
	case model.ReleasePatch:
		return text.FgCyan.Sprint("🔵 patch")
	case model.ReleasePrerelease:
		return text.FgMagenta.Sprint("🧪 prerelease")
	case model.ReleaseNone, "":
		return "none"
	default:
		return string(rt)
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
