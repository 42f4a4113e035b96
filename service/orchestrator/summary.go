package orchestrator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thirukguru/release-cutter/model"
)

func decisionOutputs(d model.Decision) map[string]string {
	rt := d.ReleaseType
	if rt == "" {
		rt = model.ReleaseNone
	}
	out := map[string]string{
		"should_release": strconv.FormatBool(d.ShouldRelease),
		"release_type":   string(rt),
		"reason":         d.Reason,
	}
	if d.PrereleaseID != "" {
		out["prerelease_identifier"] = d.PrereleaseID
	}
	return out
}

func planOutputs(plan model.Plan) map[string]string {
	out := decisionOutputs(plan.Decision)
	out["current_version"] = plan.CurrentVersion
	out["new_version"] = plan.NewVersion
	out["tag"] = plan.Tag
	out["prerelease"] = strconv.FormatBool(plan.Prerelease)
	if plan.ReleaseURL != "" {
		out["release_url"] = plan.ReleaseURL
	}
	return out
}

func noReleaseSummary(d model.Decision) string {
	return fmt.Sprintf("## ⏸️ No release\n\n%s\n", d.Reason)
}

func blockedSummary(d model.Decision, err error) string {
	return fmt.Sprintf("## ⛔ Release blocked\n\n%s resolved to a **%s** release (%s).\n\n%s\n",
		d.Trigger, d.ReleaseType, d.Reason, err)
}

func releaseSummary(plan model.Plan) string {
	var b strings.Builder
	title := "🚀 Release " + plan.Tag
	if plan.DryRun {
		title += " (dry run)"
	}
	fmt.Fprintf(&b, "## %s\n\n", title)
	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Type | %s |\n", plan.Decision.ReleaseType)
	fmt.Fprintf(&b, "| Reason | %s |\n", plan.Decision.Reason)
	fmt.Fprintf(&b, "| Trigger | %s |\n", plan.Decision.Trigger)
	fmt.Fprintf(&b, "| Version | %s → %s |\n", plan.CurrentVersion, plan.NewVersion)
	if plan.ReleaseURL != "" {
		fmt.Fprintf(&b, "| Release | %s |\n", plan.ReleaseURL)
	}

	if len(plan.Assets) > 0 {
		b.WriteString("\n### Assets\n\n| File | SHA-256 |\n|---|---|\n")
		for _, a := range plan.Assets {
			fmt.Fprintf(&b, "| `%s` | `%s` |\n", a.Name, a.SHA256)
		}
	}
	if len(plan.MirrorLocations) > 0 {
		b.WriteString("\n### Mirror\n\n")
		for _, loc := range plan.MirrorLocations {
			fmt.Fprintf(&b, "- `%s`\n", loc)
		}
	}
	if strings.TrimSpace(plan.Notes) != "" {
		fmt.Fprintf(&b, "\n### Notes\n\n%s\n", strings.TrimSpace(plan.Notes))
	}
	return b.String()
}
