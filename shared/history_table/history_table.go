// Package historytable renders the local release ledger.
package historytable

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/thirukguru/release-cutter/service/storage"
)

const timeFormat = "2006-01-02 15:04"

// RenderReleaseTable prints an ASCII table of recorded releases.
func RenderReleaseTable(w io.Writer, releases []storage.ReleaseSummary) {
	if len(releases) == 0 {
		fmt.Fprintln(w, "No releases recorded")
		return
	}
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"ID", "Date", "Project", "Tag", "From", "Type", "Trigger", "Reason", "Assets"})
	for _, r := range releases {
		t.AppendRow(table.Row{r.ReleaseID, r.CreatedAt.Format(timeFormat), r.Project, r.Tag, r.PreviousVersion, r.ReleaseType, r.Trigger, r.Reason, r.AssetCount})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// RenderReleaseDetail prints one release and its assets.
func RenderReleaseDetail(w io.Writer, r *storage.ReleaseSummary, assets []storage.AssetRecord) {
	if r == nil {
		fmt.Fprintln(w, "No release data available")
		return
	}
	fmt.Fprintf(w, "\nRelease %s (%s)\n", r.Tag, r.Project)
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendRows([]table.Row{
		{"Version", r.Version},
		{"Previous", r.PreviousVersion},
		{"Type", r.ReleaseType},
		{"Trigger", r.Trigger},
		{"Reason", r.Reason},
		{"Commit", r.CommitSHA},
		{"Released", r.CreatedAt.Format(timeFormat)},
		{"URL", r.URL},
	})
	t.SetStyle(table.StyleRounded)
	t.Render()

	if len(assets) == 0 {
		return
	}
	a := table.NewWriter()
	a.SetOutputMirror(w)
	a.AppendHeader(table.Row{"Asset", "Size", "SHA-256", "Location"})
	for _, asset := range assets {
		a.AppendRow(table.Row{asset.Name, humanize.Bytes(uint64(asset.Size)), asset.SHA256, asset.Location})
	}
	a.SetStyle(table.StyleRounded)
	a.Render()
}

// RenderCadenceTable prints daily release counts per release type.
func RenderCadenceTable(w io.Writer, points []storage.CadencePoint) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Date", "Type", "Releases"})
	total := 0
	for _, p := range points {
		t.AppendRow(table.Row{p.Date, p.ReleaseType, p.Count})
		total += p.Count
	}
	t.AppendFooter(table.Row{"", "Total", total})
	t.SetStyle(table.StyleRounded)
	t.Render()
}
