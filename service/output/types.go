package output

import (
	"io"

	"github.com/thirukguru/release-cutter/model"
	"github.com/thirukguru/release-cutter/service/storage"
	historytable "github.com/thirukguru/release-cutter/shared/history_table"
	jsonoutput "github.com/thirukguru/release-cutter/shared/json_output"
	"github.com/thirukguru/release-cutter/shared/notes"
	releasetable "github.com/thirukguru/release-cutter/shared/release_table"
	"github.com/thirukguru/release-cutter/shared/spinner"
)

// Format represents the output format type
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Renderer defines the interface for drawing tables
type Renderer interface {
	DrawDecisionTable(w io.Writer, commit model.Commit, files []string, d model.Decision)
	DrawVersionTable(w io.Writer, r model.VersionReportJSON)
	DrawPlanTable(w io.Writer, plan model.Plan)
	DrawNotes(w io.Writer, markdown string) error
	DrawReleases(w io.Writer, releases []storage.ReleaseSummary)
	DrawReleaseDetail(w io.Writer, r *storage.ReleaseSummary, assets []storage.AssetRecord)
	DrawCadence(w io.Writer, points []storage.CadencePoint)
	OutputDecisionJSON(w io.Writer, commit model.Commit, files []string, d model.Decision) error
	OutputPlanJSON(w io.Writer, plan model.Plan) error
	OutputJSON(w io.Writer, v any) error
	StartSpinner(message string)
	StopSpinner()
}

type realRenderer struct{}

func (r *realRenderer) DrawDecisionTable(w io.Writer, commit model.Commit, files []string, d model.Decision) {
	releasetable.DrawDecisionTable(w, commit, files, d)
}

func (r *realRenderer) DrawVersionTable(w io.Writer, v model.VersionReportJSON) {
	releasetable.DrawVersionTable(w, v)
}

func (r *realRenderer) DrawPlanTable(w io.Writer, plan model.Plan) {
	releasetable.DrawPlanTable(w, plan)
}

func (r *realRenderer) DrawNotes(w io.Writer, markdown string) error {
	return notes.Render(w, markdown)
}

func (r *realRenderer) DrawReleases(w io.Writer, releases []storage.ReleaseSummary) {
	historytable.RenderReleaseTable(w, releases)
}

func (r *realRenderer) DrawReleaseDetail(w io.Writer, rel *storage.ReleaseSummary, assets []storage.AssetRecord) {
	historytable.RenderReleaseDetail(w, rel, assets)
}

func (r *realRenderer) DrawCadence(w io.Writer, points []storage.CadencePoint) {
	historytable.RenderCadenceTable(w, points)
}

func (r *realRenderer) OutputDecisionJSON(w io.Writer, commit model.Commit, files []string, d model.Decision) error {
	return jsonoutput.OutputDecisionJSON(w, commit, files, d)
}

func (r *realRenderer) OutputPlanJSON(w io.Writer, plan model.Plan) error {
	return jsonoutput.OutputPlanJSON(w, plan)
}

func (r *realRenderer) OutputJSON(w io.Writer, v any) error {
	return jsonoutput.OutputJSON(w, v)
}

func (r *realRenderer) StartSpinner(message string) {
	spinner.StartSpinner(message)
}

func (r *realRenderer) StopSpinner() {
	spinner.StopSpinner()
}

// service is the internal implementation
type service struct {
	format   Format
	out      io.Writer
	renderer Renderer
}

// Service defines the interface for output operations
type Service interface {
	Format() Format
	RenderDecision(commit model.Commit, files []string, d model.Decision) error
	RenderVersion(r model.VersionReportJSON) error
	RenderPlan(plan model.Plan) error
	RenderNotes(version, markdown string) error
	RenderReleases(releases []storage.ReleaseSummary) error
	RenderRelease(r *storage.ReleaseSummary, assets []storage.AssetRecord) error
	RenderCadence(points []storage.CadencePoint) error
	StartSpinner(message string)
	StopSpinner()
}
