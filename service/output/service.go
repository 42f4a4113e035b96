// Package output provides a service for rendering results to the console.
package output

import (
	"io"
	"os"

	"github.com/thirukguru/release-cutter/model"
	"github.com/thirukguru/release-cutter/service/storage"
)

// NewService creates a new output service with the specified format writing to stdout.
func NewService(format string) Service {
	return newService(format, os.Stdout, &realRenderer{})
}

func newService(format string, out io.Writer, renderer Renderer) *service {
	f := FormatTable
	if format == "json" {
		f = FormatJSON
	}

	return &service{
		format:   f,
		out:      out,
		renderer: renderer,
	}
}

func (s *service) Format() Format {
	return s.format
}

func (s *service) RenderDecision(commit model.Commit, files []string, d model.Decision) error {
	if s.format == FormatJSON {
		return s.renderer.OutputDecisionJSON(s.out, commit, files, d)
	}
	s.renderer.DrawDecisionTable(s.out, commit, files, d)
	return nil
}

func (s *service) RenderVersion(r model.VersionReportJSON) error {
	if s.format == FormatJSON {
		return s.renderer.OutputJSON(s.out, r)
	}
	s.renderer.DrawVersionTable(s.out, r)
	return nil
}

func (s *service) RenderPlan(plan model.Plan) error {
	if s.format == FormatJSON {
		return s.renderer.OutputPlanJSON(s.out, plan)
	}
	s.renderer.DrawPlanTable(s.out, plan)
	return nil
}

func (s *service) RenderNotes(version, markdown string) error {
	if s.format == FormatJSON {
		return s.renderer.OutputJSON(s.out, map[string]string{"version": version, "notes": markdown})
	}
	return s.renderer.DrawNotes(s.out, markdown)
}

func (s *service) RenderReleases(releases []storage.ReleaseSummary) error {
	if s.format == FormatJSON {
		return s.renderer.OutputJSON(s.out, releases)
	}
	s.renderer.DrawReleases(s.out, releases)
	return nil
}

func (s *service) RenderRelease(r *storage.ReleaseSummary, assets []storage.AssetRecord) error {
	if s.format == FormatJSON {
		return s.renderer.OutputJSON(s.out, struct {
			*storage.ReleaseSummary
			Assets []storage.AssetRecord `json:"assets"`
		}{r, assets})
	}
	s.renderer.DrawReleaseDetail(s.out, r, assets)
	return nil
}

func (s *service) RenderCadence(points []storage.CadencePoint) error {
	if s.format == FormatJSON {
		return s.renderer.OutputJSON(s.out, points)
	}
	s.renderer.DrawCadence(s.out, points)
	return nil
}

// StartSpinner shows progress for table output only, JSON output stays machine readable.
func (s *service) StartSpinner(message string) {
	if s.format == FormatJSON {
		return
	}
	s.renderer.StartSpinner(message)
}

func (s *service) StopSpinner() {
	s.renderer.StopSpinner()
}
