// Package jsonoutput renders release results as indented JSON documents.
package jsonoutput

import (
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/thirukguru/release-cutter/model"
)

// OutputPlanJSON writes the release plan as JSON.
func OutputPlanJSON(w io.Writer, plan model.Plan) error {
	return printJSON(w, BuildReleaseReport(plan, time.Now().UTC().Format(time.RFC3339)))
}

// BuildReleaseReport builds the release JSON report model.
func BuildReleaseReport(plan model.Plan, generatedAt string) model.ReleaseReportJSON {
	if plan.Assets == nil {
		plan.Assets = []model.Asset{}
	}
	return model.ReleaseReportJSON{GeneratedAt: generatedAt, Plan: plan}
}

// OutputDecisionJSON writes a classification result as JSON.
func OutputDecisionJSON(w io.Writer, commit model.Commit, files []string, d model.Decision) error {
	if files == nil {
		files = []string{}
	}
	return printJSON(w, model.DecisionReportJSON{
		GeneratedAt:  time.Now().UTC().Format(time.RFC3339),
		Commit:       commit.ShortHash(),
		ChangedFiles: files,
		Decision:     d,
	})
}

// OutputJSON writes any value as indented JSON.
func OutputJSON(w io.Writer, v any) error {
	return printJSON(w, v)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(data))

	return err
}
