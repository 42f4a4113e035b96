package jsonoutput

import (
	"bytes"
	"testing"

	"github.com/goccy/go-json"
	"github.com/thirukguru/release-cutter/model"
)

func TestOutputPlanJSON(t *testing.T) {
	var buf bytes.Buffer
	plan := model.Plan{
		Project:        "rules",
		Decision:       model.Decision{ShouldRelease: true, ReleaseType: model.ReleaseMinor, Reason: "New features", Trigger: model.TriggerPush},
		CurrentVersion: "1.2.3",
		NewVersion:     "1.3.0",
		Tag:            "v1.3.0",
	}
	if err := OutputPlanJSON(&buf, plan); err != nil {
		t.Fatalf("OutputPlanJSON failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if got["new_version"] != "1.3.0" || got["tag"] != "v1.3.0" || got["generated_at"] == "" {
		t.Fatalf("unexpected report: %v", got)
	}
	if assets, ok := got["assets"].([]any); !ok || len(assets) != 0 {
		t.Fatalf("expected empty assets array, got %v", got["assets"])
	}
	decision, ok := got["decision"].(map[string]any)
	if !ok || decision["release_type"] != "minor" || decision["should_release"] != true {
		t.Fatalf("unexpected decision: %v", got["decision"])
	}
}

func TestOutputDecisionJSON(t *testing.T) {
	var buf bytes.Buffer
	err := OutputDecisionJSON(&buf, model.Commit{Hash: "0123456789abcdef"}, nil,
		model.Decision{ReleaseType: model.ReleaseNone, Reason: "No release trigger matched", Trigger: model.TriggerPush})
	if err != nil {
		t.Fatalf("OutputDecisionJSON failed: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got["commit"] != "0123456" || got["should_release"] != false || got["release_type"] != "none" {
		t.Fatalf("unexpected decision report: %v", got)
	}
}
