package historytable

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/thirukguru/release-cutter/service/storage"
)

func TestRenderReleaseTable(t *testing.T) {
	var buf bytes.Buffer
	RenderReleaseTable(&buf, []storage.ReleaseSummary{{
		ReleaseID:       3,
		Project:         "rules",
		Tag:             "v1.3.0",
		PreviousVersion: "1.2.3",
		ReleaseType:     "minor",
		Trigger:         "push",
		Reason:          "New features",
		CreatedAt:       time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC),
		AssetCount:      3,
	}})
	out := buf.String()
	for _, want := range []string{"v1.3.0", "2026-10-01 09:30", "New features"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestRenderReleaseTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	RenderReleaseTable(&buf, nil)
	if !strings.Contains(buf.String(), "No releases recorded") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestRenderCadenceTableTotals(t *testing.T) {
	var buf bytes.Buffer
	RenderCadenceTable(&buf, []storage.CadencePoint{
		{Date: "2026-10-01", ReleaseType: "patch", Count: 2},
		{Date: "2026-10-02", ReleaseType: "minor", Count: 1},
	})
	if !strings.Contains(buf.String(), "3") {
		t.Fatalf("expected total in output:\n%s", buf.String())
	}
}
