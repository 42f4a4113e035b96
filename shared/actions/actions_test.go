package actions

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteOutputsTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output")
	err := WriteOutputsTo(path, map[string]string{
		"should_release": "true",
		"release_type":   "minor",
		"notes":          "line one\nline two",
	})
	if err != nil {
		t.Fatalf("WriteOutputsTo failed: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	content := string(raw)
	if !strings.Contains(content, "release_type=minor\n") || !strings.Contains(content, "should_release=true\n") {
		t.Fatalf("missing single-line outputs: %q", content)
	}
	if !strings.HasPrefix(content, "notes<<ghadelim_") || !strings.Contains(content, "\nline one\nline two\nghadelim_") {
		t.Fatalf("unexpected multi-line output: %q", content)
	}

	if err := WriteOutputsTo(path, map[string]string{"tag": "v1.0.0"}); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	raw, _ = os.ReadFile(path)
	if !strings.HasSuffix(string(raw), "tag=v1.0.0\n") {
		t.Fatalf("expected append, got %q", string(raw))
	}
}

func TestWriteOutputsNoopWithoutPath(t *testing.T) {
	if err := WriteOutputsTo("", map[string]string{"a": "b"}); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.md")
	t.Setenv("GITHUB_STEP_SUMMARY", path)
	if err := WriteSummary("## Release\n\n"); err != nil {
		t.Fatalf("WriteSummary failed: %v", err)
	}
	raw, _ := os.ReadFile(path)
	if string(raw) != "## Release\n" {
		t.Fatalf("unexpected summary: %q", string(raw))
	}
}
