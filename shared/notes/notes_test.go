package notes

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderPlain(t *testing.T) {
	var buf bytes.Buffer
	md := "## [1.3.0] - 2026-10-01\n\n### Features\n\n- add release tooling (abc1234)\n"
	if err := Render(&buf, md); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Features") || !strings.Contains(out, "add release tooling") {
		t.Fatalf("unexpected rendered notes:\n%s", out)
	}
}
