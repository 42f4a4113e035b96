package terminal

import (
	"bytes"
	"testing"
)

func TestBlueBackgroundFromEnv(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"15;4", true},
		{"15;12", true},
		{"0;15", false},
		{"15;default;4", true},
		{"7", false},
		{"15; ", false},
	}
	for _, tt := range tests {
		if got := blueBackgroundFromEnv(tt.raw); got != tt.want {
			t.Fatalf("blueBackgroundFromEnv(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestIsBlueBackgroundReadsEnv(t *testing.T) {
	t.Setenv("COLORFGBG", "15;4")
	if !IsBlueBackground() {
		t.Fatal("expected blue background")
	}
}

func TestNonFileWriterIsNotTerminal(t *testing.T) {
	var buf bytes.Buffer
	if IsTerminal(&buf) {
		t.Fatal("bytes.Buffer must not be a terminal")
	}
	if ColorEnabled(&buf) {
		t.Fatal("colour must be disabled for non-terminals")
	}
}

func TestNoColorDisablesColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	var buf bytes.Buffer
	if ColorEnabled(&buf) {
		t.Fatal("NO_COLOR must disable colour")
	}
}
