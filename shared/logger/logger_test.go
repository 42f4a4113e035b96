package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLevelFromString(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		" WARN ":  zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		if got := levelFromString(in); got != want {
			t.Fatalf("levelFromString(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFormatFromString(t *testing.T) {
	if formatFromString("json") != FormatJSON {
		t.Fatalf("expected json format")
	}
	if formatFromString("pretty") != FormatConsole {
		t.Fatalf("expected unknown format to fall back to console")
	}
}

func TestOrNop(t *testing.T) {
	if OrNop(nil) == nil {
		t.Fatalf("expected a logger for nil input")
	}
	l := New("debug", FormatJSON)
	if OrNop(l) != l {
		t.Fatalf("expected the same logger back")
	}
}
