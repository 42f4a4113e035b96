// Package terminal answers questions about the process's terminal: whether a
// writer is interactive, how wide it is and whether colour is wanted.
package terminal

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// DefaultWidth is used when the width of a terminal cannot be read.
const DefaultWidth = 80

// IsTerminal reports whether w is an *os.File attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Width returns the column count of f, or DefaultWidth.
func Width(f *os.File) int {
	if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 0 {
		return w
	}
	return DefaultWidth
}

// ColorEnabled reports whether colour escapes should be written to w.
// NO_COLOR (any value) and non-terminal writers disable colour.
func ColorEnabled(w io.Writer) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return IsTerminal(w)
}

// blueBackgroundFromEnv parses COLORFGBG ("fg;bg"). ANSI backgrounds 4 and 12
// are blue.
func blueBackgroundFromEnv(raw string) bool {
	parts := strings.Split(raw, ";")
	bg := strings.TrimSpace(parts[len(parts)-1])
	return bg == "4" || bg == "12"
}
