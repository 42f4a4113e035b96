// Package notes renders release notes Markdown for the terminal.
package notes

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/thirukguru/release-cutter/shared/terminal"
)

const defaultWidth = 100

// Render writes markdown to w. Styled output is used only when w is a terminal.
func Render(w io.Writer, markdown string) error {
	out, err := format(markdown, terminal.ColorEnabled(w))
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func format(markdown string, styled bool) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(defaultWidth)}
	if styled {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle("notty"))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
