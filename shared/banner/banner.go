package banner

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/thirukguru/release-cutter/shared/terminal"
)

type bannerColor int

const (
	bannerGitHubGreen bannerColor = iota
	bannerGoBlue
	bannerAmberOrange
	bannerSlateGray
	bannerCursorPurple
)

var bannerTitleColors = []string{
	"\x1b[38;2;46;160;67m",   // GitHub Green
	"\x1b[38;2;0;173;216m",   // Go Blue
	"\x1b[38;2;255;153;0m",   // Amber Orange
	"\x1b[38;2;112;128;144m", // Slate Gray
	"\x1b[38;2;145;70;255m",  // Cursor Purple
}

var bannerTitleColorNames = []string{
	"GitHubGreen",
	"GoBlue",
	"AmberOrange",
	"SlateGray",
	"CursorPurple",
}

const (
	bannerTitleColorDefault        = bannerGitHubGreen
	bannerTitleColorBlueBackground = bannerAmberOrange
	bannerTitleColorEnv            = "RELEASE_CUTTER_BANNER_COLOR"
)

var titleLines = []string{
	"╭──────────────────────────────╮",
	"│     ✂  release-cutter        │",
	"╰──────────────────────────────╯",
}

func printCenteredLines(w io.Writer, lines []string, width int) {
	for _, line := range lines {
		pad := 0
		if n := len([]rune(line)); width > n {
			pad = (width - n) / 2
		}

		if pad > 0 {
			fmt.Fprint(w, strings.Repeat(" ", pad))
		}

		fmt.Fprintln(w, line)
	}
}

func bannerTitleColor() bannerColor {
	if color, ok := bannerTitleColorFromEnv(); ok {
		return color
	}

	if terminal.IsBlueBackground() {
		return bannerTitleColorBlueBackground
	}

	return bannerTitleColorDefault
}

func bannerTitleColorFromEnv() (bannerColor, bool) {
	raw := strings.TrimSpace(os.Getenv(bannerTitleColorEnv))

	if raw == "" {
		return 0, false
	}

	for idx, color := range bannerTitleColors {
		if strings.EqualFold(raw, bannerTitleColorNames[idx]) || raw == color {
			return bannerColor(idx), true
		}
	}

	return 0, false
}

// DrawBannerTitle prints the application title banner when stdout is a terminal.
func DrawBannerTitle() {
	if !terminal.ColorEnabled(os.Stdout) {
		return
	}
	terminal.EnableANSI(os.Stdout)

	fmt.Print(bannerTitleColors[bannerTitleColor()])
	printCenteredLines(os.Stdout, titleLines, terminal.Width(os.Stdout))
	fmt.Print("\x1b[0m")
}
