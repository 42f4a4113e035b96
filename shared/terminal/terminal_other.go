//go:build !windows

package terminal

import "os"

// EnableANSI is a no-op outside Windows.
func EnableANSI(*os.File) {}

// IsBlueBackground reports whether the terminal background is blue.
func IsBlueBackground() bool {
	raw := os.Getenv("COLORFGBG")
	if raw == "" {
		return false
	}
	return blueBackgroundFromEnv(raw)
}
