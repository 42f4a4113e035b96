//go:build windows

package terminal

import (
	"os"

	"golang.org/x/sys/windows"
)

const (
	enableVirtualTerminalProcessing = 0x0004
	backgroundBlue                  = 0x0010
)

// EnableANSI turns on escape sequence processing for a Windows console.
func EnableANSI(f *os.File) {
	handle := windows.Handle(f.Fd())

	var mode uint32
	if err := windows.GetConsoleMode(handle, &mode); err != nil {
		return
	}
	_ = windows.SetConsoleMode(handle, mode|enableVirtualTerminalProcessing)
}

// IsBlueBackground reports whether the console background is blue. COLORFGBG
// wins when set, as in terminals running under MSYS or WSL interop.
func IsBlueBackground() bool {
	if raw := os.Getenv("COLORFGBG"); raw != "" {
		return blueBackgroundFromEnv(raw)
	}

	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(windows.Handle(os.Stdout.Fd()), &info); err != nil {
		return false
	}
	return info.Attributes&backgroundBlue != 0
}
