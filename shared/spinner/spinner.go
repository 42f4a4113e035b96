package spinner

import (
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/thirukguru/release-cutter/shared/terminal"
)

var (
	mu     sync.Mutex
	loader *spinner.Spinner
)

// StartSpinner starts the CLI loading spinner on stderr. It does nothing when
// stderr is not a terminal, so CI logs stay clean.
func StartSpinner(message string) {
	if !terminal.IsTerminal(os.Stderr) {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	if loader != nil {
		loader.Suffix = " " + message
		return
	}
	loader = spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	loader.Color("yellow") //nolint:errcheck
	loader.Suffix = " " + message
	loader.Start()
}

// StopSpinner stops the CLI loading spinner.
func StopSpinner() {
	mu.Lock()
	defer mu.Unlock()
	if loader != nil {
		loader.Stop()
		loader = nil
	}
}
