// Package actions writes GitHub Actions step outputs and job summaries.
package actions

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"
)

const (
	outputEnv  = "GITHUB_OUTPUT"
	summaryEnv = "GITHUB_STEP_SUMMARY"
)

// WriteOutputs appends key/value pairs to $GITHUB_OUTPUT. It is a no-op outside Actions.
func WriteOutputs(outputs map[string]string) error {
	return WriteOutputsTo(os.Getenv(outputEnv), outputs)
}

// WriteOutputsTo appends outputs to path in the Actions file-command format.
// Multi-line values use the heredoc delimiter form.
func WriteOutputsTo(path string, outputs map[string]string) error {
	if path == "" || len(outputs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(outputs))
	for k := range outputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := outputs[k]
		if !strings.ContainsAny(v, "\r\n") {
			fmt.Fprintf(&b, "%s=%s\n", k, v)
			continue
		}
		delim := delimiter()
		for strings.Contains(v, delim) {
			delim = delimiter()
		}
		fmt.Fprintf(&b, "%s<<%s\n%s\n%s\n", k, delim, v, delim)
	}
	return appendFile(path, b.String())
}

// WriteSummary appends Markdown to $GITHUB_STEP_SUMMARY. It is a no-op outside Actions.
func WriteSummary(markdown string) error {
	path := os.Getenv(summaryEnv)
	if path == "" {
		return nil
	}
	return appendFile(path, strings.TrimRight(markdown, "\n")+"\n")
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func delimiter() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return "ghadelim_" + hex.EncodeToString(b)
}
