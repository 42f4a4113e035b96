// Package command runs external tools (git, gh) on behalf of the release services.
package command

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Runner executes a program in dir and returns its trimmed stdout.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	Logger *zap.Logger
}

// Run executes name with args. Stderr is folded into the returned error.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if r.Logger != nil {
		r.Logger.Debug("exec", zap.String("cmd", Format(name, args...)), zap.String("dir", dir))
	}
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return "", fmt.Errorf("%s: %w", Format(name, args...), err)
		}
		return "", fmt.Errorf("%s: %w: %s", Format(name, args...), err, msg)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// DryRunner prints mutating commands instead of running them. Read-only
// commands (as decided by ReadOnly) still go through Next.
type DryRunner struct {
	Next     Runner
	Out      io.Writer
	ReadOnly func(name string, args []string) bool

	mu       sync.Mutex
	recorded []string
}

// Run implements Runner.
func (d *DryRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	if d.ReadOnly != nil && d.ReadOnly(name, args) && d.Next != nil {
		return d.Next.Run(ctx, dir, name, args...)
	}
	line := Format(name, args...)
	d.mu.Lock()
	d.recorded = append(d.recorded, line)
	d.mu.Unlock()
	if d.Out != nil {
		fmt.Fprintf(d.Out, "[dry-run] %s\n", line)
	}
	return "", nil
}

// Recorded returns the commands skipped so far.
func (d *DryRunner) Recorded() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.recorded...)
}

// Format renders a command line with minimal shell quoting.
func Format(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, name)
	for _, a := range args {
		if a == "" || strings.ContainsAny(a, " \t\n\"'") {
			a = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
		}
		parts = append(parts, a)
	}
	return strings.Join(parts, " ")
}
