package flag

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/thirukguru/release-cutter/model"
)

// Commands lists the pipeline subcommands handled by the flag service.
var Commands = []string{"run", "classify", "bump", "changelog", "package", "notes"}

// NewService creates a new flag service.
func NewService() Service {
	return &service{getenv: os.Getenv}
}

func (s *service) envOr(key, fallback string) string {
	if v := strings.TrimSpace(s.getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetParsedFlags parses and returns the command-line flags. Dispatch inputs
// fall back to the environment GitHub Actions sets for workflow inputs.
func (s *service) GetParsedFlags() (model.Flags, error) {
	event := pflag.StringP("event", "e", s.envOr("GITHUB_EVENT_NAME", string(model.TriggerPush)), "Trigger event (push or workflow_dispatch)")
	releaseType := pflag.StringP("release-type", "t", s.envOr("INPUT_RELEASE_TYPE", ""), "Release type for workflow_dispatch (patch, minor, major, prerelease)")
	preid := pflag.String("prerelease-id", s.envOr("INPUT_PRERELEASE_IDENTIFIER", model.DefaultPrereleaseID), "Prerelease identifier")
	configPath := pflag.StringP("config", "c", "", "Path to release-cutter config file (default <repo-dir>/.release-cutter.yaml)")
	repoDir := pflag.StringP("repo-dir", "C", ".", "Repository directory")
	output := pflag.StringP("output", "o", "table", "Output format (table or json)")
	dryRun := pflag.Bool("dry-run", false, "Print mutating git/gh commands instead of running them")
	write := pflag.Bool("write", false, "bump: write the new version to the manifest")
	noPublish := pflag.Bool("no-publish", false, "run: stop after packaging, without tagging or publishing")
	noHistory := pflag.Bool("no-history", false, "Do not record the release in the local history database")
	dbPath := pflag.String("db-path", "", "Custom SQLite database path (default ~/.release-cutter/history.db)")
	target := pflag.String("target-version", "", "changelog/notes: version to write or render")
	version := pflag.BoolP("version", "v", false, "Show version information")

	pflag.Parse()

	flags := model.Flags{
		Command:       "run",
		Event:         strings.TrimSpace(*event),
		ReleaseType:   strings.ToLower(strings.TrimSpace(*releaseType)),
		PrereleaseID:  strings.TrimSpace(*preid),
		ConfigPath:    *configPath,
		RepoDir:       *repoDir,
		Output:        strings.ToLower(*output),
		DryRun:        *dryRun,
		Write:         *write,
		NoPublish:     *noPublish,
		NoHistory:     *noHistory,
		DBPath:        *dbPath,
		TargetVersion: strings.TrimPrefix(strings.TrimSpace(*target), "v"),
		Version:       *version,
	}

	if args := pflag.Args(); len(args) > 0 {
		flags.Command = args[0]
		flags.Args = args[1:]
	}
	if !isCommand(flags.Command) {
		return flags, fmt.Errorf("unknown command %q (want one of %s)", flags.Command, strings.Join(Commands, ", "))
	}
	if flags.Output != "table" && flags.Output != "json" {
		return flags, fmt.Errorf("unsupported output format %q (want table or json)", flags.Output)
	}

	return flags, nil
}

func isCommand(name string) bool {
	for _, c := range Commands {
		if c == name {
			return true
		}
	}
	return false
}
