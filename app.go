// Package main is the entry point for the release-cutter application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/thirukguru/release-cutter/model"
	"github.com/thirukguru/release-cutter/service/config"
	"github.com/thirukguru/release-cutter/service/flag"
	"github.com/thirukguru/release-cutter/service/orchestrator"
	"github.com/thirukguru/release-cutter/service/output"
	"github.com/thirukguru/release-cutter/shared/banner"
	"github.com/thirukguru/release-cutter/shared/logger"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "db", "history", "dashboard":
			return runStorageCommand(os.Args[1], os.Args[2:])
		}
	}

	flagService := flag.NewService()
	flags, err := flagService.GetParsedFlags()
	if err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	versionInfo := model.VersionInfo{Version: version, Commit: commit, Date: date}

	if flags.Version {
		outputService := output.NewService(flags.Output)
		orchestratorService := orchestrator.NewService(
			nil, nil, nil, nil, nil, nil,
			outputService,
			nil, nil, nil,
			config.Config{}, versionInfo, nil,
		)
		return orchestratorService.Orchestrate(context.Background(), flags)
	}

	log := logger.FromEnv()
	defer func() { _ = log.Sync() }()

	if flags.Output != "json" && flags.Command == "run" {
		banner.DrawBannerTitle()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runRelease(ctx, flags, versionInfo, log)
}
