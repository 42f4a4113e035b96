package main

import (
	"context"
	"fmt"
	"os"

	"github.com/thirukguru/release-cutter/model"
	awsconfig "github.com/thirukguru/release-cutter/service/aws_config"
	"github.com/thirukguru/release-cutter/service/changelog"
	"github.com/thirukguru/release-cutter/service/classifier"
	"github.com/thirukguru/release-cutter/service/config"
	"github.com/thirukguru/release-cutter/service/git"
	"github.com/thirukguru/release-cutter/service/github"
	"github.com/thirukguru/release-cutter/service/mirror"
	"github.com/thirukguru/release-cutter/service/notify"
	"github.com/thirukguru/release-cutter/service/orchestrator"
	"github.com/thirukguru/release-cutter/service/output"
	"github.com/thirukguru/release-cutter/service/packager"
	"github.com/thirukguru/release-cutter/service/storage"
	"github.com/thirukguru/release-cutter/service/versioning"
	"github.com/thirukguru/release-cutter/shared/command"
	"go.uber.org/zap"
)

func runRelease(ctx context.Context, flags model.Flags, versionInfo model.VersionInfo, log *zap.Logger) error {
	cfg, err := config.NewService().Load(flags.RepoDir, flags.ConfigPath)
	if err != nil {
		return err
	}
	cfg, err = cfg.Resolve(flags.RepoDir)
	if err != nil {
		return err
	}

	runner := newRunner(flags.DryRun, log)

	rules, err := classifier.RulesFromConfig(cfg.Rules)
	if err != nil {
		return err
	}

	gitService := git.NewService(runner, flags.RepoDir)
	packagerService, err := packager.NewService(packager.Options{
		RepoDir:    flags.RepoDir,
		OutputDir:  cfg.OutputDir,
		Project:    cfg.Project,
		Exclude:    cfg.Bundle.Exclude,
		QuickStart: cfg.Bundle.QuickStart,
	}, log)
	if err != nil {
		return err
	}

	var (
		mirrorService  mirror.Service
		notifyService  notify.Service
		storageService storage.Service
	)
	if publishesRelease(flags) {
		mirrorService, notifyService, err = newAWSTargets(ctx, cfg.AWS, log)
		if err != nil {
			return err
		}
		if !cfg.History.Disabled && !flags.NoHistory {
			dbPath := flags.DBPath
			if dbPath == "" {
				dbPath = cfg.History.DBPath
			}
			storageService, err = storage.NewService(dbPath)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer storageService.Close()
		}
	}

	orchestratorService := orchestrator.NewService(
		gitService,
		classifier.NewService(rules, cfg.SkipMarkers),
		versioning.NewService(),
		changelog.NewService(gitService, log),
		packagerService,
		github.NewService(runner, flags.RepoDir),
		output.NewService(flags.Output),
		mirrorService,
		notifyService,
		storageService,
		cfg,
		versionInfo,
		log,
	)
	return orchestratorService.Orchestrate(ctx, flags)
}

// publishesRelease reports whether the run may reach the publication targets.
func publishesRelease(flags model.Flags) bool {
	return flags.Command == "run" && !flags.DryRun && !flags.NoPublish
}

func newRunner(dryRun bool, log *zap.Logger) command.Runner {
	exec := &command.ExecRunner{Logger: log}
	if !dryRun {
		return exec
	}
	return &command.DryRunner{
		Next: exec,
		Out:  os.Stderr,
		ReadOnly: func(name string, args []string) bool {
			return git.IsReadOnly(name, args) || github.IsReadOnly(name, args)
		},
	}
}

// newAWSTargets loads AWS credentials once, checks them against STS and builds
// the configured S3 mirror and SNS notifier. Both are nil when not configured.
func newAWSTargets(ctx context.Context, cfg config.AWSConfig, log *zap.Logger) (mirror.Service, notify.Service, error) {
	if !cfg.Enabled() {
		return nil, nil, nil
	}
	cfgService := awsconfig.NewService()
	awsCfg, err := cfgService.GetAWSCfg(ctx, cfg.Region, cfg.Profile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	account, err := cfgService.CallerAccount(ctx, awsCfg)
	if err != nil {
		return nil, nil, err
	}
	log.Info("aws publication enabled",
		zap.String("account", account),
		zap.String("region", awsCfg.Region),
		zap.String("bucket", cfg.Bucket),
		zap.Bool("sns", cfg.SNSTopicARN != ""))

	var (
		m mirror.Service
		n notify.Service
	)
	if cfg.Bucket != "" {
		m = mirror.NewService(awsCfg, cfg.Bucket, cfg.Prefix, log)
	}
	if cfg.SNSTopicARN != "" {
		n = notify.NewService(awsCfg, cfg.SNSTopicARN)
	}
	return m, n, nil
}
