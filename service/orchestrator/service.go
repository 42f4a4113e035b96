// Package orchestrator coordinates the release pipeline.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/thirukguru/release-cutter/model"
	"github.com/thirukguru/release-cutter/service/changelog"
	"github.com/thirukguru/release-cutter/service/classifier"
	"github.com/thirukguru/release-cutter/service/config"
	"github.com/thirukguru/release-cutter/service/git"
	"github.com/thirukguru/release-cutter/service/github"
	"github.com/thirukguru/release-cutter/service/mirror"
	"github.com/thirukguru/release-cutter/service/notify"
	"github.com/thirukguru/release-cutter/service/output"
	"github.com/thirukguru/release-cutter/service/packager"
	"github.com/thirukguru/release-cutter/service/storage"
	"github.com/thirukguru/release-cutter/service/versioning"
	"github.com/thirukguru/release-cutter/shared/actions"
	"github.com/thirukguru/release-cutter/shared/logger"
	"go.uber.org/zap"
)

// NewService creates a new orchestrator service.
func NewService(
	gitService git.Service,
	classifierService classifier.Service,
	versioningService versioning.Service,
	changelogService changelog.Service,
	packagerService packager.Service,
	githubService github.Service,
	outputService output.Service,
	// Optional, nil disables the step
	mirrorService mirror.Service,
	notifyService notify.Service,
	storageService storage.Service,
	cfg config.Config,
	versionInfo model.VersionInfo,
	l *zap.Logger,
) Service {
	return &service{
		gitService:        gitService,
		classifierService: classifierService,
		versioningService: versioningService,
		changelogService:  changelogService,
		packagerService:   packagerService,
		githubService:     githubService,
		outputService:     outputService,
		mirrorService:     mirrorService,
		notifyService:     notifyService,
		storageService:    storageService,
		cfg:               cfg,
		versionInfo:       versionInfo,
		logger:            logger.OrNop(l),
		writeOutputs:      actions.WriteOutputs,
		writeSummary:      actions.WriteSummary,
	}
}

func (s *service) Orchestrate(ctx context.Context, flags model.Flags) error {
	if flags.Version {
		return s.versionWorkflow()
	}
	defer s.outputService.StopSpinner()

	switch flags.Command {
	case "", "run":
		return s.releaseWorkflow(ctx, flags)
	case "classify":
		return s.classifyWorkflow(ctx, flags)
	case "bump":
		return s.bumpWorkflow(ctx, flags)
	case "changelog":
		return s.changelogWorkflow(ctx, flags)
	case "package":
		return s.packageWorkflow(ctx, flags)
	case "notes":
		return s.notesWorkflow(flags)
	default:
		return fmt.Errorf("unsupported command: %s", flags.Command)
	}
}

func (s *service) versionWorkflow() error {
	fmt.Printf("release-cutter version %s\n", s.versionInfo.Version)
	fmt.Printf("commit: %s\n", s.versionInfo.Commit)
	fmt.Printf("built at: %s\n", s.versionInfo.Date)

	return nil
}

type detection struct {
	commit   model.Commit
	files    []string
	decision model.Decision
}

// detect runs trigger detection. On the major-on-push guard it returns the
// detection together with classifier.ErrMajorOnAutomaticTrigger. Failing to read
// the commit on any path but workflow_dispatch yields a no-release decision.
func (s *service) detect(ctx context.Context, flags model.Flags) (detection, error) {
	s.outputService.StartSpinner("Detecting release trigger...")

	var det detection
	trigger := model.Trigger(flags.Event)
	if trigger == "" {
		trigger = model.TriggerPush
	}

	commit, err := s.gitService.HeadCommit(ctx)
	if err != nil {
		if trigger == model.TriggerDispatch {
			return det, err
		}
		return s.unclassified(det, trigger, err), nil
	}
	det.commit = commit

	if trigger == model.TriggerPush {
		det.files, err = s.gitService.ChangedFiles(ctx, commit.Hash)
		if err != nil {
			return s.unclassified(det, trigger, err), nil
		}
	}

	det.decision, err = s.classifierService.Classify(classifier.Input{
		Trigger:      trigger,
		Commit:       commit,
		ChangedFiles: det.files,
		ReleaseType:  flags.ReleaseType,
		PrereleaseID: flags.PrereleaseID,
	})
	if trigger != model.TriggerPush && trigger != model.TriggerDispatch {
		s.logger.Warn("unsupported trigger event, not releasing", zap.String("trigger", string(trigger)))
	}
	s.logger.Info("release trigger evaluated",
		zap.String("trigger", string(det.decision.Trigger)),
		zap.String("commit", commit.ShortHash()),
		zap.Int("changed_files", len(det.files)),
		zap.Bool("should_release", det.decision.ShouldRelease),
		zap.String("release_type", string(det.decision.ReleaseType)),
		zap.String("rule", det.decision.Rule),
		zap.String("reason", det.decision.Reason))
	return det, err
}

func (s *service) unclassified(det detection, trigger model.Trigger, cause error) detection {
	s.logger.Warn("classification failed, not releasing",
		zap.String("trigger", string(trigger)),
		zap.Error(cause))
	det.decision = model.Decision{
		ReleaseType: model.ReleaseNone,
		Reason:      fmt.Sprintf("Classification failed: %v", cause),
		Trigger:     trigger,
	}
	return det
}

func (s *service) classifyWorkflow(ctx context.Context, flags model.Flags) error {
	det, err := s.detect(ctx, flags)
	if err != nil && !errors.Is(err, classifier.ErrMajorOnAutomaticTrigger) {
		return err
	}
	s.outputService.StopSpinner()

	if outErr := s.emitDecision(det.decision, err); outErr != nil {
		return outErr
	}
	if renderErr := s.outputService.RenderDecision(det.commit, det.files, det.decision); renderErr != nil {
		return renderErr
	}
	return err
}

// emitDecision writes the Actions outputs for a run that does not release.
func (s *service) emitDecision(d model.Decision, guardErr error) error {
	outputs := decisionOutputs(d)
	summary := noReleaseSummary(d)
	if guardErr != nil {
		outputs["should_release"] = "false"
		summary = blockedSummary(d, guardErr)
	}
	if err := s.writeOutputs(outputs); err != nil {
		return fmt.Errorf("failed to write step outputs: %w", err)
	}
	if !d.ShouldRelease || guardErr != nil {
		if err := s.writeSummary(summary); err != nil {
			return fmt.Errorf("failed to write step summary: %w", err)
		}
	}
	return nil
}

func (s *service) loadManifest(create bool) (versioning.Manifest, error) {
	m, err := s.versioningService.Load(s.cfg.Manifest, s.cfg.Project, create)
	if err != nil {
		return m, err
	}
	if m.Created {
		s.logger.Info("manifest created from template",
			zap.String("path", m.Path),
			zap.String("version", m.Version),
			zap.Bool("written", create))
	}
	return m, nil
}

func (s *service) bumpWorkflow(ctx context.Context, flags model.Flags) error {
	rt, preid := model.ReleaseType(flags.ReleaseType), flags.PrereleaseID
	if rt == model.ReleaseMajor && isPushTrigger(flags.Event) {
		return fmt.Errorf("bump --release-type major on %s: %w", model.TriggerPush, classifier.ErrMajorOnAutomaticTrigger)
	}
	if rt == "" {
		det, err := s.detect(ctx, flags)
		if err != nil {
			return err
		}
		if !det.decision.ShouldRelease {
			s.outputService.StopSpinner()
			return s.outputService.RenderDecision(det.commit, det.files, det.decision)
		}
		rt, preid = det.decision.ReleaseType, det.decision.PrereleaseID
	}

	write := flags.Write && !flags.DryRun
	m, err := s.loadManifest(write)
	if err != nil {
		return err
	}
	next, err := s.versioningService.Next(m.Version, rt, preid)
	if err != nil {
		return err
	}
	if write {
		if err := s.versioningService.Write(m.Path, next); err != nil {
			return err
		}
	}
	s.outputService.StopSpinner()
	return s.outputService.RenderVersion(model.VersionReportJSON{
		Manifest:       m.Path,
		CurrentVersion: m.Version,
		NewVersion:     next,
		ReleaseType:    rt,
		Written:        write,
	})
}

func isPushTrigger(event string) bool {
	return event == "" || model.Trigger(event) == model.TriggerPush
}

// targetVersion is the explicit --target-version or the manifest's current version.
func (s *service) targetVersion(flags model.Flags) (string, error) {
	if flags.TargetVersion != "" {
		if _, err := versioning.Parse(flags.TargetVersion); err != nil {
			return "", err
		}
		return flags.TargetVersion, nil
	}
	m, err := s.loadManifest(false)
	if err != nil {
		return "", err
	}
	return m.Version, nil
}

func (s *service) changelogWorkflow(ctx context.Context, flags model.Flags) error {
	version, err := s.targetVersion(flags)
	if err != nil {
		return err
	}
	s.outputService.StartSpinner("Generating changelog...")
	notes, err := s.changelogService.Generate(ctx)
	if err != nil {
		return err
	}
	body := notes.Body
	if !flags.DryRun {
		section, err := s.changelogService.Prepend(s.cfg.Changelog, version, notes.Body)
		if err != nil {
			return err
		}
		body = section
		s.logger.Info("changelog updated", zap.String("path", s.cfg.Changelog), zap.String("version", version))
	}
	s.outputService.StopSpinner()
	return s.outputService.RenderNotes(version, body)
}

func (s *service) packageWorkflow(ctx context.Context, flags model.Flags) error {
	version, err := s.targetVersion(flags)
	if err != nil {
		return err
	}
	if flags.DryRun {
		return s.renderPackagePlan(version)
	}
	s.outputService.StartSpinner("Packaging release assets...")
	res, err := s.packagerService.Build(ctx, version)
	if err != nil {
		return err
	}
	s.outputService.StopSpinner()
	return s.outputService.RenderPlan(model.Plan{
		Project:        s.cfg.Project,
		CurrentVersion: version,
		NewVersion:     version,
		Tag:            "v" + version,
		ChecksumsFile:  res.ChecksumsPath,
		Assets:         res.Assets,
		DryRun:         flags.DryRun,
	})
}

// renderPackagePlan lists the files a package run would write, without building them.
func (s *service) renderPackagePlan(version string) error {
	names, err := s.packagerService.Plan(version)
	if err != nil {
		return err
	}
	plan := model.Plan{
		Project:        s.cfg.Project,
		CurrentVersion: version,
		NewVersion:     version,
		Tag:            "v" + version,
		DryRun:         true,
	}
	for _, name := range names {
		path := filepath.Join(s.cfg.OutputDir, name)
		if name == packager.ChecksumsFile {
			plan.ChecksumsFile = path
			continue
		}
		plan.Assets = append(plan.Assets, model.Asset{Name: name, Path: path})
	}
	return s.outputService.RenderPlan(plan)
}

func (s *service) notesWorkflow(flags model.Flags) error {
	version, err := s.targetVersion(flags)
	if err != nil {
		return err
	}
	body, err := s.changelogService.Extract(s.cfg.Changelog, version)
	if err != nil {
		return err
	}
	return s.outputService.RenderNotes(version, fmt.Sprintf("## [%s]\n\n%s\n", version, body))
}

// releaseWorkflow runs the full pipeline: detect, version, changelog, package,
// publish, mirror/notify, record.
func (s *service) releaseWorkflow(ctx context.Context, flags model.Flags) error {
	det, err := s.detect(ctx, flags)
	if errors.Is(err, classifier.ErrMajorOnAutomaticTrigger) {
		s.outputService.StopSpinner()
		if outErr := s.emitDecision(det.decision, err); outErr != nil {
			return outErr
		}
		return err
	}
	if err != nil {
		return err
	}
	if !det.decision.ShouldRelease {
		s.outputService.StopSpinner()
		s.logger.Info("no release", zap.String("reason", det.decision.Reason))
		if err := s.emitDecision(det.decision, nil); err != nil {
			return err
		}
		return s.outputService.RenderDecision(det.commit, det.files, det.decision)
	}

	plan, err := s.prepare(ctx, flags, det.decision)
	if err != nil {
		return err
	}

	if !flags.NoPublish {
		if err := s.publish(ctx, &plan); err != nil {
			return err
		}
		if !plan.DryRun {
			if err := s.distribute(ctx, &plan); err != nil {
				return err
			}
			if err := s.persistReleaseIfEnabled(ctx, flags, plan); err != nil {
				s.logger.Warn("failed to record release history", zap.Error(err))
			}
		}
	}

	if err := s.writeOutputs(planOutputs(plan)); err != nil {
		return fmt.Errorf("failed to write step outputs: %w", err)
	}
	if err := s.writeSummary(releaseSummary(plan)); err != nil {
		return fmt.Errorf("failed to write step summary: %w", err)
	}

	s.outputService.StopSpinner()
	return s.outputService.RenderPlan(plan)
}

// prepare computes the version, updates manifest and changelog, and builds the assets.
// A failure after the manifest and changelog were rewritten restores both.
func (s *service) prepare(ctx context.Context, flags model.Flags, d model.Decision) (plan model.Plan, retErr error) {
	plan = model.Plan{Project: s.cfg.Project, Decision: d, DryRun: flags.DryRun}

	m, err := s.loadManifest(!flags.DryRun)
	if err != nil {
		return plan, err
	}
	plan.CurrentVersion = m.Version
	plan.NewVersion, err = s.versioningService.Next(m.Version, d.ReleaseType, d.PrereleaseID)
	if err != nil {
		return plan, err
	}
	plan.Tag = "v" + plan.NewVersion
	plan.Prerelease = d.ReleaseType == model.ReleasePrerelease || strings.Contains(plan.NewVersion, "-")

	exists, err := s.gitService.TagExists(ctx, plan.Tag)
	if err != nil {
		return plan, err
	}
	if exists {
		return plan, fmt.Errorf("%w: %s", ErrTagExists, plan.Tag)
	}
	if !flags.NoPublish {
		exists, err = s.githubService.ReleaseExists(ctx, plan.Tag)
		if err != nil {
			if !flags.DryRun {
				return plan, err
			}
			s.logger.Warn("could not check for an existing GitHub release", zap.Error(err))
		}
		if exists {
			return plan, fmt.Errorf("%w: %s", ErrReleaseExists, plan.Tag)
		}
	}

	s.outputService.StartSpinner("Generating changelog...")
	notes, err := s.changelogService.Generate(ctx)
	if err != nil {
		return plan, err
	}
	plan.Notes = notes.Body
	s.logger.Info("release notes generated",
		zap.String("since", notes.Since),
		zap.Int("commits", notes.Commits),
		zap.Bool("fallback", notes.Fallback))

	if !flags.DryRun {
		restore, err := snapshotFiles(m.Path, s.cfg.Changelog)
		if err != nil {
			return plan, err
		}
		defer func() {
			if retErr == nil {
				return
			}
			if err := restore(); err != nil {
				s.logger.Error("failed to restore release files", zap.Error(err))
			}
		}()
		if err := s.versioningService.Write(m.Path, plan.NewVersion); err != nil {
			return plan, err
		}
		if _, err := s.changelogService.Prepend(s.cfg.Changelog, plan.NewVersion, notes.Body); err != nil {
			return plan, err
		}
	}

	s.outputService.StartSpinner("Packaging release assets...")
	res, err := s.packagerService.Build(ctx, plan.NewVersion)
	if err != nil {
		return plan, err
	}
	plan.Assets = res.Assets
	plan.ChecksumsFile = res.ChecksumsPath

	plan.NotesFile = filepath.Join(filepath.Dir(res.ChecksumsPath), NotesFileName)
	if err := os.WriteFile(plan.NotesFile, []byte(strings.TrimSpace(plan.Notes)+"\n"), 0o644); err != nil {
		return plan, fmt.Errorf("failed to write release notes: %w", err)
	}
	return plan, nil
}

// publish commits the version bump, tags, pushes and creates the GitHub Release.
// In dry-run mode the runner behind the services only prints the commands.
func (s *service) publish(ctx context.Context, plan *model.Plan) error {
	s.outputService.StartSpinner("Publishing " + plan.Tag + "...")

	if err := s.gitService.Add(ctx, s.cfg.Manifest, s.cfg.Changelog); err != nil {
		return fmt.Errorf("failed to stage release files: %w", err)
	}
	if err := s.gitService.Commit(ctx, ReleaseCommitMessage(plan.NewVersion)); err != nil {
		return fmt.Errorf("failed to commit release: %w", err)
	}
	if err := s.gitService.Tag(ctx, plan.Tag, "Release "+plan.Tag); err != nil {
		return fmt.Errorf("failed to tag release: %w", err)
	}
	if err := s.gitService.Push(ctx, s.cfg.Remote, "HEAD:refs/heads/"+s.cfg.Branch, "refs/tags/"+plan.Tag); err != nil {
		return fmt.Errorf("failed to push release: %w", err)
	}
	if sha, err := s.gitService.HeadSHA(ctx); err == nil {
		plan.CommitSHA = sha
	}

	url, err := s.githubService.CreateRelease(ctx, github.ReleaseInput{
		Tag:        plan.Tag,
		Title:      plan.Tag,
		NotesFile:  plan.NotesFile,
		Assets:     assetPaths(*plan),
		Prerelease: plan.Prerelease,
	})
	if err != nil {
		return fmt.Errorf("failed to create GitHub release: %w", err)
	}
	plan.ReleaseURL = url
	s.logger.Info("release published", zap.String("tag", plan.Tag), zap.String("url", url))
	return nil
}

// distribute runs the optional S3 mirror and SNS notification after publication.
func (s *service) distribute(ctx context.Context, plan *model.Plan) error {
	if s.mirrorService != nil {
		s.outputService.StartSpinner("Mirroring assets to S3...")
		locations, err := s.mirrorService.Upload(ctx, plan.NewVersion, assetPaths(*plan))
		if err != nil {
			return err
		}
		plan.MirrorLocations = locations
	}

	if s.notifyService != nil {
		names := make([]string, 0, len(plan.Assets))
		for _, a := range plan.Assets {
			names = append(names, a.Name)
		}
		id, err := s.notifyService.Publish(ctx, notify.Event{
			Project:     plan.Project,
			Version:     plan.NewVersion,
			Tag:         plan.Tag,
			ReleaseType: string(plan.Decision.ReleaseType),
			Reason:      plan.Decision.Reason,
			Trigger:     string(plan.Decision.Trigger),
			Prerelease:  plan.Prerelease,
			URL:         plan.ReleaseURL,
			Assets:      names,
		})
		if err != nil {
			return err
		}
		s.logger.Info("release notification sent", zap.String("message_id", id))
	}
	return nil
}

// ReleaseCommitMessage is the subject of the commit carrying the version bump.
// Trigger detection ignores commits with this prefix.
func ReleaseCommitMessage(version string) string {
	return fmt.Sprintf("chore(release): v%s [skip ci]", strings.TrimPrefix(version, "v"))
}

// assetPaths lists the tarballs followed by the checksums file.
func assetPaths(plan model.Plan) []string {
	paths := make([]string, 0, len(plan.Assets)+1)
	for _, a := range plan.Assets {
		paths = append(paths, a.Path)
	}
	if plan.ChecksumsFile != "" {
		paths = append(paths, plan.ChecksumsFile)
	}
	return paths
}
