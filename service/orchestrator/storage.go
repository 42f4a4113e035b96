package orchestrator

import (
	"context"
	"path/filepath"

	"github.com/thirukguru/release-cutter/model"
	"github.com/thirukguru/release-cutter/service/storage"
	"go.uber.org/zap"
)

func (s *service) persistReleaseIfEnabled(ctx context.Context, flags model.Flags, plan model.Plan) error {
	if s.storageService == nil || flags.NoHistory || plan.DryRun {
		return nil
	}

	locations := map[string]string{}
	for _, loc := range plan.MirrorLocations {
		locations[filepath.Base(loc)] = loc
	}
	assets := make([]storage.AssetRecord, 0, len(plan.Assets))
	for _, a := range plan.Assets {
		assets = append(assets, storage.AssetRecord{
			Name:     a.Name,
			SHA256:   a.SHA256,
			Size:     a.Size,
			Location: locations[a.Name],
		})
	}

	id, err := s.storageService.SaveRelease(ctx, storage.SaveReleaseInput{
		Project:         plan.Project,
		Tag:             plan.Tag,
		Version:         plan.NewVersion,
		PreviousVersion: plan.CurrentVersion,
		ReleaseType:     string(plan.Decision.ReleaseType),
		Trigger:         string(plan.Decision.Trigger),
		Reason:          plan.Decision.Reason,
		Rule:            plan.Decision.Rule,
		CommitSHA:       plan.CommitSHA,
		Prerelease:      plan.Prerelease,
		URL:             plan.ReleaseURL,
		CLIVersion:      s.versionInfo.Version,
		Assets:          assets,
	})
	if err != nil {
		return err
	}
	s.logger.Debug("release recorded", zap.Int64("release_id", id), zap.String("tag", plan.Tag))
	return nil
}
