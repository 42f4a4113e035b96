package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStorage(t *testing.T) Service {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	svc, err := NewService(dbPath)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestSaveReleaseAndQueries(t *testing.T) {
	svc := newTestStorage(t)
	ctx := context.Background()

	id, err := svc.SaveRelease(ctx, SaveReleaseInput{
		Project:         "cursor-rules",
		Tag:             "v1.3.0",
		PreviousVersion: "1.2.4",
		ReleaseType:     "minor",
		Trigger:         "push",
		Reason:          "New features",
		Rule:            "feature",
		CommitSHA:       "abc123",
		Assets: []AssetRecord{
			{Name: "cursor-rules-v1.3.0.tar.gz", SHA256: "aa", Size: 100},
			{Name: "cursor-rules-quickstart-v1.3.0.tar.gz", SHA256: "bb", Size: 40},
		},
	})
	if err != nil {
		t.Fatalf("SaveRelease failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive release id, got %d", id)
	}

	recent, err := svc.GetRecentReleases("cursor-rules", 10)
	if err != nil {
		t.Fatalf("GetRecentReleases failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 release, got %d", len(recent))
	}
	if recent[0].Version != "1.3.0" || recent[0].AssetCount != 2 || recent[0].Trigger != "push" {
		t.Fatalf("unexpected release values: %+v", recent[0])
	}

	got, err := svc.GetRelease("", "v1.3.0")
	if err != nil {
		t.Fatalf("GetRelease failed: %v", err)
	}
	if got.ReleaseID != id || got.PreviousVersion != "1.2.4" {
		t.Fatalf("unexpected release: %+v", got)
	}

	assets, err := svc.ListAssets(id)
	if err != nil {
		t.Fatalf("ListAssets failed: %v", err)
	}
	if len(assets) != 2 || assets[0].Name != "cursor-rules-quickstart-v1.3.0.tar.gz" {
		t.Fatalf("unexpected assets: %+v", assets)
	}

	cadence, err := svc.GetCadence("cursor-rules", 30)
	if err != nil {
		t.Fatalf("GetCadence failed: %v", err)
	}
	if len(cadence) != 1 || cadence[0].ReleaseType != "minor" || cadence[0].Count != 1 {
		t.Fatalf("unexpected cadence: %+v", cadence)
	}
}

func TestSaveReleaseReplacesSameTag(t *testing.T) {
	svc := newTestStorage(t)
	ctx := context.Background()

	in := SaveReleaseInput{
		Project:     "p",
		Tag:         "v1.0.1",
		ReleaseType: "patch",
		Trigger:     "push",
		Assets:      []AssetRecord{{Name: "a", SHA256: "1"}, {Name: "b", SHA256: "2"}},
	}
	first, err := svc.SaveRelease(ctx, in)
	if err != nil {
		t.Fatalf("SaveRelease #1 failed: %v", err)
	}
	in.Assets = []AssetRecord{{Name: "c", SHA256: "3"}}
	in.URL = "https://github.com/o/p/releases/tag/v1.0.1"
	second, err := svc.SaveRelease(ctx, in)
	if err != nil {
		t.Fatalf("SaveRelease #2 failed: %v", err)
	}
	if first != second {
		t.Fatalf("expected upsert to keep id %d, got %d", first, second)
	}

	assets, err := svc.ListAssets(second)
	if err != nil {
		t.Fatalf("ListAssets failed: %v", err)
	}
	if len(assets) != 1 || assets[0].Name != "c" {
		t.Fatalf("expected replaced assets, got %+v", assets)
	}
	rel, err := svc.GetRelease("p", "v1.0.1")
	if err != nil {
		t.Fatalf("GetRelease failed: %v", err)
	}
	if rel.URL != in.URL || rel.Version != "1.0.1" {
		t.Fatalf("unexpected release after upsert: %+v", rel)
	}
}

func TestGetReleaseNotFound(t *testing.T) {
	svc := newTestStorage(t)
	if _, err := svc.GetRelease("p", "v9.9.9"); !errors.Is(err, ErrReleaseNotFound) {
		t.Fatalf("expected ErrReleaseNotFound, got %v", err)
	}
}

func TestRecentReleasesProjectFilter(t *testing.T) {
	svc := newTestStorage(t)
	ctx := context.Background()

	for _, in := range []SaveReleaseInput{
		{Project: "a", Tag: "v1.0.0", ReleaseType: "major", Trigger: "workflow_dispatch"},
		{Project: "b", Tag: "v1.0.0", ReleaseType: "patch", Trigger: "push"},
		{Project: "a", Tag: "v1.0.1", ReleaseType: "patch", Trigger: "push"},
	} {
		if _, err := svc.SaveRelease(ctx, in); err != nil {
			t.Fatalf("SaveRelease %s/%s failed: %v", in.Project, in.Tag, err)
		}
	}

	all, err := svc.GetRecentReleases("", 10)
	if err != nil {
		t.Fatalf("GetRecentReleases failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 releases, got %d", len(all))
	}
	filtered, err := svc.GetRecentReleases("a", 10)
	if err != nil {
		t.Fatalf("GetRecentReleases filtered failed: %v", err)
	}
	if len(filtered) != 2 || filtered[0].Tag != "v1.0.1" {
		t.Fatalf("unexpected filtered releases: %+v", filtered)
	}
}

func TestMaintenanceCommands(t *testing.T) {
	svc := newTestStorage(t)
	ctx := context.Background()

	if err := svc.Vacuum(ctx); err != nil {
		t.Fatalf("Vacuum failed: %v", err)
	}
	if err := svc.Reindex(ctx); err != nil {
		t.Fatalf("Reindex failed: %v", err)
	}
	if _, err := svc.PurgeOlderThan(ctx, 0); err == nil {
		t.Fatalf("expected error for invalid purge days")
	}

	old := time.Now().AddDate(0, 0, -90)
	if _, err := svc.SaveRelease(ctx, SaveReleaseInput{Project: "p", Tag: "v0.9.0", ReleaseType: "patch", Trigger: "push", CreatedAt: old,
		Assets: []AssetRecord{{Name: "old.tar.gz", SHA256: "x"}}}); err != nil {
		t.Fatalf("SaveRelease old failed: %v", err)
	}
	if _, err := svc.SaveRelease(ctx, SaveReleaseInput{Project: "p", Tag: "v1.0.0", ReleaseType: "major", Trigger: "workflow_dispatch"}); err != nil {
		t.Fatalf("SaveRelease new failed: %v", err)
	}

	n, err := svc.PurgeOlderThan(ctx, 30)
	if err != nil {
		t.Fatalf("PurgeOlderThan failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged release, got %d", n)
	}
	left, err := svc.GetRecentReleases("p", 10)
	if err != nil {
		t.Fatalf("GetRecentReleases failed: %v", err)
	}
	if len(left) != 1 || left[0].Tag != "v1.0.0" {
		t.Fatalf("unexpected releases after purge: %+v", left)
	}
}
