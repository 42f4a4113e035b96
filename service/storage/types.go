package storage

import (
	"context"
	"errors"
	"time"
)

// ErrReleaseNotFound is returned when no release matches a lookup.
var ErrReleaseNotFound = errors.New("release not found")

// Service defines persistence and history query operations.
type Service interface {
	SaveRelease(ctx context.Context, input SaveReleaseInput) (int64, error)
	GetRecentReleases(project string, limit int) ([]ReleaseSummary, error)
	GetRelease(project, tag string) (*ReleaseSummary, error)
	ListAssets(releaseID int64) ([]AssetRecord, error)
	GetCadence(project string, days int) ([]CadencePoint, error)
	Vacuum(ctx context.Context) error
	Reindex(ctx context.Context) error
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
	Close() error
}

// SaveReleaseInput is the payload saved for a published release.
type SaveReleaseInput struct {
	Project         string
	Tag             string
	Version         string
	PreviousVersion string
	ReleaseType     string
	Trigger         string
	Reason          string
	Rule            string
	CommitSHA       string
	Prerelease      bool
	URL             string
	CLIVersion      string
	// CreatedAt defaults to now.
	CreatedAt time.Time
	Assets    []AssetRecord
}

// AssetRecord is a stored release asset.
type AssetRecord struct {
	Name     string `json:"name"`
	SHA256   string `json:"sha256"`
	Size     int64  `json:"size"`
	Location string `json:"location,omitempty"`
}

// ReleaseSummary provides compact release metadata.
type ReleaseSummary struct {
	ReleaseID       int64     `json:"id"`
	Project         string    `json:"project"`
	Tag             string    `json:"tag"`
	Version         string    `json:"version"`
	PreviousVersion string    `json:"previous_version"`
	ReleaseType     string    `json:"release_type"`
	Trigger         string    `json:"trigger"`
	Reason          string    `json:"reason"`
	Rule            string    `json:"rule,omitempty"`
	CommitSHA       string    `json:"commit_sha"`
	Prerelease      bool      `json:"prerelease"`
	URL             string    `json:"url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	AssetCount      int       `json:"asset_count"`
}

// CadencePoint is a daily release count for one release type.
type CadencePoint struct {
	Date        string `json:"date"`
	ReleaseType string `json:"release_type"`
	Count       int    `json:"count"`
}
