package packager

import (
	"context"
	"errors"
	"time"

	"github.com/thirukguru/release-cutter/model"
	"github.com/thirukguru/release-cutter/shared/pathmatch"
	"go.uber.org/zap"
)

// ChecksumsFile is the name of the SHA-256 manifest written next to the tarballs.
const ChecksumsFile = "checksums.txt"

// ErrEmptyQuickStart is returned when no file matches the quick-start selection.
var ErrEmptyQuickStart = errors.New("quick-start bundle selection matched no files")

// Options configures a packager.
type Options struct {
	RepoDir    string
	OutputDir  string
	Project    string
	Exclude    []string
	QuickStart []string
	ModTime    time.Time
}

// Result lists the produced artifacts.
type Result struct {
	Assets        []model.Asset
	ChecksumsPath string
}

type bundle struct {
	name   string
	prefix string
	files  []string
}

type service struct {
	opts       Options
	exclude    *pathmatch.Set
	quickStart *pathmatch.Set
	logger     *zap.Logger
}

// Service is the interface for release asset packaging.
type Service interface {
	Build(ctx context.Context, version string) (Result, error)
	Plan(version string) ([]string, error)
}
