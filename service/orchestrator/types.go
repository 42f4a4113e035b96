package orchestrator

import (
	"context"
	"errors"

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
	"go.uber.org/zap"
)

// ErrTagExists is returned when the computed release tag is already present.
var ErrTagExists = errors.New("release tag already exists")

// ErrReleaseExists is returned when a GitHub Release already uses the computed tag.
var ErrReleaseExists = errors.New("GitHub release already exists")

// NotesFileName is written to the output directory and used as the GitHub Release body.
const NotesFileName = "RELEASE_NOTES.md"

type service struct {
	// Release pipeline
	gitService        git.Service
	classifierService classifier.Service
	versioningService versioning.Service
	changelogService  changelog.Service
	packagerService   packager.Service
	githubService     github.Service
	outputService     output.Service
	// Optional publication targets
	mirrorService  mirror.Service
	notifyService  notify.Service
	storageService storage.Service

	cfg         config.Config
	versionInfo model.VersionInfo
	logger      *zap.Logger

	writeOutputs func(map[string]string) error
	writeSummary func(string) error
}

// Service is the interface for orchestrator service.
type Service interface {
	Orchestrate(ctx context.Context, flags model.Flags) error
}
