package versioning

import (
	"errors"

	"github.com/thirukguru/release-cutter/model"
)

// InitialVersion seeds a manifest created from the template.
const InitialVersion = "1.0.0"

// ErrNoVersion is returned when a manifest lacks a top-level version string.
var ErrNoVersion = errors.New("manifest has no top-level \"version\" string")

// Manifest is the parsed view of the version manifest.
type Manifest struct {
	Path    string
	Name    string
	Version string
	Created bool
}

type manifestTemplate struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
}

type service struct{}

// Service is the interface for reading, bumping and writing the manifest version.
type Service interface {
	Load(path, name string, create bool) (Manifest, error)
	Next(current string, releaseType model.ReleaseType, preid string) (string, error)
	Write(path, version string) error
}
