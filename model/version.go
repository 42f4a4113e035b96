// Package model defines the data structures shared across the release pipeline.
package model

// VersionInfo contains build-time metadata about the release-cutter binary.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}
