package model

// ReleaseReportJSON is the JSON document printed for a release run.
type ReleaseReportJSON struct {
	GeneratedAt string `json:"generated_at"`
	Plan
}

// DecisionReportJSON is the JSON document printed by classify.
type DecisionReportJSON struct {
	GeneratedAt  string   `json:"generated_at"`
	Commit       string   `json:"commit,omitempty"`
	ChangedFiles []string `json:"changed_files"`
	Decision
}

// VersionReportJSON is the JSON document printed by bump.
type VersionReportJSON struct {
	Manifest       string      `json:"manifest"`
	CurrentVersion string      `json:"current_version"`
	NewVersion     string      `json:"new_version"`
	ReleaseType    ReleaseType `json:"release_type"`
	Written        bool        `json:"written"`
}
