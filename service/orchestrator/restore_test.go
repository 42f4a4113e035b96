package orchestrator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotFilesRestores(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "package.json")
	missing := filepath.Join(dir, "CHANGELOG.md")
	require.NoError(t, os.WriteFile(existing, []byte(`{"version": "1.0.0"}`), 0o600))

	restore, err := snapshotFiles(existing, missing)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(existing, []byte(`{"version": "1.1.0"}`), 0o600))
	require.NoError(t, os.WriteFile(missing, []byte("# Changelog\n"), 0o644))

	require.NoError(t, restore())

	got, err := os.ReadFile(existing)
	require.NoError(t, err)
	if string(got) != `{"version": "1.0.0"}` {
		t.Fatalf("manifest not restored: %s", got)
	}
	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Fatalf("file created after the snapshot must be removed, stat err=%v", err)
	}
}
