package main

import (
	"context"
	"encoding/csv"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirukguru/release-cutter/model"
	"github.com/thirukguru/release-cutter/service/output"
	"github.com/thirukguru/release-cutter/service/storage"
)

type mockStorage struct {
	releases []storage.ReleaseSummary
	assets   map[int64][]storage.AssetRecord
	cadence  []storage.CadencePoint
	lastTag  string
}

func (m *mockStorage) SaveRelease(context.Context, storage.SaveReleaseInput) (int64, error) {
	return 0, nil
}
func (m *mockStorage) GetRecentReleases(project string, limit int) ([]storage.ReleaseSummary, error) {
	if limit < len(m.releases) {
		return m.releases[:limit], nil
	}
	return m.releases, nil
}
func (m *mockStorage) GetRelease(project, tag string) (*storage.ReleaseSummary, error) {
	m.lastTag = tag
	for i := range m.releases {
		if m.releases[i].Tag == tag {
			return &m.releases[i], nil
		}
	}
	return nil, storage.ErrReleaseNotFound
}
func (m *mockStorage) ListAssets(id int64) ([]storage.AssetRecord, error) {
	return m.assets[id], nil
}
func (m *mockStorage) GetCadence(string, int) ([]storage.CadencePoint, error) {
	return m.cadence, nil
}
func (m *mockStorage) Vacuum(context.Context) error  { return nil }
func (m *mockStorage) Reindex(context.Context) error { return nil }
func (m *mockStorage) PurgeOlderThan(context.Context, int) (int64, error) {
	return 0, nil
}
func (m *mockStorage) Close() error { return nil }

type recordingOutput struct {
	output.Service
	releases []storage.ReleaseSummary
	release  *storage.ReleaseSummary
	assets   []storage.AssetRecord
	cadence  []storage.CadencePoint
}

func (r *recordingOutput) RenderReleases(releases []storage.ReleaseSummary) error {
	r.releases = releases
	return nil
}
func (r *recordingOutput) RenderRelease(rel *storage.ReleaseSummary, assets []storage.AssetRecord) error {
	r.release, r.assets = rel, assets
	return nil
}
func (r *recordingOutput) RenderCadence(points []storage.CadencePoint) error {
	r.cadence = points
	return nil
}

func newMockStorage() *mockStorage {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	return &mockStorage{
		releases: []storage.ReleaseSummary{
			{ReleaseID: 2, Project: "rules", Tag: "v1.3.0", Version: "1.3.0", PreviousVersion: "1.2.3", ReleaseType: "minor", CreatedAt: now, AssetCount: 3},
			{ReleaseID: 1, Project: "rules", Tag: "v1.2.3", Version: "1.2.3", PreviousVersion: "1.2.2", ReleaseType: "patch", CreatedAt: now.Add(-24 * time.Hour), AssetCount: 0},
		},
		assets: map[int64][]storage.AssetRecord{
			2: {
				{Name: "rules-v1.3.0.tar.gz", SHA256: "aa", Size: 2048},
				{Name: "rules-quickstart-v1.3.0.tar.gz", SHA256: "bb", Size: 512},
				{Name: "checksums.txt", SHA256: "cc", Size: 180},
			},
		},
		cadence: []storage.CadencePoint{
			{Date: "2026-03-01", ReleaseType: "patch", Count: 1},
			{Date: "2026-03-02", ReleaseType: "minor", Count: 1},
		},
	}
}

func TestRunHistoryWorkflow(t *testing.T) {
	store := newMockStorage()

	t.Run("list honours limit", func(t *testing.T) {
		out := &recordingOutput{}
		require.NoError(t, runHistoryWorkflow(store, out, historyOptions{Sub: "list", Limit: 1}))
		require.Len(t, out.releases, 1)
		assert.Equal(t, "v1.3.0", out.releases[0].Tag)
	})

	t.Run("show accepts a bare version", func(t *testing.T) {
		out := &recordingOutput{}
		require.NoError(t, runHistoryWorkflow(store, out, historyOptions{Sub: "show", Args: []string{"1.3.0"}}))
		assert.Equal(t, "v1.3.0", store.lastTag)
		require.NotNil(t, out.release)
		assert.Len(t, out.assets, 3)
	})

	t.Run("show unknown tag", func(t *testing.T) {
		err := runHistoryWorkflow(store, &recordingOutput{}, historyOptions{Sub: "show", Args: []string{"v9.9.9"}})
		if !errors.Is(err, storage.ErrReleaseNotFound) {
			t.Fatalf("expected ErrReleaseNotFound, got %v", err)
		}
	})

	t.Run("show without tag", func(t *testing.T) {
		err := runHistoryWorkflow(store, &recordingOutput{}, historyOptions{Sub: "show"})
		require.Error(t, err)
	})

	t.Run("unknown subcommand", func(t *testing.T) {
		err := runHistoryWorkflow(store, &recordingOutput{}, historyOptions{Sub: "finding"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported history command")
	})
}

func TestRunHistoryWorkflowCadenceExport(t *testing.T) {
	store := newMockStorage()
	csvPath := filepath.Join(t.TempDir(), "cadence.csv")
	out := &recordingOutput{}

	err := runHistoryWorkflow(store, out, historyOptions{Sub: "cadence", Days: 30, ExportCSV: csvPath})
	if err != nil {
		t.Fatalf("runHistoryWorkflow failed: %v", err)
	}
	if len(out.cadence) != 2 {
		t.Fatalf("expected 2 cadence points rendered, got %d", len(out.cadence))
	}

	f, err := os.Open(csvPath)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"date", "release_type", "count"}, rows[0])
	assert.Equal(t, []string{"2026-03-02", "minor", "1"}, rows[2])
}

func TestDashboardHandlers(t *testing.T) {
	srv := httptest.NewServer(newDashboardMux(newMockStorage(), ""))
	defer srv.Close()

	t.Run("index", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))
	})

	t.Run("releases", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/releases?limit=5")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var got []storage.ReleaseSummary
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		require.Len(t, got, 2)
		assert.Equal(t, "v1.3.0", got[0].Tag)
	})

	t.Run("releases bad limit", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/releases?limit=zero")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("assets", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/assets?tag=v1.3.0")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var got []storage.AssetRecord
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
		assert.Len(t, got, 3)
	})

	t.Run("assets requires tag", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/assets")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("assets unknown tag", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/assets?tag=v0.0.1")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unknown path", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/nope")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, map[string]int{"count": 2}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("unexpected content type %q", got)
	}
	if !strings.Contains(rec.Body.String(), `"count":2`) {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	writeJSON(rec, nil, errors.New("boom"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestHistoryDBPath(t *testing.T) {
	dir := t.TempDir()
	cfg := "project: rules\nhistory:\n  db_path: " + filepath.Join(dir, "from-config.db") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".release-cutter.yaml"), []byte(cfg), 0o644))

	got, err := historyDBPath("/tmp/flag.db", dir, "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.db", got)

	got, err = historyDBPath("", dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "from-config.db"), got)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	got, err = historyDBPath("", t.TempDir(), "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".release-cutter", "history.db"), got)
}

func TestHistoryDBPathReportsConfigErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".release-cutter.yaml"), []byte("history: [unterminated\n"), 0o644))

	_, err := historyDBPath("", dir, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")

	_, err = historyDBPath("", dir, filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestPublishesRelease(t *testing.T) {
	assert.True(t, publishesRelease(modelFlags("run", false, false)))
	assert.False(t, publishesRelease(modelFlags("run", true, false)))
	assert.False(t, publishesRelease(modelFlags("run", false, true)))
	assert.False(t, publishesRelease(modelFlags("package", false, false)))
}

func modelFlags(cmd string, dryRun, noPublish bool) model.Flags {
	return model.Flags{Command: cmd, DryRun: dryRun, NoPublish: noPublish}
}
