package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/pflag"
	"github.com/thirukguru/release-cutter/service/config"
	"github.com/thirukguru/release-cutter/service/output"
	"github.com/thirukguru/release-cutter/service/storage"
)

func runStorageCommand(cmd string, args []string) error {
	switch cmd {
	case "db":
		return runDBCommand(args)
	case "history":
		return runHistoryCommand(args)
	case "dashboard":
		return runDashboardCommand(args)
	default:
		return fmt.Errorf("unsupported command: %s", cmd)
	}
}

// historyDBPath prefers the flag, then history.db_path from the project config,
// then the default location. The result is absolute with ~ expanded.
func historyDBPath(flagValue, repoDir, configPath string) (string, error) {
	p := flagValue
	if p == "" {
		cfg, err := config.NewService().Load(repoDir, configPath)
		if err != nil {
			return "", err
		}
		p = cfg.History.DBPath
	}
	return storage.ResolvePath(p)
}

func openStore(dbPath, repoDir, configPath string) (storage.Service, string, error) {
	path, err := historyDBPath(dbPath, repoDir, configPath)
	if err != nil {
		return nil, "", err
	}
	store, err := storage.NewService(path)
	if err != nil {
		return nil, "", err
	}
	return store, path, nil
}

func addStoreFlags(fs *pflag.FlagSet) (dbPath, repoDir, configPath *string) {
	dbPath = fs.String("db-path", "", "SQLite database path (default ~/.release-cutter/history.db)")
	repoDir = fs.StringP("repo-dir", "C", ".", "Repository whose config supplies history.db_path")
	configPath = fs.StringP("config", "c", "", "Config file path")
	return dbPath, repoDir, configPath
}

func runDBCommand(args []string) error {
	fs := pflag.NewFlagSet("db", pflag.ContinueOnError)
	dbPath, repoDir, configPath := addStoreFlags(fs)
	olderThan := fs.Int("older-than", 90, "Purge releases older than N days")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: release-cutter db <vacuum|reindex|purge> [--db-path ...]")
	}

	store, path, err := openStore(*dbPath, *repoDir, *configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	sub := rest[0]
	switch sub {
	case "vacuum":
		if err := store.Vacuum(context.Background()); err != nil {
			return err
		}
		fmt.Printf("Vacuumed %s\n", path)
		return nil
	case "reindex":
		if err := store.Reindex(context.Background()); err != nil {
			return err
		}
		fmt.Printf("Reindexed %s\n", path)
		return nil
	case "purge":
		count, err := store.PurgeOlderThan(context.Background(), *olderThan)
		if err != nil {
			return err
		}
		fmt.Printf("Purged %d releases from %s\n", count, path)
		return nil
	default:
		return fmt.Errorf("unsupported db command: %s", sub)
	}
}

func runHistoryCommand(args []string) error {
	fs := pflag.NewFlagSet("history", pflag.ContinueOnError)
	dbPath, repoDir, configPath := addStoreFlags(fs)
	project := fs.String("project", "", "Project name filter")
	limit := fs.Int("limit", 20, "Number of rows to list")
	days := fs.Int("days", 30, "Cadence window in days")
	exportCSV := fs.String("export-csv", "", "Write cadence rows to a CSV file")
	format := fs.StringP("output", "o", "table", "Output format: table or json")
	if err := fs.Parse(args); err != nil {
		return err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return fmt.Errorf("usage: release-cutter history <list|show|cadence>")
	}
	if *format != "table" && *format != "json" {
		return fmt.Errorf("unsupported output format %q (use table or json)", *format)
	}

	store, _, err := openStore(*dbPath, *repoDir, *configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	return runHistoryWorkflow(store, output.NewService(*format), historyOptions{
		Sub:       rest[0],
		Args:      rest[1:],
		Project:   *project,
		Limit:     *limit,
		Days:      *days,
		ExportCSV: *exportCSV,
	})
}

type historyOptions struct {
	Sub       string
	Args      []string
	Project   string
	Limit     int
	Days      int
	ExportCSV string
}

func runHistoryWorkflow(store storage.Service, out output.Service, opts historyOptions) error {
	switch opts.Sub {
	case "list":
		releases, err := store.GetRecentReleases(opts.Project, opts.Limit)
		if err != nil {
			return err
		}
		return out.RenderReleases(releases)
	case "show":
		if len(opts.Args) == 0 {
			return fmt.Errorf("usage: release-cutter history show <tag>")
		}
		tag := opts.Args[0]
		if !strings.HasPrefix(tag, "v") {
			tag = "v" + tag
		}
		release, err := store.GetRelease(opts.Project, tag)
		if err != nil {
			return err
		}
		assets, err := store.ListAssets(release.ReleaseID)
		if err != nil {
			return err
		}
		return out.RenderRelease(release, assets)
	case "cadence":
		points, err := store.GetCadence(opts.Project, opts.Days)
		if err != nil {
			return err
		}
		if strings.TrimSpace(opts.ExportCSV) != "" {
			if err := exportCadenceCSV(opts.ExportCSV, points); err != nil {
				return err
			}
		}
		return out.RenderCadence(points)
	default:
		return fmt.Errorf("unsupported history command: %s", opts.Sub)
	}
}

func exportCadenceCSV(path string, points []storage.CadencePoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	_ = w.Write([]string{"date", "release_type", "count"})
	for _, p := range points {
		_ = w.Write([]string{p.Date, p.ReleaseType, strconv.Itoa(p.Count)})
	}
	w.Flush()
	return w.Error()
}

func runDashboardCommand(args []string) error {
	fs := pflag.NewFlagSet("dashboard", pflag.ContinueOnError)
	dbPath, repoDir, configPath := addStoreFlags(fs)
	port := fs.Int("port", 8080, "Dashboard HTTP port")
	project := fs.String("project", "", "Project name filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	store, path, err := openStore(*dbPath, *repoDir, *configPath)
	if err != nil {
		return err
	}
	defer store.Close()

	addr := fmt.Sprintf(":%d", *port)
	server := &http.Server{
		Addr:              addr,
		Handler:           newDashboardMux(store, *project),
		ReadHeaderTimeout: 5 * time.Second,
	}
	fmt.Printf("Dashboard running on http://localhost%s (db: %s)\n", addr, path)
	return server.ListenAndServe()
}

func newDashboardMux(store storage.Service, project string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(dashboardHTML))
	})
	mux.HandleFunc("/api/releases", func(w http.ResponseWriter, r *http.Request) {
		limit := 50
		if v := r.URL.Query().Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
				return
			}
			limit = n
		}
		releases, err := store.GetRecentReleases(project, limit)
		writeJSON(w, releases, err)
	})
	mux.HandleFunc("/api/assets", func(w http.ResponseWriter, r *http.Request) {
		tag := r.URL.Query().Get("tag")
		if tag == "" {
			http.Error(w, "tag is required", http.StatusBadRequest)
			return
		}
		release, err := store.GetRelease(project, tag)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		assets, err := store.ListAssets(release.ReleaseID)
		writeJSON(w, assets, err)
	})
	mux.HandleFunc("/api/cadence", func(w http.ResponseWriter, _ *http.Request) {
		points, err := store.GetCadence(project, 90)
		writeJSON(w, points, err)
	})
	return mux
}

func writeJSON(w http.ResponseWriter, v any, err error) {
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

const dashboardHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>release-cutter dashboard</title>
  <script src="https://cdn.jsdelivr.net/npm/chart.js"></script>
  <style>
    body { font-family: sans-serif; margin: 24px; color: #1f2937; }
    h1 { margin: 0 0 12px; }
    .meta { margin-bottom: 16px; color: #6b7280; }
    .panel { border: 1px solid #e5e7eb; border-radius: 10px; padding: 16px; margin-bottom: 16px; }
    table { width: 100%; border-collapse: collapse; margin-top: 8px; }
    th, td { border: 1px solid #e5e7eb; padding: 8px; text-align: left; }
    th { background: #f9fafb; }
    tr.release { cursor: pointer; }
    .error { color: #b91c1c; white-space: pre-wrap; }
  </style>
</head>
<body>
  <h1>Release History</h1>
  <div class="meta">Source: <code>/api/releases</code>, <code>/api/cadence</code></div>
  <div class="panel">
    <canvas id="cadence" height="80"></canvas>
    <div id="chart-status"></div>
  </div>
  <div class="panel">
    <h3>Releases</h3>
    <div id="table-wrap">Loading...</div>
  </div>
  <div class="panel">
    <h3 id="assets-title">Assets</h3>
    <div id="assets-wrap"><em>Select a release.</em></div>
  </div>
  <script>
    const tableWrap = document.getElementById('table-wrap');
    const assetsWrap = document.getElementById('assets-wrap');
    const chartStatus = document.getElementById('chart-status');

    function esc(s) {
      return String(s == null ? '' : s).replace(/[&<>"]/g, c => ({'&':'&amp;','<':'&lt;','>':'&gt;','"':'&quot;'}[c]));
    }

    function loadAssets(tag) {
      document.getElementById('assets-title').textContent = 'Assets ' + tag;
      fetch('/api/assets?tag=' + encodeURIComponent(tag))
        .then(r => { if (!r.ok) throw new Error('HTTP ' + r.status); return r.json(); })
        .then(rows => {
          if (!rows || rows.length === 0) { assetsWrap.innerHTML = '<em>No assets recorded.</em>'; return; }
          let html = '<table><thead><tr><th>Name</th><th>Size</th><th>SHA-256</th><th>Location</th></tr></thead><tbody>';
          for (const a of rows) {
            html += '<tr><td>' + esc(a.name) + '</td><td>' + a.size + '</td><td><code>' + esc(a.sha256) + '</code></td><td>' + esc(a.location || '-') + '</td></tr>';
          }
          assetsWrap.innerHTML = html + '</tbody></table>';
        })
        .catch(err => { assetsWrap.innerHTML = '<div class="error">' + esc(err.message) + '</div>'; });
    }

    fetch('/api/releases')
      .then(r => { if (!r.ok) throw new Error('HTTP ' + r.status); return r.json(); })
      .then(rows => {
        if (!rows || rows.length === 0) { tableWrap.innerHTML = '<em>No releases recorded.</em>'; return; }
        let html = '<table><thead><tr><th>Tag</th><th>Project</th><th>Type</th><th>Previous</th><th>Reason</th><th>Assets</th><th>Created</th></tr></thead><tbody>';
        for (const r of rows) {
          html += '<tr class="release" data-tag="' + esc(r.tag) + '">' +
            '<td>' + esc(r.tag) + '</td>' +
            '<td>' + esc(r.project) + '</td>' +
            '<td>' + esc(r.release_type) + '</td>' +
            '<td>' + esc(r.previous_version || '-') + '</td>' +
            '<td>' + esc(r.reason) + '</td>' +
            '<td>' + r.asset_count + '</td>' +
            '<td>' + esc(r.created_at) + '</td>' +
            '</tr>';
        }
        tableWrap.innerHTML = html + '</tbody></table>';
        for (const tr of tableWrap.querySelectorAll('tr.release')) {
          tr.addEventListener('click', () => loadAssets(tr.dataset.tag));
        }
      })
      .catch(err => { tableWrap.innerHTML = '<div class="error">Failed to load releases: ' + esc(err.message) + '</div>'; });

    fetch('/api/cadence')
      .then(r => { if (!r.ok) throw new Error('HTTP ' + r.status); return r.json(); })
      .then(points => {
        if (!points || points.length === 0) return;
        if (typeof Chart !== 'function') {
          chartStatus.innerHTML = '<div class="error">Chart.js failed to load.</div>';
          return;
        }
        const days = [...new Set(points.map(p => p.date))];
        const types = [...new Set(points.map(p => p.release_type))];
        const colors = { major: '#dc2626', minor: '#2563eb', patch: '#16a34a', prerelease: '#d97706' };
        const datasets = types.map(t => ({
          label: t,
          backgroundColor: colors[t] || '#6b7280',
          data: days.map(d => { const p = points.find(x => x.date === d && x.release_type === t); return p ? p.count : 0; })
        }));
        new Chart(document.getElementById('cadence'), {
          type: 'bar',
          data: { labels: days, datasets: datasets },
          options: { responsive: true, scales: { x: { stacked: true }, y: { stacked: true, beginAtZero: true, ticks: { precision: 0 } } } }
        });
      })
      .catch(err => { chartStatus.innerHTML = '<div class="error">Chart not rendered: ' + esc(err.message) + '</div>'; });
  </script>
</body>
</html>`
