package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	defaultDBPath = "~/.release-cutter/history.db"
	timeLayout    = "2006-01-02 15:04:05"
)

// NewService creates a SQLite-backed storage service.
func NewService(dbPath string) (Service, error) {
	resolved, err := resolvePath(dbPath)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(schemaV1); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &service{db: db, dbPath: resolved}, nil
}

type service struct {
	db     *sql.DB
	dbPath string
}

// ResolvePath expands ~ and applies the default history location.
func ResolvePath(p string) (string, error) {
	return resolvePath(p)
}

func resolvePath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		p = defaultDBPath
	}
	if strings.HasPrefix(p, "~/") || p == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home dir: %w", err)
		}
		if p == "~" {
			p = home
		} else {
			p = filepath.Join(home, p[2:])
		}
	}
	return filepath.Clean(p), nil
}

// SaveRelease records a release and its assets. Saving the same project/tag
// again replaces the earlier row and its assets.
func (s *service) SaveRelease(ctx context.Context, input SaveReleaseInput) (id int64, err error) {
	if input.Project == "" || input.Tag == "" {
		return 0, errors.New("project and tag are required")
	}
	if input.Version == "" {
		input.Version = strings.TrimPrefix(input.Tag, "v")
	}
	created := input.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO releases (
			project, tag, version, previous_version, release_type, trigger_event,
			reason, rule, commit_sha, prerelease, release_url, cli_version, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(project, tag) DO UPDATE SET
			version=excluded.version,
			previous_version=excluded.previous_version,
			release_type=excluded.release_type,
			trigger_event=excluded.trigger_event,
			reason=excluded.reason,
			rule=excluded.rule,
			commit_sha=excluded.commit_sha,
			prerelease=excluded.prerelease,
			release_url=excluded.release_url,
			cli_version=excluded.cli_version,
			created_at=excluded.created_at
		RETURNING release_id
	`, input.Project, input.Tag, input.Version, input.PreviousVersion, input.ReleaseType, input.Trigger,
		input.Reason, input.Rule, input.CommitSHA, input.Prerelease, input.URL, input.CLIVersion,
		created.UTC().Format(timeLayout)).Scan(&id)
	if err != nil {
		return 0, err
	}

	if err = s.saveAssetsTx(ctx, tx, id, input.Assets); err != nil {
		return 0, err
	}

	err = tx.Commit()
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *service) saveAssetsTx(ctx context.Context, tx *sql.Tx, releaseID int64, assets []AssetRecord) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM release_assets WHERE release_id=?`, releaseID); err != nil {
		return err
	}
	for _, a := range assets {
		if a.Name == "" {
			continue
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO release_assets(release_id, name, sha256, size, location)
			VALUES (?, ?, ?, ?, ?)
		`, releaseID, a.Name, a.SHA256, a.Size, a.Location)
		if err != nil {
			return err
		}
	}
	return nil
}

const releaseColumns = `
	r.release_id, r.project, r.tag, r.version, COALESCE(r.previous_version, ''),
	r.release_type, r.trigger_event, COALESCE(r.reason, ''), COALESCE(r.rule, ''),
	COALESCE(r.commit_sha, ''), r.prerelease, COALESCE(r.release_url, ''), r.created_at,
	(SELECT COUNT(*) FROM release_assets a WHERE a.release_id = r.release_id)
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRelease(row rowScanner) (ReleaseSummary, error) {
	var r ReleaseSummary
	err := row.Scan(&r.ReleaseID, &r.Project, &r.Tag, &r.Version, &r.PreviousVersion,
		&r.ReleaseType, &r.Trigger, &r.Reason, &r.Rule,
		&r.CommitSHA, &r.Prerelease, &r.URL, &r.CreatedAt, &r.AssetCount)
	return r, err
}

func (s *service) GetRecentReleases(project string, limit int) ([]ReleaseSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	query := "SELECT " + releaseColumns + " FROM releases r"
	args := []any{}
	if project != "" {
		query += " WHERE r.project=?"
		args = append(args, project)
	}
	query += " ORDER BY r.created_at DESC, r.release_id DESC LIMIT ?"
	args = append(args, limit)
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	releases := []ReleaseSummary{}
	for rows.Next() {
		r, err := scanRelease(rows)
		if err != nil {
			return nil, err
		}
		releases = append(releases, r)
	}
	return releases, rows.Err()
}

// GetRelease looks a release up by tag. An empty project matches the most
// recent release with that tag across projects.
func (s *service) GetRelease(project, tag string) (*ReleaseSummary, error) {
	if tag == "" {
		return nil, errors.New("tag is required")
	}
	query := "SELECT " + releaseColumns + " FROM releases r WHERE r.tag=?"
	args := []any{tag}
	if project != "" {
		query += " AND r.project=?"
		args = append(args, project)
	}
	query += " ORDER BY r.created_at DESC LIMIT 1"

	r, err := scanRelease(s.db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrReleaseNotFound, tag)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *service) ListAssets(releaseID int64) ([]AssetRecord, error) {
	rows, err := s.db.Query(`
		SELECT name, sha256, size, COALESCE(location, '')
		FROM release_assets WHERE release_id=? ORDER BY name ASC
	`, releaseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []AssetRecord{}
	for rows.Next() {
		var a AssetRecord
		if err := rows.Scan(&a.Name, &a.SHA256, &a.Size, &a.Location); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetCadence returns daily release counts per release type over the last days.
func (s *service) GetCadence(project string, days int) ([]CadencePoint, error) {
	if days <= 0 {
		days = 30
	}
	query := `
		SELECT DATE(created_at) as day, release_type, COUNT(*)
		FROM releases
		WHERE created_at >= DATETIME('now', ?)
	`
	args := []any{fmt.Sprintf("-%d day", days)}
	if project != "" {
		query += " AND project=?"
		args = append(args, project)
	}
	query += " GROUP BY DATE(created_at), release_type ORDER BY day ASC, release_type ASC"
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []CadencePoint{}
	for rows.Next() {
		var p CadencePoint
		if err := rows.Scan(&p.Date, &p.ReleaseType, &p.Count); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

func (s *service) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

func (s *service) Reindex(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "REINDEX")
	return err
}

func (s *service) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	if days <= 0 {
		return 0, errors.New("days must be > 0")
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM releases WHERE created_at < DATETIME('now', ?)
	`, fmt.Sprintf("-%d day", days))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *service) Close() error {
	return s.db.Close()
}
