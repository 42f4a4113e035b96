package storage

const schemaV1 = `
CREATE TABLE IF NOT EXISTS releases (
    release_id       INTEGER PRIMARY KEY AUTOINCREMENT,
    project          TEXT NOT NULL,
    tag              TEXT NOT NULL,
    version          TEXT NOT NULL,
    previous_version TEXT,
    release_type     TEXT NOT NULL,
    trigger_event    TEXT NOT NULL,
    reason           TEXT,
    rule             TEXT,
    commit_sha       TEXT,
    prerelease       INTEGER DEFAULT 0,
    release_url      TEXT,
    cli_version      TEXT,
    created_at       DATETIME DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(project, tag)
);

CREATE INDEX IF NOT EXISTS idx_releases_project_created
    ON releases(project, created_at);
CREATE INDEX IF NOT EXISTS idx_releases_created
    ON releases(created_at DESC);

CREATE TABLE IF NOT EXISTS release_assets (
    asset_id    INTEGER PRIMARY KEY AUTOINCREMENT,
    release_id  INTEGER NOT NULL,
    name        TEXT NOT NULL,
    sha256      TEXT NOT NULL,
    size        INTEGER DEFAULT 0,
    location    TEXT,
    created_at  DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (release_id) REFERENCES releases(release_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_release_assets_release ON release_assets(release_id);
CREATE INDEX IF NOT EXISTS idx_release_assets_sha ON release_assets(sha256);
`
