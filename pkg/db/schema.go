package db

const schema = `
-- Performance and reliability settings
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;
PRAGMA temp_store = MEMORY;

-- Snapshots: one row per assembled page, full record kept as JSON
CREATE TABLE IF NOT EXISTS snapshots (
    snapshot_id TEXT PRIMARY KEY,
    url TEXT NOT NULL,
    final_url TEXT,
    domain TEXT NOT NULL,
    page_type TEXT NOT NULL,
    product_name TEXT,
    status_code INTEGER,
    word_count INTEGER DEFAULT 0,
    crawl_timestamp TEXT NOT NULL,
    file_path TEXT,
    snapshot_json TEXT NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_snapshots_url ON snapshots(url);
CREATE INDEX IF NOT EXISTS idx_snapshots_domain ON snapshots(domain);
CREATE INDEX IF NOT EXISTS idx_snapshots_created ON snapshots(created_at);

-- Scores: latest score per snapshot
CREATE TABLE IF NOT EXISTS scores (
    snapshot_id TEXT PRIMARY KEY,
    final_score INTEGER NOT NULL,
    max_possible INTEGER NOT NULL,
    readiness_pct REAL NOT NULL,
    readiness_band TEXT NOT NULL,
    score_json TEXT NOT NULL,
    scored_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (snapshot_id) REFERENCES snapshots(snapshot_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_scores_band ON scores(readiness_band);

-- URL accesses: every fetch attempt tracked, failures included
CREATE TABLE IF NOT EXISTS url_accesses (
    access_id INTEGER PRIMARY KEY AUTOINCREMENT,
    url TEXT NOT NULL,
    accessed_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    status_code INTEGER,
    error_type TEXT,
    success BOOLEAN NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_accesses_url ON url_accesses(url);
`
