package cache

// initializeSchema creates the cache tables when missing. expires_at is NULL
// for entries with no TTL; they persist until explicitly invalidated.
func (db *DB) initializeSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS analysis_cache (
	key        TEXT PRIMARY KEY,
	value_json TEXT NOT NULL,
	created_at TEXT NOT NULL,
	expires_at TEXT
);

CREATE TABLE IF NOT EXISTS relevance_cache (
	key        TEXT PRIMARY KEY,
	value_json TEXT NOT NULL,
	repo_hash  TEXT NOT NULL,
	created_at TEXT NOT NULL,
	expires_at TEXT
);

CREATE TABLE IF NOT EXISTS http_cache (
	url        TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	etag       TEXT NOT NULL,
	created_at TEXT NOT NULL
);
`
	_, err := db.conn.Exec(schema)
	return err
}
