package cache

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Cache provides the analysis, relevance and HTTP cache tiers
type Cache struct {
	db *DB
}

// New creates a cache over an open database
func New(db *DB) *Cache {
	return &Cache{db: db}
}

// HTTPEntry is a cached HTTP response body with its validator
type HTTPEntry struct {
	URL  string
	Data string
	ETag string
}

// GetAnalysis retrieves a cached analysis result by key.
// An expired entry is deleted and reported as a miss.
func (c *Cache) GetAnalysis(key string) (string, bool, error) {
	var value string
	var expiresAt sql.NullString

	err := c.db.QueryRow(`
		SELECT value_json, expires_at
		FROM analysis_cache
		WHERE key = ?
	`, key).Scan(&value, &expiresAt)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("analysis cache lookup failed: %w", err)
	}

	expired, err := c.pastExpiry(expiresAt)
	if err != nil {
		return "", false, err
	}
	if expired {
		_, _ = c.db.Exec("DELETE FROM analysis_cache WHERE key = ?", key)
		return "", false, nil
	}

	return value, true, nil
}

// SetAnalysis stores an analysis result. ttl <= 0 means no expiry; the entry
// persists until explicitly invalidated.
func (c *Cache) SetAnalysis(key, valueJSON string, ttl time.Duration) error {
	now := time.Now()
	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO analysis_cache (key, value_json, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`, key, valueJSON, now.UTC().Format(time.RFC3339), expiryFor(now, ttl))
	if err != nil {
		return fmt.Errorf("failed to set analysis cache: %w", err)
	}
	return nil
}

// GetRelevance retrieves a cached relevance result. On top of TTL expiry, a
// stored repo hash differing from repoHash is treated identically to expiry:
// the entry is deleted and reported as a miss. That layers content-based
// invalidation over time-based invalidation.
func (c *Cache) GetRelevance(key, repoHash string) (string, bool, error) {
	var value, storedHash string
	var expiresAt sql.NullString

	err := c.db.QueryRow(`
		SELECT value_json, repo_hash, expires_at
		FROM relevance_cache
		WHERE key = ?
	`, key).Scan(&value, &storedHash, &expiresAt)

	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("relevance cache lookup failed: %w", err)
	}

	expired, err := c.pastExpiry(expiresAt)
	if err != nil {
		return "", false, err
	}
	if expired || storedHash != repoHash {
		_, _ = c.db.Exec("DELETE FROM relevance_cache WHERE key = ?", key)
		return "", false, nil
	}

	return value, true, nil
}

// SetRelevance stores a relevance result bound to the current repo hash
func (c *Cache) SetRelevance(key, valueJSON, repoHash string, ttl time.Duration) error {
	now := time.Now()
	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO relevance_cache (key, value_json, repo_hash, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`, key, valueJSON, repoHash, now.UTC().Format(time.RFC3339), expiryFor(now, ttl))
	if err != nil {
		return fmt.Errorf("failed to set relevance cache: %w", err)
	}
	return nil
}

// GetHTTP retrieves a cached HTTP response for url
func (c *Cache) GetHTTP(url string) (*HTTPEntry, bool, error) {
	entry := HTTPEntry{URL: url}

	err := c.db.QueryRow(`
		SELECT data, etag
		FROM http_cache
		WHERE url = ?
	`, url).Scan(&entry.Data, &entry.ETag)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("http cache lookup failed: %w", err)
	}

	return &entry, true, nil
}

// SetHTTP stores an HTTP response body and its ETag for url
func (c *Cache) SetHTTP(url, data, etag string) error {
	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO http_cache (url, data, etag, created_at)
		VALUES (?, ?, ?, ?)
	`, url, data, etag, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to set http cache: %w", err)
	}
	return nil
}

// InvalidateAll clears every cache tier
func (c *Cache) InvalidateAll() error {
	for _, table := range []string{"analysis_cache", "relevance_cache", "http_cache"} {
		if _, err := c.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// pastExpiry reports whether a nullable RFC3339 expiry lies in the past.
// NULL means the entry never expires.
func (c *Cache) pastExpiry(expiresAt sql.NullString) (bool, error) {
	if !expiresAt.Valid {
		return false, nil
	}
	t, err := time.Parse(time.RFC3339Nano, expiresAt.String)
	if err != nil {
		return false, fmt.Errorf("invalid expires_at format: %w", err)
	}
	return time.Now().After(t), nil
}

// expiryFor returns the expires_at column value for a write: NULL for
// non-positive TTLs, otherwise now + ttl.
func expiryFor(now time.Time, ttl time.Duration) interface{} {
	if ttl <= 0 {
		return nil
	}
	return now.Add(ttl).UTC().Format(time.RFC3339Nano)
}
