package analysis

import (
	"context"
	"encoding/json"
	"time"

	"repolens/internal/cache"
	"repolens/internal/graph"
	"repolens/internal/logging"
)

// Cached decorates a Service with content-addressable caching. Analysis
// results are keyed by the content hash, relevance results by the query hash
// gated on the current repo hash. Cache storage failures degrade to misses
// on read and warnings on write; they never fail the primary operation.
type Cached struct {
	inner        Service
	cache        *cache.Cache
	logger       *logging.Logger
	analysisTTL  time.Duration
	relevanceTTL time.Duration

	// repoHash identifies the current file set for relevance gating
	repoHash string
}

// CachedOptions configures the caching decorator
type CachedOptions struct {
	AnalysisTTL  time.Duration // <= 0 means no expiry
	RelevanceTTL time.Duration
	RepoHash     string
}

// NewCached wraps inner with the cache layer
func NewCached(inner Service, c *cache.Cache, logger *logging.Logger, opts CachedOptions) *Cached {
	return &Cached{
		inner:        inner,
		cache:        c,
		logger:       logger,
		analysisTTL:  opts.AnalysisTTL,
		relevanceTTL: opts.RelevanceTTL,
		repoHash:     opts.RepoHash,
	}
}

// SetRepoHash binds relevance gating to a loaded project. The file set is
// only known after load, so callers set this before the first FindRelevant.
func (c *Cached) SetRepoHash(repoHash string) {
	c.repoHash = repoHash
}

// Analyze serves the symbol tree from cache when the same content was
// analyzed before, regardless of path or project.
func (c *Cached) Analyze(ctx context.Context, content, filename string) ([]graph.SymbolNode, error) {
	key := "analysis:" + cache.Hash(content)

	if raw, hit, err := c.cache.GetAnalysis(key); err != nil {
		c.logger.Warn("analysis cache read failed", logging.Fields{"error": err.Error()})
	} else if hit {
		var symbols []graph.SymbolNode
		if err := json.Unmarshal([]byte(raw), &symbols); err == nil {
			// Ids are path-dependent; reassign for this filename.
			AssignSymbolIDs(filename, symbols)
			return symbols, nil
		}
		c.logger.Warn("analysis cache entry corrupt, refetching", logging.Fields{"key": key})
	}

	symbols, err := c.inner.Analyze(ctx, content, filename)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(symbols); err == nil {
		if err := c.cache.SetAnalysis(key, string(raw), c.analysisTTL); err != nil {
			c.logger.Warn("analysis cache write failed", logging.Fields{"error": err.Error()})
		}
	}
	return symbols, nil
}

// FindRelevant serves relevance results from cache only while the project's
// file set is unchanged; a different repo hash invalidates prior entries.
func (c *Cached) FindRelevant(ctx context.Context, query string, paths []string) ([]string, error) {
	key := "relevance:" + cache.Hash(query)

	if raw, hit, err := c.cache.GetRelevance(key, c.repoHash); err != nil {
		c.logger.Warn("relevance cache read failed", logging.Fields{"error": err.Error()})
	} else if hit {
		var relevant []string
		if err := json.Unmarshal([]byte(raw), &relevant); err == nil {
			return relevant, nil
		}
		c.logger.Warn("relevance cache entry corrupt, refetching", logging.Fields{"key": key})
	}

	relevant, err := c.inner.FindRelevant(ctx, query, paths)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(relevant); err == nil {
		if err := c.cache.SetRelevance(key, string(raw), c.repoHash, c.relevanceTTL); err != nil {
			c.logger.Warn("relevance cache write failed", logging.Fields{"error": err.Error()})
		}
	}
	return relevant, nil
}
