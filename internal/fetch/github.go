package fetch

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"repolens/internal/cache"
	"repolens/internal/errors"
	"repolens/internal/logging"
)

const defaultAPIBase = "https://api.github.com"

// GitHub fetches repository trees and file contents from the GitHub API.
// Responses are cached by URL with their ETag; subsequent requests go out
// conditionally and a 304 is served from the cached body.
type GitHub struct {
	client  *http.Client
	cache   *cache.Cache
	logger  *logging.Logger
	apiBase string
	token   string
}

// GitHubOptions configures the GitHub fetcher
type GitHubOptions struct {
	APIBase string        // Defaults to https://api.github.com
	Token   string        // Optional bearer token
	Timeout time.Duration // Defaults to 30s
}

// NewGitHub creates a GitHub fetcher over the given HTTP cache
func NewGitHub(c *cache.Cache, logger *logging.Logger, opts GitHubOptions) *GitHub {
	apiBase := opts.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &GitHub{
		client:  &http.Client{Timeout: timeout},
		cache:   c,
		logger:  logger,
		apiBase: apiBase,
		token:   opts.Token,
	}
}

type treeResponse struct {
	Tree []struct {
		Path string `json:"path"`
		Type string `json:"type"`
	} `json:"tree"`
	Truncated bool `json:"truncated"`
}

type contentResponse struct {
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
}

// ListTree returns the flat file path list of owner/repo at ref, sorted
func (g *GitHub) ListTree(ctx context.Context, owner, repo, ref string) ([]string, error) {
	if ref == "" {
		ref = "HEAD"
	}
	url := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", g.apiBase, owner, repo, ref)

	body, err := g.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var tr treeResponse
	if err := json.Unmarshal([]byte(body), &tr); err != nil {
		return nil, errors.Wrap(errors.FetchFailed, "decoding tree response", err)
	}
	if tr.Truncated {
		g.logger.Warn("github tree response truncated", logging.Fields{
			"owner": owner, "repo": repo, "ref": ref,
		})
	}

	var paths []string
	for _, entry := range tr.Tree {
		if entry.Type == "blob" {
			paths = append(paths, entry.Path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// ReadFile fetches one file's decoded content from owner/repo
func (g *GitHub) ReadFile(ctx context.Context, owner, repo, path string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", g.apiBase, owner, repo, path)

	body, err := g.get(ctx, url)
	if err != nil {
		return "", err
	}

	var cr contentResponse
	if err := json.Unmarshal([]byte(body), &cr); err != nil {
		return "", errors.Wrap(errors.FetchFailed, "decoding content response", err)
	}
	if cr.Encoding != "base64" {
		return cr.Content, nil
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(cr.Content, "\n", ""))
	if err != nil {
		return "", errors.Wrap(errors.FetchFailed, "decoding base64 content", err)
	}
	return string(decoded), nil
}

// get performs a conditional GET through the HTTP cache. A 304 response is
// resolved from the cached body; a 304 with nothing cached is a protocol
// violation and is surfaced, never swallowed into an empty result.
func (g *GitHub) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", errors.Wrap(errors.FetchFailed, "building request", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	cached, haveCached, cacheErr := g.cache.GetHTTP(url)
	if cacheErr != nil {
		// Storage read failure degrades to a cache miss.
		g.logger.Warn("http cache read failed", logging.Fields{"url": url, "error": cacheErr.Error()})
		haveCached = false
	}
	if haveCached && cached.ETag != "" {
		req.Header.Set("If-None-Match", cached.ETag)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", errors.Wrap(errors.FetchFailed, "requesting "+url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		if !haveCached || cached.Data == "" {
			return "", errors.New(errors.NotModifiedConflict,
				"server returned 304 but no cached payload exists for "+url)
		}
		return cached.Data, nil

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", errors.Wrap(errors.FetchFailed, "reading response body", err)
		}
		if etag := resp.Header.Get("ETag"); etag != "" {
			if err := g.cache.SetHTTP(url, string(body), etag); err != nil {
				// Write failures warn but never block the fetch.
				g.logger.Warn("http cache write failed", logging.Fields{"url": url, "error": err.Error()})
			}
		}
		return string(body), nil

	default:
		return "", errors.New(errors.FetchFailed,
			fmt.Sprintf("unexpected status %d for %s", resp.StatusCode, url))
	}
}
