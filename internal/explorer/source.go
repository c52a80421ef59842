package explorer

import (
	"context"
	"fmt"

	"repolens/internal/fetch"
)

// Source abstracts where the explored project's content comes from. The
// explorer never touches the filesystem or network directly; everything
// arrives through this contract.
type Source interface {
	// Identifier names the project for signatures and snapshots,
	// e.g. "local" or "github:owner/repo@ref"
	Identifier() string

	// ListPaths returns every file path in the project, slash-separated,
	// relative to the project root
	ListPaths(ctx context.Context) ([]string, error)

	// ReadFile returns the content of one file by its relative path
	ReadFile(ctx context.Context, path string) (string, error)
}

type localSource struct {
	local *fetch.Local
}

// NewLocalSource wraps a rooted filesystem fetcher as a Source
func NewLocalSource(local *fetch.Local) Source {
	return &localSource{local: local}
}

func (s *localSource) Identifier() string { return "local" }

func (s *localSource) ListPaths(ctx context.Context) ([]string, error) {
	return s.local.ListPaths()
}

func (s *localSource) ReadFile(ctx context.Context, path string) (string, error) {
	return s.local.ReadFile(path)
}

type githubSource struct {
	gh    *fetch.GitHub
	owner string
	repo  string
	ref   string
}

// NewGitHubSource wraps a GitHub fetcher bound to one repository and ref
func NewGitHubSource(gh *fetch.GitHub, owner, repo, ref string) Source {
	return &githubSource{gh: gh, owner: owner, repo: repo, ref: ref}
}

func (s *githubSource) Identifier() string {
	return fmt.Sprintf("github:%s/%s@%s", s.owner, s.repo, s.ref)
}

func (s *githubSource) ListPaths(ctx context.Context) ([]string, error) {
	return s.gh.ListTree(ctx, s.owner, s.repo, s.ref)
}

func (s *githubSource) ReadFile(ctx context.Context, path string) (string, error) {
	return s.gh.ReadFile(ctx, s.owner, s.repo, path)
}
