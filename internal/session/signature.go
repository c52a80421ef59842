package session

import (
	"sort"
	"strings"
	"sync"

	"repolens/internal/cache"
)

// Signature digests a project's identity: the source identifier joined with
// the sorted path list. It is order-independent in paths and distinguishes
// "local" loads from "github:owner/repo" loads even for identical file sets.
// Used only as a lookup key for auto-restore, never as primary identity.
func Signature(paths []string, sourceIdentifier string) string {
	sorted := make([]string, len(paths))
	copy(sorted, paths)
	sort.Strings(sorted)
	return cache.Hash(sourceIdentifier + "::" + strings.Join(sorted, "|"))
}

// RestoreTracker remembers which signatures this process already attempted
// to auto-restore, so a signature is only ever tried once per process
// lifetime.
type RestoreTracker struct {
	mu        sync.Mutex
	attempted map[string]struct{}
}

// NewRestoreTracker creates an empty tracker
func NewRestoreTracker() *RestoreTracker {
	return &RestoreTracker{attempted: make(map[string]struct{})}
}

// ShouldAttempt reports whether signature is still unattempted, and marks it
// attempted. The first caller gets true, everyone after gets false.
func (t *RestoreTracker) ShouldAttempt(signature string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, done := t.attempted[signature]; done {
		return false
	}
	t.attempted[signature] = struct{}{}
	return true
}
