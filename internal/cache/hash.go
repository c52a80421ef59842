package cache

import (
	"crypto/sha256"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Hash returns the SHA-256 hex digest of content. Cache keys are advisory:
// a collision only reuses slightly-stale derived data, never causes unsafe
// behavior.
func Hash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", sum)
}

// FastHash returns a 64-bit non-cryptographic digest, prefixed with "x" so
// the fast hash space can never collide with a SHA-256 key. Used on hot
// paths (layout keys, per-request repo hashes) where SHA-256 cost shows up.
func FastHash(content string) string {
	return fmt.Sprintf("x%016x", xxhash.Sum64String(content))
}
