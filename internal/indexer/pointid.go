package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/fnv"
)

// PointID derives a stable 64-bit point identifier from a chunk's location.
// It depends only on the file path and line range, so re-indexing a changed
// chunk at the same location overwrites the old point instead of duplicating
// it.
func PointID(path string, startLine, endLine int) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%d:%d", path, startLine, endLine)
	return h.Sum64()
}

// ContentHash returns the hex SHA-256 of a chunk's content. Stored in the
// point payload and compared on re-index to skip unchanged chunks.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
