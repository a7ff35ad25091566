package badger

import "strings"

// Key prefixes for different data types
const (
	catalogEntryPrefix = "catent"
)

// makeCatalogKey generates a key for a catalog entry by candidate id.
// Format: prefix:candidateID
func makeCatalogKey(candidateID string) []byte {
	return []byte(catalogEntryPrefix + ":" + candidateID)
}

// catalogScanPrefix matches every catalog entry key.
func catalogScanPrefix() []byte {
	return []byte(catalogEntryPrefix + ":")
}

// candidateIDFromKey recovers the candidate id from a catalog key.
func candidateIDFromKey(key []byte) string {
	return strings.TrimPrefix(string(key), catalogEntryPrefix+":")
}
