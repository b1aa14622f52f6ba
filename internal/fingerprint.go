package internal

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a content hash of the compacted history. Two histories
// with the same fingerprint save to identical files.
func Fingerprint(turns []Turn) string {
	h := sha256.New()
	data, err := EncodeHistory(Compact(turns))
	if err != nil {
		// Unencodable fragments only come from hand-built values; hash what
		// we can so the result is still deterministic.
		for _, t := range turns {
			h.Write([]byte(t.Role))
			h.Write([]byte(t.Text()))
		}
		return hex.EncodeToString(h.Sum(nil))
	}
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CacheKey derives a short stable key from its parts without exposing them
func CacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
