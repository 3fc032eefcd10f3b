package identity

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/entryladder/entryladder/internal/model"
)

// Fingerprint computes a stable content key for postings without a usable
// URL: the SHA-1 hex digest of the pipe-joined lowercased and trimmed
// (title, company, location) triple. Pure and repeatable.
func Fingerprint(title, company, location string) string {
	base := strings.TrimSpace(strings.ToLower(title)) + "|" +
		strings.TrimSpace(strings.ToLower(company)) + "|" +
		strings.TrimSpace(strings.ToLower(location))
	sum := sha1.Sum([]byte(base))
	return hex.EncodeToString(sum[:])
}

// KeyFor returns the deduplication key for a posting: the normalized URL
// when the URL is non-blank and normalizes to a non-blank value, otherwise
// the content fingerprint.
func KeyFor(p model.Posting) string {
	if strings.TrimSpace(p.URL) != "" {
		if norm := NormalizeURL(p.URL); strings.TrimSpace(norm) != "" {
			return norm
		}
	}
	return Fingerprint(p.Title, p.Company, p.Location)
}
