// Package identity derives the deduplication key for a posting: a canonical
// URL when one exists, otherwise a content fingerprint.
package identity

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// NormalizeURL canonicalizes a raw URL into a comparable identity key.
// Scheme and host are lowercased, a leading "www." is dropped, query and
// fragment are removed, the path is percent-decoded, lowercased and
// re-encoded against the unreserved set, repeated slashes collapse, a
// trailing slash is stripped unless the path is the root, and default
// ports are omitted. It never fails: unparseable input degrades through a
// best-effort string-surgery path that is still deterministic.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err == nil && u.Host == "" {
		// No authority component; retry with an assumed scheme.
		u, err = url.Parse("http://" + raw)
	}
	if err != nil || u.Host == "" {
		return normalizeFallback(raw)
	}
	return reassemble(u)
}

// reassemble builds scheme://host[:port]path from a parsed URL, applying
// the canonicalization rules. Query and fragment are dropped here simply
// by never being appended.
func reassemble(u *url.URL) string {
	scheme := strings.ToLower(u.Scheme)
	if scheme == "" {
		scheme = "http"
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")

	port := u.Port()
	includePort := port != "" &&
		!((scheme == "http" && port == "80") || (scheme == "https" && port == "443"))

	path := canonicalizePath(u.EscapedPath())
	if strings.HasSuffix(path, "/") && len(path) > 1 {
		path = path[:len(path)-1]
	}

	var b strings.Builder
	b.WriteString(scheme)
	b.WriteString("://")
	b.WriteString(host)
	if includePort {
		b.WriteByte(':')
		b.WriteString(port)
	}
	b.WriteString(path)
	return b.String()
}

// normalizeFallback handles input that net/url rejects: strip query and
// fragment by hand, force a scheme, and retry the structured path; if even
// that fails, fall back to plain string cleanup.
func normalizeFallback(raw string) string {
	s := raw
	if i := strings.IndexByte(s, '?'); i >= 0 {
		s = s[:i]
	}
	if i := strings.IndexByte(s, '#'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if !schemePattern.MatchString(s) {
		s = "http://" + s
	}

	if u, err := url.Parse(s); err == nil && u.Host != "" {
		return reassemble(u)
	}

	s = strings.ToLower(s)
	if rest, ok := strings.CutPrefix(s, "http://www."); ok {
		s = "http://" + rest
	}
	if rest, ok := strings.CutPrefix(s, "https://www."); ok {
		s = "https://" + rest
	}
	if strings.HasSuffix(s, "/") && len(s) > 1 {
		s = s[:len(s)-1]
	}
	return s
}

// canonicalizePath splits on "/", percent-decodes each segment, lowercases
// it, and re-encodes it with uppercase hex. Empty segments are skipped,
// which collapses repeated slashes. An empty path becomes "/".
func canonicalizePath(rawPath string) string {
	if rawPath == "" {
		return "/"
	}

	var b strings.Builder
	for _, seg := range strings.Split(rawPath, "/") {
		if seg == "" {
			continue
		}
		decoded := strings.ToLower(percentDecode(seg))
		b.WriteByte('/')
		b.WriteString(percentEncode(decoded))
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// percentDecode decodes %XX escapes byte-wise. An incomplete or invalid
// escape keeps the '%' as a literal instead of failing, so malformed
// segments still normalize deterministically.
func percentDecode(s string) string {
	var buf bytes.Buffer
	for i := 0; i < len(s); {
		if s[i] == '%' && i+2 < len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+3], 16, 8); err == nil {
				buf.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		buf.WriteByte(s[i])
		i++
	}
	return buf.String()
}

func isUnreserved(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
		r == '-' || r == '.' || r == '_' || r == '~'
}

// percentEncode keeps unreserved characters and encodes everything else as
// uppercase hex pairs over its UTF-8 bytes.
func percentEncode(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isUnreserved(r) {
			b.WriteRune(r)
			continue
		}
		for _, by := range []byte(string(r)) {
			fmt.Fprintf(&b, "%%%02X", by)
		}
	}
	return b.String()
}
