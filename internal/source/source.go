// Package source implements the per-provider fetchers. Each fetcher maps a
// provider payload into the unified Posting model and applies bounded
// retry with exponential backoff per logical fetch unit.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/entryladder/entryladder/internal/model"
)

// getJSON performs a GET and decodes the JSON body into v. Non-200
// responses become a model.HTTPError so the retry layer can inspect the
// status and any Retry-After hint.
func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", url, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &model.HTTPError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
			Err:        fmt.Errorf("get %s", url),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// parseRetryAfter parses a Retry-After header in seconds format.
// Returns zero if absent or unparseable.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML removes angle-bracket tags from provider free text and trims
// the result. Descriptions are stored as plain text.
func stripHTML(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, ""))
}
