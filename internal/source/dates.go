package source

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Epoch values above this are milliseconds, not seconds (10 billion
// seconds is the year 2286).
const epochMillisThreshold = 10_000_000_000

func timeFromEpoch(v int64) time.Time {
	if v > epochMillisThreshold {
		v /= 1000
	}
	return time.Unix(v, 0)
}

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// parseISO parses an ISO-8601 timestamp, with or without a zone offset.
// Returns nil if blank or unparseable; callers default to "now".
func parseISO(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// flexTime decodes provider timestamps that arrive as epoch seconds,
// epoch milliseconds (detected by magnitude), numeric strings, or
// ISO-8601 strings. Anything unparseable decodes to nil rather than
// failing the payload.
type flexTime struct {
	t *time.Time
}

func (f *flexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			t := timeFromEpoch(n)
			f.t = &t
			return nil
		}
		f.t = parseISO(s)
		return nil
	}

	if n, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		t := timeFromEpoch(n)
		f.t = &t
		return nil
	}
	if fl, err := strconv.ParseFloat(string(data), 64); err == nil {
		t := timeFromEpoch(int64(fl))
		f.t = &t
	}
	return nil
}
