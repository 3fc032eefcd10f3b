package source

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimeFromEpoch_MagnitudeHeuristic(t *testing.T) {
	want := time.Unix(1_700_000_000, 0)
	if got := timeFromEpoch(1_700_000_000); !got.Equal(want) {
		t.Fatalf("seconds: got %v, want %v", got, want)
	}
	if got := timeFromEpoch(1_700_000_000_000); !got.Equal(want) {
		t.Fatalf("milliseconds: got %v, want %v", got, want)
	}
}

func TestParseISO(t *testing.T) {
	withZone := parseISO("2024-03-01T10:00:00Z")
	if withZone == nil || !withZone.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("zoned timestamp: got %v", withZone)
	}
	noZone := parseISO("2024-03-01T10:00:00")
	if noZone == nil {
		t.Fatal("zoneless timestamp did not parse")
	}
	if parseISO("") != nil {
		t.Fatal("blank should parse to nil")
	}
	if parseISO("yesterday") != nil {
		t.Fatal("free text should parse to nil")
	}
}

func TestFlexTime_UnmarshalJSON(t *testing.T) {
	want := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name string
		in   string
		want *time.Time
	}{
		{"epoch seconds", `1700000000`, &want},
		{"epoch milliseconds", `1700000000000`, &want},
		{"epoch float", `1700000000.0`, &want},
		{"numeric string", `"1700000000"`, &want},
		{"iso string", `"2023-11-14T22:13:20Z"`, &want},
		{"null", `null`, nil},
		{"empty string", `""`, nil},
		{"garbage string", `"soonish"`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f flexTime
			if err := json.Unmarshal([]byte(tt.in), &f); err != nil {
				t.Fatalf("unmarshal %s: %v", tt.in, err)
			}
			switch {
			case tt.want == nil && f.t != nil:
				t.Fatalf("got %v, want nil", f.t)
			case tt.want != nil && f.t == nil:
				t.Fatalf("got nil, want %v", tt.want)
			case tt.want != nil && !f.t.Equal(*tt.want):
				t.Fatalf("got %v, want %v", f.t, tt.want)
			}
		})
	}
}

func TestStripHTML(t *testing.T) {
	in := "<p>Join our <b>junior</b> team.</p>\n<ul><li>No experience needed</li></ul>"
	got := stripHTML(in)
	want := "Join our junior team.\nNo experience needed"
	if got != want {
		t.Fatalf("stripHTML = %q, want %q", got, want)
	}
	if stripHTML("") != "" {
		t.Fatal("empty input should stay empty")
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter("30"); got != 30*time.Second {
		t.Fatalf("got %v, want 30s", got)
	}
	if got := parseRetryAfter(""); got != 0 {
		t.Fatalf("absent header: got %v, want 0", got)
	}
	if got := parseRetryAfter("Wed, 21 Oct 2015 07:28:00 GMT"); got != 0 {
		t.Fatalf("http-date format: got %v, want 0", got)
	}
}
