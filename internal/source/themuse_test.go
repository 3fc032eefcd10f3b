package source

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMuseFetcher_MapsFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[
			{
				"name":"Junior Software Engineer",
				"contents":"<div>Kickstart your career</div>",
				"refs":{"landing_page":"https://example.com/jobs/1"},
				"company":{"name":"Acme"},
				"locations":[{"name":""},{"name":"New York, NY"}],
				"publication_date":"2024-03-01T10:00:00Z"
			},
			{
				"name":"Graduate Program",
				"contents":"",
				"refs":{"landing_page":"https://example.com/jobs/2"},
				"company":{"name":"Beta"},
				"locations":[],
				"publication_date":"2024-03-02T10:00:00Z"
			}
		]}`)
	}))
	defer srv.Close()

	f := NewMuseFetcher(srv.URL, srv.Client(), fastPolicy(), discardLogger())
	postings, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("got %d postings, want 2", len(postings))
	}

	first := postings[0]
	if first.Title != "Junior Software Engineer" || first.Company != "Acme" ||
		first.URL != "https://example.com/jobs/1" || first.Source != "themuse" {
		t.Fatalf("unexpected mapping: %+v", first)
	}
	if first.Location != "New York, NY" {
		t.Fatalf("location = %q, want first non-blank entry", first.Location)
	}
	if first.Description != "Kickstart your career" {
		t.Fatalf("description = %q, want HTML stripped", first.Description)
	}

	if postings[1].Location != "Remote" {
		t.Fatalf("empty locations mapped to %q, want Remote", postings[1].Location)
	}
}
