package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/entryladder/entryladder/internal/model"
	"github.com/entryladder/entryladder/internal/retry"
)

// DefaultMuseURL is The Muse public jobs API.
const DefaultMuseURL = "https://www.themuse.com/api/public/jobs"

type museJob struct {
	Name     string `json:"name"`
	Contents string `json:"contents"`
	Refs     struct {
		LandingPage string `json:"landing_page"`
	} `json:"refs"`
	Company struct {
		Name string `json:"name"`
	} `json:"company"`
	Locations []struct {
		Name string `json:"name"`
	} `json:"locations"`
	PublicationDate string `json:"publication_date"`
}

type museResponse struct {
	Results []museJob `json:"results"`
}

// MuseFetcher pulls The Muse collection endpoint in one call, with retry
// around the call as the fetch unit.
type MuseFetcher struct {
	url    string
	client *http.Client
	policy retry.Policy
	logger *slog.Logger
}

func NewMuseFetcher(url string, client *http.Client, policy retry.Policy, logger *slog.Logger) *MuseFetcher {
	if url == "" {
		url = DefaultMuseURL
	}
	return &MuseFetcher{url: url, client: client, policy: policy, logger: logger}
}

func (f *MuseFetcher) Name() string { return "themuse" }

func (f *MuseFetcher) Fetch(ctx context.Context) ([]model.Posting, error) {
	return retry.Do(ctx, f.policy, f.logger, f.Name(), func() ([]model.Posting, error) {
		var resp museResponse
		if err := getJSON(ctx, f.client, f.url, &resp); err != nil {
			return nil, fmt.Errorf("themuse: %w", err)
		}

		postings := make([]model.Posting, 0, len(resp.Results))
		for _, mj := range resp.Results {
			postings = append(postings, convertMuse(mj))
		}
		return postings, nil
	})
}

func convertMuse(mj museJob) model.Posting {
	postedAt := parseISO(mj.PublicationDate)
	if postedAt == nil {
		now := time.Now()
		postedAt = &now
	}

	location := "Remote"
	for _, loc := range mj.Locations {
		if loc.Name != "" {
			location = loc.Name
			break
		}
	}

	return model.Posting{
		Title:       mj.Name,
		Company:     mj.Company.Name,
		Location:    location,
		URL:         mj.Refs.LandingPage,
		Description: stripHTML(mj.Contents),
		Source:      "themuse",
		PostedAt:    postedAt,
	}
}
