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

// DefaultRemotiveURL is the Remotive public remote-jobs API.
const DefaultRemotiveURL = "https://remotive.com/api/remote-jobs"

type remotiveJob struct {
	Title                     string `json:"title"`
	CompanyName               string `json:"company_name"`
	CandidateRequiredLocation string `json:"candidate_required_location"`
	URL                       string `json:"url"`
	Description               string `json:"description"`
	PublicationDate           string `json:"publication_date"`
}

type remotiveResponse struct {
	Jobs []remotiveJob `json:"jobs"`
}

// RemotiveFetcher pulls the whole Remotive collection in one call, with
// retry around the call as the fetch unit.
type RemotiveFetcher struct {
	url    string
	client *http.Client
	policy retry.Policy
	logger *slog.Logger
}

func NewRemotiveFetcher(url string, client *http.Client, policy retry.Policy, logger *slog.Logger) *RemotiveFetcher {
	if url == "" {
		url = DefaultRemotiveURL
	}
	return &RemotiveFetcher{url: url, client: client, policy: policy, logger: logger}
}

func (f *RemotiveFetcher) Name() string { return "remotive" }

func (f *RemotiveFetcher) Fetch(ctx context.Context) ([]model.Posting, error) {
	return retry.Do(ctx, f.policy, f.logger, f.Name(), func() ([]model.Posting, error) {
		var resp remotiveResponse
		if err := getJSON(ctx, f.client, f.url, &resp); err != nil {
			return nil, fmt.Errorf("remotive: %w", err)
		}

		postings := make([]model.Posting, 0, len(resp.Jobs))
		for _, rj := range resp.Jobs {
			postings = append(postings, convertRemotive(rj))
		}
		return postings, nil
	})
}

func convertRemotive(rj remotiveJob) model.Posting {
	postedAt := parseISO(rj.PublicationDate)
	if postedAt == nil {
		now := time.Now()
		postedAt = &now
	}

	location := rj.CandidateRequiredLocation
	if location == "" {
		location = "Remote"
	}

	return model.Posting{
		Title:       rj.Title,
		Company:     rj.CompanyName,
		Location:    location,
		URL:         rj.URL,
		Description: stripHTML(rj.Description),
		Source:      "remotive",
		PostedAt:    postedAt,
	}
}
