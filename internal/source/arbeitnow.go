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

// DefaultArbeitnowURL is the Arbeitnow public job-board API. No
// authentication required.
const DefaultArbeitnowURL = "https://arbeitnow.com/api/job-board-api"

// arbeitnowJob represents a single job in the Arbeitnow API response.
// created_at is an epoch value, sometimes serialized as a string.
type arbeitnowJob struct {
	Title       string   `json:"title"`
	CompanyName string   `json:"company_name"`
	Location    string   `json:"location"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	CreatedAt   flexTime `json:"created_at"`
}

type arbeitnowResponse struct {
	Data []arbeitnowJob `json:"data"`
}

// ArbeitnowFetcher pulls postings from Arbeitnow page by page, stopping
// early when a page comes back empty. Retry applies per page; pages stay
// sequential because the stop condition depends on the prior page.
type ArbeitnowFetcher struct {
	baseURL string
	pages   int
	client  *http.Client
	policy  retry.Policy
	logger  *slog.Logger
}

func NewArbeitnowFetcher(baseURL string, pages int, client *http.Client, policy retry.Policy, logger *slog.Logger) *ArbeitnowFetcher {
	if baseURL == "" {
		baseURL = DefaultArbeitnowURL
	}
	if pages < 1 {
		pages = 1
	}
	return &ArbeitnowFetcher{
		baseURL: baseURL,
		pages:   pages,
		client:  client,
		policy:  policy,
		logger:  logger,
	}
}

func (f *ArbeitnowFetcher) Name() string { return "arbeitnow" }

// Fetch retrieves pages 1..pages. A page that exhausts its retries ends
// the pagination with whatever was collected so far; only cancellation is
// surfaced as an error.
func (f *ArbeitnowFetcher) Fetch(ctx context.Context) ([]model.Posting, error) {
	var all []model.Posting
	for page := 1; page <= f.pages; page++ {
		pagePostings, err := retry.Do(ctx, f.policy, f.logger, f.Name(),
			func() ([]model.Posting, error) { return f.fetchPage(ctx, page) })
		if err != nil {
			if ctx.Err() != nil {
				return all, err
			}
			f.logger.Error("arbeitnow page failed after retries", "page", page, "error", err)
			break
		}
		if len(pagePostings) == 0 {
			f.logger.Info("no more jobs available from arbeitnow", "page", page)
			break
		}
		all = append(all, pagePostings...)
	}
	return all, nil
}

func (f *ArbeitnowFetcher) fetchPage(ctx context.Context, page int) ([]model.Posting, error) {
	url := fmt.Sprintf("%s?page=%d", f.baseURL, page)

	var resp arbeitnowResponse
	if err := getJSON(ctx, f.client, url, &resp); err != nil {
		return nil, fmt.Errorf("arbeitnow page %d: %w", page, err)
	}

	postings := make([]model.Posting, 0, len(resp.Data))
	for _, aj := range resp.Data {
		postedAt := aj.CreatedAt.t
		if postedAt == nil {
			now := time.Now()
			postedAt = &now
		}
		postings = append(postings, model.Posting{
			Title:       aj.Title,
			Company:     aj.CompanyName,
			Location:    aj.Location,
			URL:         aj.URL,
			Description: stripHTML(aj.Description),
			Source:      f.Name(),
			PostedAt:    postedAt,
		})
	}
	return postings, nil
}
