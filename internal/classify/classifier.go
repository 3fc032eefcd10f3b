package classify

import (
	"log/slog"
	"strings"

	"github.com/entryladder/entryladder/internal/lang"
	"github.com/entryladder/entryladder/internal/model"
)

// Legacy include/exclude lists from the pre-multilingual version, kept for
// backward compatibility. Language-agnostic, English only.
var legacyIncludeKeywords = []string{
	"entry level", "entry-level", "junior", "trainee", "intern",
	"graduate", "no experience", "0–1 years", "0 - 1 years",
	"apprentice", "newly graduated",
}

var legacyExcludeKeywords = []string{
	"3+ years", "4+ years", "5+ years", "senior", "lead",
	"manager", "mid-level", "mid level", "experienced", "professional",
}

const scoreThreshold = 6

// Classifier combines keyword-pack scoring, experience signals, and the
// legacy keyword check into a single entry-level decision with full
// provenance.
type Classifier struct {
	detector *lang.Detector
	logger   *slog.Logger
}

func NewClassifier(detector *lang.Detector, logger *slog.Logger) *Classifier {
	return &Classifier{detector: detector, logger: logger}
}

// Classify scores a single posting. The verdict is true iff the legacy
// include list matches without an exclude match, or the combined score
// reaches the threshold. Every intermediate value is retained in the
// returned score.
func (c *Classifier) Classify(p model.Posting) model.ClassificationScore {
	searchText := strings.TrimSpace(p.Title + " " + p.Description)
	normalized := strings.ToLower(searchText)

	language := c.detector.Detect(searchText)
	pack := lang.PackFor(language)
	keywordScore, positiveHits, negativeHits := pack.Score(normalized)

	signals := ExtractSignals(searchText, language)
	experienceScore := 0
	for _, s := range signals {
		experienceScore += s.Weight
	}

	legacyInclude := containsAny(normalized, legacyIncludeKeywords)
	legacyExclude := containsAny(normalized, legacyExcludeKeywords)

	totalScore := keywordScore + experienceScore
	entryLevel := (legacyInclude && !legacyExclude) || totalScore >= scoreThreshold

	return model.ClassificationScore{
		Language:         language,
		KeywordScore:     keywordScore,
		ExperienceScore:  experienceScore,
		TotalScore:       totalScore,
		LegacyInclude:    legacyInclude,
		LegacyExclude:    legacyExclude,
		EntryLevel:       entryLevel,
		PositiveKeywords: positiveHits,
		NegativeKeywords: negativeHits,
		Signals:          signals,
	}
}

// Annotate classifies every posting in place, attaching the score whatever
// the verdict. Stored postings carry no classification, so read paths call
// this to rebuild the provenance before display.
func (c *Classifier) Annotate(postings []model.Posting) {
	for i := range postings {
		sc := c.Classify(postings[i])
		postings[i].Classification = &sc
	}
}

// FilterEntryLevel classifies every posting and keeps the positive ones,
// each with its classification attached for callers that want to see why.
func (c *Classifier) FilterEntryLevel(postings []model.Posting) []model.Posting {
	var kept []model.Posting
	for _, p := range postings {
		score := c.Classify(p)
		if score.EntryLevel {
			sc := score
			p.Classification = &sc
			kept = append(kept, p)
			c.logger.Debug("passed entry-level filter",
				"title", p.Title,
				"company", p.Company,
				"source", p.Source,
				"language", string(score.Language),
				"total_score", score.TotalScore,
				"positive", score.PositiveKeywords,
				"negative", score.NegativeKeywords,
			)
		} else {
			c.logger.Debug("filtered out",
				"title", p.Title,
				"language", string(score.Language),
				"total_score", score.TotalScore,
				"legacy_include", score.LegacyInclude,
				"legacy_exclude", score.LegacyExclude,
			)
		}
	}

	c.logger.Info("entry-level filter complete", "kept", len(kept), "total", len(postings))
	return kept
}

func containsAny(normalizedText string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(normalizedText, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
