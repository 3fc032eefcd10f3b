package classify

import (
	"io"
	"log/slog"
	"testing"

	"github.com/entryladder/entryladder/internal/lang"
	"github.com/entryladder/entryladder/internal/model"
)

func newTestClassifier() *Classifier {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewClassifier(lang.NewDetector(), logger)
}

func TestClassify_JuniorPostingAccepted(t *testing.T) {
	c := newTestClassifier()
	score := c.Classify(model.Posting{
		Title:       "Junior Developer",
		Description: "No experience needed, we will train you on the job",
	})

	if !score.EntryLevel {
		t.Fatalf("verdict = false, want entry level: %+v", score)
	}
	if score.Language != model.LanguageEN {
		t.Fatalf("language = %q, want en", score.Language)
	}
	if score.KeywordScore < scoreThreshold {
		t.Fatalf("keyword score = %d, want at least %d", score.KeywordScore, scoreThreshold)
	}
	if !score.LegacyInclude || score.LegacyExclude {
		t.Fatalf("legacy flags include=%v exclude=%v", score.LegacyInclude, score.LegacyExclude)
	}
	if len(score.PositiveKeywords) == 0 {
		t.Fatal("no positive keyword provenance recorded")
	}
}

func TestClassify_SeniorPostingRejected(t *testing.T) {
	c := newTestClassifier()
	score := c.Classify(model.Posting{
		Title:       "Senior Engineering Manager",
		Description: "We require 5+ years of leadership experience in software teams",
	})

	if score.EntryLevel {
		t.Fatalf("verdict = true, want rejection: %+v", score)
	}
	if score.TotalScore >= scoreThreshold {
		t.Fatalf("total score = %d, want below %d", score.TotalScore, scoreThreshold)
	}
	if !score.LegacyExclude {
		t.Fatal("legacy exclude did not fire on senior/manager/5+ years")
	}
	if len(score.NegativeKeywords) == 0 {
		t.Fatal("no negative keyword provenance recorded")
	}
}

func TestClassify_LegacyIncludeRescuesLowScore(t *testing.T) {
	c := newTestClassifier()
	score := c.Classify(model.Posting{
		Title:       "Apprentice Electrician",
		Description: "Paid apprenticeship position in our workshop",
	})

	if score.TotalScore >= scoreThreshold {
		t.Fatalf("total score = %d, expected the keyword path alone to fall short", score.TotalScore)
	}
	if !score.LegacyInclude {
		t.Fatal("legacy include did not match apprentice")
	}
	if !score.EntryLevel {
		t.Fatal("legacy include without exclude should accept regardless of score")
	}
}

func TestClassify_LegacyExcludeBlocksInclude(t *testing.T) {
	c := newTestClassifier()
	score := c.Classify(model.Posting{
		Title:       "Junior to Mid-Level Developer",
		Description: "3+ years of experience required for this role",
	})

	if !score.LegacyInclude || !score.LegacyExclude {
		t.Fatalf("legacy flags include=%v exclude=%v, want both", score.LegacyInclude, score.LegacyExclude)
	}
	if score.EntryLevel {
		t.Fatalf("verdict = true, want rejection once exclude fires and score stays low: %+v", score)
	}
}

func TestClassify_ScoreThresholdWithoutLegacyMatch(t *testing.T) {
	c := newTestClassifier()
	score := c.Classify(model.Posting{
		Title:       "Młodszy programista",
		Description: "Praca dla osoby bez doświadczenia, oferujemy pełne szkolenie i wsparcie zespołu",
	})

	if score.Language != model.LanguagePL {
		t.Fatalf("language = %q, want pl", score.Language)
	}
	if score.LegacyInclude {
		t.Fatal("legacy list is English-only and should not match")
	}
	if score.TotalScore < scoreThreshold {
		t.Fatalf("total score = %d, want at least %d from the Polish pack", score.TotalScore, scoreThreshold)
	}
	if !score.EntryLevel {
		t.Fatal("threshold path should accept without a legacy match")
	}
}

func TestAnnotate_AttachesProvenanceToEveryPosting(t *testing.T) {
	c := newTestClassifier()
	postings := []model.Posting{
		{Title: "Junior Developer", Description: "No experience needed"},
		{Title: "Senior Staff Engineer", Description: "10+ years of experience required"},
	}

	c.Annotate(postings)

	for _, p := range postings {
		if p.Classification == nil {
			t.Fatalf("posting %q has no classification after Annotate", p.Title)
		}
	}
	if !postings[0].Classification.EntryLevel {
		t.Fatalf("junior posting verdict = false: %+v", postings[0].Classification)
	}
	// Negative verdicts keep their provenance too; read paths show both.
	if postings[1].Classification.EntryLevel {
		t.Fatalf("senior posting verdict = true: %+v", postings[1].Classification)
	}
	if len(postings[1].Classification.NegativeKeywords) == 0 {
		t.Fatal("senior posting lost its negative keyword provenance")
	}
}

func TestFilterEntryLevel(t *testing.T) {
	c := newTestClassifier()
	postings := []model.Posting{
		{Title: "Junior Developer", Description: "No experience needed"},
		{Title: "Senior Staff Engineer", Description: "10+ years of experience required"},
		{Title: "Graduate Software Engineer", Description: "Recent graduate programme, full training provided"},
	}

	kept := c.FilterEntryLevel(postings)
	if len(kept) != 2 {
		t.Fatalf("kept %d postings, want 2", len(kept))
	}
	for _, p := range kept {
		if p.Classification == nil {
			t.Fatalf("kept posting %q has no classification attached", p.Title)
		}
		if !p.Classification.EntryLevel {
			t.Fatalf("kept posting %q carries a negative verdict", p.Title)
		}
	}
	if kept[0].Title != "Junior Developer" || kept[1].Title != "Graduate Software Engineer" {
		t.Fatalf("kept wrong postings: %+v", kept)
	}
}
