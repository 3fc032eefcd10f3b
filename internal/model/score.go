package model

// Language is one of the closed set of languages the classifier supports.
type Language string

const (
	LanguageEN Language = "EN"
	LanguagePL Language = "PL"
	LanguageDE Language = "DE"
	LanguageES Language = "ES"
	LanguageFR Language = "FR"
)

// SignalType tags an experience signal as pointing toward or away from
// entry-level.
type SignalType string

const (
	SignalEntryLevelHint    SignalType = "ENTRY_LEVEL_HINT"
	SignalSeniorRequirement SignalType = "SENIOR_REQUIREMENT"
)

// ExperienceSignal is a single experience-level cue found in posting text.
type ExperienceSignal struct {
	Phrase string
	Type   SignalType
	Weight int
}

// ClassificationScore carries the full provenance of one entry-level
// decision: which language was detected, which keywords and signals fired,
// and every intermediate sub-score, not just the final boolean.
type ClassificationScore struct {
	Language         Language
	KeywordScore     int
	ExperienceScore  int
	TotalScore       int
	LegacyInclude    bool
	LegacyExclude    bool
	EntryLevel       bool
	PositiveKeywords []string
	NegativeKeywords []string
	Signals          []ExperienceSignal
}
