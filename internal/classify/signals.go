// Package classify scores postings for the entry-level decision: weighted
// keyword packs, regex and token experience signals, and the legacy
// include/exclude check, combined into one explainable verdict.
package classify

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/entryladder/entryladder/internal/model"
)

var (
	entryLevelYearsPattern = regexp.MustCompile(`(?i)\b0\s*[-–]?\s*1\s*(year|years|yr|yrs|rok|lata|jahr|jahre|año|años|an|ans)\b`)
	midLevelYearsPattern   = regexp.MustCompile(`(?i)\b(2)\s*[-–]?\s*3\s*(year|years|yr|yrs|rok|lata|jahr|jahre|año|años|an|ans)\b`)
	seniorYearsPattern     = regexp.MustCompile(`(?i)\b([3-9]|1[0-9])\+?\s*(year|years|yr|yrs|rok|lata|latach|jahr|jahre|año|años|an|ans)\b`)
)

var entryLevelTokens = map[string]struct{}{
	"internship": {}, "intern": {}, "trainee": {}, "apprentice": {},
	"stage": {}, "stagiaire": {}, "prácticas": {}, "becario": {},
	"praktikum": {}, "praktikant": {}, "ausbildung": {}, "einsteiger": {},
	"młodszy": {}, "staż": {}, "junior": {}, "graduate": {},
	"recién": {}, "debutant": {}, "débutant": {}, "bez": {},
	"doświadczenia": {},
}

var seniorTokens = map[string]struct{}{
	"senior": {}, "lead": {}, "manager": {}, "principal": {},
	"staff": {}, "leiter": {}, "gerente": {}, "kierownik": {},
	"experienced": {}, "doświadczony": {}, "experiencia": {},
	"expérimenté": {},
}

const (
	entryLevelTokenWeight = 4
	seniorTokenWeight     = -6
	entryLevelYearWeight  = 6
	// 2-3 years is not a senior requirement, but it has always carried a
	// negative weight under the senior-requirement type; kept as observed
	// behavior until the intent is clarified.
	midLevelYearWeight = -2
	seniorYearWeight   = -10
)

// ExtractSignals finds experience-level cues in text. The text is
// NFKD-decomposed, stripped of combining marks, and lowercased before
// matching. Regex matches are all reported, duplicates included; token
// matches are reported at most once per distinct token.
func ExtractSignals(text string, language model.Language) []model.ExperienceSignal {
	_ = language // signal vocabulary is multilingual, not per-language
	if strings.TrimSpace(text) == "" {
		return nil
	}

	normalized := normalizeText(text)
	var signals []model.ExperienceSignal

	signals = collectMatches(normalized, entryLevelYearsPattern, model.SignalEntryLevelHint, entryLevelYearWeight, signals)
	signals = collectMatches(normalized, midLevelYearsPattern, model.SignalSeniorRequirement, midLevelYearWeight, signals)
	signals = collectMatches(normalized, seniorYearsPattern, model.SignalSeniorRequirement, seniorYearWeight, signals)

	return appendTokenSignals(normalized, signals)
}

func collectMatches(text string, pattern *regexp.Regexp, typ model.SignalType, weight int, signals []model.ExperienceSignal) []model.ExperienceSignal {
	for _, match := range pattern.FindAllString(text, -1) {
		signals = append(signals, model.ExperienceSignal{
			Phrase: strings.TrimSpace(match),
			Type:   typ,
			Weight: weight,
		})
	}
	return signals
}

func appendTokenSignals(normalizedText string, signals []model.ExperienceSignal) []model.ExperienceSignal {
	tokens := strings.FieldsFunc(normalizedText, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	seen := make(map[string]struct{})
	for _, token := range tokens {
		if _, ok := entryLevelTokens[token]; ok {
			if _, dup := seen["entry:"+token]; !dup {
				seen["entry:"+token] = struct{}{}
				signals = append(signals, model.ExperienceSignal{
					Phrase: token,
					Type:   model.SignalEntryLevelHint,
					Weight: entryLevelTokenWeight,
				})
			}
			continue
		}
		if _, ok := seniorTokens[token]; ok {
			if _, dup := seen["senior:"+token]; !dup {
				seen["senior:"+token] = struct{}{}
				signals = append(signals, model.ExperienceSignal{
					Phrase: token,
					Type:   model.SignalSeniorRequirement,
					Weight: seniorTokenWeight,
				})
			}
		}
	}
	return signals
}

// normalizeText decomposes to NFKD, strips combining marks, and
// lowercases, so "Débutant" and "debutant" match the same way.
func normalizeText(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}
