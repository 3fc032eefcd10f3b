package lang

import (
	"sort"
	"strings"

	"github.com/entryladder/entryladder/internal/model"
)

// Pack holds one language's keyword→weight tables. Positive weights
// indicate entry-level terms, negative weights seniority terms.
type Pack struct {
	Positive map[string]int
	Negative map[string]int
}

// packs is static data loaded once at process start; treat as read-only.
var packs = map[model.Language]Pack{
	model.LanguageEN: {
		Positive: map[string]int{
			"junior": 4, "entry level": 5,
			"intern": 6, "trainee": 5,
			"graduate": 4, "no experience": 7,
			"0-1 year": 8, "recent graduate": 6,
		},
		Negative: map[string]int{
			"senior": -8, "lead": -8,
			"manager": -7, "3+ years": -8,
			"5+ years": -12, "experienced": -6,
		},
	},
	model.LanguagePL: {
		Positive: map[string]int{
			"junior": 5, "młodszy": 5,
			"praktykant": 7, "staż": 7,
			"bez doświadczenia": 8,
			"0-1 rok": 8, "absolwent": 6,
		},
		Negative: map[string]int{
			"senior": -9, "starszy": -9,
			"kierownik": -7, "3+ lata": -8,
			"doświadczony": -7,
		},
	},
	model.LanguageDE: {
		Positive: map[string]int{
			"junior": 5, "einsteiger": 6,
			"praktikum": 7, "praktikant": 7,
			"ausbildung": 7, "0-1 jahr": 8,
		},
		Negative: map[string]int{
			"senior": -9, "leiter": -8,
			"3+ jahre": -8, "mehrjährige": -8,
		},
	},
	model.LanguageES: {
		Positive: map[string]int{
			"junior": 5, "prácticas": 7,
			"becario": 7, "sin experiencia": 8,
			"0-1 año": 8, "recién graduado": 6,
		},
		Negative: map[string]int{
			"senior": -9, "gerente": -8,
			"3+ años": -8, "experiencia mínima": -7,
		},
	},
	model.LanguageFR: {
		Positive: map[string]int{
			"junior": 5, "stage": 7,
			"stagiaire": 7, "débutant": 6,
			"sans expérience": 8, "0-1 an": 8,
		},
		Negative: map[string]int{
			"senior": -9, "manager": -8,
			"3+ ans": -8, "expérimenté": -7,
		},
	},
}

// PackFor returns the keyword pack for a language, defaulting to the
// English pack when the language has no pack of its own.
func PackFor(l model.Language) Pack {
	if p, ok := packs[l]; ok {
		return p
	}
	return packs[model.LanguageEN]
}

// Score matches every keyword in both tables against normalizedText
// (case-insensitive substring containment; the caller lowercases) and sums
// the weight of each matched keyword once per call. Matched keywords are
// reported in sorted order so provenance lists are stable across runs.
func (p Pack) Score(normalizedText string) (score int, positive, negative []string) {
	score += accumulate(normalizedText, p.Positive, &positive)
	score += accumulate(normalizedText, p.Negative, &negative)
	return score, positive, negative
}

func accumulate(normalizedText string, keywords map[string]int, hits *[]string) int {
	sortedKeys := make([]string, 0, len(keywords))
	for k := range keywords {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Strings(sortedKeys)

	score := 0
	for _, keyword := range sortedKeys {
		if strings.Contains(normalizedText, strings.ToLower(keyword)) {
			*hits = append(*hits, keyword)
			score += keywords[keyword]
		}
	}
	return score
}
