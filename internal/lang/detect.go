// Package lang provides natural-language detection over the supported set
// and the static per-language keyword packs used for scoring.
package lang

import (
	"strings"

	"github.com/pemistahl/lingua-go"

	"github.com/entryladder/entryladder/internal/model"
)

// Detector wraps a lingua detector restricted to the supported languages.
// The model is built once; detection itself is a pure function of the
// input text.
type Detector struct {
	detector lingua.LanguageDetector
}

func NewDetector() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(
				lingua.English,
				lingua.Polish,
				lingua.German,
				lingua.Spanish,
				lingua.French,
			).
			Build(),
	}
}

// Detect classifies the dominant language of text. Blank input or a
// failed detection defaults to English.
func (d *Detector) Detect(text string) model.Language {
	if strings.TrimSpace(text) == "" {
		return model.LanguageEN
	}
	detected, ok := d.detector.DetectLanguageOf(text)
	if !ok {
		return model.LanguageEN
	}
	switch detected {
	case lingua.Polish:
		return model.LanguagePL
	case lingua.German:
		return model.LanguageDE
	case lingua.Spanish:
		return model.LanguageES
	case lingua.French:
		return model.LanguageFR
	default:
		return model.LanguageEN
	}
}
