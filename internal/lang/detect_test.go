package lang

import (
	"testing"

	"github.com/entryladder/entryladder/internal/model"
)

func TestDetect(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name string
		text string
		want model.Language
	}{
		{"blank defaults to english", "   ", model.LanguageEN},
		{"english", "We are looking for a junior software developer to join our growing engineering team", model.LanguageEN},
		{"polish", "Poszukujemy młodszego programisty do naszego zespołu inżynierskiego w Warszawie", model.LanguagePL},
		{"german", "Wir suchen einen Praktikanten für unser Entwicklungsteam in Berlin, keine Erfahrung notwendig", model.LanguageDE},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.Detect(tt.text); got != tt.want {
				t.Fatalf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
