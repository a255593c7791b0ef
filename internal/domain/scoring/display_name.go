package scoring

import (
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// formFactorWords are dropped from display names; they describe the audit
// device, not the page.
var formFactorWords = map[string]bool{
	"mobile":  true,
	"desktop": true,
}

// DisplayName derives a human-readable page name from a report filename
// fragment, e.g. "vente rapide-mobile" -> "Vente Rapide" and
// "venterapide2" -> "Venterapide". The fragment is returned unchanged when
// nothing usable remains.
func DisplayName(fragment string) string {
	fields := strings.FieldsFunc(fragment, func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || unicode.IsSpace(r)
	})

	var words []string
	for _, f := range fields {
		for _, w := range camelcase.Split(f) {
			if isDigits(w) || formFactorWords[strings.ToLower(w)] {
				continue
			}
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return fragment
	}

	// Casers are stateful, so one per call.
	return cases.Title(language.Und).String(strings.Join(words, " "))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
