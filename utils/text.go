package utils

import (
	"strings"

	"github.com/gosimple/unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LowerES lowercases with Spanish casing rules. Accents are kept. A Caser
// holds state, so each call builds its own.
func LowerES(s string) string {
	return cases.Lower(language.Spanish).String(s)
}

// Fold lowercases and strips accents so "Cámara" matches "camara".
func Fold(s string) string {
	return strings.ToLower(unidecode.Unidecode(s))
}

// Truncate cuts s to n runes, appending "..." when something was cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
