// Package judge canonicalizes learner input and reference answers and
// decides whether a submission is correct.
package judge

import (
	"strings"

	"golang.org/x/text/width"

	"eitango-quiz-service/internal/domain"
)

// isAlternativeDelimiter matches the characters that may separate multiple
// acceptable reference answers, e.g. "走る／はしる".
func isAlternativeDelimiter(r rune) bool {
	switch r {
	case '／', '/', ',', '，', '、', '・':
		return true
	}
	return false
}

// FoldWidth maps full-width/half-width compatibility variants to their
// canonical width: wide ASCII becomes narrow, half-width katakana becomes
// full-width katakana.
func FoldWidth(s string) string {
	return width.Fold.String(s)
}

// FoldSpaces collapses any run of whitespace to a single space and trims
// leading and trailing space.
func FoldSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Hiragana rewrites katakana runes to their hiragana counterparts so that
// either syllabary of the same reading compares equal.
func Hiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ァ' && r <= 'ヶ' {
			return r - 0x60
		}
		return r
	}, s)
}

// NormalizeEnglish canonicalizes an English-side answer. Nothing here can
// fail; an absent answer normalizes to the empty string.
func NormalizeEnglish(s string) string {
	return FoldSpaces(FoldWidth(s))
}

// NormalizeJapanese canonicalizes a Japanese-side answer, additionally
// folding katakana to hiragana.
func NormalizeJapanese(s string) string {
	return Hiragana(FoldSpaces(FoldWidth(s)))
}

// Alternatives splits a Japanese reference string into its acceptable
// normalized answers. Alternatives that normalize to the empty string are
// dropped so that a blank submission can never match.
func Alternatives(reference string) []string {
	parts := strings.FieldsFunc(reference, isAlternativeDelimiter)
	alts := make([]string, 0, len(parts))
	for _, p := range parts {
		if n := NormalizeJapanese(p); n != "" {
			alts = append(alts, n)
		}
	}
	return alts
}

// Correct judges a submission against a word for the given mode. An input
// that normalizes to the empty string is never correct.
func Correct(mode domain.Mode, given string, item domain.WordItem) bool {
	if mode == domain.ModeJaToEn {
		g := NormalizeEnglish(given)
		return g != "" && g == NormalizeEnglish(item.English)
	}

	g := NormalizeJapanese(given)
	if g == "" {
		return false
	}
	reference := item.JapaneseKana
	if reference == "" {
		reference = item.Japanese
	}
	for _, alt := range Alternatives(reference) {
		if g == alt {
			return true
		}
	}
	return false
}
