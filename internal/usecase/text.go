package usecase

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Package-level compiled regex patterns for canonicalization
var (
	letterDigitBoundary = regexp.MustCompile(`([a-zäöüß])(\d)`)
	digitLetterBoundary = regexp.MustCompile(`(\d)([a-zäöüß])`)
	nonWordRun          = regexp.MustCompile(`[^a-z0-9äöüß]+`)
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes free text for matching: lowercase, a space at every
// letter/digit boundary ("flip7" -> "flip 7", "128gb" -> "128 gb"), and every
// run of other characters collapsed to one space. German letters are kept.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = strings.ToLower(norm.NFC.String(s))
	s = letterDigitBoundary.ReplaceAllString(s, "$1 $2")
	s = digitLetterBoundary.ReplaceAllString(s, "$1 $2")
	s = nonWordRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// containsWord reports whether word occurs as a whole word in normalized text.
// word may span several tokens ("mac mini").
func containsWord(text, word string) bool {
	if word == "" {
		return false
	}
	return strings.Contains(" "+text+" ", " "+word+" ")
}

// containsAny reports whether any needle is a substring of s
func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// collapseSpaces trims s and collapses internal whitespace runs
func collapseSpaces(s string) string {
	return strings.TrimSpace(multipleSpacesRegex.ReplaceAllString(s, " "))
}

// nonEmptyLines splits text into trimmed, non-empty lines
func nonEmptyLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// isOneOrTwoDigits reports whether s is a standalone 1-2 digit number
func isOneOrTwoDigits(s string) bool {
	if len(s) == 0 || len(s) > 2 {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
