package usecase

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Supplier label vocabularies. Labels "after" precede the address,
// labels "before" follow it.
var (
	supplierLabelsAfter = []string{
		"Supplier information", "Lieferanteninformation",
		"Anschrift des Lieferanten", "Supplier's address", "Supplier address",
	}
	supplierLabelsBefore = []string{
		"Supplier's address", "Supplier address", "Lieferant", "Supplier",
	}
	guaranteePhrases = []string{
		"Minimum duration of the guarantee offered by the supplier",
		"Mindestdauer der vom Lieferanten angebotenen Garantie",
	}
	supplierBoilerplate = []string{
		"steuern", "weitere angaben", "self-repair", "spare-parts", "search-detail",
	}
	sectionHeadings = []string{
		"product information sheet", "produktdatenblatt",
		"additional information", "repairability", "angaben zur reparierbarkeit",
	}
)

const (
	blockAfterLines  = 5
	blockBeforeLines = 4
	inlineValueLines = 5
	tableValueLines  = 4
)

// Package-level compiled regex patterns for supplier extraction
var (
	inlineAfterPattern   = regexp.MustCompile(`(?is)anschrift\s+des\s+lieferanten\s*(?:\([a-z]\)\s*)*:?\s*(.+)`)
	addressTablePattern  = regexp.MustCompile(`(?i)supplier['’]?s?\s*address\s*(?:\([a-z]\)\s*)*(.+)`)
	annotationOnlyRegex  = regexp.MustCompile(`(?i)^(?:\([a-z]\)\s*)+$`)
	annotationStartRegex = regexp.MustCompile(`(?i)^\([a-z]\)\s`)
	bareAnnotationRegex  = regexp.MustCompile(`(?i)^\([a-z]\)\s*$`)
	numberedSectionRegex = regexp.MustCompile(`^\d+\.`)

	leadingAnnotations  = regexp.MustCompile(`(?i)^(?:\s*\([a-z]\)\s*)+`)
	leadingLabel        = regexp.MustCompile(`(?i)^(?:supplier information|lieferanteninformation|anschrift des lieferanten|supplier'?s? address)\s*`)
	restatedAddress     = regexp.MustCompile(`(?i)\bsupplier\s*'?s?\s*address.*$`)
	restatedAnschrift   = regexp.MustCompile(`(?i)\banschrift des lieferanten.*$`)
	trailingAnnotations = regexp.MustCompile(`(?i)\s*(?:\([a-z]\)\s*)+\s*$`)
	cleanupHeadings     = regexp.MustCompile(`(?i)produktdatenblatt|product information sheet|additional information|angaben zur reparierbarkeit`)
	trailingSection     = regexp.MustCompile(`\d{1,2}\.\s+.+$`)
	gluedWords          = regexp.MustCompile(`([a-z])([A-Z])`)
	gluedLetterDigit    = regexp.MustCompile(`([A-Za-z])(\d)`)
	gluedDigitLetter    = regexp.MustCompile(`(\d)([A-Za-z])`)
	urlRegex            = regexp.MustCompile(`https?://\S+`)
	trailingTaxes       = regexp.MustCompile(`(?i)\bsteuern\b.*$`)
	trailingMoreInfo    = regexp.MustCompile(`(?i)\bweitere angaben\b.*$`)

	// mixedCaseWords rejoins legal forms and names the glue split tears apart
	mixedCaseWords = strings.NewReplacer("Gmb H", "GmbH", "KGa A", "KGaA", "i Phone", "iPhone", "i Pad", "iPad")
)

// supplierStrategies returns the supplier chain in priority order.
// Each strategy's raw value must pass isValidSupplier and survive cleanup.
func supplierStrategies() []fieldStrategy {
	raw := []func(string) string{
		inlineAfterLabel,
		addressTable,
		func(t string) string { return blockAfter(t, supplierLabelsAfter, blockAfterLines) },
		func(t string) string { return blockAfter(t, guaranteePhrases, blockAfterLines) },
		func(t string) string { return blockBefore(t, supplierLabelsBefore, blockBeforeLines) },
		func(t string) string {
			v, _ := labeledValue(t, append(append([]string{}, supplierLabelsAfter...), supplierLabelsBefore...), nil)
			return v
		},
	}

	chain := make([]fieldStrategy, 0, len(raw))
	for _, find := range raw {
		chain = append(chain, func(text string) (string, bool) {
			v := find(text)
			if !isValidSupplier(v) {
				return "", false
			}
			v = CleanSupplier(v)
			return v, v != ""
		})
	}
	return chain
}

// inlineAfterLabel reads the value running on after "Anschrift des Lieferanten",
// with or without a line break, capped to a few lines
func inlineAfterLabel(text string) string {
	m := inlineAfterPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	lines := nonEmptyLines(m[1])
	if len(lines) > inlineValueLines {
		lines = lines[:inlineValueLines]
	}
	return strings.Join(lines, " ")
}

// addressTable handles the two column layout where "Supplier's address (a) (b)"
// is followed by the company on the same line or on the next lines
func addressTable(text string) string {
	lines := nonEmptyLines(text)
	for i, line := range lines {
		ll := strings.ToLower(line)
		if !strings.Contains(ll, "supplier") || !strings.Contains(ll, "address") {
			continue
		}

		if m := addressTablePattern.FindStringSubmatch(line); m != nil {
			val := strings.TrimSpace(m[1])
			if utf8.RuneCountInString(val) > 5 && !strings.HasPrefix(val, "(") {
				collected := []string{val}
				for _, next := range following(lines, i, tableValueLines) {
					if isHeading(next) || strings.HasPrefix(next, "(") || utf8.RuneCountInString(next) < 3 {
						break
					}
					collected = append(collected, next)
				}
				return strings.Join(collected, " ")
			}
		}

		var collected []string
		for _, next := range following(lines, i, tableValueLines) {
			if isHeading(next) || annotationStartRegex.MatchString(next) {
				break
			}
			if isAnnotation(next) {
				continue
			}
			collected = append(collected, next)
		}
		if len(collected) > 0 {
			return strings.Join(collected, " ")
		}
	}
	return ""
}

// blockAfter collects up to limit lines following the first line containing an anchor
func blockAfter(text string, anchors []string, limit int) string {
	lines := nonEmptyLines(text)
	for _, a := range anchors {
		al := strings.ToLower(a)
		for i, line := range lines {
			if !strings.Contains(strings.ToLower(line), al) {
				continue
			}
			var collected []string
			for _, next := range following(lines, i, limit) {
				if bareAnnotationRegex.MatchString(next) ||
					numberedSectionRegex.MatchString(next) ||
					strings.HasPrefix(next, "(") ||
					isHeading(next) {
					break
				}
				if isAnnotation(next) {
					continue
				}
				collected = append(collected, next)
			}
			if len(collected) > 0 {
				return strings.Join(collected, " ")
			}
		}
	}
	return ""
}

// blockBefore collects up to limit lines preceding the first line containing a label
func blockBefore(text string, labels []string, limit int) string {
	lines := nonEmptyLines(text)
	for _, l := range labels {
		ll := strings.ToLower(l)
		for i, line := range lines {
			if !strings.Contains(strings.ToLower(line), ll) {
				continue
			}
			var collected []string
			for j := i - 1; j >= 0 && j >= i-limit; j-- {
				if numberedSectionRegex.MatchString(lines[j]) || isHeading(lines[j]) {
					break
				}
				if isAnnotation(lines[j]) {
					continue
				}
				collected = append(collected, lines[j])
			}
			if len(collected) > 0 {
				for a, b := 0, len(collected)-1; a < b; a, b = a+1, b-1 {
					collected[a], collected[b] = collected[b], collected[a]
				}
				return strings.Join(collected, " ")
			}
		}
	}
	return ""
}

// following returns up to n lines after index i
func following(lines []string, i, n int) []string {
	return window(lines, i, n)
}

// isAnnotation reports empty lines, one or two character fragments and lines
// made only of "(a) (b)" markers
func isAnnotation(line string) bool {
	s := strings.TrimSpace(line)
	return utf8.RuneCountInString(s) <= 2 || annotationOnlyRegex.MatchString(s)
}

func isHeading(line string) bool {
	return containsAny(strings.ToLower(line), sectionHeadings)
}

// isValidSupplier rejects short values and values carrying page boilerplate
func isValidSupplier(v string) bool {
	if utf8.RuneCountInString(strings.TrimSpace(v)) < 5 {
		return false
	}
	if containsAny(strings.ToLower(v), supplierBoilerplate) {
		return false
	}
	letters := 0
	for _, r := range v {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters >= 5
}

// CleanSupplier strips annotation markers, restated labels, trailing sections,
// and URLs from a supplier value, and re-separates glued words.
func CleanSupplier(v string) string {
	t := strings.ReplaceAll(strings.TrimSpace(v), "’", "'")
	t = leadingAnnotations.ReplaceAllString(t, "")
	t = leadingLabel.ReplaceAllString(t, "")
	t = restatedAddress.ReplaceAllString(t, "")
	t = restatedAnschrift.ReplaceAllString(t, "")
	t = trailingAnnotations.ReplaceAllString(t, "")
	if loc := cleanupHeadings.FindStringIndex(t); loc != nil {
		t = strings.TrimSpace(t[:loc[0]])
	}
	t = strings.TrimSpace(trailingSection.ReplaceAllString(t, ""))

	t = mixedCaseWords.Replace(gluedWords.ReplaceAllString(t, "$1 $2"))
	t = gluedLetterDigit.ReplaceAllString(t, "$1 $2")
	t = gluedDigitLetter.ReplaceAllString(t, "$1 $2")

	t = urlRegex.ReplaceAllString(t, "")
	t = trailingTaxes.ReplaceAllString(t, "")
	t = trailingMoreInfo.ReplaceAllString(t, "")
	return collapseSpaces(t)
}
