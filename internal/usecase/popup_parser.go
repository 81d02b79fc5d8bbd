package usecase

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
)

const (
	anchorLines = 7
	seededLines = 6
	minLineLen  = 3
	maxLineLen  = 200
)

// PopupVocabulary holds the marker phrases of a product safety panel
type PopupVocabulary struct {
	// Markers anchor the supplier block on a line carrying a colon
	Markers []string
	// FallbackMarkers anchor it when no colon line exists
	FallbackMarkers []string
	// StopMarkers end the collected block
	StopMarkers []string
	// Chrome lists UI strings that never belong to the block
	Chrome []string
}

// DefaultPopupVocabulary returns the German/English panel vocabulary
func DefaultPopupVocabulary() PopupVocabulary {
	return PopupVocabulary{
		Markers: []string{
			"wirtschaftsakteur", "economic operator", "responsible person",
			"verantwortliche person", "located in the eu", "in der eu",
		},
		FallbackMarkers: []string{
			"located in the eu", "in der eu befindet", "in der eu angesiedelt",
			"the economic operator responsible", "der wirtschaftsakteur",
			"verantwortliche person", "responsible person for the eu",
			"responsible", "verantwortlich",
		},
		StopMarkers: []string{
			"you can also find", "sie finden", "sie können",
			"important information", "wichtige informationen",
			"report legal", "rechtliche bedenken",
			"return instruction", "rücksendeh",
			"disposal instruction", "entsorgungsh",
			"details on product", "details zur produkt",
			"discover another", "entdecke",
			"interesting alternative", "interessante alternative",
			"purchase on account", "kauf auf rechnung",
			"30-day", "30 tage",
			"https://", "http://",
			"attention:", "achtung:",
		},
		Chrome: []string{
			"×", "X", "Close", "Schließen", "OK",
			"Details zur Produktsicherheit", "Details on product safety",
			"Angaben zur Produktsicherheit", "Product safety details", "Produktsicherheit",
		},
	}
}

// PopupParser isolates the responsible party from a product safety panel text
type PopupParser struct {
	vocab       PopupVocabulary
	chrome      map[string]bool
	markerColon *regexp.Regexp
	logger      zerolog.Logger
}

// NewPopupParser creates a parser over the given vocabulary
func NewPopupParser(vocab PopupVocabulary, logger zerolog.Logger) *PopupParser {
	chrome := make(map[string]bool, len(vocab.Chrome))
	for _, c := range vocab.Chrome {
		chrome[c] = true
	}
	quoted := make([]string, len(vocab.Markers))
	for i, m := range vocab.Markers {
		quoted[i] = regexp.QuoteMeta(m)
	}
	return &PopupParser{
		vocab:       vocab,
		chrome:      chrome,
		markerColon: regexp.MustCompile(`(?i)(?:` + strings.Join(quoted, "|") + `)[^:]*:\s*(.*)$`),
		logger:      logger.With().Str("component", "popup_parser").Logger(),
	}
}

// Parse returns the supplier identity found in text, or "" when no anchor line exists
func (p *PopupParser) Parse(text string) string {
	lines := nonEmptyLines(text)

	start, seed, limit := p.findAnchor(lines)
	if start < 0 {
		start = p.findFallbackAnchor(lines)
		limit = seededLines
	}
	if start < 0 {
		p.logger.Debug().Int("lines", len(lines)).Msg("no supplier anchor in panel")
		return ""
	}

	var collected []string
	if seed != "" {
		collected = append(collected, seed)
	}
	for _, line := range following(lines, start, limit) {
		ll := strings.ToLower(line)
		if containsAny(ll, p.vocab.StopMarkers) {
			break
		}
		if p.isJunk(line) {
			continue
		}
		collected = append(collected, line)
	}

	result := collapseSpaces(strings.Join(collected, " "))
	p.logger.Debug().Int("anchor", start).Str("supplier", result).Msg("parsed panel")
	return result
}

// findAnchor looks for a marker line ending in a colon, or a marker followed
// by a colon and the start of the value on the same line
func (p *PopupParser) findAnchor(lines []string) (index int, seed string, limit int) {
	for i, line := range lines {
		ll := strings.ToLower(line)
		if !containsAny(ll, p.vocab.Markers) {
			continue
		}
		if strings.HasSuffix(ll, ":") {
			return i, "", anchorLines
		}
		if m := p.markerColon.FindStringSubmatch(line); m != nil {
			if tail := strings.TrimSpace(m[1]); utf8.RuneCountInString(tail) >= minLineLen {
				return i, tail, seededLines
			}
		}
	}
	return -1, "", 0
}

func (p *PopupParser) findFallbackAnchor(lines []string) int {
	for i, line := range lines {
		ll := strings.ToLower(line)
		if containsAny(ll, p.vocab.FallbackMarkers) {
			return i
		}
	}
	return -1
}

// isJunk flags lines too short or long to be an address part, UI chrome, and
// repeated marker lines
func (p *PopupParser) isJunk(line string) bool {
	n := utf8.RuneCountInString(line)
	if n < minLineLen || n > maxLineLen {
		return true
	}
	if p.chrome[line] {
		return true
	}
	return containsAny(strings.ToLower(line), p.vocab.Markers)
}
