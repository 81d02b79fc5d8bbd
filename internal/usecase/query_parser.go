package usecase

import (
	"regexp"
	"strings"

	"github.com/productscout/backend/internal/domain"
	"github.com/rs/zerolog"
)

// Compiled regex patterns for sub-family and fallback model extraction.
// They run on normalized text, so "flip7" has already become "flip 7".
var (
	foldableSubFamilyPattern = regexp.MustCompile(`galaxy\s+(?:z\s+)?(flip|fold)\s*\d`)
	seriesSubFamilyPattern   = regexp.MustCompile(`galaxy\s+(s|a|m|note)\s*\d`)
	standaloneModelPattern   = regexp.MustCompile(`\b(\d{1,2})\b`)
)

// QueryParser turns raw product queries into QueryInfo
type QueryParser struct {
	vocab  Vocabulary
	logger zerolog.Logger
}

// NewQueryParser creates a parser over the given vocabulary
func NewQueryParser(vocab Vocabulary, logger zerolog.Logger) *QueryParser {
	return &QueryParser{
		vocab:  vocab,
		logger: logger.With().Str("component", "query_parser").Logger(),
	}
}

// Parse derives the structured intent of a query
func (p *QueryParser) Parse(query string) domain.QueryInfo {
	qn := Normalize(query)
	brand := DetectBrand(qn)

	info := domain.QueryInfo{
		Raw:           query,
		Norm:          qn,
		Brand:         brand,
		BrandName:     brand.String(),
		ProductLine:   extractProductLine(qn, brand),
		ModelNumber:   extractModel(qn, brand),
		VariantTokens: p.extractVariants(qn),
		SearchTokens:  p.Tokenize(qn),
	}
	if brand == domain.BrandSamsung {
		info.SubFamily = extractSubFamily(qn)
	}

	p.logger.Debug().
		Str("query", query).
		Str("brand", info.BrandName).
		Str("line", info.ProductLine).
		Str("sub", info.SubFamily).
		Str("model", info.ModelNumber).
		Strs("variants", info.VariantTokens).
		Strs("tokens", info.SearchTokens).
		Msg("parsed query")

	return info
}

// DetectBrand returns the first catalog brand whose name is a substring of the
// normalized query or whose product line occurs as a whole word.
func DetectBrand(qn string) domain.Brand {
	for _, b := range domain.Brands() {
		if strings.Contains(qn, b.String()) {
			return b
		}
		for _, line := range b.ProductLines() {
			if containsWord(qn, line) {
				return b
			}
		}
	}
	return domain.BrandUnknown
}

// extractProductLine returns the first of the brand's lines found as a whole word
func extractProductLine(qn string, brand domain.Brand) string {
	for _, line := range brand.ProductLines() {
		if containsWord(qn, line) {
			return line
		}
	}
	return ""
}

func extractSubFamily(qn string) string {
	if m := foldableSubFamilyPattern.FindStringSubmatch(qn); m != nil {
		return m[1]
	}
	if m := seriesSubFamilyPattern.FindStringSubmatch(qn); m != nil {
		return m[1]
	}
	return ""
}

// extractModel tries the brand pattern first, then the first standalone 1-2 digit number.
// Brand patterns that capture a word ("xperia pro") fall through to the number.
func extractModel(qn string, brand domain.Brand) string {
	if re := brand.ModelPattern(); re != nil {
		if m := re.FindStringSubmatch(qn); m != nil && isOneOrTwoDigits(m[1]) {
			return m[1]
		}
	}
	if m := standaloneModelPattern.FindStringSubmatch(qn); m != nil {
		return m[1]
	}
	return ""
}

func (p *QueryParser) extractVariants(qn string) []string {
	variants := []string{}
	for _, v := range p.vocab.Variants {
		if containsWord(qn, v) {
			variants = append(variants, v)
		}
	}
	return variants
}

// Tokenize splits normalized text on whitespace and drops noise words
func (p *QueryParser) Tokenize(qn string) []string {
	tokens := []string{}
	for _, t := range strings.Fields(qn) {
		if !p.vocab.NoiseWords[t] {
			tokens = append(tokens, t)
		}
	}
	return tokens
}
