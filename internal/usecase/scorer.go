package usecase

import (
	"regexp"
	"strings"

	"github.com/productscout/backend/internal/domain"
	"github.com/rs/zerolog"
)

// RejectReason names the hard filter that discarded a candidate
type RejectReason string

const (
	RejectSponsored     RejectReason = "sponsored"
	RejectAccessory     RejectReason = "accessory"
	RejectWrongCategory RejectReason = "wrong_category"
	RejectMissingLine   RejectReason = "missing_product_line"
	RejectModelConflict RejectReason = "model_conflict"
	RejectNonPositive   RejectReason = "non_positive_score"
)

// Verdict is the outcome of scoring one candidate.
// A rejected verdict carries the reason and whatever score was reached.
type Verdict struct {
	Score   int
	ModelOK bool
	Reject  RejectReason
}

// Accepted reports whether the candidate survived every filter
func (v Verdict) Accepted() bool {
	return v.Reject == ""
}

// Sub-family presence checks against the candidate text; keyed by sub-family
var subFamilyPatterns = map[string]*regexp.Regexp{
	"flip": regexp.MustCompile(`galaxy\s+z\s+flip\b`),
	"fold": regexp.MustCompile(`galaxy\s+z\s+fold\b`),
	"s":    regexp.MustCompile(`galaxy\s+s\s*\d`),
	"a":    regexp.MustCompile(`galaxy\s+a\s*\d`),
	"m":    regexp.MustCompile(`galaxy\s+m\s*\d`),
	"note": regexp.MustCompile(`galaxy\s+note\s*\d`),
}

// Scorer rates candidate listings against a parsed query
type Scorer struct {
	vocab   Vocabulary
	weights ScoreWeights
	logger  zerolog.Logger
}

// NewScorer creates a scorer with the given vocabulary and weights
func NewScorer(vocab Vocabulary, weights ScoreWeights, logger zerolog.Logger) *Scorer {
	if weights.ModelWindow <= 0 {
		weights.ModelWindow = 4
	}
	if weights.SubFamilyWindow <= 0 {
		weights.SubFamilyWindow = 3
	}
	return &Scorer{
		vocab:   vocab,
		weights: weights,
		logger:  logger.With().Str("component", "scorer").Logger(),
	}
}

// Score evaluates one listing. Hard filters run first, in order: sponsored,
// accessory, wrong category, missing product line, conflicting model number.
// Surviving candidates are scored additively; a score <= 0 is rejected too.
func (s *Scorer) Score(q domain.QueryInfo, text, title string) Verdict {
	rawLower := strings.ToLower(text)
	titleNorm := Normalize(title)
	cardNorm := Normalize(text)
	combined := strings.TrimSpace(titleNorm + " " + cardNorm)

	if containsAny(rawLower, s.vocab.SponsoredMarkers) {
		return Verdict{Reject: RejectSponsored}
	}
	if s.isAccessory(titleNorm, cardNorm, rawLower) {
		return Verdict{Reject: RejectAccessory}
	}
	if q.Brand.Category() == domain.CategoryPhone &&
		(containsAny(combined, s.vocab.WrongCategory) || containsAny(rawLower, s.vocab.WrongCategory)) {
		return Verdict{Reject: RejectWrongCategory}
	}
	if q.ProductLine != "" && !strings.Contains(combined, q.ProductLine) {
		return Verdict{Reject: RejectMissingLine}
	}

	tokens := strings.Fields(combined)
	if q.ModelNumber != "" && s.conflictingModel(tokens, q) {
		return Verdict{Reject: RejectModelConflict}
	}

	w := s.weights
	score := 0

	for _, t := range q.SearchTokens {
		if containsWord(combined, t) {
			score += w.TokenMatch
		}
	}

	if q.Brand.Known() && strings.Contains(combined, q.Brand.String()) {
		score += w.BrandPresent
	}
	if q.ProductLine != "" && strings.Contains(combined, q.ProductLine) {
		score += w.LinePresent
	}

	modelOK := true
	if q.ModelNumber != "" {
		switch {
		case s.modelNear(tokens, q):
			score += w.ModelNear
		case containsWord(combined, q.ModelNumber):
			score += w.ModelAnywhere
		default:
			score += w.ModelMissing
			modelOK = false
		}
	}

	if q.SubFamily != "" {
		if re, ok := subFamilyPatterns[q.SubFamily]; ok && re.MatchString(combined) {
			score += w.SubFamilyMatch
		} else {
			score += w.SubFamilyMissing
		}
	}

	expected := make(map[string]bool, len(q.VariantTokens))
	for _, v := range q.VariantTokens {
		expected[v] = true
	}
	for _, v := range s.vocab.Variants {
		present := containsWord(combined, v)
		switch {
		case expected[v] && present:
			score += w.VariantExpected
		case expected[v]:
			score += w.VariantMissing
		case present:
			score += w.VariantUnexpected
		}
	}

	if containsAny(combined, s.vocab.CategoryMarkers) {
		score += w.CategoryMarker
	}

	if score <= 0 {
		return Verdict{Score: score, ModelOK: modelOK, Reject: RejectNonPositive}
	}
	return Verdict{Score: score, ModelOK: modelOK}
}

// isAccessory checks the normalized keyword set as whole words in title and
// body, and the raw keyword set as substrings of the lowercase text.
func (s *Scorer) isAccessory(titleNorm, cardNorm, rawLower string) bool {
	for _, kw := range s.vocab.AccessoryNorm {
		if strings.Contains(titleNorm, kw) || strings.Contains(cardNorm, kw) {
			return true
		}
	}
	return containsAny(rawLower, s.vocab.AccessoryRaw)
}

// anchor returns the token the model number is expected to follow
func anchor(q domain.QueryInfo) string {
	if q.SubFamily != "" {
		return q.SubFamily
	}
	return q.ProductLine
}

// isAnchorToken matches the anchor exactly, or as a prefix for anchors longer
// than two letters ("galaxy" but never "s" in "smartphone").
func isAnchorToken(tok, anchor string) bool {
	if tok == anchor {
		return true
	}
	return len(anchor) > 2 && strings.HasPrefix(tok, anchor)
}

// modelNear reports whether the model number follows the anchor token closely
func (s *Scorer) modelNear(tokens []string, q domain.QueryInfo) bool {
	if q.SubFamily != "" {
		for i, tok := range tokens {
			if tok == q.SubFamily && windowContains(tokens, i, s.weights.SubFamilyWindow, q.ModelNumber) {
				return true
			}
		}
		return false
	}

	if q.ProductLine == "" {
		return false
	}
	for i, tok := range tokens {
		if !isAnchorToken(tok, q.ProductLine) {
			continue
		}
		if windowContains(tokens, i, s.weights.ModelWindow, q.ModelNumber) {
			return true
		}
		if strings.Replace(tok, q.ProductLine, "", 1) == q.ModelNumber {
			return true
		}
	}
	return false
}

// conflictingModel reports a different 1-2 digit number right after the anchor.
// Any such window rules the candidate out as a different model.
func (s *Scorer) conflictingModel(tokens []string, q domain.QueryInfo) bool {
	a := anchor(q)
	if a == "" {
		return false
	}
	for i, tok := range tokens {
		if !isAnchorToken(tok, a) {
			continue
		}
		var nums []string
		for _, t := range window(tokens, i, s.weights.ModelWindow) {
			if isOneOrTwoDigits(t) {
				nums = append(nums, t)
			}
		}
		if len(nums) == 0 {
			continue
		}
		conflict := true
		for _, n := range nums {
			if n == q.ModelNumber {
				conflict = false
				break
			}
		}
		if conflict {
			return true
		}
	}
	return false
}

// window returns up to size tokens following index i
func window(tokens []string, i, size int) []string {
	end := i + 1 + size
	if end > len(tokens) {
		end = len(tokens)
	}
	if i+1 >= end {
		return nil
	}
	return tokens[i+1 : end]
}

func windowContains(tokens []string, i, size int, want string) bool {
	for _, t := range window(tokens, i, size) {
		if t == want {
			return true
		}
	}
	return false
}
