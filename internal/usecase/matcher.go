package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/productscout/backend/internal/domain"
	"github.com/rs/zerolog"
)

// MatchState is the matcher's position in its pass sequence
type MatchState int

const (
	StateCollecting MatchState = iota
	StateStrictCheck
	StateRelaxedCheck
	StateBrandOnlyCheck
	StateMatched
	StateFailed
)

func (s MatchState) String() string {
	switch s {
	case StateCollecting:
		return "COLLECTING"
	case StateStrictCheck:
		return "STRICT_CHECK"
	case StateRelaxedCheck:
		return "RELAXED_CHECK"
	case StateBrandOnlyCheck:
		return "BRAND_ONLY_CHECK"
	case StateMatched:
		return "MATCHED"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("MatchState(%d)", int(s))
	}
}

// MatchConfig holds the tier thresholds and the collection round cap
type MatchConfig struct {
	StrictThreshold    int
	RelaxedThreshold   int
	BrandOnlyThreshold int
	MaxRounds          int
	EnableDebugLogging bool
}

// DefaultMatchConfig returns the production thresholds 30/15/5 with 10 rounds
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		StrictThreshold:    30,
		RelaxedThreshold:   15,
		BrandOnlyThreshold: 5,
		MaxRounds:          10,
	}
}

// Matcher picks the single best listing for a query over repeated collection rounds
type Matcher struct {
	scorer *Scorer
	config MatchConfig
	logger zerolog.Logger
}

// NewMatcher creates a matcher. Zero config fields take the production defaults.
func NewMatcher(scorer *Scorer, config MatchConfig, logger zerolog.Logger) *Matcher {
	def := DefaultMatchConfig()
	if config.StrictThreshold <= 0 {
		config.StrictThreshold = def.StrictThreshold
	}
	if config.RelaxedThreshold <= 0 {
		config.RelaxedThreshold = def.RelaxedThreshold
	}
	if config.BrandOnlyThreshold <= 0 {
		config.BrandOnlyThreshold = def.BrandOnlyThreshold
	}
	if config.MaxRounds <= 0 {
		config.MaxRounds = def.MaxRounds
	}

	return &Matcher{
		scorer: scorer,
		config: config,
		logger: logger.With().Str("component", "matcher").Logger(),
	}
}

// Match runs the pass sequence COLLECTING -> STRICT_CHECK (per round) ->
// RELAXED_CHECK -> BRAND_ONLY_CHECK and returns the winner, or ErrNoMatch.
// Provider failures count as rounds without new candidates.
func (m *Matcher) Match(
	ctx context.Context,
	q domain.QueryInfo,
	provider domain.ListingProvider,
) (*domain.MatchResult, error) {
	var pool []domain.Candidate
	seen := make(map[string]bool)
	rounds := 0

	for rounds < m.config.MaxRounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rounds++
		m.transition(StateCollecting, rounds, len(pool))

		listings, err := provider.Listings(ctx)
		if err != nil {
			m.logger.Warn().Err(err).Int("round", rounds).Msg("listing provider failed, treating as empty round")
			listings = nil
		}
		pool = m.collect(q, listings, seen, pool)

		m.transition(StateStrictCheck, rounds, len(pool))
		if best := pickBest(pool, m.config.StrictThreshold, true); best != nil {
			return m.matched(best, domain.TierStrict, rounds, len(pool)), nil
		}

		if rounds == m.config.MaxRounds {
			break
		}
		if err := provider.LoadMore(ctx); err != nil {
			if errors.Is(err, domain.ErrNoMoreListings) {
				m.logger.Debug().Int("round", rounds).Msg("no more listings to load")
				break
			}
			m.logger.Warn().Err(err).Int("round", rounds).Msg("failed to load more listings")
		}
	}

	m.transition(StateRelaxedCheck, rounds, len(pool))
	if best := pickBest(pool, m.config.RelaxedThreshold, false); best != nil {
		return m.matched(best, domain.TierRelaxed, rounds, len(pool)), nil
	}

	m.transition(StateBrandOnlyCheck, rounds, len(pool))
	if best := pickBest(pool, m.config.BrandOnlyThreshold, false); best != nil {
		return m.matched(best, domain.TierBrandOnly, rounds, len(pool)), nil
	}

	m.transition(StateFailed, rounds, len(pool))
	return nil, fmt.Errorf("%w: %q after %d rounds, %d candidates", domain.ErrNoMatch, q.Raw, rounds, len(pool))
}

// collect scores listings not seen before and appends the accepted ones.
// A ref is pooled at most once, but a rejected tile does not block a later
// tile with the same ref and different text. Listings without a ref are
// identified by their content.
func (m *Matcher) collect(
	q domain.QueryInfo,
	listings []domain.Listing,
	seen map[string]bool,
	pool []domain.Candidate,
) []domain.Candidate {
	for i, l := range listings {
		content := l.Title() + "\x00" + l.Text()
		ref := l.Ref()
		if ref == "" {
			ref = "content:" + content
		}
		refKey, contentKey := "ref\x00"+ref, "seen\x00"+ref+"\x00"+content
		if seen[refKey] || seen[contentKey] {
			continue
		}
		seen[contentKey] = true

		v := m.scorer.Score(q, l.Text(), l.Title())
		if m.config.EnableDebugLogging {
			m.logger.Debug().
				Int("position", i).
				Str("title", l.Title()).
				Int("score", v.Score).
				Bool("model_ok", v.ModelOK).
				Str("reject", string(v.Reject)).
				Msg("scored candidate")
		}
		if !v.Accepted() {
			continue
		}
		seen[refKey] = true
		pool = append(pool, domain.Candidate{
			Score:    v.Score,
			Position: i,
			Listing:  l,
			ModelOK:  v.ModelOK,
		})
	}
	return pool
}

// pickBest returns the highest scoring candidate at or above threshold.
// Ties go to the earliest position.
func pickBest(pool []domain.Candidate, threshold int, requireModel bool) *domain.Candidate {
	var best *domain.Candidate
	for i := range pool {
		c := &pool[i]
		if c.Score < threshold || (requireModel && !c.ModelOK) {
			continue
		}
		if best == nil || c.Score > best.Score || (c.Score == best.Score && c.Position < best.Position) {
			best = c
		}
	}
	return best
}

func (m *Matcher) matched(c *domain.Candidate, tier domain.Tier, rounds, pooled int) *domain.MatchResult {
	m.transition(StateMatched, rounds, pooled)
	m.logger.Debug().
		Str("tier", string(tier)).
		Int("score", c.Score).
		Int("position", c.Position).
		Str("title", c.Listing.Title()).
		Msg("best match")

	return &domain.MatchResult{
		Ref:      c.Listing.Ref(),
		Title:    c.Listing.Title(),
		Score:    c.Score,
		Position: c.Position,
		Tier:     tier,
		Rounds:   rounds,
		Pooled:   pooled,
	}
}

func (m *Matcher) transition(s MatchState, round, pooled int) {
	m.logger.Debug().Str("state", s.String()).Int("round", round).Int("pooled", pooled).Msg("matcher state")
}

// StaticListings is a ListingProvider over a fixed list
type StaticListings []domain.Listing

func (s StaticListings) Listings(ctx context.Context) ([]domain.Listing, error) {
	return s, nil
}

func (s StaticListings) LoadMore(ctx context.Context) error {
	return domain.ErrNoMoreListings
}
