package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/productscout/backend/internal/domain"
	"github.com/rs/zerolog"
)

// MockListingProvider serves one listing batch per round and records calls
type MockListingProvider struct {
	rounds        [][]domain.Listing
	errs          []error
	loadMoreErr   error
	listingCalls  int
	loadMoreCalls int
}

func (m *MockListingProvider) Listings(ctx context.Context) ([]domain.Listing, error) {
	i := m.listingCalls
	m.listingCalls++
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if len(m.rounds) == 0 {
		return nil, nil
	}
	if i >= len(m.rounds) {
		return m.rounds[len(m.rounds)-1], nil
	}
	return m.rounds[i], nil
}

func (m *MockListingProvider) LoadMore(ctx context.Context) error {
	m.loadMoreCalls++
	return m.loadMoreErr
}

func card(ref, text string) domain.Listing {
	return domain.ListingCard{DisplayText: text, TitleText: text, LinkRef: ref}
}

func newTestMatcher() *Matcher {
	return NewMatcher(newTestScorer(), DefaultMatchConfig(), zerolog.Nop())
}

func TestNewMatcher_Defaults(t *testing.T) {
	m := NewMatcher(newTestScorer(), MatchConfig{}, zerolog.Nop())
	if m.config != DefaultMatchConfig() {
		t.Errorf("config = %+v, want defaults %+v", m.config, DefaultMatchConfig())
	}
}

func TestMatch_BrandOnlyTier(t *testing.T) {
	p := newTestParser()
	m := newTestMatcher()
	q := p.Parse("Fairphone 5 Gen Duo")

	// 4 tokens*2 + model 5 - unexpected pro 8 + smartphone 5 = 10
	// 3 tokens*2 + model 5 - unexpected pro 8 + smartphone 5 = 8
	listings := StaticListings{
		card("low", "Fairphone 5 Gen Pro Smartphone"),
		card("high", "Fairphone 5 Gen Duo Pro Smartphone"),
	}

	res, err := m.Match(context.Background(), q, listings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Ref != "high" {
		t.Errorf("Ref = %q, want high", res.Ref)
	}
	if res.Score != 10 {
		t.Errorf("Score = %d, want 10", res.Score)
	}
	if res.Tier != domain.TierBrandOnly {
		t.Errorf("Tier = %q, want brand_only", res.Tier)
	}
}

func TestMatch_TierOrdering(t *testing.T) {
	p := newTestParser()
	m := newTestMatcher()
	q := p.Parse("iPhone 17 Pro Max")

	testCases := []struct {
		name     string
		listings StaticListings
		wantRef  string
		wantTier domain.Tier
	}{
		{
			name: "strict beats earlier relaxed",
			listings: StaticListings{
				card("relaxed", "Apple iPhone Pro Max Smartphone"),
				card("strict", "Apple iPhone 17 Pro Max 256 GB Smartphone"),
			},
			wantRef:  "strict",
			wantTier: domain.TierStrict,
		},
		{
			name: "strict beats later brand-only",
			listings: StaticListings{
				card("strict", "Apple iPhone 17 Pro Max 256 GB Smartphone"),
				card("brand", "Apple iPhone 17 256 GB Smartphone"),
			},
			wantRef:  "strict",
			wantTier: domain.TierStrict,
		},
		{
			name: "relaxed without model",
			listings: StaticListings{
				card("brand", "Apple iPhone 17 256 GB Smartphone"),
				card("relaxed", "Apple iPhone Pro Max Smartphone"),
			},
			wantRef:  "relaxed",
			wantTier: domain.TierRelaxed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := m.Match(context.Background(), q, tc.listings)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Ref != tc.wantRef || res.Tier != tc.wantTier {
				t.Errorf("got %s/%s, want %s/%s", res.Ref, res.Tier, tc.wantRef, tc.wantTier)
			}
		})
	}
}

func TestMatch_TieBreakEarliestPosition(t *testing.T) {
	p := newTestParser()
	m := newTestMatcher()
	q := p.Parse("iPhone 17 Pro Max")

	text := "Apple iPhone 17 Pro Max 256 GB Smartphone"
	res, err := m.Match(context.Background(), q, StaticListings{
		card("accessory", "Hülle für "+text),
		card("first", text),
		card("second", text),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Ref != "first" || res.Position != 1 {
		t.Errorf("got %s at %d, want first at 1", res.Ref, res.Position)
	}
}

func TestMatch_StrictFoundInLaterRound(t *testing.T) {
	p := newTestParser()
	m := newTestMatcher()
	q := p.Parse("iPhone 17 Pro Max")

	provider := &MockListingProvider{
		rounds: [][]domain.Listing{
			{card("brand", "Apple iPhone 17 256 GB Smartphone")},
			{
				card("brand", "Apple iPhone 17 256 GB Smartphone"),
				card("strict", "Apple iPhone 17 Pro Max 256 GB Smartphone"),
			},
		},
	}

	res, err := m.Match(context.Background(), q, provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Ref != "strict" || res.Rounds != 2 {
		t.Errorf("got %s after %d rounds, want strict after 2", res.Ref, res.Rounds)
	}
	if res.Pooled != 2 {
		t.Errorf("Pooled = %d, want 2", res.Pooled)
	}
	if provider.loadMoreCalls != 1 {
		t.Errorf("LoadMore called %d times, want 1", provider.loadMoreCalls)
	}
}

func TestMatch_RoundCap(t *testing.T) {
	p := newTestParser()
	m := newTestMatcher()
	q := p.Parse("iPhone 17 Pro Max")

	provider := &MockListingProvider{
		rounds: [][]domain.Listing{{card("case", "Hülle für iPhone 17 Pro Max")}},
	}

	_, err := m.Match(context.Background(), q, provider)
	if !errors.Is(err, domain.ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
	if provider.listingCalls != 10 {
		t.Errorf("Listings called %d times, want 10", provider.listingCalls)
	}
	if provider.loadMoreCalls != 9 {
		t.Errorf("LoadMore called %d times, want 9", provider.loadMoreCalls)
	}
}

func TestMatch_DeduplicatesAcrossRounds(t *testing.T) {
	p := newTestParser()
	m := newTestMatcher()
	q := p.Parse("iPhone 17 Pro Max")

	provider := &MockListingProvider{
		rounds: [][]domain.Listing{{card("brand", "Apple iPhone 17 256 GB Smartphone")}},
	}

	res, err := m.Match(context.Background(), q, provider)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Pooled != 1 {
		t.Errorf("Pooled = %d, want 1", res.Pooled)
	}
	if res.Rounds != 10 {
		t.Errorf("Rounds = %d, want 10", res.Rounds)
	}
	if res.Tier != domain.TierBrandOnly {
		t.Errorf("Tier = %q, want brand_only", res.Tier)
	}
}

func TestMatch_ProviderErrors(t *testing.T) {
	p := newTestParser()
	m := newTestMatcher()
	q := p.Parse("iPhone 17 Pro Max")

	t.Run("failed rounds count as empty", func(t *testing.T) {
		provider := &MockListingProvider{
			errs: []error{errors.New("timeout"), errors.New("timeout")},
			rounds: [][]domain.Listing{
				nil,
				nil,
				{card("strict", "Apple iPhone 17 Pro Max 256 GB Smartphone")},
			},
		}

		res, err := m.Match(context.Background(), q, provider)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Rounds != 3 {
			t.Errorf("Rounds = %d, want 3", res.Rounds)
		}
	})

	t.Run("exhausted provider stops collecting", func(t *testing.T) {
		provider := &MockListingProvider{
			rounds:      [][]domain.Listing{{card("case", "Panzerglas iPhone 17")}},
			loadMoreErr: domain.ErrNoMoreListings,
		}

		_, err := m.Match(context.Background(), q, provider)
		if !errors.Is(err, domain.ErrNoMatch) {
			t.Fatalf("expected ErrNoMatch, got %v", err)
		}
		if provider.listingCalls != 1 {
			t.Errorf("Listings called %d times, want 1", provider.listingCalls)
		}
	})

	t.Run("load more failure keeps collecting", func(t *testing.T) {
		provider := &MockListingProvider{
			rounds:      [][]domain.Listing{{card("case", "Panzerglas iPhone 17")}},
			loadMoreErr: errors.New("scroll failed"),
		}

		_, err := m.Match(context.Background(), q, provider)
		if !errors.Is(err, domain.ErrNoMatch) {
			t.Fatalf("expected ErrNoMatch, got %v", err)
		}
		if provider.listingCalls != 10 {
			t.Errorf("Listings called %d times, want 10", provider.listingCalls)
		}
	})
}

func TestMatch_EmptyRefsUseContent(t *testing.T) {
	p := newTestParser()
	m := newTestMatcher()
	q := p.Parse("iPhone 17 Pro Max")

	t.Run("identical cards pool once", func(t *testing.T) {
		text := "Apple iPhone 17 256 GB Smartphone"
		res, err := m.Match(context.Background(), q, StaticListings{card("", text), card("", text)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Pooled != 1 {
			t.Errorf("Pooled = %d, want 1", res.Pooled)
		}
	})

	t.Run("new card at a known position is scored", func(t *testing.T) {
		provider := &MockListingProvider{
			rounds: [][]domain.Listing{
				{card("", "Apple iPhone 17 256 GB Smartphone")},
				{card("", "Apple iPhone 17 Pro Max 256 GB Smartphone")},
			},
		}
		res, err := m.Match(context.Background(), q, provider)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Tier != domain.TierStrict {
			t.Errorf("Tier = %q, want strict", res.Tier)
		}
		if res.Rounds != 2 {
			t.Errorf("Rounds = %d, want 2", res.Rounds)
		}
	})
}

func TestMatch_RejectedTileDoesNotBlockRef(t *testing.T) {
	p := newTestParser()
	m := newTestMatcher()
	q := p.Parse("iPhone 17 Pro Max")

	listings := StaticListings{
		card("/p/iphone-17-pro-max", "Gesponsert Apple iPhone 17 Pro Max 256 GB Smartphone"),
		card("/p/iphone-17-pro-max", "Apple iPhone 17 Pro Max 256 GB Smartphone"),
	}

	res, err := m.Match(context.Background(), q, listings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Ref != "/p/iphone-17-pro-max" {
		t.Errorf("Ref = %q, want /p/iphone-17-pro-max", res.Ref)
	}
	if res.Tier != domain.TierStrict {
		t.Errorf("Tier = %q, want strict", res.Tier)
	}
	if res.Position != 1 {
		t.Errorf("Position = %d, want 1", res.Position)
	}
}

func TestMatch_AcceptedRefPooledOnce(t *testing.T) {
	p := newTestParser()
	m := newTestMatcher()
	q := p.Parse("iPhone 17 Pro Max")

	listings := StaticListings{
		card("/p/iphone-17", "Apple iPhone 17 256 GB Smartphone"),
		card("/p/iphone-17", "Apple iPhone 17 256 GB Smartphone Schwarz"),
	}

	res, err := m.Match(context.Background(), q, listings)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Pooled != 1 {
		t.Errorf("Pooled = %d, want 1", res.Pooled)
	}
}

func TestMatch_ContextCancelled(t *testing.T) {
	p := newTestParser()
	m := newTestMatcher()
	q := p.Parse("iPhone 17")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Match(ctx, q, StaticListings{card("a", "Apple iPhone 17 Smartphone")})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestMatchState_String(t *testing.T) {
	states := map[MatchState]string{
		StateCollecting:     "COLLECTING",
		StateStrictCheck:    "STRICT_CHECK",
		StateRelaxedCheck:   "RELAXED_CHECK",
		StateBrandOnlyCheck: "BRAND_ONLY_CHECK",
		StateMatched:        "MATCHED",
		StateFailed:         "FAILED",
	}
	for s, want := range states {
		if got := s.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}
