package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/productscout/backend/internal/domain"
	"github.com/rs/zerolog"
)

// ReportServiceConfig holds configuration for the report service
type ReportServiceConfig struct {
	CacheTTL time.Duration
}

// ReportService resolves one query to a report row with caching.
// Flow: check cache -> search shop -> match -> product page -> label/panel
// fields -> datasheet fields for what is missing -> cache -> return
type ReportService struct {
	shop     domain.Storefront
	reader   domain.DatasheetReader
	cache    domain.CacheRepository
	engine   *Engine
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewReportService creates a new report service with dependencies
func NewReportService(
	shop domain.Storefront,
	reader domain.DatasheetReader,
	cache domain.CacheRepository,
	engine *Engine,
	config ReportServiceConfig,
	logger zerolog.Logger,
) *ReportService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	return &ReportService{
		shop:     shop,
		reader:   reader,
		cache:    cache,
		engine:   engine,
		cacheTTL: cacheTTL,
		logger:   logger.With().Str("component", "report_service").Logger(),
	}
}

// Process builds the report for one query. A query without a match still
// yields a report with Matched false; only an empty query or a cancelled
// context is an error.
func (s *ReportService) Process(ctx context.Context, query string) (*domain.ProductReport, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := generateCacheKey(query)

	// Try cache first
	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		cached.Source = "Cache"
		return cached, nil
	}

	q := s.engine.Parser.Parse(query)

	provider, err := s.shop.Search(ctx, query)
	if err != nil {
		s.logger.Warn().Err(err).Str("query", query).Msg("search unavailable, no candidates")
		provider = StaticListings(nil)
	}

	match, err := s.engine.Matcher.Match(ctx, q, provider)
	if err != nil {
		if errors.Is(err, domain.ErrNoMatch) {
			s.logger.Info().Str("query", query).Msg("no matching listing")
			return domain.UnmatchedReport(query), nil
		}
		return nil, err
	}

	report := s.buildReport(ctx, q, match)

	if err := s.setInCache(ctx, cacheKey, report); err != nil {
		s.logger.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache report")
	}

	return report, nil
}

// buildReport reads the product page fields first and falls back to the
// datasheet for anything still missing
func (s *ReportService) buildReport(
	ctx context.Context,
	q domain.QueryInfo,
	match *domain.MatchResult,
) *domain.ProductReport {
	page, err := s.shop.ProductPage(ctx, match.Ref)
	if err != nil {
		s.logger.Warn().Err(err).Str("ref", match.Ref).Msg("product page unavailable")
		page = &domain.ProductPage{}
	}
	if page.URL == "" {
		page.URL = match.Ref
	}

	energy := ""
	// a label class only counts when the label image itself is linked
	if page.EnergyLabelImage != "" {
		if v, err := ParseEnergyLabel(page.EnergyLabelAlt, page.EnergyLabelSrc, page.EnergyLabelText); err == nil {
			energy = v
		}
	}
	supplier := s.engine.Popup.Parse(page.SafetyPanelText)

	if (energy == "" || supplier == "") && page.DatasheetURL != "" {
		fs := s.extractDatasheet(ctx, q.Brand, page.DatasheetURL)
		if energy == "" && fs.EnergyClass != domain.NotFound {
			energy = fs.EnergyClass
		}
		if supplier == "" && fs.SupplierText != domain.NotFound {
			supplier = fs.SupplierText
		}
	}

	return &domain.ProductReport{
		Query:            q.Raw,
		Matched:          true,
		ProductURL:       page.URL,
		MatchScore:       match.Score,
		MatchTier:        match.Tier,
		DatasheetURL:     domain.OrNotFound(page.DatasheetURL),
		EnergyClass:      domain.OrNotFound(energy),
		EnergyLabelImage: domain.OrNotFound(page.EnergyLabelImage),
		SupplierText:     domain.OrNotFound(supplier),
		Source:           "Shop",
	}
}

// extractDatasheet fetches and reads the datasheet. Failures yield an empty field set.
func (s *ReportService) extractDatasheet(ctx context.Context, brand domain.Brand, url string) domain.FieldSet {
	empty := domain.FieldSet{
		EnergyClass:  domain.NotFound,
		SupplierText: domain.NotFound,
		Status:       domain.ExtractionNotFound,
	}

	data, err := s.shop.FetchDatasheet(ctx, url)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("datasheet fetch failed")
		return empty
	}
	text, ocr, err := s.reader.Open(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", url).Msg("datasheet unreadable")
		return empty
	}
	return s.engine.Extractor.Extract(ctx, brand, text, ocr)
}

// generateCacheKey creates a normalized cache key from the query.
// Format: "report:{normalized_query}"
func generateCacheKey(query string) string {
	return fmt.Sprintf("report:%s", Normalize(query))
}

// getFromCache retrieves a report from cache
func (s *ReportService) getFromCache(ctx context.Context, key string) (*domain.ProductReport, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	var report domain.ProductReport
	if err := json.Unmarshal(value, &report); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheMiss, err)
	}
	return &report, nil
}

// setInCache stores a report in cache
func (s *ReportService) setInCache(ctx context.Context, key string, report *domain.ProductReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, key, data, s.cacheTTL)
}
