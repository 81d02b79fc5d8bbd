package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/productscout/backend/internal/domain"
	"github.com/rs/zerolog"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data      map[string][]byte
	getError  error
	setError  error
	getCalled bool
	setCalled bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]byte),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.getCalled = true
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockStorefront is a mock implementation of domain.Storefront
type MockStorefront struct {
	listings     StaticListings
	searchError  error
	page         *domain.ProductPage
	pageError    error
	datasheet    []byte
	fetchError   error
	searchCalls  int
	fetchedURLs  []string
	requestedRef string
}

func (m *MockStorefront) Search(ctx context.Context, query string) (domain.ListingProvider, error) {
	m.searchCalls++
	if m.searchError != nil {
		return nil, m.searchError
	}
	return m.listings, nil
}

func (m *MockStorefront) ProductPage(ctx context.Context, ref string) (*domain.ProductPage, error) {
	m.requestedRef = ref
	if m.pageError != nil {
		return nil, m.pageError
	}
	page := *m.page
	return &page, nil
}

func (m *MockStorefront) FetchDatasheet(ctx context.Context, url string) ([]byte, error) {
	m.fetchedURLs = append(m.fetchedURLs, url)
	if m.fetchError != nil {
		return nil, m.fetchError
	}
	return m.datasheet, nil
}

// MockDatasheetReader serves fixed page texts for any datasheet bytes
type MockDatasheetReader struct {
	pages   []string
	openErr error
}

func (m *MockDatasheetReader) Open(data []byte) (domain.TextSource, domain.OCRSource, error) {
	if m.openErr != nil {
		return nil, nil, m.openErr
	}
	return &MockTextSource{pages: m.pages}, nil, nil
}

// MockReportSink records written rows
type MockReportSink struct {
	rows     []*domain.ProductReport
	writeErr error
}

func (m *MockReportSink) Write(ctx context.Context, report *domain.ProductReport) error {
	if m.writeErr != nil {
		return m.writeErr
	}
	m.rows = append(m.rows, report)
	return nil
}

func (m *MockReportSink) Close() error { return nil }

const (
	testQuery      = "iPhone 17 Pro Max 256GB Blau"
	testProductRef = "https://shop.example/p/apple-iphone-17-pro-max-256-gb-1234"
	testPanelText  = "Informationen zum in der EU ansässigen Wirtschaftsakteur:\n" +
		"Apple Distribution International Ltd.\nHollyhill Industrial Estate\nWichtige Informationen"
	testDatasheet = "Apple iPhone 17 Pro Max\nEnergieeffizienzklasse: C\n" +
		"Supplier's address (a) Apple Distribution International Limited\nHollyhill Industrial Estate"
)

func testListings() StaticListings {
	return StaticListings{
		domain.ListingCard{
			DisplayText: "Apple iPhone 17 Pro Max 256 GB Smartphone Deep Blue",
			TitleText:   "Apple iPhone 17 Pro Max 256 GB",
			LinkRef:     testProductRef,
		},
	}
}

func newTestReportService(shop *MockStorefront, reader *MockDatasheetReader, cache *MockCacheRepository) *ReportService {
	return NewReportService(
		shop, reader, cache,
		NewEngine(DefaultEngineConfig(), zerolog.Nop()),
		ReportServiceConfig{CacheTTL: time.Hour},
		zerolog.Nop(),
	)
}

func TestNewReportService(t *testing.T) {
	t.Run("default cache TTL", func(t *testing.T) {
		svc := NewReportService(nil, nil, nil, NewEngine(DefaultEngineConfig(), zerolog.Nop()), ReportServiceConfig{}, zerolog.Nop())
		if svc.cacheTTL != 24*time.Hour {
			t.Errorf("cacheTTL = %v, want 24h", svc.cacheTTL)
		}
	})
}

func TestProcess_InvalidRequest(t *testing.T) {
	svc := newTestReportService(&MockStorefront{}, &MockDatasheetReader{}, NewMockCacheRepository())

	for _, q := range []string{"", "   "} {
		if _, err := svc.Process(context.Background(), q); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("Process(%q) error = %v, want ErrInvalidRequest", q, err)
		}
	}
}

func TestProcess_PageFieldsFirst(t *testing.T) {
	shop := &MockStorefront{
		listings: testListings(),
		page: &domain.ProductPage{
			URL:              testProductRef,
			DatasheetURL:     "https://shop.example/ds/1234.pdf",
			EnergyLabelAlt:   "A",
			EnergyLabelImage: "https://i.shop.example/i/eek-1234",
			SafetyPanelText:  testPanelText,
		},
	}
	cache := NewMockCacheRepository()
	svc := newTestReportService(shop, &MockDatasheetReader{}, cache)

	report, err := svc.Process(context.Background(), testQuery)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !report.Matched || report.MatchTier != domain.TierStrict {
		t.Errorf("Matched/Tier = %v/%q, want true/strict", report.Matched, report.MatchTier)
	}
	if shop.requestedRef != testProductRef {
		t.Errorf("product page requested for %q", shop.requestedRef)
	}
	if report.EnergyClass != "A" {
		t.Errorf("EnergyClass = %q, want A", report.EnergyClass)
	}
	if report.SupplierText != "Apple Distribution International Ltd. Hollyhill Industrial Estate" {
		t.Errorf("SupplierText = %q", report.SupplierText)
	}
	if len(shop.fetchedURLs) != 0 {
		t.Errorf("datasheet fetched %v, want no fetch", shop.fetchedURLs)
	}
	if report.Source != "Shop" {
		t.Errorf("Source = %q, want Shop", report.Source)
	}
	if !cache.setCalled {
		t.Error("expected report to be cached")
	}

	t.Run("second call is served from cache", func(t *testing.T) {
		cached, err := svc.Process(context.Background(), "iphone 17 pro max 256 gb blau")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cached.Source != "Cache" {
			t.Errorf("Source = %q, want Cache", cached.Source)
		}
		if shop.searchCalls != 1 {
			t.Errorf("Search called %d times, want 1", shop.searchCalls)
		}
	})
}

func TestProcess_DatasheetFallback(t *testing.T) {
	shop := &MockStorefront{
		listings: testListings(),
		page: &domain.ProductPage{
			URL:            testProductRef,
			DatasheetURL:   "https://shop.example/ds/1234.pdf",
			EnergyLabelAlt: "B",
		},
		datasheet: []byte("%PDF-1.7"),
	}
	svc := newTestReportService(shop, &MockDatasheetReader{pages: []string{testDatasheet}}, NewMockCacheRepository())

	report, err := svc.Process(context.Background(), testQuery)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.EnergyClass != "C" {
		t.Errorf("EnergyClass = %q, want C from datasheet (label without image ignored)", report.EnergyClass)
	}
	if report.SupplierText != "Apple Distribution International Limited Hollyhill Industrial Estate" {
		t.Errorf("SupplierText = %q", report.SupplierText)
	}
	if report.EnergyLabelImage != domain.NotFound {
		t.Errorf("EnergyLabelImage = %q, want Not found", report.EnergyLabelImage)
	}
	if len(shop.fetchedURLs) != 1 {
		t.Errorf("datasheet fetched %d times, want 1", len(shop.fetchedURLs))
	}
}

func TestProcess_NoMatch(t *testing.T) {
	testCases := []struct {
		name string
		shop *MockStorefront
	}{
		{
			name: "only accessories listed",
			shop: &MockStorefront{listings: StaticListings{
				domain.ListingCard{DisplayText: "Hülle für iPhone 17 Pro Max", LinkRef: "/p/case"},
			}},
		},
		{
			name: "search unavailable",
			shop: &MockStorefront{searchError: errors.New("connection refused")},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cache := NewMockCacheRepository()
			svc := newTestReportService(tc.shop, &MockDatasheetReader{}, cache)

			report, err := svc.Process(context.Background(), testQuery)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if report.Matched {
				t.Error("expected Matched false")
			}
			for name, v := range map[string]string{
				"ProductURL":   report.ProductURL,
				"EnergyClass":  report.EnergyClass,
				"SupplierText": report.SupplierText,
				"DatasheetURL": report.DatasheetURL,
			} {
				if v != domain.NotFound {
					t.Errorf("%s = %q, want Not found", name, v)
				}
			}
			if cache.setCalled {
				t.Error("unmatched reports should not be cached")
			}
		})
	}
}

func TestProcess_CollaboratorFailures(t *testing.T) {
	t.Run("product page unavailable", func(t *testing.T) {
		shop := &MockStorefront{listings: testListings(), pageError: errors.New("503")}
		svc := newTestReportService(shop, &MockDatasheetReader{}, NewMockCacheRepository())

		report, err := svc.Process(context.Background(), testQuery)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !report.Matched || report.ProductURL != testProductRef {
			t.Errorf("got matched=%v url=%q", report.Matched, report.ProductURL)
		}
		if report.EnergyClass != domain.NotFound || report.SupplierText != domain.NotFound {
			t.Errorf("fields = %q/%q, want Not found", report.EnergyClass, report.SupplierText)
		}
	})

	t.Run("datasheet fetch fails", func(t *testing.T) {
		shop := &MockStorefront{
			listings:   testListings(),
			page:       &domain.ProductPage{URL: testProductRef, DatasheetURL: "https://shop.example/ds.pdf"},
			fetchError: domain.ErrFetchFailure,
		}
		svc := newTestReportService(shop, &MockDatasheetReader{}, NewMockCacheRepository())

		report, err := svc.Process(context.Background(), testQuery)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.EnergyClass != domain.NotFound {
			t.Errorf("EnergyClass = %q, want Not found", report.EnergyClass)
		}
	})

	t.Run("datasheet unreadable", func(t *testing.T) {
		shop := &MockStorefront{
			listings:  testListings(),
			page:      &domain.ProductPage{URL: testProductRef, DatasheetURL: "https://shop.example/ds.pdf"},
			datasheet: []byte("<html>"),
		}
		svc := newTestReportService(shop, &MockDatasheetReader{openErr: domain.ErrNotPDF}, NewMockCacheRepository())

		report, err := svc.Process(context.Background(), testQuery)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.SupplierText != domain.NotFound {
			t.Errorf("SupplierText = %q, want Not found", report.SupplierText)
		}
	})

	t.Run("cache write failure is ignored", func(t *testing.T) {
		shop := &MockStorefront{listings: testListings(), page: &domain.ProductPage{URL: testProductRef}}
		cache := NewMockCacheRepository()
		cache.setError = errors.New("redis down")
		svc := newTestReportService(shop, &MockDatasheetReader{}, cache)

		if _, err := svc.Process(context.Background(), testQuery); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("corrupt cache entry is a miss", func(t *testing.T) {
		shop := &MockStorefront{listings: testListings(), page: &domain.ProductPage{URL: testProductRef}}
		cache := NewMockCacheRepository()
		cache.data[generateCacheKey(testQuery)] = []byte("{not json")
		svc := newTestReportService(shop, &MockDatasheetReader{}, cache)

		report, err := svc.Process(context.Background(), testQuery)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Source != "Shop" || shop.searchCalls != 1 {
			t.Errorf("Source = %q, searches = %d; want Shop, 1", report.Source, shop.searchCalls)
		}
	})
}

func TestGenerateCacheKey(t *testing.T) {
	if a, b := generateCacheKey("iPhone 17 Pro"), generateCacheKey("  iphone-17  PRO "); a != b {
		t.Errorf("keys differ: %q vs %q", a, b)
	}
	if got := generateCacheKey("Galaxy S25"); got != "report:galaxy s 25" {
		t.Errorf("generateCacheKey = %q", got)
	}
}

func TestRunBatch(t *testing.T) {
	shop := &MockStorefront{listings: testListings(), page: &domain.ProductPage{URL: testProductRef}}
	svc := newTestReportService(shop, &MockDatasheetReader{}, NewMockCacheRepository())
	sink := &MockReportSink{}

	var done int
	summary, err := svc.RunBatch(context.Background(), []string{testQuery, "  ", "Pixel 9 Pro"}, sink, func(*domain.ProductReport) {
		done++
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Total != 3 || summary.Matched != 1 || summary.Failed != 1 {
		t.Errorf("summary = %+v, want 3 total, 1 matched, 1 failed", summary)
	}
	if len(sink.rows) != 3 || done != 3 {
		t.Fatalf("rows = %d, callbacks = %d, want 3 each", len(sink.rows), done)
	}
	if sink.rows[2].Matched {
		t.Error("pixel query should not match an iphone listing")
	}

	t.Run("sink failure stops the run", func(t *testing.T) {
		_, err := svc.RunBatch(context.Background(), []string{testQuery}, &MockReportSink{writeErr: errors.New("disk full")}, nil)
		if err == nil || !strings.Contains(err.Error(), "disk full") {
			t.Errorf("expected sink error, got %v", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := svc.RunBatch(ctx, []string{testQuery}, &MockReportSink{}, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestLoadQueries(t *testing.T) {
	t.Run("skips blank lines", func(t *testing.T) {
		got, err := LoadQueries(strings.NewReader("iPhone 17\n\n  \nGalaxy S25 Ultra\r\n"))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 2 || got[0] != "iPhone 17" || got[1] != "Galaxy S25 Ultra" {
			t.Errorf("LoadQueries = %q", got)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if _, err := LoadQueries(strings.NewReader("\n \n")); !errors.Is(err, domain.ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput, got %v", err)
		}
	})
}
