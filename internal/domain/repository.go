package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ListingProvider yields the currently visible listings of a result list.
// Each Listings call may return more, fewer or the same items as before;
// LoadMore asks for more to become visible (scroll, next page).
type ListingProvider interface {
	Listings(ctx context.Context) ([]Listing, error)
	LoadMore(ctx context.Context) error
}

// TextSource yields one text per document page. Image-only pages are empty strings.
type TextSource interface {
	Pages(ctx context.Context) ([]string, error)
}

// OCRSource recognizes text for the given 1-based page numbers
type OCRSource interface {
	OCRPages(ctx context.Context, pageNumbers []int) ([]string, error)
}

// Storefront is the shop a query is resolved against
type Storefront interface {
	Search(ctx context.Context, query string) (ListingProvider, error)
	ProductPage(ctx context.Context, ref string) (*ProductPage, error)
	FetchDatasheet(ctx context.Context, url string) ([]byte, error)
}

// DatasheetReader opens datasheet bytes as text and OCR sources
type DatasheetReader interface {
	Open(data []byte) (TextSource, OCRSource, error)
}

// ReportSink receives one row per processed query
type ReportSink interface {
	Write(ctx context.Context, report *ProductReport) error
	Close() error
}
