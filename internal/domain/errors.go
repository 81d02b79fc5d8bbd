package domain

import "errors"

var (
	// ErrNoMatch is returned when every matcher tier is exhausted without a candidate
	ErrNoMatch = errors.New("no listing matched the query")

	// ErrNoMoreListings is returned by a ListingProvider that cannot load further listings
	ErrNoMoreListings = errors.New("no more listings")

	// ErrFieldNotFound is returned when a single field source holds no usable value
	ErrFieldNotFound = errors.New("field not found")

	// ErrBrandMismatch is reported when a document does not mention the expected brand
	ErrBrandMismatch = errors.New("document does not belong to the expected brand")

	// ErrSourceUnavailable is returned when a collaborator cannot deliver listings or pages
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrFetchFailure is returned when a storefront request fails
	ErrFetchFailure = errors.New("storefront request failed")

	// ErrNotPDF is returned when datasheet bytes are not a PDF document
	ErrNotPDF = errors.New("datasheet is not a PDF document")

	// ErrEmptyInput is returned when a batch input holds no queries
	ErrEmptyInput = errors.New("input contains no queries")
)
