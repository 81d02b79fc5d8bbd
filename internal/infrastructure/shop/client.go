package shop

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/productscout/backend/internal/domain"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	maxPageBytes      = 8 << 20
	maxDatasheetBytes = 32 << 20
)

// ClientConfig holds storefront client settings
type ClientConfig struct {
	BaseURL           string
	SearchPath        string // path template with one %s for the escaped query
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
	MaxRetries        int
	MaxPages          int
	UserAgent         string
}

// Client reads the storefront over plain HTTP and implements domain.Storefront
type Client struct {
	httpClient  *http.Client
	baseURL     *url.URL
	searchPath  string
	userAgent   string
	maxRetries  int
	maxPages    int
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
	logger      zerolog.Logger
}

// NewClient creates a new storefront client
func NewClient(config ClientConfig, logger zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: bad shop base URL %q", domain.ErrInvalidRequest, config.BaseURL)
	}

	searchPath := config.SearchPath
	if searchPath == "" {
		searchPath = "/suche/%s/"
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 2
	}
	maxRetries := config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	maxPages := config.MaxPages
	if maxPages <= 0 {
		maxPages = 10
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "ProductScout/1.0"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     base,
		searchPath:  searchPath,
		userAgent:   userAgent,
		maxRetries:  maxRetries,
		maxPages:    maxPages,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
		backoff:     exponentialBackoff,
		logger:      logger.With().Str("component", "shop_client").Logger(),
	}, nil
}

// exponentialBackoff returns the wait before retrying the given attempt: 500ms, 1s, 2s, ...
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// resolve turns a listing ref or page link into an absolute URL on the shop
func (c *Client) resolve(ref string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil {
		return "", fmt.Errorf("%w: bad link %q", domain.ErrInvalidRequest, ref)
	}
	return c.baseURL.ResolveReference(u).String(), nil
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9,en;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFetchFailure, err)
	}
	return resp, nil
}

// get fetches reqURL with rate limiting and retries transient failures.
// 4xx answers other than 429 are not retried.
func (c *Client) get(ctx context.Context, reqURL string, limit int64) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn().Err(err).Int("attempt", attempt).Str("url", reqURL).Msg("request failed")
			lastErr = err
			if err := c.wait(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, limit))
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("%w: status %d for %s", domain.ErrFetchFailure, resp.StatusCode, reqURL)
			c.logger.Warn().Int("status", resp.StatusCode).Int("attempt", attempt).Str("url", reqURL).Msg("unexpected status")
			if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return nil, lastErr
			}
			if err := c.wait(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}
		if readErr != nil {
			lastErr = fmt.Errorf("%w: reading body: %v", domain.ErrFetchFailure, readErr)
			continue
		}

		c.logger.Debug().Str("url", reqURL).Int("bytes", len(body)).Msg("fetched")
		return body, nil
	}

	c.logger.Error().Err(lastErr).Str("url", reqURL).Msg("all retries failed")
	return nil, lastErr
}

func (c *Client) wait(ctx context.Context, attempt int) error {
	if attempt >= c.maxRetries {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.backoff(attempt)):
		return nil
	}
}

func (c *Client) getDocument(ctx context.Context, reqURL string) (*goquery.Document, error) {
	body, err := c.get(ctx, reqURL, maxPageBytes)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrFetchFailure, reqURL, err)
	}
	return doc, nil
}

// Search opens the first result page for query as a paginated ListingProvider
func (c *Client) Search(ctx context.Context, query string) (domain.ListingProvider, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}

	first, err := c.resolve(fmt.Sprintf(c.searchPath, url.PathEscape(query)))
	if err != nil {
		return nil, err
	}

	results := &SearchResults{client: c, next: first, maxPages: c.maxPages}
	if err := results.LoadMore(ctx); err != nil {
		return nil, fmt.Errorf("%w: search %q: %v", domain.ErrSourceUnavailable, query, err)
	}

	c.logger.Info().Str("query", query).Int("listings", len(results.cards)).Msg("search loaded")
	return results, nil
}

// ProductPage fetches and parses the product page behind a listing ref
func (c *Client) ProductPage(ctx context.Context, ref string) (*domain.ProductPage, error) {
	pageURL, err := c.resolve(ref)
	if err != nil {
		return nil, err
	}
	doc, err := c.getDocument(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	page := parseProductPage(doc, pageURL)
	if page.DatasheetURL != "" {
		if abs, err := c.resolve(page.DatasheetURL); err == nil {
			page.DatasheetURL = abs
		}
	}

	c.logger.Debug().
		Str("url", pageURL).
		Str("datasheet", page.DatasheetURL).
		Str("label_alt", page.EnergyLabelAlt).
		Bool("safety_panel", page.SafetyPanelText != "").
		Msg("parsed product page")
	return page, nil
}

// FetchDatasheet downloads the datasheet document bytes
func (c *Client) FetchDatasheet(ctx context.Context, link string) ([]byte, error) {
	abs, err := c.resolve(link)
	if err != nil {
		return nil, err
	}
	return c.get(ctx, abs, maxDatasheetBytes)
}
