package shop

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/productscout/backend/internal/domain"
)

// cardSelectors are tried in order; the first one that matches any element wins
var cardSelectors = []string{
	"article",
	"[data-testid*='product']",
	".product-card",
	".js_productCard",
	"[class*='productCard']",
	"[class*='ProductCard']",
}

var nextPageSelectors = []string{
	"link[rel='next']",
	"a[rel='next']",
	"[class*='pagination'] a[class*='next']",
}

const productLinkSelector = "a[href*='/p/']"

// SearchResults is a paginated result list. Every loaded page appends its
// cards; Listings returns all cards loaded so far.
type SearchResults struct {
	client   *Client
	cards    []domain.Listing
	next     string
	pages    int
	maxPages int
}

// Listings returns the cards of every page loaded so far
func (r *SearchResults) Listings(ctx context.Context) ([]domain.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.Listing, len(r.cards))
	copy(out, r.cards)
	return out, nil
}

// LoadMore fetches the next result page. It returns domain.ErrNoMoreListings
// when the list has no further page or the page cap is reached.
func (r *SearchResults) LoadMore(ctx context.Context) error {
	if r.next == "" || r.pages >= r.maxPages {
		return domain.ErrNoMoreListings
	}

	doc, err := r.client.getDocument(ctx, r.next)
	if err != nil {
		return fmt.Errorf("loading result page %d: %w", r.pages+1, err)
	}
	r.pages++

	cards := parseCards(doc)
	r.cards = append(r.cards, cards...)
	r.client.logger.Debug().
		Str("url", r.next).
		Int("page", r.pages).
		Int("cards", len(cards)).
		Msg("result page loaded")

	r.next = ""
	if href := nextPageLink(doc); href != "" {
		if abs, err := r.client.resolve(href); err == nil {
			r.next = abs
		}
	}
	return nil
}

// parseCards reads the product cards of a result page. Cards without a
// product link are skipped since there is nothing to open for them.
func parseCards(doc *goquery.Document) []domain.Listing {
	var cards *goquery.Selection
	for _, sel := range cardSelectors {
		if found := doc.Find(sel); found.Length() > 0 {
			cards = found
			break
		}
	}
	if cards == nil {
		return nil
	}

	var listings []domain.Listing
	cards.Each(func(_ int, card *goquery.Selection) {
		link := card.Find(productLinkSelector).First()
		href, ok := link.Attr("href")
		if !ok || href == "" {
			return
		}
		listings = append(listings, domain.ListingCard{
			DisplayText: innerText(card),
			TitleText:   cardTitle(card, link),
			LinkRef:     href,
		})
	})
	return listings
}

// cardTitle prefers the product link's aria-label, then its text, then the first heading
func cardTitle(card, link *goquery.Selection) string {
	if aria, ok := link.Attr("aria-label"); ok && aria != "" {
		return aria
	}
	if text := oneLine(link); text != "" {
		return text
	}
	return oneLine(card.Find("h2, h3, h4").First())
}

func nextPageLink(doc *goquery.Document) string {
	for _, sel := range nextPageSelectors {
		if href, ok := doc.Find(sel).First().Attr("href"); ok && href != "" {
			return href
		}
	}
	return ""
}
