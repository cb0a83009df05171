package sources

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/jonathan/look-composer/internal/catalog"
	"github.com/jonathan/look-composer/internal/fetch"
)

// StructuredPageAdapter scrapes a retailer's search results page. It
// prefers embedded schema.org product metadata and falls back to naive
// anchor scraping of product cards when no structured block is present.
type StructuredPageAdapter struct {
	Retailer   string
	Platform   fetch.Platform
	Fetch      *fetch.Options
	UseBrowser bool
	Logger     zerolog.Logger

	// SearchBase overrides the platform search URL when set. Tests point
	// it at a local server.
	SearchBase string
}

// NewStructuredPageAdapter creates an adapter for one retailer platform.
func NewStructuredPageAdapter(retailer string, platform fetch.Platform, logger zerolog.Logger) *StructuredPageAdapter {
	return &StructuredPageAdapter{
		Retailer: retailer,
		Platform: platform,
		Fetch:    fetch.DefaultOptions(),
		Logger:   logger.With().Str("adapter", "structured_page").Str("retailer", retailer).Logger(),
	}
}

// Name returns the adapter's source tag.
func (a *StructuredPageAdapter) Name() string {
	return "structured_page:" + a.Retailer
}

// Search fetches the platform's search results page for the query and
// extracts candidate products. Failures are absorbed: network or parse
// errors yield an empty result, never an error the caller must handle.
func (a *StructuredPageAdapter) Search(ctx context.Context, q Query) (result *SearchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.Logger.Error().Str("slot", q.Slot).Msgf("recovered from panic: %v", r)
			result = a.emptyResult(0)
			err = nil
		}
	}()

	start := time.Now()

	searchURL := fetch.SearchURL(a.Platform, q.Text)
	if a.SearchBase != "" {
		searchURL = a.SearchBase + "?q=" + url.QueryEscape(q.Text)
	}
	if searchURL == "" {
		// Platform has no search endpoint: adapter not applicable
		return nil, nil
	}

	page, fetchErr := fetch.URL(ctx, searchURL, a.Fetch)
	if fetchErr != nil {
		a.Logger.Warn().Str("slot", q.Slot).Err(fetchErr).Msg("search page fetch failed")
		return a.emptyResult(time.Since(start)), nil
	}

	doc, parseErr := fetch.Document(page.HTML)
	if parseErr != nil {
		a.Logger.Warn().Str("slot", q.Slot).Err(parseErr).Msg("search page parse failed")
		return a.emptyResult(time.Since(start)), nil
	}

	// Thin extracted text means a script-rendered storefront; re-fetch
	// through the headless browser when that is enabled
	if a.UseBrowser && fetch.ShouldUseBrowser(fetch.CleanText(doc.Text())) {
		if rendered, browserErr := fetch.BrowserSimple(ctx, searchURL, false); browserErr == nil {
			if renderedDoc, renderedErr := fetch.Document(rendered); renderedErr == nil {
				doc = renderedDoc
			}
		}
	}

	items := ExtractJSONLDProducts(doc, searchURL)
	if len(items) == 0 {
		items = a.scrapeAnchors(doc, searchURL, q)
	}

	limit := q.MaxResults
	if limit <= 0 {
		limit = 10
	}
	if len(items) > limit {
		items = items[:limit]
	}

	for i := range items {
		items[i].Source = a.Name()
		if items[i].Retailer == "" {
			items[i].Retailer = a.Retailer
		}
		if items[i].Fit.Category == "" {
			items[i].Fit.Category = q.Category
		}
	}

	return &SearchResult{
		Items:   items,
		Source:  a.Name(),
		Latency: time.Since(start),
		Meta:    map[string]string{"url": searchURL},
	}, nil
}

// scrapeAnchors is the fallback extraction path: walk the platform's
// product-card selectors and build bare products from link anchors.
func (a *StructuredPageAdapter) scrapeAnchors(doc *goquery.Document, baseURL string, q Query) []catalog.Product {
	// Navigation, footers, and recommendation rails carry product-shaped
	// links that are not search results
	for _, selector := range fetch.NoiseSelectors() {
		doc.Find(selector).Remove()
	}

	seen := make(map[string]bool)
	var items []catalog.Product

	for _, selector := range fetch.ProductCardSelectors(a.Platform) {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			href, exists := s.Attr("href")
			if !exists || href == "" {
				return
			}

			productURL := NormalizeURL(href, baseURL)
			if productURL == "" || seen[productURL] {
				return
			}

			title := strings.TrimSpace(s.AttrOr("title", ""))
			if title == "" {
				title = fetchCleanTitle(s.Text())
			}
			if title == "" || len(title) > 200 {
				return
			}

			seen[productURL] = true
			product := catalog.Product{
				ID:           catalog.ProductID(productURL),
				Title:        title,
				Retailer:     a.Retailer,
				URL:          productURL,
				Availability: catalog.AvailabilityUnknown,
				Fit:          catalog.FitDescriptor{Category: q.Category},
			}
			if img, ok := s.Find("img").First().Attr("src"); ok {
				product.ImageURL = NormalizeURL(img, baseURL)
			}
			if priceText := s.Find("[class*='price'], .price").First().Text(); priceText != "" {
				if price, ok := ParsePrice(priceText); ok {
					product.Price = &price
				}
			}
			items = append(items, product)
		})

		if len(items) > 0 {
			break
		}
	}

	return items
}

// CheckStock re-fetches a product page and reads its structured
// availability. Implements the optional StockChecker capability.
func (a *StructuredPageAdapter) CheckStock(ctx context.Context, idOrURL string) (*StockResult, error) {
	if !strings.HasPrefix(idOrURL, "http") {
		return nil, nil
	}

	page, err := fetch.URL(ctx, idOrURL, a.Fetch)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("stock check fetch failed")
		return nil, nil
	}
	doc, err := fetch.Document(page.HTML)
	if err != nil {
		return nil, nil
	}

	availability := catalog.AvailabilityUnknown
	if products := ExtractJSONLDProducts(doc, idOrURL); len(products) > 0 {
		availability = products[0].Availability
	}

	return &StockResult{
		ID:           catalog.ProductID(idOrURL),
		Availability: availability,
		CheckedAt:    time.Now().UTC(),
	}, nil
}

func (a *StructuredPageAdapter) emptyResult(latency time.Duration) *SearchResult {
	return &SearchResult{
		Items:   []catalog.Product{},
		Source:  a.Name(),
		Latency: latency,
	}
}

var _ Adapter = (*StructuredPageAdapter)(nil)
var _ StockChecker = (*StructuredPageAdapter)(nil)
