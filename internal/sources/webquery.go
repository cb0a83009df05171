package sources

import (
	"context"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/jonathan/look-composer/internal/catalog"
	"github.com/jonathan/look-composer/internal/fetch"
)

// defaultSearchEndpoint is the keyless HTML search backend.
const defaultSearchEndpoint = "https://html.duckduckgo.com/html/"

// maxResultPages bounds how many search hits the adapter fetches per query.
const maxResultPages = 3

// WebQueryAdapter issues a keyless web search, fetches the top result
// pages, and extracts one product per page via structured metadata or
// social-preview meta tags as a last resort.
type WebQueryAdapter struct {
	Fetch  *fetch.Options
	Logger zerolog.Logger

	// Endpoint overrides the search backend when set. Tests point it at a
	// local server.
	Endpoint string
}

// NewWebQueryAdapter creates the generic web search adapter.
func NewWebQueryAdapter(logger zerolog.Logger) *WebQueryAdapter {
	return &WebQueryAdapter{
		Fetch:  fetch.DefaultOptions(),
		Logger: logger.With().Str("adapter", "webquery").Logger(),
	}
}

// Name returns the adapter's source tag.
func (a *WebQueryAdapter) Name() string {
	return "webquery"
}

// Search runs the keyless search and extracts products from the top hits.
// All failures are absorbed into an empty result.
func (a *WebQueryAdapter) Search(ctx context.Context, q Query) (result *SearchResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			a.Logger.Error().Str("slot", q.Slot).Msgf("recovered from panic: %v", r)
			result = a.emptyResult(0)
			err = nil
		}
	}()

	start := time.Now()

	endpoint := a.Endpoint
	if endpoint == "" {
		endpoint = defaultSearchEndpoint
	}

	searchText := q.Text + " buy online"
	searchURL := endpoint + "?q=" + url.QueryEscape(searchText)

	page, fetchErr := fetch.URL(ctx, searchURL, a.Fetch)
	if fetchErr != nil {
		a.Logger.Warn().Str("slot", q.Slot).Err(fetchErr).Msg("web search failed")
		return a.emptyResult(time.Since(start)), nil
	}

	doc, parseErr := fetch.Document(page.HTML)
	if parseErr != nil {
		return a.emptyResult(time.Since(start)), nil
	}

	links := a.resultLinks(doc, searchURL)

	var items []catalog.Product
	for _, link := range links {
		if len(items) >= maxResultPages {
			break
		}
		if product, ok := a.extractFromPage(ctx, link); ok {
			product.Source = a.Name()
			if product.Retailer == "" {
				product.Retailer = hostLabel(link)
			}
			if product.Fit.Category == "" {
				product.Fit.Category = q.Category
			}
			items = append(items, product)
		}
	}

	if items == nil {
		items = []catalog.Product{}
	}
	return &SearchResult{
		Items:   items,
		Source:  a.Name(),
		Latency: time.Since(start),
		Meta:    map[string]string{"query": searchText},
	}, nil
}

// resultLinks pulls outbound result URLs from the search results page,
// unwrapping the backend's redirect links where present.
func (a *WebQueryAdapter) resultLinks(doc *goquery.Document, baseURL string) []string {
	seen := make(map[string]bool)
	var links []string

	doc.Find("a.result__a, a.result-link, a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}

		// DuckDuckGo wraps results as /l/?uddg=<encoded target>
		if strings.Contains(href, "uddg=") {
			if parsed, err := url.Parse(href); err == nil {
				if target := parsed.Query().Get("uddg"); target != "" {
					href = target
				}
			}
		}

		normalized := NormalizeURL(href, baseURL)
		parsed, err := url.Parse(normalized)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return
		}
		// Skip the search engine's own navigation links
		if strings.Contains(parsed.Host, "duckduckgo.") {
			return
		}
		if seen[normalized] {
			return
		}
		seen[normalized] = true
		links = append(links, normalized)
	})

	return links
}

// extractFromPage fetches one result page and extracts a single product.
func (a *WebQueryAdapter) extractFromPage(ctx context.Context, pageURL string) (catalog.Product, bool) {
	page, err := fetch.URL(ctx, pageURL, a.Fetch)
	if err != nil {
		a.Logger.Debug().Str("url", pageURL).Err(err).Msg("result page fetch failed")
		return catalog.Product{}, false
	}

	doc, err := fetch.Document(page.HTML)
	if err != nil {
		return catalog.Product{}, false
	}

	if products := ExtractJSONLDProducts(doc, pageURL); len(products) > 0 {
		return products[0], true
	}
	return ExtractMetaProduct(doc, pageURL)
}

// ExtractPalette names the dominant colors suggested by an image URL's
// slug. It is a deterministic heuristic over the path text: no image bytes
// are decoded. Implements the optional PaletteExtractor capability.
func (a *WebQueryAdapter) ExtractPalette(_ context.Context, imageURL string) ([]string, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return nil, nil
	}

	slug := strings.ToLower(path.Base(parsed.Path))
	slug = strings.NewReplacer("-", " ", "_", " ", ".", " ").Replace(slug)

	var palette []string
	for _, color := range knownColorTokens {
		if strings.Contains(slug, color) {
			palette = append(palette, color)
		}
	}
	return palette, nil
}

// knownColorTokens is the color vocabulary recognized in slugs and titles.
var knownColorTokens = []string{
	"black", "white", "beige", "cream", "ivory", "navy", "blue", "red",
	"green", "olive", "brown", "tan", "camel", "grey", "gray", "pink",
	"purple", "yellow", "orange", "gold", "silver", "burgundy", "khaki",
}

func hostLabel(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return "web"
	}
	host := strings.TrimPrefix(strings.ToLower(parsed.Host), "www.")
	if host == "" {
		return "web"
	}
	return host
}

func (a *WebQueryAdapter) emptyResult(latency time.Duration) *SearchResult {
	return &SearchResult{
		Items:   []catalog.Product{},
		Source:  a.Name(),
		Latency: latency,
	}
}

var _ Adapter = (*WebQueryAdapter)(nil)
var _ PaletteExtractor = (*WebQueryAdapter)(nil)
