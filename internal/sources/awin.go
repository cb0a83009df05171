package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/look-composer/internal/catalog"
	"github.com/jonathan/look-composer/internal/currency"
)

// awinAPIBase is the commission network's product search endpoint.
const awinAPIBase = "https://api.awin.com"

// AwinConfig holds the commission network credentials. Both fields must be
// set for the adapter to be considered configured.
type AwinConfig struct {
	APIToken    string
	PublisherID string
}

// AwinAdapter calls the Awin partner API for affiliate product feeds.
// When unconfigured every operation returns nil, signaling "adapter
// unavailable" distinctly from "adapter found nothing".
type AwinAdapter struct {
	Config  AwinConfig
	Client  *http.Client
	Logger  zerolog.Logger
	BaseURL string
}

// NewAwinAdapter creates the commission-network adapter.
func NewAwinAdapter(cfg AwinConfig, logger zerolog.Logger) *AwinAdapter {
	return &AwinAdapter{
		Config:  cfg,
		Client:  &http.Client{Timeout: 10 * time.Second},
		Logger:  logger.With().Str("adapter", "awin").Logger(),
		BaseURL: awinAPIBase,
	}
}

// Name returns the adapter's source tag.
func (a *AwinAdapter) Name() string {
	return "awin"
}

// configured reports whether API credentials are present.
func (a *AwinAdapter) configured() bool {
	return a.Config.APIToken != "" && a.Config.PublisherID != ""
}

// awinProduct mirrors the relevant fields of the partner API response.
type awinProduct struct {
	ProductID    string  `json:"productId"`
	ProductName  string  `json:"productName"`
	BrandName    string  `json:"brandName"`
	MerchantName string  `json:"merchantName"`
	Price        float64 `json:"price"`
	CurrencyCode string  `json:"currency"`
	DeepLink     string  `json:"deepLink"`
	ImageURL     string  `json:"imageUrl"`
	InStock      bool    `json:"inStock"`
}

// Search queries the partner API. Returns nil when unconfigured; API
// failures are absorbed into an empty result.
func (a *AwinAdapter) Search(ctx context.Context, q Query) (*SearchResult, error) {
	if !a.configured() {
		return nil, nil
	}

	start := time.Now()

	endpoint := fmt.Sprintf("%s/publishers/%s/product-search?query=%s&limit=%d",
		a.BaseURL, url.PathEscape(a.Config.PublisherID), url.QueryEscape(q.Text), maxOrDefault(q.MaxResults, 10))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return a.emptyResult(time.Since(start)), nil
	}
	req.Header.Set("Authorization", "Bearer "+a.Config.APIToken)
	req.Header.Set("Accept", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		a.Logger.Warn().Str("slot", q.Slot).Err(err).Msg("partner API request failed")
		return a.emptyResult(time.Since(start)), nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		a.Logger.Warn().Str("slot", q.Slot).Int("status", resp.StatusCode).Msg("partner API returned non-200")
		return a.emptyResult(time.Since(start)), nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return a.emptyResult(time.Since(start)), nil
	}

	var payload struct {
		Products []awinProduct `json:"products"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		a.Logger.Warn().Str("slot", q.Slot).Err(err).Msg("partner API response malformed")
		return a.emptyResult(time.Since(start)), nil
	}

	items := make([]catalog.Product, 0, len(payload.Products))
	for _, ap := range payload.Products {
		if ap.ProductName == "" || ap.DeepLink == "" {
			continue
		}
		productURL := NormalizeURL(ap.DeepLink, "")
		price := ap.Price
		p := catalog.Product{
			ID:           ap.ProductID,
			Title:        ap.ProductName,
			Brand:        ap.BrandName,
			Retailer:     ap.MerchantName,
			Price:        &price,
			Currency:     currency.NormalizeCode(ap.CurrencyCode),
			URL:          productURL,
			ImageURL:     ap.ImageURL,
			Availability: catalog.AvailabilityUnknown,
			Source:       a.Name(),
			Fit:          catalog.FitDescriptor{Category: q.Category},
		}
		if p.ID == "" {
			p.ID = catalog.ProductID(productURL)
		}
		if ap.InStock {
			p.Availability = catalog.AvailabilityInStock
		}
		items = append(items, p)
	}

	return &SearchResult{
		Items:   items,
		Source:  a.Name(),
		Latency: time.Since(start),
	}, nil
}

// AffiliateLink builds a monetized deep link for a product URL. Returns nil
// when unconfigured. Implements the optional AffiliateLinker capability.
func (a *AwinAdapter) AffiliateLink(_ context.Context, productURL string) (*AffiliateLink, error) {
	if !a.configured() {
		return nil, nil
	}

	deepLink := fmt.Sprintf("https://www.awin1.com/cread.php?awinaffid=%s&ued=%s",
		url.QueryEscape(a.Config.PublisherID), url.QueryEscape(productURL))

	return &AffiliateLink{
		URL:      deepLink,
		Retailer: hostLabel(productURL),
	}, nil
}

func (a *AwinAdapter) emptyResult(latency time.Duration) *SearchResult {
	return &SearchResult{
		Items:   []catalog.Product{},
		Source:  a.Name(),
		Latency: latency,
	}
}

func maxOrDefault(n, fallback int) int {
	if n > 0 {
		return n
	}
	return fallback
}

var _ Adapter = (*AwinAdapter)(nil)
var _ AffiliateLinker = (*AwinAdapter)(nil)
