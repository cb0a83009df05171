// Package sources provides the product source adapters: isolated
// integrations with external retailers and search backends that all conform
// to one capability interface.
package sources

import (
	"context"
	"time"

	"github.com/jonathan/look-composer/internal/catalog"
)

// Query describes one slot search sent to an adapter.
type Query struct {
	Text       string
	Slot       string
	Category   string
	Retailer   string
	Gender     string
	Country    string
	MaxResults int
}

// SearchResult is the adapter response contract. A nil *SearchResult with a
// nil error means "adapter not applicable or unconfigured"; an empty Items
// slice means "ran, found nothing".
type SearchResult struct {
	Items   []catalog.Product `json:"items"`
	Source  string            `json:"source"`
	Latency time.Duration     `json:"latency"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// StockResult reports a listing's availability as checked by an adapter.
type StockResult struct {
	ID           string               `json:"id"`
	Availability catalog.Availability `json:"availability"`
	CheckedAt    time.Time            `json:"checked_at"`
}

// AffiliateLink is a monetized redirect for a product URL.
type AffiliateLink struct {
	URL      string `json:"url"`
	Retailer string `json:"retailer"`
}

// Adapter is the capability interface every product source implements.
// Implementations must never panic or propagate failures across this
// boundary: internal errors are absorbed and reported as empty results.
type Adapter interface {
	Name() string
	Search(ctx context.Context, q Query) (*SearchResult, error)
}

// StockChecker is the optional stock lookup capability.
type StockChecker interface {
	CheckStock(ctx context.Context, idOrURL string) (*StockResult, error)
}

// AffiliateLinker is the optional affiliate link building capability.
type AffiliateLinker interface {
	AffiliateLink(ctx context.Context, productURL string) (*AffiliateLink, error)
}

// PaletteExtractor is the optional image color palette capability.
type PaletteExtractor interface {
	ExtractPalette(ctx context.Context, imageURL string) ([]string, error)
}
