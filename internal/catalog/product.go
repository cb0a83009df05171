package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// Availability describes stock state as reported by a source.
type Availability string

const (
	// AvailabilityUnknown means the source reported nothing usable.
	AvailabilityUnknown Availability = "unknown"
	// AvailabilityInStock means the listing is purchasable now.
	AvailabilityInStock Availability = "in_stock"
	// AvailabilityOutOfStock means the listing is sold out.
	AvailabilityOutOfStock Availability = "out_of_stock"
	// AvailabilityPreorder means the listing ships at a later date.
	AvailabilityPreorder Availability = "preorder"
)

// FitDescriptor captures what is known about a product's category, gender
// affinity, and available sizes.
type FitDescriptor struct {
	Category string   `json:"category,omitempty"`
	Gender   string   `json:"gender,omitempty"`
	Sizes    []string `json:"sizes,omitempty"`
}

// Product is a normalized external offering. Price is a pointer: absence
// means the candidate is scored price-neutral rather than excluded.
type Product struct {
	ID           string        `json:"id"`
	Slot         string        `json:"slot,omitempty"`
	Title        string        `json:"title"`
	Brand        string        `json:"brand,omitempty"`
	Retailer     string        `json:"retailer"`
	Price        *float64      `json:"price,omitempty"`
	Currency     string        `json:"currency,omitempty"`
	URL          string        `json:"url"`
	ImageURL     string        `json:"image_url,omitempty"`
	Availability Availability  `json:"availability"`
	Fit          FitDescriptor `json:"fit"`
	Source       string        `json:"source,omitempty"`
}

// ScoredCandidate pairs a product with its fitness score against one slot's
// constraints. It exists only during ranking and is never persisted.
type ScoredCandidate struct {
	Product Product
	Score   float64
}

// ProductID derives a deterministic identifier from a listing URL so the
// same physical listing deduplicates across adapters. The URL is normalized
// (lowercased host, no query, no fragment, no trailing slash) before
// hashing.
func ProductID(rawURL string) string {
	normalized := normalizeForID(rawURL)
	sum := sha256.Sum256([]byte(normalized))
	return "p_" + hex.EncodeToString(sum[:])[:16]
}

func normalizeForID(rawURL string) string {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return strings.TrimSpace(strings.ToLower(rawURL))
	}
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return strings.TrimSuffix(parsed.String(), "/")
}

// PriceOf returns the product price converted by the supplied convert
// function into the target currency, or nil when the product has no price.
func (p *Product) PriceOf(target string, convert func(amount float64, from, to string) float64) *float64 {
	if p.Price == nil {
		return nil
	}
	v := convert(*p.Price, p.Currency, target)
	return &v
}
