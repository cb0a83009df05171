package sources

import (
	"context"
	"strings"
	"time"

	"github.com/jonathan/look-composer/internal/catalog"
)

// SeedCatalogAdapter serves a small curated in-memory catalog. It is the
// last-resort backstop: when every live source fails, common categories
// still produce at least one candidate.
type SeedCatalogAdapter struct {
	products []catalog.Product
}

// NewSeedCatalogAdapter creates the backstop adapter with the built-in
// catalog.
func NewSeedCatalogAdapter() *SeedCatalogAdapter {
	return &SeedCatalogAdapter{products: seedProducts()}
}

// Name returns the adapter's source tag.
func (a *SeedCatalogAdapter) Name() string {
	return "seed_catalog"
}

// Search matches seed products by category and query tokens. It never
// fails and needs no network.
func (a *SeedCatalogAdapter) Search(_ context.Context, q Query) (*SearchResult, error) {
	start := time.Now()

	tokens := strings.Fields(strings.ToLower(q.Text))
	category := strings.ToLower(q.Category)

	var items []catalog.Product
	for _, p := range a.products {
		if category != "" && strings.EqualFold(p.Fit.Category, category) {
			items = append(items, p)
			continue
		}
		haystack := strings.ToLower(p.Title + " " + p.Brand + " " + p.Fit.Category)
		for _, token := range tokens {
			if strings.Contains(haystack, token) {
				items = append(items, p)
				break
			}
		}
	}

	limit := q.MaxResults
	if limit <= 0 {
		limit = 5
	}
	if len(items) > limit {
		items = items[:limit]
	}
	if items == nil {
		items = []catalog.Product{}
	}

	out := make([]catalog.Product, len(items))
	copy(out, items)
	for i := range out {
		out[i].Source = a.Name()
	}

	return &SearchResult{
		Items:   out,
		Source:  a.Name(),
		Latency: time.Since(start),
	}, nil
}

func price(v float64) *float64 { return &v }

// seedProducts returns the curated backstop catalog. Categories cover every
// slot in the plan vocabulary so relaxation can always terminate.
func seedProducts() []catalog.Product {
	items := []catalog.Product{
		{Title: "Relaxed Cotton Tee", Brand: "Arket", Retailer: "arket", Price: price(19), Currency: "EUR",
			URL: "https://www.arket.com/product/relaxed-cotton-tee", Availability: catalog.AvailabilityInStock,
			Fit: catalog.FitDescriptor{Category: "top", Sizes: []string{"XS", "S", "M", "L", "XL"}}},
		{Title: "White Silk Blouse", Brand: "Massimo Dutti", Retailer: "massimodutti", Price: price(69), Currency: "EUR",
			URL: "https://www.massimodutti.com/product/white-silk-blouse", Availability: catalog.AvailabilityInStock,
			Fit: catalog.FitDescriptor{Category: "top", Gender: "women", Sizes: []string{"XS", "S", "M", "L"}}},
		{Title: "Striped Knit Sweater", Brand: "COS", Retailer: "cos", Price: price(59), Currency: "EUR",
			URL: "https://www.cos.com/product/striped-knit-sweater", Availability: catalog.AvailabilityInStock,
			Fit: catalog.FitDescriptor{Category: "top"}},

		{Title: "High-Waist Straight Jeans", Brand: "Levi's", Retailer: "levis", Price: price(89), Currency: "EUR",
			URL: "https://www.levis.com/product/high-waist-straight-jeans", Availability: catalog.AvailabilityInStock,
			Fit: catalog.FitDescriptor{Category: "bottom", Sizes: []string{"26", "28", "30", "32"}}},
		{Title: "Tailored Wool Trousers", Brand: "Hugo Boss", Retailer: "hugoboss", Price: price(119), Currency: "EUR",
			URL: "https://www.hugoboss.com/product/tailored-wool-trousers", Availability: catalog.AvailabilityInStock,
			Fit: catalog.FitDescriptor{Category: "bottom"}},

		{Title: "Black Midi Slip Dress", Brand: "& Other Stories", Retailer: "stories", Price: price(79), Currency: "EUR",
			URL: "https://www.stories.com/product/black-midi-slip-dress", Availability: catalog.AvailabilityInStock,
			Fit: catalog.FitDescriptor{Category: "dress", Gender: "women"}},
		{Title: "Floral Wrap Dress", Brand: "Mango", Retailer: "mango", Price: price(49), Currency: "EUR",
			URL: "https://shop.mango.com/product/floral-wrap-dress", Availability: catalog.AvailabilityInStock,
			Fit: catalog.FitDescriptor{Category: "dress", Gender: "women"}},

		{Title: "Oversized Wool Blazer", Brand: "COS", Retailer: "cos", Price: price(150), Currency: "EUR",
			URL: "https://www.cos.com/product/oversized-wool-blazer", Availability: catalog.AvailabilityInStock,
			Fit: catalog.FitDescriptor{Category: "anchor"}},
		{Title: "Classic Trench Coat", Brand: "Mango", Retailer: "mango", Price: price(99), Currency: "EUR",
			URL: "https://shop.mango.com/product/classic-trench-coat", Availability: catalog.AvailabilityInStock,
			Fit: catalog.FitDescriptor{Category: "outerwear"}},
		{Title: "Beige Longline Coat", Brand: "Arket", Retailer: "arket", Price: price(180), Currency: "EUR",
			URL: "https://www.arket.com/product/beige-longline-coat", Availability: catalog.AvailabilityInStock,
			Fit: catalog.FitDescriptor{Category: "outerwear"}},

		{Title: "White Leather Sneakers", Brand: "Veja", Retailer: "veja", Price: price(120), Currency: "EUR",
			URL: "https://www.veja-store.com/product/white-leather-sneakers", Availability: catalog.AvailabilityInStock,
			Fit: catalog.FitDescriptor{Category: "shoe", Sizes: []string{"36", "38", "40", "42", "44"}}},
		{Title: "Black Leather Loafers", Brand: "Vagabond", Retailer: "vagabond", Price: price(110), Currency: "EUR",
			URL: "https://www.vagabond.com/product/black-leather-loafers", Availability: catalog.AvailabilityInStock,
			Fit: catalog.FitDescriptor{Category: "shoe"}},

		{Title: "Leather Crossbody Bag", Brand: "Coach", Retailer: "coach", Price: price(150), Currency: "EUR",
			URL: "https://www.coach.com/product/leather-crossbody-bag", Availability: catalog.AvailabilityInStock,
			Fit: catalog.FitDescriptor{Category: "bag"}},
		{Title: "Canvas Tote Bag", Brand: "Arket", Retailer: "arket", Price: price(39), Currency: "EUR",
			URL: "https://www.arket.com/product/canvas-tote-bag", Availability: catalog.AvailabilityInStock,
			Fit: catalog.FitDescriptor{Category: "bag"}},

		{Title: "Gold-Tone Hoop Earrings", Brand: "Pilgrim", Retailer: "pilgrim", Price: price(25), Currency: "EUR",
			URL: "https://www.pilgrim.com/product/gold-tone-hoop-earrings", Availability: catalog.AvailabilityInStock,
			Fit: catalog.FitDescriptor{Category: "accessory"}},
		{Title: "Silk Square Scarf", Brand: "Mango", Retailer: "mango", Price: price(29), Currency: "EUR",
			URL: "https://shop.mango.com/product/silk-square-scarf", Availability: catalog.AvailabilityInStock,
			Fit: catalog.FitDescriptor{Category: "accessory"}},
	}

	for i := range items {
		items[i].ID = catalog.ProductID(items[i].URL)
	}
	return items
}

var _ Adapter = (*SeedCatalogAdapter)(nil)
