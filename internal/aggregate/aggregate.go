// Package aggregate fans a slot query out to an ordered adapter list and
// merges the results into one deduplicated candidate pool.
package aggregate

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jonathan/look-composer/internal/catalog"
	"github.com/jonathan/look-composer/internal/sources"
)

// Aggregator calls adapters in priority order and accumulates candidates.
type Aggregator struct {
	Adapters []sources.Adapter
	Logger   zerolog.Logger
}

// New creates an aggregator over a priority-ordered adapter list.
func New(adapters []sources.Adapter, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		Adapters: adapters,
		Logger:   logger.With().Str("component", "aggregate").Logger(),
	}
}

// Collect runs the query against each adapter in order, deduplicating by
// normalized URL (brand+title composite when no URL) and stopping once
// `want` unique items are gathered. One adapter failing or returning
// nothing never aborts the aggregation. Returns nil only when no adapter
// produced any item.
func (a *Aggregator) Collect(ctx context.Context, q sources.Query, want int) []catalog.Product {
	if want <= 0 {
		want = 10
	}

	seen := make(map[string]bool)
	var merged []catalog.Product

	for _, adapter := range a.Adapters {
		if len(merged) >= want {
			break
		}

		result, err := adapter.Search(ctx, q)
		if err != nil {
			a.Logger.Warn().
				Str("retailer", adapter.Name()).
				Str("slot", q.Slot).
				Err(err).
				Msg("adapter search failed, skipping")
			continue
		}
		if result == nil {
			// Adapter not applicable or unconfigured
			continue
		}

		for _, item := range result.Items {
			if len(merged) >= want {
				break
			}
			key := sources.DedupKey(item.URL, item.Brand, item.Title)
			if key == "" || key == "|" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, item)
		}
	}

	if len(merged) == 0 {
		return nil
	}
	return merged
}
