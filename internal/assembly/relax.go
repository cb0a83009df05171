package assembly

import (
	"strings"

	"github.com/jonathan/look-composer/internal/catalog"
)

// relaxPriceFactor widens an unresolved slot's price band by roughly ±10%.
const relaxPriceFactor = 0.10

// neutralColors are unioned into a relaxed slot's allow-list. Fixed set;
// product has not asked for category-dependent neutrals.
var neutralColors = []string{"black", "white", "beige", "navy", "grey"}

// genericKeywords broaden a relaxed slot's keyword set.
var genericKeywords = []string{"classic", "essential"}

// RelaxConstraints returns a widened copy of a slot constraint: the price
// band grows by the relax factor in both directions, safe neutral colors
// join the allow-list, and the slot's own category plus generic descriptors
// join the keywords. The input is never mutated, and the relaxed band
// always satisfies min' <= min and max' >= max.
func RelaxConstraints(c catalog.SlotConstraint) catalog.SlotConstraint {
	relaxed := catalog.SlotConstraint{
		Slot:            c.Slot,
		Category:        c.Category,
		Keywords:        appendMissing(cloneTokens(c.Keywords), relaxedKeywords(c)...),
		AllowedColors:   appendMissing(cloneTokens(c.AllowedColors), neutralColors...),
		BannedMaterials: cloneTokens(c.BannedMaterials),
		MinPrice:        c.MinPrice * (1 - relaxPriceFactor),
		MaxPrice:        c.MaxPrice * (1 + relaxPriceFactor),
	}
	if relaxed.MinPrice < 0 {
		relaxed.MinPrice = 0
	}
	return relaxed
}

func relaxedKeywords(c catalog.SlotConstraint) []string {
	extra := make([]string, 0, len(genericKeywords)+2)
	if c.Category != "" {
		extra = append(extra, c.Category)
	}
	if c.Slot != "" && !strings.EqualFold(c.Slot, c.Category) {
		extra = append(extra, c.Slot)
	}
	return append(extra, genericKeywords...)
}

func cloneTokens(tokens []string) []string {
	out := make([]string, len(tokens))
	copy(out, tokens)
	return out
}

// appendMissing appends the additions that are not already present,
// case-insensitively.
func appendMissing(base []string, additions ...string) []string {
	seen := make(map[string]bool, len(base))
	for _, t := range base {
		seen[strings.ToLower(t)] = true
	}
	for _, add := range additions {
		key := strings.ToLower(add)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		base = append(base, add)
	}
	return base
}
