package ranking

import (
	"sort"

	"github.com/jonathan/look-composer/internal/catalog"
)

// Score computes the scalar fitness of one candidate against a slot's
// constraints: keyword overlap, color match, price-band fit, banned
// material penalty, and gender/size compatibility.
func Score(p *catalog.Product, c *catalog.SlotConstraint, prefs *catalog.Preferences, targetCurrency string) float64 {
	if c == nil {
		return 0.0
	}

	return computeKeywordScore(p, c.Keywords) +
		computeColorScore(p, c.AllowedColors) +
		computePriceScore(p, c, targetCurrency) +
		computeMaterialScore(p, c.BannedMaterials) +
		computeFitScore(p, prefs)
}

// Rank scores every candidate and returns them ordered best-first. The
// sort is stable: ties keep the candidates' input order, so adapter
// priority survives as the implicit tie-break.
func Rank(candidates []catalog.Product, c *catalog.SlotConstraint, prefs *catalog.Preferences, targetCurrency string) []catalog.ScoredCandidate {
	scored := make([]catalog.ScoredCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		scored = append(scored, catalog.ScoredCandidate{
			Product: candidate,
			Score:   Score(&candidate, c, prefs, targetCurrency),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}
