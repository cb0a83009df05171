// Package ranking scores candidate products against a slot's constraints
// and orders them best-first.
package ranking

import (
	"strings"

	"github.com/jonathan/look-composer/internal/catalog"
	"github.com/jonathan/look-composer/internal/currency"
)

// Weights and penalties for scoring components
const (
	keywordWeight      = 2.0
	colorMatchBonus    = 1.0
	materialPenalty    = -2.0
	outOfBandPenalty   = -1.5
	fitCompatBonus     = 0.5
)

// computeKeywordScore counts slot keywords found in the candidate's title
// and brand text, weighted. Matching is case-insensitive substring.
func computeKeywordScore(p *catalog.Product, keywords []string) float64 {
	if len(keywords) == 0 {
		return 0.0
	}

	haystack := strings.ToLower(p.Title + " " + p.Brand)
	matches := 0
	for _, keyword := range keywords {
		k := strings.ToLower(strings.TrimSpace(keyword))
		if k == "" {
			continue
		}
		if strings.Contains(haystack, k) {
			matches++
		}
	}

	return keywordWeight * float64(matches)
}

// computeColorScore is binary: any allowed color token present in the title
// earns the bonus.
func computeColorScore(p *catalog.Product, allowedColors []string) float64 {
	if len(allowedColors) == 0 {
		return 0.0
	}

	title := strings.ToLower(p.Title)
	for _, color := range allowedColors {
		c := strings.ToLower(strings.TrimSpace(color))
		if c != "" && strings.Contains(title, c) {
			return colorMatchBonus
		}
	}
	return 0.0
}

// computePriceScore scores price-band fit using the price converted into
// the plan's target currency: 1.0 at the band midpoint, decaying linearly
// to 0 at the edges. Out-of-band prices take a fixed negative penalty so an
// in-band-but-imperfect candidate always beats any out-of-band one.
// Candidates without a parseable price are price-neutral.
func computePriceScore(p *catalog.Product, c *catalog.SlotConstraint, targetCurrency string) float64 {
	if p.Price == nil {
		return 0.0
	}
	if c.MaxPrice <= 0 && c.MinPrice <= 0 {
		return 0.0
	}

	converted := currency.Convert(*p.Price, p.Currency, targetCurrency)

	if converted < c.MinPrice || converted > c.MaxPrice {
		return outOfBandPenalty
	}

	mid := (c.MinPrice + c.MaxPrice) / 2
	halfWidth := (c.MaxPrice - c.MinPrice) / 2
	if halfWidth == 0 {
		return 1.0
	}

	distance := converted - mid
	if distance < 0 {
		distance = -distance
	}
	return 1.0 - distance/halfWidth
}

// computeMaterialScore applies a fixed penalty when any denied material
// token appears in the candidate's title.
func computeMaterialScore(p *catalog.Product, bannedMaterials []string) float64 {
	if len(bannedMaterials) == 0 {
		return 0.0
	}

	title := strings.ToLower(p.Title)
	for _, material := range bannedMaterials {
		m := strings.ToLower(strings.TrimSpace(material))
		if m != "" && strings.Contains(title, m) {
			return materialPenalty
		}
	}
	return 0.0
}

// computeFitScore grants a bonus when both the plan and the candidate
// specify gender or sizes and they are compatible.
func computeFitScore(p *catalog.Product, prefs *catalog.Preferences) float64 {
	if prefs == nil {
		return 0.0
	}

	score := 0.0

	if prefs.Gender != "" && p.Fit.Gender != "" {
		if strings.EqualFold(prefs.Gender, p.Fit.Gender) || strings.EqualFold(p.Fit.Gender, "unisex") {
			score += fitCompatBonus
		}
	}

	if len(prefs.Sizes) > 0 && len(p.Fit.Sizes) > 0 {
		for _, want := range prefs.Sizes {
			for _, have := range p.Fit.Sizes {
				if strings.EqualFold(want, have) {
					return score + fitCompatBonus
				}
			}
		}
	}

	return score
}
