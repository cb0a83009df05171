package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Fingerprint computes a deterministic hash of a plan's normalized
// constraint material. Two plans that differ only in field order, keyword
// case, or sub-unit price noise fingerprint identically, so cached assembly
// results can be shared between them. LookID is deliberately excluded.
func Fingerprint(p *StylePlan) string {
	var sb strings.Builder

	required := normalizeTokens(p.RequiredSlots)
	sb.WriteString("slots:")
	sb.WriteString(strings.Join(required, ","))
	sb.WriteString(";")

	constraints := make([]string, 0, len(p.PerSlot))
	for _, c := range p.PerSlot {
		constraints = append(constraints, fmt.Sprintf(
			"%s|%s|%s|%s|%s|%d|%d",
			strings.ToLower(c.Slot),
			strings.ToLower(c.Category),
			strings.Join(normalizeTokens(c.Keywords), ","),
			strings.Join(normalizeTokens(c.AllowedColors), ","),
			strings.Join(normalizeTokens(c.BannedMaterials), ","),
			int(c.MinPrice+0.5),
			int(c.MaxPrice+0.5),
		))
	}
	sort.Strings(constraints)
	sb.WriteString("per_slot:")
	sb.WriteString(strings.Join(constraints, ";"))

	sb.WriteString(fmt.Sprintf(";budget:%d:%s", int(p.BudgetTotal+0.5),
		strings.ToUpper(p.Currency)))
	sb.WriteString(";retailers:")
	sb.WriteString(strings.Join(lowerAll(p.RetailerPriority), ","))
	sb.WriteString(";gender:" + strings.ToLower(p.Preferences.Gender))

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:])
}

// normalizeTokens lowercases, trims, dedupes, and sorts a token list.
func normalizeTokens(tokens []string) []string {
	seen := make(map[string]bool, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		norm := strings.ToLower(strings.TrimSpace(t))
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
	}
	sort.Strings(out)
	return out
}

// lowerAll lowercases a list preserving order; retailer priority order is
// semantically meaningful and must survive fingerprinting.
func lowerAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = strings.ToLower(strings.TrimSpace(t))
	}
	return out
}
