// Package narration renders shopper-facing copy for assembled looks. Two
// render paths exist: a narrated walkthrough of the sourced products, and a
// blueprint fallback that describes the intended look when nothing could be
// sourced. All output passes through the sanitizer before leaving the
// engine.
package narration

import (
	"fmt"
	"strings"

	"github.com/jonathan/look-composer/internal/catalog"
)

// slotLabels maps slot names to the wording used in rendered copy.
var slotLabels = map[string]string{
	catalog.SlotAnchor:    "statement piece",
	catalog.SlotTop:       "top",
	catalog.SlotBottom:    "bottoms",
	catalog.SlotDress:     "dress",
	catalog.SlotOuterwear: "outer layer",
	catalog.SlotShoe:      "shoes",
	catalog.SlotBag:       "bag",
	catalog.SlotAccessory: "finishing touch",
}

// currencySymbols covers the currencies the engine converts between.
// Unknown codes render as the code itself.
var currencySymbols = map[string]string{
	"EUR": "€",
	"USD": "$",
	"GBP": "£",
	"JPY": "¥",
}

// RenderLook narrates a resolved look: one line per filled slot naming the
// product, plus the running total and a gentle note for anything missing.
func RenderLook(plan *catalog.StylePlan, resp *catalog.LookResponse) string {
	var b strings.Builder

	switch resp.Status {
	case catalog.StatusPartial:
		b.WriteString("Here's the look so far.\n\n")
	default:
		b.WriteString("Here's your look.\n\n")
	}

	for _, product := range resp.Slots {
		b.WriteString("- ")
		b.WriteString(productLine(product, plan.Constraint(product.Slot)))
		b.WriteString("\n")
	}

	if resp.TotalPrice != nil {
		fmt.Fprintf(&b, "\nEverything together comes to about %s.\n",
			formatPrice(*resp.TotalPrice, resp.Currency))
	}

	if len(resp.MissingSlots) > 0 {
		b.WriteString("\nStill looking for: ")
		b.WriteString(humanList(labelSlots(resp.MissingSlots)))
		b.WriteString(".\n")
	}

	if len(resp.Slots) > 0 {
		fmt.Fprintf(&b, "\nStyling note: keep the rest simple and let the %s lead.\n",
			slotLabel(resp.Slots[0].Slot))
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderBlueprint describes the look the plan asked for without naming any
// products. It is the fallback copy when sourcing came back empty, so the
// shopper still receives a usable shopping brief.
func RenderBlueprint(plan *catalog.StylePlan) string {
	var b strings.Builder
	b.WriteString("We couldn't find live matches right now, but here's the blueprint for your look.\n\n")

	for _, slot := range plan.RequiredSlots {
		c := plan.Constraint(slot)
		b.WriteString("- ")
		b.WriteString(titleCase(slotLabel(slot)))
		b.WriteString(": ")
		b.WriteString(constraintBrief(c, slot))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nAim for a total around %s.",
		formatPrice(plan.BudgetTotal, plan.Currency))

	return b.String()
}

func productLine(p catalog.Product, c *catalog.SlotConstraint) string {
	label := slotLabel(p.Slot)

	name := strings.TrimSpace(p.Title)
	if p.Brand != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(p.Brand)) {
		name = p.Brand + " " + name
	}
	if name == "" {
		name = "a " + label + " we picked for you"
	}

	line := fmt.Sprintf("%s: %s", titleCase(label), name)
	if p.Price != nil {
		line += fmt.Sprintf(" (%s)", formatPrice(*p.Price, p.Currency))
	}
	if p.Retailer != "" {
		line += " from " + p.Retailer
	}
	if reason := rationale(p, c); reason != "" {
		line += ", " + reason
	}
	return line
}

// rationale gives the one-clause reason a product was picked, derived from
// whichever of the slot's constraints it visibly satisfies: matched
// keywords first, then color, then the price band.
func rationale(p catalog.Product, c *catalog.SlotConstraint) string {
	if c == nil {
		return ""
	}
	text := strings.ToLower(p.Title + " " + p.Brand)

	var matched []string
	for _, kw := range c.Keywords {
		lowered := strings.ToLower(strings.TrimSpace(kw))
		if lowered != "" && strings.Contains(text, lowered) {
			matched = append(matched, lowered)
		}
	}
	if len(matched) > 0 {
		return "picked for the " + humanList(matched) + " brief"
	}

	for _, color := range c.AllowedColors {
		lowered := strings.ToLower(strings.TrimSpace(color))
		if lowered != "" && strings.Contains(text, lowered) {
			return "comes in " + lowered
		}
	}

	if p.Price != nil && c.MaxPrice > 0 && *p.Price >= c.MinPrice && *p.Price <= c.MaxPrice {
		return "sits inside your price range"
	}
	return "the closest match we found"
}

func constraintBrief(c *catalog.SlotConstraint, slot string) string {
	if c == nil {
		return "something in the spirit of the look"
	}

	parts := make([]string, 0, 3)
	desc := c.Category
	if desc == "" {
		desc = slotLabel(slot)
	}
	if len(c.Keywords) > 0 {
		desc = strings.Join(c.Keywords, " ") + " " + desc
	}
	parts = append(parts, strings.TrimSpace(desc))

	if len(c.AllowedColors) > 0 {
		parts = append(parts, "in "+humanList(c.AllowedColors))
	}
	if c.MaxPrice > 0 {
		parts = append(parts, fmt.Sprintf("up to %.0f", c.MaxPrice))
	}
	return strings.Join(parts, ", ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func slotLabel(slot string) string {
	if label, ok := slotLabels[slot]; ok {
		return label
	}
	return slot
}

func formatPrice(amount float64, code string) string {
	symbol, ok := currencySymbols[strings.ToUpper(code)]
	if !ok {
		return fmt.Sprintf("%.0f %s", amount, strings.ToUpper(code))
	}
	return fmt.Sprintf("%s%.0f", symbol, amount)
}

// humanList joins items as "a, b and c".
func humanList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

func labelSlots(slots []string) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = slotLabel(s)
	}
	return out
}
