// Package catalog provides the core data model for style plans, candidate
// products, and assembled look responses.
package catalog

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Slot names form a fixed vocabulary. Plan composition depends on whether
// the look is dress-based or separates-based.
const (
	SlotAnchor    = "anchor"
	SlotTop       = "top"
	SlotBottom    = "bottom"
	SlotDress     = "dress"
	SlotOuterwear = "outerwear"
	SlotShoe      = "shoe"
	SlotBag       = "bag"
	SlotAccessory = "accessory"
)

// KnownSlots lists the valid slot names in canonical order.
var KnownSlots = []string{
	SlotAnchor, SlotTop, SlotBottom, SlotDress,
	SlotOuterwear, SlotShoe, SlotBag, SlotAccessory,
}

// SlotConstraint describes what an acceptable product for one slot looks
// like: keywords to match, colors to prefer, materials to avoid, and an
// acceptable price band.
type SlotConstraint struct {
	Slot            string   `json:"slot" validate:"required"`
	Category        string   `json:"category"`
	Keywords        []string `json:"keywords"`
	AllowedColors   []string `json:"allowed_colors"`
	BannedMaterials []string `json:"banned_materials"`
	MinPrice        float64  `json:"min_price" validate:"gte=0"`
	MaxPrice        float64  `json:"max_price" validate:"gte=0"`
}

// SearchQuery is the free-text query the plan generator prepared for a slot.
type SearchQuery struct {
	Slot  string `json:"slot"`
	Query string `json:"query"`
}

// Preferences carries optional shopper context used for fit scoring and
// currency defaults.
type Preferences struct {
	Gender  string   `json:"gender,omitempty"`
	Country string   `json:"country,omitempty"`
	Sizes   []string `json:"sizes,omitempty"`
}

// StylePlan is the engine's sole input: the structured brief describing the
// required slots and their constraints.
type StylePlan struct {
	LookID           string           `json:"look_id" validate:"required"`
	RequiredSlots    []string         `json:"required_slots" validate:"required,min=1"`
	PerSlot          []SlotConstraint `json:"per_slot" validate:"required,min=1,dive"`
	BudgetTotal      float64          `json:"budget_total" validate:"gt=0"`
	Currency         string           `json:"currency" validate:"required"`
	RetailerPriority []string         `json:"retailer_priority"`
	SearchQueries    []SearchQuery    `json:"search_queries"`
	Preferences      Preferences      `json:"preferences"`
}

// Validate checks structural validity via the validator tags, then enforces
// the cross-field invariants: every required slot must have a constraint
// entry, slot names must come from the known vocabulary, and each price
// band must satisfy min <= max.
func (p *StylePlan) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return err
	}

	known := make(map[string]bool, len(KnownSlots))
	for _, s := range KnownSlots {
		known[s] = true
	}

	constrained := make(map[string]bool, len(p.PerSlot))
	for _, c := range p.PerSlot {
		if !known[c.Slot] {
			return fmt.Errorf("unknown slot %q in per_slot constraints", c.Slot)
		}
		if c.MinPrice > c.MaxPrice {
			return fmt.Errorf("slot %q: min_price %.2f exceeds max_price %.2f",
				c.Slot, c.MinPrice, c.MaxPrice)
		}
		constrained[c.Slot] = true
	}

	for _, slot := range p.RequiredSlots {
		if !known[slot] {
			return fmt.Errorf("unknown required slot %q", slot)
		}
		if !constrained[slot] {
			return fmt.Errorf("required slot %q has no per_slot constraint entry", slot)
		}
	}

	return nil
}

// Constraint returns the constraint entry for a slot, or nil when the plan
// has none for it.
func (p *StylePlan) Constraint(slot string) *SlotConstraint {
	for i := range p.PerSlot {
		if p.PerSlot[i].Slot == slot {
			return &p.PerSlot[i]
		}
	}
	return nil
}

// QueryFor returns the prepared search query for a slot, falling back to a
// query built from the slot's constraint keywords and category.
func (p *StylePlan) QueryFor(slot string) string {
	for _, q := range p.SearchQueries {
		if q.Slot == slot && strings.TrimSpace(q.Query) != "" {
			return q.Query
		}
	}

	c := p.Constraint(slot)
	if c == nil {
		return slot
	}
	parts := make([]string, 0, len(c.Keywords)+1)
	if c.Category != "" {
		parts = append(parts, c.Category)
	}
	parts = append(parts, c.Keywords...)
	if len(parts) == 0 {
		return slot
	}
	return strings.Join(parts, " ")
}
