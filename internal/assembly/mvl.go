package assembly

import "github.com/jonathan/look-composer/internal/catalog"

// coreSlots are the garments that can serve as the core of a look.
var coreSlots = map[string]bool{
	catalog.SlotTop:    true,
	catalog.SlotBottom: true,
	catalog.SlotDress:  true,
}

// anchorSlots are the statement pieces that anchor a look.
var anchorSlots = map[string]bool{
	catalog.SlotAnchor:    true,
	catalog.SlotOuterwear: true,
}

// MinimumViableLook reports whether the filled slots form a presentable
// partial outfit: an anchor piece, footwear, and one core garment must all
// be present.
func MinimumViableLook(filled map[string]catalog.Product) bool {
	hasAnchor := false
	hasShoe := false
	hasCore := false

	for slot := range filled {
		switch {
		case anchorSlots[slot]:
			hasAnchor = true
		case slot == catalog.SlotShoe:
			hasShoe = true
		case coreSlots[slot]:
			hasCore = true
		}
	}

	return hasAnchor && hasShoe && hasCore
}
