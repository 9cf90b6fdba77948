package promo

import (
	"math"

	"github.com/noah-isme/promo-api/internal/catalog"
)

// CartItem is a raw quote request line before catalog resolution.
type CartItem struct {
	ID         *int64  `json:"id"`
	DocumentID string  `json:"documentId"`
	Qty        float64 `json:"qty"`
}

// NormalizeItems drops items lacking any identifier and floors quantities,
// clamping them to a minimum of 1.
func NormalizeItems(items []CartItem) []CartItem {
	out := make([]CartItem, 0, len(items))
	for _, it := range items {
		hasID := it.ID != nil && *it.ID != 0
		if !hasID && it.DocumentID == "" {
			continue
		}
		qty := math.Floor(it.Qty)
		if qty < 1 {
			qty = 1
		}
		it.Qty = qty
		out = append(out, it)
	}
	return out
}

// Keys extracts the catalog lookup keys for a normalized item list.
func Keys(items []CartItem) []catalog.Key {
	keys := make([]catalog.Key, 0, len(items))
	for _, it := range items {
		k := catalog.Key{DocID: it.DocumentID}
		if it.ID != nil {
			k.ID = *it.ID
		}
		if !k.Zero() {
			keys = append(keys, k)
		}
	}
	return keys
}

// BuildLines resolves normalized items against the product index and produces
// deduplicated, priced lines. Items without a matching product are dropped,
// and items resolving to the same product merge their quantities.
func BuildLines(items []CartItem, ix catalog.Index) []Line {
	lines := make([]Line, 0, len(items))
	pos := make(map[int64]int, len(items))
	for _, it := range items {
		k := catalog.Key{DocID: it.DocumentID}
		if it.ID != nil {
			k.ID = *it.ID
		}
		p, ok := ix.Resolve(k)
		if !ok {
			continue
		}
		qty := int(it.Qty)
		if qty < 1 {
			qty = 1
		}
		if i, seen := pos[p.ID]; seen {
			lines[i].Qty += qty
			lines[i].Subtotal = lines[i].Unit * Money(lines[i].Qty)
			continue
		}
		unit := RoundHalfAway(float64(p.Price) * (1 - p.Off/100))
		if unit < 0 {
			unit = 0
		}
		line := Line{
			ProductID:      p.ID,
			DocumentID:     p.DocumentID,
			Title:          p.Title,
			Category:       p.Category,
			Qty:            qty,
			Unit:           unit,
			Subtotal:       unit * Money(qty),
			BaseDiscounted: p.Off > 0,
		}
		pos[p.ID] = len(lines)
		lines = append(lines, line)
	}
	return lines
}

// SumSubtotal totals the line subtotals.
func SumSubtotal(lines []Line) Money {
	var total Money
	for _, ln := range lines {
		total += ln.Subtotal
	}
	return total
}

func totalQty(lines []Line) int {
	var n int
	for _, ln := range lines {
		n += ln.Qty
	}
	return n
}
