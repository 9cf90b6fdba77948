package promo

import "sort"

// Allocate distributes each applied promotion's amount across its eligible
// lines proportionally to line subtotal, using largest-remainder rounding so
// the integer parts sum exactly to the amount. Contributions from multiple
// promotions on the same line are summed; lines ending at 0 are omitted.
func Allocate(lines []Line, applied []Candidate) []LineDiscount {
	totals := make(map[int64]Money, len(lines))
	for _, c := range applied {
		if c.Amount <= 0 {
			continue
		}
		allocateOne(c, totals)
	}

	out := make([]LineDiscount, 0, len(lines))
	for _, ln := range lines {
		amt := totals[ln.ProductID]
		if amt == 0 {
			continue
		}
		out = append(out, LineDiscount{
			ProductID:         ln.ProductID,
			ProductDocumentID: ln.DocumentID,
			Title:             ln.Title,
			Qty:               ln.Qty,
			Amount:            amt,
		})
	}
	return out
}

func allocateOne(c Candidate, totals map[int64]Money) {
	eligible := make([]Line, 0, len(c.Lines))
	var total Money
	for _, ln := range c.Lines {
		if ln.Subtotal <= 0 {
			continue
		}
		eligible = append(eligible, ln)
		total += ln.Subtotal
	}
	if total <= 0 {
		return
	}

	type share struct {
		idx  int
		base Money
		rem  Money
	}
	shares := make([]share, len(eligible))
	var assigned Money
	for i, ln := range eligible {
		product := c.Amount * ln.Subtotal
		shares[i] = share{idx: i, base: product / total, rem: product % total}
		assigned += product / total
	}

	leftover := c.Amount - assigned
	sort.SliceStable(shares, func(a, b int) bool {
		if shares[a].rem != shares[b].rem {
			return shares[a].rem > shares[b].rem
		}
		return shares[a].idx < shares[b].idx
	})
	for i := Money(0); i < leftover && int(i) < len(shares); i++ {
		shares[i].base++
	}

	for _, s := range shares {
		totals[eligible[s.idx].ProductID] += s.base
	}
}
