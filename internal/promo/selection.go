package promo

import (
	"sort"
	"strings"
)

// Resolve runs the selection pipeline over the active promotions: the coupon
// path wins when a code was supplied and matches, otherwise exclusives beat
// combinables. The returned coupon status is nil when no code was requested.
func Resolve(active []Promotion, cart Cart, couponCode string) ([]Candidate, *CouponStatus) {
	code := strings.TrimSpace(couponCode)
	var status *CouponStatus
	if code != "" {
		status = &CouponStatus{Requested: true, Code: code}
		if best, ok := resolveCoupon(active, cart, code, status); ok {
			return []Candidate{best}, status
		}
		// rejected coupons fall back to the non-coupon promotions
	}

	var exclusive, combinable []Candidate
	for _, p := range active {
		if p.RequiresCoupon {
			continue
		}
		cand, rej := Evaluate(p, cart, false)
		if rej != nil {
			continue
		}
		if p.Combinable {
			combinable = append(combinable, cand)
		} else {
			exclusive = append(exclusive, cand)
		}
	}
	sortForStacking(combinable)

	if len(exclusive) > 0 {
		applied := []Candidate{bestCandidate(exclusive)}
		for _, c := range combinable {
			if c.Promotion.StackableWithExclusive {
				applied = append(applied, c)
			}
		}
		return applied, status
	}
	return combinable, status
}

// resolveCoupon evaluates only promotions gated on the requested code. On
// success it fills the status and returns the single winning candidate; on
// failure it records the first rejection (or a not-found reason) and reports
// false.
func resolveCoupon(active []Promotion, cart Cart, code string, status *CouponStatus) (Candidate, bool) {
	var (
		matched    bool
		candidates []Candidate
		firstRej   *Rejection
	)
	for _, p := range active {
		if !p.RequiresCoupon || !strings.EqualFold(p.Code, code) {
			continue
		}
		matched = true
		cand, rej := Evaluate(p, cart, true)
		if rej != nil {
			if firstRej == nil {
				firstRej = rej
			}
			continue
		}
		candidates = append(candidates, cand)
	}

	if len(candidates) > 0 {
		best := bestCandidate(candidates)
		status.Applied = true
		status.Code = best.Promotion.Code
		return best, true
	}
	if firstRej != nil {
		status.ReasonCode = strPtr(firstRej.Reason)
		status.Message = strPtr(firstRej.Message)
	} else if !matched {
		status.ReasonCode = strPtr(ReasonCouponNotFound)
		status.Message = strPtr("coupon code not found")
	}
	return Candidate{}, false
}

// bestCandidate picks by amount descending, then priority ascending, then id
// ascending.
func bestCandidate(candidates []Candidate) Candidate {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Amount != best.Amount {
			if c.Amount > best.Amount {
				best = c
			}
			continue
		}
		if c.Promotion.priority() != best.Promotion.priority() {
			if c.Promotion.priority() < best.Promotion.priority() {
				best = c
			}
			continue
		}
		if c.Promotion.ID < best.Promotion.ID {
			best = c
		}
	}
	return best
}

// sortForStacking orders combinables by priority ascending, amount descending.
func sortForStacking(candidates []Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Promotion.priority() != candidates[j].Promotion.priority() {
			return candidates[i].Promotion.priority() < candidates[j].Promotion.priority()
		}
		return candidates[i].Amount > candidates[j].Amount
	})
}

// Clip truncates applied amounts in order so the running discount total never
// exceeds the subtotal. Later entries may be zeroed but stay in the list.
func Clip(applied []Candidate, subtotal Money) []Candidate {
	remaining := subtotal
	out := make([]Candidate, len(applied))
	for i, c := range applied {
		amt := c.Amount
		if amt > remaining {
			amt = remaining
		}
		if amt < 0 {
			amt = 0
		}
		c.Amount = amt
		remaining -= amt
		out[i] = c
	}
	return out
}
