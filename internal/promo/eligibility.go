package promo

import (
	"fmt"
	"strings"
)

// Evaluate checks a single active promotion against the cart. Checks run in a
// fixed order and stop at the first failure so rejections carry one precise
// reason. asCoupon marks the promotion as the user's requested coupon, which
// enables the baseline-discount conflict rule.
func Evaluate(p Promotion, cart Cart, asCoupon bool) (Candidate, *Rejection) {
	reject := func(reason, message string) (Candidate, *Rejection) {
		return Candidate{}, &Rejection{Promotion: p, Reason: reason, Message: message}
	}

	if p.UsageLimit != nil && p.UsedCount >= *p.UsageLimit {
		return reject(ReasonCouponUsageLimit, "this promotion has reached its usage limit")
	}
	if p.MinSubtotal != nil && cart.Subtotal < *p.MinSubtotal {
		return reject(ReasonCouponMinSubtotal, fmt.Sprintf("a minimum subtotal of %d is required", *p.MinSubtotal))
	}
	if p.MinItems != nil && cart.Items < *p.MinItems {
		return reject(ReasonCouponMinItems, fmt.Sprintf("a minimum of %d items is required", *p.MinItems))
	}
	if p.MinBoxes != nil && cart.Items < *p.MinBoxes {
		return reject(ReasonCouponMinBoxes, fmt.Sprintf("a minimum of %d boxes is required", *p.MinBoxes))
	}
	if asCoupon {
		for _, ln := range cart.Lines {
			if ln.BaseDiscounted {
				return reject(ReasonCouponBlocked, "coupons cannot be combined with already discounted items")
			}
		}
	}

	eligible, ok := eligibleLines(p, cart.Lines)
	if !ok {
		return reject(ReasonCouponNotApplicable, "this promotion does not apply to the items in the cart")
	}
	eligibleSubtotal := SumSubtotal(eligible)
	if eligibleSubtotal <= 0 {
		return reject(ReasonCouponNotApplicable, "this promotion does not apply to the items in the cart")
	}

	var amount Money
	switch p.kind() {
	case KindFixed:
		amount = RoundHalfAway(p.Value)
		if amount > eligibleSubtotal {
			amount = eligibleSubtotal
		}
	case KindFreeShipping:
		amount = cart.Shipping
		if amount > eligibleSubtotal {
			amount = eligibleSubtotal
		}
	default:
		amount = RoundHalfAway(float64(eligibleSubtotal) * p.Value / 100)
	}
	if p.MaxDiscount != nil && amount > *p.MaxDiscount {
		amount = *p.MaxDiscount
	}
	if amount <= 0 {
		return reject(ReasonCouponNotApplicable, "this promotion does not apply to the items in the cart")
	}

	return Candidate{Promotion: p, Amount: amount, Lines: eligible}, nil
}

// eligibleLines applies exclusion lists first, then the scope inclusion rule.
// It reports false when the scope requires an inclusion list that is empty.
func eligibleLines(p Promotion, lines []Line) ([]Line, bool) {
	remaining := make([]Line, 0, len(lines))
	for _, ln := range lines {
		if containsID(p.ExcludedProductIDs, ln.ProductID) {
			continue
		}
		if containsFold(p.ExcludedCategories, ln.Category) {
			continue
		}
		remaining = append(remaining, ln)
	}

	switch p.scope() {
	case ScopeCategory:
		if len(p.Categories) == 0 {
			return nil, false
		}
		out := remaining[:0]
		for _, ln := range remaining {
			if containsFold(p.Categories, ln.Category) {
				out = append(out, ln)
			}
		}
		return out, true
	case ScopeProduct:
		if len(p.ProductIDs) == 0 {
			return nil, false
		}
		out := remaining[:0]
		for _, ln := range remaining {
			if containsID(p.ProductIDs, ln.ProductID) {
				out = append(out, ln)
			}
		}
		return out, true
	default:
		return remaining, true
	}
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsFold(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}
	return false
}
