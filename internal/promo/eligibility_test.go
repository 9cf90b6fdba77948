package promo

import "testing"

func intPtr(v int) *int       { return &v }
func moneyPtr(v Money) *Money { return &v }

func testCart() Cart {
	lines := []Line{
		{ProductID: 1, Category: "tools", Qty: 2, Unit: 1000, Subtotal: 2000},
		{ProductID: 2, Category: "toys", Qty: 1, Unit: 3000, Subtotal: 3000},
	}
	return Cart{Lines: lines, Subtotal: 5000, Items: 3, Shipping: 500}
}

func TestEvaluateRejections(t *testing.T) {
	cart := testCart()
	cases := []struct {
		name   string
		promo  Promotion
		coupon bool
		reason string
	}{
		{
			name:   "usage limit",
			promo:  Promotion{ID: 1, Value: 10, UsageLimit: intPtr(5), UsedCount: 5},
			reason: ReasonCouponUsageLimit,
		},
		{
			name:   "min subtotal",
			promo:  Promotion{ID: 1, Value: 10, MinSubtotal: moneyPtr(6000)},
			reason: ReasonCouponMinSubtotal,
		},
		{
			name:   "min items",
			promo:  Promotion{ID: 1, Value: 10, MinItems: intPtr(4)},
			reason: ReasonCouponMinItems,
		},
		{
			name:   "min boxes",
			promo:  Promotion{ID: 1, Value: 10, MinBoxes: intPtr(4)},
			reason: ReasonCouponMinBoxes,
		},
		{
			name:   "category scope without inclusion list",
			promo:  Promotion{ID: 1, Value: 10, Scope: ScopeCategory},
			reason: ReasonCouponNotApplicable,
		},
		{
			name:   "product scope with no matching line",
			promo:  Promotion{ID: 1, Value: 10, Scope: ScopeProduct, ProductIDs: []int64{99}},
			reason: ReasonCouponNotApplicable,
		},
		{
			name:   "everything excluded",
			promo:  Promotion{ID: 1, Value: 10, ExcludedCategories: []string{"Tools", "TOYS"}},
			reason: ReasonCouponNotApplicable,
		},
		{
			name:   "zero amount after cap",
			promo:  Promotion{ID: 1, Value: 10, MaxDiscount: moneyPtr(0)},
			reason: ReasonCouponNotApplicable,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, rej := Evaluate(tc.promo, cart, tc.coupon)
			if rej == nil {
				t.Fatal("expected rejection")
			}
			if rej.Reason != tc.reason {
				t.Fatalf("got reason %q, want %q", rej.Reason, tc.reason)
			}
		})
	}
}

func TestEvaluateBaselineDiscountBlocksCouponsOnly(t *testing.T) {
	cart := testCart()
	cart.Lines[0].BaseDiscounted = true
	promo := Promotion{ID: 1, Value: 10}

	if _, rej := Evaluate(promo, cart, true); rej == nil || rej.Reason != ReasonCouponBlocked {
		t.Fatalf("expected %s when evaluated as coupon, got %+v", ReasonCouponBlocked, rej)
	}
	if _, rej := Evaluate(promo, cart, false); rej != nil {
		t.Fatalf("expected automatic promotion to ignore baseline discounts, got %+v", rej)
	}
}

func TestEvaluateAmounts(t *testing.T) {
	cart := testCart()
	cases := []struct {
		name  string
		promo Promotion
		want  Money
		lines int
	}{
		{
			name:  "percent over order",
			promo: Promotion{ID: 1, Value: 10},
			want:  500,
			lines: 2,
		},
		{
			name:  "percent rounds half away",
			promo: Promotion{ID: 1, Value: 0.15},
			want:  8, // 5000 * 0.0015 = 7.5
			lines: 2,
		},
		{
			name:  "fixed clamped to eligible subtotal",
			promo: Promotion{ID: 1, Kind: KindFixed, Value: 10000},
			want:  5000,
			lines: 2,
		},
		{
			name:  "free shipping",
			promo: Promotion{ID: 1, Kind: KindFreeShipping},
			want:  500,
			lines: 2,
		},
		{
			name:  "category scope",
			promo: Promotion{ID: 1, Value: 50, Scope: ScopeCategory, Categories: []string{"TOOLS"}},
			want:  1000,
			lines: 1,
		},
		{
			name:  "product scope",
			promo: Promotion{ID: 1, Value: 50, Scope: ScopeProduct, ProductIDs: []int64{2}},
			want:  1500,
			lines: 1,
		},
		{
			name:  "max discount cap",
			promo: Promotion{ID: 1, Value: 50, MaxDiscount: moneyPtr(800)},
			want:  800,
			lines: 2,
		},
		{
			name:  "exclusion shrinks eligible set",
			promo: Promotion{ID: 1, Value: 10, ExcludedProductIDs: []int64{2}},
			want:  200,
			lines: 1,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cand, rej := Evaluate(tc.promo, cart, false)
			if rej != nil {
				t.Fatalf("unexpected rejection: %+v", rej)
			}
			if cand.Amount != tc.want {
				t.Fatalf("got amount %d, want %d", cand.Amount, tc.want)
			}
			if len(cand.Lines) != tc.lines {
				t.Fatalf("got %d eligible lines, want %d", len(cand.Lines), tc.lines)
			}
		})
	}
}
