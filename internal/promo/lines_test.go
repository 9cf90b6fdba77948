package promo

import (
	"testing"

	"github.com/noah-isme/promo-api/internal/catalog"
)

func int64Ptr(v int64) *int64 { return &v }

func TestNormalizeItems(t *testing.T) {
	items := NormalizeItems([]CartItem{
		{ID: int64Ptr(1), Qty: 2.9},
		{ID: int64Ptr(2), Qty: 0},
		{ID: int64Ptr(3), Qty: -4},
		{DocumentID: "doc-x", Qty: 1},
		{Qty: 5},
	})
	if len(items) != 4 {
		t.Fatalf("expected 4 items after normalization, got %d", len(items))
	}
	if items[0].Qty != 2 {
		t.Fatalf("expected qty floored to 2, got %v", items[0].Qty)
	}
	if items[1].Qty != 1 || items[2].Qty != 1 {
		t.Fatalf("expected zero and negative quantities clamped to 1, got %v and %v", items[1].Qty, items[2].Qty)
	}
}

func TestBuildLinesAppliesBaselineDiscountAndMergesDuplicates(t *testing.T) {
	ix := catalog.NewIndex([]catalog.Product{
		{ID: 1, DocumentID: "doc-a", Title: "Widget", Category: "tools", Price: 1000, Off: 15},
		{ID: 2, DocumentID: "doc-b", Title: "Gadget", Category: "toys", Price: 333, Off: 0},
	})

	lines := BuildLines(NormalizeItems([]CartItem{
		{ID: int64Ptr(1), Qty: 2},
		{DocumentID: "doc-a", Qty: 1},
		{ID: int64Ptr(2), Qty: 3},
		{ID: int64Ptr(99), Qty: 1},
	}), ix)

	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Qty != 3 {
		t.Fatalf("expected duplicate references merged into qty 3, got %d", lines[0].Qty)
	}
	// 1000 at 15% off rounds to 850 per unit
	if lines[0].Unit != 850 || lines[0].Subtotal != 2550 {
		t.Fatalf("unexpected pricing: unit=%d subtotal=%d", lines[0].Unit, lines[0].Subtotal)
	}
	if !lines[0].BaseDiscounted {
		t.Fatal("expected line with product discount to be flagged")
	}
	if lines[1].BaseDiscounted {
		t.Fatal("expected undiscounted line to not be flagged")
	}
	if got := SumSubtotal(lines); got != 2550+999 {
		t.Fatalf("unexpected subtotal %d", got)
	}
}

func TestRoundHalfAway(t *testing.T) {
	cases := []struct {
		in   float64
		want Money
	}{
		{2.5, 3},
		{2.4, 2},
		{-2.5, -3},
		{0.49999, 0},
	}
	for _, tc := range cases {
		if got := RoundHalfAway(tc.in); got != tc.want {
			t.Fatalf("RoundHalfAway(%v) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
