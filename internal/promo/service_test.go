package promo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/promo-api/internal/catalog"
	"github.com/noah-isme/promo-api/internal/promo"
)

type fakeReader struct {
	products []catalog.Product
	err      error
}

func (f fakeReader) GetByKeys(_ context.Context, keys []catalog.Key) ([]catalog.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	ix := catalog.NewIndex(f.products)
	var out []catalog.Product
	seen := map[int64]struct{}{}
	for _, k := range keys {
		if p, ok := ix.Resolve(k); ok {
			if _, dup := seen[p.ID]; dup {
				continue
			}
			seen[p.ID] = struct{}{}
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeStore struct {
	promos []promo.Promotion
	err    error
}

func (f fakeStore) ListActive(context.Context, time.Time) ([]promo.Promotion, error) {
	return f.promos, f.err
}

func newService(products []catalog.Product, promos []promo.Promotion) *promo.Service {
	return &promo.Service{
		Products:   fakeReader{products: products},
		Promotions: fakeStore{promos: promos},
		Now:        func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func idp(v int64) *int64      { return &v }
func mp(v promo.Money) *int64 { return &v }

func item(id int64, qty float64) promo.CartItem {
	return promo.CartItem{ID: idp(id), Qty: qty}
}

func TestQuoteOrderWideExclusivePercent(t *testing.T) {
	svc := newService(
		[]catalog.Product{{ID: 1, Title: "Bundle", Price: 50000}},
		[]promo.Promotion{{ID: 1, Name: "Ten Off", Enabled: true, Value: 10}},
	)

	res, err := svc.Quote(context.Background(), promo.QuoteRequest{Items: []promo.CartItem{item(1, 1)}})
	require.NoError(t, err)
	require.Equal(t, promo.Money(50000), res.Subtotal)
	require.Equal(t, promo.Money(5000), res.DiscountTotal)
	require.Equal(t, promo.Money(45000), res.Total)
	require.Len(t, res.AppliedPromotions, 1)
	require.Nil(t, res.ReasonCode)
}

func TestQuoteCouponApplied(t *testing.T) {
	svc := newService(
		[]catalog.Product{{ID: 1, Title: "Widget", Price: 10000}},
		[]promo.Promotion{{
			ID: 1, Name: "Save Ten", Enabled: true,
			Kind: promo.KindFixed, Value: 2000,
			MinSubtotal:    mp(5000),
			RequiresCoupon: true, Code: "SAVE10",
		}},
	)

	res, err := svc.Quote(context.Background(), promo.QuoteRequest{
		Items:  []promo.CartItem{item(1, 1)},
		Coupon: "SAVE10",
	})
	require.NoError(t, err)
	require.Equal(t, promo.Money(2000), res.DiscountTotal)
	require.Len(t, res.AppliedPromotions, 1)
	require.NotNil(t, res.AppliedPromotions[0].Code)
	require.NotNil(t, res.Coupon)
	require.True(t, res.Coupon.Applied)
}

func TestQuoteCouponBelowMinSubtotal(t *testing.T) {
	svc := newService(
		[]catalog.Product{{ID: 1, Title: "Widget", Price: 10000}},
		[]promo.Promotion{{
			ID: 1, Name: "Save Ten", Enabled: true,
			Kind: promo.KindFixed, Value: 2000,
			MinSubtotal:    mp(20000),
			RequiresCoupon: true, Code: "SAVE10",
		}},
	)

	res, err := svc.Quote(context.Background(), promo.QuoteRequest{
		Items:  []promo.CartItem{item(1, 1)},
		Coupon: "SAVE10",
	})
	require.NoError(t, err)
	require.Equal(t, promo.Money(0), res.DiscountTotal)
	require.Equal(t, res.Subtotal, res.Total)
	require.NotNil(t, res.Coupon)
	require.False(t, res.Coupon.Applied)
	require.NotNil(t, res.Coupon.ReasonCode)
	require.Equal(t, promo.ReasonCouponMinSubtotal, *res.Coupon.ReasonCode)
}

func TestQuoteEmptyCart(t *testing.T) {
	svc := newService(nil, nil)

	res, err := svc.Quote(context.Background(), promo.QuoteRequest{})
	require.NoError(t, err)
	require.Equal(t, promo.Money(0), res.Subtotal)
	require.Equal(t, promo.Money(0), res.Total)
	require.NotNil(t, res.ReasonCode)
	require.Equal(t, promo.ReasonEmptyCart, *res.ReasonCode)
	require.Empty(t, res.AppliedPromotions)
}

func TestQuoteCombinablePromotionsStack(t *testing.T) {
	svc := newService(
		[]catalog.Product{
			{ID: 1, Title: "Widget", Category: "tools", Price: 20000},
			{ID: 2, Title: "Gadget", Category: "toys", Price: 30000},
		},
		[]promo.Promotion{
			{ID: 1, Name: "Five Percent", Enabled: true, Value: 5, Combinable: true},
			{ID: 2, Name: "Grand Off", Enabled: true, Kind: promo.KindFixed, Value: 1000, Combinable: true},
		},
	)

	res, err := svc.Quote(context.Background(), promo.QuoteRequest{
		Items: []promo.CartItem{item(1, 1), item(2, 1)},
	})
	require.NoError(t, err)
	require.Equal(t, promo.Money(50000), res.Subtotal)
	// 5% of 50000 plus a fixed 1000
	require.Equal(t, promo.Money(3500), res.DiscountTotal)
	require.Len(t, res.AppliedPromotions, 2)

	var allocated promo.Money
	for _, ld := range res.LineDiscounts {
		allocated += ld.Amount
	}
	require.Equal(t, res.DiscountTotal, allocated)
	require.Len(t, res.LineDiscounts, 2)
}

func TestQuoteDeterministic(t *testing.T) {
	svc := newService(
		[]catalog.Product{
			{ID: 1, Title: "Widget", Category: "tools", Price: 3333},
			{ID: 2, Title: "Gadget", Category: "toys", Price: 7777},
		},
		[]promo.Promotion{
			{ID: 1, Enabled: true, Value: 7, Combinable: true},
			{ID: 2, Enabled: true, Kind: promo.KindFixed, Value: 500, Combinable: true},
		},
	)

	req := promo.QuoteRequest{Items: []promo.CartItem{item(1, 3), item(2, 2)}, Shipping: 900}
	first, err := svc.Quote(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Quote(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestQuoteStoreFailureIsFatal(t *testing.T) {
	svc := &promo.Service{
		Products:   fakeReader{products: []catalog.Product{{ID: 1, Price: 1000}}},
		Promotions: fakeStore{err: errors.New("connection refused")},
	}

	_, err := svc.Quote(context.Background(), promo.QuoteRequest{Items: []promo.CartItem{item(1, 1)}})
	require.Error(t, err)

	svc.Promotions = fakeStore{}
	svc.Products = fakeReader{err: errors.New("connection refused")}
	_, err = svc.Quote(context.Background(), promo.QuoteRequest{Items: []promo.CartItem{item(1, 1)}})
	require.Error(t, err)
}

func TestQuoteUnknownItemsAreDropped(t *testing.T) {
	svc := newService(
		[]catalog.Product{{ID: 1, Title: "Widget", Price: 1000}},
		nil,
	)

	res, err := svc.Quote(context.Background(), promo.QuoteRequest{
		Items: []promo.CartItem{item(1, 2), item(42, 1)},
	})
	require.NoError(t, err)
	require.Equal(t, promo.Money(2000), res.Subtotal)
	require.Nil(t, res.ReasonCode)
}
