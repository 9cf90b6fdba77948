package promo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/promo-api/internal/catalog"
)

// Store lists promotion rules from persistent storage.
type Store interface {
	ListActive(ctx context.Context, now time.Time) ([]Promotion, error)
}

// Counter reserves promotion usage slots atomically at checkout time.
type Counter interface {
	TryReserve(ctx context.Context, promotionID int64, orderRef string, amount Money) (bool, error)
}

// QuoteRequest is the engine-facing quote input.
type QuoteRequest struct {
	Items    []CartItem
	Coupon   string
	Shipping Money
}

// Service orchestrates catalog resolution, promotion evaluation, selection,
// and allocation for a quote.
type Service struct {
	Products   catalog.Reader
	Promotions Store
	Usage      Counter
	Now        func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Quote computes an authoritative price breakdown for the cart. Malformed or
// unknown items are dropped silently; store failures fail the whole quote.
func (s *Service) Quote(ctx context.Context, req QuoteRequest) (Result, error) {
	items := NormalizeItems(req.Items)
	var lines []Line
	if keys := Keys(items); len(keys) > 0 {
		products, err := s.Products.GetByKeys(ctx, keys)
		if err != nil {
			return Result{}, fmt.Errorf("load products: %w", err)
		}
		lines = BuildLines(items, catalog.NewIndex(products))
	}

	subtotal := SumSubtotal(lines)
	couponCode := strings.TrimSpace(req.Coupon)
	if len(lines) == 0 || subtotal <= 0 {
		res := Result{
			AppliedPromotions: []AppliedPromotion{},
			LineDiscounts:     []LineDiscount{},
			ReasonCode:        strPtr(ReasonEmptyCart),
			Message:           strPtr("cart has no quotable items"),
		}
		if couponCode != "" {
			res.Coupon = &CouponStatus{Requested: true, Code: couponCode}
		}
		return res, nil
	}

	now := s.now()
	promos, err := s.Promotions.ListActive(ctx, now)
	if err != nil {
		return Result{}, fmt.Errorf("load promotions: %w", err)
	}
	active := FilterActive(promos, now)

	shipping := req.Shipping
	if shipping < 0 {
		shipping = 0
	}
	cart := Cart{Lines: lines, Subtotal: subtotal, Items: totalQty(lines), Shipping: shipping}

	applied, coupon := Resolve(active, cart, couponCode)
	applied = Clip(applied, subtotal)

	var discountTotal Money
	appliedOut := make([]AppliedPromotion, 0, len(applied))
	for _, c := range applied {
		discountTotal += c.Amount
		entry := AppliedPromotion{
			ID:     c.Promotion.ID,
			Name:   c.Promotion.Name,
			Amount: c.Amount,
			Meta: map[string]any{
				"kind":       c.Promotion.kind(),
				"scope":      c.Promotion.scope(),
				"combinable": c.Promotion.Combinable,
			},
		}
		if c.Promotion.Code != "" {
			entry.Code = strPtr(c.Promotion.Code)
		}
		appliedOut = append(appliedOut, entry)
	}

	return Result{
		Subtotal:          subtotal,
		DiscountTotal:     discountTotal,
		Total:             subtotal - discountTotal,
		AppliedPromotions: appliedOut,
		LineDiscounts:     Allocate(lines, applied),
		Coupon:            coupon,
	}, nil
}

// ListActive returns the promotions currently in their validity window, in
// evaluation order.
func (s *Service) ListActive(ctx context.Context) ([]Promotion, error) {
	now := s.now()
	promos, err := s.Promotions.ListActive(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("load promotions: %w", err)
	}
	return FilterActive(promos, now), nil
}

// Reserve consumes one usage slot for the promotion on behalf of an order.
// It is idempotent per (promotion, orderRef) and reports false when the
// usage limit is exhausted.
func (s *Service) Reserve(ctx context.Context, promotionID int64, orderRef string, amount Money) (bool, error) {
	if s.Usage == nil {
		return false, errors.New("usage counter not configured")
	}
	return s.Usage.TryReserve(ctx, promotionID, orderRef, amount)
}
