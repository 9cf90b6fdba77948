package promo

import (
	"math"
	"time"
)

// Money is a currency amount in the smallest unit.
type Money = int64

// Discount kinds.
const (
	KindPercent      = "percent"
	KindFixed        = "fixed"
	KindFreeShipping = "free_shipping"
)

// Scope values controlling which lines a promotion may discount.
const (
	ScopeOrder    = "order"
	ScopeCategory = "category"
	ScopeProduct  = "product"
)

// DefaultPriority is assumed when a promotion carries no explicit priority.
const DefaultPriority = 100

// Reason codes surfaced on quote results and coupon rejections.
const (
	ReasonEmptyCart           = "EMPTY_CART"
	ReasonCouponUsageLimit    = "COUPON_USAGE_LIMIT"
	ReasonCouponMinSubtotal   = "COUPON_MIN_SUBTOTAL"
	ReasonCouponMinItems      = "COUPON_MIN_ITEMS"
	ReasonCouponMinBoxes      = "COUPON_MIN_BOXES"
	ReasonCouponBlocked       = "COUPON_BLOCKED_BY_DISCOUNTED_ITEMS"
	ReasonCouponNotApplicable = "COUPON_NOT_APPLICABLE"
	ReasonCouponNotFound      = "COUPON_NOT_FOUND"
)

// Promotion is a discount rule read from the promotion catalog. Missing
// fields fall back to safe defaults instead of failing the quote.
type Promotion struct {
	ID                     int64
	Name                   string
	Enabled                bool
	StartAt                *time.Time
	EndAt                  *time.Time
	Kind                   string
	Value                  float64
	MaxDiscount            *Money
	MinSubtotal            *Money
	MinItems               *int
	MinBoxes               *int
	Scope                  string
	Categories             []string
	ExcludedCategories     []string
	ProductIDs             []int64
	ExcludedProductIDs     []int64
	Combinable             bool
	StackableWithExclusive bool
	RequiresCoupon         bool
	Code                   string
	Priority               int
	UsageLimit             *int
	UsedCount              int
}

func (p Promotion) kind() string {
	switch p.Kind {
	case KindPercent, KindFixed, KindFreeShipping:
		return p.Kind
	}
	return KindPercent
}

func (p Promotion) scope() string {
	switch p.Scope {
	case ScopeOrder, ScopeCategory, ScopeProduct:
		return p.Scope
	}
	return ScopeOrder
}

func (p Promotion) priority() int {
	if p.Priority == 0 {
		return DefaultPriority
	}
	return p.Priority
}

// Line is a priced, deduplicated cart line.
type Line struct {
	ProductID      int64
	DocumentID     string
	Title          string
	Category       string
	Qty            int
	Unit           Money
	Subtotal       Money
	BaseDiscounted bool
}

// Cart summarises the state the eligibility evaluator needs.
type Cart struct {
	Lines    []Line
	Subtotal Money
	Items    int
	Shipping Money
}

// Candidate is one promotion's evaluation result against a cart.
type Candidate struct {
	Promotion Promotion
	Amount    Money
	Lines     []Line
}

// Rejection explains why a promotion did not apply.
type Rejection struct {
	Promotion Promotion
	Reason    string
	Message   string
}

// AppliedPromotion is a promotion entry in the quote response.
type AppliedPromotion struct {
	ID     int64          `json:"id"`
	Name   string         `json:"name"`
	Code   *string        `json:"code"`
	Amount Money          `json:"amount"`
	Meta   map[string]any `json:"meta,omitempty"`
}

// LineDiscount is a per-line slice of the total discount.
type LineDiscount struct {
	ProductID         int64  `json:"productId"`
	ProductDocumentID string `json:"productDocumentId,omitempty"`
	Title             string `json:"title"`
	Qty               int    `json:"qty"`
	Amount            Money  `json:"amount"`
}

// CouponStatus reports what happened to a requested coupon code.
type CouponStatus struct {
	Requested  bool    `json:"requested"`
	Applied    bool    `json:"applied"`
	Code       string  `json:"code,omitempty"`
	ReasonCode *string `json:"reasonCode"`
	Message    *string `json:"message"`
}

// Result is the authoritative output of a quote computation.
type Result struct {
	Subtotal          Money              `json:"subtotal"`
	DiscountTotal     Money              `json:"discountTotal"`
	Total             Money              `json:"total"`
	AppliedPromotions []AppliedPromotion `json:"appliedPromotions"`
	LineDiscounts     []LineDiscount     `json:"lineDiscounts"`
	ReasonCode        *string            `json:"reasonCode"`
	Message           *string            `json:"message"`
	Coupon            *CouponStatus      `json:"coupon,omitempty"`
}

// RoundHalfAway rounds to the nearest integer amount, halves away from zero.
func RoundHalfAway(v float64) Money {
	return Money(math.Round(v))
}

func strPtr(s string) *string { return &s }
