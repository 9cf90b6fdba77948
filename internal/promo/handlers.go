package promo

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/promo-api/internal/common"
	"github.com/noah-isme/promo-api/internal/obs"
)

// Handler exposes the promotion HTTP endpoints.
type Handler struct {
	Svc      *Service
	Validate *validator.Validate
}

type quoteItemPayload struct {
	ID         *int64  `json:"id"`
	DocumentID string  `json:"documentId" validate:"omitempty,max=128"`
	Qty        float64 `json:"qty"`
}

type quotePayload struct {
	Items    []quoteItemPayload `json:"items" validate:"max=200,dive"`
	Coupon   string             `json:"coupon" validate:"omitempty,max=64"`
	Shipping int64              `json:"shipping" validate:"gte=0"`
}

// Quote handles POST /api/v1/promotions/quote.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var payload quotePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid quote request", err.Error())
			return
		}
	}

	req := QuoteRequest{Coupon: payload.Coupon, Shipping: payload.Shipping}
	req.Items = make([]CartItem, 0, len(payload.Items))
	for _, it := range payload.Items {
		req.Items = append(req.Items, CartItem{ID: it.ID, DocumentID: it.DocumentID, Qty: it.Qty})
	}

	res, err := h.Svc.Quote(r.Context(), req)
	if err != nil {
		if obs.QuoteTotal != nil {
			obs.QuoteTotal.WithLabelValues("error").Inc()
		}
		common.RespondError(w, err)
		return
	}
	observeQuote(res, time.Since(start))
	common.JSON(w, http.StatusOK, map[string]any{"data": res})
}

func observeQuote(res Result, elapsed time.Duration) {
	if obs.QuoteDuration != nil {
		obs.QuoteDuration.Observe(obs.DurationMillis(elapsed))
	}
	if obs.QuoteTotal != nil {
		result := "ok"
		if res.ReasonCode != nil && *res.ReasonCode == ReasonEmptyCart {
			result = "empty_cart"
		}
		obs.QuoteTotal.WithLabelValues(result).Inc()
	}
	if obs.CouponRejectionsTotal != nil && res.Coupon != nil && res.Coupon.ReasonCode != nil {
		obs.CouponRejectionsTotal.WithLabelValues(*res.Coupon.ReasonCode).Inc()
	}
	if obs.PromotionsAppliedTotal != nil {
		for _, ap := range res.AppliedPromotions {
			kind, _ := ap.Meta["kind"].(string)
			if kind == "" {
				kind = KindPercent
			}
			obs.PromotionsAppliedTotal.WithLabelValues(kind).Inc()
		}
	}
}

type promotionPayload struct {
	ID                     int64      `json:"id"`
	Name                   string     `json:"name"`
	Kind                   string     `json:"kind"`
	Scope                  string     `json:"scope"`
	Value                  float64    `json:"value"`
	Code                   *string    `json:"code,omitempty"`
	RequiresCoupon         bool       `json:"requiresCoupon"`
	Combinable             bool       `json:"combinable"`
	StackableWithExclusive bool       `json:"stackableWithExclusive"`
	Priority               int        `json:"priority"`
	StartAt                *time.Time `json:"startAt,omitempty"`
	EndAt                  *time.Time `json:"endAt,omitempty"`
	MinSubtotal            *Money     `json:"minSubtotal,omitempty"`
	MaxDiscount            *Money     `json:"maxDiscount,omitempty"`
}

// List handles GET /api/v1/promotions, returning the currently active rules.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	promos, err := h.Svc.ListActive(r.Context())
	if err != nil {
		common.RespondError(w, err)
		return
	}
	out := make([]promotionPayload, 0, len(promos))
	for _, p := range promos {
		entry := promotionPayload{
			ID:                     p.ID,
			Name:                   p.Name,
			Kind:                   p.kind(),
			Scope:                  p.scope(),
			Value:                  p.Value,
			RequiresCoupon:         p.RequiresCoupon,
			Combinable:             p.Combinable,
			StackableWithExclusive: p.StackableWithExclusive,
			Priority:               p.priority(),
			StartAt:                p.StartAt,
			EndAt:                  p.EndAt,
			MinSubtotal:            p.MinSubtotal,
			MaxDiscount:            p.MaxDiscount,
		}
		if p.Code != "" {
			entry.Code = strPtr(p.Code)
		}
		out = append(out, entry)
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": out})
}

type reservePayload struct {
	OrderRef string `json:"orderRef" validate:"required,max=64"`
	Amount   int64  `json:"amount" validate:"gte=0"`
}

// Reserve handles POST /api/v1/promotions/{id}/redemptions. It consumes one
// usage slot for the promotion on behalf of a placed order.
func (h *Handler) Reserve(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid promotion id", nil)
		return
	}
	var payload reservePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body", nil)
		return
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", "invalid redemption request", err.Error())
			return
		}
	}

	reserved, err := h.Svc.Reserve(r.Context(), id, payload.OrderRef, payload.Amount)
	if err != nil {
		if obs.UsageReservationsTotal != nil {
			obs.UsageReservationsTotal.WithLabelValues("error").Inc()
		}
		common.RespondError(w, err)
		return
	}
	if !reserved {
		if obs.UsageReservationsTotal != nil {
			obs.UsageReservationsTotal.WithLabelValues("rejected").Inc()
		}
		common.JSONError(w, http.StatusConflict, "USAGE_LIMIT_REACHED", "promotion usage limit reached", nil)
		return
	}
	if obs.UsageReservationsTotal != nil {
		obs.UsageReservationsTotal.WithLabelValues("reserved").Inc()
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": map[string]any{"reserved": true}})
}
