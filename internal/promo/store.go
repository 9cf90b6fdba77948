package promo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of pgxpool.Pool the stores depend on.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PgStore reads promotion rules from Postgres.
type PgStore struct {
	DB DB
}

const listActiveSQL = `
SELECT id, name, enabled, start_at, end_at, kind, value, max_discount,
       min_subtotal, min_items, min_boxes, applies_to, categories,
       excluded_categories, product_ids, excluded_product_ids,
       combinable, stackable_with_exclusive, requires_coupon, code,
       priority, usage_limit, used_count
FROM promotions
WHERE enabled
  AND (start_at IS NULL OR start_at <= $1)
  AND (end_at IS NULL OR end_at >= $1)
ORDER BY priority ASC, id ASC`

// ListActive fetches enabled promotions whose window contains now.
func (s PgStore) ListActive(ctx context.Context, now time.Time) ([]Promotion, error) {
	rows, err := s.DB.Query(ctx, listActiveSQL, now)
	if err != nil {
		return nil, fmt.Errorf("query promotions: %w", err)
	}
	defer rows.Close()

	var promos []Promotion
	for rows.Next() {
		var p Promotion
		err := rows.Scan(
			&p.ID, &p.Name, &p.Enabled, &p.StartAt, &p.EndAt, &p.Kind, &p.Value, &p.MaxDiscount,
			&p.MinSubtotal, &p.MinItems, &p.MinBoxes, &p.Scope, &p.Categories,
			&p.ExcludedCategories, &p.ProductIDs, &p.ExcludedProductIDs,
			&p.Combinable, &p.StackableWithExclusive, &p.RequiresCoupon, &p.Code,
			&p.Priority, &p.UsageLimit, &p.UsedCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan promotion: %w", err)
		}
		promos = append(promos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promotions: %w", err)
	}
	return promos, nil
}

// PgCounter reserves promotion usage slots in Postgres. The conditional
// UPDATE makes the usage-limit check and the increment a single atomic
// statement, and the usage row keeps reservations idempotent per order.
type PgCounter struct {
	DB DB
}

const insertUsageSQL = `
INSERT INTO promotion_usages (promotion_id, order_ref, amount)
VALUES ($1, $2, $3)
ON CONFLICT (promotion_id, order_ref) DO NOTHING`

const reserveSQL = `
UPDATE promotions
SET used_count = used_count + 1
WHERE id = $1
  AND (usage_limit IS NULL OR used_count < usage_limit)`

const deleteUsageSQL = `
DELETE FROM promotion_usages WHERE promotion_id = $1 AND order_ref = $2`

// TryReserve records a usage for the order and increments the promotion's
// counter unless the limit is exhausted. Repeating the call for the same
// (promotion, orderRef) pair is a no-op that reports success.
func (c PgCounter) TryReserve(ctx context.Context, promotionID int64, orderRef string, amount Money) (bool, error) {
	tag, err := c.DB.Exec(ctx, insertUsageSQL, promotionID, orderRef, amount)
	if err != nil {
		return false, fmt.Errorf("record usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// already reserved for this order
		return true, nil
	}

	tag, err = c.DB.Exec(ctx, reserveSQL, promotionID)
	if err != nil {
		return false, fmt.Errorf("reserve usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		_, _ = c.DB.Exec(ctx, deleteUsageSQL, promotionID, orderRef)
		return false, nil
	}
	return true, nil
}
