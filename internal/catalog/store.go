package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Querier is the subset of pgxpool.Pool the store depends on.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PgStore reads products from Postgres.
type PgStore struct {
	DB Querier
}

const getByKeysSQL = `
SELECT id, document_id, title, slug, category, price, off
FROM products
WHERE id = ANY($1) OR document_id = ANY($2)`

// GetByKeys fetches every product matching one of the keys in a single query.
// Keys without a match are simply absent from the result.
func (s PgStore) GetByKeys(ctx context.Context, keys []Key) ([]Product, error) {
	ids := make([]int64, 0, len(keys))
	docs := make([]string, 0, len(keys))
	seenID := make(map[int64]struct{}, len(keys))
	seenDoc := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		if k.ID != 0 {
			if _, ok := seenID[k.ID]; !ok {
				seenID[k.ID] = struct{}{}
				ids = append(ids, k.ID)
			}
		}
		if k.DocID != "" {
			if _, ok := seenDoc[k.DocID]; !ok {
				seenDoc[k.DocID] = struct{}{}
				docs = append(docs, k.DocID)
			}
		}
	}
	if len(ids) == 0 && len(docs) == 0 {
		return nil, nil
	}

	rows, err := s.DB.Query(ctx, getByKeysSQL, ids, docs)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.DocumentID, &p.Title, &p.Slug, &p.Category, &p.Price, &p.Off); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}
