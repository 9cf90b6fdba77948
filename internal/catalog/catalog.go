package catalog

import "context"

// Key identifies a product by numeric id, document id, or both. When both
// are present the numeric id wins during resolution.
type Key struct {
	ID    int64
	DocID string
}

// Zero reports whether the key carries no identifier at all.
func (k Key) Zero() bool { return k.ID == 0 && k.DocID == "" }

// Product is the subset of the product row the quoting engine needs.
type Product struct {
	ID         int64   `json:"id"`
	DocumentID string  `json:"documentId"`
	Title      string  `json:"title"`
	Slug       string  `json:"slug"`
	Category   string  `json:"category"`
	Price      int64   `json:"price"`
	Off        float64 `json:"off"`
}

// Reader loads products in bulk for a set of keys.
type Reader interface {
	GetByKeys(ctx context.Context, keys []Key) ([]Product, error)
}

// Index maps fetched products back to request keys.
type Index struct {
	byID  map[int64]Product
	byDoc map[string]Product
}

// NewIndex builds lookup maps over the fetched products.
func NewIndex(products []Product) Index {
	ix := Index{
		byID:  make(map[int64]Product, len(products)),
		byDoc: make(map[string]Product, len(products)),
	}
	for _, p := range products {
		if p.ID != 0 {
			ix.byID[p.ID] = p
		}
		if p.DocumentID != "" {
			ix.byDoc[p.DocumentID] = p
		}
	}
	return ix
}

// Resolve finds the product for a key, trying the numeric id before the
// document id.
func (ix Index) Resolve(k Key) (Product, bool) {
	if k.ID != 0 {
		if p, ok := ix.byID[k.ID]; ok {
			return p, true
		}
	}
	if k.DocID != "" {
		if p, ok := ix.byDoc[k.DocID]; ok {
			return p, true
		}
	}
	return Product{}, false
}
