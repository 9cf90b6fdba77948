package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	seedProducts(db)
	seedPromotions(db)

	log.Println("Seeding completed successfully!")
}

func seedProducts(db *sql.DB) {
	products := []struct {
		DocumentID string
		Title      string
		Slug       string
		Category   string
		Price      int64
		Off        float64
	}{
		{"doc-macbook-pro-14", "MacBook Pro 14 M3", "macbook-pro-14-m3", "electronics", 25000000, 0},
		{"doc-iphone-15-pro", "iPhone 15 Pro", "iphone-15-pro", "electronics", 20000000, 0},
		{"doc-galaxy-s24", "Samsung Galaxy S24 Ultra", "samsung-galaxy-s24", "electronics", 19000000, 5},
		{"doc-wh-1000xm5", "Sony WH-1000XM5", "sony-wh-1000xm5", "electronics", 5000000, 0},
		{"doc-xps-13", "Dell XPS 13", "dell-xps-13", "electronics", 18000000, 10},
		{"doc-air-force-1", "Nike Air Force 1", "nike-air-force-1", "fashion", 1500000, 0},
		{"doc-ultraboost", "Adidas Ultraboost", "adidas-ultraboost", "fashion", 2000000, 0},
		{"doc-landskrona", "IKEA LANDSKRONA Sofa", "ikea-landskrona", "home-living", 8000000, 0},
		{"doc-dyson-v15", "Dyson V15 Detect", "dyson-v15", "home-living", 12000000, 15},
		{"doc-millenium-falcon", "LEGO Star Wars Millennium Falcon", "lego-millenium-falcon", "toys", 13000000, 0},
		{"doc-ps5", "Sony PlayStation 5", "sony-ps5", "electronics", 9000000, 0},
		{"doc-kaos-hitam", "Kaos Hitam Polos", "kaos-hitam-polos", "fashion", 100000, 0},
	}

	fmt.Println("Seeding Products...")
	for _, p := range products {
		_, err := db.Exec(`
			INSERT INTO products (document_id, title, slug, category, price, off)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (slug) DO UPDATE SET
				document_id = EXCLUDED.document_id,
				title = EXCLUDED.title,
				category = EXCLUDED.category,
				price = EXCLUDED.price,
				off = EXCLUDED.off,
				updated_at = now();
		`, p.DocumentID, p.Title, p.Slug, p.Category, p.Price, p.Off)
		if err != nil {
			log.Printf("Failed to seed product %s: %v", p.Title, err)
		}
	}
}

func seedPromotions(db *sql.DB) {
	promotions := []struct {
		Name       string
		Kind       string
		Value      float64
		AppliesTo  string
		Categories string
		Combinable bool
		Stackable  bool
		Coupon     string
		MinSub     sql.NullInt64
		MaxDisc    sql.NullInt64
		UsageLimit sql.NullInt64
		Priority   int
	}{
		{
			Name: "Storewide 10% Off", Kind: "percent", Value: 10,
			AppliesTo: "order", Categories: "{}", Priority: 100,
		},
		{
			Name: "Fashion 5% Off", Kind: "percent", Value: 5,
			AppliesTo: "category", Categories: "{fashion}",
			Combinable: true, Stackable: true, Priority: 90,
		},
		{
			Name: "Electronics Cashback", Kind: "fixed", Value: 500000,
			AppliesTo: "category", Categories: "{electronics}",
			Combinable: true, Priority: 110,
			MaxDisc: sql.NullInt64{Int64: 500000, Valid: true},
		},
		{
			Name: "Free Shipping Week", Kind: "free_shipping", Value: 0,
			AppliesTo: "order", Categories: "{}",
			Combinable: true, Stackable: true, Priority: 120,
		},
		{
			Name: "Coupon SAVE10", Kind: "fixed", Value: 2000000,
			AppliesTo: "order", Categories: "{}",
			Coupon: "SAVE10", Priority: 100,
			MinSub:     sql.NullInt64{Int64: 5000000, Valid: true},
			UsageLimit: sql.NullInt64{Int64: 1000, Valid: true},
		},
		{
			Name: "Coupon WELCOME", Kind: "percent", Value: 15,
			AppliesTo: "order", Categories: "{}",
			Coupon: "WELCOME", Priority: 100,
			MaxDisc:    sql.NullInt64{Int64: 3000000, Valid: true},
			UsageLimit: sql.NullInt64{Int64: 500, Valid: true},
		},
	}

	fmt.Println("Seeding Promotions...")
	for _, p := range promotions {
		_, err := db.Exec(`
			INSERT INTO promotions (
				name, enabled, kind, value, applies_to, categories,
				combinable, stackable_with_exclusive, requires_coupon, code,
				min_subtotal, max_discount, usage_limit, priority,
				start_at, end_at
			)
			VALUES ($1, TRUE, $2, $3, $4, $5::text[], $6, $7, $8, $9, $10, $11, $12, $13,
				now() - INTERVAL '1 day', now() + INTERVAL '1 year')
			ON CONFLICT (name) DO UPDATE SET
				kind = EXCLUDED.kind,
				value = EXCLUDED.value,
				applies_to = EXCLUDED.applies_to,
				categories = EXCLUDED.categories,
				combinable = EXCLUDED.combinable,
				stackable_with_exclusive = EXCLUDED.stackable_with_exclusive,
				requires_coupon = EXCLUDED.requires_coupon,
				code = EXCLUDED.code,
				min_subtotal = EXCLUDED.min_subtotal,
				max_discount = EXCLUDED.max_discount,
				usage_limit = EXCLUDED.usage_limit,
				priority = EXCLUDED.priority,
				updated_at = now();
		`, p.Name, p.Kind, p.Value, p.AppliesTo, p.Categories,
			p.Combinable, p.Stackable, p.Coupon != "", p.Coupon,
			p.MinSub, p.MaxDisc, p.UsageLimit, p.Priority)
		if err != nil {
			log.Printf("Failed to seed promotion %s: %v", p.Name, err)
		}
	}
}
