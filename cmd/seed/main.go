// Package main provides a CLI tool for creating the schema and seeding the
// menu catalog.
package main

import (
	"context"
	"fmt"
	"os"

	"tabkeeper/internal/infrastructure/storage/postgres"
	"tabkeeper/pkg/logger"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id         BIGSERIAL PRIMARY KEY,
		name       TEXT NOT NULL,
		price      NUMERIC(10,2) NOT NULL,
		category   TEXT,
		available  BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	// One counter row per calendar day; the upsert in the allocator relies
	// on the UNIQUE constraint.
	`CREATE TABLE IF NOT EXISTS bill_counters (
		id       BIGSERIAL PRIMARY KEY,
		date_key DATE NOT NULL UNIQUE,
		counter  BIGINT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS orders (
		id            BIGSERIAL PRIMARY KEY,
		bill_no       TEXT NOT NULL UNIQUE,
		customer_name TEXT,
		phone         TEXT,
		session       TEXT,
		total         NUMERIC(10,2) NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS order_items (
		id            BIGSERIAL PRIMARY KEY,
		order_id      BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		item_id       BIGINT,
		name_snapshot TEXT NOT NULL,
		qty           INTEGER NOT NULL,
		unit_price    NUMERIC(10,2) NOT NULL,
		line_total    NUMERIC(10,2) NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id)`,

	`CREATE TABLE IF NOT EXISTS sessions (
		id           UUID PRIMARY KEY,
		subject_id   TEXT NOT NULL,
		display_name TEXT NOT NULL,
		email        TEXT NOT NULL,
		created_at   TIMESTAMPTZ NOT NULL,
		expires_at   TIMESTAMPTZ NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)`,

	`CREATE TABLE IF NOT EXISTS order_audit (
		id                 BIGSERIAL PRIMARY KEY,
		order_id           BIGINT NOT NULL,
		bill_no            TEXT NOT NULL,
		staff_email        TEXT NOT NULL DEFAULT '',
		payload            JSONB,
		payload_compressed BYTEA,
		compression_algo   TEXT NOT NULL DEFAULT 'none',
		created_at         TIMESTAMPTZ NOT NULL
	)`,
}

type menuRow struct {
	name     string
	price    string
	category string
}

var sampleMenu = []menuRow{
	{"Masala Chai", "20.00", "Beverages"},
	{"Filter Coffee", "25.00", "Beverages"},
	{"Fresh Lime Soda", "40.00", "Beverages"},
	{"Veg Sandwich", "60.00", "Snacks"},
	{"Samosa", "15.00", "Snacks"},
	{"Paneer Roll", "80.00", "Snacks"},
	{"Veg Thali", "120.00", "Meals"},
	{"Paneer Butter Masala", "160.00", "Meals"},
	{"Dal Tadka", "110.00", "Meals"},
	{"Jeera Rice", "90.00", "Meals"},
	{"Gulab Jamun", "40.00", "Desserts"},
	{"Ice Cream", "50.00", "Desserts"},
}

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			log.Fatalw("failed to apply schema", "error", err)
		}
	}
	log.Info("schema applied")

	if os.Getenv("SEED_MENU") == "false" {
		log.Info("menu seeding skipped")
		return
	}

	var existing int64
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&existing); err != nil {
		log.Fatalw("failed to check products", "error", err)
	}
	if existing > 0 {
		log.Infow("menu already seeded", "count", existing)
		return
	}

	for _, row := range sampleMenu {
		_, err := pool.Exec(ctx,
			`INSERT INTO products (name, price, category) VALUES ($1, $2, $3)`,
			row.name, row.price, row.category,
		)
		if err != nil {
			log.Fatalw("failed to seed menu item", "name", row.name, "error", err)
		}
	}

	log.Infow("menu seeded", "items", len(sampleMenu))
}
