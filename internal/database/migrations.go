package database

import (
	"context"

	"github.com/Veins19/MarketBridge/internal/types"
)

// schemaStatements holds the DDL applied by Migrate, in order.
// products and customers back the shared-insight loader; collaborations
// stores one record per completed campaign run.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS products (
		id              INTEGER PRIMARY KEY AUTOINCREMENT,
		product_id      TEXT NOT NULL UNIQUE,
		name            TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		category        TEXT NOT NULL DEFAULT 'Electronics',
		base_price      REAL NOT NULL,
		cost_price      REAL NOT NULL,
		stock_quantity  INTEGER NOT NULL DEFAULT 0,
		stock_regions   TEXT NOT NULL DEFAULT '{}',
		is_active       INTEGER NOT NULL DEFAULT 1,
		created_at      TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)`,

	`CREATE TABLE IF NOT EXISTS customers (
		id                 INTEGER PRIMARY KEY AUTOINCREMENT,
		segment            TEXT NOT NULL,
		lifetime_value     REAL NOT NULL DEFAULT 0,
		preferred_channels TEXT NOT NULL DEFAULT '[]',
		created_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_segment ON customers(segment)`,

	`CREATE TABLE IF NOT EXISTS collaborations (
		id                   INTEGER PRIMARY KEY AUTOINCREMENT,
		collaboration_id     TEXT NOT NULL UNIQUE,
		query                TEXT NOT NULL,
		product              TEXT NOT NULL,
		collaboration_mode   TEXT NOT NULL,
		total_rounds         INTEGER NOT NULL,
		total_interactions   INTEGER NOT NULL,
		final_decision       TEXT NOT NULL,
		strategic_priority   TEXT NOT NULL,
		success_probability  REAL NOT NULL,
		metadata             TEXT NOT NULL DEFAULT '{}',
		duration_seconds     REAL NOT NULL DEFAULT 0,
		created_at           TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_collaborations_product ON collaborations(product)`,
}

// Migrate applies the schema. It is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return types.WrapError(types.DB_MIGRATION_FAILED, "applying schema", err)
		}
	}
	return nil
}
