package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Veins19/MarketBridge/internal/types"
)

// ProductRow is a product catalog record.
type ProductRow struct {
	ID            int64   `json:"id"`
	ProductID     string  `json:"product_id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Category      string  `json:"category"`
	BasePrice     float64 `json:"base_price"`
	CostPrice     float64 `json:"cost_price"`
	StockQuantity int     `json:"stock_quantity"`
	StockRegions  string  `json:"stock_regions"` // JSON object keyed by region
	IsActive      bool    `json:"is_active"`
}

// CustomerSegmentRow summarizes one customer segment.
type CustomerSegmentRow struct {
	Segment  string  `json:"segment"`
	Count    int     `json:"count"`
	AvgLTV   float64 `json:"avg_ltv"`
	Channels string  `json:"channels"`
}

// ErrProductNotFound is returned when no active product matches a lookup.
var ErrProductNotFound = errors.New("product not found")

// CatalogDAO provides read access to the product and customer catalog.
type CatalogDAO interface {
	// FindProduct returns the first active product whose name matches the
	// given name (case-insensitive substring match).
	FindProduct(ctx context.Context, name string) (*ProductRow, error)

	// CustomerSegments returns per-segment summaries, highest average
	// lifetime value first.
	CustomerSegments(ctx context.Context, limit int) ([]CustomerSegmentRow, error)
}

// catalogDAO implements CatalogDAO against SQLite.
type catalogDAO struct {
	db *DB
}

// NewCatalogDAO creates a CatalogDAO backed by db.
func NewCatalogDAO(db *DB) CatalogDAO {
	return &catalogDAO{db: db}
}

func (d *catalogDAO) FindProduct(ctx context.Context, name string) (*ProductRow, error) {
	const query = `
		SELECT id, product_id, name, description, category, base_price,
		       cost_price, stock_quantity, stock_regions, is_active
		FROM products
		WHERE LOWER(name) LIKE '%' || LOWER(?) || '%' AND is_active = 1
		ORDER BY id
		LIMIT 1`

	var row ProductRow
	err := d.db.conn.QueryRowContext(ctx, query, name).Scan(
		&row.ID, &row.ProductID, &row.Name, &row.Description, &row.Category,
		&row.BasePrice, &row.CostPrice, &row.StockQuantity, &row.StockRegions,
		&row.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "product lookup", err)
	}

	return &row, nil
}

func (d *catalogDAO) CustomerSegments(ctx context.Context, limit int) ([]CustomerSegmentRow, error) {
	if limit <= 0 {
		limit = 10
	}

	const query = `
		SELECT segment, COUNT(*) AS customer_count,
		       AVG(lifetime_value) AS avg_ltv, preferred_channels
		FROM customers
		GROUP BY segment, preferred_channels
		ORDER BY avg_ltv DESC
		LIMIT ?`

	rows, err := d.db.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "customer segments", err)
	}
	defer rows.Close()

	var segments []CustomerSegmentRow
	for rows.Next() {
		var seg CustomerSegmentRow
		if err := rows.Scan(&seg.Segment, &seg.Count, &seg.AvgLTV, &seg.Channels); err != nil {
			return nil, types.WrapError(types.DB_QUERY_FAILED, "scanning customer segment", err)
		}
		segments = append(segments, seg)
	}
	if err := rows.Err(); err != nil {
		return nil, types.WrapError(types.DB_QUERY_FAILED, "iterating customer segments", err)
	}

	return segments, nil
}
