package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func seedCatalog(t *testing.T, db *DB) {
	t.Helper()
	ctx := context.Background()

	_, err := db.Conn().ExecContext(ctx, `
		INSERT INTO products (product_id, name, description, category, base_price, cost_price, stock_quantity, stock_regions)
		VALUES ('prod_001', 'AuraSound X Headphones', 'Wireless over-ear headphones', 'Electronics', 299.99, 120.00, 150, '{"north":60,"south":50,"west":40}')`)
	require.NoError(t, err)

	seeds := []struct {
		segment  string
		ltv      float64
		channels string
	}{
		{"high_value", 2500, `["email","social"]`},
		{"high_value", 2500, `["email","social"]`},
		{"regular", 800, `["email"]`},
		{"new", 150, `["social"]`},
	}
	for _, s := range seeds {
		_, err := db.Conn().ExecContext(ctx,
			`INSERT INTO customers (segment, lifetime_value, preferred_channels) VALUES (?, ?, ?)`,
			s.segment, s.ltv, s.channels)
		require.NoError(t, err)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Migrate(context.Background()))
}

func TestCatalogDAOFindProduct(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	dao := NewCatalogDAO(db)

	row, err := dao.FindProduct(context.Background(), "aurasound")
	require.NoError(t, err)
	assert.Equal(t, "AuraSound X Headphones", row.Name)
	assert.Equal(t, 299.99, row.BasePrice)
	assert.Equal(t, 120.00, row.CostPrice)
	assert.Equal(t, 150, row.StockQuantity)
	assert.True(t, row.IsActive)
	assert.Contains(t, row.StockRegions, "north")
}

func TestCatalogDAOFindProductNotFound(t *testing.T) {
	db := newTestDB(t)
	dao := NewCatalogDAO(db)

	_, err := dao.FindProduct(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogDAOFindProductSkipsInactive(t *testing.T) {
	db := newTestDB(t)
	_, err := db.Conn().Exec(`
		INSERT INTO products (product_id, name, base_price, cost_price, is_active)
		VALUES ('prod_002', 'Retired Gadget', 10, 5, 0)`)
	require.NoError(t, err)

	dao := NewCatalogDAO(db)
	_, err = dao.FindProduct(context.Background(), "retired")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogDAOCustomerSegments(t *testing.T) {
	db := newTestDB(t)
	seedCatalog(t, db)
	dao := NewCatalogDAO(db)

	segments, err := dao.CustomerSegments(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, segments, 3)

	// Ordered by average lifetime value, highest first.
	assert.Equal(t, "high_value", segments[0].Segment)
	assert.Equal(t, 2, segments[0].Count)
	assert.InDelta(t, 2500, segments[0].AvgLTV, 0.01)
	assert.Equal(t, "new", segments[2].Segment)
}

func TestCollaborationDAORoundTrip(t *testing.T) {
	db := newTestDB(t)
	dao := NewCollaborationDAO(db)
	ctx := context.Background()

	rec := &CollaborationRecord{
		CollaborationID:    "analysis_a1b2c3d4",
		Query:              "Plan a summer launch campaign",
		Product:            "AuraSound X Headphones",
		Mode:               "multi_agent_negotiation",
		TotalRounds:        2,
		TotalInteractions:  9,
		FinalDecision:      "APPROVED",
		StrategicPriority:  "HIGH",
		SuccessProbability: 0.87,
		Metadata:           map[string]any{"consensus": true},
		Duration:           1500 * time.Millisecond,
	}

	require.NoError(t, dao.Save(ctx, rec))
	assert.NotZero(t, rec.ID)

	got, err := dao.GetByCollaborationID(ctx, "analysis_a1b2c3d4")
	require.NoError(t, err)
	assert.Equal(t, rec.Query, got.Query)
	assert.Equal(t, rec.FinalDecision, got.FinalDecision)
	assert.Equal(t, rec.StrategicPriority, got.StrategicPriority)
	assert.InDelta(t, 0.87, got.SuccessProbability, 1e-9)
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
	require.NotNil(t, got.Metadata)
	assert.Equal(t, true, got.Metadata["consensus"])
}

func TestCollaborationDAOGetNotFound(t *testing.T) {
	db := newTestDB(t)
	dao := NewCollaborationDAO(db)

	_, err := dao.GetByCollaborationID(context.Background(), "analysis_missing")
	assert.ErrorIs(t, err, ErrCollaborationNotFound)
}

func TestCollaborationDAOListByProduct(t *testing.T) {
	db := newTestDB(t)
	dao := NewCollaborationDAO(db)
	ctx := context.Background()

	for i, id := range []string{"analysis_00000001", "analysis_00000002"} {
		rec := &CollaborationRecord{
			CollaborationID:    id,
			Query:              "query",
			Product:            "AuraSound X Headphones",
			Mode:               "multi_agent_negotiation",
			TotalRounds:        1 + i,
			TotalInteractions:  3,
			FinalDecision:      "APPROVED_CONDITIONAL",
			StrategicPriority:  "MEDIUM",
			SuccessProbability: 0.7,
		}
		require.NoError(t, dao.Save(ctx, rec))
	}

	records, err := dao.ListByProduct(ctx, "AuraSound X Headphones", 10)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = dao.ListByProduct(ctx, "Other Product", 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
