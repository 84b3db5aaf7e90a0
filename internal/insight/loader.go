package insight

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Veins19/MarketBridge/internal/database"
)

// dbLoader loads insights from the product catalog, falling back to the
// static defaults when the catalog cannot serve the request.
type dbLoader struct {
	catalog database.CatalogDAO
	logger  *slog.Logger
}

// NewDatabaseLoader creates a Loader backed by the catalog DAO.
func NewDatabaseLoader(catalog database.CatalogDAO, logger *slog.Logger) Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &dbLoader{
		catalog: catalog,
		logger:  logger.With("component", "insight_loader"),
	}
}

// Load reads product and customer insights from the catalog. Any failure
// degrades to Defaults rather than returning an error; the Source field
// records which path was taken.
func (l *dbLoader) Load(ctx context.Context, productName string) (SharedInsights, error) {
	row, err := l.catalog.FindProduct(ctx, productName)
	if err != nil {
		l.logger.Warn("product lookup failed, using default insights",
			"product", productName,
			"error", err)
		return Defaults(productName), nil
	}

	product := ProductInsight{
		Name:          row.Name,
		Category:      row.Category,
		BasePrice:     row.BasePrice,
		CostPrice:     row.CostPrice,
		StockQuantity: row.StockQuantity,
		StockRegions:  parseRegions(row.StockRegions),
	}

	customers := l.loadCustomers(ctx, productName)

	return SharedInsights{
		Product:   product,
		Customers: customers,
		Source:    SourceDatabase,
	}, nil
}

func (l *dbLoader) loadCustomers(ctx context.Context, productName string) CustomerInsight {
	rows, err := l.catalog.CustomerSegments(ctx, 10)
	if err != nil || len(rows) == 0 {
		if err != nil {
			l.logger.Warn("customer segment query failed, using default segments",
				"product", productName,
				"error", err)
		}
		return Defaults(productName).Customers
	}

	insight := CustomerInsight{}
	for _, row := range rows {
		insight.TotalCustomers += row.Count
		insight.Segments = append(insight.Segments, Segment{
			Name:             row.Segment,
			Count:            row.Count,
			AvgLifetimeValue: row.AvgLTV,
			Channels:         parseChannels(row.Channels),
		})
	}
	return insight
}

func parseRegions(raw string) RegionStock {
	regions := RegionStock{}
	if raw == "" {
		return regions
	}
	if err := json.Unmarshal([]byte(raw), &regions); err != nil {
		return RegionStock{}
	}
	return regions
}

func parseChannels(raw string) []string {
	if raw == "" {
		return nil
	}
	var channels []string
	if err := json.Unmarshal([]byte(raw), &channels); err != nil {
		return nil
	}
	return channels
}

// StaticLoader always returns the same insight set. Useful for demos and
// tests that need deterministic context.
type StaticLoader struct {
	Insights SharedInsights
}

// Load returns the configured insights, keeping the requested product name.
func (s *StaticLoader) Load(_ context.Context, productName string) (SharedInsights, error) {
	out := s.Insights
	if out.Product.Name == "" {
		out.Product.Name = productName
	}
	if out.Source == "" {
		out.Source = SourceDefaults
	}
	return out, nil
}
