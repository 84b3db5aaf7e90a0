// Package insight loads the shared business context that every agent reads
// before analysis: product economics, stock distribution, and customer
// segmentation. Loading is fail-soft; when the catalog is unavailable the
// loader falls back to static defaults so a campaign run never blocks on
// missing data.
package insight

import "context"

// Source values for SharedInsights.
const (
	SourceDatabase = "database"
	SourceDefaults = "defaults"
)

// RegionStock maps a distribution region to units on hand.
type RegionStock map[string]int

// Total returns the summed units across all regions.
func (r RegionStock) Total() int {
	total := 0
	for _, units := range r {
		total += units
	}
	return total
}

// ProductInsight describes the product under analysis.
type ProductInsight struct {
	Name          string      `json:"name"`
	Category      string      `json:"category"`
	BasePrice     float64     `json:"base_price"`
	CostPrice     float64     `json:"cost_price"`
	StockQuantity int         `json:"stock_quantity"`
	StockRegions  RegionStock `json:"stock_regions"`
}

// Margin returns the unit margin as a fraction of the base price.
func (p ProductInsight) Margin() float64 {
	if p.BasePrice <= 0 {
		return 0
	}
	return (p.BasePrice - p.CostPrice) / p.BasePrice
}

// Segment summarizes one customer segment.
type Segment struct {
	Name             string   `json:"name"`
	Count            int      `json:"count"`
	AvgLifetimeValue float64  `json:"avg_lifetime_value"`
	Channels         []string `json:"channels,omitempty"`
}

// CustomerInsight summarizes the customer base.
type CustomerInsight struct {
	TotalCustomers int       `json:"total_customers"`
	Segments       []Segment `json:"segments"`
}

// TopSegment returns the segment with the highest average lifetime value,
// or nil if none are known.
func (c CustomerInsight) TopSegment() *Segment {
	var top *Segment
	for i := range c.Segments {
		if top == nil || c.Segments[i].AvgLifetimeValue > top.AvgLifetimeValue {
			top = &c.Segments[i]
		}
	}
	return top
}

// SharedInsights is the read-only context shared across all agents for a
// single campaign run.
type SharedInsights struct {
	Product   ProductInsight  `json:"product"`
	Customers CustomerInsight `json:"customers"`
	Source    string          `json:"source"`
}

// Loader produces shared insights for a product.
type Loader interface {
	Load(ctx context.Context, productName string) (SharedInsights, error)
}

// Defaults returns the static insight set used when no catalog is
// available. The figures model a mid-range consumer electronics product.
func Defaults(productName string) SharedInsights {
	return SharedInsights{
		Product: ProductInsight{
			Name:          productName,
			Category:      "Electronics",
			BasePrice:     299.99,
			CostPrice:     120.00,
			StockQuantity: 150,
			StockRegions: RegionStock{
				"north": 60,
				"south": 50,
				"west":  40,
			},
		},
		Customers: CustomerInsight{
			TotalCustomers: 1000,
			Segments: []Segment{
				{Name: "high_value", Count: 150, AvgLifetimeValue: 2500, Channels: []string{"email", "social"}},
				{Name: "regular", Count: 600, AvgLifetimeValue: 800, Channels: []string{"email"}},
				{Name: "new", Count: 250, AvgLifetimeValue: 150, Channels: []string{"social"}},
			},
		},
		Source: SourceDefaults,
	}
}
