// Package provider abstracts the external market data source.
package provider

import (
	"context"

	"dividend-hunter/internal/models"
)

// SecurityInfo holds the per-ticker company metadata and fundamentals returned
// by the market data provider. Yield and payout ratio are fractions.
type SecurityInfo struct {
	Name     string
	Sector   string
	Industry string

	Price            float64
	MarketCap        float64
	PERatio          float64
	FiftyTwoWeekHigh float64
	FiftyTwoWeekLow  float64

	DividendYield      float64
	PayoutRatio        float64
	AnnualDividendRate float64
	ExDividendDate     int64 // unix seconds, 0 when the provider has none
}

// MarketDataProvider supplies company metadata and dividend payment history.
// Implementations are treated as untrusted, rate-limited and occasionally
// failing; each call is independently failable and fail-fast.
type MarketDataProvider interface {
	GetInfo(ctx context.Context, ticker string) (*SecurityInfo, error)
	GetDividendHistory(ctx context.Context, ticker string) ([]models.DividendEvent, error)
}
