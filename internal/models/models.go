// Package models provides domain models for the dividend analysis application.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the day-granularity date format used across persisted data.
const DateLayout = "2006-01-02"

// Category classifies a dividend stock by its income profile.
type Category string

const (
	// CategoryImmediate marks stocks paying meaningful income now (yield >= 3%, safety >= 50).
	CategoryImmediate Category = "immediate"
	// CategoryLongshot marks low-yield stocks with strong dividend growth.
	CategoryLongshot Category = "longshot"
	// CategoryBalanced marks everything in between.
	CategoryBalanced Category = "balanced"
)

// PayFrequency represents how often a company pays dividends.
type PayFrequency string

const (
	FrequencyMonthly    PayFrequency = "Monthly"
	FrequencyQuarterly  PayFrequency = "Quarterly"
	FrequencySemiAnnual PayFrequency = "Semi-Annual"
	FrequencyAnnual     PayFrequency = "Annual"
	FrequencyUnknown    PayFrequency = "Unknown"
)

// DividendEvent is a single historical dividend payment. Immutable.
type DividendEvent struct {
	Date   time.Time
	Amount decimal.Decimal
}

// MarshalJSON serializes the event with a day-granularity date and a numeric amount.
func (e DividendEvent) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf(`{"date":%q,"amount":%s}`, e.Date.Format(DateLayout), e.Amount.String())), nil
}

// UnmarshalJSON parses the persisted {date, amount} form.
func (e *DividendEvent) UnmarshalJSON(data []byte) error {
	var raw struct {
		Date   string      `json:"date"`
		Amount json.Number `json:"amount"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := time.Parse(DateLayout, raw.Date)
	if err != nil {
		return fmt.Errorf("parsing dividend date %q: %w", raw.Date, err)
	}
	amount, err := decimal.NewFromString(raw.Amount.String())
	if err != nil {
		return fmt.Errorf("parsing dividend amount %q: %w", raw.Amount, err)
	}
	e.Date = date
	e.Amount = amount
	return nil
}

// SecurityMetrics is one fully-derived record per ticker. Rebuilt fresh on
// every refresh and never mutated after creation.
type SecurityMetrics struct {
	Ticker   string `json:"ticker"`
	Name     string `json:"name"`
	Sector   string `json:"sector"`
	Industry string `json:"industry"`

	Price            float64 `json:"price"`
	MarketCap        float64 `json:"marketCap"`
	PERatio          float64 `json:"peRatio"`
	FiftyTwoWeekHigh float64 `json:"fiftyTwoWeekHigh"`
	FiftyTwoWeekLow  float64 `json:"fiftyTwoWeekLow"`

	// DividendYield and PayoutRatio are percentages; scoring works on the
	// fraction-scaled yield internally.
	DividendYield    float64      `json:"dividendYield"`
	AnnualDividend   float64      `json:"annualDividend"`
	PayoutRatio      float64      `json:"payoutRatio"`
	ExDividendDate   string       `json:"exDividendDate,omitempty"`
	PaymentFrequency PayFrequency `json:"paymentFrequency"`

	GrowthRate       float64  `json:"growthRate"`
	ConsecutiveYears int      `json:"consecutiveYears"`
	SafetyScore      int      `json:"safetyScore"`
	RankScore        float64  `json:"rankScore"`
	Category         Category `json:"category"`

	// DividendHistory holds at most the 400 most recent payments.
	DividendHistory []DividendEvent `json:"dividendHistory"`

	FetchedAt time.Time `json:"fetchedAt"`
}

// Snapshot is one immutable, fully-materialized generation of the dataset.
type Snapshot struct {
	FetchedAt time.Time         `json:"fetchedAt"`
	Stocks    []SecurityMetrics `json:"stocks"`
}

// HistoricalPoint is one daily summary data point for trend charts.
type HistoricalPoint struct {
	Date        string  `json:"date"`
	Yield       float64 `json:"yield"`
	Price       float64 `json:"price"`
	GrowthRate  float64 `json:"growthRate"`
	SafetyScore int     `json:"safetyScore"`
}

// HistoricalSeries is a per-ticker insertion-ordered sequence of points,
// capped at the most recent 30 entries.
type HistoricalSeries []HistoricalPoint
