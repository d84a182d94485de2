// Package dividends derives growth, cadence and track-record metrics from a
// raw per-security dividend payment history.
package dividends

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"dividend-hunter/internal/models"
)

const (
	// minEventsForGrowth is roughly one year of quarterly payments.
	minEventsForGrowth = 4
	// growthWindowYears caps the CAGR lookback at the most recent yearly sums.
	growthWindowYears = 5

	monthlyMaxGapDays    = 45
	quarterlyMaxGapDays  = 100
	semiAnnualMaxGapDays = 200
)

// Summary holds the derived metrics for one security's dividend history.
type Summary struct {
	GrowthRate       float64
	ConsecutiveYears int
	Frequency        models.PayFrequency
}

// Analyze computes all derived metrics in one pass over the history.
func Analyze(events []models.DividendEvent) Summary {
	return Summary{
		GrowthRate:       GrowthRate(events),
		ConsecutiveYears: ConsecutiveYears(events),
		Frequency:        PaymentFrequency(events),
	}
}

// GrowthRate calculates the compound annual growth rate of yearly dividend
// sums, as a percentage. It looks back at most five calendar years. A negative
// rate is valid and signals dividend cuts. Returns 0 when the history is too
// thin to be meaningful.
func GrowthRate(events []models.DividendEvent) float64 {
	if len(events) < minEventsForGrowth {
		return 0
	}

	years, totals := yearlyTotals(events)
	if len(years) < 2 {
		return 0
	}

	if len(years) > growthWindowYears {
		years = years[len(years)-growthWindowYears:]
	}

	start := totals[years[0]].InexactFloat64()
	end := totals[years[len(years)-1]].InexactFloat64()
	n := len(years) - 1

	if start <= 0 || n <= 0 {
		return 0
	}

	return (math.Pow(end/start, 1/float64(n)) - 1) * 100
}

// ConsecutiveYears counts the streak of calendar years with at least one
// payment, walking back from the most recent year. The first gap breaks the
// streak permanently.
func ConsecutiveYears(events []models.DividendEvent) int {
	if len(events) == 0 {
		return 0
	}

	years, _ := yearlyTotals(events)
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	consecutive := 0
	for i, year := range years {
		if i == 0 {
			consecutive = 1
		} else if years[i-1]-year == 1 {
			consecutive++
		} else {
			break
		}
	}
	return consecutive
}

// PaymentFrequency classifies the payment cadence from the mean gap in days
// between consecutive date-sorted payments.
func PaymentFrequency(events []models.DividendEvent) models.PayFrequency {
	if len(events) < 2 {
		return models.FrequencyUnknown
	}

	sorted := sortedByDate(events)
	var totalDays float64
	for i := 1; i < len(sorted); i++ {
		totalDays += sorted[i].Date.Sub(sorted[i-1].Date).Hours() / 24
	}
	avgGap := totalDays / float64(len(sorted)-1)

	switch {
	case avgGap < monthlyMaxGapDays:
		return models.FrequencyMonthly
	case avgGap < quarterlyMaxGapDays:
		return models.FrequencyQuarterly
	case avgGap < semiAnnualMaxGapDays:
		return models.FrequencySemiAnnual
	default:
		return models.FrequencyAnnual
	}
}

// yearlyTotals groups payments by calendar year, summing amounts. Years are
// returned in ascending order. Decimal summation avoids float accumulation
// drift over long histories.
func yearlyTotals(events []models.DividendEvent) ([]int, map[int]decimal.Decimal) {
	totals := make(map[int]decimal.Decimal)
	for _, e := range events {
		year := e.Date.Year()
		totals[year] = totals[year].Add(e.Amount)
	}

	years := make([]int, 0, len(totals))
	for year := range totals {
		years = append(years, year)
	}
	sort.Ints(years)
	return years, totals
}

// sortedByDate returns a date-ascending copy. The provider hands events over
// sorted already; this guards against out-of-order input.
func sortedByDate(events []models.DividendEvent) []models.DividendEvent {
	sorted := make([]models.DividendEvent, len(events))
	copy(sorted, events)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}
