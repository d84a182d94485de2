package cache

import (
	"sort"
	"strings"
	"time"

	"dividend-hunter/internal/errors"
	"dividend-hunter/internal/models"
)

// DefaultLimit bounds query results when the caller gives no limit.
const DefaultLimit = 100

// SortField enumerates the fields a query may sort by. Unrecognized names are
// rejected rather than silently defaulting.
type SortField string

const (
	SortRankScore        SortField = "rankScore"
	SortDividendYield    SortField = "dividendYield"
	SortSafetyScore      SortField = "safetyScore"
	SortGrowthRate       SortField = "growthRate"
	SortConsecutiveYears SortField = "consecutiveYears"
	SortAnnualDividend   SortField = "annualDividend"
	SortPayoutRatio      SortField = "payoutRatio"
	SortPrice            SortField = "price"
	SortMarketCap        SortField = "marketCap"
	SortPERatio          SortField = "peRatio"
	SortTicker           SortField = "ticker"
	SortName             SortField = "name"
)

// ParseSortField validates a sort field name.
func ParseSortField(name string) (SortField, error) {
	switch SortField(name) {
	case SortRankScore, SortDividendYield, SortSafetyScore, SortGrowthRate,
		SortConsecutiveYears, SortAnnualDividend, SortPayoutRatio, SortPrice,
		SortMarketCap, SortPERatio, SortTicker, SortName:
		return SortField(name), nil
	default:
		return "", errors.Wrapf(errors.ErrUnknownSortField, "%q", name)
	}
}

// identifier fields sort ascending; every other field sorts descending.
func (f SortField) ascending() bool {
	return f == SortTicker || f == SortName
}

// Filters narrows the result set. Zero values mean "no constraint". Yields
// are percentages, matching SecurityMetrics.DividendYield.
type Filters struct {
	Category  models.Category
	MinYield  *float64
	MaxYield  *float64
	MinSafety *int
	Sector    string
}

// QueryOptions describes one read query.
type QueryOptions struct {
	Filters Filters
	SortBy  SortField
	Limit   int
}

// Result is the answer to one read query. Total counts matches before the
// limit is applied. FetchedAt is zero when no snapshot exists.
type Result struct {
	Stocks    []models.SecurityMetrics
	Total     int
	FetchedAt time.Time
	Status    Status
}

// Query filters and sorts the current snapshot on read. A stale or absent
// snapshot yields an empty result carrying the distinguishing status, so the
// caller can tell "never fetched" from "data is old".
func (c *Cache) Query(opts QueryOptions) (*Result, error) {
	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = SortRankScore
	} else if _, err := ParseSortField(string(sortBy)); err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	snap, status := c.Snapshot()
	if status != StatusReady {
		res := &Result{Status: status}
		if snap != nil {
			res.FetchedAt = snap.FetchedAt
		}
		return res, nil
	}

	filtered := applyFilters(snap.Stocks, opts.Filters)
	sortStocks(filtered, sortBy)

	total := len(filtered)
	if len(filtered) > limit {
		filtered = filtered[:limit]
	}

	return &Result{
		Stocks:    filtered,
		Total:     total,
		FetchedAt: snap.FetchedAt,
		Status:    StatusReady,
	}, nil
}

// Sectors returns the sorted distinct sector names present in the current
// snapshot, regardless of staleness.
func (c *Cache) Sectors() []string {
	snap, status := c.Snapshot()
	if status == StatusNeedsInit || snap == nil {
		return nil
	}

	seen := make(map[string]struct{})
	for _, s := range snap.Stocks {
		if s.Sector != "" {
			seen[s.Sector] = struct{}{}
		}
	}
	sectors := make([]string, 0, len(seen))
	for sector := range seen {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)
	return sectors
}

func applyFilters(stocks []models.SecurityMetrics, f Filters) []models.SecurityMetrics {
	out := make([]models.SecurityMetrics, 0, len(stocks))
	for _, s := range stocks {
		if f.Category != "" && s.Category != f.Category {
			continue
		}
		if f.MinYield != nil && s.DividendYield < *f.MinYield {
			continue
		}
		if f.MaxYield != nil && s.DividendYield > *f.MaxYield {
			continue
		}
		if f.MinSafety != nil && s.SafetyScore < *f.MinSafety {
			continue
		}
		if f.Sector != "" && !strings.EqualFold(s.Sector, f.Sector) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func sortStocks(stocks []models.SecurityMetrics, field SortField) {
	asc := field.ascending()
	sort.SliceStable(stocks, func(i, j int) bool {
		if asc {
			return stringValue(&stocks[i], field) < stringValue(&stocks[j], field)
		}
		return numericValue(&stocks[i], field) > numericValue(&stocks[j], field)
	})
}

func stringValue(s *models.SecurityMetrics, field SortField) string {
	switch field {
	case SortTicker:
		return s.Ticker
	case SortName:
		return s.Name
	default:
		return ""
	}
}

// numericValue maps a sort field to its typed accessor. Absent values are the
// zero value, which sorts as the lowest possible for the type.
func numericValue(s *models.SecurityMetrics, field SortField) float64 {
	switch field {
	case SortRankScore:
		return s.RankScore
	case SortDividendYield:
		return s.DividendYield
	case SortSafetyScore:
		return float64(s.SafetyScore)
	case SortGrowthRate:
		return s.GrowthRate
	case SortConsecutiveYears:
		return float64(s.ConsecutiveYears)
	case SortAnnualDividend:
		return s.AnnualDividend
	case SortPayoutRatio:
		return s.PayoutRatio
	case SortPrice:
		return s.Price
	case SortMarketCap:
		return s.MarketCap
	case SortPERatio:
		return s.PERatio
	default:
		return 0
	}
}
