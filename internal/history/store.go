// Package history accumulates per-ticker daily summary points across refresh
// generations for trend charts.
package history

import (
	"sync"

	"dividend-hunter/internal/models"
)

const defaultCap = 30

// Store is an append-only per-ticker log of HistoricalPoints with a hard
// point-count cap per ticker, oldest evicted first. It supports one writer
// and many concurrent readers.
type Store struct {
	mu     sync.RWMutex
	cap    int
	series map[string]models.HistoricalSeries
}

// New creates a trend store retaining at most pointCap entries per ticker.
func New(pointCap int) *Store {
	if pointCap <= 0 {
		pointCap = defaultCap
	}
	return &Store{
		cap:    pointCap,
		series: make(map[string]models.HistoricalSeries),
	}
}

// Append adds one point to a ticker's series, evicting the oldest entry when
// the cap is exceeded. Eviction is count-based, not date-based: multiple
// same-day appends each count.
func (s *Store) Append(ticker string, point models.HistoricalPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	series := append(s.series[ticker], point)
	if len(series) > s.cap {
		series = series[len(series)-s.cap:]
	}
	s.series[ticker] = series
}

// Series returns a copy of a ticker's series. The second return value is
// false when the ticker has no recorded history.
func (s *Store) Series(ticker string) (models.HistoricalSeries, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	series, ok := s.series[ticker]
	if !ok {
		return nil, false
	}
	out := make(models.HistoricalSeries, len(series))
	copy(out, series)
	return out, true
}

// All returns a deep copy of every series, for persistence.
func (s *Store) All() map[string]models.HistoricalSeries {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]models.HistoricalSeries, len(s.series))
	for ticker, series := range s.series {
		cp := make(models.HistoricalSeries, len(series))
		copy(cp, series)
		out[ticker] = cp
	}
	return out
}

// Replace swaps in previously persisted series, re-applying the cap in case
// the stored data predates a smaller configured cap.
func (s *Store) Replace(data map[string]models.HistoricalSeries) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.series = make(map[string]models.HistoricalSeries, len(data))
	for ticker, series := range data {
		cp := make(models.HistoricalSeries, len(series))
		copy(cp, series)
		if len(cp) > s.cap {
			cp = cp[len(cp)-s.cap:]
		}
		s.series[ticker] = cp
	}
}

// Len returns the number of tickers with recorded history.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.series)
}
