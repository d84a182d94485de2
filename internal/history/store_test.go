package history

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dividend-hunter/internal/models"
)

func point(day int) models.HistoricalPoint {
	return models.HistoricalPoint{
		Date:  fmt.Sprintf("2026-03-%02d", day),
		Yield: float64(day),
	}
}

func TestAppendAndSeries(t *testing.T) {
	s := New(30)

	_, ok := s.Series("KO")
	assert.False(t, ok)

	s.Append("KO", point(1))
	s.Append("KO", point(2))

	series, ok := s.Series("KO")
	require.True(t, ok)
	require.Len(t, series, 2)
	assert.Equal(t, "2026-03-01", series[0].Date)
	assert.Equal(t, "2026-03-02", series[1].Date)
}

func TestAppendEvictsOldest(t *testing.T) {
	s := New(30)
	for i := 0; i < 35; i++ {
		s.Append("KO", models.HistoricalPoint{Date: fmt.Sprintf("day-%d", i)})
	}

	series, ok := s.Series("KO")
	require.True(t, ok)
	require.Len(t, series, 30)
	assert.Equal(t, "day-5", series[0].Date, "oldest five evicted")
	assert.Equal(t, "day-34", series[29].Date)
}

func TestSeriesReturnsCopy(t *testing.T) {
	s := New(30)
	s.Append("KO", point(1))

	series, _ := s.Series("KO")
	series[0].Date = "mutated"

	again, _ := s.Series("KO")
	assert.Equal(t, "2026-03-01", again[0].Date)
}

func TestReplaceReappliesCap(t *testing.T) {
	oversized := make(models.HistoricalSeries, 40)
	for i := range oversized {
		oversized[i] = models.HistoricalPoint{Date: fmt.Sprintf("day-%d", i)}
	}

	s := New(30)
	s.Append("OLD", point(1))
	s.Replace(map[string]models.HistoricalSeries{"KO": oversized})

	_, ok := s.Series("OLD")
	assert.False(t, ok, "replace discards prior contents")

	series, ok := s.Series("KO")
	require.True(t, ok)
	require.Len(t, series, 30)
	assert.Equal(t, "day-10", series[0].Date)
	assert.Equal(t, 1, s.Len())
}

func TestTickersAreIndependent(t *testing.T) {
	s := New(2)
	s.Append("KO", point(1))
	s.Append("KO", point(2))
	s.Append("KO", point(3))
	s.Append("PEP", point(1))

	ko, _ := s.Series("KO")
	pep, _ := s.Series("PEP")
	assert.Len(t, ko, 2)
	assert.Len(t, pep, 1)
	assert.Equal(t, 2, s.Len())
}
