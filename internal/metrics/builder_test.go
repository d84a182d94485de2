package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dividend-hunter/internal/errors"
	"dividend-hunter/internal/models"
	"dividend-hunter/internal/provider"
)

type fakeProvider struct {
	info       *provider.SecurityInfo
	infoErr    error
	history    []models.DividendEvent
	historyErr error
}

func (f *fakeProvider) GetInfo(ctx context.Context, ticker string) (*provider.SecurityInfo, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func (f *fakeProvider) GetDividendHistory(ctx context.Context, ticker string) ([]models.DividendEvent, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.history, nil
}

func payerInfo() *provider.SecurityInfo {
	return &provider.SecurityInfo{
		Name:               "Coca-Cola Company",
		Sector:             "Consumer Defensive",
		Industry:           "Beverages - Non-Alcoholic",
		Price:              62.50,
		MarketCap:          2.7e11,
		PERatio:            25.8,
		FiftyTwoWeekHigh:   65.0,
		FiftyTwoWeekLow:    51.5,
		DividendYield:      0.031,
		AnnualDividendRate: 1.94,
		PayoutRatio:        0.68,
		ExDividendDate:     time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC).Unix(),
	}
}

func quarterlyHistory(years int) []models.DividendEvent {
	var events []models.DividendEvent
	endYear := 2026
	for year := endYear - years + 1; year <= endYear; year++ {
		for _, month := range []time.Month{time.March, time.June, time.September, time.December} {
			events = append(events, models.DividendEvent{
				Date:   time.Date(year, month, 15, 0, 0, 0, 0, time.UTC),
				Amount: decimal.NewFromFloat(0.485),
			})
		}
	}
	return events
}

func TestBuildCompleteRecord(t *testing.T) {
	fake := &fakeProvider{info: payerInfo(), history: quarterlyHistory(10)}
	b := NewBuilder(fake, 0, zerolog.Nop())

	m, err := b.Build(context.Background(), "KO")
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Equal(t, "KO", m.Ticker)
	assert.Equal(t, "Coca-Cola Company", m.Name)
	assert.Equal(t, 3.1, m.DividendYield, "yield presented as rounded percent")
	assert.Equal(t, 68.0, m.PayoutRatio, "payout presented as percent")
	assert.Equal(t, 1.94, m.AnnualDividend)
	assert.Equal(t, "2026-06-15", m.ExDividendDate)
	assert.Equal(t, models.FrequencyQuarterly, m.PaymentFrequency)
	assert.Equal(t, 10, m.ConsecutiveYears)
	assert.Equal(t, models.CategoryImmediate, m.Category)
	assert.NotZero(t, m.SafetyScore)
	assert.NotZero(t, m.RankScore)
	assert.False(t, m.FetchedAt.IsZero())
	assert.Len(t, m.DividendHistory, 40)
}

func TestBuildNonPayerIsSoftAbsence(t *testing.T) {
	t.Run("zero yield", func(t *testing.T) {
		info := payerInfo()
		info.DividendYield = 0
		fake := &fakeProvider{info: info, history: quarterlyHistory(10)}
		b := NewBuilder(fake, 0, zerolog.Nop())

		m, err := b.Build(context.Background(), "GOOGL")
		assert.NoError(t, err)
		assert.Nil(t, m)
	})

	t.Run("no dividend history", func(t *testing.T) {
		fake := &fakeProvider{info: payerInfo(), history: nil}
		b := NewBuilder(fake, 0, zerolog.Nop())

		m, err := b.Build(context.Background(), "XYZ")
		assert.NoError(t, err)
		assert.Nil(t, m)
	})
}

func TestBuildProviderErrorPropagates(t *testing.T) {
	wantErr := errors.NewProviderError("KO", "quote", assert.AnError)

	t.Run("info call fails", func(t *testing.T) {
		fake := &fakeProvider{infoErr: wantErr}
		b := NewBuilder(fake, 0, zerolog.Nop())

		m, err := b.Build(context.Background(), "KO")
		assert.Nil(t, m)
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("history call fails", func(t *testing.T) {
		fake := &fakeProvider{info: payerInfo(), historyErr: wantErr}
		b := NewBuilder(fake, 0, zerolog.Nop())

		m, err := b.Build(context.Background(), "KO")
		assert.Nil(t, m)
		assert.ErrorIs(t, err, wantErr)
	})
}

func TestBuildCapsStoredHistory(t *testing.T) {
	fake := &fakeProvider{info: payerInfo(), history: quarterlyHistory(30)} // 120 events
	b := NewBuilder(fake, 8, zerolog.Nop())

	m, err := b.Build(context.Background(), "KO")
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Len(t, m.DividendHistory, 8, "stored tail is capped")
	assert.Equal(t, 30, m.ConsecutiveYears, "analysis saw the full history")
	last := m.DividendHistory[len(m.DividendHistory)-1]
	assert.Equal(t, 2026, last.Date.Year(), "tail keeps the most recent events")
}
