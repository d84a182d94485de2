// Package metrics assembles complete per-ticker records from provider data,
// the dividend analyzer and the scoring engine.
package metrics

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"dividend-hunter/internal/analysis/dividends"
	"dividend-hunter/internal/analysis/scoring"
	"dividend-hunter/internal/models"
	"dividend-hunter/internal/provider"
)

const defaultDividendTail = 400

// Builder builds one SecurityMetrics record per ticker. Per-ticker failures
// are isolated: a non-dividend payer yields (nil, nil), a provider failure
// yields (nil, err); neither aborts the caller's run.
type Builder struct {
	provider provider.MarketDataProvider
	weights  scoring.Weights
	tailCap  int
	logger   zerolog.Logger
}

// NewBuilder creates a metrics builder. tailCap bounds the persisted dividend
// history per record; 0 selects the default of 400 events.
func NewBuilder(p provider.MarketDataProvider, tailCap int, logger zerolog.Logger) *Builder {
	if tailCap <= 0 {
		tailCap = defaultDividendTail
	}
	return &Builder{
		provider: p,
		weights:  scoring.DefaultWeights(),
		tailCap:  tailCap,
		logger:   logger,
	}
}

// Build fetches and derives the complete record for one ticker. A nil record
// with a nil error means the stock pays no dividends: an expected, common
// outcome, not a failure.
func (b *Builder) Build(ctx context.Context, ticker string) (*models.SecurityMetrics, error) {
	info, err := b.provider.GetInfo(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if info.DividendYield == 0 {
		b.logger.Debug().Str("ticker", ticker).Msg("No dividend yield, skipping")
		return nil, nil
	}

	history, err := b.provider.GetDividendHistory(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		b.logger.Debug().Str("ticker", ticker).Msg("No dividend history, skipping")
		return nil, nil
	}

	// The analyzer sees the full fetched history; only the stored tail is capped.
	summary := dividends.Analyze(history)

	payoutPct := info.PayoutRatio * 100
	safety := scoring.SafetyScore(payoutPct, summary.ConsecutiveYears, summary.GrowthRate, info.DividendYield)
	rank := scoring.RankScore(b.weights, info.DividendYield, summary.GrowthRate, safety, summary.ConsecutiveYears)
	category := scoring.Categorize(info.DividendYield, summary.GrowthRate, safety)

	var exDate string
	if info.ExDividendDate > 0 {
		exDate = time.Unix(info.ExDividendDate, 0).UTC().Format(models.DateLayout)
	}

	return &models.SecurityMetrics{
		Ticker:           ticker,
		Name:             info.Name,
		Sector:           info.Sector,
		Industry:         info.Industry,
		Price:            info.Price,
		MarketCap:        info.MarketCap,
		PERatio:          info.PERatio,
		FiftyTwoWeekHigh: info.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  info.FiftyTwoWeekLow,
		DividendYield:    round2(info.DividendYield * 100),
		AnnualDividend:   round2(info.AnnualDividendRate),
		PayoutRatio:      round2(payoutPct),
		ExDividendDate:   exDate,
		PaymentFrequency: summary.Frequency,
		GrowthRate:       round2(summary.GrowthRate),
		ConsecutiveYears: summary.ConsecutiveYears,
		SafetyScore:      safety,
		RankScore:        round2(rank),
		Category:         category,
		DividendHistory:  tail(history, b.tailCap),
		FetchedAt:        time.Now().UTC(),
	}, nil
}

// tail returns the most recent n events from a date-ascending history.
func tail(events []models.DividendEvent, n int) []models.DividendEvent {
	if len(events) <= n {
		return events
	}
	return events[len(events)-n:]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
