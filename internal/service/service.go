// Package service is the application facade: it answers queries from the
// in-memory snapshot, serves on-demand single-ticker lookups, and triggers
// refresh cycles.
package service

import (
	"context"

	"github.com/rs/zerolog"

	"dividend-hunter/internal/cache"
	"dividend-hunter/internal/errors"
	"dividend-hunter/internal/history"
	"dividend-hunter/internal/metrics"
	"dividend-hunter/internal/models"
	"dividend-hunter/internal/pool"
	"dividend-hunter/internal/refresh"
	"dividend-hunter/internal/store"
)

// Service exposes the ranked-dividend operations backed by the snapshot
// cache and the market data provider.
type Service struct {
	cache        *cache.Cache
	trends       *history.Store
	builder      *metrics.Builder
	pool         *pool.Pool
	orchestrator *refresh.Orchestrator
	store        store.Store
	universe     []string
	logger       zerolog.Logger
}

// Config wires a Service.
type Config struct {
	Cache        *cache.Cache
	Trends       *history.Store
	Builder      *metrics.Builder
	Pool         *pool.Pool
	Orchestrator *refresh.Orchestrator
	Store        store.Store
	Universe     []string
	Logger       zerolog.Logger
}

// New creates a Service.
func New(cfg Config) *Service {
	return &Service{
		cache:        cfg.Cache,
		trends:       cfg.Trends,
		builder:      cfg.Builder,
		pool:         cfg.Pool,
		orchestrator: cfg.Orchestrator,
		store:        cfg.Store,
		universe:     cfg.Universe,
		logger:       cfg.Logger,
	}
}

// Warm loads the persisted snapshot and trend history into memory, if any
// exist. Missing persisted state is not an error; queries will simply report
// needs_initialization until a refresh runs.
func (s *Service) Warm(ctx context.Context) error {
	snap, err := s.store.LoadSnapshot(ctx)
	if err != nil {
		return errors.Wrap(err, "loading persisted snapshot")
	}
	if snap != nil {
		s.cache.Replace(snap)
		s.logger.Info().
			Int("stocks", len(snap.Stocks)).
			Time("fetchedAt", snap.FetchedAt).
			Msg("Loaded persisted snapshot")
	}

	series, err := s.store.LoadHistory(ctx)
	if err != nil {
		return errors.Wrap(err, "loading persisted history")
	}
	if len(series) > 0 {
		s.trends.Replace(series)
		s.logger.Info().Int("tickers", len(series)).Msg("Loaded trend history")
	}
	return nil
}

// ListStocks filters, sorts and truncates the current snapshot.
func (s *Service) ListStocks(opts cache.QueryOptions) (*cache.Result, error) {
	return s.cache.Query(opts)
}

// TopStocks returns the count highest-ranked stocks, optionally restricted to
// one category. Rank order is fixed regardless of any caller sort preference.
func (s *Service) TopStocks(count int, category models.Category) (*cache.Result, error) {
	return s.cache.Query(cache.QueryOptions{
		Filters: cache.Filters{Category: category},
		SortBy:  cache.SortRankScore,
		Limit:   count,
	})
}

// GetStock builds fresh metrics for a single ticker through the shared pool
// and attaches its trend history. Unknown or non-dividend tickers yield
// ErrTickerNotFound.
func (s *Service) GetStock(ctx context.Context, ticker string) (*models.SecurityMetrics, models.HistoricalSeries, error) {
	type outcome struct {
		m   *models.SecurityMetrics
		err error
	}
	done := make(chan outcome, 1)
	task := func() {
		m, err := s.builder.Build(ctx, ticker)
		done <- outcome{m: m, err: err}
	}
	if err := s.pool.Submit(ctx, task); err != nil {
		return nil, nil, err
	}

	var out outcome
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case out = <-done:
	}
	if out.err != nil {
		return nil, nil, out.err
	}
	if out.m == nil {
		return nil, nil, errors.Wrapf(errors.ErrTickerNotFound, "ticker %s", ticker)
	}

	series, _ := s.trends.Series(out.m.Ticker)
	return out.m, series, nil
}

// GetTrend returns the persisted trend series for a ticker from the last
// refreshes. The ticker must be present in the current snapshot.
func (s *Service) GetTrend(ticker string) (models.HistoricalSeries, error) {
	series, ok := s.trends.Series(ticker)
	if !ok {
		return nil, errors.Wrapf(errors.ErrTickerNotFound, "no trend history for %s", ticker)
	}
	return series, nil
}

// ListSectors returns the distinct sectors present in the snapshot.
func (s *Service) ListSectors() []string {
	return s.cache.Sectors()
}

// CacheStatus reports snapshot freshness without touching the data.
func (s *Service) CacheStatus() cache.Status {
	return s.cache.Status()
}

// Refresh runs a full refresh cycle synchronously over the configured
// universe.
func (s *Service) Refresh(ctx context.Context) error {
	return s.orchestrator.Run(ctx, s.universe)
}

// TriggerRefresh starts a refresh in the background, returning immediately.
// A run already in flight is rejected with ErrRefreshInProgress.
func (s *Service) TriggerRefresh(ctx context.Context) error {
	return s.orchestrator.Start(ctx, s.universe)
}

// RefreshState reports the orchestrator's current run state.
func (s *Service) RefreshState() refresh.State {
	return s.orchestrator.State()
}
