package refresh

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dividend-hunter/internal/cache"
	"dividend-hunter/internal/errors"
	"dividend-hunter/internal/history"
	"dividend-hunter/internal/metrics"
	"dividend-hunter/internal/models"
	"dividend-hunter/internal/pool"
	"dividend-hunter/internal/provider"
)

// fakeProvider serves canned data per ticker. A nil entry models a
// non-dividend payer. The optional delay simulates slow upstream calls.
type fakeProvider struct {
	mu    sync.Mutex
	infos map[string]*provider.SecurityInfo
	delay time.Duration
	calls int
}

func (f *fakeProvider) GetInfo(ctx context.Context, ticker string) (*provider.SecurityInfo, error) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	f.mu.Lock()
	f.calls++
	info := f.infos[ticker]
	f.mu.Unlock()

	if info == nil {
		return &provider.SecurityInfo{Name: ticker}, nil
	}
	return info, nil
}

func (f *fakeProvider) GetDividendHistory(ctx context.Context, ticker string) ([]models.DividendEvent, error) {
	f.mu.Lock()
	info := f.infos[ticker]
	f.mu.Unlock()
	if info == nil {
		return nil, nil
	}

	var events []models.DividendEvent
	for year := 2020; year <= 2026; year++ {
		for _, month := range []time.Month{time.March, time.June, time.September, time.December} {
			events = append(events, models.DividendEvent{
				Date:   time.Date(year, month, 10, 0, 0, 0, 0, time.UTC),
				Amount: decimal.NewFromFloat(0.5),
			})
		}
	}
	return events, nil
}

func payer(name string) *provider.SecurityInfo {
	return &provider.SecurityInfo{
		Name:               name,
		Sector:             "Consumer Defensive",
		Price:              100,
		DividendYield:      0.032,
		AnnualDividendRate: 3.2,
		PayoutRatio:        0.45,
	}
}

// memoryStore records persistence calls for assertions.
type memoryStore struct {
	mu       sync.Mutex
	snapshot *models.Snapshot
	history  map[string]models.HistoricalSeries
	saves    int
}

func (m *memoryStore) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshot, nil
}

func (m *memoryStore) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = snap
	m.saves++
	return nil
}

func (m *memoryStore) LoadHistory(ctx context.Context) (map[string]models.HistoricalSeries, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.history, nil
}

func (m *memoryStore) SaveHistory(ctx context.Context, data map[string]models.HistoricalSeries) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = data
	return nil
}

func (m *memoryStore) Close() error { return nil }

type fixture struct {
	orchestrator *Orchestrator
	cache        *cache.Cache
	trends       *history.Store
	store        *memoryStore
	pool         *pool.Pool
}

func newFixture(t *testing.T, infos map[string]*provider.SecurityInfo, delay time.Duration) *fixture {
	t.Helper()

	fake := &fakeProvider{infos: infos, delay: delay}
	snapCache := cache.New(cache.DefaultTTL)
	trends := history.New(30)
	backing := &memoryStore{}
	workers := pool.New(4)
	t.Cleanup(workers.Close)

	orchestrator := New(Config{
		Builder:    metrics.NewBuilder(fake, 0, zerolog.Nop()),
		Pool:       workers,
		Cache:      snapCache,
		Trends:     trends,
		Store:      backing,
		BatchSize:  2,
		BatchPause: time.Millisecond,
		Logger:     zerolog.Nop(),
	})

	return &fixture{
		orchestrator: orchestrator,
		cache:        snapCache,
		trends:       trends,
		store:        backing,
		pool:         workers,
	}
}

func TestRunCommitsSnapshot(t *testing.T) {
	fx := newFixture(t, map[string]*provider.SecurityInfo{
		"KO":  payer("Coca-Cola"),
		"PEP": payer("PepsiCo"),
		"PG":  payer("Procter & Gamble"),
	}, 0)

	// GOOGL pays no dividend and must be skipped without failing the run.
	err := fx.orchestrator.Run(context.Background(), []string{"KO", "PEP", "PG", "GOOGL"})
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, fx.orchestrator.State())

	snap, status := fx.cache.Snapshot()
	require.Equal(t, cache.StatusReady, status)
	assert.Len(t, snap.Stocks, 3)

	for _, ticker := range []string{"KO", "PEP", "PG"} {
		series, ok := fx.trends.Series(ticker)
		require.True(t, ok, "trend point recorded for %s", ticker)
		assert.Len(t, series, 1)
	}
	_, ok := fx.trends.Series("GOOGL")
	assert.False(t, ok)

	assert.Equal(t, 1, fx.store.saves, "snapshot persisted once")
	assert.Len(t, fx.store.history, 3)
}

func TestRunEmptyResultKeepsPriorSnapshot(t *testing.T) {
	// Only non-payers: the run aggregates nothing.
	fx := newFixture(t, map[string]*provider.SecurityInfo{}, 0)

	prior := &models.Snapshot{
		FetchedAt: time.Now().UTC().Add(-time.Hour),
		Stocks:    []models.SecurityMetrics{{Ticker: "KO"}},
	}
	fx.cache.Replace(prior)

	err := fx.orchestrator.Run(context.Background(), []string{"GOOGL", "META"})
	require.NoError(t, err)
	assert.Equal(t, StateAborted, fx.orchestrator.State())

	snap, _ := fx.cache.Snapshot()
	require.NotNil(t, snap)
	assert.Equal(t, prior.FetchedAt, snap.FetchedAt, "prior snapshot untouched")
	assert.Equal(t, 0, fx.store.saves, "nothing persisted")
}

func TestRunRejectsConcurrentRun(t *testing.T) {
	fx := newFixture(t, map[string]*provider.SecurityInfo{
		"KO": payer("Coca-Cola"),
	}, 50*time.Millisecond)

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		done <- fx.orchestrator.Run(context.Background(), []string{"KO"})
	}()

	<-started
	// Give the first run time to take the slot.
	require.Eventually(t, fx.orchestrator.Running, time.Second, time.Millisecond)

	err := fx.orchestrator.Run(context.Background(), []string{"KO"})
	assert.ErrorIs(t, err, errors.ErrRefreshInProgress)

	require.NoError(t, <-done)
	assert.False(t, fx.orchestrator.Running())

	// Slot released: a follow-up run is accepted again.
	assert.NoError(t, fx.orchestrator.Run(context.Background(), []string{"KO"}))
}

func TestStartRejectsSynchronously(t *testing.T) {
	fx := newFixture(t, map[string]*provider.SecurityInfo{
		"KO": payer("Coca-Cola"),
	}, 50*time.Millisecond)

	require.NoError(t, fx.orchestrator.Start(context.Background(), []string{"KO"}))
	assert.ErrorIs(t, fx.orchestrator.Start(context.Background(), []string{"KO"}), errors.ErrRefreshInProgress)

	require.Eventually(t, func() bool { return !fx.orchestrator.Running() }, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, StateCommitted, fx.orchestrator.State())
}

func TestRunEmptyUniverse(t *testing.T) {
	fx := newFixture(t, nil, 0)
	err := fx.orchestrator.Run(context.Background(), nil)
	assert.ErrorIs(t, err, errors.ErrEmptyUniverse)
	assert.Equal(t, StateAborted, fx.orchestrator.State())
}

func TestRunHonorsCancellation(t *testing.T) {
	fx := newFixture(t, map[string]*provider.SecurityInfo{
		"KO":  payer("Coca-Cola"),
		"PEP": payer("PepsiCo"),
	}, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := fx.orchestrator.Run(ctx, []string{"KO", "PEP", "PG", "GOOGL"})
	assert.Error(t, err)
	assert.Equal(t, StateAborted, fx.orchestrator.State())

	_, status := fx.cache.Snapshot()
	assert.Equal(t, cache.StatusNeedsInit, status, "no partial commit")
}
