// Package refresh fetches the full ticker universe in bounded concurrent
// batches and commits the aggregated result atomically.
package refresh

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"dividend-hunter/internal/cache"
	"dividend-hunter/internal/errors"
	"dividend-hunter/internal/history"
	"dividend-hunter/internal/logging"
	"dividend-hunter/internal/metrics"
	"dividend-hunter/internal/models"
	"dividend-hunter/internal/pool"
	"dividend-hunter/internal/store"
)

const (
	defaultBatchSize  = 20
	defaultBatchPause = 2 * time.Second
)

// State describes where a refresh run currently is.
type State string

const (
	StateIdle        State = "idle"
	StateFetching    State = "fetching"
	StateAggregating State = "aggregating"
	StateCommitted   State = "committed"
	StateAborted     State = "aborted"
)

// Config holds the orchestrator's collaborators and tuning knobs.
type Config struct {
	Builder    *metrics.Builder
	Pool       *pool.Pool
	Cache      *cache.Cache
	Trends     *history.Store
	Store      store.Store
	BatchSize  int
	BatchPause time.Duration
	Logger     zerolog.Logger
}

// Orchestrator runs refresh cycles: batched concurrent fetches with
// inter-batch pacing, then a single atomic commit. It never self-schedules;
// runs happen only on explicit request, and a second request while one is in
// flight is rejected with ErrRefreshInProgress.
type Orchestrator struct {
	builder    *metrics.Builder
	pool       *pool.Pool
	cache      *cache.Cache
	trends     *history.Store
	store      store.Store
	batchSize  int
	batchPause time.Duration
	logger     zerolog.Logger

	mu      sync.Mutex
	state   State
	running bool
}

// New creates a refresh orchestrator.
func New(cfg Config) *Orchestrator {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaultBatchSize
	}
	if cfg.BatchPause <= 0 {
		cfg.BatchPause = defaultBatchPause
	}
	return &Orchestrator{
		builder:    cfg.Builder,
		pool:       cfg.Pool,
		cache:      cfg.Cache,
		trends:     cfg.Trends,
		store:      cfg.Store,
		batchSize:  cfg.BatchSize,
		batchPause: cfg.BatchPause,
		logger:     cfg.Logger,
		state:      StateIdle,
	}
}

// State returns the current run state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Running reports whether a refresh is in flight.
func (o *Orchestrator) Running() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

// Run executes one full refresh cycle synchronously. Only one run may be in
// flight at a time; a concurrent call returns ErrRefreshInProgress.
func (o *Orchestrator) Run(ctx context.Context, tickers []string) error {
	if err := o.acquire(); err != nil {
		return err
	}
	defer o.release()
	return o.run(ctx, tickers)
}

// Start begins a refresh cycle asynchronously. The in-flight check happens
// synchronously so callers get a deterministic rejection.
func (o *Orchestrator) Start(ctx context.Context, tickers []string) error {
	if err := o.acquire(); err != nil {
		return err
	}
	go func() {
		defer o.release()
		if err := o.run(ctx, tickers); err != nil {
			o.logger.Error().Err(err).Msg("Background refresh failed")
		}
	}()
	return nil
}

func (o *Orchestrator) acquire() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.running {
		return errors.ErrRefreshInProgress
	}
	o.running = true
	o.state = StateFetching
	return nil
}

func (o *Orchestrator) release() {
	o.mu.Lock()
	o.running = false
	o.mu.Unlock()
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

func (o *Orchestrator) run(ctx context.Context, tickers []string) error {
	if len(tickers) == 0 {
		o.setState(StateAborted)
		return errors.ErrEmptyUniverse
	}

	started := time.Now()
	totalBatches := (len(tickers) + o.batchSize - 1) / o.batchSize
	o.logger.Info().
		Int("tickers", len(tickers)).
		Int("batches", totalBatches).
		Msg("Starting data refresh")

	var all []models.SecurityMetrics
	var failed int

	for i := 0; i < len(tickers); i += o.batchSize {
		end := i + o.batchSize
		if end > len(tickers) {
			end = len(tickers)
		}
		batch := tickers[i:end]
		batchNum := i/o.batchSize + 1

		o.logger.Info().
			Int("batch", batchNum).
			Int("total", totalBatches).
			Int("size", len(batch)).
			Msg("Processing batch")

		results, batchFailed, err := o.fetchBatch(ctx, batch)
		if err != nil {
			o.setState(StateAborted)
			return err
		}
		all = append(all, results...)
		failed += batchFailed

		// Pause between batches to respect upstream rate limits.
		if end < len(tickers) {
			select {
			case <-ctx.Done():
				o.setState(StateAborted)
				return ctx.Err()
			case <-time.After(o.batchPause):
			}
		}
	}

	o.setState(StateAggregating)

	if len(all) == 0 {
		// A flaky or rate-limited run must not wipe good cached data.
		o.setState(StateAborted)
		o.logger.Warn().Msg("Refresh produced 0 stocks, keeping existing snapshot")
		return nil
	}

	if err := o.commit(ctx, all); err != nil {
		return err
	}

	o.setState(StateCommitted)
	logging.LogRefreshRun(o.logger, len(all), failed, time.Since(started))
	return nil
}

// fetchBatch runs all builds of one batch concurrently on the shared pool and
// waits for the batch to fully drain. Individual failures never cancel the
// rest of the batch.
func (o *Orchestrator) fetchBatch(ctx context.Context, batch []string) ([]models.SecurityMetrics, int, error) {
	slots := make([]*models.SecurityMetrics, len(batch))
	var failures sync.Map
	var wg sync.WaitGroup

	for i, ticker := range batch {
		i, ticker := i, ticker
		wg.Add(1)
		task := func() {
			defer wg.Done()
			tctx := logging.WithLogger(ctx, logging.WithTicker(o.logger, ticker))
			m, err := o.builder.Build(tctx, ticker)
			if err != nil {
				failures.Store(ticker, struct{}{})
				o.logger.Warn().Err(err).Str("ticker", ticker).Msg("Failed to fetch ticker")
				return
			}
			slots[i] = m
		}
		if err := o.pool.Submit(ctx, task); err != nil {
			wg.Done()
			wg.Wait()
			return nil, 0, err
		}
	}
	wg.Wait()

	var results []models.SecurityMetrics
	for _, m := range slots {
		if m != nil {
			results = append(results, *m)
		}
	}
	var failed int
	failures.Range(func(_, _ interface{}) bool {
		failed++
		return true
	})
	return results, failed, nil
}

// commit atomically replaces the snapshot, appends one trend point per
// covered ticker, and persists both.
func (o *Orchestrator) commit(ctx context.Context, stocks []models.SecurityMetrics) error {
	snap := &models.Snapshot{
		FetchedAt: time.Now().UTC(),
		Stocks:    stocks,
	}
	o.cache.Replace(snap)

	today := snap.FetchedAt.Format(models.DateLayout)
	for _, s := range stocks {
		o.trends.Append(s.Ticker, models.HistoricalPoint{
			Date:        today,
			Yield:       s.DividendYield,
			Price:       s.Price,
			GrowthRate:  s.GrowthRate,
			SafetyScore: s.SafetyScore,
		})
	}

	if err := o.store.SaveSnapshot(ctx, snap); err != nil {
		return errors.Wrap(err, "persisting snapshot")
	}
	if err := o.store.SaveHistory(ctx, o.trends.All()); err != nil {
		return errors.Wrap(err, "persisting history")
	}
	return nil
}
