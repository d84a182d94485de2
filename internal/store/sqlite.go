package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"dividend-hunter/internal/models"
)

// SQLiteStore implements Store using an embedded SQLite database. Stock
// records keep their JSON shape inside a TEXT column; history points get
// their own rows so the per-ticker cap survives inspection with plain SQL.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if necessary initializes) a SQLite-backed store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Single-row current snapshot; stocks kept as a JSON document
	CREATE TABLE IF NOT EXISTS snapshot (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		fetched_at DATETIME NOT NULL,
		stocks TEXT NOT NULL
	);

	-- Per-ticker trend points, position preserves insertion order
	CREATE TABLE IF NOT EXISTS trend_points (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker TEXT NOT NULL,
		position INTEGER NOT NULL,
		date TEXT NOT NULL,
		yield REAL NOT NULL,
		price REAL NOT NULL,
		growth_rate REAL NOT NULL,
		safety_score INTEGER NOT NULL,
		UNIQUE(ticker, position)
	);
	CREATE INDEX IF NOT EXISTS idx_trend_ticker ON trend_points(ticker);
	`
	_, err := s.db.Exec(schema)
	return err
}

// LoadSnapshot returns the persisted snapshot, or (nil, nil) when the table
// is empty.
func (s *SQLiteStore) LoadSnapshot(ctx context.Context) (*models.Snapshot, error) {
	var fetchedAt time.Time
	var stocksJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT fetched_at, stocks FROM snapshot WHERE id = 1").Scan(&fetchedAt, &stocksJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading snapshot: %w", err)
	}

	var stocks []models.SecurityMetrics
	if err := json.Unmarshal([]byte(stocksJSON), &stocks); err != nil {
		return nil, fmt.Errorf("parsing snapshot stocks: %w", err)
	}
	return &models.Snapshot{FetchedAt: fetchedAt, Stocks: stocks}, nil
}

// SaveSnapshot upserts the single snapshot row.
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snap *models.Snapshot) error {
	stocksJSON, err := json.Marshal(snap.Stocks)
	if err != nil {
		return fmt.Errorf("encoding snapshot stocks: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshot (id, fetched_at, stocks) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET fetched_at = excluded.fetched_at, stocks = excluded.stocks`,
		snap.FetchedAt, string(stocksJSON))
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}
	return nil
}

// LoadHistory reads all trend points grouped per ticker in insertion order.
func (s *SQLiteStore) LoadHistory(ctx context.Context) (map[string]models.HistoricalSeries, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ticker, date, yield, price, growth_rate, safety_score
		FROM trend_points ORDER BY ticker, position`)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	defer rows.Close()

	history := make(map[string]models.HistoricalSeries)
	for rows.Next() {
		var ticker string
		var point models.HistoricalPoint
		if err := rows.Scan(&ticker, &point.Date, &point.Yield, &point.Price,
			&point.GrowthRate, &point.SafetyScore); err != nil {
			return nil, fmt.Errorf("scanning trend point: %w", err)
		}
		history[ticker] = append(history[ticker], point)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trend points: %w", err)
	}
	return history, nil
}

// SaveHistory rewrites the trend table in one transaction.
func (s *SQLiteStore) SaveHistory(ctx context.Context, history map[string]models.HistoricalSeries) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting history transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM trend_points"); err != nil {
		return fmt.Errorf("clearing trend points: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trend_points (ticker, position, date, yield, price, growth_rate, safety_score)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing trend insert: %w", err)
	}
	defer stmt.Close()

	for ticker, series := range history {
		for i, point := range series {
			if _, err := stmt.ExecContext(ctx, ticker, i, point.Date, point.Yield,
				point.Price, point.GrowthRate, point.SafetyScore); err != nil {
				return fmt.Errorf("inserting trend point for %s: %w", ticker, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing history: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
