package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"dividend-hunter/internal/models"
)

const (
	snapshotFile = "latest_snapshot.json"
	historyFile  = "historical_dividends.json"
)

// FileStore persists snapshots and history as flat JSON files, matching the
// original on-disk layout. Writes go through a temp file and rename so a
// crash mid-write never corrupts the previous generation.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir, creating the
// directory when needed. A pre-seeded snapshot file in dir yields a warm
// cache on first load.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// LoadSnapshot reads the latest snapshot file. A missing file is not an error.
func (s *FileStore) LoadSnapshot(_ context.Context) (*models.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, snapshotFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &snap, nil
}

// SaveSnapshot writes the snapshot file atomically.
func (s *FileStore) SaveSnapshot(_ context.Context, snap *models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return s.writeAtomic(snapshotFile, data)
}

// LoadHistory reads the historical trend file. A missing file yields an
// empty map.
func (s *FileStore) LoadHistory(_ context.Context) (map[string]models.HistoricalSeries, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, historyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]models.HistoricalSeries{}, nil
		}
		return nil, fmt.Errorf("reading history: %w", err)
	}

	history := make(map[string]models.HistoricalSeries)
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parsing history: %w", err)
	}
	return history, nil
}

// SaveHistory writes the historical trend file atomically.
func (s *FileStore) SaveHistory(_ context.Context, history map[string]models.HistoricalSeries) error {
	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	return s.writeAtomic(historyFile, data)
}

// Close is a no-op for the file backend.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) writeAtomic(name string, data []byte) error {
	target := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing %s: %w", name, err)
	}
	return nil
}
