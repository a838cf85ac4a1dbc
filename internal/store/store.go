package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"callwatch/internal/calllog"
	"callwatch/internal/logging"
)

// Store is the persisted collection of call records, keyed by source file
// name. All access is guarded by a single mutex; the check-mutate-save path
// in Upsert is one critical section, so concurrent ingestions of the same
// new file cannot append duplicate entries.
type Store struct {
	path   string
	logger *slog.Logger

	mu      sync.RWMutex
	records map[string]calllog.Record
	order   []string
}

// Open creates a store backed by the JSON file at path, loading any existing
// records. A missing file is a fresh start. A corrupt file logs a warning
// and starts empty rather than failing startup.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("store path is required")
	}
	logger = logging.NewComponentLogger(logger, "store")

	s := &Store{
		path:    path,
		logger:  logger,
		records: make(map[string]calllog.Record),
	}

	if err := s.load(); err != nil {
		logger.Warn("failed to load record database; starting empty",
			logging.Error(err),
			logging.String(logging.FieldEventType, "store_load_failed"),
			logging.String(logging.FieldErrorHint, "inspect or remove the database file"),
			logging.String(logging.FieldImpact, "previously ingested files will be re-processed"))
	}

	return s, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Contains reports whether a record for fileName has already been ingested.
func (s *Store) Contains(fileName string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, found := s.records[fileName]
	return found
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// Upsert inserts the record, or overwrites in place when its FileName is
// already present, then persists the collection. On a persistence failure
// the in-memory state is kept so a later save can retry.
func (s *Store) Upsert(record calllog.Record) error {
	if strings.TrimSpace(record.FileName) == "" {
		return errors.New("record file name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.FileName]; !exists {
		s.order = append(s.order, record.FileName)
	}
	s.records[record.FileName] = record

	if err := s.save(); err != nil {
		return fmt.Errorf("persist store: %w", err)
	}

	s.logger.Debug("record upserted",
		logging.String(logging.FieldFile, record.FileName),
		logging.Int("record_count", len(s.records)))
	return nil
}

// Load returns a snapshot of all records in insertion order.
func (s *Store) Load() []calllog.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snapshot()
}

// SaveAll rewrites the database file from the current in-memory state.
func (s *Store) SaveAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save()
}

func (s *Store) snapshot() []calllog.Record {
	records := make([]calllog.Record, 0, len(s.order))
	for _, name := range s.order {
		records = append(records, s.records[name])
	}
	return records
}

// load reads the database file into memory.
func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // fresh start
		}
		return fmt.Errorf("read database file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var records []calllog.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("parse database file: %w", err)
	}

	s.records = make(map[string]calllog.Record, len(records))
	s.order = s.order[:0]
	for _, record := range records {
		if strings.TrimSpace(record.FileName) == "" {
			continue
		}
		if _, exists := s.records[record.FileName]; !exists {
			s.order = append(s.order, record.FileName)
		}
		s.records[record.FileName] = record
	}

	s.logger.Debug("loaded record database",
		logging.Int("record_count", len(s.records)),
		logging.String("path", s.path))
	return nil
}

// save writes the database to disk atomically. File order matches insertion
// order so re-saves stay diff-friendly.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal records: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create database directory: %w", err)
	}

	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath) // cleanup on failure
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
