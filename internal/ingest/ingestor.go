package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"callwatch/internal/calllog"
	"callwatch/internal/logging"
	"callwatch/internal/store"
)

// Result describes the outcome of processing one file.
type Result int

const (
	// ResultStored means the file's log block was parsed and persisted.
	ResultStored Result = iota
	// ResultSkippedExisting means the file was already in the store.
	ResultSkippedExisting
	// ResultSkippedNotLog means the file carries no recognized log block.
	ResultSkippedNotLog
)

// Ingestor runs the per-file pipeline: contains check, read, extract,
// parse, upsert. Failures are reported to the caller; they never carry
// more scope than the one file.
type Ingestor struct {
	store *store.Store
}

// NewIngestor creates an ingestor writing to the given store.
func NewIngestor(st *store.Store) *Ingestor {
	return &Ingestor{store: st}
}

// Process ingests a single file. With overwrite=false an already-stored
// file is skipped without touching the disk; with overwrite=true (used for
// filesystem events) the file is re-parsed and its record replaced.
func (ing *Ingestor) Process(ctx context.Context, path string, overwrite bool, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	name := filepath.Base(path)
	if !overwrite && ing.store.Contains(name) {
		return ResultSkippedExisting, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read file: %w", err)
	}

	block, ok := calllog.Extract(data)
	if !ok {
		logger.Info("not a recognized call log; skipped",
			logging.String(logging.FieldEventType, "not_a_log"))
		return ResultSkippedNotLog, nil
	}

	record := calllog.Parse(block, name, logger)
	if err := ing.store.Upsert(record); err != nil {
		return 0, fmt.Errorf("persist record: %w", err)
	}
	return ResultStored, nil
}
