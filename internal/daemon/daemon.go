package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"callwatch/internal/calllog"
	"callwatch/internal/config"
	"callwatch/internal/ingest"
	"callwatch/internal/logging"
	"callwatch/internal/store"
)

// Daemon coordinates the watcher and the read-only API and enforces
// single-instance execution via a file lock.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *store.Store
	watcher *ingest.Watcher
	api     *apiServer

	lockPath string
	lock     *flock.Flock

	mu      sync.Mutex
	running atomic.Bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool   `json:"running"`
	RecordCount  int    `json:"record_count"`
	FilesDir     string `json:"files_dir"`
	DatabasePath string `json:"database_path"`
	APIBind      string `json:"api_bind,omitempty"`
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, w *ingest.Watcher) (*Daemon, error) {
	if cfg == nil || st == nil || logger == nil || w == nil {
		return nil, errors.New("daemon requires config, store, logger, and watcher")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "callwatchd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    st,
		watcher:  w,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and launches the watcher and API server.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another callwatch daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.watcher.Start(runCtx); err != nil {
		cancel()
		d.cancel = nil
		_ = d.lock.Unlock()
		return fmt.Errorf("start watcher: %w", err)
	}

	api, err := newAPIServer(d.cfg, d, d.logger)
	if err != nil {
		d.watcher.Stop()
		cancel()
		d.cancel = nil
		_ = d.lock.Unlock()
		return fmt.Errorf("start api server: %w", err)
	}
	d.api = api
	if d.api != nil {
		if err := d.api.start(runCtx); err != nil {
			d.watcher.Stop()
			cancel()
			d.cancel = nil
			_ = d.lock.Unlock()
			return fmt.Errorf("start api server: %w", err)
		}
	}

	d.running.Store(true)
	d.logger.Info("callwatch daemon started",
		logging.String("lock", d.lockPath),
		logging.String("files_dir", d.cfg.Paths.FilesDir))
	return nil
}

// Stop halts processing, flushes the store, and releases the daemon lock.
// Safe to call more than once and from multiple goroutines; the teardown
// runs only for the call that observes the daemon running.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.watcher.Stop()
	if d.api != nil {
		d.api.stop()
		d.api = nil
	}

	if err := d.store.SaveAll(); err != nil {
		d.logger.Warn("failed to flush store on shutdown",
			logging.Error(err),
			logging.String(logging.FieldEventType, "store_flush_failed"),
			logging.String(logging.FieldImpact, "latest records may be re-ingested on next start"))
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("callwatch daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	return nil
}

// Records returns the current persisted collection, in insertion order.
func (d *Daemon) Records() []calllog.Record {
	return d.store.Load()
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		RecordCount:  d.store.Len(),
		FilesDir:     d.cfg.Paths.FilesDir,
		DatabasePath: d.store.Path(),
		APIBind:      d.cfg.Paths.APIBind,
	}
}
