package ingest

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"callwatch/internal/config"
	"callwatch/internal/logging"
	"callwatch/internal/store"
)

type fileEvent struct {
	path      string
	overwrite bool
}

// Watcher observes the configured files directory and drives the per-file
// pipeline. One goroutine delivers filesystem events into a bounded queue;
// a fixed pool of workers drains it, so a slow parse of one file never
// blocks event delivery for others. A full startup scan runs before event
// handling so files dropped while the daemon was down are picked up.
type Watcher struct {
	cfg      *config.Config
	logger   *slog.Logger
	ingestor *Ingestor

	events chan fileEvent
	fsw    *fsnotify.Watcher

	mu      sync.Mutex
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewWatcher creates a watcher over cfg.Paths.FilesDir writing to st.
func NewWatcher(cfg *config.Config, st *store.Store, logger *slog.Logger) *Watcher {
	logger = logging.NewComponentLogger(logger, "watcher")
	return &Watcher{
		cfg:      cfg,
		logger:   logger,
		ingestor: NewIngestor(st),
		events:   make(chan fileEvent, cfg.Ingest.QueueSize),
	}
}

// Start launches the startup scan, the event loop, and the worker pool.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return errors.New("watcher already running")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fsw.Add(w.cfg.Paths.FilesDir); err != nil {
		fsw.Close()
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.fsw = fsw
	w.ctx = runCtx
	w.cancel = cancel
	w.running = true

	for i := 0; i < w.cfg.Ingest.Workers; i++ {
		w.wg.Add(1)
		go w.worker()
	}

	w.wg.Add(1)
	go w.eventLoop()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.scan()
	}()

	w.logger.Info("watching for call recordings",
		logging.String("directory", w.cfg.Paths.FilesDir),
		logging.Int("workers", w.cfg.Ingest.Workers))
	return nil
}

// Stop cancels processing and waits for in-flight files to finish.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	fsw := w.fsw
	w.running = false
	w.cancel = nil
	w.fsw = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if fsw != nil {
		fsw.Close()
	}
	w.wg.Wait()
}

// scan enqueues every watched-extension file already present in the
// directory. Files the store has seen are filtered out by the workers.
func (w *Watcher) scan() {
	entries, err := os.ReadDir(w.cfg.Paths.FilesDir)
	if err != nil {
		w.logger.Error("startup scan failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "scan_failed"),
			logging.String(logging.FieldErrorHint, "check files_dir exists and is readable"))
		return
	}

	queued := 0
	for _, entry := range entries {
		if entry.IsDir() || !w.cfg.WatchesExtension(entry.Name()) {
			continue
		}
		if w.enqueue(fileEvent{path: filepath.Join(w.cfg.Paths.FilesDir, entry.Name())}) {
			queued++
		}
	}
	w.logger.Info("startup scan complete", logging.Int("queued", queued))
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.fswEvents():
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !w.cfg.WatchesExtension(event.Name) {
				continue
			}
			// Create and Write both re-ingest: a rewritten file carries
			// newer metadata and the record is replaced in place.
			w.enqueue(fileEvent{path: event.Name, overwrite: true})
		case err, ok := <-w.fswErrors():
			if !ok {
				return
			}
			w.logger.Warn("filesystem watch error; continuing",
				logging.Error(err),
				logging.String(logging.FieldEventType, "watch_error"))
		}
	}
}

func (w *Watcher) fswEvents() <-chan fsnotify.Event {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return nil
	}
	return w.fsw.Events
}

func (w *Watcher) fswErrors() <-chan error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return nil
	}
	return w.fsw.Errors
}

// enqueue blocks when the queue is full; channel capacity is the
// back-pressure bound on pending files.
func (w *Watcher) enqueue(event fileEvent) bool {
	select {
	case <-w.ctx.Done():
		return false
	case w.events <- event:
		return true
	}
}

func (w *Watcher) worker() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event := <-w.events:
			w.handle(event)
		}
	}
}

func (w *Watcher) handle(event fileEvent) {
	name := filepath.Base(event.path)
	logger := w.logger.With(
		logging.String(logging.FieldFile, name),
		logging.String(logging.FieldCorrelationID, uuid.NewString()))

	result, err := w.ingestor.Process(w.ctx, event.path, event.overwrite, logger)
	if err != nil {
		logger.Error("file ingestion failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "ingest_failed"),
			logging.String(logging.FieldErrorHint, "file is retried on its next filesystem event or daemon restart"))
		return
	}

	switch result {
	case ResultStored:
		logger.Info("call log stored",
			logging.String(logging.FieldEventType, "record_stored"))
	case ResultSkippedExisting:
		logger.Debug("already processed; skipped")
	}
}
