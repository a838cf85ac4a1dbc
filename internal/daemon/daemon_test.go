package daemon

import (
	"context"
	"sync"
	"testing"
	"time"

	"callwatch/internal/ingest"
	"callwatch/internal/logging"
	"callwatch/internal/store"
	"callwatch/internal/testsupport"
)

func newTestDaemon(t *testing.T) (*Daemon, *store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg.Paths.DatabasePath, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	w := ingest.NewWatcher(cfg, st, nil)
	d, err := New(cfg, st, logging.NewNop(), w)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return d, st
}

func TestNewRequiresDependencies(t *testing.T) {
	if _, err := New(nil, nil, nil, nil); err == nil {
		t.Fatal("expected error for nil dependencies")
	}
}

func TestDaemonStartStop(t *testing.T) {
	d, _ := newTestDaemon(t)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !d.Status().Running {
		t.Fatal("expected running status")
	}
	if err := d.Start(context.Background()); err == nil {
		t.Fatal("second Start should fail while running")
	}

	d.Stop()
	if d.Status().Running {
		t.Fatal("expected stopped status")
	}
	d.Stop() // idempotent
}

func TestConcurrentStopsTearDownOnce(t *testing.T) {
	d, _ := newTestDaemon(t)

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Signal handling and a deferred Close can both call Stop.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Stop()
		}()
	}
	wg.Wait()

	if d.Status().Running {
		t.Fatal("expected stopped status after concurrent stops")
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("restart after concurrent stops failed: %v", err)
	}
	d.Stop()
}

func TestDaemonProcessesFilesEndToEnd(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg.Paths.DatabasePath, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	testsupport.WriteRecording(t, cfg.Paths.FilesDir, "call.mp3", testsupport.LogBlock{
		Lines: testsupport.StandardBlockLines("call.mp3"),
	})

	w := ingest.NewWatcher(cfg, st, nil)
	d, err := New(cfg, st, logging.NewNop(), w)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer d.Close()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) && !st.Contains("call.mp3") {
		time.Sleep(20 * time.Millisecond)
	}
	if !st.Contains("call.mp3") {
		t.Fatal("expected startup scan to ingest the recording")
	}
	records := d.Records()
	if len(records) != 1 || records[0].FileName != "call.mp3" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if d.Status().RecordCount != 1 {
		t.Fatalf("unexpected record count: %d", d.Status().RecordCount)
	}
}

func TestSecondInstanceIsRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st, err := store.Open(cfg.Paths.DatabasePath, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	first, err := New(cfg, st, logging.NewNop(), ingest.NewWatcher(cfg, st, nil))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer first.Close()

	second, err := New(cfg, st, logging.NewNop(), ingest.NewWatcher(cfg, st, nil))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("expected second instance to be rejected by the lock")
	}
}
