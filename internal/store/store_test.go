package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"callwatch/internal/calllog"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "database.json"), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return s
}

func record(name string) calllog.Record {
	return calllog.Record{
		FileName: name,
		Info:     &calllog.Info{ServerName: "TELSAPC", Date: "2024/05/12 10:31:02"},
		Number:   &calllog.Number{Number: "09123456789"},
	}
}

func TestUpsertAndContains(t *testing.T) {
	s := newTestStore(t)

	if s.Contains("call.mp3") {
		t.Fatal("empty store should not contain anything")
	}
	if err := s.Upsert(record("call.mp3")); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if !s.Contains("call.mp3") {
		t.Fatal("expected record after upsert")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", s.Len())
	}
}

func TestUpsertIsIdempotentPerFileName(t *testing.T) {
	s := newTestStore(t)

	first := record("call.mp3")
	if err := s.Upsert(first); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	second := record("call.mp3")
	second.Number = &calllog.Number{Number: "02100000000"}
	if err := s.Upsert(second); err != nil {
		t.Fatalf("second Upsert failed: %v", err)
	}

	if s.Len() != 1 {
		t.Fatalf("re-ingesting the same file must not duplicate: got %d records", s.Len())
	}
	records := s.Load()
	if records[0].Number.Number != "02100000000" {
		t.Fatalf("expected overwrite-in-place, got %q", records[0].Number.Number)
	}
}

func TestUpsertRejectsEmptyFileName(t *testing.T) {
	s := newTestStore(t)
	if err := s.Upsert(calllog.Record{}); err == nil {
		t.Fatal("expected error for empty file name")
	}
}

func TestLoadPreservesInsertionOrder(t *testing.T) {
	s := newTestStore(t)

	names := []string{"c.mp3", "a.wav", "b.mp3"}
	for _, name := range names {
		if err := s.Upsert(record(name)); err != nil {
			t.Fatalf("Upsert %s failed: %v", name, err)
		}
	}

	records := s.Load()
	if len(records) != len(names) {
		t.Fatalf("expected %d records, got %d", len(names), len(records))
	}
	for i, name := range names {
		if records[i].FileName != name {
			t.Errorf("position %d: got %q want %q", i, records[i].FileName, name)
		}
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")

	s1, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	for _, name := range []string{"one.mp3", "two.wav"} {
		if err := s1.Upsert(record(name)); err != nil {
			t.Fatalf("Upsert failed: %v", err)
		}
	}

	s2, err := Open(path, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if err := s2.SaveAll(); err != nil {
		t.Fatalf("SaveAll failed: %v", err)
	}

	s3, err := Open(path, nil)
	if err != nil {
		t.Fatalf("second reopen failed: %v", err)
	}
	records := s3.Load()
	if len(records) != 2 {
		t.Fatalf("expected 2 records after round trip, got %d", len(records))
	}
	if records[0].FileName != "one.mp3" || records[1].FileName != "two.wav" {
		t.Fatalf("round trip lost order: %+v", records)
	}
	if records[0].Info == nil || records[0].Info.ServerName != "TELSAPC" {
		t.Fatalf("round trip lost Info section: %+v", records[0])
	}
}

func TestSavedFileMatchesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	rec := record("call.mp3")
	rec.CallWindow = &calllog.CallWindow{Status: "Start", CallType: "Voice_Call", Color: "Green"}
	if err := s.Upsert(rec); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read database: %v", err)
	}
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("database is not a JSON array: %v", err)
	}
	var window map[string]string
	if err := json.Unmarshal(raw[0]["CallWindow"], &window); err != nil {
		t.Fatalf("CallWindow section: %v", err)
	}
	if _, ok := window["Call_Type"]; !ok {
		t.Fatal("expected Call_Type key in persisted CallWindow")
	}

	// Absent sections must be omitted, not null.
	minimal := calllog.Record{FileName: "bare.wav"}
	if err := s.Upsert(minimal); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("reparse database: %v", err)
	}
	if _, ok := raw[1]["Number"]; ok {
		t.Fatal("absent Number section should be omitted from JSON")
	}
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "database.json")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Upsert(record("call.mp3")); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatal("temp file should not remain after save")
	}
}

func TestUpsertRetainsMemoryWhenSaveFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	// Occupy the database path with a directory so the save rename fails.
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("mkdir obstruction: %v", err)
	}

	if err := s.Upsert(record("first.mp3")); err == nil {
		t.Fatal("expected Upsert to fail while the database path is blocked")
	}
	if !s.Contains("first.mp3") {
		t.Fatal("failed save must keep the record in memory for retry")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 retained record, got %d", s.Len())
	}

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove obstruction: %v", err)
	}
	if err := s.SaveAll(); err != nil {
		t.Fatalf("SaveAll after clearing obstruction failed: %v", err)
	}

	reopened, err := Open(path, nil)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if !reopened.Contains("first.mp3") {
		t.Fatal("expected the retried save to persist the retained record")
	}
}

func TestOpenToleratesCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "database.json")
	if err := os.WriteFile(path, []byte("not valid json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	s, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open should tolerate corrupt file: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("corrupt file should start empty, got %d records", s.Len())
	}
	if err := s.Upsert(record("call.mp3")); err != nil {
		t.Fatalf("Upsert after corrupt load failed: %v", err)
	}
}

func TestConcurrentUpsertsKeepAllRecords(t *testing.T) {
	s := newTestStore(t)

	const n = 16
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("call-%02d.mp3", i)
			if err := s.Upsert(record(name)); err != nil {
				t.Errorf("Upsert %s failed: %v", name, err)
			}
		}(i)
	}
	wg.Wait()

	if s.Len() != n {
		t.Fatalf("expected %d records after concurrent upserts, got %d", n, s.Len())
	}
}
