package logging

import (
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"unknown": slog.LevelInfo,
		" WARN ":  slog.LevelWarn,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func TestJSONHandlerEmitsParseableLines(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(newJSONHandler(&buf, slog.LevelInfo))

	logger.Info("stored record", String(FieldFile, "call.mp3"))

	var entry map[string]any
	if err := json.Unmarshal([]byte(buf.String()), &entry); err != nil {
		t.Fatalf("log line is not valid JSON: %v", err)
	}
	if entry["msg"] != "stored record" {
		t.Fatalf("unexpected msg: %v", entry["msg"])
	}
	if entry[FieldFile] != "call.mp3" {
		t.Fatalf("unexpected file attr: %v", entry[FieldFile])
	}
}

func TestConsoleHandlerIncludesComponentPrefix(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(newConsoleHandler(&buf, slog.LevelInfo))
	logger = NewComponentLogger(logger, "watcher")

	logger.Info("scan complete", Int("files", 3))

	line := buf.String()
	if !strings.Contains(line, "watcher: scan complete") {
		t.Fatalf("expected component prefix in %q", line)
	}
	if !strings.Contains(line, "files=3") {
		t.Fatalf("expected attr in %q", line)
	}
}

func TestNopLoggerIsSafe(t *testing.T) {
	logger := NewNop()
	logger.Error("ignored", Error(nil))
	logger.Info("also ignored")
}
