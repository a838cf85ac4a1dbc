package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"callwatch/internal/config"
)

// NewConfig returns a validated config rooted in a temp directory.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.FilesDir = filepath.Join(base, "files")
	cfg.Paths.DatabasePath = filepath.Join(base, "database.json")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.APIBind = ""
	cfg.Ingest.Workers = 2
	cfg.Ingest.QueueSize = 16

	if err := os.MkdirAll(cfg.Paths.FilesDir, 0o755); err != nil {
		t.Fatalf("create files dir: %v", err)
	}
	if err := os.MkdirAll(cfg.Paths.LogDir, 0o755); err != nil {
		t.Fatalf("create log dir: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}
