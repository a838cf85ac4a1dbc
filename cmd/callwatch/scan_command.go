package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"callwatch/internal/config"
	"callwatch/internal/ingest"
	"callwatch/internal/logging"
	"callwatch/internal/store"
)

func newScanCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Ingest every recording in the watched directory once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			st, err := store.Open(cfg.Paths.DatabasePath, logger)
			if err != nil {
				return fmt.Errorf("open record store: %w", err)
			}
			ingestor := ingest.NewIngestor(st)

			entries, err := os.ReadDir(cfg.Paths.FilesDir)
			if err != nil {
				return fmt.Errorf("read files directory: %w", err)
			}

			stored, skipped, failed := 0, 0, 0
			for _, entry := range entries {
				if entry.IsDir() || !cfg.WatchesExtension(entry.Name()) {
					continue
				}
				path := filepath.Join(cfg.Paths.FilesDir, entry.Name())
				fileLogger := logger.With(logging.String(logging.FieldFile, entry.Name()))
				result, err := ingestor.Process(cmd.Context(), path, false, fileLogger)
				if err != nil {
					failed++
					fileLogger.Error("file ingestion failed", logging.Error(err))
					continue
				}
				switch result {
				case ingest.ResultStored:
					stored++
				default:
					skipped++
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Scan complete: %d stored, %d skipped, %d failed\n", stored, skipped, failed)
			return nil
		},
	}
}
