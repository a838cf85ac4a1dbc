package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"callwatch/internal/config"
	"callwatch/internal/ingest"
	"callwatch/internal/logging"
	"callwatch/internal/store"
)

func newIngestCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Ingest specific recordings, replacing existing records",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
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

			out := cmd.OutOrStdout()
			for _, arg := range args {
				path, err := filepath.Abs(arg)
				if err != nil {
					return fmt.Errorf("resolve path %q: %w", arg, err)
				}
				name := filepath.Base(path)
				fileLogger := logger.With(logging.String(logging.FieldFile, name))

				result, err := ingestor.Process(cmd.Context(), path, true, fileLogger)
				if err != nil {
					return fmt.Errorf("ingest %s: %w", name, err)
				}
				switch result {
				case ingest.ResultStored:
					fmt.Fprintf(out, "%s: stored\n", name)
				case ingest.ResultSkippedNotLog:
					fmt.Fprintf(out, "%s: not a recognized call log, skipped\n", name)
				}
			}
			return nil
		},
	}
}
