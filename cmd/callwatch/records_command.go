package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"callwatch/internal/calllog"
	"callwatch/internal/config"
	"callwatch/internal/logging"
	"callwatch/internal/store"
)

func newRecordsCommand(configFlag *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "records",
		Short: "List the ingested call records",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			st, err := store.Open(cfg.Paths.DatabasePath, logging.NewNop())
			if err != nil {
				return fmt.Errorf("open record store: %w", err)
			}
			records := st.Load()

			out := cmd.OutOrStdout()
			if asJSON || !isatty.IsTerminal(os.Stdout.Fd()) {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(records)
			}

			if len(records) == 0 {
				fmt.Fprintln(out, "No records ingested yet.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for i, record := range records {
				rows = append(rows, recordRow(i+1, record))
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "File", "Number", "Date", "Server", "Status", "Type"},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit records as JSON")
	return cmd
}

func recordRow(index int, record calllog.Record) []string {
	row := []string{fmt.Sprintf("%d", index), record.FileName, "", "", "", "", ""}
	if record.Number != nil {
		row[2] = record.Number.Number
	}
	if record.Info != nil {
		row[3] = record.Info.Date
		row[4] = record.Info.ServerName
	}
	if record.CallWindow != nil {
		row[5] = record.CallWindow.Status
		row[6] = displayCallType(record.CallWindow.CallType)
	}
	return row
}

// displayCallType renders recorder tokens like "Voice_Call" as "Voice Call".
func displayCallType(value string) string {
	value = strings.TrimSpace(strings.ReplaceAll(value, "_", " "))
	if value == "" {
		return ""
	}
	return cases.Title(language.English).String(strings.ToLower(value))
}
