package calllog

import (
	"log/slog"
	"strings"

	"callwatch/internal/logging"
)

// Line tags recognized in a log block. Anything else is ignored so newer
// recorder firmware can add line types without breaking ingestion.
const (
	tagInfo       = "Info"
	tagNumber     = "Number"
	tagCallWindow = "CallWindow"
)

// Parse turns extracted block lines into a Record.
//
// Each line is pipe-delimited: a leading timestamp, a type tag, then
// Key:Value segments. A line that cannot be split into at least timestamp
// and tag is dropped and logged; one malformed line never discards the file.
// The record's FileName always comes from fileName, not from the embedded
// Info section, so the store key matches the source file even when the
// recorder wrote a different name into the block.
func Parse(lines []string, fileName string, logger *slog.Logger) Record {
	if logger == nil {
		logger = logging.NewNop()
	}

	record := Record{FileName: fileName}
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		if len(parts) < 2 {
			logger.Warn("malformed log line dropped",
				logging.String(logging.FieldFile, fileName),
				logging.String(logging.FieldEventType, "malformed_field_line"),
				logging.String("line", line))
			continue
		}

		fields := parseFields(parts[2:])
		switch strings.TrimSpace(parts[1]) {
		case tagInfo:
			record.Info = &Info{
				FileName:   fields["FileName"],
				ServerName: fields["ServerName"],
				Card:       fields["Card"],
				Channel:    fields["Channel"],
				Date:       parts[0],
			}
		case tagNumber:
			record.Number = &Number{Number: fields["Number"]}
		case tagCallWindow:
			record.CallWindow = &CallWindow{
				Status:   fields["Status"],
				CallType: fields["Call_Type"],
				Color:    fields["Color"],
			}
		}
	}
	return record
}

// parseFields splits Key:Value segments on the first ':' only; card
// identifiers carry ':' inside their values.
func parseFields(segments []string) map[string]string {
	fields := make(map[string]string, len(segments))
	for _, segment := range segments {
		parts := strings.SplitN(segment, ":", 2)
		if len(parts) != 2 {
			continue
		}
		fields[strings.TrimSpace(parts[0])] = parts[1]
	}
	return fields
}
