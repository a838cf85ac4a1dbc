package testsupport

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// LogBlock describes the trailing block of a fixture recording.
type LogBlock struct {
	Lines []string
	// Count overrides the declared line count when non-zero; used to build
	// short blocks whose header claims more lines than exist.
	Count int
	// OmitMarker drops the Telsa64 footer, producing a plain audio file.
	OmitMarker bool
}

// WriteRecording writes a fixture file named name under dir: a short fake
// audio payload followed by the described log block. Returns the full path.
func WriteRecording(t *testing.T, dir, name string, block LogBlock) string {
	t.Helper()

	var b strings.Builder
	b.Write([]byte{0x49, 0x44, 0x33, 0x03, 0x00, 0xff, 0xfb})
	b.WriteString("\n")

	for _, line := range block.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if !block.OmitMarker {
		count := block.Count
		if count == 0 {
			count = len(block.Lines)
		}
		b.WriteString(strconv.Itoa(count))
		b.WriteString("\n")
		b.WriteString("Telsa64\n")
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// StandardBlockLines returns a complete three-section log block whose
// embedded file name is name.
func StandardBlockLines(name string) []string {
	return []string{
		"2024/05/12 10:31:02|Info|FileName:" + name + "|ServerName:TELSAPC|Card:0xA3:44:F1|Channel:2",
		"2024/05/12 10:31:02|Number|Number:09123456789",
		"2024/05/12 10:31:03|CallWindow|Status:Start|Call_Type:Voice_Call|Color:Green",
	}
}
