package calllog

import (
	"strings"
	"testing"
)

func block(lines ...string) []byte {
	return []byte(strings.Join(lines, "\n"))
}

func TestExtractReturnsBlockLines(t *testing.T) {
	data := block(
		"\x00\x01binary audio payload\xff",
		"2024/05/12 10:31:02|Info|FileName:call.mp3|ServerName:TELSAPC",
		"2024/05/12 10:31:02|Number|Number:09123456789",
		"2024/05/12 10:31:03|CallWindow|Status:Start|Call_Type:Voice_Call|Color:Green",
		"3",
		"Telsa64",
	)

	lines, ok := Extract(data)
	if !ok {
		t.Fatal("expected ok for well-formed block")
	}
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "Info") {
		t.Fatalf("expected first block line to be the Info line, got %q", lines[0])
	}
	if !strings.Contains(lines[2], "CallWindow") {
		t.Fatalf("expected last block line to be the CallWindow line, got %q", lines[2])
	}
}

func TestExtractRejectsMissingMarker(t *testing.T) {
	data := block(
		"2024/05/12 10:31:02|Info|FileName:call.mp3",
		"1",
		"SomethingElse",
	)
	if _, ok := Extract(data); ok {
		t.Fatal("expected ok=false when marker is absent")
	}
}

func TestExtractRejectsMalformedCount(t *testing.T) {
	cases := []string{"eleven", "", "-2", "3.5"}
	for _, count := range cases {
		data := block(
			"2024/05/12 10:31:02|Info|FileName:call.mp3",
			count,
			"Telsa64",
		)
		if _, ok := Extract(data); ok {
			t.Errorf("expected ok=false for count line %q", count)
		}
	}
}

func TestExtractIgnoresTrailingBlankLines(t *testing.T) {
	data := block(
		"2024/05/12 10:31:02|Number|Number:09123456789",
		"1",
		"Telsa64",
		"",
		"   ",
	)
	lines, ok := Extract(data)
	if !ok {
		t.Fatal("expected ok despite trailing blank lines")
	}
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
}

func TestExtractHandlesCRLF(t *testing.T) {
	data := []byte("2024/05/12 10:31:02|Number|Number:09123456789\r\n1\r\nTelsa64\r\n")
	lines, ok := Extract(data)
	if !ok {
		t.Fatal("expected ok for CRLF input")
	}
	if strings.HasSuffix(lines[0], "\r") {
		t.Fatalf("expected carriage return stripped, got %q", lines[0])
	}
}

func TestExtractToleratesShortBlock(t *testing.T) {
	// Count says 11 but only two lines precede it.
	data := block(
		"2024/05/12 10:31:02|Info|FileName:call.mp3",
		"2024/05/12 10:31:02|Number|Number:09123456789",
		"11",
		"Telsa64",
	)
	lines, ok := Extract(data)
	if !ok {
		t.Fatal("expected ok for short block")
	}
	if len(lines) != 2 {
		t.Fatalf("expected the 2 available lines, got %d", len(lines))
	}
}

func TestExtractRejectsTinyFiles(t *testing.T) {
	if _, ok := Extract(nil); ok {
		t.Fatal("expected ok=false for empty input")
	}
	if _, ok := Extract([]byte("Telsa64")); ok {
		t.Fatal("expected ok=false for marker-only input")
	}
}
