package calllog

import (
	"strconv"
	"strings"
)

// Marker is the literal sentinel on the last non-empty line of a recording
// that carries an embedded log block.
const Marker = "Telsa64"

// Extract locates the trailing log block in a recording's raw bytes.
//
// The block sits at the very end of the file: N metadata lines, a line
// holding the integer N, then the marker line. Any audio payload before the
// block is ignored. Returns the N lines in original order and ok=true, or
// ok=false when the file is not a recognized log (no marker, or the count
// line does not parse).
//
// When fewer than N lines precede the count line, the available lines are
// returned rather than failing; the parser degrades gracefully on missing
// sections.
func Extract(data []byte) ([]string, bool) {
	lines := splitLines(data)

	last := len(lines) - 1
	for last >= 0 && strings.TrimSpace(lines[last]) == "" {
		last--
	}
	if last < 1 {
		return nil, false
	}
	if strings.TrimSpace(lines[last]) != Marker {
		return nil, false
	}

	count, err := strconv.Atoi(strings.TrimSpace(lines[last-1]))
	if err != nil || count < 0 {
		return nil, false
	}

	start := last - 1 - count
	if start < 0 {
		start = 0
	}
	return lines[start : last-1], true
}

func splitLines(data []byte) []string {
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
