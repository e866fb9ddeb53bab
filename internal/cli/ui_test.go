package cli

import (
	"strings"
	"testing"
)

func TestStatsLine(t *testing.T) {
	line := statsLine(3, 120, 40, 0.5, true)
	for _, want := range []string{"3 frames", "120 glyphs", "40 eroded", "chaos 0.50", iconCached} {
		if !strings.Contains(line, want) {
			t.Errorf("statsLine() = %q, missing %q", line, want)
		}
	}

	line = statsLine(0, 10, 0, 0, false)
	if strings.Contains(line, "frames") {
		t.Errorf("zero frames should be omitted: %q", line)
	}
	if !strings.Contains(line, iconFresh) {
		t.Errorf("statsLine() = %q, missing %q", line, iconFresh)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
