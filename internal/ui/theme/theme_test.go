package theme

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestBar_Width(t *testing.T) {
	tests := []struct {
		name    string
		percent float64
		width   int
		want    string
	}{
		{"empty", 0, 10, "0%"},
		{"half", 0.5, 10, "50%"},
		{"full", 1, 10, "100%"},
		{"over", 1.5, 10, "150%"},
		{"tiny width", 0.25, 1, "25%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bar(tt.percent, tt.width)
			if !strings.Contains(got, " "+tt.want) {
				t.Errorf("Bar(%v, %d) = %q, want %q", tt.percent, tt.width, got, tt.want)
			}
			w := tt.width
			if w < 4 {
				w = 4
			}
			if lipgloss.Width(got) != w+2+len(tt.want) {
				t.Errorf("Bar(%v, %d) width = %d, want %d", tt.percent, tt.width, lipgloss.Width(got), w+2+len(tt.want))
			}
		})
	}
}

func TestKV(t *testing.T) {
	got := KV("Due now", 3)
	if !strings.Contains(got, "Due now") || !strings.Contains(got, "3") {
		t.Errorf("KV() = %q", got)
	}
}
