package textutil

import "testing"

func TestClip(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"Science", 10, "Science"},
		{"Science", 7, "Science"},
		{"Engineering", 6, "Engin…"},
		{"Engineering", 0, ""},
		{"工学部の説明", 5, "工学…"},
	}
	for _, tt := range tests {
		if got := Clip(tt.in, tt.width); got != tt.want {
			t.Errorf("Clip(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if got := Width(Clip(tt.in, tt.width)); got > tt.width {
			t.Errorf("Clip(%q, %d) is %d columns wide", tt.in, tt.width, got)
		}
	}
}

func TestCell(t *testing.T) {
	got := Cell("Natural\n  and\tapplied sciences", 18)
	if got != "Natural and appli…" {
		t.Errorf("Cell = %q", got)
	}
}

func TestSpreadLine(t *testing.T) {
	got := SpreadLine("left", "right", 20)
	if got != "left           right" {
		t.Errorf("SpreadLine = %q", got)
	}
	if w := Width(got); w != 20 {
		t.Errorf("width = %d, want 20", w)
	}

	got = SpreadLine("a very long status message", "q: quit", 20)
	if w := Width(got); w != 20 {
		t.Errorf("clipped width = %d, want 20 (%q)", w, got)
	}
}
