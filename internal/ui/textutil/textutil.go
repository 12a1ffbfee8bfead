// Package textutil fits free text into fixed-width terminal cells.
package textutil

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Ellipsis marks clipped text.
const Ellipsis = "…"

// Width returns the number of terminal columns s occupies, ignoring ANSI
// styling.
func Width(s string) int {
	return lipgloss.Width(s)
}

// OneLine collapses every run of whitespace, newlines included, to a
// single space.
func OneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Clip shortens s to at most width columns, ending in an ellipsis when
// anything was cut. Wide runes are never split.
func Clip(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, Ellipsis)
}

// Cell prepares a record field for a table cell: one line, clipped.
func Cell(s string, width int) string {
	return Clip(OneLine(s), width)
}

// SpreadLine lays left and right out on one line of total width, left
// flush and right flush. When both do not fit, left is clipped.
func SpreadLine(left, right string, total int) string {
	rw := Width(right)
	room := total - rw - 1
	if room < 0 {
		return Clip(right, total)
	}
	if Width(left) > room {
		left = Clip(left, room)
	}
	gap := total - Width(left) - rw
	return left + strings.Repeat(" ", max(gap, 1)) + right
}
