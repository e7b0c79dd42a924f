// Package textutil provides ANSI-aware text utilities for TUI rendering.
package textutil

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// TruncateEllipsis is the unicode ellipsis character used for truncation.
const TruncateEllipsis = "…"

// Width returns the number of terminal cells s occupies, ignoring escape codes.
func Width(s string) int {
	return ansi.StringWidth(s)
}

// Truncate shortens s to at most maxWidth cells, appending an ellipsis when
// anything was cut. Styling escape codes are preserved.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return ansi.Truncate(s, maxWidth, TruncateEllipsis)
}

// PadRight pads s with spaces to width cells. Wider strings are truncated.
func PadRight(s string, width int) string {
	w := Width(s)
	if w > width {
		return Truncate(s, width)
	}
	return s + strings.Repeat(" ", width-w)
}

// PadLeft pads s on the left with spaces to width cells. Wider strings are
// truncated.
func PadLeft(s string, width int) string {
	w := Width(s)
	if w > width {
		return Truncate(s, width)
	}
	return strings.Repeat(" ", width-w) + s
}

// Blank returns a width x height block of spaces.
func Blank(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	row := strings.Repeat(" ", width)
	lines := make([]string, height)
	for i := range lines {
		lines[i] = row
	}
	return strings.Join(lines, "\n")
}

// Overlay composites top over base with top's upper-left corner at (x, y).
// Both are treated as line grids; base keeps its width and height, and
// anything of top that falls outside is clipped.
func Overlay(base, top string, x, y, width, height int) string {
	baseLines := splitLines(base)
	topLines := splitLines(top)
	topWidth := 0
	for _, l := range topLines {
		topWidth = max(topWidth, Width(l))
	}
	for i, line := range topLines {
		row := y + i
		if row < 0 || row >= len(baseLines) || row >= height {
			continue
		}
		target := padTo(baseLines[row], width)

		// Clip on the left when the block starts off-canvas.
		col := x
		line = padTo(line, topWidth)
		if col < 0 {
			line = ansi.TruncateLeft(line, -col, "")
			col = 0
		}
		if col >= width {
			continue
		}
		line = ansi.Truncate(line, width-col, "")

		left := ansi.Truncate(target, col, "")
		if lw := Width(left); lw < col {
			left += strings.Repeat(" ", col-lw)
		}
		end := col + Width(line)
		right := ansi.TruncateLeft(target, end, "")
		if gap := width - end - Width(right); gap > 0 {
			right = strings.Repeat(" ", gap) + right
		}
		baseLines[row] = left + line + right
	}
	return strings.Join(baseLines, "\n")
}

func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}
	return strings.Split(s, "\n")
}

func padTo(s string, width int) string {
	if w := Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
