package tui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/pixelwar/internal/sim"
)

// halfBlock packs two board rows into one terminal row: the foreground
// paints the upper cell and the background the lower one.
const halfBlock = "▀"

// cursorColor marks the inspected cell.
var cursorColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Layout constants
const (
	minWidthForSidebar = 60 // Minimum terminal width to show the census sidebar
	sidebarWidth       = 26 // Width of the sidebar including its border
	hudLines           = 2  // Status line + help bar below the board
)

// BoardRows returns the number of terminal rows a board of height h needs.
func BoardRows(h int) int {
	return (h + 1) / 2
}

// FitBoard returns the largest board that fits a terminal of the given size
// next to the sidebar.
func FitBoard(termW, termH int) (w, h int) {
	w = termW
	if termW >= minWidthForSidebar {
		w -= sidebarWidth + 1
	}
	h = (termH - hudLines) * 2
	return max(w, 1), max(h, 1)
}

// RenderBoard converts a row-major color buffer into styled half-block
// text. Adjacent columns with identical colors share one escape sequence.
// If cursor is non-nil that cell is drawn in cursorColor.
func RenderBoard(r *lipgloss.Renderer, buf []color.RGBA, w, h int, cursor *sim.Coord) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	pixel := func(x, y int) color.RGBA {
		if cursor != nil && cursor.X == x && cursor.Y == y {
			return cursorColor
		}
		return buf[y*w+x]
	}

	var sb strings.Builder
	sb.Grow(w * BoardRows(h) * 4)

	for row := 0; row < BoardRows(h); row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		top, bottom := row*2, row*2+1
		hasBottom := bottom < h

		x := 0
		for x < w {
			fg := pixel(x, top)
			var bg color.RGBA
			if hasBottom {
				bg = pixel(x, bottom)
			}

			// Collect consecutive columns with the same pair of colors
			n := 1
			for x+n < w {
				if pixel(x+n, top) != fg || (hasBottom && pixel(x+n, bottom) != bg) {
					break
				}
				n++
			}

			style := r.NewStyle().Foreground(lipgloss.Color(HexColor(fg)))
			if hasBottom {
				style = style.Background(lipgloss.Color(HexColor(bg)))
			}
			sb.WriteString(style.Render(strings.Repeat(halfBlock, n)))
			x += n
		}
	}
	return sb.String()
}

// HexColor formats a color as #rrggbb for lipgloss.
func HexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
