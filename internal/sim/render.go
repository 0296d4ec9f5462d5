package sim

import (
	"image/color"
	"strings"
)

// ColorBuffer returns one color per cell in row-major order, derived from
// each cell's current species hue. It does not modify the grid and may be
// called any number of times between ticks.
func (g *Grid) ColorBuffer() []color.RGBA {
	buf := make([]color.RGBA, len(g.cells))
	for i, cell := range g.cells {
		buf[i] = g.pop.Color(cell.Genome)
	}
	return buf
}

// RenderASCII draws the board with the first letter of each owner's name
// when the population fits in a single letter, or the full two-letter name
// per cell otherwise. Rows are separated by newlines.
// This is UI-library-agnostic and used for debugging and tests.
func RenderASCII(g *Grid) string {
	wide := !singleLetterNames(g.pop)

	var sb strings.Builder
	cellW := 1
	if wide {
		cellW = 3
	}
	sb.Grow((g.W*cellW + 1) * g.H)

	for y := 0; y < g.H; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < g.W; x++ {
			name := g.pop.Genome(g.cells[y*g.W+x].Genome).Name
			if wide {
				if x > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(name)
				continue
			}
			sb.WriteByte(name[0])
		}
	}
	return sb.String()
}

// singleLetterNames reports whether every species is told apart by its first letter.
func singleLetterNames(p *Population) bool {
	seen := make(map[byte]bool, p.Len())
	for _, g := range p.genomes {
		if seen[g.Name[0]] {
			return false
		}
		seen[g.Name[0]] = true
	}
	return true
}
