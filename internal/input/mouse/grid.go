package mouse

import (
	"math"

	"github.com/dshills/termsession/internal/term"
)

// GridPoint returns the grid cell under pos. Positions outside the grid
// clamp to its edges. The line accounts for the scrollback display offset.
func GridPoint(pos Position, size term.WindowSize, displayOffset int) term.Point {
	col := clampCell(pos.X, size.CellWidth, size.Columns())
	line := clampCell(pos.Y, size.LineHeight, size.Lines())
	return term.Point{Line: line - displayOffset, Column: col}
}

func clampCell(v, cell float64, count int) int {
	if cell <= 0 || v <= 0 {
		return 0
	}
	n := int(v / cell)
	if n > count-1 {
		n = count - 1
	}
	return n
}

// CellSide reports which half of its cell pos falls in. Positions past
// the last column count as the right side.
func CellSide(pos Position, size term.WindowSize) term.Side {
	if size.CellWidth <= 0 {
		return term.SideLeft
	}
	x := math.Max(pos.X, 0)
	end := float64(size.Columns()) * size.CellWidth
	if x >= end || math.Mod(x, size.CellWidth) > size.CellWidth/2 {
		return term.SideRight
	}
	return term.SideLeft
}
