package emulator

import "github.com/dshills/termsession/internal/term"

// row is a single line of cells.
type row struct {
	cells   []term.Cell
	wrapped bool // True if this line wraps to the next
}

func newRow(width int) *row {
	cells := make([]term.Cell, width)
	for i := range cells {
		cells[i] = term.EmptyCell()
	}
	return &row{cells: cells}
}

func (r *row) clear() {
	r.clearRange(0, len(r.cells))
	r.wrapped = false
}

// clearRange clears cells in the range [start, end).
func (r *row) clearRange(start, end int) {
	if start < 0 {
		start = 0
	}
	if end > len(r.cells) {
		end = len(r.cells)
	}
	for i := start; i < end; i++ {
		r.cells[i] = term.EmptyCell()
	}
}

func (r *row) resize(width int) {
	switch {
	case width < len(r.cells):
		r.cells = r.cells[:width]
	case width > len(r.cells):
		for len(r.cells) < width {
			r.cells = append(r.cells, term.EmptyCell())
		}
	}
}

func (r *row) clone() *row {
	c := &row{cells: make([]term.Cell, len(r.cells)), wrapped: r.wrapped}
	copy(c.cells, r.cells)
	return c
}

// grid is a screen buffer with optional scrollback history.
//
// Point line 0 is rows[0]. Negative lines index history from the most
// recent line backwards, so line -1 is history[len(history)-1].
type grid struct {
	cols  int
	lines int
	rows  []*row

	history    []*row // oldest first
	maxHistory int

	displayOffset int
}

func newGrid(cols, lines, maxHistory int) *grid {
	g := &grid{
		cols:       cols,
		lines:      lines,
		rows:       make([]*row, lines),
		maxHistory: maxHistory,
	}
	for i := range g.rows {
		g.rows[i] = newRow(cols)
	}
	return g
}

// historySize returns the number of lines in scrollback.
func (g *grid) historySize() int {
	return len(g.history)
}

// topmostLine returns the oldest addressable line.
func (g *grid) topmostLine() int {
	return -len(g.history)
}

// bottommostLine returns the last line of the screen.
func (g *grid) bottommostLine() int {
	return g.lines - 1
}

// row returns the row at a point line, or nil if out of range.
func (g *grid) row(line int) *row {
	if line >= 0 {
		if line >= len(g.rows) {
			return nil
		}
		return g.rows[line]
	}
	idx := len(g.history) + line
	if idx < 0 {
		return nil
	}
	return g.history[idx]
}

func (g *grid) cell(p term.Point) term.Cell {
	r := g.row(p.Line)
	if r == nil || p.Column < 0 || p.Column >= len(r.cells) {
		return term.EmptyCell()
	}
	return r.cells[p.Column]
}

// pushHistory appends a line that scrolled off the top of the screen.
func (g *grid) pushHistory(r *row) {
	if g.maxHistory <= 0 {
		return
	}
	g.history = append(g.history, r)
	if len(g.history) > g.maxHistory {
		drop := len(g.history) - g.maxHistory
		g.history = g.history[drop:]
	}
	if g.displayOffset > 0 {
		g.displayOffset++
	}
	if g.displayOffset > len(g.history) {
		g.displayOffset = len(g.history)
	}
}

// scrollUp moves rows [top, bottom] up by n. Lines leaving a region that
// spans the whole screen are saved to history.
func (g *grid) scrollUp(top, bottom, n int) {
	if n <= 0 || len(g.rows) == 0 {
		return
	}
	if top < 0 {
		top = 0
	}
	if bottom >= len(g.rows) {
		bottom = len(g.rows) - 1
	}
	if top > bottom {
		return
	}

	regionSize := bottom - top + 1
	if n > regionSize {
		n = regionSize
	}

	if top == 0 && bottom == len(g.rows)-1 {
		for y := 0; y < n; y++ {
			g.pushHistory(g.rows[y])
		}
	}

	for y := top; y <= bottom-n; y++ {
		g.rows[y] = g.rows[y+n]
	}
	for y := bottom - n + 1; y <= bottom; y++ {
		g.rows[y] = newRow(g.cols)
	}
}

// scrollDown moves rows [top, bottom] down by n.
func (g *grid) scrollDown(top, bottom, n int) {
	if n <= 0 || len(g.rows) == 0 {
		return
	}
	if top < 0 {
		top = 0
	}
	if bottom >= len(g.rows) {
		bottom = len(g.rows) - 1
	}
	if top > bottom {
		return
	}

	regionSize := bottom - top + 1
	if n > regionSize {
		n = regionSize
	}

	for y := bottom; y >= top+n; y-- {
		g.rows[y] = g.rows[y-n]
	}
	for y := top; y < top+n; y++ {
		g.rows[y] = newRow(g.cols)
	}
}

func (g *grid) clearScreen() {
	for _, r := range g.rows {
		r.clear()
	}
}

func (g *grid) clearHistory() {
	g.history = nil
	g.displayOffset = 0
}

// scrollDisplay moves the viewport and returns the applied line delta.
func (g *grid) scrollDisplay(s term.Scroll) int {
	old := g.displayOffset
	switch s.Kind {
	case term.ScrollDelta:
		g.displayOffset += s.Lines
	case term.ScrollPageUp:
		g.displayOffset += g.lines
	case term.ScrollPageDown:
		g.displayOffset -= g.lines
	case term.ScrollTop:
		g.displayOffset = len(g.history)
	case term.ScrollBottom:
		g.displayOffset = 0
	}
	g.clampDisplayOffset()
	return g.displayOffset - old
}

func (g *grid) clampDisplayOffset() {
	if g.displayOffset < 0 {
		g.displayOffset = 0
	}
	if g.displayOffset > len(g.history) {
		g.displayOffset = len(g.history)
	}
}

// scrollToPoint moves the viewport the minimum distance needed to show p.
func (g *grid) scrollToPoint(p term.Point) {
	top := -g.displayOffset
	bottom := top + g.lines - 1
	switch {
	case p.Line < top:
		g.displayOffset = -p.Line
	case p.Line > bottom:
		g.displayOffset -= p.Line - bottom
	}
	g.clampDisplayOffset()
}

// resize changes the grid dimensions. When shrinking, rows above the
// cursor move into history so the cursor line stays visible. When
// growing, history lines are pulled back onto the screen. It returns the
// new cursor line.
func (g *grid) resize(cols, lines, cursorY int) int {
	if cols != g.cols {
		for _, r := range g.rows {
			r.resize(cols)
		}
		for _, r := range g.history {
			r.resize(cols)
		}
		g.cols = cols
	}

	switch {
	case lines < g.lines:
		shrink := g.lines - lines
		// Lines below the cursor are dropped first.
		below := g.lines - 1 - cursorY
		if below > shrink {
			below = shrink
		}
		if below > 0 {
			g.rows = g.rows[:len(g.rows)-below]
		}
		shrink -= below
		for i := 0; i < shrink; i++ {
			g.pushHistory(g.rows[0])
			g.rows = g.rows[1:]
		}
		cursorY -= shrink
	case lines > g.lines:
		grow := lines - g.lines
		for i := 0; i < grow; i++ {
			if len(g.history) > 0 && g.maxHistory > 0 {
				last := g.history[len(g.history)-1]
				g.history = g.history[:len(g.history)-1]
				g.rows = append([]*row{last}, g.rows...)
				cursorY++
				continue
			}
			g.rows = append(g.rows, newRow(cols))
		}
	}
	g.lines = lines
	g.clampDisplayOffset()

	if cursorY < 0 {
		cursorY = 0
	}
	if cursorY >= lines {
		cursorY = lines - 1
	}
	return cursorY
}
