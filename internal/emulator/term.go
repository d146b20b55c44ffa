package emulator

import (
	"github.com/danielgatis/go-ansicode"
	"github.com/mattn/go-runewidth"

	"github.com/dshills/termsession/internal/term"
)

// DefaultScrollback is the number of history lines kept when Config
// leaves Scrollback unset.
const DefaultScrollback = 10000

// Config configures a new Term.
type Config struct {
	// Size is the initial window size.
	Size term.WindowSize

	// Scrollback is the number of history lines (default 10000).
	Scrollback int

	// Listener receives notifications. Nil discards them.
	Listener term.Listener
}

type savedCursor struct {
	x, y  int
	tmpl  term.Cell
	valid bool
}

// Term is a VT-compatible terminal state machine.
//
// Term is not safe for concurrent use. Callers share it behind a
// fairmutex.Mutex.
type Term struct {
	cols  int
	lines int
	size  term.WindowSize

	primary   *grid
	alternate *grid
	grid      *grid

	cursorX int
	cursorY int
	shape   term.CursorShape
	tmpl    term.Cell

	savedPrimary savedCursor
	savedAlt     savedCursor

	scrollTop    int
	scrollBottom int
	tabs         []bool

	lineDrawing [4]bool
	charset     int

	mode      term.Mode
	title     string
	titles    []string
	colors    [term.PaletteSize]*term.RGB
	selection *term.Selection

	listener term.Listener
	decoder  *ansicode.Decoder
}

// New creates a terminal sized to cfg.Size.
func New(cfg Config) *Term {
	if cfg.Size.CellWidth <= 0 || cfg.Size.LineHeight <= 0 {
		cfg.Size = term.DefaultWindowSize
	}
	if cfg.Scrollback <= 0 {
		cfg.Scrollback = DefaultScrollback
	}
	listener := cfg.Listener
	if listener == nil {
		listener = term.ListenerFunc(func(term.Event) {})
	}

	cols, lines := cfg.Size.Columns(), cfg.Size.Lines()
	t := &Term{
		cols:         cols,
		lines:        lines,
		size:         cfg.Size,
		primary:      newGrid(cols, lines, cfg.Scrollback),
		alternate:    newGrid(cols, lines, 0),
		scrollBottom: lines - 1,
		tabs:         defaultTabs(cols),
		mode:         term.DefaultMode,
		tmpl:         term.EmptyCell(),
		listener:     listener,
	}
	t.grid = t.primary
	t.decoder = ansicode.NewDecoder(&handler{t: t})
	return t
}

// Advance feeds PTY output through the decoder.
func (t *Term) Advance(data []byte) {
	_, _ = t.decoder.Write(data)
}

// Columns returns the grid width.
func (t *Term) Columns() int {
	return t.cols
}

// ScreenLines returns the number of visible lines.
func (t *Term) ScreenLines() int {
	return t.lines
}

// DisplayOffset returns how many lines the viewport is scrolled into history.
func (t *Term) DisplayOffset() int {
	return t.grid.displayOffset
}

// HistorySize returns the number of scrollback lines on the active screen.
func (t *Term) HistorySize() int {
	return t.grid.historySize()
}

// Mode returns the active terminal modes.
func (t *Term) Mode() term.Mode {
	return t.mode
}

// Title returns the last title set by the program.
func (t *Term) Title() string {
	return t.title
}

// SetMode turns flags on or off without going through the decoder.
func (t *Term) SetMode(flags term.Mode, on bool) {
	if on {
		t.mode = t.mode.With(flags)
	} else {
		t.mode = t.mode.Without(flags)
	}
}

// CursorPoint returns the cursor's grid point.
func (t *Term) CursorPoint() term.Point {
	x := t.cursorX
	if x >= t.cols {
		x = t.cols - 1
	}
	return term.Point{Line: t.cursorY, Column: x}
}

// CellAt returns the cell at p, or an empty cell if p is outside the grid.
func (t *Term) CellAt(p term.Point) term.Cell {
	return t.grid.cell(p)
}

// Resize changes the grid to fit size.
func (t *Term) Resize(size term.WindowSize) {
	t.size = size
	cols, lines := size.Columns(), size.Lines()
	if cols == t.cols && lines == t.lines {
		return
	}

	t.cursorY = t.grid.resize(cols, lines, t.cursorY)
	other := t.alternate
	if t.grid == t.alternate {
		other = t.primary
	}
	other.resize(cols, lines, lines-1)

	t.cols = cols
	t.lines = lines
	t.scrollTop = 0
	t.scrollBottom = lines - 1
	t.tabs = resizeTabs(t.tabs, cols)
	if t.cursorX > cols {
		t.cursorX = cols
	}
	t.savedPrimary.clamp(cols, lines)
	t.savedAlt.clamp(cols, lines)
	t.selection = nil
}

func (s *savedCursor) clamp(cols, lines int) {
	if s.x >= cols {
		s.x = cols - 1
	}
	if s.y >= lines {
		s.y = lines - 1
	}
}

// ScrollDisplay moves the viewport through history.
func (t *Term) ScrollDisplay(s term.Scroll) {
	t.grid.scrollDisplay(s)
}

// ScrollToPoint moves the viewport so p is visible.
func (t *Term) ScrollToPoint(p term.Point) {
	t.grid.scrollToPoint(p)
}

// ClearScrollback drops the scrollback of the primary screen.
func (t *Term) ClearScrollback() {
	if t.grid != t.primary {
		return
	}
	t.primary.clearHistory()
	if t.selection != nil {
		start, _ := t.selection.Ordered()
		if start.Point.Line < 0 {
			t.selection = nil
		}
	}
}

// PaletteColor returns a color set by the program through OSC 4/10/11/12.
func (t *Term) PaletteColor(index int) (term.RGB, bool) {
	if index < 0 || index >= term.PaletteSize || t.colors[index] == nil {
		return term.RGB{}, false
	}
	return *t.colors[index], true
}

// Selection returns a copy of the current selection, or nil.
func (t *Term) Selection() *term.Selection {
	return t.selection.Clone()
}

// SetSelection replaces the current selection. Nil clears it.
func (t *Term) SetSelection(sel *term.Selection) {
	t.selection = sel.Clone()
}

// Renderable snapshots the visible screen.
func (t *Term) Renderable() term.Renderable {
	offset := t.grid.displayOffset
	cells := make([]term.IndexedCell, 0, t.cols*t.lines)
	for y := 0; y < t.lines; y++ {
		line := y - offset
		r := t.grid.row(line)
		if r == nil {
			continue
		}
		for x, c := range r.cells {
			if x == len(r.cells)-1 && r.wrapped {
				c.Flags |= term.FlagWrapline
			}
			cells = append(cells, term.IndexedCell{
				Point: term.Point{Line: line, Column: x},
				Cell:  c,
			})
		}
	}

	cursor := term.Cursor{Shape: t.shape, Point: t.CursorPoint()}
	if !t.mode.Has(term.ModeShowCursor) {
		cursor.Shape = term.CursorHidden
	}

	var sel *term.SelectionRange
	if r, ok := t.SelectionRange(); ok {
		sel = &r
	}

	return term.Renderable{
		Cells:         cells,
		Mode:          t.mode,
		DisplayOffset: offset,
		Selection:     sel,
		Cursor:        cursor,
		CursorChar:    t.grid.cell(cursor.Point).Rune,
	}
}

// Text returns the visible screen as newline-separated lines.
func (t *Term) Text() string {
	var result []rune
	for y := 0; y < t.lines; y++ {
		r := t.grid.row(y - t.grid.displayOffset)
		for _, c := range r.cells {
			if c.Flags.Has(term.FlagWideSpacer) {
				continue
			}
			result = append(result, c.Rune)
		}
		if y < t.lines-1 {
			result = append(result, '\n')
		}
	}
	return string(result)
}

// Reset restores the initial state, keeping size and scrollback limit.
func (t *Term) Reset() {
	t.primary = newGrid(t.cols, t.lines, t.primary.maxHistory)
	t.alternate = newGrid(t.cols, t.lines, 0)
	t.grid = t.primary
	t.cursorX, t.cursorY = 0, 0
	t.shape = term.CursorBlock
	t.tmpl = term.EmptyCell()
	t.savedPrimary = savedCursor{}
	t.savedAlt = savedCursor{}
	t.scrollTop = 0
	t.scrollBottom = t.lines - 1
	t.tabs = defaultTabs(t.cols)
	t.lineDrawing = [4]bool{}
	t.charset = 0
	t.mode = term.DefaultMode
	t.colors = [term.PaletteSize]*term.RGB{}
	t.selection = nil
	t.title = ""
	t.titles = nil
	t.listener.Send(term.ResetTitleEvent{})
}

func (t *Term) send(ev term.Event) {
	t.listener.Send(ev)
}

// writeRune writes a rune at the cursor position and advances the cursor.
func (t *Term) writeRune(r rune) {
	width := runewidth.RuneWidth(r)
	if width == 0 {
		return
	}

	if t.cursorX+width > t.cols {
		if t.mode.Has(term.ModeLineWrap) {
			t.grid.row(t.cursorY).wrapped = true
			t.cursorX = 0
			t.lineFeed()
		} else {
			t.cursorX = t.cols - width
			if t.cursorX < 0 {
				return
			}
		}
	}

	line := t.grid.row(t.cursorY)
	if line == nil || width > t.cols {
		return
	}

	if t.mode.Has(term.ModeInsert) {
		t.insertChars(width)
	}

	cell := t.tmpl
	cell.Rune = r
	cell.Flags &^= term.FlagWide | term.FlagWideSpacer | term.FlagWrapline
	if width == 2 {
		cell.Flags |= term.FlagWide
	}
	t.clearWideAt(line, t.cursorX)
	line.cells[t.cursorX] = cell
	if width == 2 {
		spacer := t.tmpl
		spacer.Rune = ' '
		spacer.Flags = term.FlagWideSpacer
		line.cells[t.cursorX+1] = spacer
	}
	t.cursorX += width
}

// clearWideAt blanks the other half of a wide character being overwritten.
func (t *Term) clearWideAt(line *row, x int) {
	c := line.cells[x]
	switch {
	case c.Flags.Has(term.FlagWide) && x+1 < len(line.cells):
		line.cells[x+1] = term.EmptyCell()
	case c.Flags.Has(term.FlagWideSpacer) && x > 0:
		line.cells[x-1] = term.EmptyCell()
	}
}

// moveCursor moves the cursor to the specified position.
func (t *Term) moveCursor(x, y int) {
	if x < 0 {
		x = 0
	}
	if x >= t.cols {
		x = t.cols - 1
	}

	top := 0
	bottom := t.lines - 1
	if t.mode.Has(term.ModeOrigin) {
		top = t.scrollTop
		bottom = t.scrollBottom
		y += top
	}

	if y < top {
		y = top
	}
	if y > bottom {
		y = bottom
	}

	t.cursorX = x
	t.cursorY = y
}

func (t *Term) moveCursorRelative(dx, dy int) {
	x := t.cursorX
	if x >= t.cols {
		x = t.cols - 1
	}
	y := t.cursorY + dy
	if t.mode.Has(term.ModeOrigin) {
		y -= t.scrollTop
	}
	t.moveCursor(x+dx, y)
}

// cursorLine returns the cursor line as the program sees it.
func (t *Term) cursorLine() int {
	if t.mode.Has(term.ModeOrigin) {
		return t.cursorY - t.scrollTop
	}
	return t.cursorY
}

func (t *Term) carriageReturn() {
	t.cursorX = 0
}

// lineFeed moves the cursor down one line, scrolling if needed.
func (t *Term) lineFeed() {
	if t.cursorY == t.scrollBottom {
		t.scrollUp(1)
	} else if t.cursorY < t.lines-1 {
		t.cursorY++
	}
}

// reverseLineFeed moves the cursor up one line, scrolling if needed.
func (t *Term) reverseLineFeed() {
	if t.cursorY == t.scrollTop {
		t.scrollDown(1)
	} else if t.cursorY > 0 {
		t.cursorY--
	}
}

// scrollUp scrolls the scroll region up by n lines.
func (t *Term) scrollUp(n int) {
	t.grid.scrollUp(t.scrollTop, t.scrollBottom, n)
	if t.scrollTop == 0 {
		t.rotateSelection(-n)
	}
}

// scrollDown scrolls the scroll region down by n lines.
func (t *Term) scrollDown(n int) {
	t.grid.scrollDown(t.scrollTop, t.scrollBottom, n)
}

// rotateSelection keeps the selection attached to its text as lines move
// into history.
func (t *Term) rotateSelection(delta int) {
	if t.selection == nil {
		return
	}
	if t.scrollBottom != t.lines-1 || t.grid.maxHistory == 0 {
		t.selection = nil
		return
	}
	top := t.grid.topmostLine()
	t.selection.Start.Point.Line += delta
	t.selection.End.Point.Line += delta
	start, _ := t.selection.Ordered()
	if start.Point.Line < top {
		t.selection = nil
	}
}

// setScrollRegion sets the scroll region from 0-based inclusive bounds.
func (t *Term) setScrollRegion(top, bottom int) {
	if top < 0 {
		top = 0
	}
	if bottom >= t.lines {
		bottom = t.lines - 1
	}
	if top >= bottom {
		return
	}

	t.scrollTop = top
	t.scrollBottom = bottom
	t.moveCursor(0, 0)
}

func (t *Term) clearScreen() {
	t.grid.clearScreen()
	t.selection = nil
}

// clearScreenAbove clears from the top of the screen to the cursor.
func (t *Term) clearScreenAbove() {
	for y := 0; y < t.cursorY; y++ {
		t.grid.row(y).clear()
	}
	t.grid.row(t.cursorY).clearRange(0, t.cursorX+1)
}

// clearScreenBelow clears from the cursor to the bottom of the screen.
func (t *Term) clearScreenBelow() {
	t.grid.row(t.cursorY).clearRange(t.cursorX, t.cols)
	for y := t.cursorY + 1; y < t.lines; y++ {
		t.grid.row(y).clear()
	}
}

func (t *Term) clearLine() {
	t.grid.row(t.cursorY).clear()
}

func (t *Term) clearLineLeft() {
	t.grid.row(t.cursorY).clearRange(0, t.cursorX+1)
}

func (t *Term) clearLineRight() {
	t.grid.row(t.cursorY).clearRange(t.cursorX, t.cols)
	t.grid.row(t.cursorY).wrapped = false
}

// insertLines inserts n blank lines at the cursor, pushing content down.
func (t *Term) insertLines(n int) {
	if t.cursorY < t.scrollTop || t.cursorY > t.scrollBottom {
		return
	}
	t.grid.scrollDown(t.cursorY, t.scrollBottom, n)
}

// deleteLines deletes n lines at the cursor, pulling content up.
func (t *Term) deleteLines(n int) {
	if t.cursorY < t.scrollTop || t.cursorY > t.scrollBottom {
		return
	}
	// Lines removed inside the screen never reach history.
	top := t.cursorY
	if top == 0 {
		saved := t.grid.maxHistory
		t.grid.maxHistory = 0
		t.grid.scrollUp(top, t.scrollBottom, n)
		t.grid.maxHistory = saved
		return
	}
	t.grid.scrollUp(top, t.scrollBottom, n)
}

// insertChars inserts n blank characters at the cursor.
func (t *Term) insertChars(n int) {
	line := t.grid.row(t.cursorY)
	if line == nil || n <= 0 || t.cursorX >= t.cols {
		return
	}

	if avail := t.cols - t.cursorX; n > avail {
		n = avail
	}
	for x := t.cols - 1; x >= t.cursorX+n; x-- {
		line.cells[x] = line.cells[x-n]
	}
	for x := t.cursorX; x < t.cursorX+n; x++ {
		line.cells[x] = term.EmptyCell()
	}
}

// deleteChars deletes n characters at the cursor, shifting left.
func (t *Term) deleteChars(n int) {
	line := t.grid.row(t.cursorY)
	if line == nil || n <= 0 || t.cursorX >= t.cols {
		return
	}

	if avail := t.cols - t.cursorX; n > avail {
		n = avail
	}
	for x := t.cursorX; x < t.cols-n; x++ {
		line.cells[x] = line.cells[x+n]
	}
	for x := t.cols - n; x < t.cols; x++ {
		line.cells[x] = term.EmptyCell()
	}
}

// eraseChars blanks n characters at the cursor.
func (t *Term) eraseChars(n int) {
	line := t.grid.row(t.cursorY)
	if line == nil {
		return
	}
	for x := t.cursorX; x < t.cursorX+n && x < t.cols; x++ {
		line.cells[x] = term.EmptyCell()
	}
}

func (t *Term) saveCursor() {
	s := savedCursor{x: t.cursorX, y: t.cursorY, tmpl: t.tmpl, valid: true}
	if t.grid == t.alternate {
		t.savedAlt = s
	} else {
		t.savedPrimary = s
	}
}

func (t *Term) restoreCursor() {
	s := t.savedPrimary
	if t.grid == t.alternate {
		s = t.savedAlt
	}
	if !s.valid {
		t.cursorX, t.cursorY = 0, 0
		t.tmpl = term.EmptyCell()
		return
	}
	t.cursorX, t.cursorY = s.x, s.y
	t.tmpl = s.tmpl
}

// swapAltScreen enters or leaves the alternate screen.
func (t *Term) swapAltScreen(enter, saveRestore bool) {
	inAlt := t.grid == t.alternate
	if enter == inAlt {
		return
	}

	if enter {
		if saveRestore {
			t.saveCursor()
		}
		t.primary.displayOffset = 0
		t.grid = t.alternate
		t.alternate.clearScreen()
		t.mode = t.mode.With(term.ModeAltScreen)
	} else {
		t.grid = t.primary
		t.mode = t.mode.Without(term.ModeAltScreen)
		if saveRestore {
			t.restoreCursor()
		}
	}
	t.selection = nil
}

// setMouseMode enables one mouse tracking mode and disables the others.
func (t *Term) setMouseMode(flag term.Mode, on bool) {
	if on {
		t.mode = t.mode.Without(term.ModeMouseMode).With(flag)
	} else {
		t.mode = t.mode.Without(flag)
	}
	t.send(term.MouseCursorDirtyEvent{})
}

func (t *Term) setCursorBlinking(on bool) {
	t.SetMode(term.ModeBlinkingCursor, on)
	t.send(term.CursorBlinkingChangeEvent{Blinking: on})
}

func (t *Term) setTitle(title string) {
	t.title = title
	if title == "" {
		t.send(term.ResetTitleEvent{})
		return
	}
	t.send(term.TitleEvent{Title: title})
}

func (t *Term) bell() {
	t.send(term.BellEvent{})
}
