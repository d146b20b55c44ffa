package emulator

import (
	"encoding/base64"
	"fmt"
	"image/color"

	"github.com/danielgatis/go-ansicode"

	"github.com/dshills/termsession/internal/term"
)

const (
	tabWidth      = 8
	maxTitleStack = 4096
)

// handler applies decoded control functions to a Term. It lives on its
// own type because ansicode.Handler's method set collides with Term's
// exported API.
type handler struct {
	t *Term
}

var _ ansicode.Handler = (*handler)(nil)

func (h *handler) Input(r rune) {
	if h.t.lineDrawing[h.t.charset] {
		r = lineDrawingRune(r)
	}
	h.t.writeRune(r)
}

func (h *handler) Backspace() {
	t := h.t
	if t.cursorX >= t.cols {
		t.cursorX = t.cols - 1
	}
	if t.cursorX > 0 {
		t.cursorX--
	}
}

func (h *handler) Bell() { h.t.bell() }

func (h *handler) CarriageReturn() { h.t.carriageReturn() }

func (h *handler) LineFeed() {
	h.t.lineFeed()
	if h.t.mode.Has(term.ModeLineFeedNewLine) {
		h.t.carriageReturn()
	}
}

func (h *handler) ReverseIndex() { h.t.reverseLineFeed() }

func (h *handler) Substitute() { h.t.writeRune('?') }

func (h *handler) ClearLine(mode ansicode.LineClearMode) {
	switch mode {
	case ansicode.LineClearModeRight:
		h.t.clearLineRight()
	case ansicode.LineClearModeLeft:
		h.t.clearLineLeft()
	case ansicode.LineClearModeAll:
		h.t.clearLine()
	}
}

func (h *handler) ClearScreen(mode ansicode.ClearMode) {
	switch mode {
	case ansicode.ClearModeBelow:
		h.t.clearScreenBelow()
	case ansicode.ClearModeAbove:
		h.t.clearScreenAbove()
	case ansicode.ClearModeAll:
		h.t.clearScreen()
	case ansicode.ClearModeSaved:
		h.t.ClearScrollback()
	}
}

func (h *handler) Decaln() {
	t := h.t
	t.setScrollRegion(0, t.lines-1)
	fill := term.EmptyCell()
	fill.Rune = 'E'
	for y := 0; y < t.lines; y++ {
		line := t.grid.row(y)
		if line == nil {
			continue
		}
		line.wrapped = false
		for x := range line.cells {
			line.cells[x] = fill
		}
	}
	t.moveCursor(0, 0)
}

func (h *handler) DeleteChars(n int)      { h.t.deleteChars(n) }
func (h *handler) DeleteLines(n int)      { h.t.deleteLines(n) }
func (h *handler) EraseChars(n int)       { h.t.eraseChars(n) }
func (h *handler) InsertBlank(n int)      { h.t.insertChars(n) }
func (h *handler) InsertBlankLines(n int) { h.t.insertLines(n) }
func (h *handler) ScrollUp(n int)         { h.t.scrollUp(n) }
func (h *handler) ScrollDown(n int)       { h.t.scrollDown(n) }

// Goto, GotoLine and GotoCol take 0-based coordinates relative to the
// origin.
func (h *handler) Goto(row, col int) { h.t.moveCursor(col, row) }

func (h *handler) GotoLine(row int) {
	h.t.moveCursor(h.t.CursorPoint().Column, row)
}

func (h *handler) GotoCol(col int) {
	h.t.moveCursor(col, h.t.cursorLine())
}

func (h *handler) MoveUp(n int)       { h.t.moveCursorRelative(0, -n) }
func (h *handler) MoveDown(n int)     { h.t.moveCursorRelative(0, n) }
func (h *handler) MoveForward(n int)  { h.t.moveCursorRelative(n, 0) }
func (h *handler) MoveBackward(n int) { h.t.moveCursorRelative(-n, 0) }

func (h *handler) MoveUpCr(n int) {
	h.t.moveCursorRelative(0, -n)
	h.t.carriageReturn()
}

func (h *handler) MoveDownCr(n int) {
	h.t.moveCursorRelative(0, n)
	h.t.carriageReturn()
}

func (h *handler) Tab(n int) {
	t := h.t
	if t.cursorX >= t.cols {
		return
	}
	for ; n > 0 && t.cursorX < t.cols-1; n-- {
		t.cursorX++
		for t.cursorX < t.cols-1 && !t.tabs[t.cursorX] {
			t.cursorX++
		}
	}
}

func (h *handler) MoveForwardTabs(n int) { h.Tab(n) }

func (h *handler) MoveBackwardTabs(n int) {
	t := h.t
	if t.cursorX >= t.cols {
		t.cursorX = t.cols - 1
	}
	for ; n > 0 && t.cursorX > 0; n-- {
		t.cursorX--
		for t.cursorX > 0 && !t.tabs[t.cursorX] {
			t.cursorX--
		}
	}
}

func (h *handler) HorizontalTabSet() {
	if x := h.t.CursorPoint().Column; x < len(h.t.tabs) {
		h.t.tabs[x] = true
	}
}

func (h *handler) ClearTabs(mode ansicode.TabulationClearMode) {
	switch mode {
	case ansicode.TabulationClearModeCurrent:
		if x := h.t.CursorPoint().Column; x < len(h.t.tabs) {
			h.t.tabs[x] = false
		}
	case ansicode.TabulationClearModeAll:
		clear(h.t.tabs)
	}
}

func (h *handler) SaveCursorPosition()    { h.t.saveCursor() }
func (h *handler) RestoreCursorPosition() { h.t.restoreCursor() }
func (h *handler) ResetState()            { h.t.Reset() }

// SetScrollingRegion takes 1-based bounds; a bottom of zero means the
// last line.
func (h *handler) SetScrollingRegion(top, bottom int) {
	if bottom <= 0 || bottom > h.t.lines {
		bottom = h.t.lines
	}
	h.t.setScrollRegion(top-1, bottom-1)
}

func (h *handler) SetKeypadApplicationMode()   { h.t.SetMode(term.ModeAppKeypad, true) }
func (h *handler) UnsetKeypadApplicationMode() { h.t.SetMode(term.ModeAppKeypad, false) }

func (h *handler) SetMode(mode ansicode.TerminalMode)   { h.setMode(mode, true) }
func (h *handler) UnsetMode(mode ansicode.TerminalMode) { h.setMode(mode, false) }

func (h *handler) setMode(mode ansicode.TerminalMode, on bool) {
	t := h.t
	switch mode {
	case ansicode.TerminalModeCursorKeys:
		t.SetMode(term.ModeAppCursor, on)
	case ansicode.TerminalModeInsert:
		t.SetMode(term.ModeInsert, on)
	case ansicode.TerminalModeOrigin:
		t.SetMode(term.ModeOrigin, on)
		t.moveCursor(0, 0)
	case ansicode.TerminalModeLineWrap:
		t.SetMode(term.ModeLineWrap, on)
	case ansicode.TerminalModeBlinkingCursor:
		t.setCursorBlinking(on)
	case ansicode.TerminalModeLineFeedNewLine:
		t.SetMode(term.ModeLineFeedNewLine, on)
	case ansicode.TerminalModeShowCursor:
		t.SetMode(term.ModeShowCursor, on)
	case ansicode.TerminalModeReportMouseClicks:
		t.setMouseMode(term.ModeMouseReportClick, on)
	case ansicode.TerminalModeReportCellMouseMotion:
		t.setMouseMode(term.ModeMouseDrag, on)
	case ansicode.TerminalModeReportAllMouseMotion:
		t.setMouseMode(term.ModeMouseMotion, on)
	case ansicode.TerminalModeReportFocusInOut:
		t.SetMode(term.ModeFocusInOut, on)
	case ansicode.TerminalModeUTF8Mouse:
		t.SetMode(term.ModeUTF8Mouse, on)
	case ansicode.TerminalModeSGRMouse:
		t.SetMode(term.ModeSGRMouse, on)
	case ansicode.TerminalModeAlternateScroll:
		t.SetMode(term.ModeAlternateScroll, on)
	case ansicode.TerminalModeSwapScreenAndSetRestoreCursor:
		t.swapAltScreen(on, true)
	case ansicode.TerminalModeBracketedPaste:
		t.SetMode(term.ModeBracketedPaste, on)
	}
}

// SetCursorStyle maps DECSCUSR styles, which come in blinking and steady
// pairs of block, underline and bar.
func (h *handler) SetCursorStyle(style ansicode.CursorStyle) {
	n := int(style)
	switch n / 2 {
	case 0:
		h.t.shape = term.CursorBlock
	case 1:
		h.t.shape = term.CursorUnderline
	case 2:
		h.t.shape = term.CursorBeam
	default:
		return
	}
	h.t.setCursorBlinking(n%2 == 0)
}

func (h *handler) SetTerminalCharAttribute(attr ansicode.TerminalCharAttribute) {
	tmpl := &h.t.tmpl
	switch attr.Attr {
	case ansicode.CharAttributeReset:
		*tmpl = term.EmptyCell()
	case ansicode.CharAttributeBold:
		tmpl.Flags |= term.FlagBold
	case ansicode.CharAttributeDim:
		tmpl.Flags |= term.FlagDim
	case ansicode.CharAttributeItalic:
		tmpl.Flags |= term.FlagItalic
	case ansicode.CharAttributeUnderline,
		ansicode.CharAttributeDoubleUnderline,
		ansicode.CharAttributeCurlyUnderline,
		ansicode.CharAttributeDottedUnderline,
		ansicode.CharAttributeDashedUnderline:
		tmpl.Flags |= term.FlagUnderline
	case ansicode.CharAttributeBlinkSlow, ansicode.CharAttributeBlinkFast:
		tmpl.Flags |= term.FlagBlink
	case ansicode.CharAttributeReverse:
		tmpl.Flags |= term.FlagInverse
	case ansicode.CharAttributeHidden:
		tmpl.Flags |= term.FlagHidden
	case ansicode.CharAttributeStrike:
		tmpl.Flags |= term.FlagStrike
	case ansicode.CharAttributeCancelBold:
		tmpl.Flags &^= term.FlagBold
	case ansicode.CharAttributeCancelBoldDim:
		tmpl.Flags &^= term.FlagBold | term.FlagDim
	case ansicode.CharAttributeCancelItalic:
		tmpl.Flags &^= term.FlagItalic
	case ansicode.CharAttributeCancelUnderline:
		tmpl.Flags &^= term.FlagUnderline
	case ansicode.CharAttributeCancelBlink:
		tmpl.Flags &^= term.FlagBlink
	case ansicode.CharAttributeCancelReverse:
		tmpl.Flags &^= term.FlagInverse
	case ansicode.CharAttributeCancelHidden:
		tmpl.Flags &^= term.FlagHidden
	case ansicode.CharAttributeCancelStrike:
		tmpl.Flags &^= term.FlagStrike
	case ansicode.CharAttributeForeground:
		tmpl.Fg = cellColor(attr)
	case ansicode.CharAttributeBackground:
		tmpl.Bg = cellColor(attr)
	}
}

// cellColor converts an SGR color. Named colors past the 16 ANSI entries
// (foreground, background and the like) select the default.
func cellColor(attr ansicode.TerminalCharAttribute) term.Color {
	switch {
	case attr.RGBColor != nil:
		return term.RGBColor(attr.RGBColor.R, attr.RGBColor.G, attr.RGBColor.B)
	case attr.IndexedColor != nil:
		return term.IndexedColor(int(attr.IndexedColor.Index))
	case attr.NamedColor != nil && int(*attr.NamedColor) < 16:
		return term.IndexedColor(int(*attr.NamedColor))
	}
	return term.DefaultColor
}

func (h *handler) DeviceStatus(n int) {
	switch n {
	case 5:
		h.t.send(term.PtyWriteEvent{Text: "\x1b[0n"})
	case 6:
		pos := h.t.CursorPoint()
		h.t.send(term.PtyWriteEvent{Text: fmt.Sprintf("\x1b[%d;%dR", h.t.cursorLine()+1, pos.Column+1)})
	}
}

// IdentifyTerminal answers primary device attributes as a VT102.
func (h *handler) IdentifyTerminal(b byte) {
	if b == 0 {
		h.t.send(term.PtyWriteEvent{Text: "\x1b[?6c"})
	}
}

func (h *handler) TextAreaSizeChars() {
	h.t.send(term.PtyWriteEvent{Text: fmt.Sprintf("\x1b[8;%d;%dt", h.t.lines, h.t.cols)})
}

// TextAreaSizePixels defers to the listener, which knows the window size
// in pixels.
func (h *handler) TextAreaSizePixels() {
	h.t.send(term.TextAreaSizeRequestEvent{Format: func(size term.WindowSize) string {
		return fmt.Sprintf("\x1b[4;%d;%dt", int(size.Height), int(size.Width))
	}})
}

func (h *handler) CellSizePixels() {
	size := h.t.size
	h.t.send(term.PtyWriteEvent{Text: fmt.Sprintf("\x1b[6;%d;%dt", int(size.LineHeight), int(size.CellWidth))})
}

func (h *handler) SetTitle(title string) { h.t.setTitle(title) }

func (h *handler) PushTitle() {
	t := h.t
	if len(t.titles) >= maxTitleStack {
		t.titles = t.titles[1:]
	}
	t.titles = append(t.titles, t.title)
}

func (h *handler) PopTitle() {
	t := h.t
	if len(t.titles) == 0 {
		return
	}
	title := t.titles[len(t.titles)-1]
	t.titles = t.titles[:len(t.titles)-1]
	t.setTitle(title)
}

// SetColor handles OSC 4 and OSC 10/11/12 assignments.
func (h *handler) SetColor(index int, c color.Color) {
	if index < 0 || index >= term.PaletteSize || c == nil {
		return
	}
	r, g, b, _ := c.RGBA()
	h.t.colors[index] = &term.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

func (h *handler) ResetColor(index int) {
	if index >= 0 && index < term.PaletteSize {
		h.t.colors[index] = nil
	}
}

// SetDynamicColor answers a color query. The listener resolves the
// current color, since defaults come from the front end's palette.
func (h *handler) SetDynamicColor(prefix string, index int, terminator string) {
	if index < 0 || index >= term.PaletteSize {
		return
	}
	h.t.send(term.ColorRequestEvent{Index: index, Format: colorReply(prefix, terminator)})
}

func colorReply(prefix, terminator string) func(term.RGB) string {
	return func(c term.RGB) string {
		return fmt.Sprintf("\x1b]%s;rgb:%02x%02x/%02x%02x/%02x%02x%s",
			prefix, c.R, c.R, c.G, c.G, c.B, c.B, terminator)
	}
}

func (h *handler) ClipboardStore(_ byte, data []byte) {
	h.t.send(term.ClipboardStoreEvent{Text: string(data)})
}

func (h *handler) ClipboardLoad(clipboard byte, terminator string) {
	selector := string(clipboard)
	h.t.send(term.ClipboardLoadEvent{Format: func(text string) string {
		return "\x1b]52;" + selector + ";" + base64.StdEncoding.EncodeToString([]byte(text)) + terminator
	}})
}

func (h *handler) ConfigureCharset(index ansicode.CharsetIndex, charset ansicode.Charset) {
	if i := int(index); i >= 0 && i < len(h.t.lineDrawing) {
		h.t.lineDrawing[i] = int(charset) != 0
	}
}

func (h *handler) SetActiveCharset(n int) {
	if n >= 0 && n < len(h.t.lineDrawing) {
		h.t.charset = n
	}
}

// lineDrawingRune maps the DEC special graphics set onto box drawing
// characters.
func lineDrawingRune(r rune) rune {
	switch r {
	case '`':
		return '◆'
	case 'a':
		return '▒'
	case 'f':
		return '°'
	case 'g':
		return '±'
	case 'j':
		return '┘'
	case 'k':
		return '┐'
	case 'l':
		return '┌'
	case 'm':
		return '└'
	case 'n':
		return '┼'
	case 'q':
		return '─'
	case 't':
		return '├'
	case 'u':
		return '┤'
	case 'v':
		return '┴'
	case 'w':
		return '┬'
	case 'x':
		return '│'
	case 'y':
		return '≤'
	case 'z':
		return '≥'
	case '~':
		return '·'
	}
	return r
}

// Kitty keyboard protocol and modifyOtherKeys are not supported; report
// them as off so programs fall back to legacy encoding.
func (h *handler) ReportKeyboardMode() {
	h.t.send(term.PtyWriteEvent{Text: "\x1b[?0u"})
}

func (h *handler) ReportModifyOtherKeys() {
	h.t.send(term.PtyWriteEvent{Text: "\x1b[>4;0m"})
}

func (h *handler) PushKeyboardMode(ansicode.KeyboardMode)                               {}
func (h *handler) PopKeyboardMode(int)                                                  {}
func (h *handler) SetKeyboardMode(ansicode.KeyboardMode, ansicode.KeyboardModeBehavior) {}
func (h *handler) SetModifyOtherKeys(ansicode.ModifyOtherKeys)                          {}
func (h *handler) SetHyperlink(*ansicode.Hyperlink)                                     {}
func (h *handler) SetWorkingDirectory(string)                                           {}
func (h *handler) ApplicationCommandReceived([]byte)                                    {}
func (h *handler) PrivacyMessageReceived([]byte)                                        {}
func (h *handler) StartOfStringReceived([]byte)                                         {}
func (h *handler) SixelReceived([][]uint16, []byte)                                     {}

func defaultTabs(cols int) []bool {
	tabs := make([]bool, cols)
	for x := tabWidth; x < cols; x += tabWidth {
		tabs[x] = true
	}
	return tabs
}

// resizeTabs keeps existing stops and extends the default spacing into
// new columns.
func resizeTabs(tabs []bool, cols int) []bool {
	if cols <= len(tabs) {
		return tabs[:cols]
	}
	out := defaultTabs(cols)
	copy(out, tabs)
	return out
}
