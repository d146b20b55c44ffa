package term

import "strings"

// Mode is the set of terminal modes toggled by the running program.
type Mode uint32

const (
	ModeShowCursor Mode = 1 << iota
	ModeAppCursor
	ModeAppKeypad
	ModeMouseReportClick
	ModeBracketedPaste
	ModeSGRMouse
	ModeMouseMotion
	ModeLineWrap
	ModeLineFeedNewLine
	ModeOrigin
	ModeInsert
	ModeFocusInOut
	ModeAltScreen
	ModeMouseDrag
	ModeUTF8Mouse
	ModeAlternateScroll
	ModeBlinkingCursor

	// ModeNone is the empty mode set.
	ModeNone Mode = 0

	// ModeMouseMode is set when any mouse reporting mode is active.
	ModeMouseMode = ModeMouseReportClick | ModeMouseMotion | ModeMouseDrag
)

// DefaultMode is the mode set of a freshly reset terminal.
const DefaultMode = ModeShowCursor | ModeLineWrap | ModeAlternateScroll

// Has reports whether any of the flags in f are set.
func (m Mode) Has(f Mode) bool {
	return m&f != 0
}

// Contains reports whether all of the flags in f are set.
func (m Mode) Contains(f Mode) bool {
	return m&f == f
}

// With returns m with f added.
func (m Mode) With(f Mode) Mode {
	return m | f
}

// Without returns m with f removed.
func (m Mode) Without(f Mode) Mode {
	return m &^ f
}

var modeNames = []struct {
	mode Mode
	name string
}{
	{ModeShowCursor, "show-cursor"},
	{ModeAppCursor, "app-cursor"},
	{ModeAppKeypad, "app-keypad"},
	{ModeMouseReportClick, "mouse-report-click"},
	{ModeBracketedPaste, "bracketed-paste"},
	{ModeSGRMouse, "sgr-mouse"},
	{ModeMouseMotion, "mouse-motion"},
	{ModeLineWrap, "line-wrap"},
	{ModeLineFeedNewLine, "linefeed-newline"},
	{ModeOrigin, "origin"},
	{ModeInsert, "insert"},
	{ModeFocusInOut, "focus-in-out"},
	{ModeAltScreen, "alt-screen"},
	{ModeMouseDrag, "mouse-drag"},
	{ModeUTF8Mouse, "utf8-mouse"},
	{ModeAlternateScroll, "alternate-scroll"},
	{ModeBlinkingCursor, "blinking-cursor"},
}

// String returns the set flags joined with "|".
func (m Mode) String() string {
	if m == ModeNone {
		return "none"
	}
	var parts []string
	for _, mn := range modeNames {
		if m.Has(mn.mode) {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, "|")
}
