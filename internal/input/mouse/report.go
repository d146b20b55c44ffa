package mouse

import (
	"fmt"
	"strings"

	"github.com/dshills/termsession/internal/input/key"
	"github.com/dshills/termsession/internal/term"
)

// reportButton is the button code of an xterm mouse report.
type reportButton uint8

const (
	reportLeft       reportButton = 0
	reportMiddle     reportButton = 1
	reportRight      reportButton = 2
	reportRelease    reportButton = 3
	reportLeftMove   reportButton = 32
	reportMiddleMove reportButton = 33
	reportRightMove  reportButton = 34
	reportNoneMove   reportButton = 35
	reportWheelUp    reportButton = 64
	reportWheelDown  reportButton = 65
	reportOther      reportButton = 99
)

func pressCode(b Button) reportButton {
	switch b {
	case ButtonLeft:
		return reportLeft
	case ButtonMiddle:
		return reportMiddle
	case ButtonRight:
		return reportRight
	case ButtonWheelUp:
		return reportWheelUp
	case ButtonWheelDown:
		return reportWheelDown
	default:
		return reportOther
	}
}

func moveCode(b Button) reportButton {
	switch b {
	case ButtonLeft:
		return reportLeftMove
	case ButtonMiddle:
		return reportMiddleMove
	case ButtonRight:
		return reportRightMove
	default:
		return reportNoneMove
	}
}

func modifierBits(m key.Modifier) int {
	bits := 0
	if m.HasShift() {
		bits += 4
	}
	if m.HasAlt() {
		bits += 8
	}
	if m.HasCtrl() {
		bits += 16
	}
	return bits
}

// Maximum encodable cell coordinate for the X10 format and its UTF-8 extension.
const (
	maxNormalPoint = 223
	maxUTF8Point   = 2015
)

// encodeReport formats a mouse report for point, or returns false when
// the point cannot be expressed in the active format.
func encodeReport(point term.Point, code reportButton, pressed bool, mods key.Modifier, mode term.Mode) ([]byte, bool) {
	if point.Line < 0 || code == reportOther {
		return nil, false
	}

	if mode.Has(term.ModeSGRMouse) {
		final := 'm'
		if pressed {
			final = 'M'
		}
		return fmt.Appendf(nil, "\x1b[<%d;%d;%d%c",
			int(code)+modifierBits(mods), point.Column+1, point.Line+1, final), true
	}

	utf8 := mode.Has(term.ModeUTF8Mouse)
	maxPoint := maxNormalPoint
	if utf8 {
		maxPoint = maxUTF8Point
	}
	if point.Line >= maxPoint || point.Column >= maxPoint {
		return nil, false
	}

	button := int(code)
	if !pressed {
		button = int(reportRelease)
	}
	button += modifierBits(mods)

	msg := []byte{0x1b, '[', 'M', byte(32 + button)}
	msg = appendCoordinate(msg, point.Column, utf8)
	msg = appendCoordinate(msg, point.Line, utf8)
	return msg, true
}

func appendCoordinate(msg []byte, pos int, utf8 bool) []byte {
	if utf8 && pos >= 95 {
		p := 32 + 1 + pos
		return append(msg, byte(0xC0+p/64), byte(0x80+(p&63)))
	}
	return append(msg, byte(32+1+pos))
}

// ButtonReport encodes a press or release of b at point. It returns
// false unless a mouse reporting mode is active.
func ButtonReport(point term.Point, b Button, mods key.Modifier, pressed bool, mode term.Mode) ([]byte, bool) {
	if !mode.Has(term.ModeMouseMode) {
		return nil, false
	}
	return encodeReport(point, pressCode(b), pressed, mods, mode)
}

// MoveReport encodes pointer motion while b is held. Motion without a
// held button is only reported in any-event tracking mode.
func MoveReport(point term.Point, b Button, mods key.Modifier, mode term.Mode) ([]byte, bool) {
	if !mode.Has(term.ModeMouseMotion | term.ModeMouseDrag) {
		return nil, false
	}
	code := moveCode(b)
	if code == reportNoneMove && mode.Has(term.ModeMouseDrag) && !mode.Has(term.ModeMouseMotion) {
		return nil, false
	}
	return encodeReport(point, code, true, mods, mode)
}

// ScrollReports encodes one wheel report per line. Positive lines scroll
// up. It returns nil when lines is zero or no mouse mode is active.
func ScrollReports(point term.Point, lines int, mods key.Modifier, mode term.Mode) [][]byte {
	if lines == 0 || !mode.Has(term.ModeMouseMode) {
		return nil
	}
	b := ButtonWheelUp
	n := lines
	if lines < 0 {
		b = ButtonWheelDown
		n = -lines
	}
	msg, ok := encodeReport(point, pressCode(b), true, mods, mode)
	if !ok {
		return nil
	}
	reports := make([][]byte, n)
	for i := range reports {
		reports[i] = msg
	}
	return reports
}

// AltScroll returns the cursor key presses that stand in for wheel
// scrolling on the alternate screen.
func AltScroll(lines int) []byte {
	switch {
	case lines > 0:
		return []byte(strings.Repeat("\x1bOA", lines))
	case lines < 0:
		return []byte(strings.Repeat("\x1bOB", -lines))
	default:
		return nil
	}
}
