package key

import (
	"fmt"

	"github.com/dshills/termsession/internal/term"
)

// csiFinal holds keys encoded as CSI 1 ; mod <final>, or SS3 <final>.
var csiFinal = map[Key]byte{
	KeyUp:    'A',
	KeyDown:  'B',
	KeyRight: 'C',
	KeyLeft:  'D',
	KeyHome:  'H',
	KeyEnd:   'F',
	KeyF1:    'P',
	KeyF2:    'Q',
	KeyF3:    'R',
	KeyF4:    'S',
}

// tildeCode holds keys encoded as CSI code [; mod] ~.
var tildeCode = map[Key]int{
	KeyInsert:   2,
	KeyDelete:   3,
	KeyPageUp:   5,
	KeyPageDown: 6,
	KeyF5:       15,
	KeyF6:       17,
	KeyF7:       18,
	KeyF8:       19,
	KeyF9:       20,
	KeyF10:      21,
	KeyF11:      23,
	KeyF12:      24,
}

// Encode returns the bytes a terminal sends for e, or false when the
// event should be delivered as plain text instead. With altIsMeta, Alt
// prefixes the encoding with ESC.
func Encode(e Event, mode term.Mode, altIsMeta bool) (string, bool) {
	mods := e.Modifiers

	if e.IsRune() {
		return encodeRune(e.Rune, mods, altIsMeta)
	}

	switch e.Key {
	case KeyEnter:
		return metaPrefix("\r", mods, altIsMeta), true
	case KeyEscape:
		return metaPrefix("\x1b", mods, altIsMeta), true
	case KeyBackspace:
		if mods.HasCtrl() {
			return "\x08", true
		}
		return metaPrefix("\x7f", mods, altIsMeta), true
	case KeyTab:
		if mods.HasShift() {
			return "\x1b[Z", true
		}
		return metaPrefix("\t", mods, altIsMeta), true
	}

	if final, ok := csiFinal[e.Key]; ok {
		if mods != ModNone {
			return fmt.Sprintf("\x1b[1;%d%c", mods.Param(), final), true
		}
		if e.Key.IsFunctionKey() || mode.Has(term.ModeAppCursor) {
			return "\x1bO" + string(final), true
		}
		return "\x1b[" + string(final), true
	}

	if code, ok := tildeCode[e.Key]; ok {
		if mods != ModNone {
			return fmt.Sprintf("\x1b[%d;%d~", code, mods.Param()), true
		}
		return fmt.Sprintf("\x1b[%d~", code), true
	}

	return "", false
}

func encodeRune(r rune, mods Modifier, altIsMeta bool) (string, bool) {
	if mods.HasCtrl() {
		c, ok := controlCode(r)
		if !ok {
			return "", false
		}
		return metaPrefix(string(c), mods, altIsMeta), true
	}
	if mods.HasAlt() && altIsMeta {
		return "\x1b" + string(r), true
	}
	return "", false
}

// controlCode maps Ctrl+r to its C0 control character.
func controlCode(r rune) (byte, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return byte(r-'a') + 1, true
	case r >= 'A' && r <= 'Z':
		return byte(r-'A') + 1, true
	}
	switch r {
	case ' ', '@', '2':
		return 0x00, true
	case '[', '3':
		return 0x1b, true
	case '\\', '4':
		return 0x1c, true
	case ']', '5':
		return 0x1d, true
	case '^', '6':
		return 0x1e, true
	case '_', '7', '-':
		return 0x1f, true
	case '?', '8':
		return 0x7f, true
	}
	return 0, false
}

func metaPrefix(s string, mods Modifier, altIsMeta bool) string {
	if altIsMeta && mods.HasAlt() {
		return "\x1b" + s
	}
	return s
}
