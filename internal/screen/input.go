package screen

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termsession/internal/input/key"
	"github.com/dshills/termsession/internal/input/mouse"
)

var specialKeys = map[tcell.Key]key.Key{
	tcell.KeyEscape:     key.KeyEscape,
	tcell.KeyEnter:      key.KeyEnter,
	tcell.KeyTab:        key.KeyTab,
	tcell.KeyBackspace:  key.KeyBackspace,
	tcell.KeyBackspace2: key.KeyBackspace,
	tcell.KeyDelete:     key.KeyDelete,
	tcell.KeyInsert:     key.KeyInsert,
	tcell.KeyHome:       key.KeyHome,
	tcell.KeyEnd:        key.KeyEnd,
	tcell.KeyPgUp:       key.KeyPageUp,
	tcell.KeyPgDn:       key.KeyPageDown,
	tcell.KeyUp:         key.KeyUp,
	tcell.KeyDown:       key.KeyDown,
	tcell.KeyLeft:       key.KeyLeft,
	tcell.KeyRight:      key.KeyRight,
	tcell.KeyF1:         key.KeyF1,
	tcell.KeyF2:         key.KeyF2,
	tcell.KeyF3:         key.KeyF3,
	tcell.KeyF4:         key.KeyF4,
	tcell.KeyF5:         key.KeyF5,
	tcell.KeyF6:         key.KeyF6,
	tcell.KeyF7:         key.KeyF7,
	tcell.KeyF8:         key.KeyF8,
	tcell.KeyF9:         key.KeyF9,
	tcell.KeyF10:        key.KeyF10,
	tcell.KeyF11:        key.KeyF11,
	tcell.KeyF12:        key.KeyF12,
}

// controlRunes maps the control keys outside Ctrl+A..Ctrl+Z to the
// character pressed with Ctrl.
var controlRunes = map[tcell.Key]rune{
	tcell.KeyNUL:            ' ',
	tcell.KeyFS:             '\\',
	tcell.KeyGS:             ']',
	tcell.KeyRS:             '^',
	tcell.KeyUS:             '_',
	tcell.KeyCtrlSpace:      ' ',
	tcell.KeyCtrlLeftSq:     '[',
	tcell.KeyCtrlBackslash:  '\\',
	tcell.KeyCtrlRightSq:    ']',
	tcell.KeyCtrlCarat:      '^',
	tcell.KeyCtrlUnderscore: '_',
}

// KeyEvent converts a tcell key press. It returns false for keys that
// have no terminal encoding.
func KeyEvent(ev *tcell.EventKey) (key.Event, bool) {
	mods := modifiers(ev.Modifiers())
	k := ev.Key()

	switch {
	case k == tcell.KeyRune:
		return key.NewRuneEvent(ev.Rune(), mods), true
	case k == tcell.KeyBacktab:
		return key.NewSpecialEvent(key.KeyTab, mods|key.ModShift), true
	}
	if special, ok := specialKeys[k]; ok {
		return key.NewSpecialEvent(special, mods), true
	}
	switch {
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return key.NewRuneEvent(rune('a'+k-tcell.KeyCtrlA), mods|key.ModCtrl), true
	case k >= tcell.KeySOH && k <= tcell.KeySUB:
		// Raw C0 codes left over after Backspace, Tab and Enter.
		return key.NewRuneEvent(rune('a'+k-tcell.KeySOH), mods|key.ModCtrl), true
	}
	if r, ok := controlRunes[k]; ok {
		return key.NewRuneEvent(r, mods|key.ModCtrl), true
	}
	return key.Event{}, false
}

func modifiers(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result |= key.ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= key.ModCtrl
	}
	if m&tcell.ModAlt != 0 {
		result |= key.ModAlt
	}
	if m&tcell.ModMeta != 0 {
		result |= key.ModMeta
	}
	return result
}

var mouseButtons = []struct {
	mask   tcell.ButtonMask
	button mouse.Button
}{
	{tcell.ButtonPrimary, mouse.ButtonLeft},
	{tcell.ButtonMiddle, mouse.ButtonMiddle},
	{tcell.ButtonSecondary, mouse.ButtonRight},
}

// Mouse turns tcell's button state reports into press, release and
// move events.
type Mouse struct {
	buttons tcell.ButtonMask
}

// Events converts one tcell mouse report. Wheel notches become wheel
// button presses. A report that changes no button state is a move.
func (m *Mouse) Events(ev *tcell.EventMouse) []mouse.Event {
	x, y := ev.Position()
	base := mouse.Event{
		// The centre of the cell, so it resolves to its left half.
		Position:  mouse.Position{X: float64(x) + 0.5, Y: float64(y) + 0.5},
		Modifiers: modifiers(ev.Modifiers()),
		Timestamp: ev.When(),
	}

	state := ev.Buttons()
	var events []mouse.Event
	if state&tcell.WheelUp != 0 {
		events = append(events, withButton(base, mouse.ButtonWheelUp, mouse.ActionPress))
	}
	if state&tcell.WheelDown != 0 {
		events = append(events, withButton(base, mouse.ButtonWheelDown, mouse.ActionPress))
	}

	for _, b := range mouseButtons {
		was, is := m.buttons&b.mask != 0, state&b.mask != 0
		switch {
		case is && !was:
			events = append(events, withButton(base, b.button, mouse.ActionPress))
		case was && !is:
			events = append(events, withButton(base, b.button, mouse.ActionRelease))
		}
	}
	m.buttons = state & (tcell.ButtonPrimary | tcell.ButtonMiddle | tcell.ButtonSecondary)

	if len(events) == 0 {
		events = append(events, withButton(base, mouse.ButtonNone, mouse.ActionMove))
	}
	return events
}

func withButton(e mouse.Event, b mouse.Button, a mouse.Action) mouse.Event {
	e.Button = b
	e.Action = a
	return e
}
