package session

import (
	"math"

	"github.com/dshills/termsession/internal/input/mouse"
	"github.com/dshills/termsession/internal/term"
)

// scrollMultiplier speeds up wheel scrolling through history.
const scrollMultiplier = 4

// mouseMode reports whether pointer input goes to the program. Holding
// shift overrides reporting so the user can still select.
func (s *Session) mouseMode(shift bool) bool {
	return s.lastContent.Mode.Has(term.ModeMouseMode) && !shift
}

// mouseChanged records the cell under the pointer and reports whether it
// differs from the last one.
func (s *Session) mouseChanged(point term.Point, side term.Side) bool {
	cell := mouseCell{point: point, side: side}
	if s.lastMouse != nil && *s.lastMouse == cell {
		return false
	}
	s.lastMouse = &cell
	return true
}

func (s *Session) gridPoint(pos mouse.Position) term.Point {
	return mouse.GridPoint(pos, s.size, s.lastContent.DisplayOffset)
}

// MouseMove reports pointer motion to the program when it asked for
// motion events. Motion within the same cell half is not reported.
func (s *Session) MouseMove(e mouse.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	point := s.gridPoint(e.Position)
	side := mouse.CellSide(e.Position, s.size)
	if s.mouseChanged(point, side) && s.mouseMode(e.Modifiers.HasShift()) {
		if report, ok := mouse.MoveReport(point, e.Button, e.Modifiers, s.lastContent.Mode); ok {
			s.pty.Write(report)
		}
	}
}

// MouseDrag extends the selection to the pointer. Dragging past the top
// or bottom edge scrolls the history, faster the further out it goes.
func (s *Session) MouseDrag(e mouse.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mouseMode(e.Modifiers.HasShift()) {
		return
	}
	s.pending = append(s.pending, updateSelectionEvent{position: e.Position})

	if s.lastContent.Mode.Has(term.ModeAltScreen) {
		return
	}
	delta, ok := s.dragLineDelta(e)
	if !ok {
		return
	}
	lines := int(delta / s.size.LineHeight)
	s.pending = append(s.pending,
		scrollEvent{scroll: term.ScrollLines(lines)},
		updateSelectionEvent{position: e.Position},
	)
}

// dragLineDelta returns the scroll speed in pixels for a drag outside
// the band two lines in from the region's edges.
func (s *Session) dragLineDelta(e mouse.Event) (float64, bool) {
	lh := s.size.LineHeight
	top := e.Region.Top() + 2*lh
	bottom := e.Region.Bottom() - 2*lh
	switch y := e.Position.Y; {
	case y < top:
		return math.Pow(top-y, 1.1), true
	case y > bottom:
		return -math.Pow(y-bottom, 1.1), true
	default:
		return 0, false
	}
}

// MouseDown reports a press to the program, or starts a simple
// selection for the left button.
func (s *Session) MouseDown(e mouse.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	point := s.gridPoint(e.Position)
	side := mouse.CellSide(e.Position, s.size)

	if s.mouseMode(e.Modifiers.HasShift()) {
		if report, ok := mouse.ButtonReport(point, e.Button, e.Modifiers, true, s.lastContent.Mode); ok {
			s.pty.Write(report)
		}
		return
	}
	if e.Button == mouse.ButtonLeft {
		s.setSelection(term.NewSelection(term.SelectionSimple, point, side), point)
	}
}

// LeftClick selects by cell, word or line for one, two or three clicks.
// Other counts leave the selection alone.
func (s *Session) LeftClick(e mouse.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mouseMode(e.Modifiers.HasShift()) {
		return
	}

	var ty term.SelectionType
	switch e.ClickCount {
	case 1:
		ty = term.SelectionSimple
	case 2:
		ty = term.SelectionSemantic
	case 3:
		ty = term.SelectionLines
	default:
		return
	}

	point := s.gridPoint(e.Position)
	side := mouse.CellSide(e.Position, s.size)
	s.setSelection(term.NewSelection(ty, point, side), point)
}

// MouseUp reports a release to the program, or copies the selection
// when the left button is released.
func (s *Session) MouseUp(e mouse.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mouseMode(e.Modifiers.HasShift()) {
		point := s.gridPoint(e.Position)
		if report, ok := mouse.ButtonReport(point, e.Button, e.Modifiers, false, s.lastContent.Mode); ok {
			s.pty.Write(report)
		}
	} else if e.Button == mouse.ButtonLeft {
		s.pending = append(s.pending, copyEvent{})
	}
	s.lastMouse = nil
}

// ScrollWheel scrolls the history, or forwards the wheel to the program
// as mouse reports or, on the alternate screen, as arrow keys.
func (s *Session) ScrollWheel(e mouse.ScrollEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shift := e.Modifiers.HasShift()
	mouseMode := s.mouseMode(shift)
	lines, ok := s.scrollLines(e, mouseMode)
	if !ok {
		return
	}

	mode := s.lastContent.Mode
	switch {
	case mouseMode:
		point := s.gridPoint(e.Position)
		for _, report := range mouse.ScrollReports(point, lines, e.Modifiers, mode) {
			s.pty.Write(report)
		}
	case mode.Contains(term.ModeAltScreen|term.ModeAlternateScroll) && !shift:
		if keys := mouse.AltScroll(lines); len(keys) > 0 {
			s.pty.Write(keys)
		}
	case lines != 0:
		s.pending = append(s.pending, scrollEvent{scroll: term.ScrollLines(lines)})
	}
}

// scrollLines converts a pixel scroll into whole lines, carrying the
// remainder of gesture scrolls between events. The accumulator wraps at
// a whole number of lines so the emitted total only depends on the
// total pixel distance.
func (s *Session) scrollLines(e mouse.ScrollEvent, mouseMode bool) (int, bool) {
	multiplier := float64(scrollMultiplier)
	if mouseMode {
		multiplier = 1
	}
	lh := s.size.LineHeight
	if lh <= 0 {
		return 0, false
	}

	switch e.Phase {
	case mouse.PhaseStarted:
		s.scrollPx = 0
		return 0, false

	case mouse.PhaseMoved:
		old := math.Floor(s.scrollPx / lh)
		s.scrollPx += e.Delta * multiplier
		next := math.Floor(s.scrollPx / lh)

		if wrap := math.Floor(s.size.Height/lh) * lh; wrap > 0 {
			s.scrollPx -= math.Floor(s.scrollPx/wrap) * wrap
		}
		return int(next - old), true

	case mouse.PhaseNone:
		return int(e.Delta * multiplier / lh), true

	default:
		return 0, false
	}
}
