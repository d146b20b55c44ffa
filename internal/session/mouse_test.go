package session

import (
	"slices"
	"testing"

	"github.com/dshills/termsession/internal/input/key"
	"github.com/dshills/termsession/internal/input/mouse"
	"github.com/dshills/termsession/internal/term"
)

func setMode(s *Session, mode term.Mode) {
	s.mu.Lock()
	s.lastContent.Mode = mode
	s.mu.Unlock()
}

func pendingEvents(s *Session) []internalEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]internalEvent(nil), s.pending...)
}

// scrolledLines sums the delta scrolls waiting for the next Sync.
func scrolledLines(s *Session) int {
	total := 0
	for _, ev := range pendingEvents(s) {
		if se, ok := ev.(scrollEvent); ok && se.scroll.Kind == term.ScrollDelta {
			total += se.scroll.Lines
		}
	}
	return total
}

func TestScrollAccumulator(t *testing.T) {
	tests := []struct {
		name   string
		deltas []float64
		want   int
	}{
		{"single", []float64{17.5}, 7},
		{"halves", []float64{2.5, 2.5, 2.5, 2.5, 2.5, 2.5, 2.5}, 7},
		{"quarters", []float64{
			1.25, 1.25, 1.25, 1.25, 1.25, 1.25, 1.25,
			1.25, 1.25, 1.25, 1.25, 1.25, 1.25, 1.25,
		}, 7},
		{"mixed direction", []float64{5, -2.5, 15}, 7},
		{"down", []float64{-17.5}, -7},
		{"down in pieces", []float64{-2.5, -2.5, -2.5, -2.5, -2.5, -2.5, -2.5}, -7},
		{"past the wrap", []float64{30, 30}, 24},
		{"back and forth", []float64{1, -1, 1, -1, 1, -1}, 0},
		{"sub line", []float64{1}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestSession(t, &recordingBackend{})
			s.ScrollWheel(mouse.ScrollEvent{Phase: mouse.PhaseStarted})
			for _, d := range tt.deltas {
				s.ScrollWheel(mouse.ScrollEvent{Delta: d, Phase: mouse.PhaseMoved})
			}
			s.ScrollWheel(mouse.ScrollEvent{Phase: mouse.PhaseEnded})

			if got := scrolledLines(s); got != tt.want {
				t.Errorf("scrolled %d lines, want %d", got, tt.want)
			}
		})
	}
}

func TestScrollStartResetsRemainder(t *testing.T) {
	s, _, _ := newTestSession(t, &recordingBackend{})

	s.ScrollWheel(mouse.ScrollEvent{Phase: mouse.PhaseStarted})
	s.ScrollWheel(mouse.ScrollEvent{Delta: 2, Phase: mouse.PhaseMoved})
	s.ScrollWheel(mouse.ScrollEvent{Phase: mouse.PhaseStarted})
	s.ScrollWheel(mouse.ScrollEvent{Delta: 2, Phase: mouse.PhaseMoved})

	if got := scrolledLines(s); got != 0 {
		t.Errorf("scrolled %d lines, want 0", got)
	}
}

func TestScrollWithoutPhase(t *testing.T) {
	s, _, _ := newTestSession(t, &recordingBackend{})

	s.ScrollWheel(mouse.ScrollEvent{Delta: 10})
	s.ScrollWheel(mouse.ScrollEvent{Delta: 1})
	s.ScrollWheel(mouse.ScrollEvent{Delta: -5})

	var lines []int
	for _, ev := range pendingEvents(s) {
		lines = append(lines, ev.(scrollEvent).scroll.Lines)
	}
	if want := []int{4, -2}; !slices.Equal(lines, want) {
		t.Errorf("scrolls = %v, want %v", lines, want)
	}
}

func TestScrollAlternateScreen(t *testing.T) {
	tests := []struct {
		name      string
		mode      term.Mode
		mods      key.Modifier
		delta     float64
		wantWrite string
		wantLines int
	}{
		{"arrow up", term.ModeAltScreen | term.ModeAlternateScroll, key.ModNone, 5, "\x1bOA\x1bOA", 0},
		{"arrow down", term.ModeAltScreen | term.ModeAlternateScroll, key.ModNone, -2.5, "\x1bOB", 0},
		{"shift scrolls history", term.ModeAltScreen | term.ModeAlternateScroll, key.ModShift, 5, "", 2},
		{"alternate scroll off", term.ModeAltScreen, key.ModNone, 5, "", 2},
		{"too small", term.ModeAltScreen | term.ModeAlternateScroll, key.ModNone, 1, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, pty, _ := newTestSession(t, &recordingBackend{})
			setMode(s, tt.mode)

			s.ScrollWheel(mouse.ScrollEvent{Delta: tt.delta, Modifiers: tt.mods})

			if got := pty.Output(); got != tt.wantWrite {
				t.Errorf("pty output = %q, want %q", got, tt.wantWrite)
			}
			if got := scrolledLines(s); got != tt.wantLines {
				t.Errorf("scrolled %d lines, want %d", got, tt.wantLines)
			}
		})
	}
}

func TestScrollMouseMode(t *testing.T) {
	s, pty, _ := newTestSession(t, &recordingBackend{})
	setMode(s, term.ModeMouseReportClick|term.ModeSGRMouse)

	s.ScrollWheel(mouse.ScrollEvent{Position: mouse.Position{X: 12, Y: 12}, Delta: 20})
	s.ScrollWheel(mouse.ScrollEvent{Position: mouse.Position{X: 12, Y: 12}, Delta: -10})

	want := []string{"\x1b[<64;2;2M", "\x1b[<64;2;2M", "\x1b[<65;2;2M"}
	if got := pty.Writes(); !slices.Equal(got, want) {
		t.Errorf("pty writes = %q, want %q", got, want)
	}
	if got := scrolledLines(s); got != 0 {
		t.Errorf("scrolled %d lines in mouse mode, want 0", got)
	}
}

func TestMouseMoveReportsCellChanges(t *testing.T) {
	s, pty, _ := newTestSession(t, &recordingBackend{})
	setMode(s, term.ModeMouseMotion|term.ModeSGRMouse)

	for _, pos := range []mouse.Position{
		{X: 12, Y: 12},
		{X: 13, Y: 13},
		{X: 18, Y: 12},
		{X: 18, Y: 14},
		{X: 25, Y: 12},
	} {
		s.MouseMove(mouse.Event{Position: pos})
	}

	want := []string{"\x1b[<35;2;2M", "\x1b[<35;2;2M", "\x1b[<35;3;2M"}
	if got := pty.Writes(); !slices.Equal(got, want) {
		t.Errorf("pty writes = %q, want %q", got, want)
	}
}

func TestMouseMoveWithoutReporting(t *testing.T) {
	s, pty, _ := newTestSession(t, &recordingBackend{})

	s.MouseMove(mouse.Event{Position: mouse.Position{X: 12, Y: 12}})
	setMode(s, term.ModeMouseMotion|term.ModeSGRMouse)
	s.MouseMove(mouse.Event{Position: mouse.Position{X: 13, Y: 12}})

	if got := pty.Writes(); len(got) != 0 {
		t.Errorf("pty writes = %q, want none; the cell did not change", got)
	}

	s.MouseUp(mouse.Event{Position: mouse.Position{X: 13, Y: 12}})
	s.MouseMove(mouse.Event{Position: mouse.Position{X: 13, Y: 12}})
	if got := pty.Writes(); len(got) != 1 {
		t.Errorf("pty writes after release = %q, want one report", got)
	}
}

func TestMouseDragInMouseMode(t *testing.T) {
	s, pty, _ := newTestSession(t, &recordingBackend{})
	setMode(s, term.ModeMouseDrag|term.ModeSGRMouse)

	e := mouse.Event{
		Position: mouse.Position{X: 12, Y: 12},
		Button:   mouse.ButtonLeft,
		Region:   mouse.Rect{Width: 100, Height: 100},
	}
	s.MouseMove(e)
	s.MouseDrag(e)

	if got := pty.Writes(); !slices.Equal(got, []string{"\x1b[<32;2;2M"}) {
		t.Errorf("pty writes = %q", got)
	}
	if got := pendingEvents(s); len(got) != 0 {
		t.Errorf("pending = %v, want none", got)
	}
}

func TestLeftClickSelectionType(t *testing.T) {
	tests := []struct {
		clicks int
		want   term.SelectionType
		ok     bool
	}{
		{0, 0, false},
		{1, term.SelectionSimple, true},
		{2, term.SelectionSemantic, true},
		{3, term.SelectionLines, true},
		{4, 0, false},
	}

	for _, tt := range tests {
		s, _, _ := newTestSession(t, &recordingBackend{})
		s.LeftClick(mouse.Event{
			Position:   mouse.Position{X: 37, Y: 22},
			Button:     mouse.ButtonLeft,
			ClickCount: tt.clicks,
		})

		pending := pendingEvents(s)
		if !tt.ok {
			if len(pending) != 0 {
				t.Errorf("%d clicks queued %v, want nothing", tt.clicks, pending)
			}
			continue
		}
		if len(pending) != 1 {
			t.Fatalf("%d clicks queued %d events, want 1", tt.clicks, len(pending))
		}
		ev := pending[0].(setSelectionEvent)
		if ev.selection.Type != tt.want {
			t.Errorf("%d clicks selection type = %v, want %v", tt.clicks, ev.selection.Type, tt.want)
		}
		wantPoint := term.Point{Line: 2, Column: 3}
		if ev.selection.Start.Point != wantPoint || ev.head != wantPoint {
			t.Errorf("%d clicks anchored at %v head %v, want %v", tt.clicks, ev.selection.Start.Point, ev.head, wantPoint)
		}
		if ev.selection.Start.Side != term.SideRight {
			t.Errorf("%d clicks side = %v, want right", tt.clicks, ev.selection.Start.Side)
		}
	}
}

func TestLeftClickInMouseMode(t *testing.T) {
	s, _, _ := newTestSession(t, &recordingBackend{})
	setMode(s, term.ModeMouseReportClick)

	s.LeftClick(mouse.Event{Button: mouse.ButtonLeft, ClickCount: 2})
	if got := pendingEvents(s); len(got) != 0 {
		t.Errorf("pending = %v, want none", got)
	}

	s.LeftClick(mouse.Event{Button: mouse.ButtonLeft, ClickCount: 2, Modifiers: key.ModShift})
	if got := pendingEvents(s); len(got) != 1 {
		t.Errorf("shift click queued %d events, want 1", len(got))
	}
}

func TestMouseButtons(t *testing.T) {
	tests := []struct {
		name        string
		mode        term.Mode
		button      mouse.Button
		wantWrites  []string
		wantPending int
	}{
		{"sgr left", term.ModeMouseReportClick | term.ModeSGRMouse, mouse.ButtonLeft, []string{"\x1b[<0;2;2M", "\x1b[<0;2;2m"}, 0},
		{"sgr right", term.ModeMouseReportClick | term.ModeSGRMouse, mouse.ButtonRight, []string{"\x1b[<2;2;2M", "\x1b[<2;2;2m"}, 0},
		{"normal left", term.ModeMouseReportClick, mouse.ButtonLeft, []string{"\x1b[M \"\"", "\x1b[M#\"\""}, 0},
		{"select and copy", term.ModeNone, mouse.ButtonLeft, nil, 2},
		{"right without reporting", term.ModeNone, mouse.ButtonRight, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, pty, _ := newTestSession(t, &recordingBackend{})
			setMode(s, tt.mode)

			e := mouse.Event{Position: mouse.Position{X: 12, Y: 12}, Button: tt.button}
			s.MouseDown(e)
			s.MouseUp(e)

			if got := pty.Writes(); !slices.Equal(got, tt.wantWrites) {
				t.Errorf("pty writes = %q, want %q", got, tt.wantWrites)
			}
			if got := pendingEvents(s); len(got) != tt.wantPending {
				t.Errorf("pending = %v, want %d events", got, tt.wantPending)
			}
		})
	}
}

func TestMouseDragAutoscroll(t *testing.T) {
	tests := []struct {
		name    string
		mode    term.Mode
		y       float64
		pending int
		lines   int
	}{
		{"inside", term.ModeNone, 50, 1, 0},
		{"above", term.ModeNone, 5, 3, 1},
		{"below", term.ModeNone, 150, 3, -10},
		{"alternate screen", term.ModeAltScreen, 5, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestSession(t, &recordingBackend{})
			setMode(s, tt.mode)

			s.MouseDrag(mouse.Event{
				Position: mouse.Position{X: 50, Y: tt.y},
				Button:   mouse.ButtonLeft,
				Region:   mouse.Rect{Width: 100, Height: 100},
			})

			pending := pendingEvents(s)
			if len(pending) != tt.pending {
				t.Fatalf("pending = %v, want %d events", pending, tt.pending)
			}
			if _, ok := pending[0].(updateSelectionEvent); !ok {
				t.Errorf("first event = %T, want updateSelectionEvent", pending[0])
			}
			if got := scrolledLines(s); got != tt.lines {
				t.Errorf("scrolled %d lines, want %d", got, tt.lines)
			}
		})
	}
}
