package emulator

import (
	"slices"
	"testing"

	"github.com/dshills/termsession/internal/term"
)

func TestTabStops(t *testing.T) {
	tests := []struct {
		name string
		seq  string
		want int
	}{
		{"default every 8", "\tx", 8},
		{"two tabs", "\t\tx", 16},
		{"clamped at last column", "\t\t\t\tx", 19},
		{"cleared", "\x1b[3g\tx", 19},
		{"custom stop", "\x1b[3g\x1b[5G\x1bH\r\tx", 4},
		{"backward", "\x1b[15G\x1b[Zx", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tm, _ := newTestTerm(20, 2)
			tm.Advance([]byte(tt.seq))
			if c := tm.CellAt(term.Point{Column: tt.want}); c.Rune != 'x' {
				t.Errorf("x not at column %d, line = %q", tt.want, lineText(tm, 0))
			}
		})
	}
}

func TestTitleStack(t *testing.T) {
	tm, rec := newTestTerm(10, 2)
	tm.Advance([]byte("\x1b]2;one\x07\x1b[22t\x1b]2;two\x07\x1b[23t"))

	want := []term.Event{
		term.TitleEvent{Title: "one"},
		term.TitleEvent{Title: "two"},
		term.TitleEvent{Title: "one"},
	}
	if !slices.Equal(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
	if tm.Title() != "one" {
		t.Errorf("Title() = %q, want one", tm.Title())
	}

	tm.Advance([]byte("\x1b[23t"))
	if len(rec.events) != len(want) {
		t.Error("pop on an empty stack changed the title")
	}
}

func TestLineDrawingCharset(t *testing.T) {
	tm, _ := newTestTerm(10, 2)
	tm.Advance([]byte("\x1b(0lqk\x1b(Bq"))

	if got := lineText(tm, 0); got != "┌─┐q" {
		t.Errorf("line = %q, want %q", got, "┌─┐q")
	}
}

func TestScrollingRegion(t *testing.T) {
	tm, _ := newTestTerm(5, 4)
	tm.Advance([]byte("a\r\nb\r\nc\r\nd"))
	tm.Advance([]byte("\x1b[2;3r\x1b[3;1H\n"))

	want := []string{"a", "c", "", "d"}
	for i, w := range want {
		if got := lineText(tm, i); got != w {
			t.Errorf("line %d = %q, want %q", i, got, w)
		}
	}
}

func TestDecaln(t *testing.T) {
	tm, _ := newTestTerm(3, 2)
	tm.Advance([]byte("ab\x1b#8"))

	for i := 0; i < 2; i++ {
		if got := lineText(tm, i); got != "EEE" {
			t.Errorf("line %d = %q, want EEE", i, got)
		}
	}
	if p := tm.CursorPoint(); p != (term.Point{}) {
		t.Errorf("cursor = %v, want origin", p)
	}
}

func TestCursorStyleBlinking(t *testing.T) {
	tm, rec := newTestTerm(10, 2)
	tm.Advance([]byte("\x1b[3 q"))

	if tm.Renderable().Cursor.Shape != term.CursorUnderline {
		t.Errorf("shape = %v, want underline", tm.Renderable().Cursor.Shape)
	}
	if ev, ok := rec.events[len(rec.events)-1].(term.CursorBlinkingChangeEvent); !ok || !ev.Blinking {
		t.Errorf("last event = %#v, want blinking", rec.events[len(rec.events)-1])
	}
}

func TestIdentifyTerminal(t *testing.T) {
	tm, rec := newTestTerm(10, 2)
	tm.Advance([]byte("\x1b[c"))

	if len(rec.events) != 1 || rec.events[0] != (term.PtyWriteEvent{Text: "\x1b[?6c"}) {
		t.Errorf("events = %#v", rec.events)
	}
}

func TestResetRestoresTabs(t *testing.T) {
	tm, _ := newTestTerm(20, 2)
	tm.Advance([]byte("\x1b[3g\x1bc\tx"))

	if c := tm.CellAt(term.Point{Column: 8}); c.Rune != 'x' {
		t.Errorf("line = %q, want x at column 8", lineText(tm, 0))
	}
}
