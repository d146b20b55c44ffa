package session

import (
	"slices"
	"testing"

	"github.com/dshills/termsession/internal/input/key"
	"github.com/dshills/termsession/internal/term"
)

func TestPasteText(t *testing.T) {
	tests := []struct {
		name string
		text string
		mode term.Mode
		want string
	}{
		{"plain", "ls -la", term.ModeNone, "ls -la"},
		{"newlines", "a\nb\r\nc", term.ModeNone, "a\rb\rc"},
		{"bracketed", "a\nb", term.ModeBracketedPaste, "\x1b[200~a\nb\x1b[201~"},
		{"bracketed strips escapes", "x\x1b[201~y", term.ModeBracketedPaste, "\x1b[200~x[201~y\x1b[201~"},
		{"empty bracketed", "", term.ModeBracketedPaste, "\x1b[200~\x1b[201~"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pasteText(tt.text, tt.mode); got != tt.want {
				t.Errorf("pasteText(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestPaste(t *testing.T) {
	s, pty, _ := newTestSession(t, &recordingBackend{})
	setMode(s, term.ModeBracketedPaste)

	s.Paste("echo hi\n")
	if got, want := pty.Output(), "\x1b[200~echo hi\n\x1b[201~"; got != want {
		t.Errorf("pty output = %q, want %q", got, want)
	}
}

func TestInputScrollsAndClearsSelection(t *testing.T) {
	backend := &recordingBackend{offset: 5}
	backend.selection = term.NewSelection(term.SelectionSimple, term.Point{}, term.SideLeft)
	s, pty, _ := newTestSession(t, backend)

	s.Input("ls\r")
	if got := pty.Output(); got != "ls\r" {
		t.Errorf("pty output = %q, want %q", got, "ls\r")
	}

	s.Sync()
	if len(backend.scrolls) != 1 || backend.scrolls[0] != term.ScrollToBottom() {
		t.Errorf("scrolls = %v, want [bottom]", backend.scrolls)
	}
	if backend.selection != nil {
		t.Errorf("selection = %+v, want cleared", backend.selection)
	}
	if _, ok := s.SelectionHead(); ok {
		t.Error("clearing the selection set a head")
	}
}

func TestInputEmpty(t *testing.T) {
	s, pty, _ := newTestSession(t, &recordingBackend{})

	s.Input("")
	if got := pty.Writes(); len(got) != 0 {
		t.Errorf("pty writes = %q, want none", got)
	}
	if got := pendingEvents(s); len(got) != 2 {
		t.Errorf("pending = %v, want scroll and selection clear", got)
	}
}

func TestTryKeystroke(t *testing.T) {
	tests := []struct {
		name      string
		event     key.Event
		mode      term.Mode
		altIsMeta bool
		want      string
		ok        bool
	}{
		{"arrow", key.NewSpecialEvent(key.KeyUp, key.ModNone), term.ModeNone, false, "\x1b[A", true},
		{"app cursor arrow", key.NewSpecialEvent(key.KeyUp, key.ModNone), term.ModeAppCursor, false, "\x1bOA", true},
		{"enter", key.NewSpecialEvent(key.KeyEnter, key.ModNone), term.ModeNone, false, "\r", true},
		{"ctrl c", key.NewRuneEvent('c', key.ModCtrl), term.ModeNone, false, "\x03", true},
		{"alt x as meta", key.NewRuneEvent('x', key.ModAlt), term.ModeNone, true, "\x1bx", true},
		{"alt x", key.NewRuneEvent('x', key.ModAlt), term.ModeNone, false, "", false},
		{"plain rune", key.NewRuneEvent('a', key.ModNone), term.ModeNone, false, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, pty, _ := newTestSession(t, &recordingBackend{}, WithAltIsMeta(tt.altIsMeta))
			setMode(s, tt.mode)

			if ok := s.TryKeystroke(tt.event); ok != tt.ok {
				t.Fatalf("TryKeystroke() = %v, want %v", ok, tt.ok)
			}
			if got := pty.Output(); got != tt.want {
				t.Errorf("pty output = %q, want %q", got, tt.want)
			}
			if !tt.ok && len(pendingEvents(s)) != 0 {
				t.Error("unhandled keystroke queued events")
			}
		})
	}
}

func TestFocusReports(t *testing.T) {
	s, pty, _ := newTestSession(t, &recordingBackend{})

	s.FocusIn()
	s.FocusOut()
	if got := pty.Writes(); len(got) != 0 {
		t.Fatalf("focus reported without focus mode: %q", got)
	}

	setMode(s, term.ModeFocusInOut)
	s.FocusIn()
	s.FocusOut()
	if got, want := pty.Writes(), []string{"\x1b[I", "\x1b[O"}; !slices.Equal(got, want) {
		t.Errorf("pty writes = %q, want %q", got, want)
	}
}

func TestSetAltIsMeta(t *testing.T) {
	s, pty, _ := newTestSession(t, &recordingBackend{})

	alt := key.NewRuneEvent('b', key.ModAlt)
	if s.TryKeystroke(alt) {
		t.Fatal("Alt+b encoded with alt-is-meta off")
	}
	s.SetAltIsMeta(true)
	if !s.TryKeystroke(alt) || pty.Output() != "\x1bb" {
		t.Errorf("Alt+b with alt-is-meta = %q, want %q", pty.Output(), "\x1bb")
	}
}
