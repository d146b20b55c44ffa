package session

import (
	"strings"

	"github.com/dshills/termsession/internal/input/key"
	"github.com/dshills/termsession/internal/term"
)

// setSelection queues a selection change. The caller holds s.mu.
func (s *Session) setSelection(sel *term.Selection, head term.Point) {
	s.pending = append(s.pending, setSelectionEvent{selection: sel, head: head})
}

// Copy queues copying the selection to the clipboard.
func (s *Session) Copy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, copyEvent{})
}

// Clear queues clearing the screen and the scrollback.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, clearEvent{})
}

// SetSize queues resizing the emulator and the PTY.
func (s *Session) SetSize(size term.WindowSize) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, resizeEvent{size: size})
}

// Input writes text to the PTY, scrolling to the bottom and clearing
// the selection on the next Sync.
func (s *Session) Input(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input(text)
}

func (s *Session) input(text string) {
	s.pending = append(s.pending,
		scrollEvent{scroll: term.ScrollToBottom()},
		setSelectionEvent{},
	)
	s.writeString(text)
}

// Paste writes text as typed input. With bracketed paste on, the text is
// wrapped in paste markers and stripped of escapes; otherwise newlines
// are sent as carriage returns.
func (s *Session) Paste(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input(pasteText(text, s.lastContent.Mode))
}

func pasteText(text string, mode term.Mode) string {
	if mode.Has(term.ModeBracketedPaste) {
		return "\x1b[200~" + strings.ReplaceAll(text, "\x1b", "") + "\x1b[201~"
	}
	text = strings.ReplaceAll(text, "\r\n", "\r")
	return strings.ReplaceAll(text, "\n", "\r")
}

// TryKeystroke writes the escape sequence for e and reports whether e
// has one. Plain characters are left to text input.
func (s *Session) TryKeystroke(e key.Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	seq, ok := key.Encode(e, s.lastContent.Mode, s.altIsMeta)
	if !ok {
		return false
	}
	s.input(seq)
	return true
}

// FocusIn reports focus gain when the program asked for focus events.
func (s *Session) FocusIn() {
	s.focus("\x1b[I")
}

// FocusOut reports focus loss when the program asked for focus events.
func (s *Session) FocusOut() {
	s.focus("\x1b[O")
}

func (s *Session) focus(seq string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastContent.Mode.Has(term.ModeFocusInOut) {
		s.writeString(seq)
	}
}
