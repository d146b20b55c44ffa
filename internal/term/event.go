package term

// Event is a notification emitted by the emulation engine or the PTY
// event loop. The set of implementations is closed.
type Event interface {
	isEvent()
}

// Listener receives backend notifications.
type Listener interface {
	Send(ev Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ev Event)

// Send calls f(ev).
func (f ListenerFunc) Send(ev Event) { f(ev) }

// TitleEvent reports a new window title.
type TitleEvent struct {
	Title string
}

// ResetTitleEvent reports that the window title was reset.
type ResetTitleEvent struct{}

// ClipboardStoreEvent asks for text to be placed on the clipboard.
type ClipboardStoreEvent struct {
	Text string
}

// ClipboardLoadEvent asks for the clipboard contents. The reply is
// Format applied to the clipboard text and must be written to the PTY.
type ClipboardLoadEvent struct {
	Format func(text string) string
}

// ColorRequestEvent asks for a palette entry. The reply is Format
// applied to the color and must be written to the PTY.
type ColorRequestEvent struct {
	Index  int
	Format func(c RGB) string
}

// PtyWriteEvent asks for text to be written back to the PTY.
type PtyWriteEvent struct {
	Text string
}

// TextAreaSizeRequestEvent asks for the window size. The reply is Format
// applied to the current size and must be written to the PTY.
type TextAreaSizeRequestEvent struct {
	Format func(size WindowSize) string
}

// CursorBlinkingChangeEvent reports that cursor blinking was toggled.
type CursorBlinkingChangeEvent struct {
	Blinking bool
}

// BellEvent reports a bell character.
type BellEvent struct{}

// ExitEvent reports that the child process or PTY has gone away.
type ExitEvent struct{}

// MouseCursorDirtyEvent reports that the pointer shape may need updating.
type MouseCursorDirtyEvent struct{}

// WakeupEvent reports that new content is available.
type WakeupEvent struct{}

func (TitleEvent) isEvent() {}
func (ResetTitleEvent) isEvent() {}
func (ClipboardStoreEvent) isEvent() {}
func (ClipboardLoadEvent) isEvent() {}
func (ColorRequestEvent) isEvent() {}
func (PtyWriteEvent) isEvent() {}
func (TextAreaSizeRequestEvent) isEvent() {}
func (CursorBlinkingChangeEvent) isEvent() {}
func (BellEvent) isEvent() {}
func (ExitEvent) isEvent() {}
func (MouseCursorDirtyEvent) isEvent() {}
func (WakeupEvent) isEvent() {}
