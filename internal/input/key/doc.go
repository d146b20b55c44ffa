// Package key provides key event types and their terminal encodings.
//
// This package defines the types for representing keyboard input:
//
//   - Key: identifies a special key, or KeyRune for characters
//   - Modifier: the held modifier keys (Ctrl, Alt, Shift, Meta)
//   - Event: a single key press with modifiers
//
// # Encoding
//
// Encode maps an Event to the byte sequence an xterm-compatible terminal
// sends for it, honoring application cursor mode:
//
//	seq, ok := key.Encode(key.NewSpecialEvent(key.KeyUp, key.ModNone), mode, true)
//	// seq == "\x1b[A", or "\x1bOA" in application cursor mode
//
// Plain printable characters are not encoded; they are delivered as text.
package key
