// Package emulator implements the terminal emulation engine driven by
// PTY output.
//
// A Term owns a primary grid with scrollback and an alternate grid
// without, the cursor, the active modes, a 259-entry color override
// table and the current selection. Bytes fed through Advance are decoded
// by go-ansicode and applied by a handler covering cursor movement,
// erasing, scrolling regions, tab stops, SGR attributes, DEC private
// modes (mouse reporting, bracketed paste, focus reporting, alternate
// screen), line drawing charsets, device status reports and the OSC
// title, color and clipboard commands.
//
// Anything that needs a reply or outside action is emitted as a
// term.Event on the configured Listener:
//
//	t := emulator.New(emulator.Config{Size: size, Listener: ch})
//	t.Advance([]byte("\x1b]2;build\x07"))  // sends term.TitleEvent{Title: "build"}
//	t.Advance([]byte("\x1b[6n"))           // sends term.PtyWriteEvent with the cursor report
//
// Term is not safe for concurrent use.
package emulator
