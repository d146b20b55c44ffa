// Package mouse models pointer input for a terminal view and encodes it
// for programs that request mouse reporting.
//
// # Core Types
//
// Event is a pointer sample in pixels relative to the terminal's
// top-left corner:
//
//	event := mouse.Event{
//	    Position:  mouse.Position{X: 120, Y: 48},
//	    Button:    mouse.ButtonLeft,
//	    Modifiers: key.ModShift,
//	}
//
// GridPoint and CellSide resolve a position to the grid cell under it
// and to the half of that cell, which is how selections are anchored.
//
// # Reports
//
// ButtonReport, MoveReport and ScrollReports encode xterm mouse reports
// in the format selected by the terminal mode: the legacy X10 encoding,
// its UTF-8 extension (mode 1005) or SGR (mode 1006). AltScroll produces
// the cursor key presses sent for the wheel on the alternate screen.
//
// # Handler
//
// Handler turns raw samples (position plus the button currently held)
// into press, release, click, drag and move calls on a Target, counting
// double and triple clicks along the way:
//
//	h := mouse.NewHandler(session, mouse.DefaultConfig())
//	h.SetRegion(mouse.Rect{Width: 800, Height: 600})
//	h.Handle(event)
package mouse
