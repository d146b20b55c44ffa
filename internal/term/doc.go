// Package term holds the vocabulary shared by the terminal session
// coordinator, the emulation engine and the PTY event loop.
//
// Grid coordinates use Point. Line 0 is the top line of the visible
// screen when the display is scrolled to the bottom; negative lines
// address scrollback history. Columns start at 0.
//
// Backend notifications are modelled as the sealed Event interface and
// travel from the I/O side to the session over a Channel, which never
// blocks the sender and preserves order.
package term
