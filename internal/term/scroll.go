package term

// ScrollKind selects how a Scroll moves the display.
type ScrollKind uint8

const (
	// ScrollDelta moves by Lines. Positive values move into history.
	ScrollDelta ScrollKind = iota
	ScrollPageUp
	ScrollPageDown
	ScrollTop
	ScrollBottom
)

// Scroll is a request to move the visible viewport through history.
type Scroll struct {
	Kind  ScrollKind
	Lines int
}

// ScrollLines returns a delta scroll of n lines.
func ScrollLines(n int) Scroll {
	return Scroll{Kind: ScrollDelta, Lines: n}
}

// ScrollToBottom returns a scroll to the live end of the output.
func ScrollToBottom() Scroll {
	return Scroll{Kind: ScrollBottom}
}

// ScrollToTop returns a scroll to the oldest history line.
func ScrollToTop() Scroll {
	return Scroll{Kind: ScrollTop}
}
