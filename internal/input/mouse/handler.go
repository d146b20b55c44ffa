package mouse

import "time"

// Config configures mouse handling behavior.
type Config struct {
	// DoubleClickTime is the maximum time between clicks of a sequence.
	DoubleClickTime time.Duration

	// DoubleClickDistance is the maximum Manhattan distance in pixels
	// between clicks of a sequence.
	DoubleClickDistance float64

	// WheelLines is the number of lines one wheel notch scrolls.
	WheelLines int
}

// DefaultConfig returns the default mouse configuration.
func DefaultConfig() Config {
	return Config{
		DoubleClickTime:     400 * time.Millisecond,
		DoubleClickDistance: 4,
		WheelLines:          1,
	}
}

// Target receives the interpreted pointer interaction.
type Target interface {
	MouseMove(Event)
	MouseDown(Event)
	MouseUp(Event)
	LeftClick(Event)
	MouseDrag(Event)
	ScrollWheel(ScrollEvent)
}

// Handler processes raw mouse samples and dispatches them to a Target.
// Motion while a button is held is delivered as both a move and a drag.
// It is not safe for concurrent use.
type Handler struct {
	target Target
	config Config
	clicks *clickTracker

	held       Button
	region     Rect
	lineHeight float64
}

// NewHandler creates a new mouse handler.
func NewHandler(target Target, config Config) *Handler {
	if config.WheelLines <= 0 {
		config.WheelLines = 1
	}
	return &Handler{
		target: target,
		config: config,
		clicks: newClickTracker(config.DoubleClickTime, config.DoubleClickDistance),
	}
}

// SetRegion sets the terminal bounds reported with drag events and the
// line height used to convert wheel notches into pixels.
func (h *Handler) SetRegion(region Rect, lineHeight float64) {
	h.region = region
	h.lineHeight = lineHeight
}

// Handle processes a mouse event.
func (h *Handler) Handle(event Event) {
	switch event.Action {
	case ActionPress:
		if event.Button.IsWheel() {
			h.handleWheel(event)
			return
		}
		h.handlePress(event)
	case ActionRelease:
		h.handleRelease(event)
	case ActionMove:
		h.handleMove(event)
	case ActionScroll:
		h.handleWheel(event)
	}
}

func (h *Handler) handlePress(event Event) {
	if event.ClickCount == 0 {
		event.ClickCount = h.clicks.recordClick(event.Position, event.Timestamp)
	}
	h.held = event.Button
	h.target.MouseDown(event)
	if event.Button == ButtonLeft {
		h.target.LeftClick(event)
	}
}

func (h *Handler) handleRelease(event Event) {
	if event.Button == ButtonNone {
		event.Button = h.held
	}
	h.held = ButtonNone
	h.target.MouseUp(event)
}

func (h *Handler) handleMove(event Event) {
	if h.held == ButtonNone {
		h.target.MouseMove(event)
		return
	}
	event.Button = h.held
	event.Region = h.region
	h.target.MouseMove(event)
	h.target.MouseDrag(event)
}

func (h *Handler) handleWheel(event Event) {
	notch := float64(h.config.WheelLines) * h.lineHeight
	if event.Button == ButtonWheelDown {
		notch = -notch
	}
	h.target.ScrollWheel(ScrollEvent{
		Position:  event.Position,
		Delta:     notch,
		Phase:     PhaseNone,
		Modifiers: event.Modifiers,
	})
}

// Reset forgets the held button and the click sequence.
func (h *Handler) Reset() {
	h.held = ButtonNone
	h.clicks.reset()
}

// Held returns the button currently held, if any.
func (h *Handler) Held() Button {
	return h.held
}
