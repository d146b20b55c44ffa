package mouse

import (
	"time"

	"github.com/dshills/termsession/internal/input/key"
)

// Button represents a mouse button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary (left) mouse button.
	ButtonLeft
	// ButtonMiddle is the middle mouse button (scroll wheel click).
	ButtonMiddle
	// ButtonRight is the secondary (right) mouse button.
	ButtonRight
	// ButtonWheelUp indicates one scroll wheel notch up.
	ButtonWheelUp
	// ButtonWheelDown indicates one scroll wheel notch down.
	ButtonWheelDown
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonWheelUp:
		return "wheel-up"
	case ButtonWheelDown:
		return "wheel-down"
	default:
		return "none"
	}
}

// IsWheel returns true if this is a scroll wheel button.
func (b Button) IsWheel() bool {
	return b == ButtonWheelUp || b == ButtonWheelDown
}

// Action represents the type of mouse action.
type Action uint8

const (
	// ActionNone indicates no action.
	ActionNone Action = iota
	// ActionPress indicates a button was pressed.
	ActionPress
	// ActionRelease indicates a button was released.
	ActionRelease
	// ActionMove indicates the pointer moved.
	ActionMove
	// ActionScroll indicates a wheel notch.
	ActionScroll
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	case ActionMove:
		return "move"
	case ActionScroll:
		return "scroll"
	default:
		return "none"
	}
}

// Position is a pixel coordinate.
type Position struct {
	X float64
	Y float64
}

// Sub returns p translated so that origin becomes the zero point.
func (p Position) Sub(origin Position) Position {
	return Position{X: p.X - origin.X, Y: p.Y - origin.Y}
}

// Distance returns the Manhattan distance (|dx| + |dy|) between two positions.
func (p Position) Distance(other Position) float64 {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Rect is a pixel rectangle in the same coordinate space as Event.Position.
type Rect struct {
	Origin Position
	Width  float64
	Height float64
}

// Top returns the y coordinate of the top edge.
func (r Rect) Top() float64 {
	return r.Origin.Y
}

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 {
	return r.Origin.Y + r.Height
}

// Event represents a mouse input event.
type Event struct {
	// Position is relative to the terminal's top-left corner.
	Position Position

	// Button is the button pressed or released. For moves it is the
	// button held, if any.
	Button Button

	// Action is the type of mouse action.
	Action Action

	// Modifiers are any keyboard modifiers held during the event.
	Modifiers key.Modifier

	// ClickCount is 1 for a single click, 2 for double, 3 for triple.
	ClickCount int

	// Region is the terminal's bounds; set on drag events.
	Region Rect

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Phase is the stage of a precise scrolling gesture.
type Phase uint8

const (
	// PhaseNone marks a discrete wheel notch without gesture information.
	PhaseNone Phase = iota
	// PhaseStarted begins a gesture.
	PhaseStarted
	// PhaseMoved continues a gesture.
	PhaseMoved
	// PhaseEnded ends a gesture.
	PhaseEnded
)

// ScrollEvent is a vertical scroll in pixels. Positive deltas scroll up,
// towards older output.
type ScrollEvent struct {
	Position  Position
	Delta     float64
	Phase     Phase
	Modifiers key.Modifier
}
