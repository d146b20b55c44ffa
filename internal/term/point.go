package term

// Point is a location in the terminal grid.
type Point struct {
	Line   int
	Column int
}

// Compare orders points by line, then column.
// It returns -1 if p is before other, 1 if after and 0 if equal.
func (p Point) Compare(other Point) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	default:
		return 0
	}
}

// Before reports whether p sorts before other.
func (p Point) Before(other Point) bool {
	return p.Compare(other) < 0
}

// After reports whether p sorts after other.
func (p Point) After(other Point) bool {
	return p.Compare(other) > 0
}

// Side identifies which half of a cell a pointer is over.
type Side uint8

const (
	// SideLeft is the left half of a cell.
	SideLeft Side = iota
	// SideRight is the right half of a cell.
	SideRight
)

// String returns a string representation of the side.
func (s Side) String() string {
	if s == SideRight {
		return "right"
	}
	return "left"
}

// Direction is a search direction through the grid.
type Direction uint8

const (
	// DirectionLeft searches towards the top-left of the grid.
	DirectionLeft Direction = iota
	// DirectionRight searches towards the bottom-right of the grid.
	DirectionRight
)

// Match is an inclusive range of grid points produced by a search.
type Match struct {
	Start Point
	End   Point
}
