package term

// SelectionType controls how a selection expands from its anchors.
type SelectionType uint8

const (
	// SelectionSimple selects cell by cell.
	SelectionSimple SelectionType = iota
	// SelectionBlock selects a rectangle.
	SelectionBlock
	// SelectionSemantic expands to whole words.
	SelectionSemantic
	// SelectionLines expands to whole lines.
	SelectionLines
)

// String returns a string representation of the selection type.
func (t SelectionType) String() string {
	switch t {
	case SelectionSimple:
		return "simple"
	case SelectionBlock:
		return "block"
	case SelectionSemantic:
		return "semantic"
	case SelectionLines:
		return "lines"
	default:
		return "unknown"
	}
}

// Anchor is one end of a selection.
type Anchor struct {
	Point Point
	Side  Side
}

// Selection is an in-progress or finished text selection.
// Start is where the selection began; End follows the pointer.
type Selection struct {
	Type  SelectionType
	Start Anchor
	End   Anchor
}

// NewSelection starts a selection of the given type at a point.
func NewSelection(ty SelectionType, p Point, side Side) *Selection {
	a := Anchor{Point: p, Side: side}
	return &Selection{Type: ty, Start: a, End: a}
}

// Update moves the selection's end anchor.
func (s *Selection) Update(p Point, side Side) {
	s.End = Anchor{Point: p, Side: side}
}

// Clone returns a copy of the selection, or nil.
func (s *Selection) Clone() *Selection {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// Ordered returns the anchors sorted so the first is not after the second.
func (s *Selection) Ordered() (Anchor, Anchor) {
	start, end := s.Start, s.End
	if end.Point.Before(start.Point) {
		start, end = end, start
	}
	return start, end
}

// SelectionRange is the resolved, inclusive extent of a selection.
type SelectionRange struct {
	Start Point
	End   Point
	Block bool
}

// Contains reports whether p lies inside the range.
func (r SelectionRange) Contains(p Point) bool {
	if r.Block {
		return p.Line >= r.Start.Line && p.Line <= r.End.Line &&
			p.Column >= r.Start.Column && p.Column <= r.End.Column
	}
	return !p.Before(r.Start) && !p.After(r.End)
}
