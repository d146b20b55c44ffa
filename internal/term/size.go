package term

// WindowSize is the pixel geometry of a terminal view.
type WindowSize struct {
	CellWidth  float64
	LineHeight float64
	Width      float64
	Height     float64
}

// DefaultWindowSize is used before the presentation layer reports a size.
var DefaultWindowSize = WindowSize{
	CellWidth:  5,
	LineHeight: 5,
	Width:      500,
	Height:     500,
}

// Lines returns the number of whole lines that fit the height.
func (s WindowSize) Lines() int {
	if s.LineHeight <= 0 {
		return 1
	}
	n := int(s.Height / s.LineHeight)
	if n < 1 {
		return 1
	}
	return n
}

// Columns returns the number of whole cells that fit the width.
func (s WindowSize) Columns() int {
	if s.CellWidth <= 0 {
		return 1
	}
	n := int(s.Width / s.CellWidth)
	if n < 1 {
		return 1
	}
	return n
}

// CellSize returns a size holding exactly cols x rows cells of one pixel.
func CellSize(cols, rows int) WindowSize {
	return WindowSize{
		CellWidth:  1,
		LineHeight: 1,
		Width:      float64(cols),
		Height:     float64(rows),
	}
}
