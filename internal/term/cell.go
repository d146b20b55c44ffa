package term

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

// Indices above the 256-color palette address the named colors.
const (
	ColorIndexForeground = 256
	ColorIndexBackground = 257
	ColorIndexCursor     = 258

	// PaletteSize is the number of addressable palette entries.
	PaletteSize = 259
)

// Color is the color of a cell's foreground or background.
type Color struct {
	R, G, B uint8
	Index   int  // -1 for RGB, 0-255 for indexed
	Default bool // Use default fg/bg
}

// DefaultColor selects the terminal's default foreground or background.
var DefaultColor = Color{Default: true}

// IndexedColor returns a palette color reference.
func IndexedColor(index int) Color {
	return Color{Index: index}
}

// RGBColor returns a direct color.
func RGBColor(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, Index: -1}
}

// IsRGB reports whether the color is a direct 24-bit color.
func (c Color) IsRGB() bool {
	return !c.Default && c.Index < 0
}

// Flags holds cell rendition and layout attributes.
type Flags uint16

const (
	FlagNone      Flags = 0
	FlagBold      Flags = 1 << 0
	FlagDim       Flags = 1 << 1
	FlagItalic    Flags = 1 << 2
	FlagUnderline Flags = 1 << 3
	FlagBlink     Flags = 1 << 4
	FlagInverse   Flags = 1 << 5
	FlagHidden    Flags = 1 << 6
	FlagStrike    Flags = 1 << 7

	// FlagWide marks the first half of a double-width character.
	FlagWide Flags = 1 << 8
	// FlagWideSpacer marks the placeholder cell after a wide character.
	FlagWideSpacer Flags = 1 << 9
	// FlagWrapline marks the last cell of a soft-wrapped line.
	FlagWrapline Flags = 1 << 10
)

// Has returns true if the attribute is set.
func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

// Cell represents a single character cell in the terminal.
type Cell struct {
	Rune  rune
	Fg    Color
	Bg    Color
	Flags Flags
}

// EmptyCell returns a blank cell with default colors.
func EmptyCell() Cell {
	return Cell{
		Rune: ' ',
		Fg:   DefaultColor,
		Bg:   DefaultColor,
	}
}

// IsEmpty reports whether the cell holds nothing but a blank.
func (c Cell) IsEmpty() bool {
	return (c.Rune == ' ' || c.Rune == 0) &&
		c.Bg.Default &&
		c.Flags&^FlagWrapline == 0
}

// IndexedCell is a cell together with its grid position.
type IndexedCell struct {
	Point Point
	Cell  Cell
}

// CursorShape is the drawn shape of the terminal cursor.
type CursorShape uint8

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBeam
	CursorHollowBlock
	CursorHidden
)

// String returns a string representation of the shape.
func (s CursorShape) String() string {
	switch s {
	case CursorBlock:
		return "block"
	case CursorUnderline:
		return "underline"
	case CursorBeam:
		return "beam"
	case CursorHollowBlock:
		return "hollow-block"
	case CursorHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Cursor is the renderable cursor: its shape and grid position.
type Cursor struct {
	Shape CursorShape
	Point Point
}
