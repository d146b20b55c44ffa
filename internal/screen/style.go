package screen

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termsession/internal/term"
)

// cellStyle converts a cell's colors and rendition to a tcell style.
// Selected cells are drawn in reverse video.
func cellStyle(c term.Cell, selected bool) tcell.Style {
	style := tcell.StyleDefault.
		Foreground(color(c.Fg)).
		Background(color(c.Bg))

	f := c.Flags
	if f.Has(term.FlagBold) {
		style = style.Bold(true)
	}
	if f.Has(term.FlagDim) {
		style = style.Dim(true)
	}
	if f.Has(term.FlagItalic) {
		style = style.Italic(true)
	}
	if f.Has(term.FlagUnderline) {
		style = style.Underline(true)
	}
	if f.Has(term.FlagBlink) {
		style = style.Blink(true)
	}
	if f.Has(term.FlagStrike) {
		style = style.StrikeThrough(true)
	}
	if f.Has(term.FlagInverse) != selected {
		style = style.Reverse(true)
	}
	return style
}

// color maps a cell color onto tcell. The named foreground and
// background entries fall back to the terminal's own defaults.
func color(c term.Color) tcell.Color {
	switch {
	case c.Default:
		return tcell.ColorDefault
	case c.IsRGB():
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	case c.Index >= 0 && c.Index < 256:
		return tcell.PaletteColor(c.Index)
	default:
		return tcell.ColorDefault
	}
}

func cursorStyle(shape term.CursorShape, blinking bool) tcell.CursorStyle {
	switch shape {
	case term.CursorUnderline:
		if blinking {
			return tcell.CursorStyleBlinkingUnderline
		}
		return tcell.CursorStyleSteadyUnderline
	case term.CursorBeam:
		if blinking {
			return tcell.CursorStyleBlinkingBar
		}
		return tcell.CursorStyleSteadyBar
	default:
		if blinking {
			return tcell.CursorStyleBlinkingBlock
		}
		return tcell.CursorStyleSteadyBlock
	}
}
