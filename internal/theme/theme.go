// Package theme provides the default colors answered to palette queries.
package theme

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/termsession/internal/term"
)

// ansi is the standard 16-color palette.
var ansi = [16]term.RGB{
	{R: 0, G: 0, B: 0},
	{R: 205, G: 0, B: 0},
	{R: 0, G: 205, B: 0},
	{R: 205, G: 205, B: 0},
	{R: 0, G: 0, B: 238},
	{R: 205, G: 0, B: 205},
	{R: 0, G: 205, B: 205},
	{R: 229, G: 229, B: 229},
	{R: 127, G: 127, B: 127},
	{R: 255, G: 0, B: 0},
	{R: 0, G: 255, B: 0},
	{R: 255, G: 255, B: 0},
	{R: 92, G: 92, B: 255},
	{R: 255, G: 0, B: 255},
	{R: 0, G: 255, B: 255},
	{R: 255, G: 255, B: 255},
}

// Colors holds hex color overrides, e.g. "#1d1f21".
type Colors struct {
	Foreground string            `toml:"foreground" yaml:"foreground"`
	Background string            `toml:"background" yaml:"background"`
	Cursor     string            `toml:"cursor" yaml:"cursor"`
	Palette    map[string]string `toml:"palette" yaml:"palette"`
}

// Theme is a full 259-entry palette: 256 indexed colors followed by the
// foreground, background and cursor colors.
type Theme struct {
	colors [term.PaletteSize]term.RGB
}

// Default returns the built-in theme.
func Default() *Theme {
	t := &Theme{}
	for i := 0; i < 256; i++ {
		t.colors[i] = indexed(i)
	}
	t.colors[term.ColorIndexForeground] = term.RGB{R: 229, G: 229, B: 229}
	t.colors[term.ColorIndexBackground] = term.RGB{R: 0, G: 0, B: 0}
	t.colors[term.ColorIndexCursor] = term.RGB{R: 229, G: 229, B: 229}
	return t
}

// New returns the default theme with overrides applied.
func New(c Colors) (*Theme, error) {
	t := Default()

	named := []struct {
		hex   string
		index int
	}{
		{c.Foreground, term.ColorIndexForeground},
		{c.Background, term.ColorIndexBackground},
		{c.Cursor, term.ColorIndexCursor},
	}
	for _, n := range named {
		if n.hex == "" {
			continue
		}
		rgb, err := parseHex(n.hex)
		if err != nil {
			return nil, err
		}
		t.colors[n.index] = rgb
	}

	for key, hex := range c.Palette {
		var index int
		if _, err := fmt.Sscanf(key, "%d", &index); err != nil || index < 0 || index > 255 {
			return nil, fmt.Errorf("%w: palette index %q", ErrInvalidColor, key)
		}
		rgb, err := parseHex(hex)
		if err != nil {
			return nil, err
		}
		t.colors[index] = rgb
	}
	return t, nil
}

func parseHex(hex string) (term.RGB, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return term.RGB{}, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	r, g, b := c.RGB255()
	return term.RGB{R: r, G: g, B: b}, nil
}

// ColorAt returns the color at a palette index. Out-of-range indices
// return the foreground color.
func (t *Theme) ColorAt(index int) term.RGB {
	if index < 0 || index >= term.PaletteSize {
		return t.colors[term.ColorIndexForeground]
	}
	return t.colors[index]
}

// indexed computes the xterm 256-color palette.
func indexed(index int) term.RGB {
	switch {
	case index < 16:
		return ansi[index]
	case index < 232:
		// 6x6x6 color cube
		index -= 16
		return term.RGB{
			R: cubeLevel(index / 36),
			G: cubeLevel((index / 6) % 6),
			B: cubeLevel(index % 6),
		}
	default:
		gray := uint8((index-232)*10 + 8)
		return term.RGB{R: gray, G: gray, B: gray}
	}
}

func cubeLevel(v int) uint8 {
	if v == 0 {
		return 0
	}
	return uint8(55 + v*40)
}
