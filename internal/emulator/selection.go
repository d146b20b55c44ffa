package emulator

import (
	"strings"

	"github.com/dshills/termsession/internal/term"
)

// SemanticEscapeChars separate words for semantic selection.
const SemanticEscapeChars = ",│`|:\"' ()[]{}<>\t"

func isSemanticEscape(r rune) bool {
	return strings.ContainsRune(SemanticEscapeChars, r)
}

// SelectionRange resolves the current selection against the grid.
func (t *Term) SelectionRange() (term.SelectionRange, bool) {
	if t.selection == nil {
		return term.SelectionRange{}, false
	}
	return t.resolveSelection(t.selection)
}

func (t *Term) resolveSelection(sel *term.Selection) (term.SelectionRange, bool) {
	start, end := sel.Ordered()

	// Clamp anchors that scrolled out of the grid.
	top := t.grid.topmostLine()
	bottom := t.grid.bottommostLine()
	if end.Point.Line < top || start.Point.Line > bottom {
		return term.SelectionRange{}, false
	}
	if start.Point.Line < top {
		start = term.Anchor{Point: term.Point{Line: top, Column: 0}, Side: term.SideLeft}
	}
	if end.Point.Line > bottom {
		end = term.Anchor{Point: term.Point{Line: bottom, Column: t.cols - 1}, Side: term.SideRight}
	}

	switch sel.Type {
	case term.SelectionSimple:
		return t.rangeSimple(start, end)
	case term.SelectionBlock:
		return t.rangeBlock(start, end)
	case term.SelectionSemantic:
		return t.rangeSemantic(start.Point, end.Point), true
	case term.SelectionLines:
		return term.SelectionRange{
			Start: t.LineSearchLeft(start.Point),
			End:   t.LineSearchRight(end.Point),
		}, true
	}
	return term.SelectionRange{}, false
}

func simpleIsEmpty(start, end term.Anchor) bool {
	return start == end ||
		(start.Side == term.SideRight &&
			end.Side == term.SideLeft &&
			start.Point.Line == end.Point.Line &&
			start.Point.Column+1 == end.Point.Column)
}

func (t *Term) rangeSimple(start, end term.Anchor) (term.SelectionRange, bool) {
	if simpleIsEmpty(start, end) {
		return term.SelectionRange{}, false
	}

	// Drop the last cell if the selection ends on its left half.
	if end.Side == term.SideLeft && start.Point != end.Point {
		if end.Point.Column == 0 {
			end.Point.Column = t.cols - 1
			end.Point.Line--
		} else {
			end.Point.Column--
		}
	}

	// Drop the first cell if the selection starts on its right half.
	if start.Side == term.SideRight && start.Point != end.Point {
		start.Point.Column++
		if start.Point.Column == t.cols {
			start.Point.Column = 0
			start.Point.Line++
		}
	}

	return term.SelectionRange{Start: start.Point, End: end.Point}, true
}

func (t *Term) rangeBlock(start, end term.Anchor) (term.SelectionRange, bool) {
	if start.Point.Column > end.Point.Column {
		start.Side, end.Side = end.Side, start.Side
		start.Point.Column, end.Point.Column = end.Point.Column, start.Point.Column
	}
	if start == end {
		return term.SelectionRange{}, false
	}
	if end.Side == term.SideLeft && start.Point.Column != end.Point.Column && end.Point.Column > 0 {
		end.Point.Column--
	}
	if start.Side == term.SideRight && start.Point.Column != end.Point.Column {
		start.Point.Column++
	}
	return term.SelectionRange{Start: start.Point, End: end.Point, Block: true}, true
}

func (t *Term) rangeSemantic(start, end term.Point) term.SelectionRange {
	if start == end && isSemanticEscape(t.grid.cell(start).Rune) {
		return term.SelectionRange{Start: start, End: end}
	}
	return term.SelectionRange{
		Start: t.SemanticSearchLeft(start),
		End:   t.SemanticSearchRight(end),
	}
}

// prevCell returns the cell before p, following soft wraps upwards.
func (t *Term) prevCell(p term.Point) (term.Point, bool) {
	if p.Column > 0 {
		return term.Point{Line: p.Line, Column: p.Column - 1}, true
	}
	if p.Line <= t.grid.topmostLine() {
		return p, false
	}
	r := t.grid.row(p.Line - 1)
	if r == nil || !r.wrapped {
		return p, false
	}
	return term.Point{Line: p.Line - 1, Column: t.cols - 1}, true
}

// nextCell returns the cell after p, following soft wraps downwards.
func (t *Term) nextCell(p term.Point) (term.Point, bool) {
	if p.Column < t.cols-1 {
		return term.Point{Line: p.Line, Column: p.Column + 1}, true
	}
	if p.Line >= t.grid.bottommostLine() {
		return p, false
	}
	r := t.grid.row(p.Line)
	if r == nil || !r.wrapped {
		return p, false
	}
	return term.Point{Line: p.Line + 1, Column: 0}, true
}

// SemanticSearchLeft returns the first cell of the word containing p.
func (t *Term) SemanticSearchLeft(p term.Point) term.Point {
	for {
		prev, ok := t.prevCell(p)
		if !ok {
			return p
		}
		c := t.grid.cell(prev)
		if !c.Flags.Has(term.FlagWideSpacer) && isSemanticEscape(c.Rune) {
			return p
		}
		p = prev
	}
}

// SemanticSearchRight returns the last cell of the word containing p.
func (t *Term) SemanticSearchRight(p term.Point) term.Point {
	for {
		next, ok := t.nextCell(p)
		if !ok {
			return p
		}
		c := t.grid.cell(next)
		if !c.Flags.Has(term.FlagWideSpacer) && isSemanticEscape(c.Rune) {
			return p
		}
		p = next
	}
}

// LineSearchLeft returns the first cell of the soft-wrapped line holding p.
func (t *Term) LineSearchLeft(p term.Point) term.Point {
	for p.Line > t.grid.topmostLine() {
		r := t.grid.row(p.Line - 1)
		if r == nil || !r.wrapped {
			break
		}
		p.Line--
	}
	p.Column = 0
	return p
}

// LineSearchRight returns the last cell of the soft-wrapped line holding p.
func (t *Term) LineSearchRight(p term.Point) term.Point {
	for p.Line+1 < t.lines {
		r := t.grid.row(p.Line)
		if r == nil || !r.wrapped {
			break
		}
		p.Line++
	}
	p.Column = t.cols - 1
	return p
}

// SelectionToString returns the selected text, or false if nothing is selected.
func (t *Term) SelectionToString() (string, bool) {
	r, ok := t.SelectionRange()
	if !ok {
		return "", false
	}
	return t.boundsToString(r.Start, r.End, r.Block), true
}

// boundsToString extracts text between two inclusive points. Soft-wrapped
// lines are joined; trailing blanks of hard lines are trimmed.
func (t *Term) boundsToString(start, end term.Point, block bool) string {
	var b strings.Builder
	for line := start.Line; line <= end.Line; line++ {
		r := t.grid.row(line)
		if r == nil {
			continue
		}
		from, to := 0, t.cols-1
		if block || line == start.Line {
			from = start.Column
		}
		if block || line == end.Line {
			to = end.Column
		}

		var text []rune
		for x := from; x <= to && x < len(r.cells); x++ {
			c := r.cells[x]
			if c.Flags.Has(term.FlagWideSpacer) {
				continue
			}
			ch := c.Rune
			if ch == 0 {
				ch = ' '
			}
			text = append(text, ch)
		}

		wrapped := !block && r.wrapped && to >= t.cols-1
		s := string(text)
		if !wrapped {
			s = strings.TrimRight(s, " ")
		}
		b.WriteString(s)
		if line != end.Line && !wrapped {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
