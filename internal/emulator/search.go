package emulator

import (
	"iter"
	"regexp"
	"slices"
	"strings"

	"github.com/dshills/termsession/internal/term"
)

// logicalLine is the text of one soft-wrapped line with the grid point
// of every rune. offsets holds the byte offset of each rune in text.
type logicalLine struct {
	text    string
	points  []term.Point
	offsets []int
}

// RegexIter yields the matches of re between start and end inclusive.
// Matches never span hard line breaks. With DirectionRight matches are
// yielded top to bottom and left to right; DirectionLeft reverses that.
// Empty matches are skipped.
func (t *Term) RegexIter(start, end term.Point, dir term.Direction, re *regexp.Regexp) iter.Seq[term.Match] {
	return func(yield func(term.Match) bool) {
		if re == nil || end.Before(start) {
			return
		}
		matches := t.collectMatches(start, end, re)
		if dir == term.DirectionLeft {
			slices.Reverse(matches)
		}
		for _, m := range matches {
			if !yield(m) {
				return
			}
		}
	}
}

func (t *Term) collectMatches(start, end term.Point, re *regexp.Regexp) []term.Match {
	var matches []term.Match
	for _, ll := range t.logicalLines(start, end) {
		for _, loc := range re.FindAllStringIndex(ll.text, -1) {
			if loc[0] == loc[1] {
				continue
			}
			first, last := ll.runeIndex(loc[0]), ll.runeIndex(loc[1]-1)
			matches = append(matches, term.Match{
				Start: ll.points[first],
				End:   ll.points[last],
			})
		}
	}
	return matches
}

// runeIndex returns the index of the rune containing byte offset off.
func (ll *logicalLine) runeIndex(off int) int {
	i, found := slices.BinarySearch(ll.offsets, off)
	if !found {
		i--
	}
	return i
}

// logicalLines splits the inclusive range [start, end] into soft-wrapped lines.
func (t *Term) logicalLines(start, end term.Point) []logicalLine {
	var (
		out []logicalLine
		buf strings.Builder
		cur logicalLine
	)
	flush := func() {
		if len(cur.points) > 0 {
			cur.text = buf.String()
			out = append(out, cur)
		}
		cur = logicalLine{}
		buf.Reset()
	}

	for line := start.Line; line <= end.Line; line++ {
		r := t.grid.row(line)
		if r == nil {
			flush()
			continue
		}
		from, to := 0, len(r.cells)-1
		if line == start.Line {
			from = start.Column
		}
		if line == end.Line && end.Column < to {
			to = end.Column
		}
		for x := from; x <= to; x++ {
			c := r.cells[x]
			if c.Flags.Has(term.FlagWideSpacer) {
				continue
			}
			ch := c.Rune
			if ch == 0 {
				ch = ' '
			}
			cur.offsets = append(cur.offsets, buf.Len())
			cur.points = append(cur.points, term.Point{Line: line, Column: x})
			buf.WriteRune(ch)
		}
		if !r.wrapped {
			flush()
		}
	}
	flush()
	return out
}
