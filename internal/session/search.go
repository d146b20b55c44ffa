package session

import (
	"context"
	"regexp"

	"github.com/dshills/termsession/internal/term"
)

// MaxSearchLines is how far above and below the viewport search looks.
const MaxSearchLines = 100

// FindMatches searches for pattern around the viewport on its own
// goroutine. The returned channel yields the matches, top to bottom,
// then closes. An invalid pattern yields an empty list. If ctx is done
// before the search finishes the channel closes without a value.
func (s *Session) FindMatches(ctx context.Context, pattern string) <-chan []term.Match {
	out := make(chan []term.Match, 1)
	go func() {
		defer close(out)

		re, err := regexp.Compile(pattern)
		if err != nil {
			s.log.With("err", err).Debug("invalid search pattern")
			out <- []term.Match{}
			return
		}

		matches, ok := s.searchMatches(ctx, re)
		if !ok {
			return
		}

		s.mu.Lock()
		s.matches = matches
		s.mu.Unlock()
		out <- matches
	}()
	return out
}

// searchMatches scans the viewport extended by MaxSearchLines in each
// direction. It takes the backend fairly so heavy output cannot starve it.
func (s *Session) searchMatches(ctx context.Context, re *regexp.Regexp) ([]term.Match, bool) {
	guard := s.backend.Lock()
	defer guard.Unlock()
	b := guard.Value()

	top := -b.DisplayOffset()
	bottom := top + b.ScreenLines() - 1

	start := b.LineSearchLeft(term.Point{Line: top})
	end := b.LineSearchRight(term.Point{Line: bottom})
	start.Line = max(start.Line, top-MaxSearchLines)
	end.Line = min(end.Line, bottom+MaxSearchLines)

	matches := []term.Match{}
	for m := range b.RegexIter(start, end, term.DirectionRight, re) {
		if ctx.Err() != nil {
			return nil, false
		}
		if m.End.Line < start.Line {
			continue
		}
		if m.Start.Line > end.Line {
			break
		}
		matches = append(matches, m)
	}
	return matches, ctx.Err() == nil
}

// Matches returns the result of the last completed FindMatches.
func (s *Session) Matches() []term.Match {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.matches
}

// ActivateMatch selects match i of the last search and scrolls it into
// view on the next Sync. Out of range indices are ignored.
func (s *Session) ActivateMatch(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.matches) {
		return
	}
	m := s.matches[i]
	sel := term.NewSelection(term.SelectionSimple, m.Start, term.SideLeft)
	sel.Update(m.End, term.SideRight)
	s.setSelection(sel, m.End)
	s.pending = append(s.pending, scrollToPointEvent{point: m.Start})
}
