package session

import (
	"math"
	"time"

	"github.com/dshills/termsession/internal/input/mouse"
	"github.com/dshills/termsession/internal/notify"
)

const (
	// staleAfter is how old the last snapshot may get before Sync blocks
	// on the backend lock instead of deferring.
	staleAfter = 250 * time.Millisecond

	// retryDelay is the wait before a deferred Sync is requested.
	retryDelay = 16 * time.Millisecond
)

// Sync applies queued internal events to the backend and refreshes the
// content snapshot. When the I/O goroutine holds the backend, Sync
// returns at once and schedules a single retry that publishes Wakeup,
// unless the snapshot is older than staleAfter; then it waits.
func (s *Session) Sync() {
	s.flush(s.sync())
}

// sync does the work of Sync under s.mu and returns the notifications
// to publish once the locks are released.
func (s *Session) sync() []notify.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	guard, ok := s.backend.TryLockUnfair()
	if !ok {
		if s.now().Sub(s.lastSynced) <= staleAfter {
			if s.syncRetry == nil {
				s.syncRetry = s.afterFunc(retryDelay, s.retrySync)
			}
			return nil
		}
		guard = s.backend.LockUnfair()
	}
	defer guard.Unlock()
	b := guard.Value()

	if s.updateProcessInfo() {
		s.publish(notify.TitleChanged)
	}

	pending := s.pending
	s.pending = nil
	for _, ev := range pending {
		s.apply(b, ev)
	}

	s.lastContent = makeContent(b, s.size)
	s.lastSynced = s.now()
	return s.takeOutbox()
}

func (s *Session) retrySync() {
	s.mu.Lock()
	s.syncRetry = nil
	s.mu.Unlock()
	s.flush([]notify.Event{{Kind: notify.Wakeup}})
}

// apply performs one internal event against the locked backend.
func (s *Session) apply(b Backend, ev internalEvent) {
	switch ev := ev.(type) {
	case colorRequestEvent:
		c, ok := b.PaletteColor(ev.index)
		if !ok {
			c = s.palette.ColorAt(ev.index)
		}
		s.writeString(ev.format(c))

	case resizeEvent:
		size := ev.size
		size.Height = math.Max(size.LineHeight, size.Height)
		size.Width = math.Max(size.CellWidth, size.Width)
		s.size = size
		s.pty.Resize(size)
		b.Resize(size)

	case clearEvent:
		s.writeString("\x0c")
		b.ClearScrollback()

	case scrollEvent:
		b.ScrollDisplay(ev.scroll)

	case scrollToPointEvent:
		b.ScrollToPoint(ev.point)

	case setSelectionEvent:
		b.SetSelection(ev.selection)
		if ev.selection != nil {
			head := ev.head
			s.selectionHead = &head
		}
		s.publish(notify.SelectionsChanged)

	case updateSelectionEvent:
		sel := b.Selection()
		if sel == nil {
			return
		}
		point := mouse.GridPoint(ev.position, s.size, b.DisplayOffset())
		side := mouse.CellSide(ev.position, s.size)
		sel.Update(point, side)
		b.SetSelection(sel)
		s.selectionHead = &point
		s.publish(notify.SelectionsChanged)

	case copyEvent:
		text, ok := b.SelectionToString()
		if !ok || text == "" {
			return
		}
		if err := s.clipboard.Store(text); err != nil {
			s.log.With("err", err).Debug("clipboard store failed")
		}
	}
}
