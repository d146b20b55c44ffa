package session

import (
	"slices"
	"testing"
	"time"

	"github.com/dshills/termsession/internal/clipboard"
	"github.com/dshills/termsession/internal/input/mouse"
	"github.com/dshills/termsession/internal/notify"
	"github.com/dshills/termsession/internal/term"
)

func TestSyncAppliesInOrder(t *testing.T) {
	backend := &recordingBackend{}
	s, pty, _ := newTestSession(t, backend)

	s.SetSize(term.WindowSize{CellWidth: 10, LineHeight: 10, Width: 200, Height: 50})
	s.Clear()
	s.Input("x")
	s.Copy()
	s.Sync()

	want := []string{"Resize", "ClearScrollback", "ScrollDisplay", "SetSelection", "SelectionToString", "Renderable"}
	got := backend.Calls()
	if len(got) < len(want) || !slices.Equal(got[:len(want)], want) {
		t.Errorf("calls = %v, want prefix %v", got, want)
	}
	if got, want := pty.Writes(), []string{"x", "\x0c"}; !slices.Equal(got, want) {
		t.Errorf("pty writes = %q, want %q", got, want)
	}
	if s.Size().Width != 200 {
		t.Errorf("Size().Width = %v, want 200", s.Size().Width)
	}
}

func TestSyncClampsResize(t *testing.T) {
	backend := &recordingBackend{}
	s, pty, _ := newTestSession(t, backend)

	s.SetSize(term.WindowSize{CellWidth: 8, LineHeight: 16, Width: 3, Height: 0})
	s.Sync()

	want := term.WindowSize{CellWidth: 8, LineHeight: 16, Width: 8, Height: 16}
	if len(backend.sizes) != 1 || backend.sizes[0] != want {
		t.Errorf("backend sizes = %v, want [%v]", backend.sizes, want)
	}
	if len(pty.sizes) != 1 || pty.sizes[0] != want {
		t.Errorf("pty sizes = %v, want [%v]", pty.sizes, want)
	}
}

func TestSyncSnapshot(t *testing.T) {
	backend := &recordingBackend{mode: term.ModeAltScreen, offset: 3}
	s, _, _ := newTestSession(t, backend)

	s.Sync()
	c := s.LastContent()
	if c.Mode != term.ModeAltScreen || c.DisplayOffset != 3 {
		t.Errorf("content mode %v offset %d, want %v 3", c.Mode, c.DisplayOffset, term.ModeAltScreen)
	}
	if c.Size != testSize {
		t.Errorf("content size = %v, want %v", c.Size, testSize)
	}
}

func TestSyncDefersWhileBackendBusy(t *testing.T) {
	clock := newFakeClock()
	backend := &recordingBackend{}
	s, _, _ := newTestSession(t, backend, clock.Option())
	ch := watch(s)

	s.Clear()
	hold := s.backend.LockUnfair()
	for i := 0; i < 5; i++ {
		s.Sync()
	}
	if n := len(clock.Timers()); n != 1 {
		t.Fatalf("scheduled %d retries, want 1", n)
	}
	if calls := backend.Calls(); len(calls) != 0 {
		t.Fatalf("backend touched while held: %v", calls)
	}

	clock.Timers()[0].fire()
	waitFor(t, ch, notify.Wakeup)

	s.Sync()
	if n := len(clock.Timers()); n != 2 {
		t.Fatalf("after retry fired, scheduled %d retries, want 2", n)
	}

	hold.Unlock()
	s.Sync()
	if calls := backend.Calls(); !slices.Contains(calls, "ClearScrollback") {
		t.Errorf("pending clear not applied after unlock: %v", calls)
	}
}

func TestSyncBlocksWhenStale(t *testing.T) {
	clock := newFakeClock()
	backend := &recordingBackend{}
	s, _, _ := newTestSession(t, backend, clock.Option())

	hold := s.backend.LockUnfair()
	clock.Advance(staleAfter + time.Millisecond)

	done := make(chan struct{})
	go func() {
		s.Sync()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Sync returned while the backend was held")
	case <-time.After(50 * time.Millisecond):
	}
	if n := len(clock.Timers()); n != 0 {
		t.Errorf("stale Sync scheduled %d retries, want 0", n)
	}

	hold.Unlock()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Sync did not finish after unlock")
	}
	if !slices.Contains(backend.Calls(), "Renderable") {
		t.Error("stale Sync did not refresh the snapshot")
	}
}

func TestSyncDefersAtStaleBoundary(t *testing.T) {
	clock := newFakeClock()
	backend := &recordingBackend{}
	s, _, _ := newTestSession(t, backend, clock.Option())

	hold := s.backend.LockUnfair()
	defer hold.Unlock()
	clock.Advance(staleAfter)

	done := make(chan struct{})
	go func() {
		s.Sync()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Sync blocked at exactly staleAfter")
	}
	if n := len(clock.Timers()); n != 1 {
		t.Errorf("scheduled %d retries, want 1", n)
	}
}

func TestSyncPublishesTitleChange(t *testing.T) {
	tracker := &fakeTracker{updates: []bool{true}}
	s, _, _ := newTestSession(t, &recordingBackend{}, WithProcessTracker(tracker))
	ch := watch(s)

	s.Sync()
	waitFor(t, ch, notify.TitleChanged)

	s.Sync()
	s.publish(notify.Bell)
	for e := range ch {
		if e.Kind == notify.TitleChanged {
			t.Fatal("TitleChanged published without a process change")
		}
		if e.Kind == notify.Bell {
			break
		}
	}
}

func TestSyncSelection(t *testing.T) {
	backend := &recordingBackend{selected: "hello"}
	clip := &clipboard.Memory{}
	s, _, _ := newTestSession(t, backend, WithClipboard(clip))
	ch := watch(s)

	s.MouseDown(mouse.Event{Position: mouse.Position{X: 12, Y: 12}, Button: mouse.ButtonLeft})
	s.MouseDrag(mouse.Event{
		Position: mouse.Position{X: 47, Y: 52},
		Button:   mouse.ButtonLeft,
		Region:   mouse.Rect{Width: 100, Height: 100},
	})
	s.MouseUp(mouse.Event{Position: mouse.Position{X: 47, Y: 52}, Button: mouse.ButtonLeft})
	s.Sync()
	waitFor(t, ch, notify.SelectionsChanged)

	sel := backend.Selection()
	if sel == nil {
		t.Fatal("no selection after drag")
	}
	wantStart := term.Anchor{Point: term.Point{Line: 1, Column: 1}, Side: term.SideLeft}
	wantEnd := term.Anchor{Point: term.Point{Line: 5, Column: 4}, Side: term.SideRight}
	if sel.Start != wantStart || sel.End != wantEnd {
		t.Errorf("selection = %+v..%+v, want %+v..%+v", sel.Start, sel.End, wantStart, wantEnd)
	}
	if head, ok := s.SelectionHead(); !ok || head != wantEnd.Point {
		t.Errorf("SelectionHead() = %v, %v; want %v", head, ok, wantEnd.Point)
	}
	if got, _ := clip.Load(); got != "hello" {
		t.Errorf("clipboard = %q, want %q", got, "hello")
	}
	if got := s.LastContent().SelectionText; got != "hello" {
		t.Errorf("SelectionText = %q, want %q", got, "hello")
	}
}

func TestSyncUpdateWithoutSelection(t *testing.T) {
	backend := &recordingBackend{}
	s, _, _ := newTestSession(t, backend)

	s.MouseDrag(mouse.Event{Position: mouse.Position{X: 50, Y: 50}, Region: mouse.Rect{Width: 100, Height: 100}})
	s.Sync()

	if slices.Contains(backend.Calls(), "SetSelection") {
		t.Error("selection update applied without a selection")
	}
	if _, ok := s.SelectionHead(); ok {
		t.Error("SelectionHead() set without a selection")
	}
}

func TestCopyEmptySelectionKeepsClipboard(t *testing.T) {
	clip := &clipboard.Memory{}
	clip.Store("old")
	s, _, _ := newTestSession(t, &recordingBackend{}, WithClipboard(clip))

	s.Copy()
	s.Sync()
	if got, _ := clip.Load(); got != "old" {
		t.Errorf("clipboard = %q, want %q", got, "old")
	}
}
