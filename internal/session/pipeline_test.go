package session

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dshills/termsession/internal/clipboard"
	"github.com/dshills/termsession/internal/notify"
	"github.com/dshills/termsession/internal/term"
)

func TestCollectBatches(t *testing.T) {
	events := term.NewChannel()
	s := &Session{events: events}
	ctx := context.Background()

	for i := 0; i < 150; i++ {
		events.Send(term.WakeupEvent{})
	}

	batch, closed := s.collect(ctx)
	if closed || len(batch) != maxBatch+1 {
		t.Fatalf("first collect = %d events, closed %v; want %d, false", len(batch), closed, maxBatch+1)
	}

	batch, closed = s.collect(ctx)
	if closed || len(batch) != 150-maxBatch-1 {
		t.Fatalf("second collect = %d events, closed %v; want %d, false", len(batch), closed, 150-maxBatch-1)
	}

	events.Close()
	batch, closed = s.collect(ctx)
	if !closed || len(batch) != 0 {
		t.Fatalf("collect after close = %d events, closed %v; want 0, true", len(batch), closed)
	}
}

func TestCollectStopsOnContext(t *testing.T) {
	s := &Session{events: term.NewChannel()}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, closed := s.collect(ctx); !closed {
		t.Error("collect with cancelled context did not report closed")
	}
}

func TestPipelinePreservesOrder(t *testing.T) {
	s, pty, events := newTestSession(t, &recordingBackend{})

	var want strings.Builder
	for i := 0; i < 250; i++ {
		text := strconv.Itoa(i) + ","
		want.WriteString(text)
		events.Send(term.PtyWriteEvent{Text: text})
	}
	events.Close()

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline did not exit after the channel closed")
	}
	if got := pty.Output(); got != want.String() {
		t.Errorf("pty output = %q, want %q", got, want.String())
	}
}

func TestPipelineNotifications(t *testing.T) {
	tests := []struct {
		name  string
		event term.Event
		want  notify.Kind
	}{
		{"bell", term.BellEvent{}, notify.Bell},
		{"exit", term.ExitEvent{}, notify.CloseTerminal},
		{"wakeup", term.WakeupEvent{}, notify.Wakeup},
		{"blink", term.CursorBlinkingChangeEvent{Blinking: true}, notify.BlinkChanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, events := newTestSession(t, &recordingBackend{})
			ch := watch(s)
			events.Send(tt.event)
			e := waitFor(t, ch, tt.want)
			if tt.want == notify.BlinkChanged && !e.Blinking {
				t.Error("BlinkChanged without Blinking")
			}
		})
	}
}

func TestPipelineTitle(t *testing.T) {
	s, _, events := newTestSession(t, &recordingBackend{})
	ch := watch(s)

	events.Send(term.TitleEvent{Title: "htop"})
	events.Send(term.BellEvent{})
	waitFor(t, ch, notify.Bell)
	if got := s.Title(); got != "htop" {
		t.Errorf("Title() = %q, want %q", got, "htop")
	}

	events.Send(term.ResetTitleEvent{})
	events.Send(term.BellEvent{})
	waitFor(t, ch, notify.Bell)
	if got := s.Title(); got != "Terminal" {
		t.Errorf("Title() after reset = %q, want %q", got, "Terminal")
	}
}

func TestPipelineWakeupRefreshesProcess(t *testing.T) {
	tracker := &fakeTracker{updates: []bool{false, true}}
	s, _, events := newTestSession(t, &recordingBackend{}, WithProcessTracker(tracker))
	ch := watch(s)

	events.Send(term.WakeupEvent{})
	events.Send(term.BellEvent{})
	for _, want := range []notify.Kind{notify.Wakeup, notify.Bell} {
		if e := <-ch; e.Kind != want {
			t.Fatalf("got %v, want %v", e.Kind, want)
		}
	}

	events.Send(term.WakeupEvent{})
	waitFor(t, ch, notify.Wakeup)
	waitFor(t, ch, notify.TitleChanged)
}

func TestPipelineReplies(t *testing.T) {
	clip := &clipboard.Memory{}
	s, pty, events := newTestSession(t, &recordingBackend{}, WithClipboard(clip))
	ch := watch(s)

	events.Send(term.ClipboardStoreEvent{Text: "copied"})
	events.Send(term.ClipboardLoadEvent{Format: func(text string) string { return "[" + text + "]" }})
	events.Send(term.TextAreaSizeRequestEvent{Format: func(size term.WindowSize) string {
		return strconv.Itoa(size.Lines()) + "x" + strconv.Itoa(size.Columns())
	}})
	events.Send(term.MouseCursorDirtyEvent{})
	events.Send(term.BellEvent{})
	waitFor(t, ch, notify.Bell)

	if got, _ := clip.Load(); got != "copied" {
		t.Errorf("clipboard = %q, want %q", got, "copied")
	}
	if got, want := pty.Output(), "[copied]10x10"; got != want {
		t.Errorf("pty output = %q, want %q", got, want)
	}
}

func TestColorRequestAnsweredOnSync(t *testing.T) {
	backend := &recordingBackend{colors: map[int]term.RGB{1: {R: 0xaa}}}
	s, pty, events := newTestSession(t, backend, WithPalette(fixedPalette{R: 0x11}))
	ch := watch(s)

	format := func(c term.RGB) string { return strconv.Itoa(int(c.R)) + ";" }
	events.Send(term.ColorRequestEvent{Index: 1, Format: format})
	events.Send(term.ColorRequestEvent{Index: 2, Format: format})
	events.Send(term.BellEvent{})
	waitFor(t, ch, notify.Bell)

	if got := pty.Output(); got != "" {
		t.Fatalf("color replied before Sync: %q", got)
	}
	s.Sync()
	if got, want := pty.Output(), "170;17;"; got != want {
		t.Errorf("pty output = %q, want %q", got, want)
	}
}

type fixedPalette term.RGB

func (p fixedPalette) ColorAt(int) term.RGB { return term.RGB(p) }

func TestSetPalette(t *testing.T) {
	s, pty, events := newTestSession(t, &recordingBackend{}, WithPalette(fixedPalette{R: 0x11}))
	ch := watch(s)

	s.SetPalette(fixedPalette{R: 0x22})
	s.SetPalette(nil)
	events.Send(term.ColorRequestEvent{Index: 3, Format: func(c term.RGB) string { return strconv.Itoa(int(c.R)) }})
	events.Send(term.BellEvent{})
	waitFor(t, ch, notify.Bell)
	s.Sync()

	if got := pty.Output(); got != "34" {
		t.Errorf("pty output = %q, want %q", got, "34")
	}
}

func TestObserverMaySyncDuringBurst(t *testing.T) {
	s, _, events := newTestSession(t, &recordingBackend{})

	var syncs atomic.Int64
	bell := make(chan struct{})
	var once sync.Once
	s.Subscribe(func(e notify.Event) {
		switch e.Kind {
		case notify.Wakeup:
			time.Sleep(200 * time.Microsecond)
			s.Sync()
			syncs.Add(1)
		case notify.Bell:
			once.Do(func() { close(bell) })
		}
	})

	for i := 0; i < 2000; i++ {
		events.Send(term.WakeupEvent{})
	}
	events.Send(term.BellEvent{})

	select {
	case <-bell:
	case <-time.After(10 * time.Second):
		t.Fatalf("pipeline stalled: %d syncs completed", syncs.Load())
	}
	if syncs.Load() == 0 {
		t.Error("no Sync completed from the observer")
	}
}

func TestCloseWithBlockedObserver(t *testing.T) {
	s, _, events := newTestSession(t, &recordingBackend{})

	release := make(chan struct{})
	s.Subscribe(func(notify.Event) { <-release })
	for i := 0; i < 2*notifyBuffer; i++ {
		events.Send(term.WakeupEvent{})
	}

	closed := make(chan struct{})
	go func() {
		s.Close()
		close(closed)
	}()

	select {
	case <-s.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("pipeline did not stop while an observer was blocked")
	}
	close(release)
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("Close did not return")
	}
}
