package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"pkt.systems/pslog"

	"github.com/dshills/termsession/internal/clipboard"
	"github.com/dshills/termsession/internal/fairmutex"
	"github.com/dshills/termsession/internal/notify"
	"github.com/dshills/termsession/internal/term"
	"github.com/dshills/termsession/internal/theme"
)

// notifyBuffer bounds the events waiting for slow observers.
const notifyBuffer = 256

// Timer is a pending deferred sync. *time.Timer implements it.
type Timer interface {
	Stop() bool
}

// mouseCell is the last grid cell reported for pointer motion.
type mouseCell struct {
	point term.Point
	side  term.Side
}

// Session coordinates one terminal pane. Its methods are safe for
// concurrent use.
type Session struct {
	id  string
	log pslog.Logger

	// mu serialises the consumer side: the pipeline, Sync and input.
	mu sync.Mutex

	backend   *fairmutex.Mutex[Backend]
	pty       PTY
	events    *term.Channel
	notifier  *notify.Notifier
	clipboard clipboard.Clipboard
	palette   Palette
	process   ProcessTracker
	altIsMeta bool

	pending       []internalEvent
	outbox        []notify.Event
	lastContent   Content
	size          term.WindowSize
	lastSynced    time.Time
	syncRetry     Timer
	selectionHead *term.Point
	scrollPx      float64
	lastMouse     *mouseCell
	breadcrumb    string
	matches       []term.Match

	now       func() time.Time
	afterFunc func(d time.Duration, f func()) Timer

	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(log pslog.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClipboard sets the clipboard used for copy and OSC 52.
func WithClipboard(c clipboard.Clipboard) Option {
	return func(s *Session) {
		if c != nil {
			s.clipboard = c
		}
	}
}

// WithPalette sets the colors answered to palette queries the program
// has not overridden.
func WithPalette(p Palette) Option {
	return func(s *Session) {
		if p != nil {
			s.palette = p
		}
	}
}

// WithProcessTracker sets the foreground process tracker.
func WithProcessTracker(p ProcessTracker) Option {
	return func(s *Session) {
		s.process = p
	}
}

// WithAltIsMeta makes Alt+key send ESC followed by the key.
func WithAltIsMeta(on bool) Option {
	return func(s *Session) {
		s.altIsMeta = on
	}
}

// WithClock replaces the clock and timer used by Sync. Tests use it to
// control staleness and deferred retries.
func WithClock(now func() time.Time, afterFunc func(time.Duration, func()) Timer) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
		if afterFunc != nil {
			s.afterFunc = afterFunc
		}
	}
}

func discardLogger() pslog.Logger {
	return pslog.NewWithOptions(io.Discard, pslog.Options{Mode: pslog.ModeStructured})
}

// newSession wires a session around running collaborators and starts
// its notification pipeline. events must be the channel the backend and
// the I/O goroutine send to.
func newSession(ctx context.Context, backend *fairmutex.Mutex[Backend], pty PTY, events *term.Channel, size term.WindowSize, opts ...Option) *Session {
	s := &Session{
		id:        uuid.New().String(),
		log:       discardLogger(),
		backend:   backend,
		pty:       pty,
		events:    events,
		notifier:  notify.New(notify.WithAsync(notifyBuffer)),
		clipboard: &clipboard.Memory{},
		palette:   theme.Default(),
		size:      size,
		now:       time.Now,
		afterFunc: func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) },
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With("component", "session", "session", s.id)
	s.lastSynced = s.now()

	s.ctx, s.cancel = context.WithCancel(ctx)
	go s.run(s.ctx)
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// Subscribe registers an observer for session notifications.
// Observers run on a dedicated goroutine and may call back into the
// session.
func (s *Session) Subscribe(observer notify.Observer) *notify.Subscription {
	return s.notifier.Subscribe(observer)
}

// publish queues a notification. The caller holds s.mu; the queue is
// sent by flush after s.mu is released, so observers may call back into
// the session even when the notifier buffer is full.
func (s *Session) publish(kind notify.Kind) {
	s.queue(notify.Event{Kind: kind})
}

func (s *Session) queue(e notify.Event) {
	s.outbox = append(s.outbox, e)
}

// takeOutbox returns and clears the queued notifications. The caller
// holds s.mu.
func (s *Session) takeOutbox() []notify.Event {
	out := s.outbox
	s.outbox = nil
	return out
}

// flush publishes notifications taken from the outbox. It must be
// called without s.mu or the backend held. It gives up once the
// session is closing.
func (s *Session) flush(out []notify.Event) {
	for _, e := range out {
		if !s.notifier.PublishContext(s.ctx, e) {
			return
		}
	}
}

// SetPalette replaces the colors answered to palette queries.
func (s *Session) SetPalette(p Palette) {
	if p == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.palette = p
}

// SetAltIsMeta changes whether Alt+key sends ESC followed by the key.
func (s *Session) SetAltIsMeta(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.altIsMeta = on
}

// LastContent returns the snapshot taken by the most recent Sync.
func (s *Session) LastContent() Content {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastContent
}

// Size returns the current window size.
func (s *Session) Size() term.WindowSize {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.size
}

// SelectionHead returns the end point of the latest selection.
func (s *Session) SelectionHead() (term.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectionHead == nil {
		return term.Point{}, false
	}
	return *s.selectionHead, true
}

// Title returns the title set by the program, or a description of the
// foreground process when the program set none.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.breadcrumb != "" {
		return s.breadcrumb
	}
	if s.process != nil {
		if info, ok := s.process.Current(); ok {
			switch {
			case info.Name != "" && info.Cwd != "":
				return info.Name + " (" + info.Cwd + ")"
			case info.Name != "":
				return info.Name
			}
		}
	}
	return "Terminal"
}

// Close shuts down the PTY, stops the pipeline and waits for it to
// exit. It is safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.pty.Shutdown()
		s.events.Close()
		s.cancel()
		<-s.done

		s.mu.Lock()
		if s.syncRetry != nil {
			s.syncRetry.Stop()
			s.syncRetry = nil
		}
		s.mu.Unlock()

		s.notifier.Close()
		s.log.Debug("session closed")
	})
	return nil
}

// Done is closed once the notification pipeline has exited, either
// because the backend went away or Close was called.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
