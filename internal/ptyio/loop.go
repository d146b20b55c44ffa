package ptyio

import (
	"errors"
	"io"
	"sync"

	"pkt.systems/pslog"

	"github.com/dshills/termsession/internal/fairmutex"
	"github.com/dshills/termsession/internal/term"
)

// readBufferSize is the largest chunk parsed under one lock acquisition.
const readBufferSize = 64 * 1024

// Process is the PTY side of a Loop.
type Process interface {
	io.ReadWriter
	Resize(size term.WindowSize) error
	Close() error
}

// Parser consumes PTY output. The emulator implements it.
type Parser interface {
	Advance(data []byte)
}

type msgKind int

const (
	msgInput msgKind = iota
	msgResize
	msgShutdown
)

type message struct {
	kind msgKind
	data []byte
	size term.WindowSize
}

// queue is the writer's unbounded inbox. The session writes replies
// while it holds the backend, so a push must never wait for the shell
// to read its input.
type queue struct {
	mu    sync.Mutex
	items []message
	ready chan struct{}
}

func newQueue() *queue {
	return &queue{ready: make(chan struct{}, 1)}
}

func (q *queue) push(m message) {
	q.mu.Lock()
	q.items = append(q.items, m)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *queue) drain() []message {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}

// Loop moves bytes between a Process and the emulator behind a fair lock.
type Loop[P Parser] struct {
	proc     Process
	backend  *fairmutex.Mutex[P]
	listener term.Listener
	log      pslog.Logger

	msgs     *queue
	done     chan struct{}
	start    sync.Once
	shutdown sync.Once
}

// NewLoop creates a loop for proc. Output is parsed into the value
// guarded by backend and notifications go to listener.
func NewLoop[P Parser](proc Process, backend *fairmutex.Mutex[P], listener term.Listener, log pslog.Logger) *Loop[P] {
	return &Loop[P]{
		proc:     proc,
		backend:  backend,
		listener: listener,
		log:      log.With("component", "ptyio"),
		msgs:     newQueue(),
		done:     make(chan struct{}),
	}
}

// Start launches the reader and writer goroutines. It is a no-op after
// the first call.
func (l *Loop[P]) Start() {
	l.start.Do(func() {
		go l.readLoop()
		go l.writeLoop()
	})
}

// Done is closed once the PTY has hung up.
func (l *Loop[P]) Done() <-chan struct{} {
	return l.done
}

// Write queues bytes for the shell.
func (l *Loop[P]) Write(data []byte) {
	if len(data) == 0 {
		return
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	l.enqueue(message{kind: msgInput, data: buf})
}

// Resize queues a window size change.
func (l *Loop[P]) Resize(size term.WindowSize) {
	l.enqueue(message{kind: msgResize, size: size})
}

// Shutdown asks the writer to hang up the shell.
func (l *Loop[P]) Shutdown() {
	l.shutdown.Do(func() {
		l.enqueue(message{kind: msgShutdown})
	})
}

func (l *Loop[P]) enqueue(m message) {
	select {
	case <-l.done:
		return
	default:
	}
	l.msgs.push(m)
}

func (l *Loop[P]) readLoop() {
	defer close(l.done)

	buf := make([]byte, readBufferSize)
	for {
		n, err := l.proc.Read(buf)
		if n > 0 {
			l.advance(buf[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				l.log.Debug("pty read ended", "err", err)
			}
			break
		}
	}
	if w, ok := l.proc.(interface{ Wait() int }); ok {
		l.log.Debug("shell exited", "code", w.Wait())
	}
	l.listener.Send(term.ExitEvent{})
}

// advance parses data while holding the lease, so fair lockers wait for
// the whole chunk instead of interleaving with it.
func (l *Loop[P]) advance(data []byte) {
	lease := l.backend.Lease()
	g := l.backend.LockUnfair()
	g.Value().Advance(data)
	g.Unlock()
	lease.Release()

	l.listener.Send(term.WakeupEvent{})
}

func (l *Loop[P]) writeLoop() {
	for {
		select {
		case <-l.msgs.ready:
			for _, m := range l.msgs.drain() {
				if !l.deliver(m) {
					return
				}
			}
		case <-l.done:
			l.closeProc()
			return
		}
	}
}

// deliver hands one message to the process. It reports false once the
// process has been closed.
func (l *Loop[P]) deliver(m message) bool {
	switch m.kind {
	case msgInput:
		if _, err := l.proc.Write(m.data); err != nil {
			l.log.Debug("pty write failed", "err", err, "bytes", len(m.data))
		}
	case msgResize:
		if err := l.proc.Resize(m.size); err != nil {
			l.log.Debug("pty resize failed", "err", err)
		}
	case msgShutdown:
		l.closeProc()
		return false
	}
	return true
}

func (l *Loop[P]) closeProc() {
	if err := l.proc.Close(); err != nil {
		l.log.Debug("pty close failed", "err", err)
	}
}
