// Package notify delivers session events to the presentation layer.
//
// A Notifier fans out each published Event to every subscribed
// Observer. Delivery is synchronous by default; WithAsync moves it to a
// dedicated goroutine so publishers never run observer code while
// holding their own locks.
package notify

import (
	"context"
	"sync"
)

// Kind identifies a session event.
type Kind int

const (
	// TitleChanged indicates the session title should be re-read.
	TitleChanged Kind = iota

	// CloseTerminal indicates the child process exited.
	CloseTerminal

	// Bell indicates the program rang the bell.
	Bell

	// Wakeup indicates new content is available to sync.
	Wakeup

	// BlinkChanged indicates the program toggled cursor blinking.
	BlinkChanged

	// SelectionsChanged indicates the selection was replaced.
	SelectionsChanged
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case TitleChanged:
		return "title-changed"
	case CloseTerminal:
		return "close-terminal"
	case Bell:
		return "bell"
	case Wakeup:
		return "wakeup"
	case BlinkChanged:
		return "blink-changed"
	case SelectionsChanged:
		return "selections-changed"
	default:
		return "unknown"
	}
}

// Event is a session notification.
type Event struct {
	Kind Kind

	// Blinking is the new cursor blink state for BlinkChanged.
	Blinking bool
}

// Observer is called for every published event.
type Observer func(event Event)

// Subscription represents an active observer subscription.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe removes this subscription.
func (s *Subscription) Unsubscribe() {
	if s != nil && s.notifier != nil {
		s.notifier.unsubscribe(s.id)
	}
}

// Notifier manages event subscriptions.
type Notifier struct {
	mu sync.RWMutex

	observers map[uint64]Observer
	nextID    uint64

	async  bool
	buffer chan Event
	done   chan struct{}
	wg     sync.WaitGroup

	closed bool
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithAsync enables asynchronous delivery through a buffer of the given size.
func WithAsync(bufferSize int) Option {
	return func(n *Notifier) {
		if bufferSize > 0 {
			n.async = true
			n.buffer = make(chan Event, bufferSize)
		}
	}
}

// New creates a new Notifier.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		observers: make(map[uint64]Observer),
		done:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(n)
	}

	if n.async {
		n.wg.Add(1)
		go n.processAsync()
	}

	return n
}

// Subscribe registers an observer for all events.
func (n *Notifier) Subscribe(observer Observer) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	n.observers[id] = observer

	return &Subscription{id: id, notifier: n}
}

// Publish sends an event to all observers. Events published after Close
// are dropped.
func (n *Notifier) Publish(event Event) {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return
	}
	n.mu.RUnlock()

	if n.async {
		select {
		case n.buffer <- event:
		case <-n.done:
		}
		return
	}

	n.deliver(event)
}

// PublishContext is Publish that gives up when ctx is done while an
// async buffer is full. It reports whether the event was accepted.
func (n *Notifier) PublishContext(ctx context.Context, event Event) bool {
	n.mu.RLock()
	if n.closed {
		n.mu.RUnlock()
		return false
	}
	n.mu.RUnlock()

	if !n.async {
		n.deliver(event)
		return true
	}
	select {
	case n.buffer <- event:
		return true
	case <-n.done:
		return false
	case <-ctx.Done():
		return false
	}
}

// Close shuts down the notifier, delivering any buffered events first.
// It is safe to call Close multiple times.
func (n *Notifier) Close() {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.closed = true
	n.mu.Unlock()

	close(n.done)
	n.wg.Wait()
}

func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.observers, id)
}

func (n *Notifier) deliver(event Event) {
	n.mu.RLock()
	observers := make([]Observer, 0, len(n.observers))
	for _, obs := range n.observers {
		observers = append(observers, obs)
	}
	n.mu.RUnlock()

	// Call observers outside the lock
	for _, obs := range observers {
		obs(event)
	}
}

func (n *Notifier) processAsync() {
	defer n.wg.Done()

	for {
		select {
		case event := <-n.buffer:
			n.deliver(event)
		case <-n.done:
			for {
				select {
				case event := <-n.buffer:
					n.deliver(event)
				default:
					return
				}
			}
		}
	}
}
