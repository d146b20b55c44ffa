package term

import (
	"context"
	"sync"
)

// Channel is an unbounded, order-preserving queue of backend
// notifications. Send never blocks. A closed Channel drops further
// sends and reports closed once drained.
type Channel struct {
	mu     sync.Mutex
	queue  []Event
	closed bool
	ready  chan struct{}
}

// NewChannel creates an empty channel.
func NewChannel() *Channel {
	return &Channel{ready: make(chan struct{}, 1)}
}

// Send appends ev to the queue.
func (c *Channel) Send(ev Event) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.queue = append(c.queue, ev)
	c.mu.Unlock()
	c.signal()
}

// Close marks the channel closed. Queued events remain readable.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()
	c.signal()
}

// Ready returns a channel that receives after a Send or Close.
func (c *Channel) Ready() <-chan struct{} {
	return c.ready
}

// TryRecv pops the oldest event without blocking. The closed result is
// true once the channel is closed and empty.
func (c *Channel) TryRecv() (ev Event, ok bool, closed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.queue) == 0 {
		return nil, false, c.closed
	}
	ev = c.queue[0]
	c.queue[0] = nil
	c.queue = c.queue[1:]
	if len(c.queue) == 0 {
		c.queue = nil
	}
	return ev, true, false
}

// Recv blocks until an event is available. It returns false when the
// channel is closed and drained or ctx is done.
func (c *Channel) Recv(ctx context.Context) (Event, bool) {
	for {
		ev, ok, closed := c.TryRecv()
		if ok {
			return ev, true
		}
		if closed {
			return nil, false
		}
		select {
		case <-c.ready:
		case <-ctx.Done():
			return nil, false
		}
	}
}

// Len returns the number of queued events.
func (c *Channel) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

func (c *Channel) signal() {
	select {
	case c.ready <- struct{}{}:
	default:
	}
}
