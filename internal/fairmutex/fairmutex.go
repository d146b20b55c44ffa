// Package fairmutex provides a mutex with fair and unfair acquisition.
//
// Fair acquisition first takes a "next" token, then the data lock, and
// releases the token once the data lock is held. A holder of the token
// (see Lease) therefore blocks every fair locker behind it, while unfair
// acquisition goes straight for the data lock. The PTY I/O goroutine
// leases the token while it parses; the session uses the unfair variants.
package fairmutex

import "sync"

// Mutex guards a value of type T.
type Mutex[T any] struct {
	next sync.Mutex
	data sync.Mutex
	v    T
}

// New creates a mutex guarding v.
func New[T any](v T) *Mutex[T] {
	return &Mutex[T]{v: v}
}

// Guard is exclusive access to the guarded value.
// Unlock must be called exactly once.
type Guard[T any] struct {
	m *Mutex[T]
}

// Value returns the guarded value.
func (g Guard[T]) Value() T {
	return g.m.v
}

// Unlock releases the data lock.
func (g Guard[T]) Unlock() {
	g.m.data.Unlock()
}

// Lock acquires the value fairly, queueing behind any lease holder.
func (m *Mutex[T]) Lock() Guard[T] {
	m.next.Lock()
	m.data.Lock()
	m.next.Unlock()
	return Guard[T]{m: m}
}

// LockUnfair acquires the value without taking the fairness token.
func (m *Mutex[T]) LockUnfair() Guard[T] {
	m.data.Lock()
	return Guard[T]{m: m}
}

// TryLockUnfair acquires the value if it is free right now.
func (m *Mutex[T]) TryLockUnfair() (Guard[T], bool) {
	if !m.data.TryLock() {
		return Guard[T]{}, false
	}
	return Guard[T]{m: m}, true
}

// Lease reserves the next fair acquisition. Fair lockers block until
// the returned Lease is released.
func (m *Mutex[T]) Lease() *Lease {
	m.next.Lock()
	return &Lease{mu: &m.next}
}

// TryLease reserves the next fair acquisition if nobody else holds it.
func (m *Mutex[T]) TryLease() (*Lease, bool) {
	if !m.next.TryLock() {
		return nil, false
	}
	return &Lease{mu: &m.next}, true
}

// Lease is a held fairness token.
type Lease struct {
	once sync.Once
	mu   *sync.Mutex
}

// Release gives up the token. Calling Release more than once is a no-op.
func (l *Lease) Release() {
	l.once.Do(l.mu.Unlock)
}
