package fairmutex

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLockUnlock(t *testing.T) {
	m := New(&struct{ n int }{})

	g := m.Lock()
	g.Value().n = 7
	g.Unlock()

	g = m.LockUnfair()
	if g.Value().n != 7 {
		t.Errorf("n = %d, want 7", g.Value().n)
	}
	g.Unlock()
}

func TestTryLockUnfairContended(t *testing.T) {
	m := New(1)

	g := m.Lock()
	if _, ok := m.TryLockUnfair(); ok {
		t.Fatal("TryLockUnfair succeeded while locked")
	}
	g.Unlock()

	g2, ok := m.TryLockUnfair()
	if !ok {
		t.Fatal("TryLockUnfair failed on free mutex")
	}
	g2.Unlock()
}

func TestLeaseBlocksFairLock(t *testing.T) {
	m := New(0)
	lease := m.Lease()

	var acquired atomic.Bool
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		g := m.Lock()
		acquired.Store(true)
		g.Unlock()
	}()

	time.Sleep(20 * time.Millisecond)
	if acquired.Load() {
		t.Fatal("fair lock acquired while lease held")
	}

	// Unfair acquisition ignores the lease.
	g, ok := m.TryLockUnfair()
	if !ok {
		t.Fatal("unfair lock blocked by lease")
	}
	g.Unlock()

	lease.Release()
	lease.Release()
	wg.Wait()

	if !acquired.Load() {
		t.Error("fair lock never acquired")
	}
}

func TestTryLease(t *testing.T) {
	m := New(0)

	l, ok := m.TryLease()
	if !ok {
		t.Fatal("TryLease failed on free mutex")
	}
	if _, ok := m.TryLease(); ok {
		t.Error("second TryLease succeeded")
	}
	l.Release()
}
