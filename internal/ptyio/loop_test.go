package ptyio

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"pkt.systems/pslog"

	"github.com/dshills/termsession/internal/fairmutex"
	"github.com/dshills/termsession/internal/term"
)

type fakeProcess struct {
	out *io.PipeReader
	in  *io.PipeWriter

	mu      sync.Mutex
	written bytes.Buffer
	sizes   []term.WindowSize
	closed  bool
}

func newFakeProcess() *fakeProcess {
	r, w := io.Pipe()
	return &fakeProcess{out: r, in: w}
}

func (f *fakeProcess) Read(p []byte) (int, error) {
	return f.out.Read(p)
}

func (f *fakeProcess) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written.Write(p)
}

func (f *fakeProcess) Resize(size term.WindowSize) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sizes = append(f.sizes, size)
	return nil
}

func (f *fakeProcess) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return f.out.Close()
}

func (f *fakeProcess) snapshot() (string, []term.WindowSize, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.written.String(), append([]term.WindowSize(nil), f.sizes...), f.closed
}

type recordingParser struct {
	data []byte
}

func (r *recordingParser) Advance(data []byte) {
	r.data = append(r.data, data...)
}

func testLogger() pslog.Logger {
	return pslog.NewWithOptions(io.Discard, pslog.Options{Mode: pslog.ModeStructured, NoColor: true})
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestLoopAdvancesOutput(t *testing.T) {
	proc := newFakeProcess()
	parser := &recordingParser{}
	backend := fairmutex.New(parser)
	events := term.NewChannel()

	loop := NewLoop(proc, backend, events, testLogger())
	loop.Start()
	defer loop.Shutdown()

	if _, err := proc.in.Write([]byte("hello")); err != nil {
		t.Fatalf("write: %v", err)
	}

	waitFor(t, "wakeup", func() bool { return events.Len() > 0 })
	ev, ok, _ := events.TryRecv()
	if !ok {
		t.Fatal("expected an event")
	}
	if _, isWakeup := ev.(term.WakeupEvent); !isWakeup {
		t.Errorf("event = %T, want WakeupEvent", ev)
	}

	g := backend.Lock()
	got := string(g.Value().data)
	g.Unlock()
	if got != "hello" {
		t.Errorf("advanced %q, want %q", got, "hello")
	}
}

func TestLoopWriteAndResize(t *testing.T) {
	proc := newFakeProcess()
	loop := NewLoop(proc, fairmutex.New(&recordingParser{}), term.NewChannel(), testLogger())
	loop.Start()
	defer loop.Shutdown()

	loop.Write([]byte("ls"))
	loop.Resize(term.CellSize(100, 30))
	loop.Write([]byte("\r"))

	waitFor(t, "input", func() bool {
		written, sizes, _ := proc.snapshot()
		return written == "ls\r" && len(sizes) == 1
	})

	_, sizes, _ := proc.snapshot()
	if sizes[0].Columns() != 100 || sizes[0].Lines() != 30 {
		t.Errorf("resize = %+v", sizes[0])
	}
}

func TestLoopShutdown(t *testing.T) {
	proc := newFakeProcess()
	events := term.NewChannel()
	loop := NewLoop(proc, fairmutex.New(&recordingParser{}), events, testLogger())
	loop.Start()

	loop.Shutdown()
	loop.Shutdown()

	select {
	case <-loop.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}

	if _, _, closed := proc.snapshot(); !closed {
		t.Error("process not closed")
	}

	var sawExit bool
	for {
		ev, ok, _ := events.TryRecv()
		if !ok {
			break
		}
		if _, isExit := ev.(term.ExitEvent); isExit {
			sawExit = true
		}
	}
	if !sawExit {
		t.Error("expected ExitEvent")
	}

	// Writes after exit must not block.
	loop.Write([]byte("late"))
}

func TestLoopExitOnHangup(t *testing.T) {
	proc := newFakeProcess()
	events := term.NewChannel()
	loop := NewLoop(proc, fairmutex.New(&recordingParser{}), events, testLogger())
	loop.Start()

	proc.in.Close()

	select {
	case <-loop.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on EOF")
	}
	waitFor(t, "writer close", func() bool {
		_, _, closed := proc.snapshot()
		return closed
	})
}

func TestSpawnShell(t *testing.T) {
	if testing.Short() {
		t.Skip("spawns a real shell")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}

	p, err := Spawn(Options{
		Shell: "/bin/sh",
		Args:  []string{"-c", "printf ready"},
		Size:  term.CellSize(80, 24),
	})
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	defer p.Close()

	if p.PID() <= 0 {
		t.Errorf("PID() = %d", p.PID())
	}
	if p.Fd() < 0 {
		t.Errorf("Fd() = %d", p.Fd())
	}

	var out strings.Builder
	buf := make([]byte, 256)
	for !strings.Contains(out.String(), "ready") {
		n, err := p.Read(buf)
		out.Write(buf[:n])
		if err != nil {
			break
		}
	}
	if !strings.Contains(out.String(), "ready") {
		t.Errorf("output = %q", out.String())
	}
	if code := p.Wait(); code != 0 {
		t.Errorf("exit code = %d", code)
	}
}

func TestSpawnMissingShell(t *testing.T) {
	_, err := Spawn(Options{Shell: "/nonexistent/shell"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrShellNotFound) {
		t.Errorf("err = %v", err)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("err = %v, want it to wrap the lookup error", err)
	}
}

// stalledProcess is a shell that stops reading its input.
type stalledProcess struct {
	*fakeProcess
	release chan struct{}
}

func (p *stalledProcess) Write(b []byte) (int, error) {
	<-p.release
	return p.fakeProcess.Write(b)
}

func TestLoopWriteNeverBlocks(t *testing.T) {
	proc := &stalledProcess{fakeProcess: newFakeProcess(), release: make(chan struct{})}
	backend := fairmutex.New(&recordingParser{})
	loop := NewLoop(proc, backend, term.NewChannel(), testLogger())
	loop.Start()
	defer loop.Shutdown()

	g := backend.LockUnfair()
	done := make(chan struct{})
	go func() {
		for i := 0; i < 300; i++ {
			loop.Write([]byte("x"))
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Write blocked while the backend was held")
	}
	g.Unlock()

	if _, err := proc.in.Write([]byte("out")); err != nil {
		t.Fatalf("write: %v", err)
	}
	waitFor(t, "output parsed", func() bool {
		g := backend.Lock()
		defer g.Unlock()
		return string(g.Value().data) == "out"
	})

	close(proc.release)
	waitFor(t, "queued input", func() bool {
		written, _, _ := proc.snapshot()
		return written == strings.Repeat("x", 300)
	})
}
