package ptyio

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/creack/pty"

	"github.com/dshills/termsession/internal/term"
)

// Options configures a spawned shell.
type Options struct {
	// Shell is the shell executable (defaults to $SHELL or /bin/sh).
	Shell string

	// Args are passed to the shell.
	Args []string

	// Env are additional environment variables.
	Env []string

	// WorkingDirectory is the shell's starting directory.
	WorkingDirectory string

	// Size is the initial window size.
	Size term.WindowSize
}

// Pty is a running shell attached to a pseudo-terminal master.
type Pty struct {
	file *os.File
	cmd  *exec.Cmd
	fd   int

	closed atomic.Bool
	wait   sync.Once
	state  *os.ProcessState
}

// DefaultShell returns $SHELL, or /bin/sh when unset.
func DefaultShell() string {
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "/bin/sh"
}

// Spawn starts the shell described by opts on a new PTY.
func Spawn(opts Options) (*Pty, error) {
	if opts.Shell == "" {
		opts.Shell = DefaultShell()
	}
	if _, err := exec.LookPath(opts.Shell); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShellNotFound, opts.Shell, err)
	}

	cmd := exec.Command(opts.Shell, opts.Args...)
	cmd.Dir = opts.WorkingDirectory
	cmd.Env = append(os.Environ(), "TERM=xterm-256color", "COLORTERM=truecolor")
	cmd.Env = append(cmd.Env, opts.Env...)

	file, err := pty.StartWithSize(cmd, winsize(opts.Size))
	if err != nil {
		return nil, fmt.Errorf("start pty: %w", err)
	}

	p := &Pty{file: file, cmd: cmd, fd: -1}

	// os.File.Fd would switch the master to blocking mode, which keeps
	// Close from interrupting a pending Read.
	if rc, err := file.SyscallConn(); err == nil {
		_ = rc.Control(func(fd uintptr) { p.fd = int(fd) })
	}
	return p, nil
}

func winsize(size term.WindowSize) *pty.Winsize {
	return &pty.Winsize{
		Rows: uint16(size.Lines()),
		Cols: uint16(size.Columns()),
		X:    uint16(size.Width),
		Y:    uint16(size.Height),
	}
}

// Fd returns the master file descriptor, or -1 if it is unavailable.
func (p *Pty) Fd() int {
	return p.fd
}

// Shell returns the path of the running shell.
func (p *Pty) Shell() string {
	return p.cmd.Path
}

// PID returns the shell process ID.
func (p *Pty) PID() int {
	if p.cmd.Process == nil {
		return -1
	}
	return p.cmd.Process.Pid
}

func (p *Pty) Read(buf []byte) (int, error) {
	return p.file.Read(buf)
}

func (p *Pty) Write(data []byte) (int, error) {
	if p.closed.Load() {
		return 0, ErrClosed
	}
	return p.file.Write(data)
}

// Resize changes the PTY window size.
func (p *Pty) Resize(size term.WindowSize) error {
	if p.closed.Load() {
		return ErrClosed
	}
	if err := pty.Setsize(p.file, winsize(size)); err != nil {
		return fmt.Errorf("resize pty: %w", err)
	}
	return nil
}

// Close hangs up the shell and closes the master.
func (p *Pty) Close() error {
	if p.closed.Swap(true) {
		return nil
	}
	if p.cmd.Process != nil {
		_ = p.cmd.Process.Signal(syscall.SIGHUP)
	}
	return p.file.Close()
}

// Wait waits for the shell to exit and returns its exit code.
func (p *Pty) Wait() int {
	p.wait.Do(func() {
		if p.cmd.Process != nil {
			p.state, _ = p.cmd.Process.Wait()
		}
	})
	if p.state == nil {
		return -1
	}
	return p.state.ExitCode()
}
