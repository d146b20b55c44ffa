// Package procinfo identifies the process in the foreground of a terminal.
package procinfo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// ErrNoProcess is returned when no process can be resolved.
var ErrNoProcess = errors.New("no such process")

// Info identifies a process by working directory and executable name.
type Info struct {
	Cwd  string
	Name string
}

// ForegroundPID returns the foreground process group of the terminal
// open on fd.
func ForegroundPID(fd int) (int, error) {
	if fd < 0 {
		return 0, fmt.Errorf("foreground pid: %w", unix.EBADF)
	}
	pgrp, err := unix.IoctlGetInt(fd, unix.TIOCGPGRP)
	if err != nil {
		return 0, fmt.Errorf("foreground pid: %w", err)
	}
	return pgrp, nil
}

// Lookup resolves pid through /proc.
func Lookup(pid int) (Info, error) {
	if pid <= 0 {
		return Info{}, ErrNoProcess
	}
	dir := filepath.Join("/proc", strconv.Itoa(pid))

	cwd, err := os.Readlink(filepath.Join(dir, "cwd"))
	if err != nil {
		return Info{}, fmt.Errorf("lookup %d: %w", pid, err)
	}

	name := ""
	if exe, err := os.Readlink(filepath.Join(dir, "exe")); err == nil {
		name = filepath.Base(strings.TrimSuffix(exe, " (deleted)"))
	} else if comm, err := os.ReadFile(filepath.Join(dir, "comm")); err == nil {
		name = strings.TrimSpace(string(comm))
	} else {
		return Info{}, fmt.Errorf("lookup %d: %w", pid, err)
	}

	return Info{Cwd: cwd, Name: name}, nil
}

// Tracker caches the identity of a terminal's foreground process.
type Tracker struct {
	fd       int
	shellPID int

	foreground func(fd int) (int, error)
	lookup     func(pid int) (Info, error)

	current *Info
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithForeground replaces the foreground process group query.
func WithForeground(fn func(fd int) (int, error)) Option {
	return func(t *Tracker) {
		t.foreground = fn
	}
}

// WithLookup replaces the process resolver.
func WithLookup(fn func(pid int) (Info, error)) Option {
	return func(t *Tracker) {
		t.lookup = fn
	}
}

// NewTracker tracks the terminal on fd whose shell is shellPID.
func NewTracker(fd, shellPID int, opts ...Option) *Tracker {
	t := &Tracker{
		fd:         fd,
		shellPID:   shellPID,
		foreground: ForegroundPID,
		lookup:     Lookup,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Update re-resolves the foreground process and reports whether its
// identity changed. When nothing can be resolved the cache is kept and
// Update returns false.
func (t *Tracker) Update() bool {
	pid, err := t.foreground(t.fd)
	if err != nil || pid <= 0 {
		pid = t.shellPID
	}

	info, err := t.lookup(pid)
	if err != nil {
		return false
	}

	changed := t.current == nil ||
		t.current.Cwd != info.Cwd ||
		t.current.Name != info.Name
	t.current = &info
	return changed
}

// Current returns the cached identity.
func (t *Tracker) Current() (Info, bool) {
	if t.current == nil {
		return Info{}, false
	}
	return *t.current, true
}
