package session

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"syscall"

	"pkt.systems/pslog"

	"github.com/dshills/termsession/internal/clipboard"
	"github.com/dshills/termsession/internal/config"
	"github.com/dshills/termsession/internal/emulator"
	"github.com/dshills/termsession/internal/fairmutex"
	"github.com/dshills/termsession/internal/procinfo"
	"github.com/dshills/termsession/internal/ptyio"
	"github.com/dshills/termsession/internal/term"
	"github.com/dshills/termsession/internal/theme"
)

// New starts the shell described by cfg on a PTY of the given size and
// returns a session driving it. The logger stored in ctx is used unless
// an option overrides it. Spawn failures are returned as *TerminalError.
func New(ctx context.Context, cfg config.Config, size term.WindowSize, opts ...Option) (*Session, error) {
	palette, err := theme.New(cfg.Theme)
	if err != nil {
		return nil, fmt.Errorf("session theme: %w", err)
	}

	fail := func(err error) error {
		return &TerminalError{
			Directory: cfg.WorkingDirectory,
			Shell:     cfg.Shell,
			Args:      cfg.Args,
			Err:       err,
		}
	}

	dir := cfg.ResolveWorkingDirectory()
	if info, err := os.Stat(dir); err != nil {
		return nil, fail(err)
	} else if !info.IsDir() {
		return nil, fail(&fs.PathError{Op: "chdir", Path: dir, Err: syscall.ENOTDIR})
	}

	events := term.NewChannel()
	emu := emulator.New(emulator.Config{
		Size:       size,
		Scrollback: cfg.Scrollback,
		Listener:   events,
	})
	if cfg.Blinking {
		emu.SetMode(term.ModeBlinkingCursor, true)
	}
	if !cfg.AlternateScroll {
		emu.SetMode(term.ModeAlternateScroll, false)
	}

	p, err := ptyio.Spawn(ptyio.Options{
		Shell:            cfg.Shell,
		Args:             cfg.Args,
		Env:              environment(cfg.Env),
		WorkingDirectory: dir,
		Size:             size,
	})
	if err != nil {
		return nil, fail(err)
	}

	log := pslog.Ctx(ctx)
	backend := fairmutex.New[Backend](emu)
	loop := ptyio.NewLoop(p, backend, events, log)
	loop.Start()

	base := []Option{
		WithLogger(log),
		WithClipboard(clipboard.Default()),
		WithPalette(palette),
		WithProcessTracker(procinfo.NewTracker(p.Fd(), p.PID())),
		WithAltIsMeta(cfg.AltIsMeta),
	}
	s := newSession(ctx, backend, loop, events, size, append(base, opts...)...)
	s.log.Info("session started", "shell", p.Shell(), "pid", p.PID(), "dir", dir)
	return s, nil
}

// environment flattens env into KEY=VALUE pairs in key order and forces
// a UTF-8 locale.
func environment(env map[string]string) []string {
	merged := make(map[string]string, len(env)+1)
	for k, v := range env {
		merged[k] = v
	}
	merged["LC_ALL"] = "en_US.UTF-8"

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+merged[k])
	}
	return out
}
