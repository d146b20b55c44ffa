package main

import (
	"context"
	"errors"
	"strings"

	"github.com/gdamore/tcell/v2"
	"pkt.systems/pslog"

	"github.com/dshills/termsession/internal/config"
	"github.com/dshills/termsession/internal/input/key"
	"github.com/dshills/termsession/internal/input/mouse"
	"github.com/dshills/termsession/internal/notify"
	"github.com/dshills/termsession/internal/screen"
	"github.com/dshills/termsession/internal/session"
	"github.com/dshills/termsession/internal/term"
	"github.com/dshills/termsession/internal/theme"
)

// errExited ends the run when the shell exits.
var errExited = errors.New("shell exited")

// terminal is the part of a session the front end drives.
type terminal interface {
	mouse.Target

	Subscribe(observer notify.Observer) *notify.Subscription
	Sync()
	LastContent() session.Content
	Title() string

	SetSize(size term.WindowSize)
	TryKeystroke(e key.Event) bool
	Input(text string)
	Paste(text string)
	FocusIn()
	FocusOut()

	SetPalette(p session.Palette)
	SetAltIsMeta(on bool)
}

// app connects a screen to a session. Input is handled on one goroutine
// and drawing on another.
type app struct {
	screen *screen.Screen
	term   terminal

	mouse   *mouse.Handler
	buttons screen.Mouse

	pasting bool
	paste   strings.Builder

	// Requests from the session observer and the input loop. Each holds
	// at most one signal, so senders never block.
	dirty  chan struct{}
	title  chan struct{}
	bell   chan struct{}
	exited chan struct{}
}

func newApp(scr *screen.Screen, t terminal) *app {
	a := &app{
		screen: scr,
		term:   t,
		mouse:  mouse.NewHandler(t, mouse.DefaultConfig()),
		dirty:  make(chan struct{}, 1),
		title:  make(chan struct{}, 1),
		bell:   make(chan struct{}, 1),
		exited: make(chan struct{}, 1),
	}
	a.setRegion(scr.Size())
	return a
}

func (a *app) setRegion(size term.WindowSize) {
	a.mouse.SetRegion(mouse.Rect{Width: size.Width, Height: size.Height}, size.LineHeight)
}

func (a *app) redraw() {
	a.term.Sync()
	a.screen.Draw(a.term.LastContent())
}

func poke(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}

// requestRedraw asks the render loop to sync and draw. Input only queues
// work on the session, so it is applied by that sync.
func (a *app) requestRedraw() {
	poke(a.dirty)
}

// observe runs on the session's notifier goroutine. It only records
// what happened; the render loop does the work.
func (a *app) observe(e notify.Event) {
	switch e.Kind {
	case notify.Wakeup, notify.SelectionsChanged, notify.BlinkChanged:
		poke(a.dirty)
	case notify.TitleChanged:
		poke(a.title)
	case notify.Bell:
		poke(a.bell)
	case notify.CloseTerminal:
		poke(a.exited)
	}
}

// renderLoop redraws on session notifications and input until ctx is
// done or the shell exits.
func (a *app) renderLoop(ctx context.Context) error {
	sub := a.term.Subscribe(a.observe)
	defer sub.Unsubscribe()

	a.redraw()
	a.screen.SetTitle(a.term.Title())

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-a.dirty:
			a.redraw()
		case <-a.title:
			a.screen.SetTitle(a.term.Title())
		case <-a.bell:
			a.screen.Beep()
		case <-a.exited:
			return errExited
		}
	}
}

// inputLoop feeds screen input to the session until ctx is done.
func (a *app) inputLoop(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() { a.screen.Interrupt(nil) })
	defer stop()

	for {
		ev := a.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}
		a.handle(ev)
	}
}

func (a *app) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		size := a.screen.Size()
		a.term.SetSize(size)
		a.setRegion(size)
		a.requestRedraw()
	case *tcell.EventKey:
		a.key(ev)
		a.requestRedraw()
	case *tcell.EventPaste:
		if ev.Start() {
			a.pasting = true
			a.paste.Reset()
			return
		}
		a.pasting = false
		a.term.Paste(a.paste.String())
		a.requestRedraw()
	case *tcell.EventMouse:
		for _, e := range a.buttons.Events(ev) {
			a.mouse.Handle(e)
		}
		a.requestRedraw()
	case *tcell.EventFocus:
		if ev.Focused {
			a.term.FocusIn()
		} else {
			a.term.FocusOut()
		}
	}
}

func (a *app) key(ev *tcell.EventKey) {
	if a.pasting {
		switch ev.Key() {
		case tcell.KeyRune:
			a.paste.WriteRune(ev.Rune())
		case tcell.KeyEnter:
			a.paste.WriteByte('\n')
		case tcell.KeyTab:
			a.paste.WriteByte('\t')
		}
		return
	}

	e, ok := screen.KeyEvent(ev)
	if !ok {
		return
	}
	if a.term.TryKeystroke(e) {
		return
	}
	if e.IsRune() {
		a.term.Input(string(e.Rune))
	}
}

// reload applies the settings that can change while the shell runs.
func (a *app) reload(ctx context.Context) func(config.Config, error) {
	return func(cfg config.Config, err error) {
		if err != nil {
			return
		}
		palette, err := theme.New(cfg.Theme)
		if err != nil {
			pslog.Ctx(ctx).With("err", err).Warn("theme reload failed")
			return
		}
		a.term.SetPalette(palette)
		a.term.SetAltIsMeta(cfg.AltIsMeta)
	}
}
