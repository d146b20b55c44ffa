package session

import (
	"context"
	"runtime"
	"time"

	"github.com/dshills/termsession/internal/notify"
	"github.com/dshills/termsession/internal/term"
)

const (
	// batchWindow is how long the pipeline gathers notifications after
	// the first one before handling them together.
	batchWindow = 4 * time.Millisecond

	// maxBatch caps a batch; a batch is handed off once it holds more.
	maxBatch = 100
)

// run drains backend notifications until the channel is closed and
// empty or ctx is done. The first notification after a quiet period is
// handled at once; the ones that follow are gathered for batchWindow and
// handled in one step.
func (s *Session) run(ctx context.Context) {
	defer close(s.done)

	for {
		ev, ok := s.events.Recv(ctx)
		if !ok {
			s.log.Debug("notification channel closed")
			return
		}
		s.handleBatch([]term.Event{ev})

		for {
			batch, closed := s.collect(ctx)
			if len(batch) > 0 {
				s.handleBatch(batch)
			}
			if closed {
				s.log.Debug("notification channel closed")
				return
			}
			runtime.Gosched()
			if len(batch) == 0 {
				break
			}
		}
	}
}

// collect gathers notifications until batchWindow elapses or the batch
// exceeds maxBatch. closed reports that no more notifications will come.
func (s *Session) collect(ctx context.Context) (batch []term.Event, closed bool) {
	timer := time.NewTimer(batchWindow)
	defer timer.Stop()

	for {
		ev, ok, isClosed := s.events.TryRecv()
		if ok {
			batch = append(batch, ev)
			if len(batch) > maxBatch {
				return batch, false
			}
			continue
		}
		if isClosed {
			return batch, true
		}

		select {
		case <-s.events.Ready():
		case <-timer.C:
			return batch, false
		case <-ctx.Done():
			return batch, true
		}
	}
}

func (s *Session) handleBatch(batch []term.Event) {
	s.mu.Lock()
	for _, ev := range batch {
		s.handleBackendEvent(ev)
	}
	out := s.takeOutbox()
	s.mu.Unlock()

	s.flush(out)
}

// handleBackendEvent reacts to one emulator or I/O notification.
// The caller holds s.mu.
func (s *Session) handleBackendEvent(ev term.Event) {
	switch ev := ev.(type) {
	case term.TitleEvent:
		s.breadcrumb = ev.Title
	case term.ResetTitleEvent:
		s.breadcrumb = ""
	case term.ClipboardStoreEvent:
		if err := s.clipboard.Store(ev.Text); err != nil {
			s.log.With("err", err).Debug("clipboard store failed")
		}
	case term.ClipboardLoadEvent:
		text, err := s.clipboard.Load()
		if err != nil {
			s.log.With("err", err).Debug("clipboard load failed")
			text = ""
		}
		s.writeString(ev.Format(text))
	case term.PtyWriteEvent:
		s.writeString(ev.Text)
	case term.TextAreaSizeRequestEvent:
		s.writeString(ev.Format(s.size))
	case term.CursorBlinkingChangeEvent:
		s.queue(notify.Event{Kind: notify.BlinkChanged, Blinking: ev.Blinking})
	case term.BellEvent:
		s.publish(notify.Bell)
	case term.ExitEvent:
		s.log.Info("terminal exited")
		s.publish(notify.CloseTerminal)
	case term.MouseCursorDirtyEvent:
	case term.WakeupEvent:
		s.publish(notify.Wakeup)
		if s.updateProcessInfo() {
			s.publish(notify.TitleChanged)
		}
	case term.ColorRequestEvent:
		s.pending = append(s.pending, colorRequestEvent{index: ev.Index, format: ev.Format})
	}
}

func (s *Session) updateProcessInfo() bool {
	if s.process == nil {
		return false
	}
	return s.process.Update()
}

func (s *Session) writeString(text string) {
	if text == "" {
		return
	}
	s.pty.Write([]byte(text))
}
