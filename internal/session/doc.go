// Package session coordinates one terminal pane.
//
// A Session sits between the emulator, which the PTY I/O goroutine
// drives, and the presentation layer. It owns:
//
//   - a pipeline that drains backend notifications in small batches so
//     heavy output cannot starve the consumer
//   - a queue of internal events that are applied to the emulator only
//     on Sync, under the shared fair lock
//   - the translation of pointer and keyboard input into terminal wire
//     protocol bytes or selection and scroll changes
//   - bounded regex search around the viewport
//   - tracking of the foreground process for the pane title
//
// Typical use:
//
//	s, err := session.New(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	s.Subscribe(func(ev notify.Event) {
//	    if ev.Kind == notify.Wakeup {
//	        redraw()
//	    }
//	})
//
//	// on every frame
//	s.Sync()
//	draw(s.LastContent())
package session
