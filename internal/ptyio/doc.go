// Package ptyio spawns a shell on a pseudo-terminal and runs the I/O
// loop that feeds its output into a terminal emulator.
//
// The Loop owns two goroutines. The reader takes a lease on the shared
// emulator lock, parses everything it read and then signals a wakeup on
// the notification listener. The writer drains the message queue in
// order: input bytes, resizes and the final shutdown.
//
// Basic usage:
//
//	p, err := ptyio.Spawn(ptyio.Options{Shell: "/bin/bash", Size: size})
//	if err != nil {
//	    return err
//	}
//	loop := ptyio.NewLoop(p, backend, events, logger)
//	loop.Start()
//	defer loop.Shutdown()
//
//	loop.Write([]byte("ls\r"))
package ptyio
