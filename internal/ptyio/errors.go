package ptyio

import "errors"

// Sentinel errors for the ptyio package.
var (
	// ErrShellNotFound is returned when the shell executable is not found.
	ErrShellNotFound = errors.New("shell not found")

	// ErrClosed is returned when operations are attempted on a closed PTY.
	ErrClosed = errors.New("pty is closed")
)
