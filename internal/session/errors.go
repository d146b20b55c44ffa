package session

import (
	"fmt"
	"os"
	"strings"
)

// TerminalError reports a failure to start the shell.
type TerminalError struct {
	// Directory is the requested working directory. Empty means the
	// home directory was used.
	Directory string

	// Shell is the requested program. Empty means the system shell.
	Shell string

	// Args are the requested shell arguments.
	Args []string

	// Err is the underlying OS error.
	Err error
}

// Error implements the error interface.
func (e *TerminalError) Error() string {
	return fmt.Sprintf("Working directory: %s Shell command: `%s`, IOError: %v",
		e.formatDirectory(), e.formatShell(), e.Err)
}

// Unwrap returns the underlying error.
func (e *TerminalError) Unwrap() error {
	return e.Err
}

func (e *TerminalError) formatDirectory() string {
	if e.Directory != "" {
		return e.Directory
	}
	if home, err := os.UserHomeDir(); err == nil {
		return "<none specified, using home directory> " + home
	}
	return "<none specified, could not find home directory>"
}

func (e *TerminalError) formatShell() string {
	if e.Shell == "" {
		return "<none specified, using system defined shell>"
	}
	if len(e.Args) == 0 {
		return e.Shell
	}
	return e.Shell + " " + strings.Join(e.Args, " ")
}
