// Package term is the process transport: it opens a pseudo-terminal, starts
// a child process on it, and exposes the byte channel plus size and exit
// control. Everything above this package treats a child purely as a
// Process value
package term

import (
	"io"
	"os"
)

// Process is one child process attached to a pseudo-terminal. Read returns
// the child's output and an error after the child closes its side; Write
// delivers input to the child
type Process interface {
	io.ReadWriteCloser

	// SetSize reports a new terminal size to the child
	SetSize(rows int, cols int) error
	// TryWait reports the exit status without blocking. ok is false while
	// the child is still running
	TryWait() (status int, ok bool)
	// Wait blocks until the child exits and returns its status
	Wait() int
	// Signal delivers a signal to the child, best effort
	Signal(sig os.Signal) error
}

// Size is a terminal size in cells
type Size struct {
	Rows int
	Cols int
}
