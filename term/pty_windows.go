package term

import (
	"errors"
	"os/exec"
)

var errUnsupported = errors.New("term: pty is not supported on windows")

// Spawn is not implemented on windows; conpty support would go here
func Spawn(cmd *exec.Cmd, size Size) (Process, error) {
	return nil, errUnsupported
}

// HostSize reports the size of the terminal attached to fd
func HostSize(fd int) (Size, error) {
	return Size{}, errUnsupported
}
