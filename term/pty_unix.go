//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris || zos

package term

import (
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// process is a child running on a unix pseudo-terminal
type process struct {
	cmd *exec.Cmd
	pty *os.File

	done chan struct{}

	mu     sync.Mutex
	status int
	exited bool
}

// Spawn starts cmd on a new pseudo-terminal of the given size. The child
// becomes a session leader with the pty as its controlling terminal
func Spawn(cmd *exec.Cmd, size Size) (Process, error) {
	ws := &pty.Winsize{
		Rows: uint16(size.Rows),
		Cols: uint16(size.Cols),
	}
	f, err := pty.StartWithAttrs(cmd, ws, &syscall.SysProcAttr{
		Setsid:  true,
		Setctty: true,
	})
	if err != nil {
		return nil, err
	}
	p := &process{
		cmd:  cmd,
		pty:  f,
		done: make(chan struct{}),
	}
	go p.reap()
	return p, nil
}

// reap waits for the child exactly once. Wait and TryWait observe the
// stored status rather than racing on wait(2)
func (p *process) reap() {
	err := p.cmd.Wait()
	status := 0
	if err != nil {
		status = 1
		if exit, ok := err.(*exec.ExitError); ok {
			status = exit.ExitCode()
		}
	}
	p.mu.Lock()
	p.status = status
	p.exited = true
	p.mu.Unlock()
	close(p.done)
}

func (p *process) Read(b []byte) (int, error) {
	return p.pty.Read(b)
}

func (p *process) Write(b []byte) (int, error) {
	return p.pty.Write(b)
}

func (p *process) Close() error {
	return p.pty.Close()
}

func (p *process) SetSize(rows int, cols int) error {
	return pty.Setsize(p.pty, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
}

func (p *process) TryWait() (int, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status, p.exited
}

func (p *process) Wait() int {
	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *process) Signal(sig os.Signal) error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Signal(sig)
}

// HostSize reports the size of the terminal attached to fd, for hosts that
// mirror their own window into a session
func HostSize(fd int) (Size, error) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err != nil {
		return Size{}, err
	}
	return Size{Rows: int(ws.Row), Cols: int(ws.Col)}, nil
}
