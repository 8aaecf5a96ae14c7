package vt

import (
	"fmt"
	"os"
	"os/exec"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/weftterm/weft"
	"github.com/weftterm/weft/log"
	"github.com/weftterm/weft/term"
)

// redrawInterval is how often a dirty pane coalesces into a single Redraw
// event
const redrawInterval = 8 * time.Millisecond

// Pane couples one Grid to one child process. The reader goroutine is the
// grid's only writer; everything else reads snapshots or writes to the
// child
type Pane struct {
	// ID uniquely identifies the pane for hosts and events
	ID uuid.UUID

	grid *Grid
	opts weft.Options

	// mu guards proc and the exit state, and makes Resize atomic across
	// the grid and the transport
	mu     sync.Mutex
	proc   term.Process
	status int
	exited bool

	exitOnce  sync.Once
	closeOnce sync.Once

	dirty int32

	handlerMu sync.Mutex
	handler   func(weft.Event)

	events     chan weft.Event
	done       chan struct{}
	readerDone chan struct{}
}

// NewPane creates a pane with a rows by cols grid. The pane is inert until
// Start or StartWithProcess attaches a child
func NewPane(rows int, cols int, opts weft.Options) *Pane {
	if opts.Logger != nil {
		log.SetLogger(opts.Logger)
	}
	p := &Pane{
		ID:         uuid.New(),
		grid:       NewGrid(rows, cols, opts),
		opts:       opts,
		handler:    func(weft.Event) {},
		events:     make(chan weft.Event, 128),
		done:       make(chan struct{}),
		readerDone: make(chan struct{}),
	}
	p.grid.events = p.postEvent
	return p
}

// Start spawns cmd on a new pty sized to the grid and begins consuming its
// output. The child environment gains TERM and TERM_PROGRAM
func (p *Pane) Start(cmd *exec.Cmd) error {
	if cmd == nil {
		return fmt.Errorf("no command to run")
	}
	env := os.Environ()
	if p.opts.Environ != nil {
		env = p.opts.Environ
	}
	if cmd.Env != nil {
		env = cmd.Env
	}
	termEnv := p.opts.TERM
	if termEnv == "" {
		termEnv = "xterm-256color"
	}
	cmd.Env = append(env, "TERM="+termEnv, "TERM_PROGRAM=weft")

	rows, cols := p.grid.Size()
	proc, err := term.Spawn(cmd, term.Size{Rows: rows, Cols: cols})
	if err != nil {
		return fmt.Errorf("spawn: %w", err)
	}
	p.StartWithProcess(proc)
	return nil
}

// StartWithProcess begins consuming output from an already-open transport.
// Tests and remote transports enter here
func (p *Pane) StartWithProcess(proc term.Process) {
	p.mu.Lock()
	p.proc = proc
	p.grid.mu.Lock()
	p.grid.pty = proc
	p.grid.mu.Unlock()
	p.mu.Unlock()
	go p.reader()
	go p.pump()
}

// reader is the pane's only grid writer: read, decode, apply, repeat until
// the transport closes
func (p *Pane) reader() {
	defer close(p.readerDone)
	defer p.recover()
	buf := make([]byte, 8192)
	for {
		n, err := p.proc.Read(buf)
		if n > 0 {
			_, _ = p.grid.Write(buf[:n])
			atomic.StoreInt32(&p.dirty, 1)
		}
		if err != nil {
			break
		}
	}
	status := p.proc.Wait()
	p.finish(status, nil)
}

// pump delivers events to the attached handler and coalesces dirty state
// into Redraw events
func (p *Pane) pump() {
	tick := time.NewTicker(redrawInterval)
	defer tick.Stop()
	for {
		select {
		case ev := <-p.events:
			p.deliver(ev)
		case <-tick.C:
			if atomic.CompareAndSwapInt32(&p.dirty, 1, 0) {
				p.deliver(weft.Redraw{})
			}
		case <-p.done:
			for {
				select {
				case ev := <-p.events:
					p.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

func (p *Pane) deliver(ev weft.Event) {
	p.handlerMu.Lock()
	handler := p.handler
	p.handlerMu.Unlock()
	handler(ev)
}

// postEvent queues an event for the handler. Events are dropped rather
// than blocking the reader
func (p *Pane) postEvent(ev weft.Event) {
	select {
	case p.events <- ev:
	default:
		log.Warn("[vt] event dropped", "pane", p.ID)
	}
}

// Attach installs fn as the pane's event handler. Events arrive on the
// pane's own goroutine
func (p *Pane) Attach(fn func(weft.Event)) {
	p.handlerMu.Lock()
	defer p.handlerMu.Unlock()
	p.handler = fn
}

// Detach removes the event handler; subsequent events are discarded
func (p *Pane) Detach() {
	p.handlerMu.Lock()
	defer p.handlerMu.Unlock()
	p.handler = func(weft.Event) {}
}

// finish records the exit and posts EventClosed exactly once
func (p *Pane) finish(status int, err error) {
	p.exitOnce.Do(func() {
		p.mu.Lock()
		p.status = status
		p.exited = true
		p.mu.Unlock()
		p.postEvent(weft.EventClosed{Status: status, Err: err})
	})
}

// recover catches a panic in the reader goroutine, reports it, and tears
// the pane down without joining the reader (it is the reader)
func (p *Pane) recover() {
	r := recover()
	if r == nil {
		return
	}
	row, col := p.grid.CursorPos()
	msg := strings.Builder{}
	fmt.Fprintf(&msg, "cursor row=%d col=%d\n", row, col)
	fmt.Fprintf(&msg, "%v\n", r)
	msg.Write(debug.Stack())
	p.postEvent(weft.EventPanic(fmt.Errorf("%s", msg.String())))
	p.mu.Lock()
	proc := p.proc
	p.mu.Unlock()
	if proc != nil {
		_ = proc.Signal(syscall.SIGKILL)
		_ = proc.Close()
	}
	p.finish(-1, fmt.Errorf("pane reader panicked"))
}

// WriteInput sends raw bytes to the child. A write failure marks the pane
// exited with a synthetic status rather than surfacing the fault
func (p *Pane) WriteInput(b []byte) error {
	p.mu.Lock()
	proc := p.proc
	exited := p.exited
	p.mu.Unlock()
	if proc == nil || exited {
		return fmt.Errorf("pane is not running")
	}
	if _, err := proc.Write(b); err != nil {
		p.finish(-1, err)
		return err
	}
	return nil
}

// SendKey encodes a key event for the child, honoring the application
// cursor and keypad modes the child has set
func (p *Pane) SendKey(k weft.Key) {
	g := p.grid
	g.mu.Lock()
	keypad := g.mode&deckpam != 0
	cursor := g.mode&decckm != 0
	g.mu.Unlock()
	if s := encodeXterm(k, keypad, cursor); s != "" {
		_ = p.WriteInput([]byte(s))
	}
}

// Paste delivers pasted text, bracketed when the child has enabled
// bracketed paste, with newlines normalized to carriage returns otherwise
func (p *Pane) Paste(s string) {
	g := p.grid
	g.mu.Lock()
	bracketed := g.mode&paste != 0
	g.mu.Unlock()
	if bracketed {
		_ = p.WriteInput([]byte("\x1b[200~" + s + "\x1b[201~"))
		return
	}
	s = strings.ReplaceAll(s, "\r\n", "\r")
	s = strings.ReplaceAll(s, "\n", "\r")
	_ = p.WriteInput([]byte(s))
}

// SendMouse encodes a mouse event per the child's reporting modes. Events
// the child has not asked for are dropped
func (p *Pane) SendMouse(m weft.Mouse) {
	g := p.grid
	g.mu.Lock()
	s := g.encodeMouse(m)
	g.mu.Unlock()
	if s != "" {
		_ = p.WriteInput([]byte(s))
	}
}

// Resize applies a new size to the grid and the transport under one lock,
// so no reader or caller can observe a half-resized pane. A transport
// failure marks the pane exited
func (p *Pane) Resize(rows int, cols int) error {
	p.mu.Lock()
	p.grid.Resize(rows, cols)
	var err error
	if p.proc != nil && !p.exited {
		err = p.proc.SetSize(rows, cols)
	}
	p.mu.Unlock()
	if err != nil {
		p.finish(-1, err)
		return fmt.Errorf("set size: %w", err)
	}
	return nil
}

// PollExit reports the exit status without blocking. exited is false while
// the child runs
func (p *Pane) PollExit() (status int, exited bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.exited {
		return p.status, true
	}
	if p.proc == nil {
		return 0, false
	}
	return p.proc.TryWait()
}

// Close terminates the child (HUP, then KILL after a grace period), closes
// the transport, and joins the reader. Safe to call more than once
func (p *Pane) Close() {
	p.mu.Lock()
	proc := p.proc
	exited := p.exited
	p.mu.Unlock()
	if proc == nil {
		return
	}
	if !exited {
		_ = proc.Signal(syscall.SIGHUP)
		select {
		case <-p.readerDone:
		case <-time.After(100 * time.Millisecond):
			_ = proc.Signal(syscall.SIGKILL)
		}
	}
	_ = proc.Close()
	<-p.readerDone
	p.closeOnce.Do(func() { close(p.done) })
}

// Grid reads proxy straight to the pane's grid

func (p *Pane) Snapshot() weft.Screen { return p.grid.Snapshot() }

func (p *Pane) String() string { return p.grid.String() }

func (p *Pane) HistoryString() string { return p.grid.HistoryString() }

func (p *Pane) Blocks() []Block { return p.grid.Blocks() }

func (p *Pane) Title() string { return p.grid.Title() }

func (p *Pane) WorkingDirectory() string { return p.grid.WorkingDirectory() }

func (p *Pane) CursorPos() (row int, col int) { return p.grid.CursorPos() }

func (p *Pane) Size() (rows int, cols int) { return p.grid.Size() }

func (p *Pane) Search(s string) []Position { return p.grid.Search(s) }
