package vt

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weftterm/weft"
	"github.com/weftterm/weft/term"
)

// fakeProc is an in-memory term.Process. The test side writes child output
// with emit and reads child input with input
type fakeProc struct {
	r *io.PipeReader
	w *io.PipeWriter

	mu       sync.Mutex
	in       strings.Builder
	sizes    []term.Size
	signals  []os.Signal
	status   int
	writeErr error
	sizeErr  error

	exitOnce sync.Once
	done     chan struct{}
}

func newFakeProc() *fakeProc {
	r, w := io.Pipe()
	return &fakeProc{r: r, w: w, done: make(chan struct{})}
}

// emit writes child output, as if the child printed it
func (f *fakeProc) emit(s string) {
	_, _ = f.w.Write([]byte(s))
}

// exit ends the child with status and closes the output stream
func (f *fakeProc) exit(status int) {
	f.exitOnce.Do(func() {
		f.mu.Lock()
		f.status = status
		f.mu.Unlock()
		close(f.done)
		_ = f.w.Close()
	})
}

func (f *fakeProc) input() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.in.String()
}

func (f *fakeProc) Read(p []byte) (int, error) {
	return f.r.Read(p)
}

func (f *fakeProc) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.in.Write(p)
	return len(p), nil
}

func (f *fakeProc) Close() error {
	f.exit(0)
	_ = f.r.Close()
	return nil
}

func (f *fakeProc) SetSize(rows int, cols int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sizeErr != nil {
		return f.sizeErr
	}
	f.sizes = append(f.sizes, term.Size{Rows: rows, Cols: cols})
	return nil
}

func (f *fakeProc) TryWait() (int, bool) {
	select {
	case <-f.done:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.status, true
	default:
		return 0, false
	}
}

func (f *fakeProc) Wait() int {
	<-f.done
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeProc) Signal(sig os.Signal) error {
	f.mu.Lock()
	f.signals = append(f.signals, sig)
	f.mu.Unlock()
	if sig == syscall.SIGHUP || sig == syscall.SIGKILL {
		f.exit(1)
	}
	return nil
}

// recorder collects pane events for assertion
type recorder struct {
	mu     sync.Mutex
	events []weft.Event
}

func (r *recorder) record(ev weft.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) closed() []weft.EventClosed {
	r.mu.Lock()
	defer r.mu.Unlock()
	var closed []weft.EventClosed
	for _, ev := range r.events {
		if c, ok := ev.(weft.EventClosed); ok {
			closed = append(closed, c)
		}
	}
	return closed
}

func (r *recorder) sawRedraw() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if _, ok := ev.(weft.Redraw); ok {
			return true
		}
	}
	return false
}

const (
	waitFor = 2 * time.Second
	tick    = 5 * time.Millisecond
)

func startTestPane(t *testing.T) (*Pane, *fakeProc, *recorder) {
	t.Helper()
	p := NewPane(8, 40, weft.Options{})
	rec := &recorder{}
	p.Attach(rec.record)
	fp := newFakeProc()
	p.StartWithProcess(fp)
	t.Cleanup(func() {
		fp.exit(0)
		p.Close()
	})
	return p, fp, rec
}

// waitOutput blocks until the pane has consumed output containing marker
func waitOutput(t *testing.T, p *Pane, marker string) {
	t.Helper()
	require.Eventually(t, func() bool {
		return strings.Contains(p.String(), marker)
	}, waitFor, tick)
}

func TestPaneOutput(t *testing.T) {
	p, fp, rec := startTestPane(t)

	fp.emit("hello from child")
	waitOutput(t, p, "hello from child")

	assert.Eventually(t, rec.sawRedraw, waitFor, tick)
}

func TestPaneExitReportedOnce(t *testing.T) {
	p, fp, rec := startTestPane(t)

	fp.emit("bye")
	waitOutput(t, p, "bye")
	fp.exit(3)

	require.Eventually(t, func() bool {
		return len(rec.closed()) > 0
	}, waitFor, tick)
	// give a duplicate a chance to appear
	time.Sleep(50 * time.Millisecond)

	closed := rec.closed()
	require.Len(t, closed, 1)
	assert.Equal(t, 3, closed[0].Status)

	status, exited := p.PollExit()
	assert.True(t, exited)
	assert.Equal(t, 3, status)
	// output consumed before the exit was reported
	assert.Contains(t, p.String(), "bye")
}

func TestPanePollExit(t *testing.T) {
	p, fp, _ := startTestPane(t)

	_, exited := p.PollExit()
	assert.False(t, exited)

	fp.exit(0)
	assert.Eventually(t, func() bool {
		_, exited := p.PollExit()
		return exited
	}, waitFor, tick)
}

func TestPaneWriteInput(t *testing.T) {
	p, fp, _ := startTestPane(t)

	require.NoError(t, p.WriteInput([]byte("ls\r")))
	assert.Equal(t, "ls\r", fp.input())
}

func TestPaneWriteInputFailure(t *testing.T) {
	p, fp, rec := startTestPane(t)

	fp.mu.Lock()
	fp.writeErr = fmt.Errorf("broken pipe")
	fp.mu.Unlock()

	require.Error(t, p.WriteInput([]byte("x")))

	// the pane reports a synthetic exit
	require.Eventually(t, func() bool {
		return len(rec.closed()) > 0
	}, waitFor, tick)
	assert.Equal(t, -1, rec.closed()[0].Status)

	// and refuses further input
	assert.Error(t, p.WriteInput([]byte("y")))
}

func TestPaneSendKey(t *testing.T) {
	p, fp, _ := startTestPane(t)

	p.SendKey(weft.Key{Codepoint: 'a'})
	p.SendKey(weft.Key{Codepoint: weft.KeyUp})
	assert.Equal(t, "a\x1b[A", fp.input())

	// application cursor keys after the child enables DECCKM
	fp.emit("\x1b[?1hX")
	waitOutput(t, p, "X")
	p.SendKey(weft.Key{Codepoint: weft.KeyUp})
	assert.Equal(t, "a\x1b[A\x1bOA", fp.input())
}

func TestPanePaste(t *testing.T) {
	p, fp, _ := startTestPane(t)

	p.Paste("one\ntwo\r\nthree")
	assert.Equal(t, "one\rtwo\rthree", fp.input())

	fp.emit("\x1b[?2004hX")
	waitOutput(t, p, "X")
	p.Paste("hi")
	assert.Equal(t, "one\rtwo\rthree\x1b[200~hi\x1b[201~", fp.input())
}

func TestPaneSendMouse(t *testing.T) {
	p, fp, _ := startTestPane(t)

	// dropped while the child has not enabled reporting
	p.SendMouse(weft.Mouse{Button: weft.MouseLeftButton, EventType: weft.EventPress})
	assert.Equal(t, "", fp.input())

	fp.emit("\x1b[?1000h\x1b[?1006hX")
	waitOutput(t, p, "X")
	p.SendMouse(weft.Mouse{Button: weft.MouseLeftButton, Row: 1, Col: 2, EventType: weft.EventPress})
	assert.Equal(t, "\x1b[<0;3;2M", fp.input())
}

func TestPaneQueryResponse(t *testing.T) {
	_, fp, _ := startTestPane(t)

	// cursor position reports flow back to the child
	fp.emit("\x1b[6n")
	require.Eventually(t, func() bool {
		return fp.input() == "\x1b[1;1R"
	}, waitFor, tick)
}

func TestPaneResize(t *testing.T) {
	p, fp, _ := startTestPane(t)

	require.NoError(t, p.Resize(10, 50))
	rows, cols := p.Size()
	assert.Equal(t, 10, rows)
	assert.Equal(t, 50, cols)

	fp.mu.Lock()
	sizes := append([]term.Size(nil), fp.sizes...)
	fp.mu.Unlock()
	require.Len(t, sizes, 1)
	assert.Equal(t, term.Size{Rows: 10, Cols: 50}, sizes[0])
}

func TestPaneResizeTransportFailure(t *testing.T) {
	p, fp, rec := startTestPane(t)

	fp.mu.Lock()
	fp.sizeErr = fmt.Errorf("ioctl failed")
	fp.mu.Unlock()

	require.Error(t, p.Resize(10, 50))
	require.Eventually(t, func() bool {
		return len(rec.closed()) > 0
	}, waitFor, tick)
	assert.Equal(t, -1, rec.closed()[0].Status)
}

func TestPaneClose(t *testing.T) {
	p, fp, rec := startTestPane(t)

	fp.emit("running")
	waitOutput(t, p, "running")

	p.Close()
	_, exited := p.PollExit()
	assert.True(t, exited)
	assert.Eventually(t, func() bool {
		return len(rec.closed()) > 0
	}, waitFor, tick)

	// idempotent
	p.Close()
}

func TestPaneDetach(t *testing.T) {
	p, fp, rec := startTestPane(t)

	fp.emit("one")
	waitOutput(t, p, "one")
	assert.Eventually(t, rec.sawRedraw, waitFor, tick)

	p.Detach()
	before := len(rec.closed())
	fp.exit(0)
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, rec.closed(), before)
}

func TestPaneReads(t *testing.T) {
	p, fp, _ := startTestPane(t)

	fp.emit("\x1b]2;mytitle\x07line one\r\n\r\nline two")
	waitOutput(t, p, "line two")

	assert.Equal(t, "mytitle", p.Title())
	snap := p.Snapshot()
	assert.Equal(t, "mytitle", snap.Title)

	blocks := p.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, "line one", blocks[0].Text)

	assert.NotEmpty(t, p.Search("line"))
	assert.Contains(t, p.HistoryString(), "line one")
}
