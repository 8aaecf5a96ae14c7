package session

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	"github.com/weftterm/weft"
	"github.com/weftterm/weft/log"
	"github.com/weftterm/weft/vt"
)

// Options configures a session
type Options struct {
	// Shell is the command run in every new pane. Defaults to $SHELL,
	// then /bin/sh
	Shell string
	// Pane options are passed through to every pane
	Pane weft.Options
}

// PaneEvent is a pane event tagged with the pane that produced it. Events
// originating from the session itself carry a zero Pane id
type PaneEvent struct {
	Pane  uuid.UUID
	Event weft.Event
}

// Tab is one pane tree plus its focused leaf
type Tab struct {
	Tree    *Tree
	Focused NodeID
	Title   string
}

// Session is an ordered set of tabs and the active focus. All topology
// mutation (split, close, resize, focus) happens under one structural
// lock; pane I/O never holds it
type Session struct {
	mu     sync.Mutex
	tabs   []*Tab
	active int
	rows   int
	cols   int
	opts   Options
	events chan PaneEvent
	closed bool
}

// New creates a session of the given size with one tab running the shell
func New(rows int, cols int, opts Options) (*Session, error) {
	if rows < MinPaneRows || cols < MinPaneCols {
		return nil, ErrPaneTooSmall
	}
	if opts.Shell == "" {
		opts.Shell = os.Getenv("SHELL")
	}
	if opts.Shell == "" {
		opts.Shell = "/bin/sh"
	}
	if opts.Pane.Logger != nil {
		log.SetLogger(opts.Pane.Logger)
	}
	s := &Session{
		rows:   rows,
		cols:   cols,
		opts:   opts,
		events: make(chan PaneEvent, 128),
	}
	if err := s.addTab(); err != nil {
		return nil, err
	}
	return s, nil
}

// Events delivers pane events, fan-in across all panes. The channel is
// never closed; a session-level EventClosed signals the end
func (s *Session) Events() <-chan PaneEvent {
	return s.events
}

// addTab appends a tab with a single shell pane and activates it
func (s *Session) addTab() error {
	tree := NewTree(s.rows, s.cols)
	root := tree.Root()
	rect, _ := tree.Rect(root)
	pane, err := s.spawn(rect)
	if err != nil {
		return err
	}
	if err := tree.SetPane(root, pane); err != nil {
		return err
	}
	s.tabs = append(s.tabs, &Tab{Tree: tree, Focused: root})
	s.active = len(s.tabs) - 1
	return nil
}

// spawn starts a shell pane sized to rect and wires its events into the
// session fan-in
func (s *Session) spawn(rect Rect) (*vt.Pane, error) {
	pane := vt.NewPane(rect.Rows, rect.Cols, s.opts.Pane)
	pane.Attach(func(ev weft.Event) {
		s.post(PaneEvent{Pane: pane.ID, Event: ev})
		if _, ok := ev.(weft.EventClosed); ok {
			// the shell exited: collapse its pane
			go s.reap(pane.ID)
		}
	})
	if err := pane.Start(exec.Command(s.opts.Shell)); err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	return pane, nil
}

func (s *Session) post(ev PaneEvent) {
	select {
	case s.events <- ev:
	default:
		log.Warn("[session] event dropped", "pane", ev.Pane)
	}
}

// reap closes the node of an exited pane wherever it lives
func (s *Session) reap(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ti, tab := range s.tabs {
		for _, leaf := range tab.Tree.Leaves() {
			pane := tab.Tree.Pane(leaf)
			if pane == nil || pane.ID != id {
				continue
			}
			s.closeLeaf(ti, leaf)
			return
		}
	}
}

// SplitFocused splits the focused leaf, starts a shell in the new leaf,
// and focuses it
func (s *Session) SplitFocused(o Orientation, ratio float64) (NodeID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tab := s.activeTab()
	if tab == nil {
		return 0, ErrNotFound
	}
	newLeaf, err := tab.Tree.Split(tab.Focused, o, ratio)
	if err != nil {
		return 0, err
	}
	rect, _ := tab.Tree.Rect(newLeaf)
	pane, err := s.spawn(rect)
	if err != nil {
		// undo the split rather than leave an empty leaf
		_, _ = tab.Tree.Close(newLeaf)
		tab.Focused = s.refocus(tab, tab.Focused)
		return 0, err
	}
	_ = tab.Tree.SetPane(newLeaf, pane)
	s.resizeTab(tab)
	tab.Focused = newLeaf
	return newLeaf, nil
}

// refocus maps a possibly-stale focus handle to a live leaf
func (s *Session) refocus(tab *Tab, want NodeID) NodeID {
	if tab.Tree.Pane(want) != nil {
		return want
	}
	return tab.Tree.firstLeaf(tab.Tree.Root())
}

// CloseFocused closes the focused pane. Focus moves to the leftmost leaf
// of the sibling subtree; an emptied tab closes, and closing the last pane
// ends the session
func (s *Session) CloseFocused() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tab := s.activeTab()
	if tab == nil {
		return ErrNotFound
	}
	return s.closeLeaf(s.active, tab.Focused)
}

// ClosePane closes a pane in the active tab by handle
func (s *Session) ClosePane(id NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLeaf(s.active, id)
}

// closeLeaf closes a leaf in tab ti under the structural lock
func (s *Session) closeLeaf(ti int, id NodeID) error {
	if ti < 0 || ti >= len(s.tabs) {
		return ErrNotFound
	}
	tab := s.tabs[ti]
	pane := tab.Tree.Pane(id)
	if pane == nil {
		return ErrNotFound
	}
	pane.Detach()
	go pane.Close()

	sibling, err := tab.Tree.Close(id)
	if err != nil {
		return err
	}
	if !tab.Tree.Empty() {
		s.resizeTab(tab)
		if tab.Focused == id || tab.Tree.Pane(tab.Focused) == nil {
			tab.Focused = tab.Tree.firstLeaf(sibling)
		}
		return nil
	}

	// the tab emptied
	s.tabs = slices.Delete(s.tabs, ti, ti+1)
	if len(s.tabs) == 0 {
		if !s.closed {
			s.closed = true
			s.post(PaneEvent{Event: weft.EventClosed{}})
		}
		return nil
	}
	if s.active >= len(s.tabs) {
		s.active = len(s.tabs) - 1
	}
	s.resizeTab(s.activeTab())
	return nil
}

// NewTab opens a tab running the shell and activates it
func (s *Session) NewTab() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addTab()
}

// CloseTab closes every pane in tab i
func (s *Session) CloseTab(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.tabs) {
		return ErrNotFound
	}
	tab := s.tabs[i]
	for {
		leaves := tab.Tree.Leaves()
		if len(leaves) == 0 {
			return nil
		}
		if err := s.closeLeaf(i, leaves[0]); err != nil {
			return err
		}
		if i >= len(s.tabs) || s.tabs[i] != tab {
			// the tab emptied and was removed
			return nil
		}
	}
}

// NextTab activates the following tab, wrapping
func (s *Session) NextTab() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tabs) == 0 {
		return
	}
	s.active = (s.active + 1) % len(s.tabs)
	s.resizeTab(s.activeTab())
}

// PrevTab activates the preceding tab, wrapping
func (s *Session) PrevTab() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tabs) == 0 {
		return
	}
	s.active = (s.active + len(s.tabs) - 1) % len(s.tabs)
	s.resizeTab(s.activeTab())
}

// ActiveTab returns the index of the active tab
func (s *Session) ActiveTab() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Tabs returns the number of open tabs
func (s *Session) Tabs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tabs)
}

func (s *Session) activeTab() *Tab {
	if s.active < 0 || s.active >= len(s.tabs) {
		return nil
	}
	return s.tabs[s.active]
}

// Focus moves keyboard focus to leaf id in the active tab
func (s *Session) Focus(id NodeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tab := s.activeTab()
	if tab == nil || tab.Tree.Pane(id) == nil {
		return ErrNotFound
	}
	tab.Focused = id
	return nil
}

// FocusNext moves focus to the next leaf in traversal order, wrapping
func (s *Session) FocusNext() {
	s.cycleFocus(1)
}

// FocusPrev moves focus to the previous leaf in traversal order, wrapping
func (s *Session) FocusPrev() {
	s.cycleFocus(-1)
}

func (s *Session) cycleFocus(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tab := s.activeTab()
	if tab == nil {
		return
	}
	leaves := tab.Tree.Leaves()
	if len(leaves) == 0 {
		return
	}
	i := slices.Index(leaves, tab.Focused)
	if i < 0 {
		i = 0
	}
	i = (i + delta + len(leaves)) % len(leaves)
	tab.Focused = leaves[i]
}

// Focused returns the focused pane, nil when the session is empty
func (s *Session) Focused() *vt.Pane {
	s.mu.Lock()
	defer s.mu.Unlock()
	tab := s.activeTab()
	if tab == nil {
		return nil
	}
	return tab.Tree.Pane(tab.Focused)
}

// FocusedNode returns the focused leaf handle in the active tab
func (s *Session) FocusedNode() NodeID {
	s.mu.Lock()
	defer s.mu.Unlock()
	tab := s.activeTab()
	if tab == nil {
		return 0
	}
	return tab.Focused
}

// RouteKey delivers a key event to the focused pane
func (s *Session) RouteKey(k weft.Key) {
	if pane := s.Focused(); pane != nil {
		pane.SendKey(k)
	}
}

// RoutePaste delivers pasted text to the focused pane
func (s *Session) RoutePaste(text string) {
	if pane := s.Focused(); pane != nil {
		pane.Paste(text)
	}
}

// RouteBytes delivers raw bytes to the focused pane
func (s *Session) RouteBytes(b []byte) {
	if pane := s.Focused(); pane != nil {
		_ = pane.WriteInput(b)
	}
}

// RouteMouse hit-tests the pointer against the active tab, focuses the
// pane under it on a press, and forwards the event in pane-local
// coordinates. Events over separators are dropped
func (s *Session) RouteMouse(m weft.Mouse) {
	s.mu.Lock()
	tab := s.activeTab()
	if tab == nil {
		s.mu.Unlock()
		return
	}
	id, ok := tab.Tree.HitTest(m.Row, m.Col)
	if !ok {
		s.mu.Unlock()
		return
	}
	if m.EventType == weft.EventPress {
		tab.Focused = id
	}
	pane := tab.Tree.Pane(id)
	rect, _ := tab.Tree.Rect(id)
	s.mu.Unlock()
	if pane == nil {
		return
	}
	m.Row -= rect.Row
	m.Col -= rect.Col
	pane.SendMouse(m)
}

// Resize lays the active tab out at the new size and resizes every pane to
// its leaf rectangle. Inactive tabs relayout when activated. Sizes below
// the minimum pane size are rejected
func (s *Session) Resize(rows int, cols int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rows < MinPaneRows || cols < MinPaneCols {
		return ErrPaneTooSmall
	}
	s.rows = rows
	s.cols = cols
	if tab := s.activeTab(); tab != nil {
		s.resizeTab(tab)
	}
	return nil
}

// resizeTab lays tab out at the session size and resizes its panes to
// their rects
func (s *Session) resizeTab(tab *Tab) {
	tab.Tree.Layout(s.rows, s.cols)
	for _, leaf := range tab.Tree.Leaves() {
		pane := tab.Tree.Pane(leaf)
		if pane == nil {
			continue
		}
		rect, _ := tab.Tree.Rect(leaf)
		_ = pane.Resize(rect.Rows, rect.Cols)
	}
}

// Render composes the active tab into plain text: pane snapshots in their
// rectangles with separator gutters. Meant for tests and simple hosts;
// real renderers consume Snapshot directly
func (s *Session) Render() string {
	s.mu.Lock()
	tab := s.activeTab()
	if tab == nil {
		s.mu.Unlock()
		return ""
	}
	type placed struct {
		rect Rect
		snap weft.Screen
	}
	type gutter struct {
		rect Rect
		ch   rune
	}
	var panes []placed
	var gutters []gutter
	for _, leaf := range tab.Tree.Leaves() {
		pane := tab.Tree.Pane(leaf)
		if pane == nil {
			continue
		}
		rect, _ := tab.Tree.Rect(leaf)
		panes = append(panes, placed{rect: rect, snap: pane.Snapshot()})
	}
	tab.Tree.Walk(func(id NodeID, n *node) {
		if n.leaf {
			return
		}
		first := tab.Tree.node(n.children[0]).rect
		switch n.orient {
		case Horizontal:
			gutters = append(gutters, gutter{
				rect: Rect{Row: n.rect.Row, Col: first.Col + first.Cols, Rows: n.rect.Rows, Cols: separator},
				ch:   '│',
			})
		case Vertical:
			gutters = append(gutters, gutter{
				rect: Rect{Row: first.Row + first.Rows, Col: n.rect.Col, Rows: separator, Cols: n.rect.Cols},
				ch:   '─',
			})
		}
	})
	rows, cols := s.rows, s.cols
	s.mu.Unlock()

	canvas := make([][]rune, rows)
	for r := range canvas {
		canvas[r] = make([]rune, cols)
		for c := range canvas[r] {
			canvas[r][c] = ' '
		}
	}
	for _, g := range gutters {
		for r := 0; r < g.rect.Rows; r += 1 {
			for c := 0; c < g.rect.Cols; c += 1 {
				row := g.rect.Row + r
				col := g.rect.Col + c
				if row < rows && col < cols {
					canvas[row][col] = g.ch
				}
			}
		}
	}
	for _, p := range panes {
		for r := 0; r < p.rect.Rows && r < p.snap.Rows; r += 1 {
			for c := 0; c < p.rect.Cols && c < p.snap.Cols; c += 1 {
				cell := p.snap.Cells[r][c]
				ch := ' '
				if cell.Grapheme != "" {
					ch = []rune(cell.Grapheme)[0]
				}
				row := p.rect.Row + r
				col := p.rect.Col + c
				if row < rows && col < cols {
					canvas[row][col] = ch
				}
			}
		}
	}
	lines := make([]string, rows)
	for r := range canvas {
		lines[r] = strings.TrimRight(string(canvas[r]), " ")
	}
	return strings.Join(lines, "\n")
}

// Close shuts down every pane in every tab, marks the session closed, and
// posts the session-level EventClosed. Safe to call more than once
func (s *Session) Close() {
	s.mu.Lock()
	tabs := s.tabs
	s.tabs = nil
	wasClosed := s.closed
	s.closed = true
	s.mu.Unlock()
	var wg sync.WaitGroup
	for _, tab := range tabs {
		for _, leaf := range tab.Tree.Leaves() {
			pane := tab.Tree.Pane(leaf)
			if pane == nil {
				continue
			}
			pane.Detach()
			wg.Add(1)
			go func(p *vt.Pane) {
				defer wg.Done()
				p.Close()
			}(pane)
		}
	}
	wg.Wait()
	if !wasClosed {
		s.post(PaneEvent{Event: weft.EventClosed{}})
	}
}
