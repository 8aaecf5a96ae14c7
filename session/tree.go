// Package session manages splittable panes: a binary split tree per tab and
// a session of tabs with focus routing. Tree nodes live in an arena and are
// addressed by integer handles, so focus and parent references are lookup
// keys rather than pointers
package session

import (
	"errors"

	"github.com/weftterm/weft/vt"
)

var (
	// ErrNotFound is returned for a node handle that does not exist
	ErrNotFound = errors.New("session: no such node")
	// ErrNotLeaf is returned when a split or close targets an interior node
	ErrNotLeaf = errors.New("session: node is not a leaf")
	// ErrBadRatio is returned for a split ratio outside (0,1)
	ErrBadRatio = errors.New("session: ratio must be within (0,1)")
	// ErrPaneTooSmall is returned when a split or resize would take a pane
	// below the minimum size. Nothing is mutated
	ErrPaneTooSmall = errors.New("session: pane would be below minimum size")
)

// Minimum leaf dimensions. Splits that would violate them fail; root
// resizes below them degrade but never produce a zero-size pane
const (
	MinPaneRows = 2
	MinPaneCols = 4

	// separator is the fixed width of the gutter between split siblings
	separator = 1
)

// NodeID is a stable handle to a tree node. The zero value means none
type NodeID int32

// Orientation is the axis of a split
type Orientation uint8

const (
	// Horizontal places children side by side
	Horizontal Orientation = iota
	// Vertical stacks children
	Vertical
)

// Rect is a cell rectangle within the session's coordinate space
type Rect struct {
	Row  int
	Col  int
	Rows int
	Cols int
}

// contains reports whether the point lies within the rectangle
func (r Rect) contains(row int, col int) bool {
	return row >= r.Row && row < r.Row+r.Rows &&
		col >= r.Col && col < r.Col+r.Cols
}

type node struct {
	used     bool
	leaf     bool
	parent   NodeID
	orient   Orientation
	ratio    float64
	children [2]NodeID
	rect     Rect
	pane     *vt.Pane
}

// Tree is a binary split tree over a rectangle. A tree with no leaves has a
// zero root
type Tree struct {
	arena []node
	free  []NodeID
	root  NodeID
	rect  Rect
}

// NewTree creates a tree covering rows by cols with a single leaf
func NewTree(rows int, cols int) *Tree {
	t := &Tree{
		// index 0 is reserved so the zero NodeID means none
		arena: make([]node, 1, 8),
		rect:  Rect{Rows: rows, Cols: cols},
	}
	t.root = t.alloc()
	n := t.node(t.root)
	n.leaf = true
	n.rect = t.rect
	return t
}

func (t *Tree) alloc() NodeID {
	if n := len(t.free); n > 0 {
		id := t.free[n-1]
		t.free = t.free[:n-1]
		t.arena[id] = node{used: true}
		return id
	}
	t.arena = append(t.arena, node{used: true})
	return NodeID(len(t.arena) - 1)
}

func (t *Tree) release(id NodeID) {
	t.arena[id] = node{}
	t.free = append(t.free, id)
}

// node returns the arena slot for id, or nil for an invalid handle
func (t *Tree) node(id NodeID) *node {
	if id <= 0 || int(id) >= len(t.arena) {
		return nil
	}
	n := &t.arena[id]
	if !n.used {
		return nil
	}
	return n
}

// Empty reports whether the tree has no leaves
func (t *Tree) Empty() bool {
	return t.root == 0
}

// Root returns the root node handle, zero when the tree is empty
func (t *Tree) Root() NodeID {
	return t.root
}

// Rect returns the rectangle allocated to id
func (t *Tree) Rect(id NodeID) (Rect, error) {
	n := t.node(id)
	if n == nil {
		return Rect{}, ErrNotFound
	}
	return n.rect, nil
}

// Pane returns the pane held by leaf id, nil for interior or invalid nodes
func (t *Tree) Pane(id NodeID) *vt.Pane {
	n := t.node(id)
	if n == nil || !n.leaf {
		return nil
	}
	return n.pane
}

// SetPane binds a pane to leaf id
func (t *Tree) SetPane(id NodeID, pane *vt.Pane) error {
	n := t.node(id)
	if n == nil {
		return ErrNotFound
	}
	if !n.leaf {
		return ErrNotLeaf
	}
	n.pane = pane
	return nil
}

// Split divides leaf id along o. The leaf becomes an interior node; its
// content stays in child 0 and a new empty leaf becomes child 1, taking
// 1-ratio of the space after the separator. Returns the new leaf's handle
func (t *Tree) Split(id NodeID, o Orientation, ratio float64) (NodeID, error) {
	n := t.node(id)
	if n == nil {
		return 0, ErrNotFound
	}
	if !n.leaf {
		return 0, ErrNotLeaf
	}
	if ratio <= 0 || ratio >= 1 {
		return 0, ErrBadRatio
	}

	span := n.rect.Cols
	min := MinPaneCols
	if o == Vertical {
		span = n.rect.Rows
		min = MinPaneRows
	}
	budget := span - separator
	first := splitSpan(budget, ratio, min)
	if first < min || budget-first < min {
		return 0, ErrPaneTooSmall
	}

	c0 := t.alloc()
	c1 := t.alloc()
	// alloc may have grown the arena; refetch
	n = t.node(id)
	*t.node(c0) = node{used: true, leaf: true, parent: id, pane: n.pane}
	*t.node(c1) = node{used: true, leaf: true, parent: id}
	n.leaf = false
	n.pane = nil
	n.orient = o
	n.ratio = ratio
	n.children = [2]NodeID{c0, c1}
	t.layoutNode(id, n.rect)
	return c1, nil
}

// Close removes leaf id. Its parent split collapses into the sibling, which
// takes the parent's full rectangle. Closing the last leaf empties the
// tree. Returns the handle of the subtree that took the space, zero when
// the tree emptied
func (t *Tree) Close(id NodeID) (NodeID, error) {
	n := t.node(id)
	if n == nil {
		return 0, ErrNotFound
	}
	if !n.leaf {
		return 0, ErrNotLeaf
	}
	if id == t.root {
		t.release(id)
		t.root = 0
		return 0, nil
	}

	parentID := n.parent
	parent := t.node(parentID)
	siblingID := parent.children[0]
	if siblingID == id {
		siblingID = parent.children[1]
	}
	sibling := t.node(siblingID)
	sibling.parent = parent.parent

	if parent.parent == 0 {
		t.root = siblingID
	} else {
		grand := t.node(parent.parent)
		if grand.children[0] == parentID {
			grand.children[0] = siblingID
		} else {
			grand.children[1] = siblingID
		}
	}
	rect := parent.rect
	t.release(id)
	t.release(parentID)
	t.layoutNode(siblingID, rect)
	return siblingID, nil
}

// Layout reallocates the whole tree to a rows by cols rectangle
func (t *Tree) Layout(rows int, cols int) {
	t.rect = Rect{Rows: rows, Cols: cols}
	if t.root == 0 {
		return
	}
	t.layoutNode(t.root, t.rect)
}

// layoutNode assigns rect to id and recursively divides it among children.
// Along the split axis child 0 receives the rounded share of the budget
// (the span minus the separator) and child 1 the exact remainder, so the
// children and separator always sum to the parent span
func (t *Tree) layoutNode(id NodeID, rect Rect) {
	n := t.node(id)
	n.rect = rect
	if n.leaf {
		return
	}

	r0 := rect
	r1 := rect
	switch n.orient {
	case Horizontal:
		budget := rect.Cols - separator
		first := splitSpan(budget, n.ratio, MinPaneCols)
		r0.Cols = first
		r1.Col = rect.Col + first + separator
		r1.Cols = budget - first
	case Vertical:
		budget := rect.Rows - separator
		first := splitSpan(budget, n.ratio, MinPaneRows)
		r0.Rows = first
		r1.Row = rect.Row + first + separator
		r1.Rows = budget - first
	}
	t.layoutNode(n.children[0], r0)
	t.layoutNode(n.children[1], r1)
}

// splitSpan is child 0's share of budget at ratio, clamped to keep both
// children at or above min when the budget allows; an even split otherwise
func splitSpan(budget int, ratio float64, min int) int {
	if budget < 2*min {
		return budget / 2
	}
	first := int(ratio*float64(budget) + 0.5)
	if first < min {
		first = min
	}
	if first > budget-min {
		first = budget - min
	}
	return first
}

// HitTest returns the leaf containing the point. Points on separators or
// outside the tree report false
func (t *Tree) HitTest(row int, col int) (NodeID, bool) {
	id := t.root
	for id != 0 {
		n := t.node(id)
		if !n.rect.contains(row, col) {
			return 0, false
		}
		if n.leaf {
			return id, true
		}
		if t.node(n.children[0]).rect.contains(row, col) {
			id = n.children[0]
			continue
		}
		id = n.children[1]
	}
	return 0, false
}

// Leaves returns the leaf handles in in-order traversal order
func (t *Tree) Leaves() []NodeID {
	var leaves []NodeID
	t.Walk(func(id NodeID, n *node) {
		if n.leaf {
			leaves = append(leaves, id)
		}
	})
	return leaves
}

// Walk visits every node in-order
func (t *Tree) Walk(fn func(NodeID, *node)) {
	t.walk(t.root, fn)
}

func (t *Tree) walk(id NodeID, fn func(NodeID, *node)) {
	if id == 0 {
		return
	}
	n := t.node(id)
	if n.leaf {
		fn(id, n)
		return
	}
	t.walk(n.children[0], fn)
	fn(id, n)
	t.walk(n.children[1], fn)
}

// firstLeaf returns the leftmost leaf of the subtree at id
func (t *Tree) firstLeaf(id NodeID) NodeID {
	for id != 0 {
		n := t.node(id)
		if n.leaf {
			return id
		}
		id = n.children[0]
	}
	return 0
}
