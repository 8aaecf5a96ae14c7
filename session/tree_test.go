package session

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkLayout verifies the structural invariants of the whole tree: children
// lie within their parent, spans along the split axis sum to the parent span
// minus the separator, and spans off-axis match the parent
func checkLayout(t *testing.T, tree *Tree) {
	t.Helper()
	tree.Walk(func(id NodeID, n *node) {
		if n.leaf {
			assert.GreaterOrEqual(t, n.rect.Rows, 1)
			assert.GreaterOrEqual(t, n.rect.Cols, 1)
			return
		}
		r0 := tree.node(n.children[0]).rect
		r1 := tree.node(n.children[1]).rect
		switch n.orient {
		case Horizontal:
			assert.Equal(t, n.rect.Cols, r0.Cols+separator+r1.Cols)
			assert.Equal(t, n.rect.Col, r0.Col)
			assert.Equal(t, r0.Col+r0.Cols+separator, r1.Col)
			assert.Equal(t, n.rect.Rows, r0.Rows)
			assert.Equal(t, n.rect.Rows, r1.Rows)
		case Vertical:
			assert.Equal(t, n.rect.Rows, r0.Rows+separator+r1.Rows)
			assert.Equal(t, n.rect.Row, r0.Row)
			assert.Equal(t, r0.Row+r0.Rows+separator, r1.Row)
			assert.Equal(t, n.rect.Cols, r0.Cols)
			assert.Equal(t, n.rect.Cols, r1.Cols)
		}
	})
}

func TestTreeSingleLeaf(t *testing.T) {
	tree := NewTree(24, 80)
	require.False(t, tree.Empty())

	rect, err := tree.Rect(tree.Root())
	require.NoError(t, err)
	assert.Equal(t, Rect{Rows: 24, Cols: 80}, rect)
	assert.Len(t, tree.Leaves(), 1)
}

func TestTreeSplitHorizontal(t *testing.T) {
	tree := NewTree(24, 80)
	right, err := tree.Split(tree.Root(), Horizontal, 0.5)
	require.NoError(t, err)

	leaves := tree.Leaves()
	require.Len(t, leaves, 2)
	left := leaves[0]
	assert.Equal(t, right, leaves[1])

	lr, _ := tree.Rect(left)
	rr, _ := tree.Rect(right)
	assert.Equal(t, Rect{Row: 0, Col: 0, Rows: 24, Cols: 40}, lr)
	assert.Equal(t, Rect{Row: 0, Col: 41, Rows: 24, Cols: 39}, rr)
	checkLayout(t, tree)
}

func TestTreeSplitVertical(t *testing.T) {
	tree := NewTree(24, 80)
	bottom, err := tree.Split(tree.Root(), Vertical, 0.5)
	require.NoError(t, err)

	top := tree.Leaves()[0]
	tr, _ := tree.Rect(top)
	br, _ := tree.Rect(bottom)
	assert.Equal(t, Rect{Row: 0, Col: 0, Rows: 12, Cols: 80}, tr)
	assert.Equal(t, Rect{Row: 13, Col: 0, Rows: 11, Cols: 80}, br)
	checkLayout(t, tree)
}

func TestTreeSplitRatio(t *testing.T) {
	tree := NewTree(24, 80)
	_, err := tree.Split(tree.Root(), Horizontal, 0.25)
	require.NoError(t, err)

	lr, _ := tree.Rect(tree.Leaves()[0])
	// 25% of the 79-column budget, rounded
	assert.Equal(t, 20, lr.Cols)
}

func TestTreeSplitErrors(t *testing.T) {
	tree := NewTree(24, 80)

	_, err := tree.Split(tree.Root(), Horizontal, 0)
	assert.ErrorIs(t, err, ErrBadRatio)
	_, err = tree.Split(tree.Root(), Horizontal, 1)
	assert.ErrorIs(t, err, ErrBadRatio)
	_, err = tree.Split(99, Horizontal, 0.5)
	assert.ErrorIs(t, err, ErrNotFound)

	root := tree.Root()
	_, err = tree.Split(root, Horizontal, 0.5)
	require.NoError(t, err)
	// the split leaf became an interior node
	_, err = tree.Split(root, Horizontal, 0.5)
	assert.ErrorIs(t, err, ErrNotLeaf)

	narrow := NewTree(24, 8)
	_, err = narrow.Split(narrow.Root(), Horizontal, 0.5)
	assert.ErrorIs(t, err, ErrPaneTooSmall)
	// nothing was mutated
	assert.Len(t, narrow.Leaves(), 1)

	short := NewTree(4, 80)
	_, err = short.Split(short.Root(), Vertical, 0.5)
	assert.ErrorIs(t, err, ErrPaneTooSmall)
}

func TestTreeCloseCollapses(t *testing.T) {
	tree := NewTree(24, 80)
	right, err := tree.Split(tree.Root(), Horizontal, 0.5)
	require.NoError(t, err)
	left := tree.Leaves()[0]

	sibling, err := tree.Close(right)
	require.NoError(t, err)
	assert.Equal(t, left, sibling)
	assert.Equal(t, left, tree.Root())

	rect, _ := tree.Rect(left)
	assert.Equal(t, Rect{Rows: 24, Cols: 80}, rect)
	assert.Len(t, tree.Leaves(), 1)
}

func TestTreeCloseLastLeafEmpties(t *testing.T) {
	tree := NewTree(24, 80)
	sibling, err := tree.Close(tree.Root())
	require.NoError(t, err)
	assert.Equal(t, NodeID(0), sibling)
	assert.True(t, tree.Empty())

	_, err = tree.Close(1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTreeCloseSubtreeSurvives(t *testing.T) {
	// root splits horizontally, the right half splits vertically; closing
	// the left half promotes the vertical split to the root rectangle
	tree := NewTree(24, 80)
	right, err := tree.Split(tree.Root(), Horizontal, 0.5)
	require.NoError(t, err)
	left := tree.Leaves()[0]
	_, err = tree.Split(right, Vertical, 0.5)
	require.NoError(t, err)

	_, err = tree.Close(left)
	require.NoError(t, err)

	leaves := tree.Leaves()
	require.Len(t, leaves, 2)
	tr, _ := tree.Rect(leaves[0])
	br, _ := tree.Rect(leaves[1])
	assert.Equal(t, 80, tr.Cols)
	assert.Equal(t, 80, br.Cols)
	assert.Equal(t, 24, tr.Rows+separator+br.Rows)
	checkLayout(t, tree)
}

func TestTreeLayoutInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial += 1 {
		rows := 5 + rng.Intn(200)
		cols := 9 + rng.Intn(300)
		tree := NewTree(rows, cols)

		for i := 0; i < 10; i += 1 {
			leaves := tree.Leaves()
			leaf := leaves[rng.Intn(len(leaves))]
			o := Horizontal
			if rng.Intn(2) == 0 {
				o = Vertical
			}
			ratio := 0.2 + 0.6*rng.Float64()
			_, err := tree.Split(leaf, o, ratio)
			if err != nil {
				require.ErrorIs(t, err, ErrPaneTooSmall)
			}
		}
		checkLayout(t, tree)

		// relayout to a new size keeps the invariant
		tree.Layout(5+rng.Intn(200), 9+rng.Intn(300))
		checkLayout(t, tree)

		// closing in arbitrary order keeps the invariant until empty
		for !tree.Empty() {
			leaves := tree.Leaves()
			_, err := tree.Close(leaves[rng.Intn(len(leaves))])
			require.NoError(t, err)
			checkLayout(t, tree)
		}
	}
}

func TestTreeHitTest(t *testing.T) {
	tree := NewTree(24, 80)
	right, err := tree.Split(tree.Root(), Horizontal, 0.5)
	require.NoError(t, err)
	left := tree.Leaves()[0]

	id, ok := tree.HitTest(0, 0)
	require.True(t, ok)
	assert.Equal(t, left, id)

	id, ok = tree.HitTest(23, 79)
	require.True(t, ok)
	assert.Equal(t, right, id)

	// the separator column belongs to no pane
	_, ok = tree.HitTest(10, 40)
	assert.False(t, ok)

	_, ok = tree.HitTest(24, 0)
	assert.False(t, ok)
	_, ok = tree.HitTest(0, 80)
	assert.False(t, ok)
}

func TestTreePaneBinding(t *testing.T) {
	tree := NewTree(24, 80)
	root := tree.Root()

	assert.Nil(t, tree.Pane(root))
	require.NoError(t, tree.SetPane(root, nil))

	_, err := tree.Split(root, Horizontal, 0.5)
	require.NoError(t, err)
	assert.Nil(t, tree.Pane(root))
	assert.ErrorIs(t, tree.SetPane(root, nil), ErrNotLeaf)
	assert.ErrorIs(t, tree.SetPane(99, nil), ErrNotFound)
}

func TestTreeHandleReuse(t *testing.T) {
	tree := NewTree(24, 80)
	right, err := tree.Split(tree.Root(), Horizontal, 0.5)
	require.NoError(t, err)

	_, err = tree.Close(right)
	require.NoError(t, err)

	// released handles are invalid until reallocated
	_, err = tree.Rect(right)
	assert.ErrorIs(t, err, ErrNotFound)

	again, err := tree.Split(tree.Root(), Horizontal, 0.5)
	require.NoError(t, err)
	rect, err := tree.Rect(again)
	require.NoError(t, err)
	assert.Equal(t, 39, rect.Cols)
}
