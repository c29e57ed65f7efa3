package nestedset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxLevel = 4

// buildSpecTree creates root 1 (lft=1, rgt=6, level=1) with children
// 2 (2,3) and 3 (4,5).
func buildSpecTree(t *testing.T) *Tree {
	t.Helper()
	tree := NewTree(testMaxLevel, nil)

	_, err := tree.InsertRoot(1)
	require.NoError(t, err)
	_, err = tree.InsertLastChild(1, 2)
	require.NoError(t, err)
	_, err = tree.InsertLastChild(1, 3)
	require.NoError(t, err)

	a, _ := tree.Node(1)
	require.Equal(t, 1, a.Lft)
	require.Equal(t, 6, a.Rgt)
	require.Equal(t, 1, a.Level)
	return tree
}

func TestInsertRoot(t *testing.T) {
	tree := NewTree(testMaxLevel, nil)

	r1, err := tree.InsertRoot(10)
	require.NoError(t, err)
	assert.Equal(t, 1, r1.Lft)
	assert.Equal(t, 2, r1.Rgt)
	assert.Equal(t, 1, r1.Level)

	r2, err := tree.InsertRoot(20)
	require.NoError(t, err)
	assert.Equal(t, 3, r2.Lft)
	assert.Equal(t, 4, r2.Rgt)

	require.NoError(t, tree.Validate())
}

func TestInsertLastChildShiftsBoundaries(t *testing.T) {
	tree := buildSpecTree(t)

	d, err := tree.InsertLastChild(1, 4)
	require.NoError(t, err)

	assert.Equal(t, 6, d.Lft)
	assert.Equal(t, 7, d.Rgt)
	assert.Equal(t, 2, d.Level)

	a, _ := tree.Node(1)
	assert.Equal(t, 8, a.Rgt)

	b, _ := tree.Node(2)
	assert.Equal(t, 2, b.Lft)
	assert.Equal(t, 3, b.Rgt)
	c, _ := tree.Node(3)
	assert.Equal(t, 4, c.Lft)
	assert.Equal(t, 5, c.Rgt)

	require.NoError(t, tree.Validate())
}

func TestInsertLastChildMaxLevel(t *testing.T) {
	tree := NewTree(testMaxLevel, nil)
	_, err := tree.InsertRoot(1)
	require.NoError(t, err)

	parent := int64(1)
	for id := int64(2); id <= 4; id++ {
		n, err := tree.InsertLastChild(parent, id)
		require.NoError(t, err)
		parent = n.ID
	}

	n, _ := tree.Node(4)
	require.Equal(t, testMaxLevel, n.Level)

	_, err = tree.InsertLastChild(4, 5)
	assert.ErrorIs(t, err, ErrMaxLevelExceeded)
	require.NoError(t, tree.Validate())
}

func TestMoveAsFirstChild(t *testing.T) {
	tree := buildSpecTree(t)

	// Make node 3 the first child of node 2.
	require.NoError(t, tree.MoveAsFirstChild(3, 2))

	a, _ := tree.Node(1)
	b, _ := tree.Node(2)
	c, _ := tree.Node(3)

	assert.Equal(t, 3, c.Level)
	assert.Greater(t, c.Lft, b.Lft)
	assert.Less(t, c.Rgt, b.Rgt)
	// The root still spans the same number of integers.
	assert.Equal(t, 6, a.Rgt-a.Lft+1)
	assert.Equal(t, int64(2), c.ParentID)

	require.NoError(t, tree.Validate())
}

func TestMoveAsPrevSibling(t *testing.T) {
	tree := buildSpecTree(t)

	// Move node 3 before node 2.
	require.NoError(t, tree.MoveAsPrevSibling(3, 2))

	b, _ := tree.Node(2)
	c, _ := tree.Node(3)
	assert.Less(t, c.Lft, b.Lft)
	assert.Equal(t, 2, c.Level)
	assert.Equal(t, int64(1), c.ParentID)

	require.NoError(t, tree.Validate())

	// And back again.
	require.NoError(t, tree.MoveAsPrevSibling(2, 3))
	b, _ = tree.Node(2)
	c, _ = tree.Node(3)
	assert.Less(t, b.Lft, c.Lft)
	require.NoError(t, tree.Validate())
}

func TestMovePreventsCycles(t *testing.T) {
	tree := buildSpecTree(t)
	before := tree.Nodes()

	err := tree.MoveAsFirstChild(1, 2)
	assert.ErrorIs(t, err, ErrInvalidMove)

	err = tree.MoveAsFirstChild(1, 1)
	assert.ErrorIs(t, err, ErrInvalidMove)

	err = tree.MoveAsPrevSibling(1, 3)
	assert.ErrorIs(t, err, ErrInvalidMove)

	assert.Equal(t, before, tree.Nodes())
	require.NoError(t, tree.Validate())
}

func TestMoveRejectsTooDeepSubtree(t *testing.T) {
	tree := NewTree(testMaxLevel, nil)
	_, err := tree.InsertRoot(1)
	require.NoError(t, err)
	_, err = tree.InsertLastChild(1, 2)
	require.NoError(t, err)
	_, err = tree.InsertLastChild(2, 3)
	require.NoError(t, err)

	_, err = tree.InsertRoot(10)
	require.NoError(t, err)
	_, err = tree.InsertLastChild(10, 11)
	require.NoError(t, err)
	_, err = tree.InsertLastChild(11, 12)
	require.NoError(t, err)

	// Subtree 2 is two levels deep; under node 12 (level 3) its deepest
	// node would land at level 5.
	err = tree.MoveAsFirstChild(2, 12)
	assert.ErrorIs(t, err, ErrMaxLevelExceeded)
	require.NoError(t, tree.Validate())
}

func TestRemoveSubtreeCompacts(t *testing.T) {
	tree := buildSpecTree(t)
	_, err := tree.InsertLastChild(1, 4)
	require.NoError(t, err)

	removed, err := tree.RemoveSubtree(2)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, removed)

	a, _ := tree.Node(1)
	assert.Equal(t, 1, a.Lft)
	assert.Equal(t, 6, a.Rgt)

	c, _ := tree.Node(3)
	assert.Equal(t, 2, c.Lft)
	assert.Equal(t, 3, c.Rgt)

	require.NoError(t, tree.Validate())
}

func TestRemoveSubtreeRemovesDescendants(t *testing.T) {
	tree := buildSpecTree(t)
	_, err := tree.InsertLastChild(2, 4)
	require.NoError(t, err)

	removed, err := tree.RemoveSubtree(2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{2, 4}, removed)

	_, ok := tree.Node(4)
	assert.False(t, ok)
	require.NoError(t, tree.Validate())
}

func TestQueries(t *testing.T) {
	tree := buildSpecTree(t)
	_, err := tree.InsertLastChild(2, 4)
	require.NoError(t, err)

	children, err := tree.Children(1)
	require.NoError(t, err)
	// Node 4 is a grandchild and must not appear.
	require.Len(t, children, 2)
	assert.Equal(t, int64(2), children[0].ID)
	assert.Equal(t, int64(3), children[1].ID)

	descendants, err := tree.Descendants(1)
	require.NoError(t, err)
	require.Len(t, descendants, 3)

	ancestors, err := tree.Ancestors(4)
	require.NoError(t, err)
	require.Len(t, ancestors, 2)
	assert.Equal(t, int64(1), ancestors[0].ID)
	assert.Equal(t, int64(2), ancestors[1].ID)

	parent, ok := tree.Parent(4)
	require.True(t, ok)
	assert.Equal(t, int64(2), parent.ID)

	siblings, err := tree.Siblings(3)
	require.NoError(t, err)
	require.Len(t, siblings, 1)
	assert.Equal(t, int64(2), siblings[0].ID)

	assert.True(t, tree.IsDescendant(1, 4))
	assert.False(t, tree.IsDescendant(4, 1))
	assert.False(t, tree.IsDescendant(2, 3))
}

func TestChangedTracksTouchedRows(t *testing.T) {
	tree := buildSpecTree(t)
	snapshot := NewTree(testMaxLevel, tree.Nodes())

	_, err := snapshot.InsertLastChild(1, 4)
	require.NoError(t, err)

	changed := snapshot.Changed()
	ids := make([]int64, len(changed))
	for i, n := range changed {
		ids[i] = n.ID
	}
	// Only the root's boundaries shifted, plus the inserted node.
	assert.ElementsMatch(t, []int64{1, 4}, ids)
}
