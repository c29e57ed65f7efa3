// Package nestedset implements nested-set boundary arithmetic over an
// in-memory snapshot of the node table. Repositories load the affected rows,
// apply one operation here, and write the changed rows back in a single
// transaction, so a partial boundary shift can never be observed.
package nestedset

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNodeNotFound     = errors.New("node not found")
	ErrMaxLevelExceeded = errors.New("maximum tree depth exceeded")
	ErrInvalidMove      = errors.New("invalid move")
	ErrCorruptTree      = errors.New("corrupt tree")
)

// Node is the snapshot form of one tree row. Lft/Rgt are the nested-set
// boundaries, Level is the depth (roots at 1). ParentID (0 for roots) and Ord
// (sibling sort key) are the side channel Rebuild recomputes boundaries from.
type Node struct {
	ID       int64
	ParentID int64
	Lft      int
	Rgt      int
	Level    int
	Ord      int
}

// Tree is a mutable snapshot. It remembers the loaded state so Changed can
// report exactly which rows an operation touched.
type Tree struct {
	maxLevel int
	nodes    map[int64]*Node
	orig     map[int64]Node
	removed  []int64
}

func NewTree(maxLevel int, nodes []Node) *Tree {
	t := &Tree{
		maxLevel: maxLevel,
		nodes:    make(map[int64]*Node, len(nodes)),
		orig:     make(map[int64]Node, len(nodes)),
	}
	for _, n := range nodes {
		c := n
		t.nodes[n.ID] = &c
		t.orig[n.ID] = n
	}
	return t
}

// Node returns a copy of the node with the given id.
func (t *Tree) Node(id int64) (Node, bool) {
	n, ok := t.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Nodes returns all nodes ordered by left boundary.
func (t *Tree) Nodes() []Node {
	out := make([]Node, 0, len(t.nodes))
	for _, n := range t.nodes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lft < out[j].Lft })
	return out
}

// Changed returns every node whose stored form differs from the loaded
// snapshot, inserted nodes included.
func (t *Tree) Changed() []Node {
	var out []Node
	for id, n := range t.nodes {
		if o, ok := t.orig[id]; !ok || o != *n {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Lft < out[j].Lft })
	return out
}

// Removed returns the ids deleted by RemoveSubtree since the snapshot was
// loaded.
func (t *Tree) Removed() []int64 {
	return t.removed
}

func (t *Tree) maxRgt() int {
	max := 0
	for _, n := range t.nodes {
		if n.Rgt > max {
			max = n.Rgt
		}
	}
	return max
}

// InsertRoot appends a new root after the current maximum right boundary.
func (t *Tree) InsertRoot(id int64) (Node, error) {
	if _, exists := t.nodes[id]; exists {
		return Node{}, fmt.Errorf("node %d already exists", id)
	}

	maxRgt := t.maxRgt()
	n := &Node{
		ID:    id,
		Lft:   maxRgt + 1,
		Rgt:   maxRgt + 2,
		Level: 1,
		Ord:   len(t.childIDs(0)) + 1,
	}
	t.nodes[id] = n
	return *n, nil
}

// InsertLastChild opens a width-2 gap at the parent's right boundary and
// places the new node there.
func (t *Tree) InsertLastChild(parentID, id int64) (Node, error) {
	parent, ok := t.nodes[parentID]
	if !ok {
		return Node{}, fmt.Errorf("%w: parent %d", ErrNodeNotFound, parentID)
	}
	if _, exists := t.nodes[id]; exists {
		return Node{}, fmt.Errorf("node %d already exists", id)
	}
	if parent.Level >= t.maxLevel {
		return Node{}, fmt.Errorf("%w: parent is at level %d, max is %d", ErrMaxLevelExceeded, parent.Level, t.maxLevel)
	}

	pr := parent.Rgt
	for _, n := range t.nodes {
		if n.Rgt >= pr {
			n.Rgt += 2
		}
		if n.Lft > pr {
			n.Lft += 2
		}
	}

	n := &Node{
		ID:       id,
		ParentID: parentID,
		Lft:      pr,
		Rgt:      pr + 1,
		Level:    parent.Level + 1,
		Ord:      len(t.childIDs(parentID)) + 1,
	}
	t.nodes[id] = n
	return *n, nil
}

// MoveAsFirstChild relocates the subtree rooted at id to be the first child
// of target.
func (t *Tree) MoveAsFirstChild(id, targetID int64) error {
	return t.move(id, targetID, true)
}

// MoveAsPrevSibling relocates the subtree rooted at id to sit immediately
// before target, under target's parent.
func (t *Tree) MoveAsPrevSibling(id, targetID int64) error {
	return t.move(id, targetID, false)
}

// move detaches the subtree, closes the gap it occupied, opens a matching gap
// at the destination and reinserts the subtree with offset boundaries and an
// adjusted level. The subtree's own rows are excluded from the shift math so
// overlapping source/destination ranges cannot corrupt boundaries.
func (t *Tree) move(id, targetID int64, asChild bool) error {
	node, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("%w: node %d", ErrNodeNotFound, id)
	}
	target, ok := t.nodes[targetID]
	if !ok {
		return fmt.Errorf("%w: target %d", ErrNodeNotFound, targetID)
	}
	if id == targetID {
		return fmt.Errorf("%w: cannot move node %d relative to itself", ErrInvalidMove, id)
	}
	if node.Lft < target.Lft && target.Rgt < node.Rgt {
		return fmt.Errorf("%w: target %d is a descendant of node %d", ErrInvalidMove, targetID, id)
	}

	newParentID := target.ParentID
	newParentLevel := target.Level - 1
	if asChild {
		newParentID = target.ID
		newParentLevel = target.Level
	}

	// Depth of the subtree below its own root.
	relDepth := 0
	subtree := []*Node{}
	origLft := map[int64]int{}
	for _, n := range t.nodes {
		if n.Lft >= node.Lft && n.Rgt <= node.Rgt {
			subtree = append(subtree, n)
			origLft[n.ID] = n.Lft
			if d := n.Level - node.Level; d > relDepth {
				relDepth = d
			}
		}
	}
	if newParentLevel+1+relDepth > t.maxLevel {
		return fmt.Errorf("%w: move would place nodes at level %d, max is %d", ErrMaxLevelExceeded, newParentLevel+1+relDepth, t.maxLevel)
	}

	inSubtree := func(n *Node) bool {
		_, ok := origLft[n.ID]
		return ok
	}

	w := node.Rgt - node.Lft + 1
	srcRgt := node.Rgt
	oldParentID := node.ParentID

	// Close the gap left behind by the subtree.
	for _, n := range t.nodes {
		if inSubtree(n) {
			continue
		}
		if n.Lft > srcRgt {
			n.Lft -= w
		}
		if n.Rgt > srcRgt {
			n.Rgt -= w
		}
	}

	// Destination position in post-close coordinates.
	p := target.Lft
	if asChild {
		p = target.Lft + 1
	}

	// Open a gap of the subtree's width at the destination.
	for _, n := range t.nodes {
		if inSubtree(n) {
			continue
		}
		if n.Lft >= p {
			n.Lft += w
		}
		if n.Rgt >= p {
			n.Rgt += w
		}
	}

	// Reinsert the subtree.
	offset := p - origLft[id]
	levelDelta := newParentLevel + 1 - node.Level
	for _, n := range subtree {
		n.Lft += offset
		n.Rgt += offset
		n.Level += levelDelta
	}
	node.ParentID = newParentID

	t.reRankChildren(oldParentID)
	t.reRankChildren(newParentID)
	return nil
}

// RemoveSubtree drops the node and its descendants and compacts the
// boundaries of everything to their right.
func (t *Tree) RemoveSubtree(id int64) ([]int64, error) {
	node, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: node %d", ErrNodeNotFound, id)
	}

	lft, rgt := node.Lft, node.Rgt
	w := rgt - lft + 1
	parentID := node.ParentID

	var removed []int64
	for nid, n := range t.nodes {
		if n.Lft >= lft && n.Rgt <= rgt {
			removed = append(removed, nid)
		}
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	for _, nid := range removed {
		delete(t.nodes, nid)
	}

	for _, n := range t.nodes {
		if n.Lft > rgt {
			n.Lft -= w
		}
		if n.Rgt > rgt {
			n.Rgt -= w
		}
	}

	t.removed = append(t.removed, removed...)
	t.reRankChildren(parentID)
	return removed, nil
}

// SubtreeIDs returns the node and all its descendants, left-boundary order.
func (t *Tree) SubtreeIDs(id int64) ([]int64, error) {
	node, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: node %d", ErrNodeNotFound, id)
	}
	var subtree []Node
	for _, n := range t.nodes {
		if n.Lft >= node.Lft && n.Rgt <= node.Rgt {
			subtree = append(subtree, *n)
		}
	}
	sort.Slice(subtree, func(i, j int) bool { return subtree[i].Lft < subtree[j].Lft })
	ids := make([]int64, len(subtree))
	for i, n := range subtree {
		ids[i] = n.ID
	}
	return ids, nil
}

// reRankChildren renumbers Ord for one sibling group by boundary order.
func (t *Tree) reRankChildren(parentID int64) {
	ids := t.childIDs(parentID)
	for i, id := range ids {
		t.nodes[id].Ord = i + 1
	}
}

// childIDs returns the direct children of parentID (roots for 0) ordered by
// left boundary.
func (t *Tree) childIDs(parentID int64) []int64 {
	var children []*Node
	for _, n := range t.nodes {
		if n.ParentID == parentID {
			children = append(children, n)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i].Lft < children[j].Lft })
	ids := make([]int64, len(children))
	for i, n := range children {
		ids[i] = n.ID
	}
	return ids
}
