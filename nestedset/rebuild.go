package nestedset

import (
	"fmt"
	"sort"
)

// Rebuild recomputes every Lft/Rgt/Level from the parent-pointer side channel
// by depth-first pre-order numbering: entering a node takes the next counter
// value as Lft, leaving it takes the next value as Rgt. Sibling order follows
// (Ord, ID). Used to repair corrupted boundaries; it does not read the
// existing Lft/Rgt values at all.
func (t *Tree) Rebuild() error {
	children := map[int64][]*Node{}
	for _, n := range t.nodes {
		if n.ParentID != 0 {
			if _, ok := t.nodes[n.ParentID]; !ok {
				return fmt.Errorf("%w: node %d references missing parent %d", ErrCorruptTree, n.ID, n.ParentID)
			}
		}
		children[n.ParentID] = append(children[n.ParentID], n)
	}
	for _, group := range children {
		sort.Slice(group, func(i, j int) bool {
			if group[i].Ord != group[j].Ord {
				return group[i].Ord < group[j].Ord
			}
			return group[i].ID < group[j].ID
		})
	}

	counter := 0
	visited := map[int64]bool{}

	var walk func(n *Node, level int) error
	walk = func(n *Node, level int) error {
		if visited[n.ID] {
			return fmt.Errorf("%w: parent-pointer cycle through node %d", ErrCorruptTree, n.ID)
		}
		visited[n.ID] = true

		counter++
		n.Lft = counter
		n.Level = level
		for i, c := range children[n.ID] {
			c.Ord = i + 1
			if err := walk(c, level+1); err != nil {
				return err
			}
		}
		counter++
		n.Rgt = counter
		return nil
	}

	for i, root := range children[0] {
		root.Ord = i + 1
		if err := walk(root, 1); err != nil {
			return err
		}
	}

	if len(visited) != len(t.nodes) {
		return fmt.Errorf("%w: %d nodes unreachable from any root", ErrCorruptTree, len(t.nodes)-len(visited))
	}
	return nil
}
