package nestedset

import (
	"fmt"
	"sort"
)

// Validate checks the nested-set invariants over the whole snapshot:
// lft < rgt for every node, boundary values globally unique, subtrees
// properly nested and even-width, parent pointers consistent with boundary
// containment, and no level above the configured maximum.
func (t *Tree) Validate() error {
	seen := map[int]int64{}
	for _, n := range t.nodes {
		if n.Lft >= n.Rgt {
			return fmt.Errorf("%w: node %d has lft %d >= rgt %d", ErrCorruptTree, n.ID, n.Lft, n.Rgt)
		}
		if (n.Rgt-n.Lft+1)%2 != 0 {
			return fmt.Errorf("%w: node %d has odd width %d", ErrCorruptTree, n.ID, n.Rgt-n.Lft+1)
		}
		if n.Level < 1 || n.Level > t.maxLevel {
			return fmt.Errorf("%w: node %d at level %d, max is %d", ErrCorruptTree, n.ID, n.Level, t.maxLevel)
		}
		for _, b := range []int{n.Lft, n.Rgt} {
			if other, dup := seen[b]; dup {
				return fmt.Errorf("%w: boundary %d shared by nodes %d and %d", ErrCorruptTree, b, other, n.ID)
			}
			seen[b] = n.ID
		}
	}

	nodes := t.Nodes()
	for _, n := range nodes {
		// Half of the integers in [lft, rgt] must be left boundaries of the
		// subtree's own nodes.
		count := 0
		for _, c := range nodes {
			if c.Lft >= n.Lft && c.Rgt <= n.Rgt {
				count++
			}
		}
		if count != (n.Rgt-n.Lft+1)/2 {
			return fmt.Errorf("%w: node %d spans %d integers but contains %d nodes", ErrCorruptTree, n.ID, n.Rgt-n.Lft+1, count)
		}

		// No partial overlap with any other node.
		for _, c := range nodes {
			if c.ID == n.ID {
				continue
			}
			if c.Lft < n.Lft && n.Lft < c.Rgt && c.Rgt < n.Rgt {
				return fmt.Errorf("%w: nodes %d and %d partially overlap", ErrCorruptTree, c.ID, n.ID)
			}
		}

		if n.ParentID == 0 {
			if n.Level != 1 {
				return fmt.Errorf("%w: root %d at level %d", ErrCorruptTree, n.ID, n.Level)
			}
			continue
		}
		p, ok := t.nodes[n.ParentID]
		if !ok {
			return fmt.Errorf("%w: node %d references missing parent %d", ErrCorruptTree, n.ID, n.ParentID)
		}
		if !(p.Lft < n.Lft && n.Rgt < p.Rgt) {
			return fmt.Errorf("%w: node %d lies outside parent %d", ErrCorruptTree, n.ID, p.ID)
		}
		if n.Level != p.Level+1 {
			return fmt.Errorf("%w: node %d at level %d under parent at level %d", ErrCorruptTree, n.ID, n.Level, p.Level)
		}
	}

	// Boundaries of the whole forest must be the contiguous range 1..2n.
	all := make([]int, 0, 2*len(nodes))
	for _, n := range nodes {
		all = append(all, n.Lft, n.Rgt)
	}
	sort.Ints(all)
	for i, b := range all {
		if b != i+1 {
			return fmt.Errorf("%w: boundary sequence broken at %d, expected %d", ErrCorruptTree, b, i+1)
		}
	}
	return nil
}
