package nestedset

import (
	"fmt"
	"sort"
)

// IsDescendant reports whether descendant sits strictly inside ancestor's
// boundaries.
func (t *Tree) IsDescendant(ancestorID, descendantID int64) bool {
	a, ok := t.nodes[ancestorID]
	if !ok {
		return false
	}
	d, ok := t.nodes[descendantID]
	if !ok {
		return false
	}
	return a.Lft < d.Lft && d.Rgt < a.Rgt
}

// Children returns the direct children: boundaries inside the node's and
// level exactly one deeper, which excludes grandchildren.
func (t *Tree) Children(id int64) ([]Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: node %d", ErrNodeNotFound, id)
	}
	var out []Node
	for _, c := range t.nodes {
		if n.Lft < c.Lft && c.Rgt < n.Rgt && c.Level == n.Level+1 {
			out = append(out, *c)
		}
	}
	sortByLft(out)
	return out, nil
}

// Descendants returns every node strictly inside the boundaries.
func (t *Tree) Descendants(id int64) ([]Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: node %d", ErrNodeNotFound, id)
	}
	var out []Node
	for _, c := range t.nodes {
		if n.Lft < c.Lft && c.Rgt < n.Rgt {
			out = append(out, *c)
		}
	}
	sortByLft(out)
	return out, nil
}

// Ancestors returns the chain of enclosing nodes, outermost first.
func (t *Tree) Ancestors(id int64) ([]Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: node %d", ErrNodeNotFound, id)
	}
	var out []Node
	for _, c := range t.nodes {
		if c.Lft < n.Lft && n.Rgt < c.Rgt {
			out = append(out, *c)
		}
	}
	sortByLft(out)
	return out, nil
}

// Parent returns the immediate ancestor, or false for roots.
func (t *Tree) Parent(id int64) (Node, bool) {
	n, ok := t.nodes[id]
	if !ok || n.ParentID == 0 {
		return Node{}, false
	}
	p, ok := t.nodes[n.ParentID]
	if !ok {
		return Node{}, false
	}
	return *p, true
}

// Siblings returns the other nodes in the same sibling group.
func (t *Tree) Siblings(id int64) ([]Node, error) {
	n, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: node %d", ErrNodeNotFound, id)
	}
	var out []Node
	for _, c := range t.nodes {
		if c.ID != id && c.ParentID == n.ParentID {
			out = append(out, *c)
		}
	}
	sortByLft(out)
	return out, nil
}

func sortByLft(nodes []Node) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Lft < nodes[j].Lft })
}
