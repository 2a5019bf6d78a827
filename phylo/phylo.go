// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package phylo provides a read-only phylogenetic tree,
// with named terminals and branch lengths,
// to be used as the input of the layout and drawing packages.
//
// Trees are read from newick files using the gotree parser,
// and then stored as an immutable node table,
// so the drawing code can attach its own data
// without mutating the tree.
package phylo

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/evolbioinfo/gotree/io/newick"
	gotree "github.com/evolbioinfo/gotree/tree"
)

var (
	// ErrParse is returned when a newick file is malformed.
	ErrParse = errors.New("invalid newick tree")

	// ErrEmptyTree is returned when a tree has no terminals.
	ErrEmptyTree = errors.New("tree without terminals")
)

// A node is a node of a phylogenetic tree.
type node struct {
	id       int
	parent   int
	name     string
	brLen    float64
	hasLen   bool
	children []int

	// cumulative values from the root
	fromRoot float64
	depth    int
}

// A Tree is a rooted,
// possibly multifurcating,
// phylogenetic tree.
//
// Nodes are identified by IDs,
// assigned in pre-order,
// so the root is always node 0.
// All queries on a Tree are read-only.
type Tree struct {
	nodes []*node
	terms []int
}

// ReadFile reads a newick tree from a file.
func ReadFile(name string) (*Tree, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %w", name, err)
	}
	return t, nil
}

// Read reads a newick tree from a reader.
func Read(r io.Reader) (*Tree, error) {
	gt, err := newick.NewParser(r).Parse()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if gt.Root() == nil {
		return nil, ErrParse
	}

	t := &Tree{}
	t.copyTree(gt)
	if len(t.terms) == 0 {
		return nil, ErrEmptyTree
	}
	return t, nil
}

// CopyTree copies the parsed tree into the node table.
// Nodes are added in pre-order,
// so a parent is always copied before its descendants,
// and terminals are stored in traversal order.
func (t *Tree) copyTree(gt *gotree.Tree) {
	ids := make(map[*gotree.Node]int, len(gt.Nodes()))
	gt.PreOrder(func(cur, prev *gotree.Node, e *gotree.Edge) bool {
		n := &node{
			id:     len(t.nodes),
			parent: -1,
			name:   cur.Name(),
		}
		if prev != nil {
			p := ids[prev]
			n.parent = p
			pn := t.nodes[p]
			pn.children = append(pn.children, n.id)

			// gotree reports undefined branch lengths
			// as negative values
			if l := e.Length(); l >= 0 {
				n.brLen = l
				n.hasLen = true
			}
			n.fromRoot = pn.fromRoot + n.brLen
			n.depth = pn.depth + 1
		}
		t.nodes = append(t.nodes, n)
		ids[cur] = n.id
		return true
	})

	for _, n := range t.nodes {
		if len(n.children) == 0 {
			t.terms = append(t.terms, n.id)
		}
	}
}

// Root returns the ID of the root node,
// which is always 0.
func (t *Tree) Root() int { return 0 }

// Len returns the number of nodes of the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Nodes returns the IDs of all nodes of the tree,
// in pre-order.
func (t *Tree) Nodes() []int {
	ids := make([]int, len(t.nodes))
	for i := range t.nodes {
		ids[i] = i
	}
	return ids
}

// Parent returns the ID of the parent of a node.
// It returns -1 for the root,
// or an invalid node.
func (t *Tree) Parent(id int) int {
	if id < 0 || id >= len(t.nodes) {
		return -1
	}
	return t.nodes[id].parent
}

// Children returns the IDs of the children of a node,
// in the order in which they were defined in the source tree.
func (t *Tree) Children(id int) []int {
	if id < 0 || id >= len(t.nodes) {
		return nil
	}
	n := t.nodes[id]
	children := make([]int, len(n.children))
	copy(children, n.children)
	return children
}

// Name returns the name of a node.
// By convention only terminals are named.
func (t *Tree) Name(id int) string {
	if id < 0 || id >= len(t.nodes) {
		return ""
	}
	return t.nodes[id].name
}

// IsTerm returns true if a node is a terminal,
// that is,
// a node without descendants.
func (t *Tree) IsTerm(id int) bool {
	if id < 0 || id >= len(t.nodes) {
		return false
	}
	return len(t.nodes[id].children) == 0
}

// Terms returns the IDs of the terminals of the tree,
// in traversal (pre-order) order.
func (t *Tree) Terms() []int {
	terms := make([]int, len(t.terms))
	copy(terms, t.terms)
	return terms
}

// TermNames returns the names of the terminals of the tree,
// in traversal order.
func (t *Tree) TermNames() []string {
	names := make([]string, 0, len(t.terms))
	for _, id := range t.terms {
		names = append(names, t.nodes[id].name)
	}
	return names
}

// BranchLength returns the length of the branch
// that connects a node with its parent.
// The second return value is false
// if the length is not defined in the source tree;
// an undefined length is reported as zero.
func (t *Tree) BranchLength(id int) (float64, bool) {
	if id < 0 || id >= len(t.nodes) {
		return 0, false
	}
	n := t.nodes[id]
	return n.brLen, n.hasLen
}

// LenFromRoot returns the sum of the branch lengths
// in the path from the root to a node.
// Undefined branch lengths are counted as zero.
func (t *Tree) LenFromRoot(id int) float64 {
	if id < 0 || id >= len(t.nodes) {
		return 0
	}
	return t.nodes[id].fromRoot
}

// Depth returns the number of branches
// in the path from the root to a node.
func (t *Tree) Depth(id int) int {
	if id < 0 || id >= len(t.nodes) {
		return 0
	}
	return t.nodes[id].depth
}

// MinMaxBranchLength returns the smallest and largest
// branch length defined in the tree.
// It returns false if no branch has a defined length.
func (t *Tree) MinMaxBranchLength() (min, max float64, ok bool) {
	for _, n := range t.nodes[1:] {
		if !n.hasLen {
			continue
		}
		if !ok {
			min, max = n.brLen, n.brLen
			ok = true
			continue
		}
		if n.brLen < min {
			min = n.brLen
		}
		if n.brLen > max {
			max = n.brLen
		}
	}
	return min, max, ok
}
