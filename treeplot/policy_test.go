// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package treeplot

import (
	"strings"
	"testing"

	"github.com/ebalboa/phytrees/grouping"
	"github.com/ebalboa/phytrees/phylo"
)

const treeBlob = "((A:0.1,B:0.2):0.3,(C:0.1,D:0.3):0.2,E:0.5);"

func newTestTree(t testing.TB, blob string) *phylo.Tree {
	t.Helper()

	tr, err := phylo.Read(strings.NewReader(blob))
	if err != nil {
		t.Fatalf("unable to read tree: %v", err)
	}
	return tr
}

func TestPolicyGradient(t *testing.T) {
	tr := newTestTree(t, treeBlob)
	o := &Options{}
	o.setDefaults()

	pol := newPolicy(tr, o, Rectangular)
	if pol.mode != modeGradient {
		t.Fatalf("mode: got %d, want gradient", pol.mode)
	}
	if pol.grad.Min() != 0.1 || pol.grad.Max() != 0.5 {
		t.Errorf("gradient range: got [%.3f, %.3f], want [0.1, 0.5]", pol.grad.Min(), pol.grad.Max())
	}

	// every branch takes its gradient color
	a := tr.Terms()[0]
	c, emph := pol.branchColor(tr, a)
	if want := pol.grad.Color(0.1); c != want {
		t.Errorf("color of branch to A: got %v, want %v", c, want)
	}
	if emph {
		t.Errorf("branch to A: unexpected emphasis in gradient mode")
	}
}

func TestPolicyGroups(t *testing.T) {
	tr := newTestTree(t, treeBlob)

	g := grouping.New()
	g.Add("G1", "A", "B")
	g.Add("G2", "C", "D")
	o := &Options{Groups: g, GroupColor: true}
	o.setDefaults()

	pol := newPolicy(tr, o, Rectangular)
	if pol.mode != modeGroups {
		t.Fatalf("mode: got %d, want groups", pol.mode)
	}

	terms := tr.Terms()
	a, c, e := terms[0], terms[2], terms[4]

	col, emph := pol.branchColor(tr, a)
	if col != grouping.Tab10[0] {
		t.Errorf("color of branch to A: got %v, want %v", col, grouping.Tab10[0])
	}
	if !emph {
		t.Errorf("branch to A: expecting emphasis")
	}

	if col, _ := pol.branchColor(tr, c); col != grouping.Tab10[1] {
		t.Errorf("color of branch to C: got %v, want %v", col, grouping.Tab10[1])
	}

	// groups G1 and G2 resolve to different colors
	colA, _ := pol.branchColor(tr, a)
	colC, _ := pol.branchColor(tr, c)
	if colA == colC {
		t.Errorf("G1 and G2 resolved to the same color: %v", colA)
	}

	// ungrouped terminal takes the neutral colors
	if col, emph := pol.branchColor(tr, e); col != black || emph {
		t.Errorf("branch to E: got %v (emphasis %v), want neutral", col, emph)
	}
	if col, _ := pol.markerStyle(tr, e); col != gray {
		t.Errorf("marker of E: got %v, want %v", col, gray)
	}

	// internal branches are neutral in group mode
	if col, _ := pol.branchColor(tr, tr.Parent(a)); col != black {
		t.Errorf("internal branch: got %v, want %v", col, black)
	}
}

func TestPolicyDefaultByStyle(t *testing.T) {
	tr := newTestTree(t, treeBlob)

	g := grouping.New()
	g.Add("G1", "A", "B")
	o := &Options{Groups: g}
	o.setDefaults()

	// with a grouping but without an explicit request,
	// rectangular and radial stay on the gradient
	if pol := newPolicy(tr, o, Rectangular); pol.mode != modeGradient {
		t.Errorf("rectangular: got mode %d, want gradient", pol.mode)
	}
	if pol := newPolicy(tr, o, Radial); pol.mode != modeGradient {
		t.Errorf("radial: got mode %d, want gradient", pol.mode)
	}

	// circular and heatmap color by group
	if pol := newPolicy(tr, o, Circular); pol.mode != modeGroups {
		t.Errorf("circular: got mode %d, want groups", pol.mode)
	}
	if pol := newPolicy(tr, o, Heatmap); pol.mode != modeGroups {
		t.Errorf("heatmap: got mode %d, want groups", pol.mode)
	}
}

func TestPolicyDegenerate(t *testing.T) {
	// a tree without branch lengths
	// degrades the gradient to a monochrome drawing
	tr := newTestTree(t, "(A,B,(C,D));")
	o := &Options{}
	o.setDefaults()

	pol := newPolicy(tr, o, Rectangular)
	if pol.mode != modePlain {
		t.Fatalf("mode: got %d, want plain", pol.mode)
	}
	for _, id := range tr.Nodes() {
		if id == tr.Root() {
			continue
		}
		if col, emph := pol.branchColor(tr, id); col != black || emph {
			t.Errorf("branch to %d: got %v (emphasis %v), want neutral", id, col, emph)
		}
	}
}
