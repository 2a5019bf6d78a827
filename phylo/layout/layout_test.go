// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package layout_test

import (
	"math"
	"strings"
	"testing"

	"github.com/ebalboa/phytrees/phylo"
	"github.com/ebalboa/phytrees/phylo/layout"
)

const treeBlob = "((A:0.1,B:0.2):0.3,(C:0.1,D:0.3):0.2,E:0.5);"

func readTree(t testing.TB, blob string) *phylo.Tree {
	t.Helper()

	tr, err := phylo.Read(strings.NewReader(blob))
	if err != nil {
		t.Fatalf("unable to read tree: %v", err)
	}
	return tr
}

func TestRectangular(t *testing.T) {
	tr := readTree(t, treeBlob)
	pos := layout.Rectangular(tr, true)

	if len(pos) != tr.Len() {
		t.Fatalf("positions: got %d, want %d", len(pos), tr.Len())
	}

	// terminal Y values are monotonically increasing
	// in traversal order,
	// and span [0, YSpan]
	terms := tr.Terms()
	prev := math.Inf(-1)
	for _, id := range terms {
		if y := pos[id].Y; y <= prev {
			t.Errorf("terminal %q: got y = %.3f, want > %.3f", tr.Name(id), y, prev)
		}
		prev = pos[id].Y
	}
	if y := pos[terms[0]].Y; y != 0 {
		t.Errorf("first terminal: got y = %.3f, want 0", y)
	}
	if y := pos[terms[len(terms)-1]].Y; y != layout.YSpan {
		t.Errorf("last terminal: got y = %.3f, want %.1f", y, layout.YSpan)
	}

	// X is the cumulative branch length
	a := terms[0]
	if x := pos[a].X; math.Abs(x-0.4) > 1e-10 {
		t.Errorf("terminal %q: got x = %.6f, want 0.4", tr.Name(a), x)
	}
	if x := pos[tr.Parent(a)].X; math.Abs(x-0.3) > 1e-10 {
		t.Errorf("internal node: got x = %.6f, want 0.3", x)
	}
	if x := pos[tr.Root()].X; x != 0 {
		t.Errorf("root: got x = %.6f, want 0", x)
	}

	// an internal node is at the unweighted mean
	// of its children
	b := terms[1]
	want := (pos[a].Y + pos[b].Y) / 2
	if y := pos[tr.Parent(a)].Y; math.Abs(y-want) > 1e-10 {
		t.Errorf("internal node: got y = %.6f, want %.6f", y, want)
	}
}

func TestRectangularCladogram(t *testing.T) {
	tr := readTree(t, treeBlob)
	pos := layout.Rectangular(tr, false)

	terms := tr.Terms()
	a, e := terms[0], terms[4]
	if x := pos[a].X; x != 2 {
		t.Errorf("terminal %q: got x = %.3f, want 2", tr.Name(a), x)
	}
	if x := pos[e].X; x != 1 {
		t.Errorf("terminal %q: got x = %.3f, want 1", tr.Name(e), x)
	}
}

func TestRectangularSingleTerminal(t *testing.T) {
	tr := readTree(t, "(A:1.0);")
	pos := layout.Rectangular(tr, true)

	terms := tr.Terms()
	if len(terms) != 1 {
		t.Fatalf("terminals: got %d, want 1", len(terms))
	}
	if y := pos[terms[0]].Y; y != 0 {
		t.Errorf("single terminal: got y = %.3f, want 0", y)
	}
}

func TestRadial(t *testing.T) {
	tr := readTree(t, treeBlob)
	pos := layout.Radial(tr, true)

	if len(pos) != tr.Len() {
		t.Fatalf("positions: got %d, want %d", len(pos), tr.Len())
	}

	// terminal angles are evenly spaced
	terms := tr.Terms()
	for i, id := range terms {
		want := 2 * math.Pi * float64(i) / float64(len(terms))
		if a := pos[id].Angle; math.Abs(a-want) > 1e-10 {
			t.Errorf("terminal %q: got angle %.6f, want %.6f", tr.Name(id), a, want)
		}
	}

	// radius is the cumulative branch length
	a := terms[0]
	if r := pos[a].Radius; math.Abs(r-0.4) > 1e-10 {
		t.Errorf("terminal %q: got radius %.6f, want 0.4", tr.Name(a), r)
	}

	// internal radius is the mean of the children radii
	b := terms[1]
	wantR := (pos[a].Radius + pos[b].Radius) / 2
	if r := pos[tr.Parent(a)].Radius; math.Abs(r-wantR) > 1e-10 {
		t.Errorf("internal node: got radius %.6f, want %.6f", r, wantR)
	}

	// internal angle is the circular mean of the children angles
	wantA := layout.CircularMean([]float64{pos[a].Angle, pos[b].Angle})
	if g := pos[tr.Parent(a)].Angle; math.Abs(g-wantA) > 1e-10 {
		t.Errorf("internal node: got angle %.6f, want %.6f", g, wantA)
	}
}

func TestRadialOppositeChildren(t *testing.T) {
	// two terminals sit at angles 0 and π;
	// their parent must be at π/2,
	// not at the numeric mean of the raw angles
	tr := readTree(t, "(A:1.0,B:1.0);")
	pos := layout.Radial(tr, true)

	if a := pos[tr.Root()].Angle; math.Abs(a-math.Pi/2) > 1e-10 {
		t.Errorf("root: got angle %.6f, want %.6f", a, math.Pi/2)
	}
}

func TestCircularMean(t *testing.T) {
	tests := map[string]struct {
		angles []float64
		want   float64
	}{
		"symmetric":  {angles: []float64{0, math.Pi}, want: math.Pi / 2},
		"quarter":    {angles: []float64{0, math.Pi / 2}, want: math.Pi / 4},
		"single":     {angles: []float64{1.25}, want: 1.25},
		"empty":      {angles: nil, want: 0},
		"wraparound": {angles: []float64{0.1, 2*math.Pi - 0.1}, want: 0},
	}

	for name, test := range tests {
		got := layout.CircularMean(test.angles)
		if d := angDist(got, test.want); d > 1e-10 {
			t.Errorf("%s: got %.6f, want %.6f", name, got, test.want)
		}
		if got < 0 || got >= 2*math.Pi {
			t.Errorf("%s: angle %.6f outside [0, 2π)", name, got)
		}
	}
}

// AngDist returns the distance between two angles
// over the circle.
func angDist(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}
