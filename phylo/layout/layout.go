// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package layout implements the coordinate systems
// used to draw a phylogenetic tree,
// either as a rectangular (Cartesian) tree,
// or as a radial (polar) tree.
//
// Layouts are pure functions:
// the tree is never modified,
// and the positions are returned as a table
// indexed by the node IDs of the tree.
package layout

import (
	"math"

	"github.com/ebalboa/phytrees/phylo"
)

// YSpan is the total height of the rectangular layout.
// Terminals are spread evenly over this span
// regardless of the number of terminals,
// so the aspect of the drawing is stable
// across trees of different sizes.
const YSpan = 10.0

// An XY is a position in the rectangular layout.
type XY struct {
	// Cumulative branch length
	// (or node depth in a cladogram)
	// from the root
	X float64

	// Vertical slot of the node
	Y float64
}

// A Polar is a position in the radial layout.
type Polar struct {
	// Angle of the node in radians,
	// in the range [0, 2π)
	Angle float64

	// Cumulative branch length
	// (or node depth in a cladogram)
	// from the root
	Radius float64
}

// Rectangular computes the position of every node of a tree
// in a rectangular layout.
//
// If useBrLen is true,
// the X coordinate of a node is its cumulative branch length
// from the root
// (a phylogram);
// otherwise each branch counts as a unit step
// (a cladogram).
//
// Terminals are assigned evenly spaced Y values,
// in traversal order,
// spanning [0, YSpan];
// an internal node takes the unweighted mean
// of the Y values of its immediate children.
func Rectangular(t *phylo.Tree, useBrLen bool) map[int]XY {
	terms := t.Terms()
	yStep := YSpan / math.Max(float64(len(terms)-1), 1)
	termY := make(map[int]float64, len(terms))
	for i, id := range terms {
		termY[id] = float64(i) * yStep
	}

	pos := make(map[int]XY, t.Len())
	rectNode(t, t.Root(), useBrLen, termY, pos)
	return pos
}

func rectNode(t *phylo.Tree, id int, useBrLen bool, termY map[int]float64, pos map[int]XY) XY {
	x := float64(t.Depth(id))
	if useBrLen {
		x = t.LenFromRoot(id)
	}

	children := t.Children(id)
	if len(children) == 0 {
		p := XY{X: x, Y: termY[id]}
		pos[id] = p
		return p
	}

	var sum float64
	for _, c := range children {
		sum += rectNode(t, c, useBrLen, termY, pos).Y
	}
	p := XY{X: x, Y: sum / float64(len(children))}
	pos[id] = p
	return p
}

// Radial computes the position of every node of a tree
// in a radial layout.
//
// The radius of a terminal follows the same rule
// as the X coordinate of the rectangular layout;
// terminal angles are evenly spaced around a full turn,
// in traversal order.
// An internal node takes the circular mean
// of the angles of its immediate children,
// and the unweighted mean of their radii.
func Radial(t *phylo.Tree, useBrLen bool) map[int]Polar {
	terms := t.Terms()
	termAngle := make(map[int]float64, len(terms))
	for i, id := range terms {
		termAngle[id] = 2 * math.Pi * float64(i) / float64(len(terms))
	}

	pos := make(map[int]Polar, t.Len())
	radialNode(t, t.Root(), useBrLen, termAngle, pos)
	return pos
}

func radialNode(t *phylo.Tree, id int, useBrLen bool, termAngle map[int]float64, pos map[int]Polar) Polar {
	children := t.Children(id)
	if len(children) == 0 {
		r := float64(t.Depth(id))
		if useBrLen {
			r = t.LenFromRoot(id)
		}
		p := Polar{Angle: termAngle[id], Radius: r}
		pos[id] = p
		return p
	}

	angles := make([]float64, 0, len(children))
	var sumR float64
	for _, c := range children {
		cp := radialNode(t, c, useBrLen, termAngle, pos)
		angles = append(angles, cp.Angle)
		sumR += cp.Radius
	}

	p := Polar{
		Angle:  CircularMean(angles),
		Radius: sumR / float64(len(children)),
	}
	pos[id] = p
	return p
}

// CircularMean returns the mean of a set of angles,
// in radians,
// normalized to the range [0, 2π).
//
// The mean is taken over the sine and cosine components,
// so angles that straddle the 0/2π boundary
// average correctly
// (e.g. the mean of 0.1 and 2π-0.1 is near 0, not π).
func CircularMean(angles []float64) float64 {
	if len(angles) == 0 {
		return 0
	}

	var sin, cos float64
	for _, a := range angles {
		sin += math.Sin(a)
		cos += math.Cos(a)
	}
	sin /= float64(len(angles))
	cos /= float64(len(angles))

	m := math.Atan2(sin, cos)
	if m < 0 {
		m += 2 * math.Pi
	}
	return m
}
