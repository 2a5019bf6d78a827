// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package treeplot

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ebalboa/phytrees/phylo"
	"github.com/ebalboa/phytrees/phylo/layout"
)

// A circularBranches is a plotter that draws the branches
// of a tree as a circular diagram:
// a radial segment per branch,
// at the angle of the child node,
// and an arc at each internal node radius,
// spanning the angles of its children.
//
// Branches are drawn in a light gray,
// except the terminal branches of grouped terminals,
// that take the group color.
type circularBranches struct {
	t   *phylo.Tree
	pos map[int]layout.Polar
	pol *policy
}

// Plot implements the plot.Plotter interface.
func (cb *circularBranches) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	arcSty := draw.LineStyle{Color: lightGray, Width: vg.Points(1.5)}
	for _, id := range cb.t.Nodes() {
		children := cb.t.Children(id)
		if len(children) == 0 {
			continue
		}
		angles := make([]float64, 0, len(children))
		for _, d := range children {
			angles = append(angles, cb.pos[d].Angle)
		}
		a0, a1 := arcSpan(angles)
		strokeArc(c, trX, trY, arcSty, cb.pos[id].Radius, a0, a1)
	}

	for _, id := range cb.t.Nodes() {
		pa := cb.t.Parent(id)
		if pa < 0 {
			continue
		}
		col := color.Color(lightGray)
		w := vg.Points(1.5)
		if cb.pol.mode == modeGroups && cb.t.IsTerm(id) {
			if g, ok := cb.pol.leafGroup[cb.t.Name(id)]; ok {
				col = cb.pol.groupCol[g]
				w = vg.Points(2.5)
			}
		}
		a := cb.pos[id].Angle
		r0, r1 := cb.pos[pa].Radius, cb.pos[id].Radius
		sty := draw.LineStyle{Color: col, Width: w}
		c.StrokeLine2(sty,
			trX(r0*math.Cos(a)), trY(r0*math.Sin(a)),
			trX(r1*math.Cos(a)), trY(r1*math.Sin(a)))
	}
}

// DataRange implements the plot.DataRanger interface.
func (cb *circularBranches) DataRange() (xMin, xMax, yMin, yMax float64) {
	rs := make([]float64, 0, len(cb.pos))
	for _, p := range cb.pos {
		rs = append(rs, p.Radius)
	}
	ext := floats.Max(rs)
	if ext == 0 {
		ext = 1
	}
	ext *= 1.35
	return -ext, ext, -ext, ext
}

// ArcSpan returns the angular interval of the arc
// that connects a set of child angles,
// given in child order:
// from the angle of the first child
// to the angle of the last one.
// If the interval wraps over the 0/2π boundary
// the end angle is unrolled past 2π,
// so the arc crosses the boundary
// instead of running the long way around the circle.
func arcSpan(angles []float64) (a0, a1 float64) {
	a0 = angles[0]
	a1 = angles[len(angles)-1]
	if a1 < a0 {
		a1 += 2 * math.Pi
	}
	return a0, a1
}

// StrokeArc draws a circle arc of radius r,
// centered on the origin of the data space,
// from angle a0 to angle a1,
// flattened into short chords.
func strokeArc(c draw.Canvas, trX, trY func(float64) vg.Length, sty draw.LineStyle, r, a0, a1 float64) {
	if r == 0 || a0 == a1 {
		return
	}

	// a chord every two degrees
	n := int(math.Ceil((a1 - a0) / (math.Pi / 90)))
	if n < 1 {
		n = 1
	}

	var p vg.Path
	p.Move(vg.Point{X: trX(r * math.Cos(a0)), Y: trY(r * math.Sin(a0))})
	for i := 1; i <= n; i++ {
		a := a0 + (a1-a0)*float64(i)/float64(n)
		p.Line(vg.Point{X: trX(r * math.Cos(a)), Y: trY(r * math.Sin(a))})
	}
	c.SetLineStyle(sty)
	c.Stroke(p)
}

func circularFigure(t *phylo.Tree, o *Options) (*figure, error) {
	pol := newPolicy(t, o, Circular)
	pos := layout.Radial(t, !o.Cladogram)

	p := plot.New()
	p.Title.Text = "Circular Layout"
	p.HideAxes()

	p.Add(&circularBranches{t: t, pos: pos, pol: pol})

	var maxR float64
	for _, pl := range pos {
		if pl.Radius > maxR {
			maxR = pl.Radius
		}
	}
	if maxR == 0 {
		maxR = 1
	}

	terms := t.Terms()
	pts := make(plotter.XYs, 0, len(terms))
	lPts := make(plotter.XYs, 0, len(terms))
	for _, id := range terms {
		a, r := pos[id].Angle, pos[id].Radius
		pts = append(pts, plotter.XY{X: r * math.Cos(a), Y: r * math.Sin(a)})

		// labels pinned just outside the outer radius
		lr := maxR * 1.04
		lPts = append(lPts, plotter.XY{X: lr * math.Cos(a), Y: lr * math.Sin(a)})
	}
	sc, err := terminalMarkers(t, pts, terms, pol)
	if err != nil {
		return nil, err
	}
	lbs, err := terminalLabels(t, lPts, terms, pol, true)
	if err != nil {
		return nil, err
	}
	p.Add(sc, lbs)
	addLegend(p, pol)

	return &figure{main: p, width: 12 * vg.Inch, height: 12 * vg.Inch}, nil
}
