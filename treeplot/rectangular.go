// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package treeplot

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ebalboa/phytrees/phylo"
	"github.com/ebalboa/phytrees/phylo/layout"
)

// A rectBranches is a plotter that draws the branches
// of a tree in the rectangular layout:
// an horizontal line per branch,
// at the vertical slot of the child node,
// and a vertical connector at each internal node,
// spanning the slots of its children.
type rectBranches struct {
	t   *phylo.Tree
	pos map[int]layout.XY
	pol *policy
}

// Plot implements the plot.Plotter interface.
func (r *rectBranches) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	for _, id := range r.t.Nodes() {
		pa := r.t.Parent(id)
		if pa < 0 {
			continue
		}
		col, emph := r.pol.branchColor(r.t, id)
		w := vg.Points(1.5)
		if emph {
			w = vg.Points(2.5)
		}
		sty := draw.LineStyle{Color: col, Width: w}
		y := trY(r.pos[id].Y)
		c.StrokeLine2(sty, trX(r.pos[pa].X), y, trX(r.pos[id].X), y)
	}

	// connectors are always drawn in the neutral color
	sty := draw.LineStyle{Color: black, Width: vg.Points(1.5)}
	for _, id := range r.t.Nodes() {
		children := r.t.Children(id)
		if len(children) == 0 {
			continue
		}
		ys := make([]float64, 0, len(children))
		for _, d := range children {
			ys = append(ys, r.pos[d].Y)
		}
		x := trX(r.pos[id].X)
		c.StrokeLine2(sty, x, trY(floats.Min(ys)), x, trY(floats.Max(ys)))
	}
}

// DataRange implements the plot.DataRanger interface.
func (r *rectBranches) DataRange() (xMin, xMax, yMin, yMax float64) {
	xs := make([]float64, 0, r.t.Len())
	ys := make([]float64, 0, r.t.Len())
	for _, id := range r.t.Nodes() {
		xs = append(xs, r.pos[id].X)
		ys = append(ys, r.pos[id].Y)
	}

	xMin, xMax = floats.Min(xs), floats.Max(xs)
	// headroom for the terminal labels
	xMax += (xMax - xMin) * 0.25
	if xMax == xMin {
		xMax = xMin + 1
	}
	yMin, yMax = floats.Min(ys)-0.5, floats.Max(ys)+0.5
	return xMin, xMax, yMin, yMax
}

func rectangularFigure(t *phylo.Tree, o *Options) (*figure, error) {
	pol := newPolicy(t, o, Rectangular)
	pos := layout.Rectangular(t, !o.Cladogram)

	p := plot.New()
	kind := "Phylogram"
	xLabel := "evolutionary distance"
	if o.Cladogram {
		kind = "Cladogram"
		xLabel = "cladogram depth"
	}
	p.Title.Text = kind + " - Rectangular Layout"
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "taxa"
	p.Add(plotter.NewGrid())

	p.Add(&rectBranches{t: t, pos: pos, pol: pol})
	if err := addRectTerminals(p, t, pos, pol); err != nil {
		return nil, err
	}
	addLegend(p, pol)

	f := &figure{main: p, width: 16 * vg.Inch, height: 12 * vg.Inch}
	if pol.mode == modeGradient {
		f.bar = colorBarPlot(pol.grad)
	}
	return f, nil
}

// AddRectTerminals adds the markers and labels
// of the tree terminals
// to a rectangular layout plot.
func addRectTerminals(p *plot.Plot, t *phylo.Tree, pos map[int]layout.XY, pol *policy) error {
	terms := t.Terms()
	pts := make(plotter.XYs, 0, len(terms))
	var maxX float64
	for _, id := range terms {
		pts = append(pts, plotter.XY{X: pos[id].X, Y: pos[id].Y})
		if pos[id].X > maxX {
			maxX = pos[id].X
		}
	}

	sc, err := terminalMarkers(t, pts, terms, pol)
	if err != nil {
		return err
	}

	// labels slightly to the right of the markers
	off := maxX * 0.02
	if off == 0 {
		off = 0.02
	}
	lPts := make(plotter.XYs, len(pts))
	for i, xy := range pts {
		lPts[i] = plotter.XY{X: xy.X + off, Y: xy.Y}
	}
	lbs, err := terminalLabels(t, lPts, terms, pol, false)
	if err != nil {
		return err
	}

	p.Add(sc, lbs)
	return nil
}
