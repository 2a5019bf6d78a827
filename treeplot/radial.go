// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package treeplot

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ebalboa/phytrees/phylo"
	"github.com/ebalboa/phytrees/phylo/layout"
)

// A radialBranches is a plotter that draws the branches
// of a tree in the radial layout,
// as straight segments from each node to its parent.
// Positions are already projected to Cartesian space.
type radialBranches struct {
	t   *phylo.Tree
	xy  map[int]layout.XY
	pol *policy
}

// Plot implements the plot.Plotter interface.
func (r *radialBranches) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	for _, id := range r.t.Nodes() {
		pa := r.t.Parent(id)
		if pa < 0 {
			continue
		}
		col, emph := r.pol.branchColor(r.t, id)
		w := vg.Points(2)
		if emph {
			w = vg.Points(2.5)
		}
		sty := draw.LineStyle{Color: col, Width: w}
		c.StrokeLine2(sty,
			trX(r.xy[pa].X), trY(r.xy[pa].Y),
			trX(r.xy[id].X), trY(r.xy[id].Y))
	}
}

// DataRange implements the plot.DataRanger interface.
// The range is a square centered on the root,
// with headroom for the terminal labels.
func (r *radialBranches) DataRange() (xMin, xMax, yMin, yMax float64) {
	ext := maxRadius(r.xy) * 1.3
	return -ext, ext, -ext, ext
}

// ToCartesian projects a polar layout into Cartesian space.
func toCartesian(pos map[int]layout.Polar) map[int]layout.XY {
	xy := make(map[int]layout.XY, len(pos))
	for id, p := range pos {
		xy[id] = layout.XY{
			X: p.Radius * math.Cos(p.Angle),
			Y: p.Radius * math.Sin(p.Angle),
		}
	}
	return xy
}

// MaxRadius returns the radius of the outermost node.
// It is never zero,
// so it can be used to scale offsets and data ranges.
func maxRadius(xy map[int]layout.XY) float64 {
	rs := make([]float64, 0, len(xy))
	for _, p := range xy {
		rs = append(rs, math.Hypot(p.X, p.Y))
	}
	max := floats.Max(rs)
	if max == 0 {
		return 1
	}
	return max
}

func radialFigure(t *phylo.Tree, o *Options) (*figure, error) {
	pol := newPolicy(t, o, Radial)
	pos := layout.Radial(t, !o.Cladogram)
	xy := toCartesian(pos)

	p := plot.New()
	kind := "Phylogram"
	if o.Cladogram {
		kind = "Cladogram"
	}
	p.Title.Text = kind + " - Radial Layout"
	p.HideAxes()

	p.Add(&radialBranches{t: t, xy: xy, pol: pol})

	terms := t.Terms()
	pts := make(plotter.XYs, 0, len(terms))
	for _, id := range terms {
		pts = append(pts, plotter.XY{X: xy[id].X, Y: xy[id].Y})
	}
	sc, err := terminalMarkers(t, pts, terms, pol)
	if err != nil {
		return nil, err
	}

	// labels pushed outwards along the terminal angle
	off := maxRadius(xy) * 0.04
	lPts := make(plotter.XYs, 0, len(terms))
	for _, id := range terms {
		a, r := pos[id].Angle, pos[id].Radius+off
		lPts = append(lPts, plotter.XY{X: r * math.Cos(a), Y: r * math.Sin(a)})
	}
	lbs, err := terminalLabels(t, lPts, terms, pol, false)
	if err != nil {
		return nil, err
	}
	p.Add(sc, lbs)
	addLegend(p, pol)

	f := &figure{main: p, width: 14 * vg.Inch, height: 14 * vg.Inch}
	if pol.mode == modeGradient {
		f.bar = colorBarPlot(pol.grad)
	}
	return f, nil
}
