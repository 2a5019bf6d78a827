// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package treeplot

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/ebalboa/phytrees/phylo"
	"github.com/ebalboa/phytrees/phylo/layout"
)

// The heatmap style draws the tree in the rectangular layout
// with neutral branches:
// group colors are applied only to the terminal markers
// and the legend,
// so an annotation matrix can be attached
// to the labeled side of the drawing.
func heatmapFigure(t *phylo.Tree, o *Options) (*figure, error) {
	pol := newPolicy(t, o, Heatmap)
	pos := layout.Rectangular(t, !o.Cladogram)

	p := plot.New()
	p.Title.Text = "Phylogenetic Tree with Heatmap"
	p.X.Label.Text = "evolutionary distance"
	p.Y.Label.Text = "taxa"

	// branches keep the neutral color regardless of the groups
	p.Add(&rectBranches{t: t, pos: pos, pol: &policy{}})
	if err := addRectTerminals(p, t, pos, pol); err != nil {
		return nil, err
	}
	addLegend(p, pol)

	return &figure{main: p, width: 20 * vg.Inch, height: 12 * vg.Inch}, nil
}
