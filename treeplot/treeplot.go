// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package treeplot draws phylogenetic trees
// in several graphical layouts,
// with branches colored by a branch length gradient,
// or by group membership of the terminals.
//
// Every render reads the tree file,
// computes a fresh layout,
// and writes a PNG and a PDF file
// with the same base name.
// Renders are independent:
// no state is shared between calls.
package treeplot

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"io/fs"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/ebalboa/phytrees/grouping"
	"github.com/ebalboa/phytrees/phylo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// A Style is a tree drawing layout.
type Style string

// Valid styles.
const (
	Circular    Style = "circular"
	Rectangular Style = "rectangular"
	Radial      Style = "radial"
	Heatmap     Style = "heatmap"
)

// ParseStyle returns the style named by a command line argument.
func ParseStyle(s string) (Style, error) {
	switch st := Style(strings.ToLower(strings.TrimSpace(s))); st {
	case Circular, Rectangular, Radial, Heatmap:
		return st, nil
	}
	return "", fmt.Errorf("unknown visualization style %q", s)
}

// Error taxonomy of a render call.
// All errors returned by Render wrap one of these values.
var (
	// The tree file does not exist.
	ErrInputNotFound = errors.New("tree file not found")

	// The tree file cannot be parsed.
	ErrParse = errors.New("unreadable tree file")

	// The tree is too small to be drawn.
	ErrDegenerate = errors.New("degenerate tree")

	// The drawing or the output files cannot be produced.
	ErrRender = errors.New("render failed")
)

// DefaultDPI is the resolution of the PNG output.
const DefaultDPI = 800

// Options are the shared parameters of a render call.
// The zero value is a valid set of options:
// no grouping,
// branch length gradient coloring,
// phylogram layout,
// 800 DPI output,
// and no logging.
type Options struct {
	// Groups of terminals used for coloring
	// and for the drawing legend
	Groups *grouping.Groups

	// If GroupColor is true,
	// the rectangular and radial styles color branches
	// by group membership
	// instead of the branch length gradient.
	// The circular and heatmap styles
	// always color by group.
	GroupColor bool

	// If Cladogram is true,
	// every branch is drawn as a unit step,
	// ignoring branch lengths.
	Cladogram bool

	// Resolution of the PNG output,
	// DefaultDPI if zero
	DPI int

	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Render draws a newick tree file in the given style,
// producing the files <stem>.png and <stem>.pdf.
//
// Any failure is returned as an error
// wrapping one of the package error values;
// no output file is left behind on failure.
func Render(style Style, treeFile, stem string, o Options) error {
	o.setDefaults()
	lg := o.Logger.With("style", string(style))

	t, err := readTree(treeFile)
	if err != nil {
		lg.Error("unable to read tree", "file", treeFile, "error", err)
		return err
	}

	f, err := buildFigure(style, t, &o)
	if err != nil {
		lg.Error("unable to build figure", "error", err)
		return fmt.Errorf("style %s: %w: %v", style, ErrRender, err)
	}
	if err := f.save(stem, o.DPI); err != nil {
		lg.Error("unable to save figure", "error", err)
		return fmt.Errorf("style %s: %w: %v", style, ErrRender, err)
	}

	lg.Info("visualization saved", "png", stem+".png", "pdf", stem+".pdf")
	return nil
}

func readTree(treeFile string) (*phylo.Tree, error) {
	t, err := phylo.ReadFile(treeFile)
	if err == nil {
		return t, nil
	}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %v", ErrInputNotFound, err)
	case errors.Is(err, phylo.ErrEmptyTree):
		return nil, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}
	return nil, fmt.Errorf("%w: %v", ErrParse, err)
}

func buildFigure(style Style, t *phylo.Tree, o *Options) (*figure, error) {
	switch style {
	case Circular:
		return circularFigure(t, o)
	case Rectangular:
		return rectangularFigure(t, o)
	case Radial:
		return radialFigure(t, o)
	case Heatmap:
		return heatmapFigure(t, o)
	}
	return nil, fmt.Errorf("unknown visualization style %q", style)
}

// A variant is one of the outputs of a multi-style run.
type variant struct {
	style     Style
	suffix    string
	cladogram bool
}

var allVariants = []variant{
	{style: Circular, suffix: "_circular"},
	{style: Rectangular, suffix: "_rectangular_phylogram"},
	{style: Rectangular, suffix: "_rectangular_cladogram", cladogram: true},
	{style: Radial, suffix: "_radial_phylogram"},
	{style: Radial, suffix: "_radial_cladogram", cladogram: true},
	{style: Heatmap, suffix: "_tree_heatmap"},
}

// NumStyles is the number of outputs of a multi-style run.
const NumStyles = 6

// RenderAll draws a tree file in all the available styles,
// using <prefix><suffix>.png and <prefix><suffix>.pdf
// as the output files of each style variant.
// It returns the number of successful renders;
// failed styles are logged and skipped,
// and reported with a non-nil error
// after all styles were attempted.
func RenderAll(treeFile, prefix string, o Options) (int, error) {
	o.setDefaults()

	done := 0
	for _, v := range allVariants {
		vo := o
		vo.Cladogram = v.cladogram
		if err := Render(v.style, treeFile, prefix+v.suffix, vo); err != nil {
			o.Logger.Error("visualization failed", "output", prefix+v.suffix, "error", err)
			continue
		}
		done++
	}

	o.Logger.Info(fmt.Sprintf("successfully created %d/%d visualization styles", done, NumStyles))
	if done < NumStyles {
		return done, fmt.Errorf("%d of %d visualization styles failed", NumStyles-done, NumStyles)
	}
	return done, nil
}

// Colors of the elements that are not colored
// by the gradient or by a group.
var (
	black     = color.RGBA{A: 255}
	gray      = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	lightGray = color.RGBA{R: 211, G: 211, B: 211, A: 255}
)

// A colorMode is the active coloring of a render call.
type colorMode int

const (
	// Monochrome drawing:
	// the fallback when there is nothing to color by.
	modePlain colorMode = iota

	// Branches colored by the branch length gradient.
	modeGradient

	// Branches and markers of grouped terminals
	// colored by group.
	modeGroups
)

// A policy resolves the color of every tree element
// under the active color mode.
type policy struct {
	mode      colorMode
	grad      *Gradient
	groups    *grouping.Groups
	leafGroup map[string]string
	groupCol  map[string]color.RGBA
}

// NewPolicy selects the color mode of a render call:
// the circular and heatmap styles color by group;
// the rectangular and radial styles default
// to the branch length gradient,
// unless group coloring was requested.
// A tree without branch lengths
// degrades the gradient to a monochrome drawing.
func newPolicy(t *phylo.Tree, o *Options, style Style) *policy {
	p := &policy{}
	if o.Groups != nil && o.Groups.Len() > 0 {
		p.groups = o.Groups
		p.leafGroup = o.Groups.LeafGroups()
		p.groupCol = o.Groups.Colors()
	}

	byGroup := style == Circular || style == Heatmap || o.GroupColor
	if byGroup {
		if p.groups != nil {
			p.mode = modeGroups
		}
		return p
	}

	min, max, ok := t.MinMaxBranchLength()
	if !ok {
		o.Logger.Warn("tree without branch lengths: drawing without gradient")
		return p
	}
	p.mode = modeGradient
	p.grad = NewGradient(min, max)
	return p
}

// BranchColor returns the color of the branch
// that connects a node to its parent,
// and whether the branch should be emphasized
// (drawn thicker).
func (p *policy) branchColor(t *phylo.Tree, id int) (color.Color, bool) {
	switch p.mode {
	case modeGradient:
		// an undefined branch length colors as zero
		l, _ := t.BranchLength(id)
		return p.grad.Color(l), false
	case modeGroups:
		if t.IsTerm(id) {
			if g, ok := p.leafGroup[t.Name(id)]; ok {
				return p.groupCol[g], true
			}
		}
	}
	return black, false
}

// MarkerStyle returns the color and size
// of the marker of a terminal node.
func (p *policy) markerStyle(t *phylo.Tree, id int) (color.Color, vg.Length) {
	switch p.mode {
	case modeGradient:
		l, _ := t.BranchLength(id)
		return p.grad.Color(l), vg.Points(3)
	case modeGroups:
		if g, ok := p.leafGroup[t.Name(id)]; ok {
			return p.groupCol[g], vg.Points(3)
		}
	}
	return gray, vg.Points(2.5)
}

// LabelColor returns the color of the label of a terminal.
// Only grouped terminals are highlighted;
// any other label is black.
func (p *policy) labelColor(t *phylo.Tree, id int) color.Color {
	if p.mode != modeGroups {
		return black
	}
	if g, ok := p.leafGroup[t.Name(id)]; ok {
		return p.groupCol[g]
	}
	return black
}

// TerminalMarkers builds the scatter plotter
// with the markers of the tree terminals.
func terminalMarkers(t *phylo.Tree, pts plotter.XYs, ids []int, pol *policy) (*plotter.Scatter, error) {
	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, err
	}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		c, r := pol.markerStyle(t, ids[i])
		return draw.GlyphStyle{Color: c, Radius: r, Shape: draw.CircleGlyph{}}
	}
	return sc, nil
}

// TerminalLabels builds the label plotter
// with the names of the tree terminals.
// If colored is true,
// labels of grouped terminals take the group color.
func terminalLabels(t *phylo.Tree, pts plotter.XYs, ids []int, pol *policy, colored bool) (*plotter.Labels, error) {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, t.Name(id))
	}
	lbs, err := plotter.NewLabels(plotter.XYLabels{XYs: pts, Labels: names})
	if err != nil {
		return nil, err
	}
	if colored {
		for i := range lbs.TextStyle {
			lbs.TextStyle[i].Color = pol.labelColor(t, ids[i])
		}
	}
	return lbs, nil
}

// AddLegend adds a legend entry per group,
// in group insertion order.
func addLegend(p *plot.Plot, pol *policy) {
	if pol.mode != modeGroups {
		return
	}
	for _, name := range pol.groups.Names() {
		thumb := &plotter.Line{
			LineStyle: draw.LineStyle{
				Color: pol.groupCol[name],
				Width: vg.Points(4),
			},
		}
		p.Legend.Add(name, thumb)
	}
	p.Legend.Top = true
}

// ColorBarPlot builds the colorbar strip
// shown beside gradient-colored drawings.
func colorBarPlot(grad *Gradient) *plot.Plot {
	bp := plot.New()
	bp.HideX()
	bp.Y.Label.Text = "branch length"
	bp.Add(&plotter.ColorBar{ColorMap: grad, Vertical: true})
	return bp
}
