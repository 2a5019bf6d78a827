// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package treeplot

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/js-arias/blind"
	"gonum.org/v1/plot/palette"
)

// A Gradient maps branch lengths to colors
// using the smooth rainbow scheme of Paul Tol
// <https://personal.sron.nl/~pault/#fig:scheme_rainbow_smooth>.
//
// It implements the palette.ColorMap interface of gonum/plot,
// so the same gradient that colors the branches
// also renders the colorbar.
type Gradient struct {
	min, max float64
	alpha    float64
}

// NewGradient creates a gradient
// over the closed range [min, max].
func NewGradient(min, max float64) *Gradient {
	if max < min {
		min, max = max, min
	}
	return &Gradient{min: min, max: max, alpha: 1}
}

var errGradientRange = errors.New("value outside the gradient range")

// At returns the color of a value inside the gradient range.
func (g *Gradient) At(v float64) (color.Color, error) {
	if v < g.min || v > g.max {
		return nil, fmt.Errorf("%w: %.6g not in [%.6g, %.6g]", errGradientRange, v, g.min, g.max)
	}
	return g.Color(v), nil
}

// Color returns the color of a value,
// clamping values outside the gradient range.
func (g *Gradient) Color(v float64) color.Color {
	t := g.Normalize(v)
	c := blind.Sequential(blind.RainbowPurpleToRed, t)
	if g.alpha < 1 {
		r, gr, b, _ := c.RGBA()
		return color.RGBA64{
			R: uint16(float64(r) * g.alpha),
			G: uint16(float64(gr) * g.alpha),
			B: uint16(float64(b) * g.alpha),
			A: uint16(g.alpha * 0xffff),
		}
	}
	return c
}

// Normalize returns the position of a value
// in the gradient range,
// as a linear mapping of [min, max] into [0, 1].
// Values outside the range are clamped,
// and an empty range maps every value to 0.
func (g *Gradient) Normalize(v float64) float64 {
	if g.max == g.min {
		return 0
	}
	t := (v - g.min) / (g.max - g.min)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return t
}

// Max returns the maximum of the gradient range.
func (g *Gradient) Max() float64 { return g.max }

// SetMax sets the maximum of the gradient range.
func (g *Gradient) SetMax(v float64) { g.max = v }

// Min returns the minimum of the gradient range.
func (g *Gradient) Min() float64 { return g.min }

// SetMin sets the minimum of the gradient range.
func (g *Gradient) SetMin(v float64) { g.min = v }

// Alpha returns the opacity of the gradient colors.
func (g *Gradient) Alpha() float64 { return g.alpha }

// SetAlpha sets the opacity of the gradient colors.
func (g *Gradient) SetAlpha(a float64) {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	g.alpha = a
}

// Palette returns a discrete palette of the given size,
// sampled evenly over the gradient range.
func (g *Gradient) Palette(colors int) palette.Palette {
	if colors < 1 {
		return gradPalette(nil)
	}
	p := make(gradPalette, 0, colors)
	for i := 0; i < colors; i++ {
		v := g.min
		if colors > 1 {
			v = g.min + (g.max-g.min)*float64(i)/float64(colors-1)
		}
		p = append(p, g.Color(v))
	}
	return p
}

type gradPalette []color.Color

func (p gradPalette) Colors() []color.Color { return p }
