// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package grouping

import "image/color"

// Tab10 is a qualitative palette of 10 colors,
// used as the default group palette.
var Tab10 = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 255},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 255},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 255},
	{R: 0xd6, G: 0x27, B: 0x28, A: 255},
	{R: 0x94, G: 0x67, B: 0xbd, A: 255},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 255},
	{R: 0xe3, G: 0x77, B: 0xc2, A: 255},
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 255},
	{R: 0xbc, G: 0xbd, B: 0x22, A: 255},
	{R: 0x17, G: 0xbe, B: 0xcf, A: 255},
}

// Tab20 is a qualitative palette of 20 colors,
// used when there are more than 10 groups.
// It interleaves a light variant after each strong color,
// so its first ten entries differ from the Tab10 entries:
// crossing the 10-group threshold
// changes the color of the already assigned groups.
var Tab20 = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 255},
	{R: 0xae, G: 0xc7, B: 0xe8, A: 255},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 255},
	{R: 0xff, G: 0xbb, B: 0x78, A: 255},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 255},
	{R: 0x98, G: 0xdf, B: 0x8a, A: 255},
	{R: 0xd6, G: 0x27, B: 0x28, A: 255},
	{R: 0xff, G: 0x98, B: 0x96, A: 255},
	{R: 0x94, G: 0x67, B: 0xbd, A: 255},
	{R: 0xc5, G: 0xb0, B: 0xd5, A: 255},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 255},
	{R: 0xc4, G: 0x9c, B: 0x94, A: 255},
	{R: 0xe3, G: 0x77, B: 0xc2, A: 255},
	{R: 0xf7, G: 0xb6, B: 0xd2, A: 255},
	{R: 0x7f, G: 0x7f, B: 0x7f, A: 255},
	{R: 0xc7, G: 0xc7, B: 0xc7, A: 255},
	{R: 0xbc, G: 0xbd, B: 0x22, A: 255},
	{R: 0xdb, G: 0xdb, B: 0x8d, A: 255},
	{R: 0x17, G: 0xbe, B: 0xcf, A: 255},
	{R: 0x9e, G: 0xda, B: 0xe5, A: 255},
}

// Palette returns the default palette
// for the given number of groups:
// Tab10 for 10 or fewer groups,
// and Tab20 otherwise.
// Groups beyond the palette size
// repeat the palette from the start.
func Palette(groups int) []color.RGBA {
	if groups > len(Tab10) {
		return Tab20
	}
	return Tab10
}
