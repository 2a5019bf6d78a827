// Copyright © 2025 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package treeplot

import (
	"bytes"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
)

// width of the colorbar strip
const barWidth = 1.2 * vg.Inch

// A figure is the drawing surface of a single render call:
// the main tree plot,
// an optional colorbar strip,
// and the page size.
// A figure owns its canvases:
// both output files are encoded in memory
// before anything is written to disk,
// so a failed render leaves no partial files.
type figure struct {
	main *plot.Plot
	bar  *plot.Plot

	width  vg.Length
	height vg.Length
}

func (f *figure) drawOn(dc draw.Canvas) {
	if f.bar == nil {
		f.main.Draw(dc)
		return
	}
	w := dc.Max.X - dc.Min.X
	f.main.Draw(draw.Crop(dc, 0, -barWidth, 0, 0))
	f.bar.Draw(draw.Crop(dc, w-barWidth, 0, 0, 0))
}

// Save writes the figure as <stem>.png,
// at the given resolution,
// and as <stem>.pdf.
func (f *figure) save(stem string, dpi int) error {
	img := vgimg.NewWith(vgimg.UseWH(f.width, f.height), vgimg.UseDPI(dpi))
	f.drawOn(draw.New(img))
	var pngBuf bytes.Buffer
	pc := vgimg.PngCanvas{Canvas: img}
	if _, err := pc.WriteTo(&pngBuf); err != nil {
		return err
	}

	pdf := vgpdf.New(f.width, f.height)
	f.drawOn(draw.New(pdf))
	var pdfBuf bytes.Buffer
	if _, err := pdf.WriteTo(&pdfBuf); err != nil {
		return err
	}

	pngFile := stem + ".png"
	if err := os.WriteFile(pngFile, pngBuf.Bytes(), 0644); err != nil {
		return err
	}
	if err := os.WriteFile(stem+".pdf", pdfBuf.Bytes(), 0644); err != nil {
		os.Remove(pngFile)
		return err
	}
	return nil
}
