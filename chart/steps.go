// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"image/color"

	"github.com/ootrstats/benchhist/legend"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Steps draws a histogram as the outline of its bars, like a step
// function that starts and ends on the X axis.
type Steps struct {
	// Edges are the bin edges, one more than Counts.
	Edges  []float64
	Counts []float64

	// Color is the outline color, drawn with opacity Alpha.
	Color color.Color
	Alpha float64
	Width vg.Length
}

var _ plot.Plotter = (*Steps)(nil)
var _ plot.DataRanger = (*Steps)(nil)

// LineStyle returns the style the outline is stroked with.
func (s *Steps) LineStyle() draw.LineStyle {
	return legend.Entry{Color: legend.RGBOf(s.Color), Alpha: s.Alpha, Width: s.Width}.LineStyle()
}

// Plot implements plot.Plotter.
func (s *Steps) Plot(c draw.Canvas, plt *plot.Plot) {
	if len(s.Counts) == 0 {
		return
	}
	trX, trY := plt.Transforms(&c)
	y0 := trY(0)
	pts := make([]vg.Point, 0, 2*len(s.Counts)+2)
	pts = append(pts, vg.Point{X: trX(s.Edges[0]), Y: y0})
	for i, n := range s.Counts {
		y := trY(n)
		pts = append(pts,
			vg.Point{X: trX(s.Edges[i]), Y: y},
			vg.Point{X: trX(s.Edges[i+1]), Y: y})
	}
	pts = append(pts, vg.Point{X: trX(s.Edges[len(s.Edges)-1]), Y: y0})
	c.StrokeLines(s.LineStyle(), c.ClipLinesXY(pts)...)
}

// DataRange implements plot.DataRanger.
func (s *Steps) DataRange() (xmin, xmax, ymin, ymax float64) {
	if len(s.Edges) > 0 {
		xmin, xmax = s.Edges[0], s.Edges[len(s.Edges)-1]
	}
	for _, n := range s.Counts {
		if n > ymax {
			ymax = n
		}
	}
	return xmin, xmax, 0, ymax
}

// Legend returns the legend entry describing what s drew: the region
// under the outline, in s's color, opacity, and width.
func (s *Steps) Legend(label string) legend.Raw {
	return legend.Raw{Label: label, Fill: legend.Fill{Face: s.Color, Alpha: s.Alpha, Width: s.Width}}
}

// swatch is a legend thumbnail drawn as a short horizontal line.
type swatch struct {
	style draw.LineStyle
}

// Thumbnail implements plot.Thumbnailer.
func (s swatch) Thumbnail(c *draw.Canvas) {
	y := (c.Min.Y + c.Max.Y) / 2
	c.StrokeLine2(s.style, c.Min.X, y, c.Max.X, y)
}

// hideLabels keeps another Ticker's tick marks but drops their labels,
// for an axis shared with a neighboring subplot.
type hideLabels struct {
	plot.Ticker
}

func (h hideLabels) Ticks(min, max float64) []plot.Tick {
	ticks := h.Ticker.Ticks(min, max)
	for i := range ticks {
		ticks[i].Label = ""
	}
	return ticks
}
