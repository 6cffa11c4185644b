// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chart renders comparison figures: two side-by-side step
// histogram subplots that share bin edges and a Y axis.
//
// A Figure carries all of its drawing state. Nothing is shared between
// figures, so drawing one figure never changes another.
package chart

import (
	"fmt"
	"image/color"
	"math"

	"github.com/ootrstats/benchhist/binning"
	"github.com/ootrstats/benchhist/legend"
	"github.com/ootrstats/benchhist/series"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Defaults for new figures.
const (
	DefaultWidth  = 6.4 * vg.Inch
	DefaultHeight = 4.8 * vg.Inch
	DefaultAlpha  = 0.7
)

// DefaultLineWidth is the outline width of each histogram.
var DefaultLineWidth = vg.Points(2)

// A Figure is the drawing context for one output artifact.
type Figure struct {
	// Left and Right are the groups drawn in the left and right
	// subplots, by convention the success and failure families.
	Left, Right *series.Group

	// Plan is the bin layout shared by every bucket of both
	// groups.
	Plan *binning.Plan

	// XLabel labels both X axes; YLabel labels the left Y axis.
	XLabel, YLabel string

	Width, Height vg.Length
	Alpha         float64
	LineWidth     vg.Length

	// Color returns the color of the i'th series of a subplot.
	Color func(i int) color.Color

	// Legends holds, after Draw, the reconciled legend of each
	// subplot.
	Legends [2][]legend.Entry
}

// NewFigure returns a Figure comparing left and right. It plans one
// set of bin edges over every bucket of both groups.
func NewFigure(left, right *series.Group) (*Figure, error) {
	plan, err := binning.NewPlan(left, right)
	if err != nil {
		return nil, err
	}
	return &Figure{
		Left:      left,
		Right:     right,
		Plan:      plan,
		XLabel:    "instructions",
		YLabel:    "seeds",
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Alpha:     DefaultAlpha,
		LineWidth: DefaultLineWidth,
		Color:     plotutil.Color,
	}, nil
}

// subplot builds the plot for one group and returns it along with the
// legend entries reported by each series drawn.
func (f *Figure) subplot(g *series.Group) (*plot.Plot, []legend.Raw) {
	p := plot.New()
	p.X.Label.Text = f.XLabel
	var raw []legend.Raw
	for i, b := range g.Buckets {
		s := &Steps{
			Edges:  f.Plan.Edges,
			Counts: f.Plan.Counts(b.Values),
			Color:  f.Color(i),
			Alpha:  f.Alpha,
			Width:  f.LineWidth,
		}
		p.Add(s)
		raw = append(raw, s.Legend(b.Key.Label()))
	}
	return p, raw
}

// plots lays out both subplots with shared axes and legends.
func (f *Figure) plots() ([2]*plot.Plot, error) {
	var plots [2]*plot.Plot
	if f.Plan == nil {
		return plots, fmt.Errorf("figure has no bin plan")
	}
	var raws [2][]legend.Raw
	plots[0], raws[0] = f.subplot(f.Left)
	plots[1], raws[1] = f.subplot(f.Right)

	ymax := 0.0
	for _, p := range plots {
		ymax = math.Max(ymax, p.Y.Max)
	}
	if ymax == 0 {
		ymax = 1
	}
	for i, p := range plots {
		p.X.Min, p.X.Max = f.Plan.Min(), f.Plan.Max()
		p.Y.Min, p.Y.Max = 0, ymax

		f.Legends[i] = legend.Reconcile(raws[i])
		for _, e := range f.Legends[i] {
			p.Legend.Add(e.Label, swatch{e.LineStyle()})
		}
		p.Legend.Top = true
		p.Legend.Left = true
	}
	plots[0].Y.Label.Text = f.YLabel
	plots[1].Y.Tick.Marker = hideLabels{plots[1].Y.Tick.Marker}
	return plots, nil
}

// Draw draws the figure on c.
func (f *Figure) Draw(c draw.Canvas) error {
	plots, err := f.plots()
	if err != nil {
		return err
	}
	tiles := draw.Tiles{
		Rows:      1,
		Cols:      2,
		PadX:      vg.Millimeter,
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(8),
	}
	canvases := plot.Align([][]*plot.Plot{plots[:]}, tiles, c)
	for i, p := range plots {
		p.Draw(canvases[0][i])
	}
	return nil
}
