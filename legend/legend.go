// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package legend reconciles the legend entries reported while drawing
// overlaid histograms into one entry per label.
//
// Drawing a series reports a Raw entry describing the filled region it
// drew. A label may be reported several times, once per polygon drawn
// under it. Reconcile keeps one entry per label, takes the style of the
// label's last report, and re-expresses that style as a line swatch,
// which matches the step outlines the histograms are drawn with.
//
// Entries are displayed in the reverse of the order in which their
// labels first appeared.
package legend

import (
	"image/color"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// An RGB is an opaque color.
type RGB struct {
	R, G, B uint8
}

// RGBOf returns the RGB components of c with its alpha channel
// dropped. Premultiplied components are converted back first.
func RGBOf(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{n.R, n.G, n.B}
}

// A Fill describes a filled region as drawn by a renderer.
type Fill struct {
	// Face is the region's face color, including its own alpha
	// channel.
	Face color.Color
	// Alpha is the opacity applied when drawing.
	Alpha float64
	// Width is the outline width.
	Width vg.Length
}

// A Raw is one legend entry as reported by a renderer.
type Raw struct {
	Label string
	Fill  Fill
}

// An Entry is a reconciled legend entry, drawn as a line swatch.
type Entry struct {
	Label string
	Color RGB
	Alpha float64
	Width vg.Length
}

// LineStyle returns the style to draw e's swatch with.
func (e Entry) LineStyle() draw.LineStyle {
	a := e.Alpha
	switch {
	case a < 0:
		a = 0
	case a > 1:
		a = 1
	}
	return draw.LineStyle{
		Color: color.NRGBA{e.Color.R, e.Color.G, e.Color.B, uint8(a*0xff + 0.5)},
		Width: e.Width,
	}
}

// lineEntry converts a filled-region style into a line swatch with the
// same color, opacity, and width.
func lineEntry(label string, f Fill) Entry {
	var rgb RGB
	if f.Face != nil {
		rgb = RGBOf(f.Face)
	}
	return Entry{Label: label, Color: rgb, Alpha: f.Alpha, Width: f.Width}
}

// Reconcile returns exactly one Entry per distinct label in raw.
//
// Labels are compared as exact strings. Each entry has the style of the
// last Raw with its label. Entries are ordered by the reverse of the
// order in which each label first occurs in raw. Reconcile of no
// entries is nil, which draws as an empty legend.
func Reconcile(raw []Raw) []Entry {
	if len(raw) == 0 {
		return nil
	}
	var order []string
	last := make(map[string]Fill)
	for _, r := range raw {
		if _, ok := last[r.Label]; !ok {
			order = append(order, r.Label)
		}
		last[r.Label] = r.Fill
	}
	out := make([]Entry, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		out = append(out, lineEntry(order[i], last[order[i]]))
	}
	return out
}
