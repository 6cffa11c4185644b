// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"io"
	"strconv"

	"github.com/ootrstats/benchhist/internal/texttab"
	"github.com/ootrstats/benchhist/series"
)

// WriteCounts writes f's histograms as a table with one row per bin
// and one column per bucket, left group first.
func (f *Figure) WriteCounts(w io.Writer) error {
	var buckets []*series.Bucket
	for _, g := range []*series.Group{f.Left, f.Right} {
		buckets = append(buckets, g.Buckets...)
	}
	counts := make([][]float64, len(buckets))
	for i, b := range buckets {
		counts[i] = f.Plan.Counts(b.Values)
	}

	var t texttab.Table
	t.Row().Cell("bin")
	for _, b := range buckets {
		t.Cell(b.Key.Label(), texttab.Right)
	}
	for bin := 0; bin < f.Plan.Bins(); bin++ {
		end := ")"
		if bin == f.Plan.Bins()-1 {
			end = "]"
		}
		t.Row().Cell("[" + formatEdge(f.Plan.Edges[bin]) + ", " + formatEdge(f.Plan.Edges[bin+1]) + end)
		for i := range buckets {
			t.Cell(strconv.FormatFloat(counts[i][bin], 'f', -1, 64), texttab.Right)
		}
	}
	t.Row().Cell("total")
	for _, b := range buckets {
		t.Cell(strconv.Itoa(b.Len()), texttab.Right)
	}
	return t.Format(w)
}

func formatEdge(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
