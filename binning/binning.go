// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package binning computes shared histogram bin layouts for groups of
// buckets.
//
// Histograms drawn on top of each other are only comparable when they
// use the same bin edges, so a Plan is computed once over every bucket
// that will be drawn together and then applied to each of them. No
// bucket computes bins of its own.
package binning

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"github.com/aclements/go-moremath/vec"
	"github.com/ootrstats/benchhist/series"
)

// ErrEmptyComparisonGroup is returned when bins are requested for
// groups that hold no values at all, so there is no range to cover.
var ErrEmptyComparisonGroup = errors.New("empty comparison group")

// A Plan is a sequence of evenly spaced, strictly increasing bin
// edges starting at 0.
//
// Bin i covers [Edges[i], Edges[i+1]). The last bin also includes its
// upper edge, so the largest planned value is counted.
type Plan struct {
	Edges []float64
}

// BinCount returns the number of bins used for buckets of average
// length avg: the ceiling of its square root, and at least 1.
func BinCount(avg float64) int {
	n := int(math.Ceil(math.Sqrt(avg)))
	if n < 1 {
		return 1
	}
	return n
}

// NewPlan computes one Plan for all buckets of all the given groups.
//
// The bin count comes from the average bucket length over every
// bucket, including empty ones. The range runs from 0 to the largest
// value in any bucket; if that value is 0 the range is [0, 1].
func NewPlan(groups ...*series.Group) (*Plan, error) {
	var lens []float64
	var names []string
	total := 0
	hi := 0.0
	for _, g := range groups {
		names = append(names, g.Name)
		for _, b := range g.Buckets {
			lens = append(lens, float64(b.Len()))
			total += b.Len()
			if b.Len() == 0 {
				continue
			}
			_, max := stats.Sample{Xs: b.Floats()}.Bounds()
			hi = math.Max(hi, max)
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("planning bins for [%s]: %w", strings.Join(names, ", "), ErrEmptyComparisonGroup)
	}

	bins := BinCount(stats.Sample{Xs: lens}.Mean())
	if hi == 0 {
		hi = 1
	}
	edges := vec.Linspace(0, hi, bins+1)
	// Pin the ends so rounding in the spacing can never leave the
	// maximum outside the plan.
	edges[0], edges[bins] = 0, hi
	return &Plan{Edges: edges}, nil
}

// Bins returns the number of bins in p.
func (p *Plan) Bins() int {
	return len(p.Edges) - 1
}

// Min and Max return the lower and upper edge of p.
func (p *Plan) Min() float64 { return p.Edges[0] }
func (p *Plan) Max() float64 { return p.Edges[len(p.Edges)-1] }

// Contains reports whether v falls within p's range.
func (p *Plan) Contains(v float64) bool {
	return v >= p.Min() && v <= p.Max()
}

// Bin returns the index of the bin holding v, or -1 if v is outside
// p's range.
func (p *Plan) Bin(v float64) int {
	if !p.Contains(v) {
		return -1
	}
	// Index of the last edge <= v.
	i := sort.Search(len(p.Edges), func(i int) bool { return p.Edges[i] > v }) - 1
	if i == p.Bins() {
		i--
	}
	return i
}

// Counts returns the number of values in each bin of p. Values outside
// p's range are not counted.
func (p *Plan) Counts(values []uint64) []float64 {
	counts := make([]float64, p.Bins())
	for _, v := range values {
		if i := p.Bin(float64(v)); i >= 0 {
			counts[i]++
		}
	}
	return counts
}
