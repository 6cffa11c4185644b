// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package series aggregates raw benchmark records into buckets of
// counts, one bucket per (category, worker) pair, and arranges buckets
// into comparison groups for plotting.
package series

import (
	"fmt"

	"github.com/ootrstats/benchhist/rawfmt"
)

// A Key identifies a Bucket.
type Key struct {
	Category rawfmt.Category
	// Worker is the worker or branch the counts came from.
	Worker string
}

// Label returns the legend label for the bucket with key k,
// for example "successes (riir)".
func (k Key) Label() string {
	if k.Worker == "" {
		return k.Category.Noun()
	}
	return fmt.Sprintf("%s (%s)", k.Category.Noun(), k.Worker)
}

func (k Key) String() string {
	return k.Category.String() + "/" + k.Worker
}

// A Bucket is the sequence of counts observed for one Key, in arrival
// order. Repeated values are all retained.
type Bucket struct {
	Key    Key
	Values []uint64
}

// Len returns the number of values in b.
func (b *Bucket) Len() int {
	return len(b.Values)
}

// Floats returns b's values converted to float64, in order.
func (b *Bucket) Floats() []float64 {
	xs := make([]float64, len(b.Values))
	for i, v := range b.Values {
		xs[i] = float64(v)
	}
	return xs
}

// A Set is a collection of buckets built up from record streams.
// Buckets are created on first sight of their key and are kept in that
// order. The zero Set is ready to use.
type Set struct {
	order   []*Bucket
	buckets map[Key]*Bucket
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return new(Set)
}

// Add appends rec's value to the bucket for its key. Records that
// carry no worker, as in single-worker mode, are filed under label.
func (s *Set) Add(rec rawfmt.Record, label string) {
	key := Key{Category: rec.Category, Worker: rec.Worker}
	if key.Worker == "" {
		key.Worker = label
	}
	if s.buckets == nil {
		s.buckets = make(map[Key]*Bucket)
	}
	b, ok := s.buckets[key]
	if !ok {
		b = &Bucket{Key: key}
		s.buckets[key] = b
		s.order = append(s.order, b)
	}
	b.Values = append(b.Values, rec.Value)
}

// A RecordSource is a single-pass stream of records, such as a
// *rawfmt.Reader.
type RecordSource interface {
	Scan() bool
	Record() rawfmt.Record
	Err() error
}

// AddRecords consumes src to the end, adding every record with Add.
// It returns src's error, if any. Records read before the error
// remain in s.
func (s *Set) AddRecords(src RecordSource, label string) error {
	for src.Scan() {
		s.Add(src.Record(), label)
	}
	return src.Err()
}

// Bucket returns the bucket for key, or nil if no record with that key
// has been added.
func (s *Set) Bucket(key Key) *Bucket {
	return s.buckets[key]
}

// Buckets returns every bucket in first-seen order.
func (s *Set) Buckets() []*Bucket {
	return append([]*Bucket(nil), s.order...)
}

// Workers returns the distinct worker identities in first-seen order.
func (s *Set) Workers() []string {
	var out []string
	seen := make(map[string]bool)
	for _, b := range s.order {
		if !seen[b.Key.Worker] {
			seen[b.Key.Worker] = true
			out = append(out, b.Key.Worker)
		}
	}
	return out
}

// Has reports whether s holds a bucket of any of the given categories.
func (s *Set) Has(cats ...rawfmt.Category) bool {
	for _, b := range s.order {
		for _, c := range cats {
			if b.Key.Category == c {
				return true
			}
		}
	}
	return false
}

// Group returns a comparison group named name holding every bucket of
// the given categories, in first-seen order.
func (s *Set) Group(name string, cats ...rawfmt.Category) *Group {
	g := &Group{Name: name}
	for _, b := range s.order {
		for _, c := range cats {
			if b.Key.Category == c {
				g.Buckets = append(g.Buckets, b)
				break
			}
		}
	}
	return g
}

// A Group is a set of sibling buckets drawn together in one subplot
// with shared bin edges.
type Group struct {
	Name    string
	Buckets []*Bucket
}

// NewGroup returns a group of the given buckets.
func NewGroup(name string, buckets ...*Bucket) *Group {
	return &Group{Name: name, Buckets: buckets}
}

// Len returns the total number of values across g's buckets.
func (g *Group) Len() int {
	n := 0
	for _, b := range g.Buckets {
		n += b.Len()
	}
	return n
}
