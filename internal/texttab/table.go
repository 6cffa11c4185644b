// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package texttab lays out plain text tables with aligned columns.
package texttab

import (
	"fmt"
	"io"
	"sort"
	"unicode/utf8"
)

// Table does layout of a text table.
//
// Row and Cell return the Table so a row can be built in one chain.
type Table struct {
	cells []cell
	cols  int

	curRow, curCol int
}

type cell struct {
	row, col  int
	value     string
	alignment align
}

// A CellOption adjusts one cell.
type CellOption func(c *cell)

var (
	Left  CellOption = func(c *cell) { c.alignment = alignLeft }
	Right CellOption = func(c *cell) { c.alignment = alignRight }
)

type align int

const (
	alignLeft align = iota
	alignRight
)

// Row starts a new row.
func (t *Table) Row() *Table {
	if len(t.cells) > 0 {
		t.curRow++
	}
	t.curCol = 0
	return t
}

// Cell adds a cell at the current row and column and moves to the
// next column.
func (t *Table) Cell(value string, opts ...CellOption) *Table {
	t.cells = append(t.cells, cell{t.curRow, t.curCol, value, alignLeft})
	for _, o := range opts {
		o(&t.cells[len(t.cells)-1])
	}
	t.curCol++
	if t.curCol > t.cols {
		t.cols = t.curCol
	}
	return t
}

// Format lays out t and writes it to w. Columns are separated by two
// spaces. Rows carry no trailing white space.
func (t *Table) Format(w io.Writer) error {
	const sep = 2

	widths := make([]int, t.cols)
	for _, c := range t.cells {
		if n := utf8.RuneCountInString(c.value); n > widths[c.col] {
			widths[c.col] = n
		}
	}
	offs := make([]int, t.cols)
	off := 0
	for i, wd := range widths {
		offs[i] = off
		off += wd + sep
	}

	sort.SliceStable(t.cells, func(i, j int) bool {
		if t.cells[i].row != t.cells[j].row {
			return t.cells[i].row < t.cells[j].row
		}
		return t.cells[i].col < t.cells[j].col
	})
	row, pos := 0, 0
	for _, c := range t.cells {
		for c.row > row {
			if _, err := fmt.Fprintf(w, "\n"); err != nil {
				return err
			}
			row++
			pos = 0
		}
		if c.value == "" {
			continue
		}
		start := offs[c.col]
		if c.alignment == alignRight {
			start += widths[c.col] - utf8.RuneCountInString(c.value)
		}
		if _, err := fmt.Fprintf(w, "%*s%s", start-pos, "", c.value); err != nil {
			return err
		}
		pos = start + utf8.RuneCountInString(c.value)
	}
	if len(t.cells) > 0 {
		if _, err := fmt.Fprintf(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
