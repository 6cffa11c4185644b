// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rawfmt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// A Reader reads the raw data format.
//
// Its API is modeled on bufio.Scanner. Unlike a benchmark log, raw
// data has no recovery path: the first malformed line stops the
// Reader and is reported by Err as a *MalformedRecordError.
type Reader struct {
	s      *bufio.Scanner
	mode   Mode
	source string
	line   int

	rec Record
	err error
}

// NewReader returns a Reader that parses r in the given mode.
// source names the input in error messages; it is purely diagnostic.
func NewReader(r io.Reader, source string, mode Mode) *Reader {
	if source == "" {
		source = "<unknown>"
	}
	return &Reader{s: bufio.NewScanner(r), mode: mode, source: source}
}

// Scan advances the Reader to the next record and reports whether one
// was read. When Scan returns false, the caller should check Err.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	if !r.s.Scan() {
		if err := r.s.Err(); err != nil {
			r.err = fmt.Errorf("%s:%d: %w", r.source, r.line, err)
		}
		return false
	}
	r.line++
	rec, err := ParseLine(r.s.Text(), r.mode)
	if err != nil {
		var me *MalformedRecordError
		if errors.As(err, &me) {
			me.Source, me.Line = r.source, r.line
		}
		r.err = err
		return false
	}
	r.rec = rec
	return true
}

// Record returns the record read by the last successful call to Scan.
func (r *Reader) Record() Record {
	return r.rec
}

// Err returns the error that stopped Scan, or nil if the input was
// read to the end.
func (r *Reader) Err() error {
	return r.err
}
