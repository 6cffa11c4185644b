// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rawfmt reads and writes the raw benchmark data format
// printed by the seed-rolling supervisor's "bench --raw-data" mode.
//
// Each line of the format is one observation:
//
//	<tag> [<worker>] <count>
//
// The tag is a single character naming the outcome of one seed:
// "s" for a success, "f" for a failure, and "S" and "F" for the
// corresponding measurements of the random settings script. The
// worker field is present only when per-worker data is reported
// (MultiWorker mode). The count is a base-10 non-negative integer,
// typically a number of CPU instructions.
//
// The supervisor itself prints the count before the worker and always
// includes the worker:
//
//	<tag> <count> <worker>
//
// which is read in Supervisor mode.
package rawfmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// A Category is the outcome class of a Record.
type Category byte

const (
	Success    Category = 's'
	Failure    Category = 'f'
	RSLSuccess Category = 'S'
	RSLFailure Category = 'F'
)

// Categories lists every known category in tag order.
var Categories = []Category{Success, Failure, RSLSuccess, RSLFailure}

// ParseCategory returns the Category for a one-character tag.
func ParseCategory(tag string) (Category, bool) {
	if len(tag) != 1 {
		return 0, false
	}
	switch c := Category(tag[0]); c {
	case Success, Failure, RSLSuccess, RSLFailure:
		return c, true
	}
	return 0, false
}

// Tag returns the one-character tag of c.
func (c Category) Tag() string {
	return string(rune(c))
}

// IsSuccess reports whether c is one of the success categories.
func (c Category) IsSuccess() bool {
	return c == Success || c == RSLSuccess
}

// Noun returns the plural noun used for c in chart legends.
// The RSL categories share the nouns of their primary counterparts;
// they are always drawn in a figure of their own.
func (c Category) Noun() string {
	if c.IsSuccess() {
		return "successes"
	}
	return "failures"
}

func (c Category) String() string {
	switch c {
	case Success:
		return "success"
	case Failure:
		return "failure"
	case RSLSuccess:
		return "rsl-success"
	case RSLFailure:
		return "rsl-failure"
	}
	return fmt.Sprintf("Category(%q)", byte(c))
}

// A Mode selects which fields a line carries.
type Mode int

const (
	// SingleWorker lines have two fields: tag and count.
	SingleWorker Mode = iota
	// MultiWorker lines have three fields: tag, worker, and count.
	MultiWorker
	// Supervisor lines have three fields in the order the supervisor
	// prints them: tag, count, and worker. Every line names its
	// worker.
	Supervisor
)

func (m Mode) fields() int {
	if m == SingleWorker {
		return 2
	}
	return 3
}

// HasWorker reports whether lines in mode m carry a worker field.
func (m Mode) HasWorker() bool {
	return m != SingleWorker
}

func (m Mode) String() string {
	switch m {
	case SingleWorker:
		return "single"
	case MultiWorker:
		return "multi"
	case Supervisor:
		return "supervisor"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode parses the names returned by Mode.String.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "single", "":
		return SingleWorker, nil
	case "multi":
		return MultiWorker, nil
	case "supervisor":
		return Supervisor, nil
	}
	return 0, fmt.Errorf("unknown parsing mode %q (want single, multi, or supervisor)", s)
}

// A Record is one parsed observation.
type Record struct {
	Category Category
	// Worker is the reporting worker, or "" in SingleWorker mode.
	Worker string
	Value  uint64
}

// ErrMalformedRecord is matched by every *MalformedRecordError.
var ErrMalformedRecord = errors.New("malformed record")

// A MalformedRecordError reports a line that does not match the raw
// data grammar.
type MalformedRecordError struct {
	// Source and Line give the position of the line. They are
	// zero when the error comes from ParseLine directly.
	Source string
	Line   int
	Text   string
	Msg    string
}

func (e *MalformedRecordError) Error() string {
	if e.Source == "" && e.Line == 0 {
		return fmt.Sprintf("malformed record %q: %s", e.Text, e.Msg)
	}
	return fmt.Sprintf("%s:%d: malformed record %q: %s", e.Source, e.Line, e.Text, e.Msg)
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// ParseLine parses one line of raw data in the given mode. A trailing
// carriage return is ignored.
func ParseLine(line string, mode Mode) (Record, error) {
	line = strings.TrimSuffix(line, "\r")
	bad := func(msg string) (Record, error) {
		return Record{}, &MalformedRecordError{Text: line, Msg: msg}
	}

	fields := strings.Fields(line)
	if len(fields) != mode.fields() {
		return bad(fmt.Sprintf("have %d fields, want %d in %s mode", len(fields), mode.fields(), mode))
	}
	cat, ok := ParseCategory(fields[0])
	if !ok {
		return bad(fmt.Sprintf("unknown tag %q", fields[0]))
	}
	var rec Record
	rec.Category = cat
	count := fields[len(fields)-1]
	switch mode {
	case MultiWorker:
		rec.Worker = fields[1]
	case Supervisor:
		count, rec.Worker = fields[1], fields[2]
	}
	v, err := strconv.ParseUint(count, 10, 64)
	if err != nil {
		return bad(fmt.Sprintf("bad count %q: %v", count, err.(*strconv.NumError).Err))
	}
	rec.Value = v
	return rec, nil
}

// Format returns the line form of rec, without a line terminator.
// Records with a worker are written in MultiWorker form.
func Format(rec Record) string {
	if rec.Worker == "" {
		return fmt.Sprintf("%s %d", rec.Category.Tag(), rec.Value)
	}
	return fmt.Sprintf("%s %s %d", rec.Category.Tag(), rec.Worker, rec.Value)
}

// FormatMode returns the line form of rec in mode, without a line
// terminator.
func FormatMode(rec Record, mode Mode) string {
	if mode == Supervisor {
		return fmt.Sprintf("%s %d %s", rec.Category.Tag(), rec.Value, rec.Worker)
	}
	return Format(rec)
}
