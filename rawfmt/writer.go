// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rawfmt

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// A Writer writes records in the raw data format.
type Writer struct {
	w    io.Writer
	buf  bytes.Buffer
	mode Mode
}

// NewWriter returns a Writer that writes lines for the given mode to w.
func NewWriter(w io.Writer, mode Mode) *Writer {
	return &Writer{w: w, mode: mode}
}

// Write writes rec as one line. It fails if rec cannot be represented
// in the Writer's mode.
func (w *Writer) Write(rec Record) error {
	switch {
	case w.mode == SingleWorker && rec.Worker != "":
		return fmt.Errorf("record for worker %q in single-worker output", rec.Worker)
	case w.mode.HasWorker() && rec.Worker == "":
		return fmt.Errorf("record without worker in %s output", w.mode)
	case strings.ContainsAny(rec.Worker, " \t\r\n"):
		return fmt.Errorf("worker name %q contains white space", rec.Worker)
	}
	w.buf.WriteString(FormatMode(rec, w.mode))
	w.buf.WriteByte('\n')
	_, err := w.w.Write(w.buf.Bytes())
	w.buf.Reset()
	return err
}
