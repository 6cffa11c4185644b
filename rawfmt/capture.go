// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rawfmt

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ulikunitz/xz"
)

// LoadCapture reads a saved capture of raw data output completely into
// memory. Files ending in ".xz" are decompressed. The path "-" reads
// standard input.
func LoadCapture(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readCapture(f, path)
}

func readCapture(r io.Reader, path string) ([]byte, error) {
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		r = xr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return buf.Bytes(), nil
}

// ParseCapture parses a complete capture. It returns the records in
// input order, or the first error.
func ParseCapture(data []byte, source string, mode Mode) ([]Record, error) {
	var recs []Record
	r := NewReader(bytes.NewReader(data), source, mode)
	for r.Scan() {
		recs = append(recs, r.Record())
	}
	if err := r.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}
