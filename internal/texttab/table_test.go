// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package texttab

import (
	"bytes"
	"testing"
)

func TestFormat(t *testing.T) {
	var tab Table
	tab.Row().Cell("bin").Cell("successes (A)", Right).Cell("n", Right)
	tab.Row().Cell("[0, 3.5)").Cell("1", Right).Cell("10", Right)
	tab.Row().Cell("[3.5, 7]").Cell("12", Right)

	var buf bytes.Buffer
	if err := tab.Format(&buf); err != nil {
		t.Fatal(err)
	}
	want := "" +
		"bin       successes (A)   n\n" +
		"[0, 3.5)              1  10\n" +
		"[3.5, 7]             12\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestFormatEmpty(t *testing.T) {
	var tab Table
	var buf bytes.Buffer
	if err := tab.Format(&buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty table printed %q", buf.String())
	}
}
