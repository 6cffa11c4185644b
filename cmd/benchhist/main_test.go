// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ootrstats/benchhist/binning"
	"github.com/ootrstats/benchhist/rawfmt"
	"github.com/ootrstats/benchhist/runner"
)

func TestCaptures(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plot.svg")
	golden(t, "branches", "-text", "-o", out, "dev=dev.txt", "riir.txt")
	checkSVG(t, out)
}

func TestWorkers(t *testing.T) {
	dir := t.TempDir()
	out, rslOut := filepath.Join(dir, "worker-plot.svg"), filepath.Join(dir, "worker-plot-rsl.svg")
	golden(t, "workers", "-text", "-mode", "multi", "-o", out, "-rsl-o", rslOut, "workers.txt")
	checkSVG(t, out)
	checkSVG(t, rslOut)
}

func TestSupervisorOrder(t *testing.T) {
	dir := t.TempDir()
	out, rslOut := filepath.Join(dir, "worker-plot.svg"), filepath.Join(dir, "worker-plot-rsl.svg")
	golden(t, "workers", "-text", "-mode", "supervisor", "-o", out, "-rsl-o", rslOut, "workers-supervisor.txt")
	checkSVG(t, out)
	checkSVG(t, rslOut)
}

func TestFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "worker-plot.svg")
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0666); err != nil {
		t.Fatal(err)
	}
	// The RSL figure's directory cannot be created.
	err := run(t, "-mode", "multi", "-o", out, "-rsl-o", filepath.Join(blocker, "rsl.svg"), "testdata/workers.txt")
	if err == nil {
		t.Fatal("want error")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "file" {
			t.Errorf("failed run left %s behind", e.Name())
		}
	}
}

func TestMalformed(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plot.svg")
	err := run(t, "-o", out, "testdata/dev.txt", "testdata/malformed.txt")
	if !errors.Is(err, rawfmt.ErrMalformedRecord) {
		t.Fatalf("err = %v, want ErrMalformedRecord", err)
	}
	if want := `malformed:3: malformed record "q 250"`; !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not contain %q", err, want)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("failed run left %s behind", out)
	}
}

func TestEmptyGroup(t *testing.T) {
	empty := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(empty, nil, 0666); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(t.TempDir(), "plot.svg")
	err := run(t, "-o", out, empty)
	if !errors.Is(err, binning.ErrEmptyComparisonGroup) {
		t.Fatalf("err = %v, want ErrEmptyComparisonGroup", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("failed run left %s behind", out)
	}
}

func TestUsage(t *testing.T) {
	for _, args := range [][]string{
		{"-job", "branches", "testdata/dev.txt"},
		{"-mode", "multi", "-rsl-o", "x.svg", "-config", "jobs.yaml", "testdata/dev.txt"},
	} {
		if err := run(t, args...); !errors.Is(err, errUsage) {
			t.Errorf("benchhist %s: err = %v, want usage error", strings.Join(args, " "), err)
		}
	}
	if err := run(t, "-o", filepath.Join(t.TempDir(), "x.svg"), "a=testdata/dev.txt", "a=testdata/riir.txt"); err == nil || !strings.Contains(err.Error(), `duplicate run label "a"`) {
		t.Errorf("duplicate labels: err = %v", err)
	}
	if err := run(t, "-job", "nope"); err == nil || !strings.Contains(err.Error(), `unknown job "nope"`) {
		t.Errorf("unknown job: err = %v", err)
	}
}

func TestParseCaptureArg(t *testing.T) {
	for _, test := range []struct{ arg, label, path string }{
		{"riir=out/b.txt", "riir", "out/b.txt"},
		{"out/dev-fenhl.txt.xz", "dev-fenhl", "out/dev-fenhl.txt.xz"},
		{"-", "stdin", "-"},
		{"x=-", "x", "-"},
		{"runs/a=b.txt", "a=b", "runs/a=b.txt"},
		{"old=runs/a=b.txt", "old", "runs/a=b.txt"},
	} {
		label, path := parseCaptureArg(test.arg)
		if label != test.label || path != test.path {
			t.Errorf("parseCaptureArg(%q) = %q, %q, want %q, %q", test.arg, label, path, test.label, test.path)
		}
	}
}

func TestParseCaptureArgExistingFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "k=v.txt"), nil, 0666); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	if label, path := parseCaptureArg("k=v.txt"); label != "k=v" || path != "k=v.txt" {
		t.Errorf("parseCaptureArg(k=v.txt) = %q, %q, want file k=v.txt", label, path)
	}
	if label, path := parseCaptureArg("k=w.txt"); label != "k" || path != "w.txt" {
		t.Errorf("parseCaptureArg(k=w.txt) = %q, %q, want label k", label, path)
	}
}

// TestHelperProcess stands in for the benchmark supervisor. It prints
// the records of testdata/dev.txt, or testdata/riir.txt for the riir
// branch, in the supervisor's own order, spread over two workers.
func TestHelperProcess(t *testing.T) {
	riir := false
	for _, arg := range os.Args {
		if arg == "--branch=riir" {
			riir = true
		}
	}
	switch os.Getenv("BENCHHIST_HELPER") {
	case "":
		return
	case "fail":
		fmt.Fprintln(os.Stderr, "error: no workers available")
		os.Exit(1)
	case "failriir":
		if riir {
			fmt.Fprintln(os.Stderr, "error: no workers available")
			os.Exit(1)
		}
	}
	name := "dev.txt"
	if riir {
		name = "riir.txt"
	}
	data, err := os.ReadFile(filepath.Join(os.Getenv("BENCHHIST_TESTDATA"), name))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	os.Stdout.WriteString(supervisorOrder(string(data)))
	os.Exit(0)
}

// supervisorOrder rewrites single-worker lines as the supervisor
// prints them, alternating between workers w0 and w1.
func supervisorOrder(data string) string {
	var b strings.Builder
	i := 0
	for _, line := range strings.Split(data, "\n") {
		f := strings.Fields(line)
		if len(f) != 2 {
			continue
		}
		fmt.Fprintf(&b, "%s %s w%d\r\n", f[0], f[1], i%2)
		i++
	}
	return b.String()
}

// writeJobs writes a jobs file that runs this test binary as the
// supervisor.
func writeJobs(t *testing.T, helper string) (config, out string) {
	t.Helper()
	testdata, err := filepath.Abs("testdata")
	if err != nil {
		t.Fatal(err)
	}
	t.Setenv("BENCHHIST_HELPER", helper)
	t.Setenv("BENCHHIST_TESTDATA", testdata)

	dir := t.TempDir()
	out = filepath.Join(dir, "plot.svg")
	config = filepath.Join(dir, "jobs.yaml")
	data := fmt.Sprintf(`command:
  path: %q
  prefix: [-test.run=TestHelperProcess, --]
jobs:
  - name: branches
    mode: supervisor
    by_run: true
    output: %q
    runs:
      - label: dev
      - label: riir
        branch: riir
  - name: dev
    mode: supervisor
    output: %q
    runs:
      - label: dev
`, os.Args[0], out, filepath.Join(dir, "dev.svg"))
	if err := os.WriteFile(config, []byte(data), 0666); err != nil {
		t.Fatal(err)
	}
	return config, out
}

func TestJob(t *testing.T) {
	config, out := writeJobs(t, "ok")
	dump := filepath.Join(t.TempDir(), "dump")
	var stdout, stderr bytes.Buffer
	if err := benchhist(&stdout, &stderr, []string{"-config", config, "-job", "branches", "-text", "-v", "-dump", dump}); err != nil {
		t.Fatal(err)
	}
	checkSVG(t, out)

	// Running the job must give the same figure as the captures.
	want, err := os.ReadFile("testdata/branches.stdout")
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Replace(stdout.String(), "branches:", "captures:", 1); got != string(want) {
		t.Errorf("got:\n%swant:\n%s", got, want)
	}
	for _, msg := range []string{"benchhist: branches: running", "--branch=riir", "benchhist: branches: series for dev, riir", "benchhist: wrote " + out} {
		if !strings.Contains(stderr.String(), msg) {
			t.Errorf("verbose log does not contain %q:\n%s", msg, stderr.String())
		}
	}

	// The dump keeps the supervisor's workers and order but
	// normalizes line endings.
	dev, err := os.ReadFile(filepath.Join(dump, "dev.txt"))
	if err != nil {
		t.Fatal(err)
	}
	orig, err := os.ReadFile("testdata/dev.txt")
	if err != nil {
		t.Fatal(err)
	}
	if want := strings.ReplaceAll(supervisorOrder(string(orig)), "\r\n", "\n"); string(dev) != want {
		t.Errorf("dumped dev.txt:\n%s\nwant:\n%s", dev, want)
	}
}

func TestJobFailureWritesNothing(t *testing.T) {
	config, out := writeJobs(t, "failriir")
	// The dev job succeeds before the branches job fails.
	err := run(t, "-config", config, "-job", "dev,branches")
	if !errors.Is(err, runner.ErrExternalProcess) {
		t.Fatalf("err = %v, want ErrExternalProcess", err)
	}
	entries, err := os.ReadDir(filepath.Dir(out))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "jobs.yaml" {
			t.Errorf("failed run left %s behind", e.Name())
		}
	}
}

func TestJobFailure(t *testing.T) {
	config, out := writeJobs(t, "fail")
	err := run(t, "-config", config)
	if !errors.Is(err, runner.ErrExternalProcess) {
		t.Fatalf("err = %v, want ErrExternalProcess", err)
	}
	if !strings.Contains(err.Error(), "no workers available") {
		t.Errorf("error %q does not report the supervisor's stderr", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("failed run left %s behind", out)
	}
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	var stdout, stderr bytes.Buffer
	return benchhist(&stdout, &stderr, args)
}

func checkSVG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("<svg")) {
		t.Errorf("%s is not an SVG file", path)
	}
}

func golden(t *testing.T, name string, args ...string) {
	t.Helper()
	if err := os.Chdir("testdata"); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir("..")

	var got, gotErr bytes.Buffer
	t.Logf("benchhist %s", strings.Join(args, " "))
	if err := benchhist(&got, &gotErr, args); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	compare(t, name, "stdout", got.Bytes())
	compare(t, name, "stderr", gotErr.Bytes())
}

func compare(t *testing.T, name, sub string, got []byte) {
	t.Helper()

	wantPath := name + "." + sub
	want, err := os.ReadFile(wantPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Treat a missing file as empty.
			want = nil
		} else {
			t.Fatal(err)
		}
	}

	if !diff(t, want, got) {
		return
	}

	gotPath := name + ".got-" + sub
	if err := os.WriteFile(gotPath, got, 0666); err != nil {
		t.Fatalf("error writing %s: %s", gotPath, err)
	}
}

func diff(t *testing.T, want, got []byte) bool {
	t.Helper()
	if bytes.Equal(want, got) {
		return false
	}

	d := t.TempDir()
	wantPath, gotPath := filepath.Join(d, "want"), filepath.Join(d, "got")
	if err := os.WriteFile(wantPath, want, 0666); err != nil {
		t.Fatalf("error writing %s: %s", wantPath, err)
	}
	if err := os.WriteFile(gotPath, got, 0666); err != nil {
		t.Fatalf("error writing %s: %s", gotPath, err)
	}

	cmd := exec.Command("diff", "-Nu", "want", "got")
	cmd.Dir = d
	data, _ := cmd.CombinedOutput()
	if len(data) > 0 {
		t.Errorf("\n%s", data)
	} else {
		t.Errorf("want:\n%sgot:\n%s", want, got)
	}
	return true
}
