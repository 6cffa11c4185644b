// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Benchhist plots histograms of randomizer benchmark results.
//
// Usage:
//
//	benchhist [flags] [-job name,...]
//	benchhist [flags] [-mode single|multi|supervisor] [-o out.svg] [-rsl-o rsl.svg] [label=]capture...
//
// In the first form, benchhist runs the benchmark supervisor for each
// run of each named job (default all jobs), and draws one figure per
// job. The built-in jobs are:
//
//	branches  compare the default branch with the riir branch;
//	          writes assets/plot.svg
//	workers   compare every worker but intercal over the whole suite;
//	          writes assets/worker-plot.svg, and
//	          assets/worker-plot-rsl.svg if any RSL seeds were run
//
// The -config flag replaces the built-in jobs with those of a YAML
// file; see package github.com/ootrstats/benchhist/config.
//
// In the second form, benchhist reads previously captured raw data
// output instead of running the supervisor. Each argument is a file,
// optionally prefixed with a label; "-" reads standard input. In
// single-worker mode the label names the worker of every record in the
// file. Files ending in .xz are decompressed. Lines are read as
// "tag count" (single), "tag worker count" (multi), or, as the
// supervisor prints them, "tag count worker" (supervisor).
//
// Figures are written only once every figure of every job has been
// drawn; if anything fails, no figure is written.
//
// Each figure has two subplots sharing their Y axis: the success
// counts on the left and the failure counts on the right, drawn as
// step histograms over one set of bins. The output format follows the
// file extension: .svg, .png, or .pdf.
//
// The -text flag also prints the per-bin counts of every figure. The
// -dump flag saves the parsed records of every run to dir/label.txt,
// in a form benchhist can read back.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ootrstats/benchhist/chart"
	"github.com/ootrstats/benchhist/config"
	"github.com/ootrstats/benchhist/rawfmt"
	"github.com/ootrstats/benchhist/runner"
	"github.com/ootrstats/benchhist/series"
)

func main() {
	log.SetPrefix("benchhist: ")
	log.SetFlags(0)
	if err := benchhist(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

// errUsage is returned after printing a usage message.
var errUsage = errors.New("bad usage")

// A tool holds the state of one benchhist invocation.
type tool struct {
	w    io.Writer
	vlog *log.Logger

	text    bool
	dumpDir string

	// pending holds drawn figures not yet moved into place.
	pending []*chart.Pending
}

func benchhist(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("benchhist", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), `usage: benchhist [flags] [-job name,...]
       benchhist [flags] [-mode single|multi|supervisor] [-o out.svg] [-rsl-o rsl.svg] [label=]capture...
`)
		flags.PrintDefaults()
	}
	flagConfig := flags.String("config", "", "read jobs from YAML `file` instead of the built-in jobs")
	flagJob := flags.String("job", "", "run only the comma-separated `jobs`")
	flagMode := flags.String("mode", "single", "parse captures in `mode` single, multi, or supervisor")
	flagOut := flags.String("o", "plot.svg", "write the figure of captures to `file`")
	flagRSLOut := flags.String("rsl-o", "", "write the RSL figure of captures to `file`")
	flagText := flags.Bool("text", false, "print per-bin counts of each figure")
	flagDump := flags.String("dump", "", "save the records of each run to `dir`/label.txt")
	flagTimeout := flags.Duration("timeout", 0, "stop waiting for the benchmark after `duration`")
	flagVerbose := flags.Bool("v", false, "log progress")
	if err := flags.Parse(args); err != nil {
		return err
	}

	t := &tool{
		w:       w,
		vlog:    log.New(io.Discard, "benchhist: ", 0),
		text:    *flagText,
		dumpDir: *flagDump,
	}
	if *flagVerbose {
		t.vlog.SetOutput(wErr)
	}
	defer t.discard()

	ctx := context.Background()
	if *flagTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *flagTimeout)
		defer cancel()
	}

	if flags.NArg() > 0 {
		if *flagJob != "" || *flagConfig != "" {
			flags.Usage()
			return fmt.Errorf("%w: -job and -config do not apply to captures", errUsage)
		}
		job := &config.Job{
			Name:      "captures",
			Mode:      *flagMode,
			Output:    *flagOut,
			RSLOutput: *flagRSLOut,
		}
		if err := t.captures(job, flags.Args()); err != nil {
			return err
		}
		return t.commit()
	}

	cfg := config.Default()
	if *flagConfig != "" {
		var err error
		if cfg, err = config.Load(*flagConfig); err != nil {
			return err
		}
	}
	names := cfg.Names()
	if *flagJob != "" {
		names = strings.Split(*flagJob, ",")
	}
	for _, name := range names {
		job, err := cfg.Job(name)
		if err != nil {
			return err
		}
		if err := t.runJob(ctx, cfg, job); err != nil {
			return err
		}
	}
	return t.commit()
}

// commit moves every pending figure into place.
func (t *tool) commit() error {
	for len(t.pending) > 0 {
		p := t.pending[0]
		t.pending = t.pending[1:]
		if err := p.Commit(); err != nil {
			return err
		}
		t.vlog.Printf("wrote %s", p.Path())
	}
	return nil
}

// discard removes every pending figure.
func (t *tool) discard() {
	for _, p := range t.pending {
		p.Discard()
	}
	t.pending = nil
}

// A capture is the complete output of one run.
type capture struct {
	label string
	data  []byte
}

// runJob runs every run of job and draws its figures.
func (t *tool) runJob(ctx context.Context, cfg *config.Config, job *config.Job) error {
	if err := job.Validate(); err != nil {
		return fmt.Errorf("job %q: %w", job.Name, err)
	}
	var caps []capture
	for _, run := range job.Runs {
		cmd := cfg.RunCommand(run)
		t.vlog.Printf("%s: running %s", job.Name, cmd)
		start := time.Now()
		data, err := runner.Run(ctx, cmd)
		if err != nil {
			return fmt.Errorf("job %q run %q: %w", job.Name, run.Label, err)
		}
		t.vlog.Printf("%s: run %s finished in %s", job.Name, run.Label, time.Since(start).Round(time.Millisecond))
		caps = append(caps, capture{run.Label, data})
	}
	return t.plot(job, caps)
}

// captures draws job's figures from the capture files named by args.
func (t *tool) captures(job *config.Job, args []string) error {
	var caps []capture
	for _, arg := range args {
		label, path := parseCaptureArg(arg)
		data, err := rawfmt.LoadCapture(path)
		if err != nil {
			return err
		}
		caps = append(caps, capture{label, data})
	}
	for _, c := range caps {
		job.Runs = append(job.Runs, config.Run{Label: c.label})
	}
	if err := job.Validate(); err != nil {
		return err
	}
	return t.plot(job, caps)
}

// parseCaptureArg splits a "label=path" argument. Without a label, the
// label is the file name less its extensions, or "stdin" for "-".
// An "=" is part of the path if it follows a path separator or if the
// whole argument names an existing file.
func parseCaptureArg(arg string) (label, path string) {
	if i := strings.Index(arg, "="); i >= 0 && !strings.ContainsAny(arg[:i], `/\`) {
		if _, err := os.Stat(arg); err != nil {
			return arg[:i], arg[i+1:]
		}
	}
	if arg == "-" {
		return "stdin", arg
	}
	label = filepath.Base(arg)
	if i := strings.Index(label, "."); i > 0 {
		label = label[:i]
	}
	return label, arg
}

// plot parses the captures of job and draws its figures.
func (t *tool) plot(job *config.Job, caps []capture) error {
	mode, err := job.ParseMode()
	if err != nil {
		return err
	}
	set := series.NewSet()
	for _, c := range caps {
		recs, err := rawfmt.ParseCapture(c.data, c.label, mode)
		if err != nil {
			return err
		}
		t.vlog.Printf("%s: %d records from %s", job.Name, len(recs), c.label)
		if t.dumpDir != "" {
			if err := t.dump(c.label, mode, recs); err != nil {
				return err
			}
		}
		for _, rec := range recs {
			if job.ByRun {
				rec.Worker = ""
			}
			set.Add(rec, c.label)
		}
	}
	t.vlog.Printf("%s: series for %s", job.Name, strings.Join(set.Workers(), ", "))

	// Each figure gets its own context, so the RSL figure shows only
	// RSL buckets.
	if err := t.figure(job.Name, job.Output, set.Group("successes", rawfmt.Success), set.Group("failures", rawfmt.Failure)); err != nil {
		return err
	}
	if job.RSLOutput != "" && set.Has(rawfmt.RSLSuccess, rawfmt.RSLFailure) {
		if err := t.figure(job.Name+" rsl", job.RSLOutput, set.Group("successes", rawfmt.RSLSuccess), set.Group("failures", rawfmt.RSLFailure)); err != nil {
			return err
		}
	}
	return nil
}

func (t *tool) figure(name, path string, left, right *series.Group) error {
	fig, err := chart.NewFigure(left, right)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	p, err := fig.Render(path)
	if err != nil {
		return err
	}
	t.pending = append(t.pending, p)
	t.vlog.Printf("%s: drew %s (%d bins)", name, path, fig.Plan.Bins())
	if t.text {
		fmt.Fprintf(t.w, "%s:\n", name)
		if err := fig.WriteCounts(t.w); err != nil {
			return err
		}
		fmt.Fprintln(t.w)
	}
	return nil
}

// dump writes recs to the dump directory as label.txt.
func (t *tool) dump(label string, mode rawfmt.Mode, recs []rawfmt.Record) error {
	if err := os.MkdirAll(t.dumpDir, 0777); err != nil {
		return err
	}
	path := filepath.Join(t.dumpDir, label+".txt")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	buf := bufio.NewWriter(f)
	rw := rawfmt.NewWriter(buf, mode)
	for _, rec := range recs {
		if err := rw.Write(rec); err != nil {
			f.Close()
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
