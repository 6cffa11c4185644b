// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config describes figure jobs: which benchmark runs to
// capture, how to parse them, and where to write the resulting
// figures.
//
// Jobs may be loaded from a YAML file of the form
//
//	command:
//	  path: cargo
//	  prefix: [run, --release, --]
//	  github_user: fenhl
//	jobs:
//	  - name: workers
//	    mode: supervisor
//	    output: assets/worker-plot.svg
//	    rsl_output: assets/worker-plot-rsl.svg
//	    runs:
//	      - label: run
//	        exclude_workers: [intercal]
//	        suite: true
//
// Unknown keys are an error.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ootrstats/benchhist/rawfmt"
	"github.com/ootrstats/benchhist/runner"
	"gopkg.in/yaml.v3"
)

// Config is a set of jobs sharing one supervisor command.
type Config struct {
	Command Command `yaml:"command"`
	Jobs    []*Job  `yaml:"jobs"`
}

// Command overrides parts of the supervisor invocation. Empty fields
// keep the runner defaults.
type Command struct {
	Path       string   `yaml:"path"`
	Prefix     []string `yaml:"prefix"`
	GitHubUser string   `yaml:"github_user"`
	Dir        string   `yaml:"dir"`
}

// A Job produces one figure, plus a second figure of the RSL buckets
// when RSLOutput is set and the runs report any.
type Job struct {
	Name      string `yaml:"name"`
	Mode      string `yaml:"mode"`
	Output    string `yaml:"output"`
	RSLOutput string `yaml:"rsl_output"`
	Runs      []Run  `yaml:"runs"`

	// ByRun files every record under its run's label, ignoring the
	// worker it reports, so that runs rather than workers are
	// compared.
	ByRun bool `yaml:"by_run"`
}

// A Run is one benchmark invocation within a job.
type Run struct {
	// Label names the run. In single-worker mode it is the worker
	// name of every record the run produces.
	Label          string   `yaml:"label"`
	Branch         string   `yaml:"branch"`
	Workers        []string `yaml:"workers"`
	ExcludeWorkers []string `yaml:"exclude_workers"`
	Suite          bool     `yaml:"suite"`
	Extra          []string `yaml:"extra"`
}

// Default returns the built-in jobs.
//
// "branches" compares the default branch with the riir branch and
// writes assets/plot.svg. "workers" compares every worker but intercal
// over the whole suite and writes assets/worker-plot.svg and
// assets/worker-plot-rsl.svg. Both read the supervisor's own line order.
func Default() *Config {
	return &Config{
		Jobs: []*Job{
			{
				Name:   "branches",
				Mode:   rawfmt.Supervisor.String(),
				ByRun:  true,
				Output: "assets/plot.svg",
				Runs: []Run{
					{Label: "dev-fenhl"},
					{Label: "riir", Branch: "riir"},
				},
			},
			{
				Name:      "workers",
				Mode:      rawfmt.Supervisor.String(),
				Output:    "assets/worker-plot.svg",
				RSLOutput: "assets/worker-plot-rsl.svg",
				Runs: []Run{
					{Label: "workers", ExcludeWorkers: []string{"intercal"}, Suite: true},
				},
			},
		},
	}
}

// Load reads a Config from the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// Parse parses a Config from YAML data read from source.
func Parse(data []byte, source string) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	return &cfg, nil
}

// Validate checks that every job is complete and that job names are
// unique.
func (c *Config) Validate() error {
	if len(c.Jobs) == 0 {
		return fmt.Errorf("no jobs")
	}
	seen := make(map[string]bool)
	for i, j := range c.Jobs {
		if j == nil || j.Name == "" {
			return fmt.Errorf("job %d has no name", i)
		}
		if seen[j.Name] {
			return fmt.Errorf("duplicate job %q", j.Name)
		}
		seen[j.Name] = true
		if err := j.Validate(); err != nil {
			return fmt.Errorf("job %q: %w", j.Name, err)
		}
	}
	return nil
}

// Validate checks j for missing or inconsistent fields.
func (j *Job) Validate() error {
	mode, err := j.ParseMode()
	if err != nil {
		return err
	}
	if j.Output == "" {
		return fmt.Errorf("no output")
	}
	if len(j.Runs) == 0 {
		return fmt.Errorf("no runs")
	}
	labels := make(map[string]bool)
	for i, r := range j.Runs {
		if r.Label == "" {
			return fmt.Errorf("run %d has no label", i)
		}
		if strings.ContainsAny(r.Label, " \t\r\n/") {
			return fmt.Errorf("run label %q contains a space or slash", r.Label)
		}
		if labels[r.Label] {
			return fmt.Errorf("duplicate run label %q", r.Label)
		}
		labels[r.Label] = true
		if len(r.Workers) > 0 && len(r.ExcludeWorkers) > 0 {
			return fmt.Errorf("run %q both includes and excludes workers", r.Label)
		}
	}
	if !mode.HasWorker() && j.RSLOutput != "" {
		// Single-worker output never carries RSL records.
		return fmt.Errorf("rsl_output requires multi or supervisor mode")
	}
	return nil
}

// ParseMode returns j's parsing mode.
func (j *Job) ParseMode() (rawfmt.Mode, error) {
	return rawfmt.ParseMode(j.Mode)
}

// Job returns the job called name.
func (c *Config) Job(name string) (*Job, error) {
	for _, j := range c.Jobs {
		if j.Name == name {
			return j, nil
		}
	}
	return nil, fmt.Errorf("unknown job %q (have %s)", name, strings.Join(c.Names(), ", "))
}

// Names returns the names of c's jobs in order.
func (c *Config) Names() []string {
	names := make([]string, len(c.Jobs))
	for i, j := range c.Jobs {
		names[i] = j.Name
	}
	return names
}

// RunCommand returns the supervisor command for run r.
func (c *Config) RunCommand(r Run) *runner.Command {
	return &runner.Command{
		Path:           c.Command.Path,
		Prefix:         c.Command.Prefix,
		GitHubUser:     c.Command.GitHubUser,
		Dir:            c.Command.Dir,
		Branch:         r.Branch,
		Workers:        r.Workers,
		ExcludeWorkers: r.ExcludeWorkers,
		Suite:          r.Suite,
		Extra:          r.Extra,
	}
}
