// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package statsdir manages a directory of per-seed benchmark results.
//
// Each seed has its own subdirectory holding a metadata.json that
// records, among other things, the worker that generated it:
//
//	<dir>/<seed>/metadata.json: {"worker": "intercal", ...}
//
// Subdirectories without a metadata.json are not seeds and are ignored.
package statsdir

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// MetadataFile is the name of the metadata file in each seed directory.
const MetadataFile = "metadata.json"

var workerPath = jp.MustParseString("$.worker")

// A Seed is one seed directory.
type Seed struct {
	// Name is the seed directory's name within the stats directory.
	Name   string
	Worker string
}

// List returns the seeds in the stats directory dir, sorted by name.
// It fails if any metadata file cannot be read or names no worker.
func List(dir string) ([]Seed, error) {
	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, "*/"+MetadataFile)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	sort.Strings(matches)
	seeds := make([]Seed, 0, len(matches))
	for _, m := range matches {
		worker, err := readWorker(fsys, m)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Join(dir, filepath.FromSlash(m)), err)
		}
		seeds = append(seeds, Seed{Name: path.Dir(m), Worker: worker})
	}
	return seeds, nil
}

func readWorker(fsys fs.FS, name string) (string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", err
	}
	v, err := oj.Parse(data)
	if err != nil {
		return "", err
	}
	w, ok := workerPath.First(v).(string)
	if !ok {
		return "", fmt.Errorf("no worker name")
	}
	return w, nil
}

// Clean removes every seed in dir generated by worker and returns the
// removed directories. If dryRun is set, it only returns what it would
// remove. Nothing is removed unless every metadata file is readable.
func Clean(dir, worker string, dryRun bool) ([]string, error) {
	seeds, err := List(dir)
	if err != nil {
		return nil, err
	}
	var removed []string
	for _, s := range seeds {
		if s.Worker != worker {
			continue
		}
		p := filepath.Join(dir, filepath.FromSlash(s.Name))
		if !dryRun {
			if err := os.RemoveAll(p); err != nil {
				return removed, err
			}
		}
		removed = append(removed, p)
	}
	return removed, nil
}
