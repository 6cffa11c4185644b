// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Cleanworker removes the seeds a given worker generated from a stats
// directory.
//
// Usage:
//
//	cleanworker [-n] dir worker
//
// Every subdirectory of dir whose metadata.json names worker is
// removed. With -n, cleanworker only prints what it would remove.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ootrstats/benchhist/statsdir"
)

func main() {
	log.SetPrefix("cleanworker: ")
	log.SetFlags(0)
	if err := cleanworker(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func cleanworker(w, wErr io.Writer, args []string) error {
	flags := flag.NewFlagSet("cleanworker", flag.ContinueOnError)
	flags.SetOutput(wErr)
	flags.Usage = func() {
		fmt.Fprintf(flags.Output(), "usage: cleanworker [-n] dir worker\n")
		flags.PrintDefaults()
	}
	dryRun := flags.Bool("n", false, "print the seeds that would be removed without removing them")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 2 {
		flags.Usage()
		return fmt.Errorf("want 2 arguments, have %d", flags.NArg())
	}

	removed, err := statsdir.Clean(flags.Arg(0), flags.Arg(1), *dryRun)
	for _, p := range removed {
		fmt.Fprintln(w, p)
	}
	return err
}
