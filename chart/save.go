// Copyright 2026 The ootrstats Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chart

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

// DPI is the resolution of PNG output.
const DPI = 150

// newCanvas returns a canvas for the format named by path's extension:
// ".svg" (the default when there is no extension), ".png", or ".pdf".
func newCanvas(path string, w, h vg.Length) (vg.CanvasWriterTo, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg", "":
		return vgsvg.New(w, h), nil
	case ".png":
		return vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h),
			vgimg.UseDPI(DPI), vgimg.UseBackgroundColor(color.White))}, nil
	case ".pdf":
		return vgpdf.New(w, h), nil
	default:
		return nil, fmt.Errorf("unsupported figure format %q", ext)
	}
}

// Save draws f and writes it to path. The file appears only once it is
// complete; on any error no file is left behind and an existing file
// at path is untouched.
func (f *Figure) Save(path string) error {
	p, err := f.Render(path)
	if err != nil {
		return err
	}
	return p.Commit()
}

// Render draws f into a temporary file beside path. Nothing appears at
// path until the returned Pending is committed.
func (f *Figure) Render(path string) (*Pending, error) {
	c, err := newCanvas(path, f.Width, f.Height)
	if err != nil {
		return nil, err
	}
	if err := f.Draw(draw.New(c)); err != nil {
		return nil, fmt.Errorf("drawing %s: %w", path, err)
	}
	tmp, err := writeTemp(path, c)
	if err != nil {
		return nil, err
	}
	return &Pending{path: path, tmp: tmp}, nil
}

// A Pending is a rendered figure waiting to be moved into place.
// Exactly one of Commit or Discard should be called.
type Pending struct {
	path, tmp string
}

// Path returns the path p will be committed to.
func (p *Pending) Path() string {
	return p.path
}

// Commit moves the rendered figure to its path.
func (p *Pending) Commit() error {
	if err := os.Rename(p.tmp, p.path); err != nil {
		os.Remove(p.tmp)
		return err
	}
	return nil
}

// Discard removes the rendered figure.
func (p *Pending) Discard() error {
	return os.Remove(p.tmp)
}

// writeTemp writes the output of w to a new temporary file in the
// directory of path and returns the temporary file's name.
func writeTemp(path string, w io.WriterTo) (name string, err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if _, err = w.WriteTo(tmp); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	// CreateTemp makes the file 0600; give it ordinary permissions.
	if err = os.Chmod(tmp.Name(), 0666); err != nil {
		return "", err
	}
	return tmp.Name(), nil
}
