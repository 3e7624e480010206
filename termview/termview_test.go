// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termview

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"testing"

	"github.com/okim7979/lcd/image1bit"
)

func TestDraw(t *testing.T) {
	var out bytes.Buffer
	d := NewWriter(&out, &Opts{W: 16, H: 2})
	if d.String() != "termview.Dev{16x2}" {
		t.Errorf("String() = %q", d.String())
	}
	if d.Bounds() != image.Rect(0, 0, 16, 2) {
		t.Errorf("Bounds() = %v", d.Bounds())
	}
	if d.ColorModel() != image1bit.BitModel {
		t.Error("ColorModel()")
	}
	if err := d.Draw(d.Bounds(), &image.Uniform{color.White}, image.Point{}); err != nil {
		t.Fatal(err)
	}
	// One line per pixel row.
	if got := strings.Count(out.String(), "\n"); got != 2 {
		t.Errorf("%d lines of output, want 2", got)
	}
	first := out.Len()
	if err := d.Draw(d.Bounds(), &image.Uniform{color.Black}, image.Point{}); err != nil {
		t.Fatal(err)
	}
	// The second frame redraws in place.
	if !strings.Contains(out.String()[first:], "\033[2A") {
		t.Error("second frame did not move the cursor back up")
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(out.String(), "\033[0m") {
		t.Error("Halt() did not reset the terminal attributes")
	}
}

func TestRAM(t *testing.T) {
	var out bytes.Buffer
	d := NewWriter(&out, &Opts{W: 8, H: 2})
	if err := d.RAM([]byte{0xF0, 0x0F}); err != nil {
		t.Fatal(err)
	}
	if d.frame.BitAt(0, 0) != image1bit.On || d.frame.BitAt(7, 0) != image1bit.Off {
		t.Error("first row not unpacked MSB first")
	}
	if d.frame.BitAt(0, 1) != image1bit.Off || d.frame.BitAt(7, 1) != image1bit.On {
		t.Error("second row not unpacked MSB first")
	}
	if out.Len() == 0 {
		t.Error("no output written")
	}
}

func TestDrawClipped(t *testing.T) {
	var out bytes.Buffer
	d := NewWriter(&out, &Opts{W: 8, H: 2})
	src := image1bit.NewHorizontalMSB(image.Rect(0, 0, 4, 1))
	draw.Draw(src, src.Bounds(), &image.Uniform{image1bit.On}, image.Point{}, draw.Src)
	if err := d.Draw(image.Rect(2, 0, 12, 4), src, image.Point{}); err != nil {
		t.Fatal(err)
	}
	if d.frame.BitAt(2, 0) != image1bit.On {
		t.Error("clipped draw did not land at (2,0)")
	}
	if d.frame.BitAt(7, 1) != image1bit.Off {
		t.Error("clipped draw spilled outside the source")
	}
}
