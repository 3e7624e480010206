// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package termview implements a monochrome display.Drawer that outputs to
// terminal (stdout) using ANSI color codes.
//
// Useful for previewing what would land on an RA6963 panel without wiring
// one up, and for inspecting graphic RAM read back over the bus.
package termview

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"

	"github.com/okim7979/lcd/image1bit"
)

// Opts represents the options available for this display.
type Opts struct {
	// W, H is the emulated panel size in pixels.
	W int
	H int
	// Palette maps colors to terminal codes. Nil selects ansi256.Default.
	Palette *ansi256.Palette

	_ struct{}
}

// Dev is an LCD panel emulator that renders to the console.
type Dev struct {
	w       io.Writer
	rect    image.Rectangle
	palette ansi256.Palette
	frame   *image1bit.HorizontalMSB
	drawn   bool
	buf     bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	return NewWriter(colorable.NewColorableStdout(), opts)
}

// NewWriter is New with an explicit output, for tests or capture.
func NewWriter(w io.Writer, opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	rect := image.Rect(0, 0, opts.W, opts.H)
	return &Dev{
		w:       w,
		rect:    rect,
		palette: *p,
		frame:   image1bit.NewHorizontalMSB(rect),
	}
}

func (d *Dev) String() string {
	return fmt.Sprintf("termview.Dev{%dx%d}", d.rect.Dx(), d.rect.Dy())
}

// Halt implements conn.Resource.
//
// It resets the terminal attributes so the shell is not left corrupted.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return d.rect
}

// Draw implements display.Drawer.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(d.frame, r.Intersect(d.rect), src, sp, draw.Src)
	return d.refresh()
}

// RAM renders raw graphic memory, as read back with ra6963.ReadAuto, into
// the frame and refreshes the console. Rows are Bounds().Dx()/8 bytes of
// MSB-first pixels, the chip's native layout.
func (d *Dev) RAM(raw []byte) error {
	copy(d.frame.Pix, raw)
	return d.refresh()
}

func (d *Dev) refresh() error {
	// One write per frame keeps the terminal from tearing.
	d.buf.Reset()
	if d.drawn {
		// Redraw in place.
		fmt.Fprintf(&d.buf, "\033[%dA", d.rect.Dy())
	}
	on := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	off := color.NRGBA{A: 255}
	for y := 0; y < d.rect.Dy(); y++ {
		_, _ = d.buf.WriteString("\r\033[0m")
		for x := 0; x < d.rect.Dx(); x++ {
			c := off
			if d.frame.BitAt(x, y) {
				c = on
			}
			_, _ = io.WriteString(&d.buf, d.palette.Block(c))
		}
		_, _ = d.buf.WriteString("\033[0m\n")
	}
	d.drawn = true
	_, err := d.buf.WriteTo(d.w)
	return err
}

var _ display.Drawer = &Dev{}
