// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package image1bit provides a 1-bit image format matching the graphic RAM
// layout of T6963C class LCD controllers.
//
// Pixels are packed eight to a byte along a row, most significant bit being
// the leftmost pixel, so a HorizontalMSB's Pix slice can be streamed into
// the chip's graphic region unchanged.
package image1bit

import (
	"image"
	"image/color"
	"image/draw"
)

// Bit is a binary color, either On or Off.
type Bit bool

// Possible bit values.
const (
	On  Bit = true
	Off Bit = false
)

// RGBA implements color.Color.
func (b Bit) RGBA() (uint32, uint32, uint32, uint32) {
	if b {
		return 0xffff, 0xffff, 0xffff, 0xffff
	}
	return 0, 0, 0, 0xffff
}

func (b Bit) String() string {
	if b {
		return "On"
	}
	return "Off"
}

func toBit(c color.Color) color.Color {
	if b, ok := c.(Bit); ok {
		return b
	}
	r, g, b, _ := c.RGBA()
	// Perceptual luma threshold at mid-scale.
	y := (299*r + 587*g + 114*b + 500) / 1000
	return Bit(y >= 0x8000)
}

// BitModel converts any color to Bit.
var BitModel = color.ModelFunc(toBit)

// HorizontalMSB is a 1-bit image with row-major, MSB-first packing.
type HorizontalMSB struct {
	// Pix holds the packed pixels, one row every Stride bytes.
	Pix    []byte
	Stride int
	Rect   image.Rectangle
}

// NewHorizontalMSB returns an all-Off image with the given bounds.
func NewHorizontalMSB(r image.Rectangle) *HorizontalMSB {
	w, h := r.Dx(), r.Dy()
	if w < 0 || h < 0 {
		return &HorizontalMSB{Rect: r}
	}
	stride := (w + 7) / 8
	return &HorizontalMSB{
		Pix:    make([]byte, stride*h),
		Stride: stride,
		Rect:   r,
	}
}

// ColorModel implements image.Image.
func (p *HorizontalMSB) ColorModel() color.Model {
	return BitModel
}

// Bounds implements image.Image.
func (p *HorizontalMSB) Bounds() image.Rectangle {
	return p.Rect
}

// At implements image.Image.
func (p *HorizontalMSB) At(x, y int) color.Color {
	return p.BitAt(x, y)
}

// BitAt returns the bit at (x, y), Off outside the bounds.
func (p *HorizontalMSB) BitAt(x, y int) Bit {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return Off
	}
	offset, mask := p.pixOffset(x, y)
	return Bit(p.Pix[offset]&mask != 0)
}

// Set implements draw.Image.
func (p *HorizontalMSB) Set(x, y int, c color.Color) {
	p.SetBit(x, y, BitModel.Convert(c).(Bit))
}

// SetBit sets the bit at (x, y). Faster than Set as it skips the color
// conversion.
func (p *HorizontalMSB) SetBit(x, y int, b Bit) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	offset, mask := p.pixOffset(x, y)
	if b {
		p.Pix[offset] |= mask
	} else {
		p.Pix[offset] &^= mask
	}
}

func (p *HorizontalMSB) pixOffset(x, y int) (int, byte) {
	x -= p.Rect.Min.X
	y -= p.Rect.Min.Y
	return y*p.Stride + x/8, 0x80 >> uint(x%8)
}

var _ image.Image = &HorizontalMSB{}
var _ draw.Image = &HorizontalMSB{}
