// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package image1bit

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBit(t *testing.T) {
	if On.String() != "On" || Off.String() != "Off" {
		t.Error("Bit.String()")
	}
	r, g, b, a := On.RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff || a != 0xffff {
		t.Error("On.RGBA()")
	}
	if r, _, _, _ := Off.RGBA(); r != 0 {
		t.Error("Off.RGBA()")
	}
	if BitModel.Convert(color.White).(Bit) != On {
		t.Error("white does not convert to On")
	}
	if BitModel.Convert(color.Black).(Bit) != Off {
		t.Error("black does not convert to Off")
	}
	if BitModel.Convert(On).(Bit) != On {
		t.Error("Bit does not convert to itself")
	}
}

func TestPacking(t *testing.T) {
	img := NewHorizontalMSB(image.Rect(0, 0, 16, 2))
	if img.Stride != 2 {
		t.Fatalf("Stride = %d, want 2", img.Stride)
	}
	img.SetBit(0, 0, On)  // MSB of byte 0
	img.SetBit(15, 0, On) // LSB of byte 1
	img.SetBit(8, 1, On)  // MSB of byte 3
	want := []byte{0x80, 0x01, 0x00, 0x80}
	if diff := cmp.Diff(img.Pix, want); diff != "" {
		t.Errorf("Pix difference (-got +want):\n%s", diff)
	}
	if img.BitAt(0, 0) != On || img.BitAt(1, 0) != Off || img.BitAt(15, 0) != On {
		t.Error("BitAt() disagrees with SetBit()")
	}
	// Out of bounds is Off and a no-op.
	if img.BitAt(-1, 0) != Off {
		t.Error("BitAt() out of bounds")
	}
	img.SetBit(16, 0, On)
	if diff := cmp.Diff(img.Pix, want); diff != "" {
		t.Errorf("out-of-bounds SetBit changed Pix:\n%s", diff)
	}
}

func TestOddWidth(t *testing.T) {
	img := NewHorizontalMSB(image.Rect(0, 0, 10, 1))
	if img.Stride != 2 {
		t.Errorf("Stride = %d, want 2", img.Stride)
	}
	img.SetBit(9, 0, On)
	if img.Pix[1] != 0x40 {
		t.Errorf("Pix[1] = %#02x, want 0x40", img.Pix[1])
	}
}

func TestDraw(t *testing.T) {
	img := NewHorizontalMSB(image.Rect(0, 0, 8, 1))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	if img.Pix[0] != 0xFF {
		t.Errorf("Pix[0] = %#02x after white fill, want 0xFF", img.Pix[0])
	}
	if img.ColorModel() != BitModel {
		t.Error("ColorModel()")
	}
	if img.At(0, 0).(Bit) != On {
		t.Error("At()")
	}
}
