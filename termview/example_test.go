// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package termview_test

import (
	"image"
	"image/color"
	"log"

	"github.com/okim7979/lcd/termview"
)

// The terminal emulator accepts the same Draw calls as the real panel, so
// rendering code can be exercised without hardware.
func Example() {
	d := termview.New(&termview.Opts{W: 240, H: 64})
	defer func() { _ = d.Halt() }()

	if err := d.Draw(image.Rect(8, 8, 232, 56), &image.Uniform{color.White}, image.Point{}); err != nil {
		log.Fatal(err)
	}
}
