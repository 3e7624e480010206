// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package lcd is a container for the RA6963 graphics LCD driver: the
// parallel bus engine (parbus), the chip driver (ra6963), the graphic RAM
// image format (image1bit) and the terminal emulator (termview).
package lcd
