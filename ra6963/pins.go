// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ra6963

import (
	"fmt"

	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/okim7979/lcd/parbus"
)

// PinConfig names the wiring by BCM pin number, the way the module is
// usually documented. Pins outside the 0..27 header range mark a line as
// not wired; that is an error for a mandatory line (D7..D4, RST, CD, WR)
// and disables the feature for an optional one (RD: read-back, BL:
// backlight, D3..D0: 8-bit transfers).
type PinConfig struct {
	D7, D6, D5, D4 int
	D3, D2, D1, D0 int
	// RST is the chip reset line.
	RST int
	// CD is the register select line (command/data).
	CD int
	// WR is the write strobe.
	WR int
	// RD is the optional read strobe. Out of range makes the bus write-only.
	RD int
	// BL is the optional backlight supply pin.
	BL int
	// PWM dims the backlight through hardware PWM instead of switching it.
	PWM bool

	Protocol parbus.Protocol
	Timings  parbus.Timings
}

// Pins is the resolved wiring of a PinConfig.
type Pins struct {
	Bus parbus.Config
	RST gpio.PinOut
	// BL is nil when no backlight pin is configured.
	BL display.DisplayBacklight
}

const maxHeaderPin = 27

func inRange(n int) bool {
	return n >= 0 && n <= maxHeaderPin
}

func mandatoryPin(name string, n int) (gpio.PinIO, error) {
	if !inRange(n) {
		return nil, fmt.Errorf("ra6963: %s pin %d outside GPIO0..GPIO%d", name, n, maxHeaderPin)
	}
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", n))
	if p == nil {
		return nil, fmt.Errorf("ra6963: %s pin GPIO%d not present on this host", name, n)
	}
	return p, nil
}

func optionalPin(name string, n int) (gpio.PinIO, error) {
	if !inRange(n) {
		return nil, nil
	}
	p := gpioreg.ByName(fmt.Sprintf("GPIO%d", n))
	if p == nil {
		return nil, fmt.Errorf("ra6963: %s pin GPIO%d not present on this host", name, n)
	}
	return p, nil
}

// Resolve looks the configured numbers up in the host GPIO registry and
// applies the range policy. The host must be initialized first
// (host.Init()).
func (pc PinConfig) Resolve() (*Pins, error) {
	var out Pins
	var err error
	high := []struct {
		name string
		n    int
	}{{"D7", pc.D7}, {"D6", pc.D6}, {"D5", pc.D5}, {"D4", pc.D4}}
	for i, l := range high {
		if out.Bus.D[7-i], err = mandatoryPin(l.name, l.n); err != nil {
			return nil, err
		}
	}
	// The low half selects the bus width as a group: wiring only part of
	// it is a mistake, not a narrower bus.
	low := []struct {
		name string
		n    int
	}{{"D3", pc.D3}, {"D2", pc.D2}, {"D1", pc.D1}, {"D0", pc.D0}}
	wired := 0
	for _, l := range low {
		if inRange(l.n) {
			wired++
		}
	}
	if wired == 4 {
		for i, l := range low {
			if out.Bus.D[3-i], err = mandatoryPin(l.name, l.n); err != nil {
				return nil, err
			}
		}
	} else if wired != 0 {
		return nil, fmt.Errorf("ra6963: %d of the D0..D3 pins wired, want none or all four", wired)
	}

	rst, err := mandatoryPin("RST", pc.RST)
	if err != nil {
		return nil, err
	}
	out.RST = rst
	cd, err := mandatoryPin("CD", pc.CD)
	if err != nil {
		return nil, err
	}
	out.Bus.RS = cd
	wr, err := mandatoryPin("WR", pc.WR)
	if err != nil {
		return nil, err
	}
	out.Bus.E = wr
	if out.Bus.RW, err = optionalPin("RD", pc.RD); err != nil {
		return nil, err
	}
	bl, err := optionalPin("BL", pc.BL)
	if err != nil {
		return nil, err
	}
	if bl != nil {
		if pc.PWM {
			out.BL = NewPWMBacklight(bl)
		} else {
			out.BL = NewGPIOBacklight(bl)
		}
	}
	out.Bus.Protocol = pc.Protocol
	out.Bus.Timings = pc.Timings
	return &out, nil
}

// NewFromPins resolves pc, opens the bus and returns an initialized Dev with
// the backlight attached. The bus is halted again if the chip startup fails.
func NewFromPins(pc PinConfig, opts *Opts) (*Dev, error) {
	pins, err := pc.Resolve()
	if err != nil {
		return nil, err
	}
	bus, err := parbus.New(&pins.Bus)
	if err != nil {
		return nil, err
	}
	d, err := New(bus, pins.RST, opts)
	if err != nil {
		_ = bus.Halt()
		return nil, err
	}
	if pins.BL != nil {
		d.SetBacklight(pins.BL)
		if err := d.Backlight(0xff); err != nil {
			_ = d.Halt()
			return nil, err
		}
	}
	return d, nil
}
