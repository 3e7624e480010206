// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ra6963

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

// hostPin wraps gpiotest.Pin with a halt counter and an injectable Out
// failure, so tests can check that constructors release what they claimed.
type hostPin struct {
	gpiotest.Pin
	failOut bool
	halts   int
}

func (p *hostPin) Out(l gpio.Level) error {
	if p.failOut {
		return errors.New("hostPin: broken pin")
	}
	return p.Pin.Out(l)
}

func (p *hostPin) Halt() error {
	p.halts++
	return p.Pin.Halt()
}

var (
	registerOnce sync.Once
	testPins     [maxHeaderPin + 1]*hostPin
)

// The header pins the resolver looks up, normally provided by host.Init().
func registerTestPins() {
	registerOnce.Do(func() {
		for i := 0; i <= maxHeaderPin; i++ {
			p := &hostPin{Pin: gpiotest.Pin{N: fmt.Sprintf("GPIO%d", i), Num: i}}
			testPins[i] = p
			_ = gpioreg.Register(p)
		}
	})
}

func fullWiring() PinConfig {
	return PinConfig{
		D7: 26, D6: 19, D5: 13, D4: 6,
		D3: 21, D2: 20, D1: 16, D0: 12,
		RST: 17, CD: 27, WR: 22, RD: 23, BL: 18,
	}
}

func TestResolve(t *testing.T) {
	registerTestPins()
	pc := fullWiring()
	pins, err := pc.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 8; i++ {
		if pins.Bus.D[i] == nil {
			t.Errorf("D%d not resolved", i)
		}
	}
	if pins.Bus.RW == nil {
		t.Error("RD not resolved")
	}
	if _, ok := pins.BL.(*GPIOBacklight); !ok {
		t.Errorf("backlight resolved to %T, want *GPIOBacklight", pins.BL)
	}

	pc.PWM = true
	pins, err = pc.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := pins.BL.(*PWMBacklight); !ok {
		t.Errorf("backlight resolved to %T, want *PWMBacklight", pins.BL)
	}
}

func TestResolveOptional(t *testing.T) {
	registerTestPins()
	pc := fullWiring()
	// Out of range disables an optional feature instead of failing.
	pc.D3, pc.D2, pc.D1, pc.D0 = -1, -1, -1, -1
	pc.RD = -1
	pc.BL = 99
	pins, err := pc.Resolve()
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		if pins.Bus.D[i] != nil {
			t.Errorf("D%d wired despite out-of-range number", i)
		}
	}
	if pins.Bus.RW != nil {
		t.Error("RD wired despite out-of-range number")
	}
	if pins.BL != nil {
		t.Error("backlight wired despite out-of-range number")
	}
}

func TestResolveMandatory(t *testing.T) {
	registerTestPins()
	for _, tc := range []struct {
		name string
		mut  func(*PinConfig)
	}{
		{"D7 out of range", func(pc *PinConfig) { pc.D7 = 28 }},
		{"RST out of range", func(pc *PinConfig) { pc.RST = -1 }},
		{"CD out of range", func(pc *PinConfig) { pc.CD = 99 }},
		{"WR out of range", func(pc *PinConfig) { pc.WR = -5 }},
		{"partial low nibble", func(pc *PinConfig) { pc.D0 = -1 }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			pc := fullWiring()
			tc.mut(&pc)
			if _, err := pc.Resolve(); err == nil {
				t.Error("Resolve() accepted the wiring")
			}
		})
	}
}

func TestNewFromPins(t *testing.T) {
	registerTestPins()
	pc := fullWiring()
	pc.RD = -1 // keep the smoke test write-only
	pc.BL = -1
	dev, err := NewFromPins(pc, nil)
	if err != nil {
		t.Fatal(err)
	}
	if dev.String() != "ra6963.Dev{240x64, text=0x0000, graphic=0x1000, cg=0x7800}" {
		t.Errorf("String() = %q", dev.String())
	}
	if err := dev.Halt(); err != nil {
		t.Fatal(err)
	}
}

func TestNewFromPinsBacklightFailure(t *testing.T) {
	registerTestPins()
	pc := fullWiring()
	pc.BL = 5
	testPins[5].failOut = true
	defer func() { testPins[5].failOut = false }()

	busPins := []int{26, 19, 13, 6, 21, 20, 16, 12, 27, 22, 23}
	before := map[int]int{}
	for _, n := range busPins {
		before[n] = testPins[n].halts
	}
	if _, err := NewFromPins(pc, nil); err == nil {
		t.Fatal("NewFromPins() accepted a broken backlight pin")
	}
	// A failure after the bus is open must still release every bus pin.
	for _, n := range busPins {
		if testPins[n].halts <= before[n] {
			t.Errorf("GPIO%d still claimed after failed open", n)
		}
	}
}
