// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package parbus drives the bit-banged parallel bus used by RA6963/T6963C
// class LCD controllers.
//
// The bus is made of eight data lines (or four, when the low half is left
// unwired), a register-select line, a write strobe and an optional read
// strobe. All line transitions are paced by five chip-specific delays, see
// Timings. Every primitive blocks the calling goroutine for the full cycle
// time; the chip offers no completion signal and a transfer must never be
// cut short.
//
// A Bus is single-owner: it must not be used from multiple goroutines
// without external locking, and sharing one is discouraged outright.
package parbus

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Protocol selects the strobe semantics of the control lines.
type Protocol int

const (
	// Intel8080 uses separate active-low write and read strobes (/WR, /RD).
	Intel8080 Protocol = iota
	// Motorola6800 uses an R/W level line and an active-high E strobe.
	Motorola6800
)

func (p Protocol) String() string {
	switch p {
	case Intel8080:
		return "8080"
	case Motorola6800:
		return "6800"
	default:
		return fmt.Sprintf("Protocol(%d)", int(p))
	}
}

// Timings holds the five delays the chip requires between bus edges.
//
// A write cycle takes at least Setup+Clock+Hold, a read cycle at least
// Setup+Read+Proc. The RA6963 datasheet values are in DefaultTimings; slower
// boards with long ribbon cables may need larger ones.
type Timings struct {
	// Setup is the data/control setup time before the strobe is asserted.
	Setup time.Duration
	// Clock is the width of the write strobe pulse.
	Clock time.Duration
	// Read is the turnaround delay between asserting the read strobe and
	// sampling the data lines.
	Read time.Duration
	// Proc is the processing time granted to the chip after each read.
	Proc time.Duration
	// Hold is the data hold time after the write strobe is released.
	Hold time.Duration
}

// DefaultTimings are the values used by the reference RA6963 driver.
var DefaultTimings = Timings{
	Setup: 20 * time.Nanosecond,
	Clock: 2000 * time.Nanosecond,
	Read:  300 * time.Nanosecond,
	Proc:  1000 * time.Nanosecond,
	Hold:  2000 * time.Nanosecond,
}

func (t Timings) validate() error {
	for _, d := range []time.Duration{t.Setup, t.Clock, t.Read, t.Proc, t.Hold} {
		if d < 0 {
			return fmt.Errorf("parbus: negative delay %s in timings", d)
		}
	}
	return nil
}

// Config describes the pin set and timing of a bus. It is consumed by New
// and not referenced afterwards.
//
// D[4:8] (D4..D7) are mandatory. D[0:4] are either all wired or all nil; in
// the latter case every transfer is split into two 4-bit nibbles, high
// nibble first. RW is the read strobe (/RD on 8080, R/W on 6800); leaving it
// nil makes the bus write-only and every read primitive fails with
// ErrWriteOnly.
type Config struct {
	// D are the data lines, index 0 being D0.
	D [8]gpio.PinIO
	// RS is the register select line (C/D): high selects the command or
	// status register, low the data register.
	RS gpio.PinOut
	// E is the write strobe (/WR on 8080) or the enable line (E on 6800).
	E gpio.PinOut
	// RW is the optional read line. Nil means write-only.
	RW gpio.PinIO
	// Protocol selects the strobe semantics. Defaults to Intel8080.
	Protocol Protocol
	// Timings are the bus delays. The zero value selects DefaultTimings.
	Timings Timings
}

// ErrWriteOnly is returned by read primitives on a bus configured without a
// read line.
var ErrWriteOnly = errors.New("parbus: bus has no read line")

// ErrHalted is returned by every method of a Bus after Halt.
var ErrHalted = errors.New("parbus: bus is halted")

// Bus owns a pin set for its lifetime and exposes the four transfer
// primitives of the parallel protocol. Release it with Halt; a halted bus
// cannot be reused and Halt itself is not idempotent.
type Bus struct {
	d       [8]gpio.PinIO
	rs      gpio.PinOut
	e       gpio.PinOut
	rw      gpio.PinIO
	proto   Protocol
	t       Timings
	fourBit bool
	halted  bool
}

// New validates cfg, claims the pins and returns the bus handle.
//
// Validation runs to completion before any pin is touched. If driving the
// pins to their idle levels fails partway, every pin configured so far is
// halted again before New returns, so a failed New leaves nothing claimed.
func New(cfg *Config) (*Bus, error) {
	if cfg == nil {
		return nil, errors.New("parbus: nil config")
	}
	if cfg.RS == nil {
		return nil, errors.New("parbus: register select line is mandatory")
	}
	if cfg.E == nil {
		return nil, errors.New("parbus: write strobe line is mandatory")
	}
	for i := 4; i < 8; i++ {
		if cfg.D[i] == nil {
			return nil, fmt.Errorf("parbus: data line D%d is mandatory", i)
		}
	}
	low := 0
	for i := 0; i < 4; i++ {
		if cfg.D[i] != nil {
			low++
		}
	}
	if low != 0 && low != 4 {
		return nil, errors.New("parbus: data lines D0..D3 must be all wired or all unwired")
	}
	if cfg.Protocol != Intel8080 && cfg.Protocol != Motorola6800 {
		return nil, fmt.Errorf("parbus: unknown protocol %d", int(cfg.Protocol))
	}
	t := cfg.Timings
	if t == (Timings{}) {
		t = DefaultTimings
	}
	if err := t.validate(); err != nil {
		return nil, err
	}

	b := &Bus{
		d:       cfg.D,
		rs:      cfg.RS,
		e:       cfg.E,
		rw:      cfg.RW,
		proto:   cfg.Protocol,
		t:       t,
		fourBit: low == 0,
	}
	if err := b.claim(); err != nil {
		return nil, err
	}
	return b, nil
}

// claim drives every owned line to its idle level. On failure all pins
// touched so far are halted again.
func (b *Bus) claim() error {
	var claimed []conn.Resource
	fail := func(name string, err error) error {
		for i := len(claimed) - 1; i >= 0; i-- {
			_ = claimed[i].Halt()
		}
		return fmt.Errorf("parbus: claiming %s: %w", name, err)
	}
	if err := b.rs.Out(gpio.High); err != nil {
		return fail(b.rs.Name(), err)
	}
	claimed = append(claimed, b.rs)
	if err := b.e.Out(b.strobeIdle()); err != nil {
		return fail(b.e.Name(), err)
	}
	claimed = append(claimed, b.e)
	if b.rw != nil {
		if err := b.rw.Out(b.readIdle()); err != nil {
			return fail(b.rw.Name(), err)
		}
		claimed = append(claimed, b.rw)
	}
	for _, p := range b.dataPins() {
		if err := p.Out(gpio.Low); err != nil {
			return fail(p.Name(), err)
		}
		claimed = append(claimed, p)
	}
	return nil
}

// WriteCommand writes a single byte to the command register.
func (b *Bus) WriteCommand(cmd byte) error {
	if b.halted {
		return ErrHalted
	}
	if err := b.rs.Out(gpio.High); err != nil {
		return err
	}
	return b.writeByte(cmd)
}

// WriteData writes p to the data register, back to back with no command
// framing in between.
func (b *Bus) WriteData(p []byte) error {
	if b.halted {
		return ErrHalted
	}
	if err := b.rs.Out(gpio.Low); err != nil {
		return err
	}
	for _, v := range p {
		if err := b.writeByte(v); err != nil {
			return err
		}
	}
	return nil
}

// ReadData fills p from the data register. It fails with ErrWriteOnly, before
// touching any pin, when the bus has no read line.
func (b *Bus) ReadData(p []byte) error {
	if b.halted {
		return ErrHalted
	}
	if b.rw == nil {
		return ErrWriteOnly
	}
	return b.read(gpio.Low, p)
}

// ReadRegister reads the chip status register. The same write-only rule as
// ReadData applies.
func (b *Bus) ReadRegister() (byte, error) {
	if b.halted {
		return 0, ErrHalted
	}
	if b.rw == nil {
		return 0, ErrWriteOnly
	}
	var v [1]byte
	if err := b.read(gpio.High, v[:]); err != nil {
		return 0, err
	}
	return v[0], nil
}

// FourBit reports whether transfers are split into nibbles. The width is
// fixed when the bus is created and never changes per call.
func (b *Bus) FourBit() bool {
	return b.fourBit
}

func (b *Bus) String() string {
	w := 8
	if b.fourBit {
		w = 4
	}
	return fmt.Sprintf("parbus.Bus{%s, %d-bit, E=%s}", b.proto, w, b.e.Name())
}

// Halt parks all lines low and releases the pin set. The bus cannot be used
// afterwards; calling Halt twice returns ErrHalted, matching the single
// ownership of the underlying lines.
func (b *Bus) Halt() error {
	if b.halted {
		return ErrHalted
	}
	b.halted = true
	var first error
	release := func(p conn.Resource) {
		if err := p.Halt(); err != nil && first == nil {
			first = err
		}
	}
	for _, p := range b.dataPins() {
		_ = p.Out(gpio.Low)
		release(p)
	}
	_ = b.rs.Out(gpio.Low)
	release(b.rs)
	_ = b.e.Out(b.strobeIdle())
	release(b.e)
	if b.rw != nil {
		_ = b.rw.Out(b.readIdle())
		release(b.rw)
	}
	return first
}

// dataPins returns the wired data lines, lowest bit first.
func (b *Bus) dataPins() []gpio.PinIO {
	if b.fourBit {
		return b.d[4:]
	}
	return b.d[:]
}

// strobeIdle is the inactive level of the E line: high for the active-low
// 8080 /WR, low for the active-high 6800 E.
func (b *Bus) strobeIdle() gpio.Level {
	if b.proto == Intel8080 {
		return gpio.High
	}
	return gpio.Low
}

// readIdle is the inactive level of the RW line: high for 8080 /RD, low
// (write) for the 6800 R/W level line.
func (b *Bus) readIdle() gpio.Level {
	if b.proto == Intel8080 {
		return gpio.High
	}
	return gpio.Low
}

func (b *Bus) writeByte(v byte) error {
	if b.fourBit {
		if err := b.writeBits(v>>4, 4); err != nil {
			return err
		}
		return b.writeBits(v&0x0f, 4)
	}
	return b.writeBits(v, 0)
}

// writeBits places v on the data lines D[lo]..D7 and runs one write strobe
// cycle: setup, strobe active for Clock, hold after release.
func (b *Bus) writeBits(v byte, lo int) error {
	for i := lo; i < 8; i++ {
		if err := b.d[i].Out(gpio.Level(v&(1<<uint(i-lo)) != 0)); err != nil {
			return err
		}
	}
	time.Sleep(b.t.Setup)
	if err := b.e.Out(!b.strobeIdle()); err != nil {
		return err
	}
	time.Sleep(b.t.Clock)
	if err := b.e.Out(b.strobeIdle()); err != nil {
		return err
	}
	time.Sleep(b.t.Hold)
	return nil
}

// read runs the read protocol for len(p) bytes with RS at the given level.
// The data lines are switched to inputs for the duration of the block and
// restored to outputs afterwards.
func (b *Bus) read(rs gpio.Level, p []byte) error {
	if err := b.rs.Out(rs); err != nil {
		return err
	}
	for _, pin := range b.dataPins() {
		if err := pin.In(gpio.PullNoChange, gpio.NoEdge); err != nil {
			return err
		}
	}
	if b.proto == Motorola6800 {
		// R/W stays at read level for the whole block.
		if err := b.rw.Out(gpio.High); err != nil {
			return err
		}
	}
	var err error
	for i := range p {
		p[i], err = b.readByte()
		if err != nil {
			break
		}
	}
	if err == nil && b.proto == Motorola6800 {
		err = b.rw.Out(gpio.Low)
	}
	// Back to the write direction even when the read failed.
	for _, pin := range b.dataPins() {
		if oerr := pin.Out(gpio.Low); oerr != nil && err == nil {
			err = oerr
		}
	}
	return err
}

func (b *Bus) readByte() (byte, error) {
	if b.fourBit {
		hi, err := b.readBits(4)
		if err != nil {
			return 0, err
		}
		lo, err := b.readBits(4)
		if err != nil {
			return 0, err
		}
		return hi<<4 | lo, nil
	}
	return b.readBits(0)
}

// readBits runs one read strobe cycle and samples D[lo]..D7 after the
// turnaround delay.
func (b *Bus) readBits(lo int) (byte, error) {
	time.Sleep(b.t.Setup)
	if err := b.readStrobe(true); err != nil {
		return 0, err
	}
	time.Sleep(b.t.Read)
	var v byte
	for i := lo; i < 8; i++ {
		if b.d[i].Read() {
			v |= 1 << uint(i-lo)
		}
	}
	if err := b.readStrobe(false); err != nil {
		return 0, err
	}
	time.Sleep(b.t.Proc)
	return v, nil
}

// readStrobe asserts or releases the line that paces a read: /RD on 8080,
// E on 6800.
func (b *Bus) readStrobe(active bool) error {
	if b.proto == Intel8080 {
		return b.rw.Out(gpio.Level(!active))
	}
	return b.e.Out(gpio.Level(active))
}

var _ conn.Resource = &Bus{}
