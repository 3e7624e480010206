// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package ra6963 controls the RA6963 graphics LCD controller, a T6963C
// compatible chip found on 240x64 and similar monochrome modules.
//
// The chip sits on a parallel bus, see package parbus for the wiring and
// timing model. The driver keeps the chip addressing state (text home,
// graphic home, character generator base) so callers do not have to resupply
// it on every call, and exposes the full command set: pointer and cursor
// positioning, single-byte and auto-mode memory access, custom character
// definition, display and mode flags, and a display.Drawer graphics path.
//
// # Datasheet
//
// http://www.pinteric.com/displays.html
package ra6963

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"

	"github.com/okim7979/lcd/image1bit"
)

// Bus is the parallel bus the chip is wired to. *parbus.Bus implements it.
type Bus interface {
	WriteCommand(cmd byte) error
	WriteData(p []byte) error
	ReadData(p []byte) error
	ReadRegister() (byte, error)
	Halt() error
}

// ErrUnalignedCG is wrapped by the warning SetCGOffset returns when the
// requested character generator base had to be rounded down to a 0x0800
// boundary. The operation is still performed; callers may ignore it.
var ErrUnalignedCG = errors.New("ra6963: character generator base not 2KB aligned")

// CombineMode selects how the text and graphic layers are combined on
// screen.
type CombineMode int

const (
	ModeOr CombineMode = iota
	ModeExor
	ModeAnd
	ModeTextAttribute
)

// Opts holds the display geometry and memory map.
type Opts struct {
	// W, H are the panel dimensions in pixels. W must be a multiple of 8.
	W int
	H int
	// TextHome, GraphicHome and CGHome are the home addresses of the three
	// memory regions. CGHome must be 2KB aligned; an unaligned value is
	// rounded down.
	TextHome    uint16
	GraphicHome uint16
	CGHome      uint16
}

// DefaultOpts is for the common 240x64 module with the memory map used by
// the reference driver.
var DefaultOpts = Opts{
	W:           240,
	H:           64,
	TextHome:    0x0000,
	GraphicHome: 0x1000,
	CGHome:      0x7800,
}

// Dev is a handle to an RA6963 chip.
//
// Dev keeps the chip addressing and flag state; it is mutated only by Dev's
// own methods and must not be used concurrently.
type Dev struct {
	bus Bus
	rst gpio.PinOut
	bl  display.DisplayBacklight

	w, h        int
	textHome    uint16
	graphicHome uint16
	cgHome      uint16
	modeSet     byte
	displayFlag byte

	frame *image1bit.HorizontalMSB
}

// New returns a Dev on the given bus and runs the startup sequence.
//
// rst is the chip reset line; nil skips the hardware reset pulse, which is
// only sensible on buses that do not reach real hardware. opts may be nil to
// select DefaultOpts. An unaligned CGHome is rounded down, as in
// SetCGOffset.
func New(bus Bus, rst gpio.PinOut, opts *Opts) (*Dev, error) {
	if bus == nil {
		return nil, errors.New("ra6963: nil bus")
	}
	if opts == nil {
		o := DefaultOpts
		opts = &o
	}
	if opts.W <= 0 || opts.H <= 0 {
		return nil, fmt.Errorf("ra6963: invalid geometry %dx%d", opts.W, opts.H)
	}
	if opts.W%8 != 0 {
		return nil, fmt.Errorf("ra6963: width %d is not a multiple of 8", opts.W)
	}
	d := &Dev{
		bus:         bus,
		rst:         rst,
		w:           opts.W,
		h:           opts.H,
		textHome:    opts.TextHome,
		graphicHome: opts.GraphicHome,
		cgHome:      opts.CGHome &^ 0x07FF,
		frame:       image1bit.NewHorizontalMSB(image.Rect(0, 0, opts.W, opts.H)),
	}
	if d.rst != nil {
		if err := d.rst.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("ra6963: reset line: %w", err)
		}
	}
	if err := d.Startup(); err != nil {
		return nil, err
	}
	return d, nil
}

// Startup pulses the reset line and resends the memory map from the stored
// state: text home and area, graphic home and area, character generator
// offset. It can be called at any time the chip state is presumed corrupted,
// not just at construction, and leaves the stored addresses untouched.
func (d *Dev) Startup() error {
	if d.rst != nil {
		if err := d.rst.Out(gpio.Low); err != nil {
			return err
		}
		time.Sleep(time.Millisecond)
		if err := d.rst.Out(gpio.High); err != nil {
			return err
		}
		time.Sleep(time.Millisecond)
	}
	if err := d.sendWord(d.textHome, cmdSetTextHomeAddress); err != nil {
		return err
	}
	if err := d.sendWord(uint16(d.w/8), cmdSetTextArea); err != nil {
		return err
	}
	if err := d.sendWord(d.graphicHome, cmdSetGraphicHome); err != nil {
		return err
	}
	if err := d.sendWord(uint16(d.w/8), cmdSetGraphicArea); err != nil {
		return err
	}
	return d.sendWord(d.cgHome>>11, cmdSetOffsetRegister)
}

// sendWord writes a 16-bit operand little-endian, then the opcode.
func (d *Dev) sendWord(w uint16, cmd byte) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], w)
	if err := d.bus.WriteData(buf[:]); err != nil {
		return err
	}
	return d.bus.WriteCommand(cmd)
}

// SetTextHome changes the text region home address.
func (d *Dev) SetTextHome(addr uint16) error {
	d.textHome = addr
	return d.sendWord(addr, cmdSetTextHomeAddress)
}

// SetGraphicHome changes the graphic region home address.
func (d *Dev) SetGraphicHome(addr uint16) error {
	d.graphicHome = addr
	return d.sendWord(addr, cmdSetGraphicHome)
}

// SetCGOffset changes the character generator base address.
//
// The base must sit on a 0x0800 boundary; an unaligned addr is rounded down
// and SetCGOffset returns the effective address together with a warning
// wrapping ErrUnalignedCG. The command is sent either way.
func (d *Dev) SetCGOffset(addr uint16) (uint16, error) {
	eff := addr &^ 0x07FF
	d.cgHome = eff
	if err := d.sendWord(eff>>11, cmdSetOffsetRegister); err != nil {
		return eff, err
	}
	if eff != addr {
		return eff, fmt.Errorf("ra6963: 0x%04X rounded down to 0x%04X: %w", addr, eff, ErrUnalignedCG)
	}
	return eff, nil
}

// SetAddress moves the chip address pointer.
func (d *Dev) SetAddress(addr uint16) error {
	return d.sendWord(addr, cmdSetAddressPointer)
}

// TextHome moves the address pointer to the text home and returns the
// resolved address.
func (d *Dev) TextHome() (uint16, error) {
	return d.textHome, d.SetAddress(d.textHome)
}

// GraphicHome moves the address pointer to the graphic home and returns the
// resolved address.
func (d *Dev) GraphicHome() (uint16, error) {
	return d.graphicHome, d.SetAddress(d.graphicHome)
}

// CGHome moves the address pointer to the character generator base and
// returns the resolved address.
func (d *Dev) CGHome() (uint16, error) {
	return d.cgHome, d.SetAddress(d.cgHome)
}

// SetCursor places the hardware cursor at text column x, row y.
func (d *Dev) SetCursor(x, y int) error {
	if x < 0 || x > 0xff || y < 0 || y > 0xff {
		return fmt.Errorf("ra6963: cursor position (%d,%d) out of range", x, y)
	}
	return d.sendWord(uint16(256*y+x), cmdSetCursorPointer)
}

// ReadStatus reads the chip status register.
func (d *Dev) ReadStatus() (byte, error) {
	return d.bus.ReadRegister()
}

// ReadIncrement reads one byte at the address pointer, then increments it.
func (d *Dev) ReadIncrement() (byte, error) {
	return d.readByte(cmdDataReadIncrement)
}

// ReadDecrement reads one byte at the address pointer, then decrements it.
func (d *Dev) ReadDecrement() (byte, error) {
	return d.readByte(cmdDataReadDecrement)
}

// ReadNonVariable reads one byte at the address pointer and leaves it in
// place.
func (d *Dev) ReadNonVariable() (byte, error) {
	return d.readByte(cmdDataReadFixed)
}

// Reads are opcode first, then the data byte.
func (d *Dev) readByte(cmd byte) (byte, error) {
	if err := d.bus.WriteCommand(cmd); err != nil {
		return 0, err
	}
	var buf [1]byte
	if err := d.bus.ReadData(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// WriteIncrement writes one byte at the address pointer, then increments it.
func (d *Dev) WriteIncrement(b byte) error {
	return d.writeByte(b, cmdDataWriteIncrement)
}

// WriteDecrement writes one byte at the address pointer, then decrements it.
func (d *Dev) WriteDecrement(b byte) error {
	return d.writeByte(b, cmdDataWriteDecrement)
}

// WriteNonVariable writes one byte at the address pointer and leaves it in
// place.
func (d *Dev) WriteNonVariable(b byte) error {
	return d.writeByte(b, cmdDataWriteFixed)
}

// Writes are data byte first, then the opcode. The chip demands the opposite
// order from reads.
func (d *Dev) writeByte(b byte, cmd byte) error {
	if err := d.bus.WriteData([]byte{b}); err != nil {
		return err
	}
	return d.bus.WriteCommand(cmd)
}

// WriteAuto streams p into chip memory starting at the address pointer using
// the auto-write mode: one opcode, one block transfer, one auto reset.
func (d *Dev) WriteAuto(p []byte) error {
	if err := d.bus.WriteCommand(cmdSetDataAutoWrite); err != nil {
		return err
	}
	if err := d.bus.WriteData(p); err != nil {
		return err
	}
	return d.bus.WriteCommand(cmdAutoReset)
}

// ReadAuto fills p from chip memory starting at the address pointer using
// the auto-read mode.
func (d *Dev) ReadAuto(p []byte) error {
	if err := d.bus.WriteCommand(cmdSetDataAutoRead); err != nil {
		return err
	}
	if err := d.bus.ReadData(p); err != nil {
		return err
	}
	return d.bus.WriteCommand(cmdAutoReset)
}

// DefineChars uploads custom character glyphs starting at character cell
// 128+start. The first 128 cells are predefined by the chip and are never
// overwritten. Each glyph is eight rows packed into a uint64, most
// significant byte being the top row.
func (d *Dev) DefineChars(glyphs []uint64, start int) error {
	if start < 0 || start+len(glyphs) > 128 {
		return fmt.Errorf("ra6963: glyphs %d..%d out of the 128 custom cells", start, start+len(glyphs)-1)
	}
	if err := d.SetAddress(d.cgHome + 128*8 + uint16(start)*8); err != nil {
		return err
	}
	if err := d.bus.WriteCommand(cmdSetDataAutoWrite); err != nil {
		return err
	}
	var buf [8]byte
	for _, g := range glyphs {
		binary.BigEndian.PutUint64(buf[:], g)
		if err := d.bus.WriteData(buf[:]); err != nil {
			return err
		}
	}
	return d.bus.WriteCommand(cmdAutoReset)
}

// SetMode selects how text and graphic layers combine. The other mode-set
// flags are preserved and the whole byte is resent.
func (d *Dev) SetMode(m CombineMode) error {
	d.modeSet &^= modeCombineMask
	switch m {
	case ModeOr:
		d.modeSet |= modeOr
	case ModeExor:
		d.modeSet |= modeExor
	case ModeAnd:
		d.modeSet |= modeAnd
	case ModeTextAttribute:
		d.modeSet |= modeTextAttribute
	default:
		return fmt.Errorf("ra6963: unknown combine mode %d", int(m))
	}
	return d.bus.WriteCommand(cmdModeSet | d.modeSet)
}

// ExternalCG switches between the internal CGROM and the external character
// generator.
func (d *Dev) ExternalCG(on bool) error {
	if on {
		d.modeSet |= modeExternalCGROM
	} else {
		d.modeSet &^= modeExternalCGROM
	}
	return d.bus.WriteCommand(cmdModeSet | d.modeSet)
}

// DisplayMode turns the text and graphic layers on or off.
func (d *Dev) DisplayMode(text, graphic bool) error {
	if text {
		d.displayFlag |= displayTextOn
	} else {
		d.displayFlag &^= displayTextOn
	}
	if graphic {
		d.displayFlag |= displayGraphicOn
	} else {
		d.displayFlag &^= displayGraphicOn
	}
	return d.bus.WriteCommand(cmdDisplayMode | d.displayFlag)
}

// CursorBlink turns cursor blinking on or off.
func (d *Dev) CursorBlink(blink bool) error {
	if blink {
		d.displayFlag |= displayCursorBlink
	} else {
		d.displayFlag &^= displayCursorBlink
	}
	return d.bus.WriteCommand(cmdDisplayMode | d.displayFlag)
}

// CursorDisplay turns the cursor on or off.
func (d *Dev) CursorDisplay(on bool) error {
	if on {
		d.displayFlag |= displayCursorOn
	} else {
		d.displayFlag &^= displayCursorOn
	}
	return d.bus.WriteCommand(cmdDisplayMode | d.displayFlag)
}

// CursorPattern selects the cursor shape, 0 (one line) to 7 (eight lines).
func (d *Dev) CursorPattern(n int) error {
	if n < 0 || n > 7 {
		return fmt.Errorf("ra6963: cursor pattern %d out of range", n)
	}
	return d.bus.WriteCommand(cmdCursorPattern | byte(n))
}

// CursorAutoMove enables or disables automatic cursor movement on data
// access.
func (d *Dev) CursorAutoMove(on bool) error {
	if on {
		return d.bus.WriteCommand(cmdCursorAutoMove | 0x00)
	}
	return d.bus.WriteCommand(cmdCursorAutoMove | 0x01)
}

// BitSet sets bit n (0..7) of the byte at the address pointer.
func (d *Dev) BitSet(n int) error {
	if n < 0 || n > 7 {
		return fmt.Errorf("ra6963: bit %d out of range", n)
	}
	return d.bus.WriteCommand(cmdBitSet | byte(n))
}

// BitReset clears bit n (0..7) of the byte at the address pointer.
func (d *Dev) BitReset(n int) error {
	if n < 0 || n > 7 {
		return fmt.Errorf("ra6963: bit %d out of range", n)
	}
	return d.bus.WriteCommand(cmdBitReset | byte(n))
}

// BlinkTime sets the cursor blink period, 0 (fastest) to 7 (slowest).
func (d *Dev) BlinkTime(n int) error {
	if n < 0 || n > 7 {
		return fmt.Errorf("ra6963: blink time %d out of range", n)
	}
	return d.sendWord(uint16(n), cmdBlinkTime)
}

// CGROMFont selects built-in font 1 or 2.
func (d *Dev) CGROMFont(n int) error {
	switch n {
	case 1:
		return d.sendWord(0x0002, cmdCGROMFontSelect)
	case 2:
		return d.sendWord(0x0003, cmdCGROMFontSelect)
	default:
		return fmt.Errorf("ra6963: CGROM font %d out of range", n)
	}
}

// ScreenReverse inverts the whole screen.
func (d *Dev) ScreenReverse(on bool) error {
	if on {
		return d.bus.WriteCommand(cmdScreenReverse | 0x01)
	}
	return d.bus.WriteCommand(cmdScreenReverse)
}

// ScreenCopy copies a single raster line into the graphic area. Only
// available in single mode.
func (d *Dev) ScreenCopy() error {
	return d.bus.WriteCommand(cmdScreenCopy)
}

// ScreenPeek reads the byte displayed at the current screen position. Only
// available when hardware and software column counts match.
func (d *Dev) ScreenPeek() (byte, error) {
	return d.readByte(cmdScreenPeek)
}

// Clear zero-fills the graphic, text and character generator regions.
func (d *Dev) Clear() error {
	n := d.w * d.h / 8
	if n < 2048 {
		n = 2048
	}
	zero := make([]byte, n)
	if _, err := d.GraphicHome(); err != nil {
		return err
	}
	if err := d.WriteAuto(zero[:d.w*d.h/8]); err != nil {
		return err
	}
	if _, err := d.TextHome(); err != nil {
		return err
	}
	if err := d.WriteAuto(zero[:d.w*d.h/64]); err != nil {
		return err
	}
	if _, err := d.CGHome(); err != nil {
		return err
	}
	return d.WriteAuto(zero[:2048])
}

// WriteText writes s from the text home, mapping ASCII to the chip's
// character codes. Newlines are stripped; the chip wraps at the text area
// width on its own.
func (d *Dev) WriteText(s string) error {
	s = strings.ReplaceAll(s, "\n", "")
	buf := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		buf[i] = s[i] - 0x20
	}
	if _, err := d.TextHome(); err != nil {
		return err
	}
	return d.WriteAuto(buf)
}

// SetBacklight attaches a backlight to the device, see GPIOBacklight and
// PWMBacklight. Without one, Backlight is a no-op.
func (d *Dev) SetBacklight(bl display.DisplayBacklight) {
	d.bl = bl
}

// Backlight sets the backlight intensity. 0 is off; on a GPIO backlight any
// other value is full on, on a PWM backlight intensity scales the duty
// cycle.
func (d *Dev) Backlight(intensity display.Intensity) error {
	if d.bl == nil {
		return nil
	}
	return d.bl.Backlight(intensity)
}

// ColorModel implements display.Drawer.
func (d *Dev) ColorModel() color.Model {
	return image1bit.BitModel
}

// Bounds implements display.Drawer.
func (d *Dev) Bounds() image.Rectangle {
	return image.Rect(0, 0, d.w, d.h)
}

// Draw implements display.Drawer. It renders src into the internal 1-bit
// frame and streams the frame into the graphic region.
func (d *Dev) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	draw.Draw(d.frame, r.Intersect(d.Bounds()), src, sp, draw.Src)
	if _, err := d.GraphicHome(); err != nil {
		return err
	}
	return d.WriteAuto(d.frame.Pix)
}

func (d *Dev) String() string {
	return fmt.Sprintf("ra6963.Dev{%dx%d, text=0x%04X, graphic=0x%04X, cg=0x%04X}",
		d.w, d.h, d.textHome, d.graphicHome, d.cgHome)
}

// Halt turns both display layers and the backlight off and halts the bus.
func (d *Dev) Halt() error {
	_ = d.DisplayMode(false, false)
	_ = d.Backlight(0)
	return d.bus.Halt()
}

var _ display.Drawer = &Dev{}
var _ display.DisplayBacklight = &Dev{}
var _ conn.Resource = &Dev{}
