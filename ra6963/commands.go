// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ra6963

// Command opcodes from the RA6963 datasheet. Commands taking a 16-bit
// operand receive it as two little-endian data bytes written before the
// opcode.
const (
	cmdSetCursorPointer   byte = 0x21
	cmdSetOffsetRegister  byte = 0x22
	cmdSetAddressPointer  byte = 0x24
	cmdSetTextHomeAddress byte = 0x40
	cmdSetTextArea        byte = 0x41
	cmdSetGraphicHome     byte = 0x42
	cmdSetGraphicArea     byte = 0x43
	cmdModeSet            byte = 0x80
	cmdDisplayMode        byte = 0x90
	cmdCursorPattern      byte = 0xA0
	cmdDataWriteIncrement byte = 0xC0
	cmdDataReadIncrement  byte = 0xC1
	cmdDataWriteDecrement byte = 0xC2
	cmdDataReadDecrement  byte = 0xC3
	cmdDataWriteFixed     byte = 0xC4
	cmdDataReadFixed      byte = 0xC5
	cmdSetDataAutoWrite   byte = 0xB0
	cmdSetDataAutoRead    byte = 0xB1
	cmdAutoReset          byte = 0xB2
	cmdScreenPeek         byte = 0xE0
	cmdScreenCopy         byte = 0xE8
	cmdBitReset           byte = 0xF0
	cmdBitSet             byte = 0xF8
	cmdScreenReverse      byte = 0xD0
	cmdBlinkTime          byte = 0x50
	cmdCursorAutoMove     byte = 0x60
	cmdCGROMFontSelect    byte = 0x70
)

// Mode-set flag bits (low nibble of cmdModeSet).
const (
	modeOr            byte = 0x00
	modeExor          byte = 0x01
	modeAnd           byte = 0x03
	modeTextAttribute byte = 0x04
	modeExternalCGROM byte = 0x08

	modeCombineMask byte = 0x07
)

// Display-mode flag bits (low nibble of cmdDisplayMode).
const (
	displayCursorBlink byte = 0x01
	displayCursorOn    byte = 0x02
	displayTextOn      byte = 0x04
	displayGraphicOn   byte = 0x08
)
