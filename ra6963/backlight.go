// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ra6963

import (
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
)

// GPIOBacklight switches the backlight supply through a plain GPIO pin.
// Implements display.DisplayBacklight; any non-zero intensity is full on.
type GPIOBacklight struct {
	pin gpio.PinOut
}

// NewGPIOBacklight returns a backlight on/off switch on the given pin.
func NewGPIOBacklight(pin gpio.PinOut) *GPIOBacklight {
	return &GPIOBacklight{pin: pin}
}

// Backlight turns the backlight on or off.
func (b *GPIOBacklight) Backlight(intensity display.Intensity) error {
	if intensity == 0 {
		return b.pin.Out(gpio.Low)
	}
	return b.pin.Out(gpio.High)
}

// backlightFreq is the PWM carrier. 10kHz keeps the ripple invisible without
// stressing the supply.
const backlightFreq = 10 * physic.KiloHertz

// PWMBacklight dims the backlight through a hardware PWM capable pin. On a
// Raspberry Pi those are GPIO12, GPIO13, GPIO18 and GPIO19.
type PWMBacklight struct {
	pin  gpio.PinOut
	freq physic.Frequency
}

// NewPWMBacklight returns a dimmable backlight on the given pin.
func NewPWMBacklight(pin gpio.PinOut) *PWMBacklight {
	return &PWMBacklight{pin: pin, freq: backlightFreq}
}

// Backlight scales the duty cycle with intensity; 0 parks the pin low.
func (b *PWMBacklight) Backlight(intensity display.Intensity) error {
	if intensity == 0 {
		return b.pin.Out(gpio.Low)
	}
	duty := gpio.Duty(uint64(intensity) * uint64(gpio.DutyMax) / 255)
	return b.pin.PWM(duty, b.freq)
}

var _ display.DisplayBacklight = &GPIOBacklight{}
var _ display.DisplayBacklight = &PWMBacklight{}
