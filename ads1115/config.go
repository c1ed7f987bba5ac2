// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ads1115

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
)

// Channel selects one of the four single-ended inputs, measured against GND.
type Channel uint8

const (
	Channel0 Channel = iota
	Channel1
	Channel2
	Channel3
)

// Valid reports whether c is one of the four inputs.
func (c Channel) Valid() bool {
	return c <= Channel3
}

func (c Channel) String() string {
	return fmt.Sprintf("AIN%d", uint8(c))
}

// Gain is the programmable gain amplifier setting, named after its full
// scale range.
type Gain uint8

const (
	Gain6V144 Gain = iota
	Gain4V096
	Gain2V048
	Gain1V024
	Gain0V512
	Gain0V256
)

var fullScale = [...]physic.ElectricPotential{
	6144 * physic.MilliVolt,
	4096 * physic.MilliVolt,
	2048 * physic.MilliVolt,
	1024 * physic.MilliVolt,
	512 * physic.MilliVolt,
	256 * physic.MilliVolt,
}

// FullScale returns the input voltage matching a raw count of 32768.
func (g Gain) FullScale() physic.ElectricPotential {
	if int(g) >= len(fullScale) {
		return 0
	}
	return fullScale[g]
}

// DataRate is the conversion rate in samples per second.
type DataRate uint8

const (
	Rate8 DataRate = iota
	Rate16
	Rate32
	Rate64
	Rate128
	Rate250
	Rate475
	Rate860
)

var samplesPerSecond = [...]int64{8, 16, 32, 64, 128, 250, 475, 860}

// Frequency returns the data rate as a frequency.
func (r DataRate) Frequency() physic.Frequency {
	if int(r) >= len(samplesPerSecond) {
		return 0
	}
	return physic.Frequency(samplesPerSecond[r]) * physic.Hertz
}

// ConversionTime returns the nominal duration of one conversion.
func (r DataRate) ConversionTime() time.Duration {
	if int(r) >= len(samplesPerSecond) {
		return 0
	}
	return time.Second / time.Duration(samplesPerSecond[r])
}

// Policy holds the fixed part of the configuration word and the timing of
// the read phase. It does not change for the lifetime of a Machine.
type Policy struct {
	Gain     Gain
	DataRate DataRate
	// Settle is the number of ticks the machine holds in BeginRead before
	// reading the Conversion register.
	Settle int
	// CheckReadAck makes an acknowledge error during the read phase abort
	// the cycle like it does during the write phases. When false, the read
	// phase is not checked and its flag is only passed through.
	CheckReadAck bool
}

// DefaultPolicy is ±4.096V full scale at 128 samples per second.
var DefaultPolicy = Policy{Gain: Gain4V096, DataRate: Rate128}

const (
	// Register pointers.
	regConversion byte = 0x00
	regConfig     byte = 0x01

	// Config register fields.
	cfgStartSingle  uint16 = 1 << 15
	cfgMuxSingle    uint16 = 0b100 << 12
	cfgModeSingle   uint16 = 1 << 8
	cfgCompDisabled uint16 = 0b11

	muxShift      = 12
	gainShift     = 9
	dataRateShift = 5
)

var (
	// ErrInvalidChannel is returned for a channel selector outside AIN0..AIN3.
	ErrInvalidChannel = errors.New("ads1115: invalid channel")
	// ErrInvalidPolicy is returned for an out of range gain or data rate.
	ErrInvalidPolicy = errors.New("ads1115: invalid policy")
)

// ConfigWord derives the Config register value starting a single-shot
// conversion of ch. The comparator is disabled.
func ConfigWord(ch Channel, p Policy) (uint16, error) {
	if !ch.Valid() {
		return 0, ErrInvalidChannel
	}
	if p.Gain > Gain0V256 || p.DataRate > Rate860 || p.Settle < 0 {
		return 0, ErrInvalidPolicy
	}
	w := cfgStartSingle |
		(cfgMuxSingle + uint16(ch)<<muxShift) |
		uint16(p.Gain)<<gainShift |
		cfgModeSingle |
		uint16(p.DataRate)<<dataRateShift |
		cfgCompDisabled
	return w, nil
}
