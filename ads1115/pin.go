// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ads1115

import (
	"fmt"

	"periph.io/x/conn/v3/analog"
)

// PinForChannel returns an analog.PinADC reading ch. Every Read runs a full
// single-shot cycle.
func (d *Dev) PinForChannel(ch Channel) (analog.PinADC, error) {
	if !ch.Valid() {
		return nil, ErrInvalidChannel
	}
	return &adcPin{d: d, ch: ch}, nil
}

type adcPin struct {
	d  *Dev
	ch Channel
}

func (p *adcPin) String() string {
	return fmt.Sprintf("%s.%s", p.d, p.ch)
}

// Halt implements conn.Resource. A single-shot pin has nothing running.
func (p *adcPin) Halt() error {
	return nil
}

func (p *adcPin) Name() string {
	return p.ch.String()
}

func (p *adcPin) Number() int {
	return int(p.ch)
}

func (p *adcPin) Function() string {
	return "ADC"
}

func (p *adcPin) Range() (analog.Sample, analog.Sample) {
	return p.d.Range()
}

func (p *adcPin) Read() (analog.Sample, error) {
	return p.d.Read(p.ch)
}

var _ analog.PinADC = &adcPin{}
