// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package monitor

import (
	"context"
	"fmt"
	"image/color"

	"github.com/GermanBionicSystems/adsacq/ads1115"
	"periph.io/x/conn/v3/physic"
)

// Renderer shows a Result.
type Renderer interface {
	Render(r ads1115.Result) error
}

// Renderers fans a Result out to several Renderers. The first error stops
// the fan out.
type Renderers []Renderer

// Render implements Renderer.
func (rs Renderers) Render(r ads1115.Result) error {
	for _, x := range rs {
		if err := x.Render(r); err != nil {
			return err
		}
	}
	return nil
}

// Watch renders the current content of reg, then every new result, until ctx
// is done.
func Watch(ctx context.Context, reg *ads1115.Register, r Renderer) error {
	for {
		changed := reg.Changed()
		if err := r.Render(reg.Load()); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-changed:
		}
	}
}

// volts converts a raw sample for the full scale range fs.
func volts(sample int16, fs physic.ElectricPotential) physic.ElectricPotential {
	return physic.ElectricPotential(int64(sample) * int64(fs) / 32768)
}

// fraction returns |sample| / 32768.
func fraction(sample int16) float64 {
	f := float64(sample) / 32768
	if f < 0 {
		return -f
	}
	return f
}

func statusColor(r ads1115.Result) color.NRGBA {
	switch r.Status {
	case ads1115.StatusCompleted:
		if r.AckError {
			return color.NRGBA{255, 160, 0, 255}
		}
		return color.NRGBA{0, 200, 0, 255}
	case ads1115.StatusAborted:
		return color.NRGBA{220, 0, 0, 255}
	}
	return color.NRGBA{128, 128, 128, 255}
}

func label(r ads1115.Result, fs physic.ElectricPotential) string {
	switch r.Status {
	case ads1115.StatusIdle:
		return "no sample"
	case ads1115.StatusAborted:
		return fmt.Sprintf("%s %s (nack)", r.Channel, volts(r.Sample, fs))
	}
	return fmt.Sprintf("%s %s", r.Channel, volts(r.Sample, fs))
}
