// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package monitor

import (
	"bytes"
	"image/color"
	"io"

	"github.com/GermanBionicSystems/adsacq/ads1115"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
)

// BarOpts represents the options available for a Bar.
type BarOpts struct {
	// Width is the gauge length in characters.
	Width   int
	Palette *ansi256.Palette
	// FullScale is the voltage of a full gauge.
	FullScale physic.ElectricPotential
	// W defaults to a colorable stdout.
	W io.Writer

	_ struct{}
}

// Bar is a terminal gauge redrawn in place on every Render.
type Bar struct {
	w       io.Writer
	width   int
	fs      physic.ElectricPotential
	palette ansi256.Palette

	buf bytes.Buffer
}

// NewBar returns a Bar writing to opts.W.
func NewBar(opts *BarOpts) *Bar {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	w := opts.W
	if w == nil {
		w = colorable.NewColorableStdout()
	}
	width := opts.Width
	if width <= 0 {
		width = 40
	}
	return &Bar{w: w, width: width, fs: opts.FullScale, palette: *p}
}

func (b *Bar) String() string {
	return "Bar"
}

// Halt implements conn.Resource.
//
// It terminates the line and resets the colors.
func (b *Bar) Halt() error {
	_, err := b.w.Write([]byte("\n\033[0m"))
	return err
}

// Render implements Renderer.
func (b *Bar) Render(r ads1115.Result) error {
	// Redraw the whole line every time; the buffer is reused across calls.
	b.buf.Reset()
	_, _ = b.buf.WriteString("\r\033[0m")
	lit := int(fraction(r.Sample)*float64(b.width) + 0.5)
	on := b.palette.Block(statusColor(r))
	off := b.palette.Block(color.NRGBA{0, 0, 0, 255})
	for i := 0; i < b.width; i++ {
		if i < lit {
			_, _ = io.WriteString(&b.buf, on)
		} else {
			_, _ = io.WriteString(&b.buf, off)
		}
	}
	_, _ = b.buf.WriteString("\033[0m ")
	_, _ = b.buf.WriteString(label(r, b.fs))
	_, _ = b.buf.WriteString("\033[K")
	_, err := b.buf.WriteTo(b.w)
	return err
}

var _ conn.Resource = &Bar{}
var _ Renderer = &Bar{}
