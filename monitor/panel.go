// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package monitor

import (
	"fmt"
	"image"

	"github.com/GermanBionicSystems/adsacq/ads1115"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"periph.io/x/conn/v3/display"
	"periph.io/x/conn/v3/physic"
)

// PanelOpts represents the options available for a Panel.
type PanelOpts struct {
	// FullScale is the voltage of a full gauge.
	FullScale physic.ElectricPotential
	// FontSize in points. Zero picks a size fitting a third of the height.
	FontSize float64
}

// Panel draws results on a display: the value on top, a gauge below.
type Panel struct {
	dst  display.Drawer
	fs   physic.ElectricPotential
	face font.Face
}

// NewPanel returns a Panel drawing on dst.
func NewPanel(dst display.Drawer, opts *PanelOpts) (*Panel, error) {
	f, err := truetype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("monitor: font: %w", err)
	}
	size := opts.FontSize
	if size <= 0 {
		size = float64(dst.Bounds().Dy()) / 3
	}
	return &Panel{
		dst:  dst,
		fs:   opts.FullScale,
		face: truetype.NewFace(f, &truetype.Options{Size: size}),
	}, nil
}

func (p *Panel) String() string {
	return fmt.Sprintf("Panel{%s}", p.dst)
}

// Render implements Renderer.
func (p *Panel) Render(r ads1115.Result) error {
	b := p.dst.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	dc := gg.NewContext(b.Dx(), b.Dy())
	dc.SetRGB(0, 0, 0)
	dc.Clear()

	dc.SetRGB(1, 1, 1)
	dc.SetFontFace(p.face)
	dc.DrawStringAnchored(label(r, p.fs), w/2, h/3, 0.5, 0.5)

	pad := h / 10
	barH := h / 4
	dc.DrawRectangle(pad, h-pad-barH, w-2*pad, barH)
	dc.SetLineWidth(1)
	dc.Stroke()
	c := statusColor(r)
	dc.SetRGB255(int(c.R), int(c.G), int(c.B))
	dc.DrawRectangle(pad, h-pad-barH, (w-2*pad)*fraction(r.Sample), barH)
	dc.Fill()

	return p.dst.Draw(b, dc.Image(), image.Point{})
}

var _ Renderer = &Panel{}
