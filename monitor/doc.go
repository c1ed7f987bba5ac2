// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package monitor renders the results published by an ads1115.Register.
//
// Bar draws a one line gauge on a terminal using ANSI colors, Panel draws the
// value and a gauge on any display.Drawer, like an SSD1306 or a videosink.
// Watch feeds a Renderer every time a new result is published.
package monitor
