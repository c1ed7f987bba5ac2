// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package adsacq is a container for the ADS1115 acquisition packages.
//
// i2cengine holds the byte level bus engine contract, its arbiter and an
// implementation on top of transaction oriented buses. ads1115 holds the
// clocked acquisition machine and a periph style driver built on it.
// monitor and modbusout render published results.
package adsacq
