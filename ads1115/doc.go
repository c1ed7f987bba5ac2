// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.
//
// ads1115 drives a Texas Instruments ADS1115 16 bit analog to digital
// converter in single-shot mode, one single-ended input at a time.
//
// The acquisition cycle is a synchronous state machine (Machine) stepping a
// byte-level bus engine (see package i2cengine) through a fixed sequence:
// write the Config register, point at the Conversion register, read two
// bytes. The result of every cycle is published atomically to a Register that
// any number of consumers may read.
//
// Dev wraps the machine for host use: it ticks the machine on a timer,
// converts samples to volts and exposes every input as an analog.PinADC.
//
// For detailed information, refer to the [datasheet].
//
// [datasheet]: https://www.ti.com/lit/ds/symlink/ads1115.pdf
package ads1115
