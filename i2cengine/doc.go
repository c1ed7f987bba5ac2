// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package i2cengine defines a byte-level I²C transaction engine.
//
// An Engine executes one addressed byte read or write per request and reports
// its progress through a busy flag, the last read byte and an acknowledge
// error flag, the way an HDL I²C master core does. Requests carry their
// position within a burst so the engine knows where to emit the stop
// condition.
//
// TxEngine implements Engine on top of any bus exposing
// Tx(addr uint16, w, r []byte) error, which includes periph's i2c.Bus and
// TinyGo's drivers.I2C.
//
// Arbiter grants exclusive, non-reentrant Leases on an Engine so only one
// owner issues transactions at a time.
package i2cengine
