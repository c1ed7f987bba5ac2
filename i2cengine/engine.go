// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2cengine

import (
	"errors"
	"fmt"
)

// Request is a single byte transaction.
//
// Index and Count place the byte within its burst: a burst starts with a
// start condition at Index 0 and ends with a stop condition after the byte
// where Index == Count-1. All bytes of a burst share Addr and Read.
type Request struct {
	Addr  uint16
	Read  bool
	Data  byte
	Index int
	Count int
}

// Last reports whether the request is the final byte of its burst.
func (r Request) Last() bool {
	return r.Index == r.Count-1
}

func (r Request) String() string {
	if r.Read {
		return fmt.Sprintf("%#02x R [%d/%d]", r.Addr, r.Index+1, r.Count)
	}
	return fmt.Sprintf("%#02x W %#02x [%d/%d]", r.Addr, r.Data, r.Index+1, r.Count)
}

func (r Request) validate() error {
	if r.Addr > 0x7f {
		return ErrAddress
	}
	if r.Count < 1 || r.Index < 0 || r.Index >= r.Count {
		return ErrBurst
	}
	return nil
}

// Engine is the contract of a byte-level bus transaction engine.
//
// Submit is the enable pulse. The caller must not submit while Busy reports
// true. Data and AckError are only meaningful once Busy reports false; Data
// holds the byte of the last read request, AckError reports that the
// addressed device did not acknowledge during the current burst.
type Engine interface {
	Submit(r Request) error
	Busy() bool
	Data() byte
	AckError() bool
}

var (
	// ErrBusy is returned when a request is submitted while one is in flight.
	ErrBusy = errors.New("i2cengine: request submitted while busy")
	// ErrAddress is returned for addresses that don't fit in 7 bits.
	ErrAddress = errors.New("i2cengine: address is not a 7-bit address")
	// ErrBurst is returned when a request does not continue the current burst.
	ErrBurst = errors.New("i2cengine: request out of burst sequence")
	// ErrClaimed is returned by Arbiter.TryAcquire while another lease is held.
	ErrClaimed = errors.New("i2cengine: bus already claimed")
	// ErrLeaseReleased is returned by a Lease used after Release.
	ErrLeaseReleased = errors.New("i2cengine: lease released")
)
