// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2cengine

import "sync"

// Arbiter hands out exclusive access to an Engine.
//
// At most one Lease is live at any time. Leases are not reentrant: the
// holder must Release before anyone, including itself, can acquire again.
type Arbiter struct {
	e Engine

	mu    sync.Mutex
	owner *Lease
}

// NewArbiter returns an Arbiter guarding e.
func NewArbiter(e Engine) *Arbiter {
	return &Arbiter{e: e}
}

// TryAcquire returns a new Lease, or ErrClaimed if one is already held. It
// never blocks.
func (a *Arbiter) TryAcquire() (*Lease, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.owner != nil {
		return nil, ErrClaimed
	}
	l := &Lease{a: a}
	a.owner = l
	return l, nil
}

// Held reports whether a lease is currently live.
func (a *Arbiter) Held() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.owner != nil
}

// Engine returns the guarded engine.
func (a *Arbiter) Engine() Engine {
	return a.e
}

func (a *Arbiter) owns(l *Lease) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.owner == l
}

// Lease is exclusive access to an Engine, obtained from Arbiter.TryAcquire.
//
// A Lease implements Engine. Once released, Submit fails with
// ErrLeaseReleased and the status accessors report an idle engine.
type Lease struct {
	a *Arbiter
}

// Submit implements Engine.
//
// It refuses to overlap requests: if the engine is still busy the request is
// rejected with ErrBusy.
func (l *Lease) Submit(r Request) error {
	if !l.a.owns(l) {
		return ErrLeaseReleased
	}
	if l.a.e.Busy() {
		return ErrBusy
	}
	return l.a.e.Submit(r)
}

// Busy implements Engine.
func (l *Lease) Busy() bool {
	if !l.a.owns(l) {
		return false
	}
	return l.a.e.Busy()
}

// Data implements Engine.
func (l *Lease) Data() byte {
	if !l.a.owns(l) {
		return 0
	}
	return l.a.e.Data()
}

// AckError implements Engine.
func (l *Lease) AckError() bool {
	if !l.a.owns(l) {
		return false
	}
	return l.a.e.AckError()
}

// Release gives the engine back to the Arbiter. Releasing twice is a no-op.
func (l *Lease) Release() {
	l.a.mu.Lock()
	defer l.a.mu.Unlock()
	if l.a.owner == l {
		l.a.owner = nil
	}
}

var _ Engine = &Lease{}
