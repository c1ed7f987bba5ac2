// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package enginetest is meant to be used to test drivers driving an
// i2cengine.Engine.
package enginetest

import (
	"sync"

	"github.com/GermanBionicSystems/adsacq/i2cengine"
	"periph.io/x/conn/v3/conntest"
)

// IO is one expected request and the scripted engine response to it.
type IO struct {
	i2cengine.Request
	// R is the byte returned by Data once the request completes.
	R byte
	// AckError sets the acknowledge error flag once the request completes.
	// The flag stays set until the next burst starts.
	AckError bool
	// Latency is the number of Busy calls reporting true after Submit. A
	// negative value wedges the engine: Busy never falls again.
	Latency int
}

// Record implements i2cengine.Engine that records every request.
type Record struct {
	sync.Mutex
	Engine i2cengine.Engine // Engine can be nil if only writes are being recorded.
	Ops    []i2cengine.Request
}

func (r *Record) String() string {
	return "record"
}

// Submit implements i2cengine.Engine.
func (r *Record) Submit(req i2cengine.Request) error {
	r.Lock()
	defer r.Unlock()
	r.Ops = append(r.Ops, req)
	if r.Engine == nil {
		return nil
	}
	return r.Engine.Submit(req)
}

// Busy implements i2cengine.Engine.
func (r *Record) Busy() bool {
	if r.Engine == nil {
		return false
	}
	return r.Engine.Busy()
}

// Data implements i2cengine.Engine.
func (r *Record) Data() byte {
	if r.Engine == nil {
		return 0
	}
	return r.Engine.Data()
}

// AckError implements i2cengine.Engine.
func (r *Record) AckError() bool {
	if r.Engine == nil {
		return false
	}
	return r.Engine.AckError()
}

// Playback implements i2cengine.Engine and plays back a recorded I/O flow.
//
// While Playback is thread-safe, the scripted busy countdown assumes a single
// owner polls it.
//
// Set DontPanic to true to return an error instead of panicking, which is the
// default.
type Playback struct {
	sync.Mutex
	Ops       []IO
	Count     int
	DontPanic bool

	cur     *IO
	pending int
	ackErr  bool
}

func (p *Playback) String() string {
	return "playback"
}

// Close verifies that all the expected Ops have been consumed.
func (p *Playback) Close() error {
	p.Lock()
	defer p.Unlock()
	if len(p.Ops) != p.Count {
		return errorf(p.DontPanic, "enginetest: expected playback to be empty: I/O count %d; expected %d", p.Count, len(p.Ops))
	}
	return nil
}

// Submit implements i2cengine.Engine.
func (p *Playback) Submit(r i2cengine.Request) error {
	p.Lock()
	defer p.Unlock()
	if p.pending != 0 {
		return errorf(p.DontPanic, "enginetest: Submit() while busy (count #%d) %s", p.Count, r)
	}
	if len(p.Ops) <= p.Count {
		return errorf(p.DontPanic, "enginetest: unexpected Submit() (count #%d) %s", p.Count, r)
	}
	if want := p.Ops[p.Count].Request; want != r {
		return errorf(p.DontPanic, "enginetest: unexpected request (count #%d) %s != %s", p.Count, r, want)
	}
	p.cur = &p.Ops[p.Count]
	if r.Index == 0 {
		p.ackErr = false
	}
	p.ackErr = p.ackErr || p.cur.AckError
	p.pending = p.cur.Latency
	p.Count++
	return nil
}

// Busy implements i2cengine.Engine.
func (p *Playback) Busy() bool {
	p.Lock()
	defer p.Unlock()
	switch {
	case p.pending < 0:
		return true
	case p.pending > 0:
		p.pending--
		return true
	}
	return false
}

// Data implements i2cengine.Engine.
func (p *Playback) Data() byte {
	p.Lock()
	defer p.Unlock()
	if p.cur == nil {
		return 0
	}
	return p.cur.R
}

// AckError implements i2cengine.Engine.
func (p *Playback) AckError() bool {
	p.Lock()
	defer p.Unlock()
	return p.ackErr
}

// errorf is the internal implementation that optionally panic.
//
// If dontPanic is false, it panics instead.
func errorf(dontPanic bool, format string, a ...interface{}) error {
	err := conntest.Errorf(format, a...)
	if !dontPanic {
		panic(err)
	}
	return err
}

var _ i2cengine.Engine = &Record{}
var _ i2cengine.Engine = &Playback{}
