// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2cengine

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"tinygo.org/x/drivers"
)

// Txer is a bus able to run a whole write-then-read transaction.
type Txer interface {
	Tx(addr uint16, w, r []byte) error
}

// TxEngine is an Engine running bursts as single Tx calls on a Txer.
//
// Write bytes are buffered and the burst is sent when its last byte is
// submitted. A read burst is fetched entirely when its first byte is
// submitted; following bytes are served from that buffer. Tx runs on its own
// goroutine and Busy reports true until it returns. Any Tx error sets the
// acknowledge error flag for the rest of the burst.
type TxEngine struct {
	bus Txer

	mu     sync.Mutex
	busy   bool
	data   byte
	ackErr bool
	err    error
	done   chan struct{}

	// Current burst.
	addr  uint16
	read  bool
	count int
	next  int
	w     []byte
	r     []byte
}

// NewTxEngine returns an engine issuing transactions on b.
func NewTxEngine(b Txer) *TxEngine {
	return &TxEngine{bus: b}
}

// FromBus returns an engine for a periph I²C bus.
func FromBus(b i2c.Bus) *TxEngine {
	return NewTxEngine(b)
}

// FromDrivers returns an engine for a TinyGo drivers.I2C bus.
func FromDrivers(b drivers.I2C) *TxEngine {
	return NewTxEngine(b)
}

func (e *TxEngine) String() string {
	if s, ok := e.bus.(fmt.Stringer); ok {
		return s.String()
	}
	return "txengine"
}

// Submit implements Engine.
func (e *TxEngine) Submit(r Request) error {
	if err := r.validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return ErrBusy
	}
	if r.Index == 0 {
		e.addr = r.Addr
		e.read = r.Read
		e.count = r.Count
		e.next = 0
		e.w = e.w[:0]
		e.r = nil
		e.ackErr = false
		e.err = nil
	} else if r.Index != e.next || r.Addr != e.addr || r.Read != e.read || r.Count != e.count {
		return ErrBurst
	}
	e.next = r.Index + 1

	if r.Read {
		if r.Index == 0 {
			e.r = make([]byte, r.Count)
			e.launch(nil, e.r)
			return nil
		}
		e.data = e.r[r.Index]
		return nil
	}
	e.w = append(e.w, r.Data)
	if r.Last() {
		w := make([]byte, len(e.w))
		copy(w, e.w)
		e.launch(w, nil)
	}
	return nil
}

// launch must be called with e.mu held.
func (e *TxEngine) launch(w, r []byte) {
	e.busy = true
	e.done = make(chan struct{})
	go e.run(e.addr, w, r, e.done)
}

func (e *TxEngine) run(addr uint16, w, r []byte, done chan struct{}) {
	err := e.bus.Tx(addr, w, r)
	e.mu.Lock()
	e.err = err
	e.ackErr = err != nil
	if len(r) != 0 {
		e.data = r[0]
	}
	e.busy = false
	e.mu.Unlock()
	close(done)
}

// Busy implements Engine.
func (e *TxEngine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

// Data implements Engine.
func (e *TxEngine) Data() byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.data
}

// AckError implements Engine.
func (e *TxEngine) AckError() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ackErr
}

// Err returns the error of the last Tx of the current burst, if any.
func (e *TxEngine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Wait blocks until the in-flight Tx, if any, returns.
func (e *TxEngine) Wait() {
	e.mu.Lock()
	done := e.done
	e.mu.Unlock()
	if done != nil {
		<-done
	}
}

var _ Engine = &TxEngine{}
var _ Txer = i2c.Bus(nil)
var _ Txer = drivers.I2C(nil)
