// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ads1115

import (
	"github.com/GermanBionicSystems/adsacq/i2cengine"
)

// State is a step of the acquisition cycle.
type State uint8

const (
	Idle State = iota
	WritePointerConfig
	WriteConfigMSB
	WriteConfigLSB
	AwaitConfigWrite
	WritePointerConversion
	AwaitPointerWrite
	BeginRead
	ReadMSB
	ReadLSB
	EndRead
	Latch
)

var stateNames = [...]string{
	"Idle",
	"WritePointer(Config)",
	"WriteConfigMSB",
	"WriteConfigLSB",
	"AwaitConfigWrite",
	"WritePointer(Conversion)",
	"AwaitPointerWrite",
	"BeginRead",
	"ReadMSB",
	"ReadLSB",
	"EndRead",
	"Latch",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "State(?)"
}

// Input is sampled by the Machine on every tick.
type Input struct {
	// Reset forces Idle and clears the working and published values.
	Reset bool
	// Start begins a cycle on Channel. It is only honored in Idle.
	Start   bool
	Channel Channel
}

// Machine is the acquisition state machine. Every call to Tick advances it by
// at most one state.
//
// A Machine is not safe for concurrent use; its Register is.
type Machine struct {
	arb    *i2cengine.Arbiter
	addr   uint16
	policy Policy
	reg    *Register

	state   State
	lease   *i2cengine.Lease
	issued  bool
	settle  int
	ch      Channel
	config  uint16
	working uint16
	err     error
}

// NewMachine returns a Machine in Idle talking to the device at addr through
// the engine guarded by a. Results are published to r.
func NewMachine(a *i2cengine.Arbiter, addr uint16, p Policy, r *Register) *Machine {
	return &Machine{arb: a, addr: addr, policy: p, reg: r}
}

// Tick advances the machine by one step.
func (m *Machine) Tick(in Input) {
	if in.Reset {
		m.reset()
		return
	}
	switch m.state {
	case Idle:
		if in.Start {
			m.begin(in.Channel)
		}
	case WritePointerConfig:
		m.transfer(i2cengine.Request{Data: regConfig, Index: 0, Count: 3}, WriteConfigMSB)
	case WriteConfigMSB:
		m.transfer(i2cengine.Request{Data: byte(m.config >> 8), Index: 1, Count: 3}, WriteConfigLSB)
	case WriteConfigLSB:
		m.transfer(i2cengine.Request{Data: byte(m.config), Index: 2, Count: 3}, AwaitConfigWrite)
	case AwaitConfigWrite:
		m.gate(WritePointerConversion)
	case WritePointerConversion:
		m.transfer(i2cengine.Request{Data: regConversion, Index: 0, Count: 1}, AwaitPointerWrite)
	case AwaitPointerWrite:
		m.gate(BeginRead)
	case BeginRead:
		if m.settle > 0 {
			m.settle--
			return
		}
		m.state = ReadMSB
	case ReadMSB:
		if m.transfer(i2cengine.Request{Read: true, Index: 0, Count: 2}, ReadLSB) {
			m.working = uint16(m.lease.Data()) << 8
		}
	case ReadLSB:
		if m.transfer(i2cengine.Request{Read: true, Index: 1, Count: 2}, EndRead) {
			m.working |= uint16(m.lease.Data())
		}
	case EndRead:
		if m.policy.CheckReadAck && m.lease.AckError() {
			m.abort(true)
			return
		}
		m.state = Latch
	case Latch:
		m.reg.publish(Result{
			Sample:   int16(m.working),
			Channel:  m.ch,
			Status:   StatusCompleted,
			AckError: m.lease.AckError(),
		})
		m.finish()
	}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Done reports whether the machine is in Idle, the only state accepting a
// start.
func (m *Machine) Done() bool {
	return m.state == Idle
}

// Status returns StatusInProgress during a cycle and the published status
// otherwise.
func (m *Machine) Status() Status {
	if m.state != Idle {
		return StatusInProgress
	}
	return m.reg.Load().Status
}

// AckError passes the engine's flag through during a cycle and returns the
// published flag otherwise.
func (m *Machine) AckError() bool {
	if m.state != Idle {
		return m.lease.AckError()
	}
	return m.reg.Load().AckError
}

// Sample returns the published sample.
func (m *Machine) Sample() int16 {
	return m.reg.Load().Sample
}

// Err returns why the last start was refused or the last cycle was cut
// short by the engine rejecting a request. It is nil after a cycle that ran
// to Latch or aborted on an acknowledge error.
func (m *Machine) Err() error {
	return m.err
}

func (m *Machine) begin(ch Channel) {
	config, err := ConfigWord(ch, m.policy)
	if err != nil {
		m.err = err
		return
	}
	l, err := m.arb.TryAcquire()
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.lease = l
	m.ch = ch
	m.config = config
	m.working = 0
	m.settle = m.policy.Settle
	m.state = WritePointerConfig
}

// transfer submits r on the first tick of a state and moves to next on the
// first tick where the engine is no longer busy. It reports whether it moved.
func (m *Machine) transfer(r i2cengine.Request, next State) bool {
	if m.lease.Busy() {
		return false
	}
	if !m.issued {
		r.Addr = m.addr
		if err := m.lease.Submit(r); err != nil {
			m.err = err
			m.abort(false)
			return false
		}
		m.issued = true
		return false
	}
	m.issued = false
	m.state = next
	return true
}

func (m *Machine) gate(next State) {
	if m.lease.AckError() {
		m.abort(true)
		return
	}
	m.state = next
}

// abort publishes the previous sample with an aborted status.
func (m *Machine) abort(ackErr bool) {
	prev := m.reg.Load()
	m.reg.publish(Result{
		Sample:   prev.Sample,
		Channel:  prev.Channel,
		Status:   StatusAborted,
		AckError: ackErr,
	})
	m.finish()
}

func (m *Machine) finish() {
	if m.lease != nil {
		m.lease.Release()
		m.lease = nil
	}
	m.state = Idle
	m.issued = false
	m.config = 0
	m.working = 0
}

func (m *Machine) reset() {
	m.finish()
	m.err = nil
	m.settle = 0
	m.reg.clear()
}
