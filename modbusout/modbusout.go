// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package modbusout mirrors ads1115 results into the holding registers of a
// Modbus TCP server, so a PLC or SCADA system can poll them.
//
// Register layout, starting at the configured base address:
//
//	base+0  sample, two's complement
//	base+1  status (0 idle, 2 completed, 3 aborted)
//	base+2  acknowledge error flag
//	base+3  channel
//	base+4  sequence number bits 31..16
//	base+5  sequence number bits 15..0
//
// Only the low 32 bits of the sequence number are sent: the register pair
// wraps to 0 after 2^32-1 published results.
package modbusout

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/adsacq/ads1115"
	"github.com/goburrow/modbus"
)

// Registers is the number of holding registers written per result.
const Registers = 6

// RegisterWriter is the part of modbus.Client used by a Publisher.
type RegisterWriter interface {
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// Config describes the Modbus TCP endpoint.
type Config struct {
	Endpoint string
	UnitID   uint8
	Timeout  time.Duration
	// Address is the first holding register written.
	Address uint16
}

// Publisher writes results to a Modbus server.
type Publisher struct {
	mu      sync.Mutex
	w       RegisterWriter
	base    uint16
	handler *modbus.TCPClientHandler
}

// Dial connects to the endpoint in cfg.
func Dial(cfg Config) (*Publisher, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("modbusout: endpoint required")
	}
	h := modbus.NewTCPClientHandler(cfg.Endpoint)
	if cfg.Timeout > 0 {
		h.Timeout = cfg.Timeout
	}
	h.SlaveId = cfg.UnitID
	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("modbusout: connect %s: %w", cfg.Endpoint, err)
	}
	p := New(modbus.NewClient(h), cfg.Address)
	p.handler = h
	return p, nil
}

// New returns a Publisher writing through w at base.
func New(w RegisterWriter, base uint16) *Publisher {
	return &Publisher{w: w, base: base}
}

// Render writes r. It implements monitor.Renderer.
func (p *Publisher) Render(r ads1115.Result) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.w.WriteMultipleRegisters(p.base, Registers, Encode(r)); err != nil {
		return fmt.Errorf("modbusout: write %d: %w", p.base, err)
	}
	return nil
}

// Close closes the connection opened by Dial.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.handler == nil {
		return nil
	}
	return p.handler.Close()
}

// Encode packs r into the register layout, big endian.
func Encode(r ads1115.Result) []byte {
	var ack uint16
	if r.AckError {
		ack = 1
	}
	regs := [Registers]uint16{
		uint16(r.Sample),
		uint16(r.Status),
		ack,
		uint16(r.Channel),
		uint16(uint32(r.Seq) >> 16),
		uint16(r.Seq),
	}
	out := make([]byte, 2*Registers)
	for i, v := range regs {
		binary.BigEndian.PutUint16(out[2*i:], v)
	}
	return out
}
