// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ads1115

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GermanBionicSystems/adsacq/i2cengine"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

var fastOpts = Opts{
	Policy: Policy{Gain: Gain4V096, DataRate: Rate860},
	Tick:   50 * time.Microsecond,
}

func readIO(ch Channel, p Policy, msb, lsb byte) []i2ctest.IO {
	w, _ := ConfigWord(ch, p)
	return []i2ctest.IO{
		{Addr: addr, W: []byte{regConfig, byte(w >> 8), byte(w)}},
		{Addr: addr, W: []byte{regConversion}},
		{Addr: addr, R: []byte{msb, lsb}},
	}
}

func TestRead(t *testing.T) {
	pb := &i2ctest.Playback{Ops: readIO(Channel1, fastOpts.Policy, 0x01, 0x23), DontPanic: true}
	defer pb.Close()
	record := &i2ctest.Record{Bus: pb}

	dev, err := NewI2C(record, addr, &fastOpts)
	if err != nil {
		t.Fatal(err)
	}
	s, err := dev.Read(Channel1)
	if err != nil {
		t.Fatal(err)
	}
	if s.Raw != 291 {
		t.Errorf("got raw %d expected 291", s.Raw)
	}
	if s.V != 36375*physic.MicroVolt {
		t.Errorf("got %s expected 36.375mV", s.V)
	}
	if r := dev.Result(); r.Status != StatusCompleted || r.AckError || r.Sample != 291 {
		t.Errorf("got %+v", r)
	}
	if err := pb.Close(); err != nil {
		t.Error(err)
	}
	t.Logf("record.ops=%#v", record.Ops)
}

func TestReadSequence(t *testing.T) {
	var ops []i2ctest.IO
	ops = append(ops, readIO(Channel0, fastOpts.Policy, 0x80, 0x00)...)
	ops = append(ops, readIO(Channel3, fastOpts.Policy, 0x7f, 0xff)...)
	pb := &i2ctest.Playback{Ops: ops, DontPanic: true}
	defer pb.Close()

	dev, err := NewI2C(pb, addr, &fastOpts)
	if err != nil {
		t.Fatal(err)
	}
	lo, err := dev.Read(Channel0)
	if err != nil {
		t.Fatal(err)
	}
	hi, err := dev.Read(Channel3)
	if err != nil {
		t.Fatal(err)
	}
	lowest, highest := dev.Range()
	if lo != lowest || hi != highest {
		t.Errorf("got %+v %+v expected %+v %+v", lo, hi, lowest, highest)
	}
	if lowest.V != -4096*physic.MilliVolt {
		t.Errorf("got min %s", lowest.V)
	}
	if r := dev.Result(); r.Channel != Channel3 || r.Seq != 2 {
		t.Errorf("got %+v", r)
	}
}

type nackBus struct {
	i2ctest.Playback
}

func (n *nackBus) Tx(addr uint16, w, r []byte) error {
	return errors.New("remote I/O error")
}

func TestReadNack(t *testing.T) {
	dev, err := NewI2C(&nackBus{}, addr, &fastOpts)
	if err != nil {
		t.Fatal(err)
	}
	_, err = dev.Read(Channel2)
	if !errors.Is(err, ErrAck) {
		t.Fatalf("got %v expected %v", err, ErrAck)
	}
	if r := dev.Result(); r.Status != StatusAborted || !r.AckError || r.Sample != 0 {
		t.Errorf("got %+v", r)
	}
}

type stuckBus struct {
	i2ctest.Playback
	release chan struct{}
}

func (s *stuckBus) Tx(addr uint16, w, r []byte) error {
	<-s.release
	return nil
}

func TestReadContextStalled(t *testing.T) {
	bus := &stuckBus{release: make(chan struct{})}
	defer close(bus.release)
	dev, err := NewI2C(bus, addr, &fastOpts)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = dev.ReadContext(ctx, Channel0)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v", err)
	}
	if !dev.m.Done() || dev.arb.Held() {
		t.Errorf("machine not reset: %s", dev.m.State())
	}
	if r := dev.Result(); r != (Result{}) {
		t.Errorf("result not cleared: %+v", r)
	}
}

func TestResetStalledRead(t *testing.T) {
	bus := &stuckBus{release: make(chan struct{})}
	defer close(bus.release)
	dev, err := NewI2C(bus, addr, &fastOpts)
	if err != nil {
		t.Fatal(err)
	}
	errc := make(chan error, 1)
	go func() {
		_, err := dev.Read(Channel0)
		errc <- err
	}()
	for deadline := time.Now().Add(time.Second); !dev.arb.Held(); {
		if time.Now().After(deadline) {
			t.Fatal("cycle never started")
		}
		time.Sleep(time.Millisecond)
	}

	done := make(chan struct{})
	go func() {
		dev.Reset()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Reset blocked behind a stalled Read")
	}
	if err := <-errc; !errors.Is(err, ErrReset) {
		t.Fatalf("got %v expected %v", err, ErrReset)
	}
	if !dev.m.Done() || dev.arb.Held() {
		t.Errorf("machine not reset: %s", dev.m.State())
	}
	if r := dev.Result(); r != (Result{}) {
		t.Errorf("result not cleared: %+v", r)
	}
}

func TestResetIdle(t *testing.T) {
	dev, err := NewI2C(&i2ctest.Playback{DontPanic: true}, addr, &fastOpts)
	if err != nil {
		t.Fatal(err)
	}
	dev.Reset()
	if len(dev.reset) != 0 {
		t.Error("reset request left pending")
	}
	if !dev.m.Done() {
		t.Errorf("got %s", dev.m.State())
	}
}

func TestReadSharedArbiter(t *testing.T) {
	pb := &i2ctest.Playback{DontPanic: true}
	arb := i2cengine.NewArbiter(i2cengine.FromBus(pb))
	dev, err := New(arb, addr, &fastOpts)
	if err != nil {
		t.Fatal(err)
	}
	l, err := arb.TryAcquire()
	if err != nil {
		t.Fatal(err)
	}
	defer l.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, err := dev.ReadContext(ctx, Channel0); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v", err)
	}
	if pb.Count != 0 {
		t.Errorf("%d transactions while the bus was claimed", pb.Count)
	}
}

func TestReadInvalid(t *testing.T) {
	dev, err := NewI2C(&i2ctest.Playback{}, addr, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := dev.Read(Channel(4)); !errors.Is(err, ErrInvalidChannel) {
		t.Errorf("got %v", err)
	}
	if _, err := dev.PinForChannel(Channel(9)); !errors.Is(err, ErrInvalidChannel) {
		t.Errorf("got %v", err)
	}
	if _, err := dev.SenseContinuous(Channel(4), time.Second); !errors.Is(err, ErrInvalidChannel) {
		t.Errorf("got %v", err)
	}
	if _, err := dev.SenseContinuous(Channel0, time.Millisecond); err == nil {
		t.Error("expected an error for an interval shorter than a conversion")
	}
}

func TestNewInvalid(t *testing.T) {
	if _, err := NewI2C(&i2ctest.Playback{}, 0x80, nil); err == nil {
		t.Error("expected an error for a 10 bit address")
	}
	if _, err := NewI2C(&i2ctest.Playback{}, addr, &Opts{Policy: Policy{Gain: 9}}); !errors.Is(err, ErrInvalidPolicy) {
		t.Errorf("got %v", err)
	}
}

func TestDefaultSettle(t *testing.T) {
	dev, err := NewI2C(&i2ctest.Playback{}, addr, nil)
	if err != nil {
		t.Fatal(err)
	}
	// 7.8125ms + 10% at 100µs per tick.
	if s := dev.opts.Policy.Settle; s != 86 {
		t.Errorf("got settle %d expected 86", s)
	}
	if DefaultOpts.Policy.Settle != 0 {
		t.Error("DefaultOpts modified")
	}
}

func TestPin(t *testing.T) {
	pb := &i2ctest.Playback{Ops: readIO(Channel2, fastOpts.Policy, 0x10, 0x00), DontPanic: true}
	defer pb.Close()
	dev, err := NewI2C(pb, addr, &fastOpts)
	if err != nil {
		t.Fatal(err)
	}
	p, err := dev.PinForChannel(Channel2)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "AIN2" || p.Number() != 2 || p.Function() != "ADC" {
		t.Errorf("got %s %d %s", p.Name(), p.Number(), p.Function())
	}
	t.Log(p.String())
	s, err := p.Read()
	if err != nil {
		t.Fatal(err)
	}
	if s.Raw != 0x1000 || s.V != 512*physic.MilliVolt {
		t.Errorf("got %+v", s)
	}
	if err := p.Halt(); err != nil {
		t.Error(err)
	}
}

func TestSenseContinuous(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03}
	var ops []i2ctest.IO
	for _, b := range raw {
		ops = append(ops, readIO(Channel1, fastOpts.Policy, 0, b)...)
	}
	pb := &i2ctest.Playback{Ops: ops, DontPanic: true}
	dev, err := NewI2C(pb, addr, &fastOpts)
	if err != nil {
		t.Fatal(err)
	}
	ch, err := dev.SenseContinuous(Channel1, 5*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range raw {
		r := <-ch
		if r.Channel != Channel1 || r.Raw != int32(b) {
			t.Errorf("got %+v expected raw %d", r, b)
		}
	}
	if err := dev.Halt(); err != nil {
		t.Error(err)
	}
	for range ch {
	}
}

func TestString(t *testing.T) {
	dev, err := NewI2C(&i2ctest.Playback{}, addr, nil)
	if err != nil {
		t.Fatal(err)
	}
	s := dev.String()
	t.Log(s)
	if len(s) == 0 {
		t.Error("invalid String() result")
	}
}
