// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package enginetest

import (
	"testing"

	"github.com/GermanBionicSystems/adsacq/i2cengine"
)

func TestPlayback(t *testing.T) {
	r := i2cengine.Request{Addr: 0x48, Read: true, Count: 1}
	p := &Playback{Ops: []IO{{Request: r, R: 0x42, AckError: true, Latency: 2}}, DontPanic: true}
	if err := p.Close(); err == nil {
		t.Error("expected unconsumed ops error")
	}
	if err := p.Submit(r); err != nil {
		t.Fatal(err)
	}
	if err := p.Submit(r); err == nil {
		t.Error("expected an error submitting while busy")
	}
	for i := 0; i < 2; i++ {
		if !p.Busy() {
			t.Errorf("poll %d: not busy", i)
		}
	}
	if p.Busy() {
		t.Error("still busy")
	}
	if p.Data() != 0x42 || !p.AckError() {
		t.Errorf("got %#x %t", p.Data(), p.AckError())
	}
	if err := p.Submit(r); err == nil {
		t.Error("expected an error past the end of the playback")
	}
	if err := p.Close(); err != nil {
		t.Error(err)
	}
}

func TestPlaybackAckErrorSticky(t *testing.T) {
	burst := func(i int, nack bool) IO {
		return IO{Request: i2cengine.Request{Addr: 0x48, Data: byte(i), Index: i, Count: 3}, AckError: nack}
	}
	p := &Playback{
		Ops: []IO{
			burst(0, true), burst(1, false), burst(2, false),
			burst(0, false),
		},
		DontPanic: true,
	}
	for i, op := range p.Ops {
		if err := p.Submit(op.Request); err != nil {
			t.Fatal(err)
		}
		want := i < 3
		if got := p.AckError(); got != want {
			t.Errorf("op %d: got ack error %t expected %t", i, got, want)
		}
	}
}

func TestPlaybackMismatch(t *testing.T) {
	p := &Playback{Ops: []IO{{Request: i2cengine.Request{Addr: 0x48, Count: 1}}}, DontPanic: true}
	if err := p.Submit(i2cengine.Request{Addr: 0x49, Count: 1}); err == nil {
		t.Error("expected a mismatch error")
	}
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	p.DontPanic = false
	_ = p.Submit(i2cengine.Request{Addr: 0x49, Count: 1})
}

func TestRecord(t *testing.T) {
	r := &Record{}
	req := i2cengine.Request{Addr: 0x48, Data: 1, Count: 1}
	if err := r.Submit(req); err != nil {
		t.Fatal(err)
	}
	if r.Busy() || r.AckError() || r.Data() != 0 {
		t.Error("empty record reports activity")
	}
	if len(r.Ops) != 1 || r.Ops[0] != req {
		t.Errorf("got %v", r.Ops)
	}
}
