// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package i2cengine

import (
	"errors"
	"testing"
)

// fake is an Engine completing every request at once.
type fake struct {
	reqs []Request
	busy bool
	ack  bool
}

func (f *fake) Submit(r Request) error { f.reqs = append(f.reqs, r); return nil }
func (f *fake) Busy() bool             { return f.busy }
func (f *fake) Data() byte             { return 0x5a }
func (f *fake) AckError() bool         { return f.ack }

func TestArbiterExclusive(t *testing.T) {
	f := &fake{}
	a := NewArbiter(f)
	if a.Engine() != f {
		t.Error("Engine()")
	}
	l, err := a.TryAcquire()
	if err != nil {
		t.Fatal(err)
	}
	if !a.Held() {
		t.Error("lease not held")
	}
	if _, err := a.TryAcquire(); !errors.Is(err, ErrClaimed) {
		t.Errorf("got %v expected %v", err, ErrClaimed)
	}
	if err := l.Submit(Request{Addr: 0x48, Count: 1}); err != nil {
		t.Error(err)
	}
	if l.Data() != 0x5a {
		t.Error("Data() not passed through")
	}

	l.Release()
	l.Release()
	if a.Held() {
		t.Error("lease still held")
	}
	if err := l.Submit(Request{Addr: 0x48, Count: 1}); !errors.Is(err, ErrLeaseReleased) {
		t.Errorf("got %v expected %v", err, ErrLeaseReleased)
	}
	f.busy, f.ack = true, true
	if l.Busy() || l.AckError() || l.Data() != 0 {
		t.Error("released lease reports engine status")
	}

	l2, err := a.TryAcquire()
	if err != nil {
		t.Fatal(err)
	}
	defer l2.Release()
	if !l2.Busy() || !l2.AckError() {
		t.Error("status not passed through")
	}
	if err := l2.Submit(Request{Addr: 0x48, Count: 1}); !errors.Is(err, ErrBusy) {
		t.Errorf("got %v expected %v", err, ErrBusy)
	}
	if len(f.reqs) != 1 {
		t.Errorf("engine got %d requests, expected 1", len(f.reqs))
	}
}
