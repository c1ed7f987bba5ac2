// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ads1115

import (
	"sync"
	"sync/atomic"
)

// Status is the outcome of an acquisition cycle.
type Status uint8

const (
	// StatusIdle is the state after reset, before any cycle ended.
	StatusIdle Status = iota
	// StatusInProgress is reported by Machine.Status while a cycle runs. It
	// is never published.
	StatusInProgress
	StatusCompleted
	// StatusAborted means the device did not acknowledge a write.
	StatusAborted
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusInProgress:
		return "in-progress"
	case StatusCompleted:
		return "completed"
	case StatusAborted:
		return "aborted"
	}
	return "invalid"
}

// Result is a published snapshot.
type Result struct {
	// Sample is the last successfully converted value. An aborted cycle
	// leaves it unchanged.
	Sample int16
	// Channel is the input Sample was taken from.
	Channel  Channel
	Status   Status
	AckError bool
	// Seq counts published cycles since the last reset.
	Seq uint64
}

// Register holds the last Result. The Machine is its only writer; readers
// always get a consistent snapshot.
//
// The zero value is ready to use.
type Register struct {
	v atomic.Pointer[Result]

	mu      sync.Mutex
	changed chan struct{}
}

// Load returns the current snapshot.
func (r *Register) Load() Result {
	if p := r.v.Load(); p != nil {
		return *p
	}
	return Result{}
}

// Changed returns a channel closed on the next publish or reset.
func (r *Register) Changed() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.changed == nil {
		r.changed = make(chan struct{})
	}
	return r.changed
}

func (r *Register) publish(res Result) {
	res.Seq = r.Load().Seq + 1
	r.store(res)
}

func (r *Register) clear() {
	r.store(Result{})
}

func (r *Register) store(res Result) {
	r.v.Store(&res)
	r.mu.Lock()
	if r.changed != nil {
		close(r.changed)
		r.changed = nil
	}
	r.mu.Unlock()
}
