// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package ads1115

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/GermanBionicSystems/adsacq/i2cengine"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// Addresses selected by the ADDR pin.
const (
	AddrGND uint16 = 0x48
	AddrVDD uint16 = 0x49
	AddrSDA uint16 = 0x4a
	AddrSCL uint16 = 0x4b

	// DefaultAddress is the address with ADDR tied to GND.
	DefaultAddress = AddrGND
)

// Opts holds the configuration for a Dev.
type Opts struct {
	Policy Policy
	// Tick is the period between two machine steps. Zero means
	// DefaultOpts.Tick.
	//
	// When Policy.Settle is zero, Dev derives it from the data rate and Tick
	// so the conversion is finished before the read phase.
	Tick time.Duration
}

// DefaultOpts are the recommended default options.
var DefaultOpts = Opts{
	Policy: DefaultPolicy,
	Tick:   100 * time.Microsecond,
}

// Reading is a sample delivered by SenseContinuous.
type Reading struct {
	Channel Channel
	analog.Sample
}

var (
	// ErrAck is returned when a cycle aborted because the device did not
	// acknowledge.
	ErrAck = errors.New("ads1115: device did not acknowledge")
	// ErrReset is returned by a Read cut short by Reset.
	ErrReset    = errors.New("ads1115: cycle reset")
	errInterval = errors.New("ads1115: interval shorter than one conversion")
)

// Dev is a handle to an ADS1115.
type Dev struct {
	name string
	opts Opts
	reg  *Register
	arb  *i2cengine.Arbiter

	mu    sync.Mutex
	m     *Machine
	reset chan struct{}

	smu      sync.Mutex
	shutdown chan struct{}
}

// NewI2C returns a Dev for the ADS1115 at addr on b.
func NewI2C(b i2c.Bus, addr uint16, opts *Opts) (*Dev, error) {
	d, err := New(i2cengine.NewArbiter(i2cengine.FromBus(b)), addr, opts)
	if err != nil {
		return nil, err
	}
	d.name = fmt.Sprintf("ads1115: %s(%d)", b, addr)
	return d, nil
}

// New returns a Dev driving the device at addr through the engine guarded by
// a. Several Devs may share one Arbiter; their cycles never overlap on the
// bus.
func New(a *i2cengine.Arbiter, addr uint16, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if addr > 0x7f {
		return nil, fmt.Errorf("ads1115: invalid address %#x", addr)
	}
	if o.Tick <= 0 {
		o.Tick = DefaultOpts.Tick
	}
	if o.Policy.Settle == 0 {
		o.Policy.Settle = settleTicks(o.Policy.DataRate, o.Tick)
	}
	if _, err := ConfigWord(Channel0, o.Policy); err != nil {
		return nil, err
	}
	d := &Dev{
		name:  fmt.Sprintf("ads1115: %#x", addr),
		opts:  o,
		reg:   &Register{},
		arb:   a,
		reset: make(chan struct{}, 1),
	}
	d.m = NewMachine(a, addr, o.Policy, d.reg)
	return d, nil
}

// settleTicks covers one conversion plus the 10% oscillator tolerance of the
// datasheet.
func settleTicks(r DataRate, tick time.Duration) int {
	t := r.ConversionTime()
	t += t / 10
	return int((t + tick - 1) / tick)
}

// Read runs one acquisition cycle on ch.
func (d *Dev) Read(ch Channel) (analog.Sample, error) {
	return d.ReadContext(context.Background(), ch)
}

// ReadContext runs one acquisition cycle on ch.
//
// A cycle can't be cancelled half way: if ctx is done before the cycle ends,
// the machine is reset, which also clears the published Result.
func (d *Dev) ReadContext(ctx context.Context, ch Channel) (analog.Sample, error) {
	if !ch.Valid() {
		return analog.Sample{}, ErrInvalidChannel
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	raw, err := d.cycle(ctx, ch)
	if err != nil {
		return analog.Sample{}, err
	}
	return d.toSample(raw), nil
}

func (d *Dev) cycle(ctx context.Context, ch Channel) (int16, error) {
	t := time.NewTicker(d.opts.Tick)
	defer t.Stop()

	// While another Dev sharing the arbiter owns the bus the start is not
	// honored; try again on every tick.
	for {
		d.m.Tick(Input{Start: true, Channel: ch})
		if !d.m.Done() {
			break
		}
		if err := d.m.Err(); !errors.Is(err, i2cengine.ErrClaimed) {
			return 0, fmt.Errorf("ads1115: start %s: %w", ch, err)
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-d.reset:
			d.m.Tick(Input{Reset: true})
			return 0, ErrReset
		case <-t.C:
		}
	}

	for !d.m.Done() {
		select {
		case <-ctx.Done():
			d.m.Tick(Input{Reset: true})
			return 0, ctx.Err()
		case <-d.reset:
			d.m.Tick(Input{Reset: true})
			return 0, ErrReset
		case <-t.C:
			d.m.Tick(Input{})
		}
	}

	if err := d.m.Err(); err != nil {
		return 0, fmt.Errorf("ads1115: %s: %w", ch, err)
	}
	res := d.reg.Load()
	if res.Status == StatusAborted {
		return 0, fmt.Errorf("ads1115: %s: %w", ch, ErrAck)
	}
	return res.Sample, nil
}

func (d *Dev) toSample(raw int16) analog.Sample {
	fs := int64(d.opts.Policy.Gain.FullScale())
	return analog.Sample{
		V:   physic.ElectricPotential(int64(raw) * fs / 32768),
		Raw: int32(raw),
	}
}

// Range returns the extreme samples for the configured gain.
func (d *Dev) Range() (analog.Sample, analog.Sample) {
	return d.toSample(-32768), d.toSample(32767)
}

// Result returns the last published Result.
func (d *Dev) Result() Result {
	return d.reg.Load()
}

// Register returns the Register the Dev publishes to, for consumers waiting
// on new results.
func (d *Dev) Register() *Register {
	return d.reg
}

// Reset forces the machine back to Idle and clears the published Result. A
// Read in progress, even one stalled on a wedged bus, returns ErrReset.
func (d *Dev) Reset() {
	select {
	case d.reset <- struct{}{}:
	default:
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	select {
	case <-d.reset:
	default:
	}
	d.m.Tick(Input{Reset: true})
}

// SenseContinuous runs a single-shot cycle on ch every interval and sends the
// samples on the returned channel. Failed cycles are skipped. Call Halt to
// stop it; the channel is then closed.
func (d *Dev) SenseContinuous(ch Channel, interval time.Duration) (<-chan Reading, error) {
	if !ch.Valid() {
		return nil, ErrInvalidChannel
	}
	if interval < d.opts.Policy.DataRate.ConversionTime() {
		return nil, errInterval
	}
	d.smu.Lock()
	if d.shutdown != nil {
		close(d.shutdown)
	}
	shutdown := make(chan struct{})
	d.shutdown = shutdown
	d.smu.Unlock()

	channelSize := 16
	readings := make(chan Reading, channelSize)
	go func() {
		defer close(readings)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			<-shutdown
			cancel()
		}()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-shutdown:
				return
			case <-ticker.C:
				s, err := d.ReadContext(ctx, ch)
				if err == nil && len(readings) < channelSize {
					readings <- Reading{Channel: ch, Sample: s}
				}
			}
		}
	}()
	return readings, nil
}

// Halt stops a running SenseContinuous, resetting the machine if it is
// stalled in a cycle. Implements conn.Resource.
func (d *Dev) Halt() error {
	d.smu.Lock()
	defer d.smu.Unlock()
	if d.shutdown != nil {
		close(d.shutdown)
		d.shutdown = nil
	}
	return nil
}

func (d *Dev) String() string {
	return d.name
}

var _ conn.Resource = &Dev{}
