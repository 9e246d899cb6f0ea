// Copyright 2025 The LMT01 Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package lmt01

import (
	"errors"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
)

// Counter abstracts the timer/counter peripheral that accumulates the
// sensor's output pulses. One implementation per platform: a hardware timer
// fed by the sensor pin, or gpiopulse.PinCounter where only edge detection is
// available.
//
// The driver always sequences a measurement window as Stop, Reset, Start,
// wait, Stop, Count. Implementations do not need to be safe for concurrent
// use; Dev serializes access.
type Counter interface {
	// Start begins accumulating pulses.
	Start() error
	// Stop stops accumulating pulses. The count is retained.
	Stop() error
	// Reset zeroes the accumulated count.
	Reset() error
	// Count returns the accumulated count.
	Count() (uint32, error)
}

// Measurement windows. The sensor emits one pulse train roughly every 100ms
// and a train lasts at most 104ms (datasheet section 7.3.1). A quiet 10ms
// window means no train is in flight.
const (
	probeWindow  = 60 * time.Millisecond
	settleWindow = 10 * time.Millisecond
	readWindow   = 104 * time.Millisecond
)

// Opts holds the configuration options for the device.
type Opts struct {
	// Mode selects the pulse count to temperature conversion. Default is
	// LookupTable.
	Mode ConversionMode
	// SettleTimeout bounds the wait for an in-flight pulse train to finish
	// before a measurement window opens. Default is 1s. 0 means default.
	SettleTimeout time.Duration
}

// DefaultOpts holds the default configuration options for the device.
var DefaultOpts = Opts{
	Mode:          LookupTable,
	SettleTimeout: time.Second,
}

// Dev is a handle to an LMT01 sensor behind a pulse counter peripheral.
type Dev struct {
	c    Counter
	opts Opts

	mu       sync.Mutex
	shutdown chan struct{}
}

// New returns an object that reads the LMT01 through the supplied pulse
// counter. The Opts can be nil.
//
// New probes the sensor by counting pulses over a 60ms window; if no pulse
// arrives the device is considered absent and a DeviceNotFoundError is
// returned.
func New(c Counter, opts *Opts) (*Dev, error) {
	if c == nil {
		return nil, errors.New("lmt01: nil counter")
	}
	if opts == nil {
		opts = &DefaultOpts
	}
	o := *opts
	if o.SettleTimeout <= 0 {
		o.SettleTimeout = DefaultOpts.SettleTimeout
	}

	d := &Dev{c: c, opts: o}
	pulses, err := d.countPulses(probeWindow)
	if err != nil {
		return nil, err
	}
	if pulses == 0 {
		return nil, &DeviceNotFoundError{}
	}
	return d, nil
}

func (d *Dev) String() string {
	return "lmt01{" + d.opts.Mode.String() + "}"
}

// ReadPulseCount acquires one raw pulse train count from the sensor.
//
// If pulses arrive during a 10ms guard window the sensor is in the middle of
// an output train; guard windows repeat until a quiet one is observed,
// bounded by Opts.SettleTimeout. The train is then accumulated over the
// nominal 104ms window. A zero count means the device stopped responding and
// returns a DeviceNotFoundError, never a zero reading.
func (d *Dev) ReadPulseCount() (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readPulseCount()
}

func (d *Dev) readPulseCount() (uint32, error) {
	deadline := time.Now().Add(d.opts.SettleTimeout)
	for {
		n, err := d.countPulses(settleWindow)
		if err != nil {
			return 0, err
		}
		if n == 0 {
			break
		}
		if time.Now().After(deadline) {
			return 0, &ReadTimeoutError{}
		}
	}

	pulses, err := d.countPulses(readWindow)
	if err != nil {
		return 0, err
	}
	if pulses == 0 {
		return 0, &DeviceNotFoundError{}
	}
	return pulses, nil
}

// countPulses counts the pulses received over one window.
func (d *Dev) countPulses(window time.Duration) (uint32, error) {
	if err := d.c.Stop(); err != nil {
		return 0, err
	}
	if err := d.c.Reset(); err != nil {
		return 0, err
	}
	if err := d.c.Start(); err != nil {
		return 0, err
	}
	sleep(window)
	if err := d.c.Stop(); err != nil {
		return 0, err
	}
	return d.c.Count()
}

// Sense implements physic.SenseEnv. It acquires one pulse train and writes
// the converted temperature to e. A reading takes at least 114ms.
func (d *Dev) Sense(e *physic.Env) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	pulses, err := d.readPulseCount()
	if err != nil {
		return err
	}
	t, err := PulsesToTemperature(pulses, d.opts.Mode)
	if err != nil {
		return err
	}
	e.Temperature = t
	return nil
}

// SenseContinuous implements physic.SenseEnv. It returns a channel that
// receives a measurement every interval. To terminate the continuous read,
// call Halt().
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval < settleWindow+readWindow {
		return nil, errors.New("lmt01: interval must be at least 114ms")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		return nil, errors.New("lmt01: already sensing continuously")
	}

	channelSize := 16
	channel := make(chan physic.Env, channelSize)
	d.shutdown = make(chan struct{})
	go func(channel chan physic.Env, shutdown <-chan struct{}) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-shutdown:
				close(channel)
				return
			case <-ticker.C:
				e := physic.Env{}
				if err := d.Sense(&e); err == nil && len(channel) < channelSize {
					channel <- e
				}
			}
		}
	}(channel, d.shutdown)

	return channel, nil
}

// Precision implements physic.SenseEnv. One pulse step is 0.0625°C.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = 62_500 * physic.MicroKelvin
	e.Pressure = 0
	e.Humidity = 0
}

// Halt stops the counter and aborts a SenseContinuous operation if one is in
// progress. Implements conn.Resource.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.shutdown != nil {
		close(d.shutdown)
		d.shutdown = nil
	}
	return d.c.Stop()
}

var sleep = time.Sleep

var _ conn.Resource = &Dev{}
var _ physic.SenseEnv = &Dev{}
