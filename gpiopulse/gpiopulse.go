// Copyright 2025 The LMT01 Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gpiopulse counts pulses on a GPIO pin.
//
// It emulates the hardware timer/counter peripheral the lmt01 driver expects
// on platforms that only expose edge detection. Counting in software is fine
// for the LMT01's ~88kHz pulse rate on a Raspberry Pi class host, but a
// hardware counter should be preferred where one is available.
package gpiopulse

import (
	"sync"
	"sync/atomic"
	"time"

	"periph.io/x/conn/v3/gpio"

	"github.com/pulseio/lmt01"
)

// pollTimeout bounds each edge wait so the counting goroutine can observe
// Stop.
const pollTimeout = 5 * time.Millisecond

// PinCounter implements lmt01.Counter by counting rising edges on a pin.
type PinCounter struct {
	p gpio.PinIn
	n uint32 // atomic

	mu   sync.Mutex
	stop chan struct{}
	wg   sync.WaitGroup
}

// New configures p for rising edge detection and returns a counter for it.
//
// The sensor's output must be conditioned to logic levels, typically with
// the comparator circuit from the datasheet's application section.
func New(p gpio.PinIn) (*PinCounter, error) {
	if err := p.In(gpio.PullDown, gpio.RisingEdge); err != nil {
		return nil, err
	}
	return &PinCounter{p: p}, nil
}

func (c *PinCounter) String() string {
	return "gpiopulse{" + c.p.Name() + "}"
}

// Start implements lmt01.Counter. It launches the counting goroutine.
// Starting an already started counter is a no-op.
func (c *PinCounter) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		return nil
	}
	c.stop = make(chan struct{})
	c.wg.Add(1)
	go func(stop <-chan struct{}) {
		defer c.wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			if c.p.WaitForEdge(pollTimeout) {
				atomic.AddUint32(&c.n, 1)
			}
		}
	}(c.stop)
	return nil
}

// Stop implements lmt01.Counter. It waits for the counting goroutine to
// finish; the accumulated count is retained.
func (c *PinCounter) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop == nil {
		return nil
	}
	close(c.stop)
	c.wg.Wait()
	c.stop = nil
	return nil
}

// Reset implements lmt01.Counter.
func (c *PinCounter) Reset() error {
	atomic.StoreUint32(&c.n, 0)
	return nil
}

// Count implements lmt01.Counter.
func (c *PinCounter) Count() (uint32, error) {
	return atomic.LoadUint32(&c.n), nil
}

var _ lmt01.Counter = &PinCounter{}
